// Package cli implements the non-interactive lazybranch subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chmouel/lazybranch/internal/git"
	log "github.com/chmouel/lazybranch/internal/log"
	"github.com/chmouel/lazybranch/internal/models"
	"golang.org/x/term"
)

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("aborted")

type branchService interface {
	ResolveRepository(ctx context.Context, dir string) (models.Repository, error)
	FindBranch(ctx context.Context, repo models.Repository, name string) (models.Branch, error)
	CheckBranchExistsOnRemote(ctx context.Context, repo models.Repository, branch models.Branch) (bool, error)
	DeleteBranch(ctx context.Context, repo models.Repository, branch models.Branch, includeRemote, force bool) error
}

var _ branchService = (*git.Service)(nil)

// DeleteOptions configures DeleteBranch.
type DeleteOptions struct {
	Dir    string
	Branch string
	Remote bool // also delete the upstream branch when it still exists
	Force  bool
	Yes    bool // skip the confirmation prompt

	// Interactive allows prompting on Stdin. Without it, Yes is required.
	Interactive bool
	Stdin       io.Reader
	Stderr      io.Writer
	Logger      log.Logger
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115 -- file descriptors fit in int
}

// DeleteBranch deletes a local branch and, when asked and the branch still
// exists remotely, its upstream branch.
func DeleteBranch(ctx context.Context, svc branchService, opts DeleteOptions) error {
	if opts.Branch == "" {
		return fmt.Errorf("a branch name is required")
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}

	repo, err := svc.ResolveRepository(ctx, opts.Dir)
	if err != nil {
		return err
	}
	branch, err := svc.FindBranch(ctx, repo, opts.Branch)
	if err != nil {
		return err
	}
	if branch.IsCurrent {
		return fmt.Errorf("cannot delete %s: it is the checked-out branch", branch.Name)
	}

	includeRemote := false
	if opts.Remote {
		includeRemote = resolveRemoteDeletion(ctx, svc, repo, branch, logger, stderr)
	}

	if !opts.Yes {
		if !opts.Interactive {
			return fmt.Errorf("refusing to delete %s without --yes when stdin is not a terminal", branch.Name)
		}
		if !confirmDeletion(branch, includeRemote, opts.Stdin, stderr) {
			return ErrAborted
		}
	}

	if err := svc.DeleteBranch(ctx, repo, branch, includeRemote, opts.Force); err != nil {
		if errors.Is(err, git.ErrBranchNotMerged) {
			return fmt.Errorf("%w (use --force to delete it anyway)", err)
		}
		return err
	}
	return nil
}

// resolveRemoteDeletion decides whether the remote branch is deleted too. A
// failed existence check is treated as "absent" so only the local branch goes.
func resolveRemoteDeletion(ctx context.Context, svc branchService, repo models.Repository, branch models.Branch, logger log.Logger, stderr io.Writer) bool {
	if !branch.IsRemoteTracking() {
		fmt.Fprintf(stderr, "%s has no upstream branch, deleting it locally only\n", branch.Name)
		return false
	}
	exists, err := svc.CheckBranchExistsOnRemote(ctx, repo, branch)
	if err != nil {
		log.Tagged(logger, "delete", branch.Name).Warnf("unable to resolve remote branch %s: %v", branch.Upstream, err)
		fmt.Fprintf(stderr, "Warning: could not check %s on %s, deleting it locally only: %v\n", branch.UpstreamName(), branch.Remote, err)
		return false
	}
	if !exists {
		fmt.Fprintf(stderr, "%s no longer exists on %s, deleting it locally only\n", branch.UpstreamName(), branch.Remote)
		return false
	}
	return true
}
