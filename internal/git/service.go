// Package git wraps the git commands used by lazybranch.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/chmouel/lazybranch/internal/log"
	"github.com/chmouel/lazybranch/internal/models"
)

// ErrBranchNotMerged is returned when git refuses to delete a branch whose
// commits are not merged anywhere.
var ErrBranchNotMerged = errors.New("branch is not fully merged")

// ErrBranchNotFound is returned when a named local branch does not exist.
var ErrBranchNotFound = errors.New("branch not found")

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// Service runs git commands on behalf of the UI and the CLI.
type Service struct {
	notify NotifyFn
	logger log.Logger
}

// NewService constructs a Service. notify may be nil.
func NewService(notify NotifyFn, logger log.Logger) *Service {
	if notify == nil {
		notify = func(string, string) {}
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{notify: notify, logger: logger}
}

// Available reports whether a git executable can be found.
func (s *Service) Available() bool {
	_, err := LookupPath("git")
	return err == nil
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

// commandError carries the exit code and stderr of a failed git invocation.
type commandError struct {
	command  string
	exitCode int
	stderr   string
	err      error
}

func (e *commandError) Error() string {
	if e.stderr != "" {
		return fmt.Sprintf("%s: %s", e.command, e.stderr)
	}
	if e.exitCode >= 0 {
		return fmt.Sprintf("%s (exit %d)", e.command, e.exitCode)
	}
	return fmt.Sprintf("%s: %v", e.command, e.err)
}

func (e *commandError) Unwrap() error {
	return e.err
}

// run executes a git command in cwd and returns its trimmed stdout.
func (s *Service) run(ctx context.Context, cwd string, args ...string) (string, error) {
	full := append([]string{"git"}, args...)
	command := strings.Join(full, " ")
	s.logger.Printf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, full)
	if err != nil {
		return "", err
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.Output()
	if err != nil {
		cerr := &commandError{command: command, exitCode: -1, err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.exitCode = exitErr.ExitCode()
			cerr.stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		s.logger.Printf("error: %v", cerr)
		return "", cerr
	}

	s.logger.Printf("ok: %s", command)
	return strings.TrimSpace(string(output)), nil
}

func exitCode(err error) int {
	var cerr *commandError
	if errors.As(err, &cerr) {
		return cerr.exitCode
	}
	return -1
}

// ResolveRepository returns the repository containing dir.
func (s *Service) ResolveRepository(ctx context.Context, dir string) (models.Repository, error) {
	top, err := s.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return models.Repository{}, fmt.Errorf("not a git repository: %w", err)
	}
	return models.Repository{Path: top, Name: filepath.Base(top)}, nil
}

// GitCommonDir returns the absolute git common directory of repo.
func (s *Service) GitCommonDir(ctx context.Context, repo models.Repository) (string, error) {
	dir, err := s.run(ctx, repo.Path, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repo.Path, dir)
	}
	return filepath.Clean(dir), nil
}

const branchFormat = "%(refname:short)%00%(objectname:short)%00%(HEAD)%00%(upstream:short)%00%(upstream:remotename)%00%(contents:subject)"

// ListBranches returns the local branches of repo sorted by name.
func (s *Service) ListBranches(ctx context.Context, repo models.Repository) ([]models.Branch, error) {
	out, err := s.run(ctx, repo.Path, "for-each-ref", "--sort=refname", "--format="+branchFormat, "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return parseBranches(out), nil
}

func parseBranches(raw string) []models.Branch {
	branches := []models.Branch{}
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\x00", 6)
		if len(fields) < 6 {
			continue
		}
		branches = append(branches, models.Branch{
			Name:       fields[0],
			Hash:       fields[1],
			IsCurrent:  fields[2] == "*",
			Upstream:   fields[3],
			Remote:     fields[4],
			LastCommit: fields[5],
		})
	}
	return branches
}

// FindBranch returns the local branch called name.
func (s *Service) FindBranch(ctx context.Context, repo models.Repository, name string) (models.Branch, error) {
	branches, err := s.ListBranches(ctx, repo)
	if err != nil {
		return models.Branch{}, err
	}
	for _, b := range branches {
		if b.Name == name {
			return b, nil
		}
	}
	return models.Branch{}, fmt.Errorf("%w: %s", ErrBranchNotFound, name)
}

// CheckBranchExistsOnRemote asks the branch's remote whether its upstream
// branch still exists. Branches without an upstream never exist remotely.
func (s *Service) CheckBranchExistsOnRemote(ctx context.Context, repo models.Repository, branch models.Branch) (bool, error) {
	if !branch.IsRemoteTracking() {
		return false, nil
	}

	ref := "refs/heads/" + branch.UpstreamName()
	_, err := s.run(ctx, repo.Path, "ls-remote", "--exit-code", "--heads", branch.Remote, ref)
	if err == nil {
		return true, nil
	}
	// --exit-code reports "no matching refs" as 2
	if exitCode(err) == 2 {
		return false, nil
	}
	return false, fmt.Errorf("unable to query %s for %s: %w", branch.Remote, branch.Name, err)
}

// DeleteBranch deletes the local branch and, when includeRemote is set and
// the branch tracks a remote, the upstream branch on that remote.
func (s *Service) DeleteBranch(ctx context.Context, repo models.Repository, branch models.Branch, includeRemote, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := s.run(ctx, repo.Path, "branch", flag, branch.Name); err != nil {
		if strings.Contains(err.Error(), "not fully merged") {
			return fmt.Errorf("%w: %s", ErrBranchNotMerged, branch.Name)
		}
		return fmt.Errorf("failed to delete branch %s: %w", branch.Name, err)
	}
	s.notify(fmt.Sprintf("Deleted branch %s", branch.Name), "info")

	if !includeRemote || !branch.IsRemoteTracking() {
		return nil
	}

	if _, err := s.run(ctx, repo.Path, "push", branch.Remote, "--delete", branch.UpstreamName()); err != nil {
		return fmt.Errorf("deleted %s locally but failed to delete it on %s: %w", branch.Name, branch.Remote, err)
	}
	s.notify(fmt.Sprintf("Deleted branch %s on %s", branch.UpstreamName(), branch.Remote), "info")
	return nil
}
