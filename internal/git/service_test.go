package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chmouel/lazybranch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, _ ...any) { l.lines = append(l.lines, format) }
func (l *recordingLogger) Warnf(format string, _ ...any)  { l.lines = append(l.lines, format) }

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	runGitCmd(t, dir, "add", name)
	runGitCmd(t, dir, "commit", "-m", "add "+name)
}

// setupRepoWithRemote creates a working repository whose origin is a bare
// repository, with main pushed and tracking origin/main.
func setupRepoWithRemote(t *testing.T) (models.Repository, string) {
	t.Helper()
	requireGit(t)

	root := t.TempDir()
	remote := filepath.Join(root, "remote.git")
	work := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(work, 0o750))

	runGitCmd(t, root, "init", "--bare", remote)
	runGitCmd(t, work, "init")
	commitFile(t, work, "README.md", "hello\n")
	runGitCmd(t, work, "branch", "-M", "main")
	runGitCmd(t, work, "remote", "add", "origin", remote)
	runGitCmd(t, work, "push", "-u", "origin", "main")

	svc := NewService(nil, nil)
	repo, err := svc.ResolveRepository(context.Background(), work)
	require.NoError(t, err)
	return repo, remote
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(nil, nil)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.notify)
	assert.NotNil(t, svc.logger)
}

func TestAvailableUsesLookupPath(t *testing.T) {
	orig := LookupPath
	t.Cleanup(func() { LookupPath = orig })

	LookupPath = func(string) (string, error) { return "", errors.New("missing") }
	assert.False(t, NewService(nil, nil).Available())

	LookupPath = func(string) (string, error) { return "/usr/bin/git", nil }
	assert.True(t, NewService(nil, nil).Available())
}

func TestPrepareAllowedCommand(t *testing.T) {
	ctx := context.Background()

	_, err := prepareAllowedCommand(ctx, nil)
	require.Error(t, err)

	_, err = prepareAllowedCommand(ctx, []string{"rm", "-rf", "/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported command")

	cmd, err := prepareAllowedCommand(ctx, []string{"git", "status"})
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "status"}, cmd.Args)
}

func TestParseBranches(t *testing.T) {
	raw := strings.Join([]string{
		"feature/x\x00abc123\x00 \x00origin/feature/x\x00origin\x00Add feature",
		"main\x00def456\x00*\x00origin/main\x00origin\x00Initial commit",
		"local-only\x00999999\x00 \x00\x00\x00subject with\x00nul",
		"",
		"broken line",
	}, "\n")

	branches := parseBranches(raw)
	require.Len(t, branches, 3)

	assert.Equal(t, models.Branch{
		Name:       "feature/x",
		Hash:       "abc123",
		Upstream:   "origin/feature/x",
		Remote:     "origin",
		LastCommit: "Add feature",
	}, branches[0])
	assert.True(t, branches[1].IsCurrent)
	assert.False(t, branches[2].IsRemoteTracking())
	assert.Equal(t, "subject with\x00nul", branches[2].LastCommit)
}

func TestCommandErrorFormatting(t *testing.T) {
	withStderr := &commandError{command: "git branch -d x", exitCode: 1, stderr: "boom"}
	assert.Equal(t, "git branch -d x: boom", withStderr.Error())

	withCode := &commandError{command: "git ls-remote", exitCode: 2}
	assert.Equal(t, "git ls-remote (exit 2)", withCode.Error())
	assert.Equal(t, 2, exitCode(withCode))
	assert.Equal(t, -1, exitCode(errors.New("plain")))
}

func TestListBranchesAndRemoteExistence(t *testing.T) {
	repo, _ := setupRepoWithRemote(t)
	ctx := context.Background()
	logger := &recordingLogger{}
	svc := NewService(nil, logger)

	runGitCmd(t, repo.Path, "checkout", "-b", "feature/x")
	commitFile(t, repo.Path, "x.txt", "x\n")
	runGitCmd(t, repo.Path, "push", "-u", "origin", "feature/x")
	runGitCmd(t, repo.Path, "checkout", "main")
	runGitCmd(t, repo.Path, "branch", "local-only")

	branches, err := svc.ListBranches(ctx, repo)
	require.NoError(t, err)
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"feature/x", "local-only", "main"}, names)
	assert.NotEmpty(t, logger.lines)

	feature, err := svc.FindBranch(ctx, repo, "feature/x")
	require.NoError(t, err)
	assert.True(t, feature.IsRemoteTracking())
	assert.Equal(t, "origin", feature.Remote)
	assert.Equal(t, "origin/feature/x", feature.Upstream)
	assert.Equal(t, "add x.txt", feature.LastCommit)

	exists, err := svc.CheckBranchExistsOnRemote(ctx, repo, feature)
	require.NoError(t, err)
	assert.True(t, exists)

	local, err := svc.FindBranch(ctx, repo, "local-only")
	require.NoError(t, err)
	exists, err = svc.CheckBranchExistsOnRemote(ctx, repo, local)
	require.NoError(t, err)
	assert.False(t, exists)

	main, err := svc.FindBranch(ctx, repo, "main")
	require.NoError(t, err)
	assert.True(t, main.IsCurrent)

	_, err = svc.FindBranch(ctx, repo, "nope")
	require.ErrorIs(t, err, ErrBranchNotFound)

	// delete the remote branch behind the local branch's back
	runGitCmd(t, repo.Path, "push", "origin", "--delete", "feature/x")
	exists, err = svc.CheckBranchExistsOnRemote(ctx, repo, feature)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckBranchExistsOnRemoteUnreachable(t *testing.T) {
	repo, _ := setupRepoWithRemote(t)
	ctx := context.Background()
	svc := NewService(nil, nil)

	branch := models.Branch{Name: "feature/x", Upstream: "ghost/feature/x", Remote: "ghost"}
	runGitCmd(t, repo.Path, "remote", "add", "ghost", filepath.Join(t.TempDir(), "missing.git"))

	exists, err := svc.CheckBranchExistsOnRemote(ctx, repo, branch)
	require.Error(t, err)
	assert.False(t, exists)
	assert.Contains(t, err.Error(), "unable to query ghost")
}

func TestDeleteBranchLocalAndRemote(t *testing.T) {
	repo, remote := setupRepoWithRemote(t)
	ctx := context.Background()
	var notes []string
	svc := NewService(func(msg, _ string) { notes = append(notes, msg) }, nil)

	runGitCmd(t, repo.Path, "branch", "feature/x")
	runGitCmd(t, repo.Path, "push", "-u", "origin", "feature/x")
	branch, err := svc.FindBranch(ctx, repo, "feature/x")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBranch(ctx, repo, branch, true, false))

	_, err = svc.FindBranch(ctx, repo, "feature/x")
	require.ErrorIs(t, err, ErrBranchNotFound)
	assert.Empty(t, runGitCmd(t, remote, "branch", "--list", "feature/x"))
	assert.Equal(t, []string{"Deleted branch feature/x", "Deleted branch feature/x on origin"}, notes)
}

func TestDeleteBranchKeepsRemoteWhenNotRequested(t *testing.T) {
	repo, remote := setupRepoWithRemote(t)
	ctx := context.Background()
	svc := NewService(nil, nil)

	runGitCmd(t, repo.Path, "branch", "feature/x")
	runGitCmd(t, repo.Path, "push", "-u", "origin", "feature/x")
	branch, err := svc.FindBranch(ctx, repo, "feature/x")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBranch(ctx, repo, branch, false, false))
	assert.Contains(t, runGitCmd(t, remote, "branch", "--list", "feature/x"), "feature/x")
}

func TestDeleteBranchNotMerged(t *testing.T) {
	repo, _ := setupRepoWithRemote(t)
	ctx := context.Background()
	svc := NewService(nil, nil)

	runGitCmd(t, repo.Path, "checkout", "-b", "wip")
	commitFile(t, repo.Path, "wip.txt", "wip\n")
	runGitCmd(t, repo.Path, "checkout", "main")
	branch, err := svc.FindBranch(ctx, repo, "wip")
	require.NoError(t, err)

	err = svc.DeleteBranch(ctx, repo, branch, false, false)
	require.ErrorIs(t, err, ErrBranchNotMerged)

	require.NoError(t, svc.DeleteBranch(ctx, repo, branch, false, true))
	_, err = svc.FindBranch(ctx, repo, "wip")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestGitCommonDir(t *testing.T) {
	repo, _ := setupRepoWithRemote(t)
	dir, err := NewService(nil, nil).GitCommonDir(context.Background(), repo)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.Equal(t, ".git", filepath.Base(dir))
}

func TestResolveRepositoryOutsideRepo(t *testing.T) {
	requireGit(t)
	_, err := NewService(nil, nil).ResolveRepository(context.Background(), t.TempDir())
	require.Error(t, err)
}
