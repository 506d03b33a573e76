package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazybranch/internal/app"
	"github.com/chmouel/lazybranch/internal/buildinfo"
	"github.com/chmouel/lazybranch/internal/cli"
	"github.com/chmouel/lazybranch/internal/git"
	"github.com/chmouel/lazybranch/internal/log"
	urfavecli "github.com/urfave/cli/v3"
)

const deleteUsage = "lazybranch delete [--remote] [--force] [--yes] <branch>"

var errGitMissing = errors.New("git executable not found in PATH")

// NewCommand builds the root lazybranch command.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "lazybranch",
		Usage:                 "A TUI to delete local git branches and their remote counterparts",
		Version:               buildinfo.Get().String(),
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*urfavecli.Command{
			deleteCommand(),
		},
		Action:        runTUI,
		ShellComplete: completeRoot,
	}
}

// Run executes the command line.
func Run(ctx context.Context, args []string) error {
	return NewCommand().Run(ctx, args)
}

func deleteCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:          "delete",
		Aliases:       []string{"rm"},
		Usage:         "Delete a branch without the TUI",
		ArgsUsage:     "<branch>",
		Flags:         deleteFlags(),
		Action:        runDelete,
		ShellComplete: completeBranches,
	}
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	debugLogFlag := cmd.String("debug-log")
	setupDebugLog(debugLogFlag)

	gitSvc := git.NewService(nil, log.Default())
	if !gitSvc.Available() {
		_ = log.Close()
		return errGitMissing
	}
	repo, err := gitSvc.ResolveRepository(ctx, cmd.String("repo"))
	if err != nil {
		_ = log.Close()
		return err
	}

	cfg, err := loadCLIConfig(cmd.String("config-file"), repo.Path, cmd.String("theme"), cmd.StringSlice("config"))
	if err != nil {
		_ = log.Close()
		return err
	}
	if debugLogFlag == "" {
		applyConfigDebugLog(cfg.DebugLog)
	}
	log.Printf("starting lazybranch %s in %s (platform=%s)", buildinfo.Version(), repo.Path, cfg.Platform)

	model := app.NewModel(cfg, gitSvc, repo, app.Options{
		InitialBranch: cmd.String("branch"),
		Logger:        log.Default(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()
	model.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		_ = log.Close()
		return err
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return nil
}

// runDelete implements `lazybranch delete`.
func runDelete(ctx context.Context, cmd *urfavecli.Command) error {
	name := cmd.Args().First()
	if name == "" || cmd.Args().Len() > 1 {
		return fmt.Errorf("usage: %s", deleteUsage)
	}

	root := cmd.Root()
	debugLogFlag := root.String("debug-log")
	setupDebugLog(debugLogFlag)
	defer func() { _ = log.Close() }()

	gitSvc := git.NewService(cliNotify, log.Default())
	if !gitSvc.Available() {
		return errGitMissing
	}
	repo, err := gitSvc.ResolveRepository(ctx, root.String("repo"))
	if err != nil {
		return err
	}
	cfg, err := loadCLIConfig(root.String("config-file"), repo.Path, "", root.StringSlice("config"))
	if err != nil {
		return err
	}
	if debugLogFlag == "" {
		applyConfigDebugLog(cfg.DebugLog)
	}

	return cli.DeleteBranch(ctx, gitSvc, cli.DeleteOptions{
		Dir:         repo.Path,
		Branch:      name,
		Remote:      cmd.Bool("remote"),
		Force:       cmd.Bool("force") || cfg.ForceDelete,
		Yes:         cmd.Bool("yes"),
		Interactive: cli.StdinIsTerminal(),
		Stdin:       os.Stdin,
		Stderr:      os.Stderr,
		Logger:      log.Default(),
	})
}
