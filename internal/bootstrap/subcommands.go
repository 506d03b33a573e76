package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chmouel/lazybranch/internal/completion"
	"github.com/chmouel/lazybranch/internal/config"
	"github.com/chmouel/lazybranch/internal/git"
	"github.com/chmouel/lazybranch/internal/log"
	"github.com/chmouel/lazybranch/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
)

// loadCLIConfig loads the configuration and applies the theme flag and
// --config overrides, which take precedence over every file.
func loadCLIConfig(configFileFlag, repoPath, themeFlag string, configOverrides []string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(configFileFlag, repoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
		cfg.Theme = theme.Detect()
	}

	if err := applyThemeConfig(cfg, themeFlag); err != nil {
		return nil, err
	}

	if len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	return cfg, nil
}

// applyThemeConfig validates and applies the --theme flag.
func applyThemeConfig(cfg *config.AppConfig, themeFlag string) error {
	if themeFlag == "" {
		return nil
	}
	normalized := config.NormalizeThemeName(themeFlag)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q, available themes: %s", themeFlag, strings.Join(theme.AvailableThemes(), ", "))
	}
	cfg.Theme = normalized
	return nil
}

// setupDebugLog opens the debug log named by the --debug-log flag. Without
// the flag, messages stay buffered until the configuration is known.
func setupDebugLog(path string) {
	if path == "" {
		return
	}
	openDebugLog(path)
}

// applyConfigDebugLog opens the debug log named in the configuration or
// discards buffered messages when none is configured.
func applyConfigDebugLog(path string) {
	if path == "" {
		_ = log.SetFile("")
		return
	}
	openDebugLog(path)
}

func openDebugLog(path string) {
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// cliNotify is a notification callback for git operations in CLI mode.
func cliNotify(message, severity string) {
	if severity == "error" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

// completeRoot prints subcommands, flags and enumerated flag values.
func completeRoot(_ context.Context, cmd *urfavecli.Command) {
	var names []string
	for _, sub := range cmd.Commands {
		names = append(names, sub.Name)
	}
	writeCompletions(os.Stdout, completionArgs(os.Args), names)
}

// completeBranches prints local branch names for `lazybranch delete`.
func completeBranches(ctx context.Context, cmd *urfavecli.Command) {
	if cmd.Args().Len() > 0 {
		return
	}
	gitSvc := git.NewService(nil, log.Nop())
	repo, err := gitSvc.ResolveRepository(ctx, cmd.Root().String("repo"))
	if err != nil {
		return
	}
	branches, err := gitSvc.ListBranches(ctx, repo)
	if err != nil {
		return
	}
	for _, b := range branches {
		if !b.IsCurrent {
			fmt.Fprintln(os.Stdout, b.Name)
		}
	}
}

// completionArgs strips the program name and the completion marker flag.
func completionArgs(args []string) []string {
	if len(args) > 0 {
		args = args[1:]
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--generate-shell-completion" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// writeCompletions suggests values when the previous word is a flag with
// enumerated values, otherwise subcommands and global flags.
func writeCompletions(w io.Writer, args, subcommands []string) {
	if len(args) > 0 {
		prev := strings.TrimLeft(args[len(args)-1], "-")
		switch prev {
		case "t":
			prev = "theme"
		case "C":
			prev = "config"
		}
		if values := completion.FlagValues(prev); len(values) > 0 && strings.HasPrefix(args[len(args)-1], "-") {
			for _, v := range values {
				fmt.Fprintln(w, v)
			}
			return
		}
	}
	for _, name := range subcommands {
		fmt.Fprintln(w, name)
	}
	for _, f := range completion.GetFlags() {
		fmt.Fprintf(w, "--%s\t%s\n", f.Name, f.Description)
	}
}
