// Package bootstrap wires the lazybranch command line to the TUI and the
// non-interactive subcommands.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "repo",
			Usage: "Path inside the repository (default: current directory)",
		},
		&urfavecli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Open the delete dialog for this branch at startup",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lb.key=value",
		},
	}
}

func deleteFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:    "remote",
			Aliases: []string{"r"},
			Usage:   "Also delete the upstream branch when it still exists on the remote",
		},
		&urfavecli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Delete the branch even if it is not fully merged",
		},
		&urfavecli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Do not ask for confirmation",
		},
	}
}
