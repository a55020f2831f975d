package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRoot creates the root command and its subcommands.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	root := &cobra.Command{
		Use:   "twwatch",
		Short: "Run the tailwind standalone CLI for development and builds",
		Long: `twwatch runs one tailwind --watch process per stylesheet and tears them
down together on exit. Stylesheets come from the config file and, with
auto-detection, from <TailwindCss> items in the project file.

Examples:
  twwatch watch --config twwatch.toml
  twwatch watch --root ./src/Web --auto-detect
  twwatch build --input Styles/app.css --project-dir ./src/Web
  twwatch targets --config twwatch.toml
  twwatch status --api-url http://localhost:8089/api`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "path to TOML config file (optional)")

	root.AddCommand(
		createWatchCommand(globalFlags),
		createBuildCommand(globalFlags),
		createTargetsCommand(globalFlags),
		createLocateCommand(globalFlags),
		createStatusCommand(),
	)
	return root
}

func createWatchCommand(g *GlobalFlags) *cobra.Command {
	f := &WatchFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run tailwind watch processes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.Root, "root", "", "root directory (default: config or working directory)")
	cmd.Flags().BoolVar(&f.AutoDetect, "auto-detect", false, "discover stylesheets from the project file")
	cmd.Flags().StringVar(&f.Listen, "listen", "", "status API listen address, e.g. :8089")
	return cmd
}

func createBuildCommand(g *GlobalFlags) *cobra.Command {
	f := &BuildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile one stylesheet with --minify",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.Input, "input", "", "input stylesheet (required)")
	cmd.Flags().StringVar(&f.CLI, "cli", "", "tailwind executable (default: located under <project-dir>/.tailwind)")
	cmd.Flags().StringVar(&f.OutputDir, "output-dir", "", "output directory (default: <project-dir>/wwwroot)")
	cmd.Flags().StringVar(&f.ProjectDir, "project-dir", "", "project directory (default: working directory)")
	cmd.Flags().BoolVar(&f.InPlace, "in-place", false, "overwrite the input with the compiled result")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
	return cmd
}

func createTargetsCommand(g *GlobalFlags) *cobra.Command {
	f := &RootFlags{}
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the resolved watch targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.Root, "root", "", "root directory")
	cmd.Flags().BoolVar(&f.AutoDetect, "auto-detect", false, "discover stylesheets from the project file")
	return cmd
}

func createLocateCommand(g *GlobalFlags) *cobra.Command {
	f := &RootFlags{}
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the tailwind executable used for this platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.Root, "root", "", "root directory")
	return cmd
}

func createStatusCommand() *cobra.Command {
	f := &StatusFlags{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running watcher via its status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.APIUrl, "api-url", "http://localhost:8089/api", "status API base URL")
	cmd.Flags().DurationVar(&f.APITimeout, "api-timeout", 10*time.Second, "request timeout")
	cmd.Flags().StringVar(&f.Input, "input", "", "show a single input")
	return cmd
}
