package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/loykin/twwatch"
	"github.com/loykin/twwatch/pkg/client"
)

const shutdownTimeout = 5 * time.Second

// loadConfig reads the config file (if any) and applies command-line overrides.
func loadConfig(cmd *cobra.Command, g *GlobalFlags, root string, autoDetect bool) (*twwatch.Config, *slog.Logger, error) {
	fc, err := twwatch.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if root != "" {
		fc.RootDirectory = root
	}
	if cmd.Flags().Changed("auto-detect") {
		fc.AutoDetect = autoDetect
	}
	log := fc.LoggerConfig().NewSlogger()
	return fc, log, nil
}

func runWatch(cmd *cobra.Command, g *GlobalFlags, f *WatchFlags) error {
	fc, log, err := loadConfig(cmd, g, f.Root, f.AutoDetect)
	if err != nil {
		return err
	}
	if f.Listen != "" {
		fc.Server.Listen = f.Listen
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := twwatch.RegisterMetricsDefault(); err != nil {
		log.Warn("Failed to register metrics", slog.Any("error", err))
	}

	w, err := twwatch.FromConfig(fc, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Warn("Failed to close history sink", slog.Any("error", err))
		}
	}()

	if fc.Server.Listen != "" {
		srv, err := twwatch.NewHTTPServer(fc.Server.Listen, fc.Server.BasePath, w)
		if err != nil {
			return err
		}
		log.Info("Status API listening", slog.String("addr", srv.Addr), slog.String("base", fc.Server.BasePath))
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	return w.Run(ctx)
}

func runBuild(cmd *cobra.Command, g *GlobalFlags, f *BuildFlags) error {
	_, log, err := loadConfig(cmd, g, "", false)
	if err != nil {
		return err
	}
	task := twwatch.BuildTask{
		InputFile:        f.Input,
		CLIPath:          f.CLI,
		OutputDirectory:  f.OutputDir,
		ProjectDirectory: f.ProjectDir,
		InPlace:          f.InPlace,
	}
	return task.Execute(cmd.Context(), log)
}

func runTargets(cmd *cobra.Command, g *GlobalFlags, f *RootFlags) error {
	fc, log, err := loadConfig(cmd, g, f.Root, f.AutoDetect)
	if err != nil {
		return err
	}
	plan, err := twwatch.Resolve(fc.Options(), log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if plan.Len() == 0 {
		_, _ = fmt.Fprintln(out, "no watch targets")
		return nil
	}
	for _, t := range plan.Targets() {
		_, _ = fmt.Fprintf(out, "%s -> %s\n", t.Input, t.EffectiveOutput(plan.Root()))
	}
	return nil
}

func runLocate(cmd *cobra.Command, g *GlobalFlags, f *RootFlags) error {
	fc, _, err := loadConfig(cmd, g, f.Root, false)
	if err != nil {
		return err
	}
	plan, err := twwatch.Resolve(twwatch.Options{RootDirectory: fc.RootDirectory}, slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	bin, err := twwatch.Locate(plan.Root())
	if err != nil {
		if errors.Is(err, twwatch.ErrBinaryDirNotFound) {
			return fmt.Errorf("%w (download the tailwind standalone CLI into %s/.tailwind)", err, plan.Root())
		}
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), bin)
	return nil
}

func runStatus(cmd *cobra.Command, f *StatusFlags) error {
	c := client.New(client.Config{BaseURL: f.APIUrl, Timeout: f.APITimeout})
	out := cmd.OutOrStdout()
	if f.Input != "" {
		p, err := c.ProcessStatus(cmd.Context(), f.Input)
		if err != nil {
			return err
		}
		printProcesses(out, []client.ProcessStatus{p})
		return nil
	}
	st, err := c.Status(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "state: %s\n", st.State)
	if st.Binary != "" {
		_, _ = fmt.Fprintf(out, "binary: %s\n", st.Binary)
	}
	if st.Error != "" {
		_, _ = fmt.Fprintf(out, "error: %s\n", st.Error)
	}
	printProcesses(out, st.Processes)
	return nil
}

func printProcesses(w io.Writer, ps []client.ProcessStatus) {
	if len(ps) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INPUT\tOUTPUT\tPID\tRUNNING\tEXIT")
	for _, p := range ps {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", p.Input, p.Output, p.PID, p.Running, p.ExitErr)
	}
	_ = tw.Flush()
}
