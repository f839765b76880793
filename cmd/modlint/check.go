package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"modlint/pkg/diag"
	"modlint/pkg/driver"
)

type checkOptions struct {
	ConfigPath string
	Format     string
	Changed    bool
	Watch      bool
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check JavaScript files for goog.module violations",
		Example: `  # Check the current directory
  modlint check

  # Check specific paths
  modlint check src/app

  # Only files modified in the git working tree
  modlint check --changed

  # Re-check files as they are saved
  modlint check --watch src

  # Machine-readable output
  modlint check --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to modlint.yaml (default: nearest up the tree)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.Changed, "changed", false, "Check only files modified in the git working tree")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch for changes and re-check incrementally")
	cmd.Flags().StringSlice("disable", nil, "Diagnostic IDs to suppress")
	cmd.Flags().String("severity", "", "Minimum severity: error, warning")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := loadConfig(paths[0], opts.ConfigPath)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &driver.Config{}
		cfg.ApplyDefaults()
	}
	if err := overlayFlags(cfg, cmd.Flags()); err != nil {
		return err
	}

	runner, err := driver.NewRunner(cfg, log.Default())
	if err != nil {
		return err
	}
	defer runner.Close()

	out := newRenderer(cmd.OutOrStdout(), opts.Format)

	if opts.Watch {
		return watchLoop(cmd, runner, out, paths)
	}

	var diags []diag.Diagnostic
	if opts.Changed {
		files, err := driver.ChangedFiles(paths[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Info("no changed JavaScript files")
			return nil
		}
		diags, err = runner.RunFiles(files)
		if err != nil {
			return err
		}
	} else {
		diags, err = runner.Run(paths)
		if err != nil {
			return err
		}
	}

	if err := out.Render(diags); err != nil {
		return err
	}
	if hasErrors(diags) {
		return errors.New("violations found")
	}
	return nil
}

func watchLoop(cmd *cobra.Command, runner *driver.Runner, out *renderer, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var dirs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		} else {
			dirs = append(dirs, filepath.Dir(path))
		}
	}

	log.Info("watching for changes", "dirs", dirs)
	err := runner.Watch(ctx, dirs, func(path string, diags []diag.Diagnostic, err error) {
		if err != nil {
			log.Error("recheck failed", "file", path, "err", err)
			return
		}
		if len(diags) == 0 {
			log.Info("clean", "file", path)
			return
		}
		if renderErr := out.Render(diags); renderErr != nil {
			log.Error("render failed", "err", renderErr)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadConfig(startPath, explicit string) (*driver.Config, error) {
	if explicit != "" {
		return driver.LoadConfig(explicit)
	}

	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	if root := driver.FindProjectRoot(abs); root != "" {
		return driver.LoadConfigFromDir(root)
	}
	return nil, nil
}

// overlayFlags lets command-line flags override the config file.
func overlayFlags(cfg *driver.Config, flags *pflag.FlagSet) error {
	k := koanf.New(".")
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if flags.Changed("disable") {
		cfg.Disable = k.Strings("disable")
	}
	if flags.Changed("severity") {
		cfg.Severity = k.String("severity")
	}
	return nil
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Sev == diag.SeverityError {
			return true
		}
	}
	return false
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter modlint.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := driver.WriteDefault(".")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
