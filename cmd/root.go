// Package cmd wires the screenscore command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/screenscore/internal/baseline"
	"github.com/dotcommander/screenscore/internal/config"
	"github.com/dotcommander/screenscore/internal/discovery"
	"github.com/dotcommander/screenscore/internal/git"
	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/outputters"
	"github.com/dotcommander/screenscore/internal/project"
	"github.com/dotcommander/screenscore/internal/screening"
)

// Version is set at build time.
var Version = "dev"

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

// errFailOn marks a run whose findings reach the --fail-on level. Execute
// exits 1 for it without printing an error.
var errFailOn = errors.New("findings at or above the fail-on level")

// rootOptions holds flags that are not configuration keys.
type rootOptions struct {
	root           string
	useBaseline    bool
	createBaseline bool
	baselinePath   string
	changed        bool
	staged         bool
}

// flagKeys maps persistent flags to their configuration keys.
var flagKeys = map[string]string{
	"quiet":      "quiet",
	"verbose":    "verbose",
	"format":     "format",
	"output":     "output",
	"fail-on":    "failOn",
	"viewer":     "viewer",
	"log-format": "logFormat",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "screenscore",
		Short: "Score student screening questionnaires and flag students at risk",
		Long: `screenscore scores VIA character-strength and SRSS-IE risk questionnaires,
applies grade-specific alert rules and early-warning indicators, and reports
which students need attention.

By default, screenscore discovers every answer sheet (*.sheet.yaml, *.sheet.yml,
*.sheet.json) under the root and prints a report. Use subcommands to inspect a
single profile, evaluate ad-hoc indicators or summarize a class.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.root, "root", "r", "", "Directory to search for answer sheets (default: nearest directory with a config file or .git)")
	pf.BoolP("quiet", "q", false, "Suppress non-essential output")
	pf.BoolP("verbose", "v", false, "Enable verbose output")
	pf.StringP("format", "f", "console", "Output format for reports (console|json|markdown)")
	pf.StringP("output", "o", "", "Output file for json or markdown reports")
	pf.String("fail-on", config.FailOnCritical, "Exit non-zero on findings at this level (critical|watch|none)")
	pf.String("viewer", "ADMIN", "Role the report is rendered for (ADMIN|MANAGER|PSYCHOLOGIST|COUNSELOR|TEACHER|STUDENT)")
	pf.String("log-format", "text", "Log format on stderr (text|json)")
	pf.BoolVar(&opts.useBaseline, "baseline", false, "Hide findings recorded in the baseline file")
	pf.BoolVar(&opts.createBaseline, "create-baseline", false, "Record current findings as the baseline and exit 0")
	pf.StringVar(&opts.baselinePath, "baseline-path", baseline.DefaultPath, "Baseline file, relative to the root")
	pf.BoolVar(&opts.changed, "changed", false, "Only screen sheets with uncommitted git changes")
	pf.BoolVar(&opts.staged, "staged", false, "Only screen sheets staged in git")
	rootCmd.MarkFlagsMutuallyExclusive("changed", "staged")

	rootCmd.AddCommand(
		newProfileCmd(opts),
		newEWSCmd(),
		newSummaryCmd(opts),
		newRulesCmd(opts),
		newFmtCmd(opts),
		newInitCmd(opts),
	)
	return rootCmd
}

// Execute runs the command tree and exits 1 on failure.
func Execute() {
	output.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailOn) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		exitFunc(1)
	}
}

// bindFlags binds the persistent flags of the running command to viper.
// Binding happens per run so a fresh command tree always wins.
func bindFlags(cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// setupLogger builds the stderr logger: debug when verbose, warnings only
// when quiet.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	switch {
	case cfg.Verbose:
		opts.Level = slog.LevelDebug
	case cfg.Quiet:
		opts.Level = slog.LevelWarn
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.root != "" {
		cfg, err := config.LoadConfig(opts.root)
		if err != nil {
			return nil, fmt.Errorf("error loading configuration: %w", err)
		}
		return cfg, nil
	}

	// No --root: the nearest directory with a config file or .git holds the
	// rc file, and is the root unless that file names another one.
	dir, err := project.FindRoot(".")
	if err != nil {
		return nil, fmt.Errorf("error finding screening root: %w", err)
	}
	cfg, err := config.LoadConfigFrom(dir)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}

func newOrchestrator(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) (*screening.Orchestrator, error) {
	filter, err := gitFilter(cfg.Root, opts)
	if err != nil {
		return nil, err
	}
	return screening.NewOrchestrator(cfg, screening.Options{
		UseBaseline:    opts.useBaseline,
		CreateBaseline: opts.createBaseline,
		BaselinePath:   opts.baselinePath,
		Logger:         setupLogger(cfg, cmd.ErrOrStderr()),
		Filter:         filter,
	})
}

// gitFilter restricts discovery to sheets git reports as changed or staged.
func gitFilter(root string, opts *rootOptions) (func(discovery.File) bool, error) {
	var (
		files []string
		err   error
	)
	switch {
	case opts.staged:
		files, err = git.GetStagedFiles(root)
	case opts.changed:
		files, err = git.GetChangedFiles(root)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error listing git changes: %w", err)
	}

	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[filepath.Clean(f)] = true
	}
	return func(f discovery.File) bool {
		return keep[filepath.Clean(f.Path)]
	}, nil
}

func runScreen(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	o, err := newOrchestrator(cmd, cfg, opts)
	if err != nil {
		return err
	}

	summary, err := o.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("error screening sheets: %w", err)
	}

	if err := outputters.NewOutputter(cfg, cmd.OutOrStdout()).Format(summary, cfg.Format); err != nil {
		return err
	}

	// A fresh baseline accepts the current state.
	if opts.createBaseline {
		return nil
	}
	if summary.ShouldFailFor(cfg.FailOn, cfg.ViewerRole()) {
		return errFailOn
	}
	return nil
}
