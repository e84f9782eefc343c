package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fllint/internal/logging"
	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/fsutil"
	"github.com/yaklabco/fllint/pkg/reporter"
	"github.com/yaklabco/fllint/pkg/runner"
)

// ErrLintProblemsFound is returned when lint problems are found. It carries
// no message for the user; it only signals a non-zero exit code.
var ErrLintProblemsFound = errors.New("lint problems found")

type lintFlags struct {
	format         string
	fix            bool
	fixRules       []string
	maxFixRounds   int
	backup         bool
	jobs           int
	strict         bool
	noContext      bool
	noInlineConfig bool
	compact        bool
}

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint <files...>",
		Short: "Lint filter list files",
		Long:  lintLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Lint adblock filter list files for correctness and style problems.

Files are given explicitly; fllint does not walk directories or expand
globs itself, so use your shell for that.

Examples:
  fllint lint filters.txt              # Lint a single list
  fllint lint lists/*.txt              # Lint several lists (shell glob)
  fllint lint --fix filters.txt        # Lint and auto-fix problems
  fllint lint --format json lists.txt  # Output as JSON for CI
  fllint lint --strict filters.txt     # Treat warnings as errors`

func runLint(cmd *cobra.Command, args []string, flags *lintFlags) error {
	logger := logging.Default()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// CLI flags override the configuration file.
	cfg.Fix = flags.fix
	cfg.FixRules = flags.fixRules
	cfg.MaxFixRounds = flags.maxFixRounds
	cfg.Format = config.OutputFormat(flags.format)
	cfg.Jobs = flags.jobs
	if flags.noInlineConfig {
		cfg.AllowInlineConfig = false
	}

	logger.Debug("configuration loaded",
		logging.FieldFix, cfg.Fix,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFiles, len(args))

	backup := fsutil.DefaultBackupConfig()
	if flags.backup {
		backup = fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
	}

	lintRunner := runner.New(cfg, runner.WithBackup(backup), runner.WithLogger(logger))

	result, err := lintRunner.Run(ctx, args)
	if err != nil {
		return errors.Join(errors.New("lint run failed"), err)
	}

	// Get color mode from persistent flag.
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      cfg.Format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result, flags.strict) != ExitSuccess {
		return ErrLintProblemsFound
	}

	return nil
}

// loadConfig reads the file named by the persistent --config flag, or falls
// back to the built-in defaults. There is no config file discovery.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	if configPath == "" {
		return config.Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	cfg, err := config.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}
	return cfg, nil
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().BoolVar(&flags.fix, "fix", false, "automatically fix problems")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rule IDs")
	cmd.Flags().IntVar(&flags.maxFixRounds, "max-fix-rounds", 0, "bound the fix convergence loop (0 = default)")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "create a backup before writing fixes")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.noInlineConfig, "no-inline-config", false, "ignore inline configuration comments")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}
