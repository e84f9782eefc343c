// Package runner provides multi-file linting orchestration: it assembles a
// full engine (filter-list parser, CSS sub-grammar, built-in rules) per
// worker and fans explicit file paths out over a bounded pool.
//
// Path discovery is deliberately absent. Callers hand the runner concrete
// file paths; glob expansion and ignore handling belong to them.
package runner

import (
	"context"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/fllint/internal/logging"
	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/fsutil"
	"github.com/yaklabco/fllint/pkg/lint"
	"github.com/yaklabco/fllint/pkg/parser/adblock"
	"github.com/yaklabco/fllint/pkg/parser/cssel"
	"github.com/yaklabco/fllint/pkg/rules"
)

// Runner orchestrates linting and fixing across multiple files.
type Runner struct {
	cfg    *config.Config
	loader lint.RuleLoader
	backup fsutil.BackupConfig
	logger *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLoader overrides the rule loader. The default serves the built-in
// rule set.
func WithLoader(loader lint.RuleLoader) Option {
	return func(r *Runner) { r.loader = loader }
}

// WithBackup enables backups before fixes are written.
func WithBackup(cfg fsutil.BackupConfig) Option {
	return func(r *Runner) { r.backup = cfg }
}

// WithLogger sets the runner logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates a Runner for the given configuration.
func New(cfg *config.Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	r := &Runner{
		cfg:    cfg,
		loader: rules.DefaultLoader(),
		backup: fsutil.DefaultBackupConfig(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes the given files concurrently. Each worker carries its own
// engine since a Linter is single-threaded. Outcomes keep the input order;
// per-file failures are recorded in their outcome rather than aborting the
// run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	result := &Result{Files: make([]FileOutcome, 0, len(paths))}
	if len(paths) == 0 {
		return result, nil
	}

	jobs := r.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	r.logger.Debug("starting run",
		logging.FieldFiles, len(paths),
		logging.FieldJobs, jobs,
		logging.FieldFix, r.cfg.Fix)

	outcomes := make([]FileOutcome, len(paths))
	work := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	for j := 0; j < jobs; j++ {
		g.Go(func() error {
			linter, err := r.newLinter(gctx)
			if err != nil {
				return err
			}
			for i := range work {
				outcomes[i] = r.processFile(gctx, linter, paths[i])
			}
			return nil
		})
	}

	go func() {
		defer close(work)
		for i := range paths {
			select {
			case <-gctx.Done():
				return
			case work <- i:
			}
		}
	}()

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result, nil
}

// newLinter assembles one engine instance: parser, sub-grammar and rules.
func (r *Runner) newLinter(ctx context.Context) (*lint.Linter, error) {
	linter := lint.New(adblock.New(), r.cfg, lint.WithLogger(r.logger))
	if err := linter.LoadRules(ctx, r.loader); err != nil {
		return nil, err
	}
	if err := linter.RegisterSubParser(cssel.HostSelector, cssel.Descriptor()); err != nil {
		return nil, err
	}
	return linter, nil
}

func (r *Runner) processFile(ctx context.Context, linter *lint.Linter, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	src, err := fsutil.Read(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	content := string(src.Content)

	if !r.cfg.Fix {
		outcome.Result, outcome.Error = linter.Lint(ctx, path, content)
		return outcome
	}

	fixed, err := linter.LintAndFix(ctx, path, content, lint.FixerOptions{
		MaxRounds: r.cfg.MaxFixRounds,
		Rules:     r.cfg.FixRules,
	})
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = fixed.Result
	outcome.FixesApplied = fixed.AppliedFixCount

	// Commit refuses to clobber a file that changed underneath the lint and
	// takes the backup before writing.
	written, err := src.Commit(ctx, []byte(fixed.FixedSource), r.backup)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Written = written

	r.logger.Debug("fixed file",
		logging.FieldPath, path,
		logging.FieldFixesApplied, fixed.AppliedFixCount)
	return outcome
}
