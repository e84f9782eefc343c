package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/fllint/internal/logging"
	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/selector"
)

// Parser produces the primary AST for a source text.
type Parser interface {
	Parse(ctx context.Context, path, content string) (*flast.Snapshot, error)
}

// defaultCommentType is the primary-grammar node type carrying inline
// configuration comments.
const defaultCommentType = "CommentRule"

// Linter is the execution engine for one parser, configuration and rule set.
// Build it with New, load rules once with LoadRules, then lint any number of
// files sequentially.
//
// A Linter is not safe for concurrent use; multi-file parallelism creates
// one Linter per worker.
type Linter struct {
	parser Parser
	cfg    *config.Config
	logger *log.Logger

	typeKey     string
	childKey    string
	commentType string

	instances  map[string]*RuleInstance
	selectors  map[string][]Visitor
	subParsers []subParserEntry

	walker     Walker
	subWalkers map[string]*Walker

	// run is the state of the lint invocation in flight.
	run *lintRun
}

// lintRun is the per-invocation state.
type lintRun struct {
	snapshot   *flast.Snapshot
	selectors  map[string][]Visitor
	problems   []Problem
	directives []*directive
	subTrees   map[subTreeKey]*flast.Node
}

// addFatal records a fatal problem. Fatal problems carry error severity and
// survive disable directives.
func (r *lintRun) addFatal(pos flast.SourcePosition, msg string) {
	if !pos.IsValid() {
		pos = flast.SourcePosition{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1}
	}
	r.problems = append(r.problems, Problem{
		Severity: config.SeverityError,
		Position: pos,
		Message:  msg,
		Fatal:    true,
	})
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Linter) { l.logger = logger }
}

// WithGrammarKeys overrides the primary grammar's type and child attribute
// keys.
func WithGrammarKeys(typeKey, childKey string) Option {
	return func(l *Linter) {
		l.typeKey = typeKey
		l.childKey = childKey
	}
}

// WithCommentType overrides the node type inline configuration comments are
// read from.
func WithCommentType(nodeType string) Option {
	return func(l *Linter) { l.commentType = nodeType }
}

// New creates a Linter for the given parser and flattened configuration.
func New(parser Parser, cfg *config.Config, opts ...Option) *Linter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	l := &Linter{
		parser:      parser,
		cfg:         cfg,
		logger:      logging.Default(),
		typeKey:     flast.DefaultTypeKey,
		childKey:    flast.DefaultChildKey,
		commentType: defaultCommentType,
		instances:   make(map[string]*RuleInstance),
		selectors:   make(map[string][]Visitor),
		subWalkers:  make(map[string]*Walker),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadRules resolves every configured rule through the loader, validates its
// setting and registers its visitors. Loading and validation fan out
// concurrently; any failure aborts the whole registration. Registration
// itself happens serially after all loads complete, in sorted rule-ID order.
// Rules configured off are not registered at all.
func (l *Linter) LoadRules(ctx context.Context, loader RuleLoader) error {
	ids := make([]string, 0, len(l.cfg.Rules))
	for id, setting := range l.cfg.Rules {
		if setting.Severity != config.SeverityOff {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	instances := make([]*RuleInstance, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			rule, err := loader(gctx, id)
			if err != nil {
				return fmt.Errorf("load rule %q: %w", id, err)
			}
			instance, err := newInstance(rule, l.cfg.Rules[id])
			if err != nil {
				return err
			}
			instances[i] = instance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, instance := range instances {
		l.instances[instance.ID()] = instance
		vm := instance.rule.Create(&RuleContext{instance: instance, linter: l})
		for sel, visitor := range vm {
			l.selectors[sel] = append(l.selectors[sel], visitor)
		}
		l.logger.Debug("registered rule",
			logging.FieldRule, instance.ID(),
			logging.FieldSeverity, string(instance.Severity()))
	}

	if l.cfg.AllowInlineConfig {
		l.selectors[l.commentType] = append(l.selectors[l.commentType], l.inlineVisitor())
	}
	return nil
}

// Lint parses and lints one source text. Parse failures of the primary
// grammar become a single fatal problem rather than an error; an error
// return means the engine itself is misconfigured (for example an invalid
// selector in a rule's visitor map).
func (l *Linter) Lint(ctx context.Context, path, content string) (*Result, error) {
	for _, instance := range l.instances {
		instance.reset()
	}

	snap, err := l.parser.Parse(ctx, path, content)
	if err != nil || snap == nil || snap.Root == nil {
		run := &lintRun{snapshot: flast.NewSnapshot(path, content)}
		run.addFatal(flast.SourcePosition{}, fmt.Sprintf("parse error: %v", err))
		return newResult(run.problems), nil
	}

	run := &lintRun{
		snapshot:  snap,
		selectors: l.selectors,
		subTrees:  make(map[subTreeKey]*flast.Node),
	}
	l.run = run
	defer func() { l.run = nil }()

	typeOf := selector.KeyType(l.typeKey)
	opts := WalkOptions{
		TypeKey:   l.typeKey,
		TypeOf:    typeOf,
		ChildKey:  l.childKey,
		EnterHook: l.enterHook(typeOf),
	}
	if err := l.walker.Walk(snap.Root, run.selectors, opts); err != nil {
		return nil, fmt.Errorf("lint %s: %w", path, err)
	}

	problems := run.problems
	if l.cfg.AllowInlineConfig {
		problems = applyDirectives(problems, run.directives)
		if l.cfg.ReportUnusedDisableDirectives {
			problems = append(problems, unusedDirectiveProblems(run.directives)...)
		}
	}

	l.logger.Debug("linted",
		logging.FieldPath, path,
		logging.FieldProblems, len(problems))
	result := newResult(problems)
	result.Snapshot = snap
	return result, nil
}

// Instances returns the loaded rule instances keyed by rule ID.
func (l *Linter) Instances() map[string]*RuleInstance {
	return l.instances
}
