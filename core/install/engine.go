// Package install implements the reconciliation engine between the declared
// store (skills.json), the resolved store (skills-lock.json), and the
// per-agent install directories.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/skills-sh/skills/core/config"
	"github.com/skills-sh/skills/core/git"
)

var (
	// ErrNoSkills is returned when a source contains no valid skills.
	ErrNoSkills = errors.New("no skills found")
	// ErrAmbiguous is returned when a source offers several skills and no
	// name was given to pick one. Nothing is mutated.
	ErrAmbiguous = errors.New("multiple skills found, select one by name")
	// ErrSkillNotFound is returned when a declared or requested name is
	// absent from a source's discovered skills.
	ErrSkillNotFound = errors.New("skill not found")
)

// storeLockTimeout bounds how long a command waits for a concurrent
// invocation to finish before giving up.
const storeLockTimeout = 5 * time.Second

// Provider acquires repository snapshots and resolves commit ids. The
// default implementation delegates to core/git; tests substitute fakes.
type Provider interface {
	Clone(ctx context.Context, src *git.Source) (*git.Snapshot, error)
	ResolveSHA(ctx context.Context, src *git.Source) (string, error)
}

type gitProvider struct{}

func (gitProvider) Clone(ctx context.Context, src *git.Source) (*git.Snapshot, error) {
	return git.Clone(ctx, src)
}

func (gitProvider) ResolveSHA(ctx context.Context, src *git.Source) (string, error) {
	return git.ResolveSHA(ctx, src)
}

// Engine runs the add/install/update/remove operations against one project
// directory. Stores are persisted once per operation, at the very end of a
// successful run.
type Engine struct {
	root     string
	targets  []Target
	provider Provider
	logger   *slog.Logger
	out      io.Writer
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider substitutes the snapshot provider.
func WithProvider(p Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithTargets replaces the default install target set.
func WithTargets(targets ...Target) Option {
	return func(e *Engine) { e.targets = targets }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithOutput redirects user-facing progress output.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// New returns an Engine rooted at the given project directory.
func New(root string, opts ...Option) *Engine {
	e := &Engine{
		root:     root,
		targets:  DefaultTargets,
		provider: gitProvider{},
		logger:   slog.Default(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lockStores takes the advisory store lock for the duration of one command.
func (e *Engine) lockStores(ctx context.Context) (*config.StoreLock, error) {
	lock := config.NewStoreLock(e.root)
	if err := lock.Acquire(ctx, storeLockTimeout); err != nil {
		return nil, fmt.Errorf("project is locked by another skills invocation: %w", err)
	}
	return lock, nil
}

func (e *Engine) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// sourceFor derives the clone location for a declared entry: always fresh
// from the declared source string, with the declared ref applied when the
// source string itself does not carry one.
func sourceFor(source, ref string) (*git.Source, error) {
	src, err := git.ParseSource(source)
	if err != nil {
		return nil, err
	}
	if src.Ref == "" && ref != "" {
		src.Ref = ref
	}
	return src, nil
}
