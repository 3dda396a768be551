// Package evaluator walks a canvasbox syntax tree and produces a value.
//
// Evaluation is a recursive type switch over ast nodes. Identifiers resolve
// through an optional chain of catch scopes, then the per-call registry
// overlay, then the shared default table. Failures come in two families:
// *errors.PolicyError for anything the sandbox refuses, and
// *object.ThrownError for failures the script itself can catch.
package evaluator

import (
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/registry"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds the recursion of a single evaluation.
const DefaultMaxDepth = 256

// Context is the per-call evaluation state. It is created for one
// evaluation, owned by one goroutine, and discarded afterwards.
type Context struct {
	Source   string
	Filename string
	Overlay  *registry.Overlay
	MaxDepth int
	ID       string
	Logger   zerolog.Logger

	spread bool
	depth  int
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) ContextOption {
	return func(c *Context) {
		if depth > 0 {
			c.MaxDepth = depth
		}
	}
}

// WithFilename sets the filename reported in policy errors.
func WithFilename(name string) ContextOption {
	return func(c *Context) {
		c.Filename = name
	}
}

// WithID sets the evaluation id.
func WithID(id string) ContextOption {
	return func(c *Context) {
		c.ID = id
	}
}

// WithLogger sets the logger used for evaluator diagnostics.
func WithLogger(logger zerolog.Logger) ContextOption {
	return func(c *Context) {
		c.Logger = logger
	}
}

// NewContext returns a context evaluating source against overlay.
func NewContext(source string, overlay *registry.Overlay, opts ...ContextOption) *Context {
	c := &Context{
		Source:   source,
		Overlay:  overlay,
		MaxDepth: DefaultMaxDepth,
		Logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Overlay == nil {
		c.Overlay = registry.NewOverlay(nil)
	}
	return c
}

// Depth returns the current recursion depth.
func (c *Context) Depth() int {
	return c.depth
}

func (c *Context) policy(kind errors.Kind, offset int, format string, args ...any) *errors.PolicyError {
	err := errors.PolicyErrorf(kind, c.Source, offset, format, args...)
	if c.Filename != "" {
		err = err.WithFilename(c.Filename)
	}
	return err
}

// unknownIdentifier builds the error for an unbound name, with a hint drawn
// from every name visible at the failure point.
func (c *Context) unknownIdentifier(name string, offset int, scope *Scope) *errors.PolicyError {
	err := c.policy(errors.UnknownIdentifier, offset, "The identifier `%s` is not defined", name)
	candidates := append(scope.Names(), c.Overlay.Names()...)
	if hint := errors.FormatSuggestions(errors.SuggestSimilar(name, candidates)); hint != "" {
		err = err.WithHint(hint)
	}
	return err
}
