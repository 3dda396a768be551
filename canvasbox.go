// Package canvasbox evaluates untrusted, JavaScript-like scripts that draw
// on a canvas.
//
// A script sees only a curated set of identifiers: pure numeric and text
// utilities, structured-data helpers, the Canvas class and fetch. There are
// no user-defined functions and no loops, and property access is limited to
// what a value owns directly.
//
//	result, err := canvasbox.Eval(ctx, `new Canvas(64, 64).setColor("red").printCircle(32, 32, 20)`)
//	if err != nil {
//		return err
//	}
//	out, err := canvasbox.Render(result)
package canvasbox

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/time/rate"

	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/evaluator"
	"github.com/deepnoodle-ai/canvasbox/modules/fetch"
	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/deepnoodle-ai/canvasbox/parser"
	"github.com/deepnoodle-ai/canvasbox/registry"
)

// Program is a parsed script. It is immutable and safe for concurrent use:
// many goroutines may Run the same Program at once.
type Program struct {
	ast      *ast.Program
	source   string
	filename string
}

// Source returns the source text the program was parsed from.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Compile parses source. Syntax errors are returned as *parser.Errors
// before anything runs.
func Compile(source string, opts ...Option) (*Program, error) {
	cfg := newConfig(opts...)
	tree, err := parser.Parse(context.Background(), source, parser.WithFilename(cfg.filename))
	if err != nil {
		return nil, err
	}
	return &Program{ast: tree, source: source, filename: cfg.filename}, nil
}

// Eval parses and runs source. It is equivalent to Compile followed by Run.
func Eval(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	program, err := Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, program, opts...)
}

type outcome struct {
	value object.Object
	err   error
}

// Run evaluates a program with fresh per-call state. The result is the
// value of the last statement; a promise result is awaited.
//
// Failures are one of:
//   - *errors.PolicyError when the script does something the sandbox
//     refuses
//   - *object.ThrownError when the script throws, or a builtin fails
//   - the context's error on cancellation or timeout
func Run(ctx context.Context, program *Program, opts ...Option) (object.Object, error) {
	cfg := newConfig(opts...)
	overlay := registry.NewOverlay(cfg.baseTable())
	for name, value := range cfg.globals {
		obj, err := object.FromGoValue(value)
		if err != nil {
			return nil, err
		}
		overlay.Bind(name, object.ReadOnlyCopy(obj))
	}

	id := uuid.Must(uuid.NewV4()).String()
	logger := cfg.logger.With().Str("eval_id", id).Logger()
	ctx = logger.WithContext(ctx)

	var cancel context.CancelFunc
	if cfg.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	// Cancelling on return stops fetches the script never awaited.
	defer cancel()

	if cfg.fetchRate > 0 {
		burst := max(cfg.fetchBurst, 1)
		ctx = fetch.WithLimiter(ctx, rate.NewLimiter(cfg.fetchRate, burst))
	}

	filename := cfg.filename
	if filename == "" {
		filename = program.filename
	}
	ec := evaluator.NewContext(program.source, overlay,
		evaluator.WithMaxDepth(cfg.maxDepth),
		evaluator.WithFilename(filename),
		evaluator.WithID(id),
		evaluator.WithLogger(logger),
	)

	start := time.Now()
	logger.Debug().Str("filename", filename).Int("source_bytes", len(program.source)).Msg("evaluation started")

	done := make(chan outcome, 1)
	go func() {
		value, err := evaluator.Evaluate(ctx, program.ast, ec, nil)
		if err == nil {
			if p, ok := value.(*object.Promise); ok {
				value, err = p.Await(ctx)
			}
		}
		done <- outcome{value: value, err: err}
	}()

	var result outcome
	select {
	case result = <-done:
	case <-ctx.Done():
		result = outcome{err: ctx.Err()}
	}

	logger.Debug().
		Str("outcome", Outcome(result.err)).
		Dur("elapsed", time.Since(start)).
		Msg("evaluation finished")
	if result.err != nil {
		return nil, result.err
	}
	return result.value, nil
}

// Outcome names the result of Eval or Run for logs: "ok", "policy",
// "thrown", "cancelled" or "error".
func Outcome(err error) string {
	var policy *errors.PolicyError
	var thrown *object.ThrownError
	switch {
	case err == nil:
		return "ok"
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case stderrors.As(err, &policy):
		return "policy"
	case stderrors.As(err, &thrown):
		return "thrown"
	}
	return "error"
}
