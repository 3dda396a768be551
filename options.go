package canvasbox

import (
	"maps"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deepnoodle-ai/canvasbox/registry"
)

// Option configures a canvasbox evaluation.
type Option func(*config)

type config struct {
	globals               map[string]any
	denylist              []string
	table                 *registry.Table
	withoutDefaultGlobals bool
	logger                zerolog.Logger
	maxDepth              int
	timeout               time.Duration
	fetchRate             rate.Limit
	fetchBurst            int
	filename              string
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		globals: map[string]any{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// baseTable returns the table the evaluation's overlay sits on.
func (cfg *config) baseTable() *registry.Table {
	table := cfg.table
	if table == nil && !cfg.withoutDefaultGlobals {
		table = registry.Default()
	}
	if len(cfg.denylist) > 0 {
		table = table.Without(cfg.denylist...)
	}
	return table
}

// WithGlobals provides extra identifiers for one evaluation. This option is
// additive, so multiple WithGlobals options may be supplied. If the same key
// is supplied multiple times, the last supplied value is used.
//
// Go values are copied into frozen script values. Records, lists, Maps,
// Sets and typed arrays that already are object.Object are bound as frozen
// shallow copies, so scripts never write to the caller's value. Functions,
// modules and capability handles such as a canvas are bound as they are.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		maps.Copy(cfg.globals, globals)
	}
}

// WithGlobal supplies a single named identifier.
func WithGlobal(name string, value any) Option {
	return func(cfg *config) {
		cfg.globals[name] = value
	}
}

// WithoutGlobals hides default identifiers, such as "fetch", from one
// evaluation.
func WithoutGlobals(names ...string) Option {
	return func(cfg *config) {
		cfg.denylist = append(cfg.denylist, names...)
	}
}

// WithoutDefaultGlobals opts out of the default identifier table. Only the
// identifiers given with WithGlobals are visible.
func WithoutDefaultGlobals() Option {
	return func(cfg *config) {
		cfg.withoutDefaultGlobals = true
	}
}

// WithTable evaluates against a custom identifier table instead of the
// default one.
func WithTable(table *registry.Table) Option {
	return func(cfg *config) {
		cfg.table = table
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxDepth bounds the evaluation depth.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxDepth = depth
	}
}

// WithTimeout bounds the wall time of an evaluation, including the time
// spent waiting on fetches.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = timeout
	}
}

// WithFetchRate limits how often a single evaluation may start a fetch.
func WithFetchRate(r rate.Limit, burst int) Option {
	return func(cfg *config) {
		cfg.fetchRate = r
		cfg.fetchBurst = burst
	}
}

// WithFilename sets the filename reported in errors.
func WithFilename(filename string) Option {
	return func(cfg *config) {
		cfg.filename = filename
	}
}
