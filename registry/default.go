package registry

import (
	"sync"

	"github.com/deepnoodle-ai/canvasbox/builtins"
	"github.com/deepnoodle-ai/canvasbox/modules/canvas"
	"github.com/deepnoodle-ai/canvasbox/modules/fetch"
	modJSON "github.com/deepnoodle-ai/canvasbox/modules/json"
	modMath "github.com/deepnoodle-ai/canvasbox/modules/math"
	"github.com/deepnoodle-ai/canvasbox/object"
)

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table of safe globals. It is built on
// first use and never modified afterwards.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(DefaultValues())
	})
	return defaultTable
}

// DefaultValues builds a fresh copy of the default globals. Host-reaching
// names such as eval, Function, Reflect, Proxy, Symbol and Date are never
// included.
func DefaultValues() map[string]object.Object {
	values := builtins.Globals()
	values["Math"] = modMath.Module()
	values["JSON"] = modJSON.Module()
	values["Canvas"] = canvas.Class()
	values["fetch"] = fetch.New().Builtin()
	return values
}
