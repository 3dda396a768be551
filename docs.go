package canvasbox

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/canvasbox/builtins"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/modules/canvas"
	modMath "github.com/deepnoodle-ai/canvasbox/modules/math"
	"github.com/deepnoodle-ai/canvasbox/object"
)

// Version is the current canvasbox version.
const Version = "1.0.0"

// DocsOption configures documentation retrieval.
type DocsOption func(*docsOptions)

type docsOptions struct {
	category string
	topic    string
	all      bool
}

// DocsCategory filters documentation to one category: "globals",
// "modules", "types", "syntax" or "errors".
func DocsCategory(cat string) DocsOption {
	return func(o *docsOptions) {
		o.category = cat
	}
}

// DocsTopic retrieves documentation for one topic, such as "parseInt",
// "Math.sqrt", "Canvas.blur" or "string".
func DocsTopic(topic string) DocsOption {
	return func(o *docsOptions) {
		o.topic = topic
	}
}

// DocsAll returns complete documentation.
func DocsAll() DocsOption {
	return func(o *docsOptions) {
		o.all = true
	}
}

// Documentation provides structured access to canvasbox documentation.
type Documentation struct {
	data any
}

// JSON returns the documentation as indented JSON.
func (d *Documentation) JSON() string {
	b, _ := json.MarshalIndent(d.data, "", "  ")
	return string(b)
}

// Data returns the raw documentation data.
func (d *Documentation) Data() any {
	return d.data
}

type docsInfo struct {
	Version     string `json:"version"`
	Description string `json:"description"`
}

type docsModule struct {
	Name    string            `json:"name"`
	Doc     string            `json:"doc"`
	Members []object.AttrSpec `json:"members,omitempty"`
}

type docsType struct {
	Name  string            `json:"name"`
	Attrs []object.AttrSpec `json:"attrs,omitempty"`
}

type docsSyntax struct {
	Syntax string `json:"syntax"`
	Notes  string `json:"notes"`
}

type docsError struct {
	Kind        string `json:"kind"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type docsFull struct {
	Info    docsInfo          `json:"canvasbox"`
	Globals []object.AttrSpec `json:"globals"`
	Modules []docsModule      `json:"modules"`
	Types   []docsType        `json:"types"`
	Syntax  []docsSyntax      `json:"syntax"`
	Errors  []docsError       `json:"errors"`
}

var info = docsInfo{
	Version:     Version,
	Description: "Sandboxed evaluation of JavaScript-like scripts that draw on a canvas",
}

var docsSyntaxItems = []docsSyntax{
	{"let x = 1; const y = 2", "Declarations; a name can be declared once"},
	{"x += 1", "Assignment, including every compound operator"},
	{"a ? b : c", "Conditional expression"},
	{"[1, ...list]", "List literal; spread is allowed in lists and calls"},
	{"{ a: 1, [key]: 2 }", "Record literal; records are sealed"},
	{"`text ${expr}`", "Template string"},
	{"obj.name, obj[key]", "Property access; only directly owned properties"},
	{"fn(a, ...rest)", "Call a builtin or method"},
	{"new Canvas(200, 100)", "Construct a class"},
	{"await fetch(url)", "Wait for a promise"},
	{"if (a) { } else { }", "Conditional statement"},
	{"try { } catch (e) { } finally { }", "Catch values thrown by the script"},
	{"throw new Error(msg)", "Throw any value"},
}

func modules() []docsModule {
	return []docsModule{
		{Name: "Math", Doc: modMath.ModuleDoc(), Members: modMath.Docs()},
		{Name: "JSON", Doc: "JSON parsing and serialization", Members: []object.AttrSpec{
			{Name: "parse", Doc: "Parse JSON text", Args: []string{"text"}, Returns: "any"},
			{Name: "stringify", Doc: "Serialize a value as JSON", Args: []string{"value", "replacer?", "space?"}, Returns: "string"},
		}},
		{Name: "Canvas", Doc: "Drawing surface; new Canvas(width, height) or new Canvas(image)", Members: canvas.Docs()},
	}
}

func types() []docsType {
	samples := map[string]object.Object{
		"string":  object.NewString(""),
		"number":  object.NewNumber(0),
		"list":    object.NewList(nil),
		"map":     object.NewMap(),
		"set":     object.NewSet(nil),
		"promise": object.NewPromise(),
		"image":   object.NewImage(nil, ""),
		"error":   object.Errorf(""),
	}
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]docsType, 0, len(names))
	for _, name := range names {
		t := docsType{Name: name}
		if in, ok := samples[name].(object.Introspectable); ok {
			t.Attrs = in.Attrs()
		}
		out = append(out, t)
	}
	return out
}

func errorDocs() []docsError {
	kinds := []errors.Kind{
		errors.UnknownIdentifier,
		errors.AlreadyDeclaredIdentifier,
		errors.SandboxPropertyError,
		errors.SandboxError,
		errors.UnsupportedFeature,
		errors.MisplacedSpread,
		errors.NotIterable,
		errors.NotCallable,
		errors.NotConstructible,
		errors.DepthExceeded,
	}
	out := make([]docsError, len(kinds))
	for i, k := range kinds {
		out[i] = docsError{Kind: string(k), Code: k.Code().String(), Description: k.Code().Description()}
	}
	return out
}

// Docs returns structured documentation about the script environment.
// Without options it returns everything.
func Docs(opts ...DocsOption) *Documentation {
	o := &docsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	switch {
	case o.category != "" && !o.all:
		return &Documentation{data: categoryDocs(o.category)}
	case o.topic != "" && !o.all:
		return &Documentation{data: topicDocs(o.topic)}
	}
	return &Documentation{data: docsFull{
		Info:    info,
		Globals: builtins.Docs(),
		Modules: modules(),
		Types:   types(),
		Syntax:  docsSyntaxItems,
		Errors:  errorDocs(),
	}}
}

func categoryDocs(category string) any {
	switch category {
	case "globals":
		return map[string]any{"category": category, "functions": builtins.Docs()}
	case "modules":
		return map[string]any{"category": category, "modules": modules()}
	case "types":
		return map[string]any{"category": category, "types": types()}
	case "syntax":
		return map[string]any{"category": category, "syntax": docsSyntaxItems}
	case "errors":
		return map[string]any{"category": category, "errors": errorDocs()}
	}
	return map[string]any{"error": "unknown category: " + category}
}

func topicDocs(topic string) any {
	if owner, member, ok := strings.Cut(topic, "."); ok {
		for _, m := range modules() {
			if !strings.EqualFold(m.Name, owner) {
				continue
			}
			if spec, ok := object.FindAttr(m.Members, member); ok {
				return map[string]any{"module": m.Name, "member": spec}
			}
		}
		return map[string]any{"error": "unknown topic: " + topic}
	}
	if spec, ok := object.FindAttr(builtins.Docs(), topic); ok {
		return map[string]any{"global": spec}
	}
	for _, m := range modules() {
		if strings.EqualFold(m.Name, topic) {
			return m
		}
	}
	for _, t := range types() {
		if t.Name == topic {
			return t
		}
	}
	return map[string]any{"error": "unknown topic: " + topic}
}
