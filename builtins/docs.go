package builtins

import "github.com/deepnoodle-ai/canvasbox/object"

// Docs returns documentation for the global functions and namespaces.
func Docs() []object.AttrSpec {
	return builtinDocs
}

var builtinDocs = []object.AttrSpec{
	{Name: "isFinite", Doc: "Whether the value converts to a finite number", Args: []string{"value"}, Returns: "boolean"},
	{Name: "isNaN", Doc: "Whether the value converts to NaN", Args: []string{"value"}, Returns: "boolean"},
	{Name: "parseFloat", Doc: "Parse the leading decimal number of a string", Args: []string{"string"}, Returns: "number"},
	{Name: "parseInt", Doc: "Parse the leading integer of a string", Args: []string{"string", "radix?"}, Returns: "number"},
	{Name: "encodeURI", Doc: "Percent-encode a full URI", Args: []string{"uri"}, Returns: "string"},
	{Name: "encodeURIComponent", Doc: "Percent-encode a URI component", Args: []string{"component"}, Returns: "string"},
	{Name: "decodeURI", Doc: "Decode a percent-encoded URI", Args: []string{"uri"}, Returns: "string"},
	{Name: "decodeURIComponent", Doc: "Decode a percent-encoded URI component", Args: []string{"component"}, Returns: "string"},
	{Name: "Boolean", Doc: "Convert a value to a boolean", Args: []string{"value"}, Returns: "boolean"},
	{Name: "Number", Doc: "Convert a value to a number", Args: []string{"value"}, Returns: "number"},
	{Name: "String", Doc: "Convert a value to a string", Args: []string{"value"}, Returns: "string"},
	{Name: "Object", Doc: "keys, values, entries, assign, freeze, isFrozen, fromEntries"},
	{Name: "Array", Doc: "Create a list; isArray, of, from", Args: []string{"...items"}, Returns: "list"},
	{Name: "Promise", Doc: "resolve, reject, all", Returns: "Promise"},
	{Name: "Map", Doc: "Keyed collection preserving insertion order", Args: []string{"entries?"}, Returns: "Map"},
	{Name: "Set", Doc: "Collection of unique values", Args: []string{"items?"}, Returns: "Set"},
	{Name: "Error", Doc: "Create an error value; also EvalError, RangeError, ReferenceError, SyntaxError, TypeError", Args: []string{"message?"}, Returns: "Error"},
	{Name: "Uint8Array", Doc: "Fixed-size numeric buffer; one constructor per element kind", Args: []string{"lengthOrItems"}, Returns: "TypedArray"},
}
