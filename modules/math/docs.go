package math

import "github.com/deepnoodle-ai/canvasbox/object"

// Docs returns documentation for the Math namespace.
func Docs() []object.AttrSpec {
	return mathDocs
}

// ModuleDoc returns the module-level documentation.
func ModuleDoc() string {
	return "Mathematical functions and constants"
}

var mathDocs = []object.AttrSpec{
	// Constants
	{Name: "PI", Doc: "Pi (3.14159...)", Returns: "number"},
	{Name: "E", Doc: "Euler's number (2.718...)", Returns: "number"},
	{Name: "SQRT2", Doc: "Square root of 2", Returns: "number"},
	// Rounding
	{Name: "abs", Doc: "Absolute value", Args: []string{"x"}, Returns: "number"},
	{Name: "sign", Doc: "Sign of x (-1, 0, or 1)", Args: []string{"x"}, Returns: "number"},
	{Name: "floor", Doc: "Round down", Args: []string{"x"}, Returns: "number"},
	{Name: "ceil", Doc: "Round up", Args: []string{"x"}, Returns: "number"},
	{Name: "round", Doc: "Round half up", Args: []string{"x"}, Returns: "number"},
	{Name: "trunc", Doc: "Drop the fractional part", Args: []string{"x"}, Returns: "number"},
	// Powers and logarithms
	{Name: "sqrt", Doc: "Square root", Args: []string{"x"}, Returns: "number"},
	{Name: "cbrt", Doc: "Cube root", Args: []string{"x"}, Returns: "number"},
	{Name: "pow", Doc: "x raised to the power y", Args: []string{"x", "y"}, Returns: "number"},
	{Name: "hypot", Doc: "Square root of the sum of squares", Args: []string{"...values"}, Returns: "number"},
	{Name: "exp", Doc: "e raised to x", Args: []string{"x"}, Returns: "number"},
	{Name: "log", Doc: "Natural logarithm", Args: []string{"x"}, Returns: "number"},
	{Name: "log10", Doc: "Base-10 logarithm", Args: []string{"x"}, Returns: "number"},
	{Name: "log2", Doc: "Base-2 logarithm", Args: []string{"x"}, Returns: "number"},
	// Trigonometry
	{Name: "sin", Doc: "Sine", Args: []string{"x"}, Returns: "number"},
	{Name: "cos", Doc: "Cosine", Args: []string{"x"}, Returns: "number"},
	{Name: "tan", Doc: "Tangent", Args: []string{"x"}, Returns: "number"},
	{Name: "atan2", Doc: "Angle of the point (x, y)", Args: []string{"y", "x"}, Returns: "number"},
	// Aggregates
	{Name: "max", Doc: "Largest argument", Args: []string{"...values"}, Returns: "number"},
	{Name: "min", Doc: "Smallest argument", Args: []string{"...values"}, Returns: "number"},
	{Name: "random", Doc: "Pseudo-random number in [0, 1)", Returns: "number"},
}
