package canvas

import (
	"context"
	"math"

	"github.com/deepnoodle-ai/canvasbox/object"
)

var canvasAttrs = object.NewAttrRegistry[*Canvas]("Canvas")

// numbers coerces the first n arguments to finite numbers.
func numbers(name string, args []object.Object, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v := object.ToNumber(args[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, object.TypeErrorf("Canvas.%s: argument %d must be a finite number", name, i+1)
		}
		out[i] = v
	}
	return out, nil
}

// method defines a chainable method taking n numeric arguments.
func method(name, doc string, argNames []string, fn func(c *Canvas, ctx context.Context, v []float64) error) {
	canvasAttrs.Define(name).
		Doc(doc).
		Args(argNames...).
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			v, err := numbers(name, args, len(argNames))
			if err != nil {
				return nil, err
			}
			if err := fn(c, ctx, v); err != nil {
				return nil, err
			}
			return c, nil
		})
}

// filter defines a chainable method taking no arguments.
func filter(name, doc string, fn func(c *Canvas, ctx context.Context) error) {
	method(name, doc, nil, func(c *Canvas, ctx context.Context, _ []float64) error {
		return fn(c, ctx)
	})
}

func init() {
	canvasAttrs.Define("width").
		Doc("Width in pixels").
		Returns("number").
		Getter(func(c *Canvas) object.Object {
			return object.NewNumber(float64(c.Width()))
		})

	canvasAttrs.Define("height").
		Doc("Height in pixels").
		Returns("number").
		Getter(func(c *Canvas) object.Object {
			return object.NewNumber(float64(c.Height()))
		})

	canvasAttrs.Define("setColor").
		Doc("Set the fill and stroke color from a CSS color string").
		Arg("color").
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			css, err := object.AsString(args[0])
			if err != nil {
				return nil, err
			}
			if err := c.SetColor(css); err != nil {
				return nil, err
			}
			return c, nil
		})

	canvasAttrs.Define("setGlobalAlpha").
		Doc("Set the opacity of later drawing, from 0 to 1").
		Arg("alpha").
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			c.SetGlobalAlpha(object.ToNumber(args[0]))
			return c, nil
		})

	canvasAttrs.Define("setLineWidth").
		Doc("Set the stroke width").
		Arg("width").
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			c.SetLineWidth(object.ToNumber(args[0]))
			return c, nil
		})

	method("printRectangle", "Fill a rectangle", []string{"x", "y", "width", "height"},
		func(c *Canvas, ctx context.Context, v []float64) error {
			c.FillRect(v[0], v[1], v[2], v[3])
			return nil
		})

	method("printStrokeRectangle", "Stroke the outline of a rectangle", []string{"x", "y", "width", "height"},
		func(c *Canvas, ctx context.Context, v []float64) error {
			c.StrokeRect(v[0], v[1], v[2], v[3])
			return nil
		})

	method("printCircle", "Fill a circle", []string{"x", "y", "radius"},
		func(c *Canvas, ctx context.Context, v []float64) error {
			return c.FillCircle(v[0], v[1], v[2])
		})

	method("printLine", "Stroke a line between two points", []string{"x1", "y1", "x2", "y2"},
		func(c *Canvas, ctx context.Context, v []float64) error {
			c.Line(v[0], v[1], v[2], v[3])
			return nil
		})

	canvasAttrs.Define("printImage").
		Doc("Draw an image or canvas, optionally scaled").
		Args("image", "x", "y").
		OptionalArg("width").
		OptionalArg("height").
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			src, ok := args[0].(object.ImageSource)
			if !ok {
				return nil, object.TypeErrorf("Canvas.printImage: argument 1 must be an image, got %s", object.TypeOf(args[0]))
			}
			img := src.Image()
			n := 3
			if len(args) >= 5 {
				n = 5
			}
			v, err := numbers("printImage", args[1:], n-1)
			if err != nil {
				return nil, err
			}
			w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
			if n == 5 {
				w, h = v[2], v[3]
			}
			c.DrawImage(img, v[0], v[1], w, h)
			return c, nil
		})

	canvasAttrs.Define("printText").
		Doc("Draw text with its baseline at (x, y)").
		Args("text", "x", "y").
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			v, err := numbers("printText", args[1:], 2)
			if err != nil {
				return nil, err
			}
			c.Text(object.ToString(args[0]), v[0], v[1])
			return c, nil
		})

	canvasAttrs.Define("measureText").
		Doc("Measure the size of text as drawn by printText").
		Arg("text").
		Returns("record").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			w, h := MeasureText(object.ToString(args[0]))
			r := object.NewRecord()
			r.Put("width", object.NewNumber(float64(w)))
			r.Put("height", object.NewNumber(float64(h)))
			r.Seal()
			return r, nil
		})

	filter("clear", "Erase the canvas to transparent", func(c *Canvas, ctx context.Context) error {
		c.Clear()
		return nil
	})

	method("blur", "Gaussian blur with the given radius", []string{"radius"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Blur(ctx, v[0]) })
	filter("sharpen", "Sharpen edges", (*Canvas).Sharpen)
	method("edge", "Edge detection with the given radius", []string{"radius"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Edge(ctx, v[0]) })
	filter("emboss", "Emboss effect", (*Canvas).Emboss)
	filter("grayscale", "Convert to grayscale", (*Canvas).Grayscale)
	filter("greyscale", "Alias of grayscale", (*Canvas).Grayscale)
	filter("invert", "Invert colors", (*Canvas).Invert)
	filter("sepia", "Sepia tone", (*Canvas).Sepia)
	method("brightness", "Adjust brightness by a change between -1 and 1", []string{"change"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Brightness(ctx, v[0]) })
	method("contrast", "Adjust contrast by a change between -1 and 1", []string{"change"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Contrast(ctx, v[0]) })
	method("threshold", "Black and white around a level between 0 and 255", []string{"level"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Threshold(ctx, v[0]) })
	method("rotate", "Rotate clockwise by degrees around the center", []string{"degrees"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Rotate(ctx, v[0]) })
	method("resize", "Scale to a new width and height", []string{"width", "height"},
		func(c *Canvas, ctx context.Context, v []float64) error { return c.Resize(ctx, v[0], v[1]) })

	canvasAttrs.Define("flip").
		Doc(`Mirror the image: "horizontal" (default), "vertical" or "both"`).
		OptionalArg("direction").
		Returns("Canvas").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			direction := ""
			if len(args) > 0 && !object.IsNullish(args[0]) {
				direction = object.ToString(args[0])
			}
			if err := c.Flip(ctx, direction); err != nil {
				return nil, err
			}
			return c, nil
		})

	canvasAttrs.Define("toDataURL").
		Doc("Encode as a base64 PNG data URL").
		Returns("string").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			url, err := c.DataURL()
			if err != nil {
				return nil, err
			}
			return object.NewString(url), nil
		})

	canvasAttrs.Define("toBuffer").
		Doc("Encode as PNG bytes").
		Returns("Uint8Array").
		Impl(func(c *Canvas, ctx context.Context, args ...object.Object) (object.Object, error) {
			data, err := c.PNG()
			if err != nil {
				return nil, err
			}
			return object.NewUint8ArrayFromBytes(data), nil
		})
}

// Docs returns documentation for Canvas methods and properties.
func Docs() []object.AttrSpec {
	return canvasAttrs.Specs()
}
