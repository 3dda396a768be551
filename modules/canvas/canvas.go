// Package canvas provides the Canvas class: an RGBA drawing surface with
// chainable drawing methods and image filters.
package canvas

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	xdraw "golang.org/x/image/draw"

	"github.com/deepnoodle-ai/canvasbox/object"
)

// CANVAS is the object type of canvas values.
const CANVAS object.Type = "canvas"

// DefaultMaxSize is the largest width and height a canvas may have unless
// configured otherwise.
const DefaultMaxSize = 2048

type options struct {
	maxWidth  int
	maxHeight int
}

// Option configures the Canvas class.
type Option func(*options)

// WithMaxSize limits the dimensions of canvases created by the class.
// Non-positive values keep the default.
func WithMaxSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.maxWidth = width
		}
		if height > 0 {
			o.maxHeight = height
		}
	}
}

// Canvas is a mutable drawing surface backed by an *image.RGBA. A canvas
// belongs to a single evaluation and is not safe for concurrent use.
type Canvas struct {
	img       *image.RGBA
	fill      color.NRGBA
	alpha     float64
	lineWidth float64
	opts      options
}

// New returns a transparent canvas of the given size.
func New(width, height int, opts ...Option) (*Canvas, error) {
	o := buildOptions(opts)
	if err := o.checkSize(float64(width), float64(height)); err != nil {
		return nil, err
	}
	return newCanvas(image.NewRGBA(image.Rect(0, 0, width, height)), o), nil
}

// FromImage returns a canvas holding a copy of img.
func FromImage(img image.Image, opts ...Option) (*Canvas, error) {
	o := buildOptions(opts)
	b := img.Bounds()
	if err := o.checkSize(float64(b.Dx()), float64(b.Dy())); err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return newCanvas(dst, o), nil
}

func buildOptions(opts []Option) options {
	o := options{maxWidth: DefaultMaxSize, maxHeight: DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newCanvas(img *image.RGBA, o options) *Canvas {
	return &Canvas{
		img:       img,
		fill:      color.NRGBA{A: 255},
		alpha:     1,
		lineWidth: 1,
		opts:      o,
	}
}

func (o options) checkSize(w, h float64) error {
	if w != math.Trunc(w) || h != math.Trunc(h) || w < 1 || h < 1 ||
		w > float64(o.maxWidth) || h > float64(o.maxHeight) {
		return object.RangeErrorf("Canvas size must be between 1x1 and %dx%d, got %sx%s",
			o.maxWidth, o.maxHeight, object.FormatNumber(w), object.FormatNumber(h))
	}
	return nil
}

// Class returns the Canvas constructor. It accepts either a width and a
// height, or an image to copy.
func Class(opts ...Option) *object.Module {
	o := buildOptions(opts)
	construct := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) > 0 {
			if src, ok := args[0].(object.ImageSource); ok {
				return FromImage(src.Image(), opts...)
			}
		}
		if err := object.RequireAtLeast("Canvas", 2, args); err != nil {
			return nil, err
		}
		w, h := object.ToNumber(args[0]), object.ToNumber(args[1])
		if err := o.checkSize(w, h); err != nil {
			return nil, err
		}
		return New(int(w), int(h), opts...)
	}
	call := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, object.TypeErrorf("Class constructor Canvas cannot be invoked without 'new'")
	}
	return object.NewClass("Canvas", nil, call, construct)
}

// Image returns the backing image. Callers must not modify it.
func (c *Canvas) Image() image.Image {
	return c.img
}

func (c *Canvas) Width() int {
	return c.img.Bounds().Dx()
}

func (c *Canvas) Height() int {
	return c.img.Bounds().Dy()
}

// PNG encodes the current contents as PNG.
func (c *Canvas) PNG() ([]byte, error) {
	return EncodePNG(c.img)
}

// EncodePNG encodes any image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL returns the PNG encoding as a data: URL.
func (c *Canvas) DataURL() (string, error) {
	data, err := c.PNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// replace swaps in a filter result, converting it to RGBA if needed.
func (c *Canvas) replace(img image.Image) {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		c.img = rgba
		return
	}
	c.img = clone.AsRGBA(img)
}

func (c *Canvas) Type() object.Type {
	return CANVAS
}

func (c *Canvas) Inspect() string {
	return fmt.Sprintf("Canvas { width: %d, height: %d }", c.Width(), c.Height())
}

func (c *Canvas) String() string {
	return "[object Canvas]"
}

func (c *Canvas) Interface() interface{} {
	return c.img
}

func (c *Canvas) Equals(other object.Object) bool {
	return c == other
}

func (c *Canvas) IsTruthy() bool {
	return true
}

func (c *Canvas) Attrs() []object.AttrSpec {
	return canvasAttrs.Specs()
}

func (c *Canvas) GetAttr(name string) (object.Object, bool) {
	return canvasAttrs.GetAttr(c, name)
}

func (c *Canvas) SetAttr(name string, value object.Object) error {
	return object.TypeErrorf("Cannot assign to property %s of Canvas", name)
}
