package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/deepnoodle-ai/canvasbox/object"
)

var face font.Face = basicfont.Face7x13

// source returns the fill color with the global alpha applied.
func (c *Canvas) source() *image.Uniform {
	col := c.fill
	col.A = uint8(math.Round(float64(col.A) * c.alpha))
	return image.NewUniform(col)
}

func (c *Canvas) SetColor(css string) error {
	col, err := ParseColor(css)
	if err != nil {
		return err
	}
	c.fill = col
	return nil
}

// SetGlobalAlpha sets the opacity applied to later drawing. Values outside
// [0, 1] and NaN are ignored.
func (c *Canvas) SetGlobalAlpha(a float64) {
	if a >= 0 && a <= 1 {
		c.alpha = a
	}
}

// SetLineWidth sets the stroke width. Non-positive and non-finite values
// are ignored.
func (c *Canvas) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		c.lineWidth = w
	}
}

func (c *Canvas) Clear() {
	xdraw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
}

// coordLimit bounds pixel coordinates so far-away shapes cannot overflow
// int conversion.
const coordLimit = 1 << 24

func px(v float64) int {
	return int(math.Round(math.Max(-coordLimit, math.Min(coordLimit, v))))
}

func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(px(x), px(y), px(x+w), px(y+h)).Canon()
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	xdraw.Draw(c.img, rect(x, y, w, h), c.source(), image.Point{}, xdraw.Over)
}

// coverage is a per-pixel mask for shapes that are not axis-aligned
// rectangles. Setting a pixel twice does not darken it.
type coverage struct {
	mask *image.Alpha
}

func (c *Canvas) newCoverage() *coverage {
	return &coverage{mask: image.NewAlpha(c.img.Bounds())}
}

func (cv *coverage) set(x, y int) {
	cv.mask.SetAlpha(x, y, color.Alpha{A: 255})
}

// disk marks every pixel whose center lies within r of (cx, cy).
func (cv *coverage) disk(cx, cy, r float64) {
	b := cv.mask.Bounds()
	minX, maxX := max(b.Min.X, px(math.Floor(cx-r))), min(b.Max.X-1, px(math.Ceil(cx+r)))
	minY, maxY := max(b.Min.Y, px(math.Floor(cy-r))), min(b.Max.Y-1, px(math.Ceil(cy+r)))
	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r*r {
				cv.set(x, y)
			}
		}
	}
}

func (c *Canvas) paint(cv *coverage) {
	b := cv.mask.Bounds()
	xdraw.DrawMask(c.img, b, c.source(), image.Point{}, cv.mask, b.Min, xdraw.Over)
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	half := c.lineWidth / 2
	outer := rect(x-half, y-half, w+c.lineWidth, h+c.lineWidth).Intersect(c.img.Bounds())
	var inner image.Rectangle
	if w > c.lineWidth && h > c.lineWidth {
		inner = rect(x+half, y+half, w-c.lineWidth, h-c.lineWidth)
	}
	cv := c.newCoverage()
	for y := outer.Min.Y; y < outer.Max.Y; y++ {
		for x := outer.Min.X; x < outer.Max.X; x++ {
			if !image.Pt(x, y).In(inner) {
				cv.set(x, y)
			}
		}
	}
	c.paint(cv)
}

func (c *Canvas) FillCircle(x, y, r float64) error {
	if r < 0 {
		return object.RangeErrorf("The radius provided (%s) is negative.", object.FormatNumber(r))
	}
	cv := c.newCoverage()
	cv.disk(x, y, r)
	c.paint(cv)
	return nil
}

// Line strokes a segment with round caps. The segment is first clipped to
// the canvas, widened by the stroke.
func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	b := c.img.Bounds()
	half := math.Max(c.lineWidth/2, 0.5)
	half = math.Min(half, math.Hypot(float64(b.Dx()), float64(b.Dy())))
	ok, x1, y1, x2, y2 := clipSegment(x1, y1, x2, y2,
		float64(b.Min.X)-half, float64(b.Min.Y)-half, float64(b.Max.X)+half, float64(b.Max.Y)+half)
	if !ok {
		return
	}
	box := image.Rect(
		px(math.Floor(math.Min(x1, x2)-half)), px(math.Floor(math.Min(y1, y2)-half)),
		px(math.Ceil(math.Max(x1, x2)+half))+1, px(math.Ceil(math.Max(y1, y2)+half))+1,
	).Intersect(b)
	cv := c.newCoverage()
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if segmentDistance(float64(x)+0.5, float64(y)+0.5, x1, y1, x2, y2) <= half {
				cv.set(x, y)
			}
		}
	}
	c.paint(cv)
}

func segmentDistance(x, y, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = math.Max(0, math.Min(1, ((x-x1)*dx+(y-y1)*dy)/l2))
	}
	return math.Hypot(x-(x1+t*dx), y-(y1+t*dy))
}

// clipSegment clips a segment to a rectangle (Liang-Barsky).
func clipSegment(x1, y1, x2, y2, minX, minY, maxX, maxY float64) (bool, float64, float64, float64, float64) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - minX},
		{dx, maxX - x1},
		{-dy, y1 - minY},
		{dy, maxY - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false, 0, 0, 0, 0
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false, 0, 0, 0, 0
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return false, 0, 0, 0, 0
			}
			t1 = math.Min(t1, r)
		}
	}
	return true, x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy
}

// DrawImage draws src with its top-left corner at (x, y), scaled to w by h.
func (c *Canvas) DrawImage(src image.Image, x, y, w, h float64) {
	dst := rect(x, y, w, h)
	if dst.Empty() || src.Bounds().Empty() {
		return
	}
	if src == image.Image(c.img) {
		src = clone.AsRGBA(src)
	}
	var opts *xdraw.Options
	if c.alpha < 1 {
		opts = &xdraw.Options{DstMask: image.NewUniform(color.Alpha{A: uint8(math.Round(255 * c.alpha))})}
	}
	xdraw.BiLinear.Scale(c.img, dst, src, src.Bounds(), xdraw.Over, opts)
}

// Text draws s with its baseline starting at (x, y).
func (c *Canvas) Text(s string, x, y float64) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  c.source(),
		Face: face,
		Dot:  fixed.P(px(x), px(y)),
	}
	d.DrawString(s)
}

// MeasureText returns the advance width and line height of s.
func MeasureText(s string) (width, height int) {
	return font.MeasureString(face, s).Ceil(), face.Metrics().Height.Ceil()
}
