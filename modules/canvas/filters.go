package canvas

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/anthonynsimon/bild/transform"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/canvasbox/object"
)

// maxBlurRadius keeps a single blur call within a bounded amount of work.
const maxBlurRadius = 100

// apply runs a whole-image filter and logs how long it took.
func (c *Canvas) apply(ctx context.Context, name string, fn func(image.Image) image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	c.replace(fn(c.img))
	zerolog.Ctx(ctx).Debug().
		Str("filter", name).
		Int("width", c.Width()).
		Int("height", c.Height()).
		Dur("elapsed", time.Since(start)).
		Msg("canvas filter applied")
	return nil
}

func (c *Canvas) Blur(ctx context.Context, radius float64) error {
	if radius < 0 || radius > maxBlurRadius {
		return object.RangeErrorf("Blur radius must be between 0 and %d", maxBlurRadius)
	}
	if radius == 0 {
		return nil
	}
	return c.apply(ctx, "blur", func(img image.Image) image.Image {
		return blur.Gaussian(img, radius)
	})
}

func (c *Canvas) Sharpen(ctx context.Context) error {
	return c.apply(ctx, "sharpen", func(img image.Image) image.Image {
		return effect.Sharpen(img)
	})
}

func (c *Canvas) Edge(ctx context.Context, radius float64) error {
	if radius <= 0 || radius > maxBlurRadius {
		return object.RangeErrorf("Edge radius must be between 0 and %d", maxBlurRadius)
	}
	return c.apply(ctx, "edge", func(img image.Image) image.Image {
		return effect.EdgeDetection(img, radius)
	})
}

func (c *Canvas) Emboss(ctx context.Context) error {
	return c.apply(ctx, "emboss", func(img image.Image) image.Image {
		return effect.Emboss(img)
	})
}

func (c *Canvas) Grayscale(ctx context.Context) error {
	return c.apply(ctx, "grayscale", func(img image.Image) image.Image {
		return effect.Grayscale(img)
	})
}

func (c *Canvas) Invert(ctx context.Context) error {
	return c.apply(ctx, "invert", func(img image.Image) image.Image {
		return effect.Invert(img)
	})
}

func (c *Canvas) Sepia(ctx context.Context) error {
	return c.apply(ctx, "sepia", func(img image.Image) image.Image {
		return effect.Sepia(img)
	})
}

// Brightness shifts brightness by change, in [-1, 1].
func (c *Canvas) Brightness(ctx context.Context, change float64) error {
	if change < -1 || change > 1 {
		return object.RangeErrorf("Brightness change must be between -1 and 1")
	}
	return c.apply(ctx, "brightness", func(img image.Image) image.Image {
		return adjust.Brightness(img, change)
	})
}

// Contrast scales contrast by change, in [-1, 1].
func (c *Canvas) Contrast(ctx context.Context, change float64) error {
	if change < -1 || change > 1 {
		return object.RangeErrorf("Contrast change must be between -1 and 1")
	}
	return c.apply(ctx, "contrast", func(img image.Image) image.Image {
		return adjust.Contrast(img, change)
	})
}

// Threshold turns every pixel black or white around level, in [0, 255].
func (c *Canvas) Threshold(ctx context.Context, level float64) error {
	if level < 0 || level > 255 {
		return object.RangeErrorf("Threshold level must be between 0 and 255")
	}
	return c.apply(ctx, "threshold", func(img image.Image) image.Image {
		return segment.Threshold(img, uint8(level))
	})
}

// Rotate turns the image clockwise around its center, keeping its size.
func (c *Canvas) Rotate(ctx context.Context, degrees float64) error {
	return c.apply(ctx, "rotate", func(img image.Image) image.Image {
		return transform.Rotate(img, degrees, nil)
	})
}

// Flip mirrors the image. direction is "horizontal", "vertical" or "both".
func (c *Canvas) Flip(ctx context.Context, direction string) error {
	var flip func(image.Image) image.Image
	switch strings.ToLower(direction) {
	case "", "horizontal", "x":
		flip = func(img image.Image) image.Image { return transform.FlipH(img) }
	case "vertical", "y":
		flip = func(img image.Image) image.Image { return transform.FlipV(img) }
	case "both":
		flip = func(img image.Image) image.Image { return transform.FlipV(transform.FlipH(img)) }
	default:
		return object.TypeErrorf("Invalid flip direction: %s", direction)
	}
	return c.apply(ctx, "flip", flip)
}

// Resize scales the canvas to width by height.
func (c *Canvas) Resize(ctx context.Context, width, height float64) error {
	if err := c.opts.checkSize(width, height); err != nil {
		return err
	}
	return c.apply(ctx, "resize", func(img image.Image) image.Image {
		return transform.Resize(img, int(width), int(height), transform.Linear)
	})
}
