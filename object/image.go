package object

import (
	"fmt"
	"image"
)

// ImageSource is implemented by values that can be drawn onto a canvas or
// rendered to PNG.
type ImageSource interface {
	Object
	Image() image.Image
}

var imageAttrs = NewAttrRegistry[*Image]("Image")

func init() {
	imageAttrs.Define("width").
		Doc("Width in pixels").
		Returns("number").
		Getter(func(img *Image) Object {
			return NewNumber(float64(img.img.Bounds().Dx()))
		})

	imageAttrs.Define("height").
		Doc("Height in pixels").
		Returns("number").
		Getter(func(img *Image) Object {
			return NewNumber(float64(img.img.Bounds().Dy()))
		})
}

// Image is a decoded, read-only image, such as the result of fetch.
type Image struct {
	img    image.Image
	format string
}

// NewImage wraps a decoded image. format is the decoder name, e.g. "png".
func NewImage(img image.Image, format string) *Image {
	return &Image{img: img, format: format}
}

func (img *Image) Image() image.Image {
	return img.img
}

// Format returns the name of the format the image was decoded from.
func (img *Image) Format() string {
	return img.format
}

func (img *Image) Type() Type {
	return IMAGE
}

func (img *Image) Inspect() string {
	b := img.img.Bounds()
	return fmt.Sprintf("Image { width: %d, height: %d }", b.Dx(), b.Dy())
}

func (img *Image) String() string {
	return "[object Image]"
}

func (img *Image) Interface() interface{} {
	return img.img
}

func (img *Image) Equals(other Object) bool {
	return img == other
}

func (img *Image) IsTruthy() bool {
	return true
}

func (img *Image) Attrs() []AttrSpec {
	return imageAttrs.Specs()
}

func (img *Image) GetAttr(name string) (Object, bool) {
	return imageAttrs.GetAttr(img, name)
}

func (img *Image) SetAttr(name string, value Object) error {
	return frozenError(name)
}
