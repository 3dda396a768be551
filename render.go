package canvasbox

import (
	"regexp"
	"strings"

	"github.com/deepnoodle-ai/canvasbox/modules/canvas"
	"github.com/deepnoodle-ai/canvasbox/object"
)

var codeBlock = regexp.MustCompile("^```(?:js|javascript)?([\\s\\S]+)```$")

// StripCodeBlock removes a surrounding ``` or ```js fence, as found in chat
// messages. Other input is returned unchanged.
func StripCodeBlock(source string) string {
	trimmed := strings.TrimSpace(source)
	if m := codeBlock.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return source
}

// Output is the presentable form of an evaluation result.
type Output struct {
	// PNG holds the encoded image when the result is a canvas or an image.
	PNG []byte
	// Text holds the inspected value otherwise.
	Text string
}

// IsImage reports whether the output is an image.
func (o *Output) IsImage() bool {
	return o.PNG != nil
}

// Render turns a result into PNG bytes when it is drawable and into text
// otherwise.
func Render(value object.Object) (*Output, error) {
	if value == nil {
		value = object.Undefined
	}
	if src, ok := value.(object.ImageSource); ok {
		data, err := canvas.EncodePNG(src.Image())
		if err != nil {
			return nil, err
		}
		return &Output{PNG: data}, nil
	}
	if s, ok := value.(*object.String); ok {
		return &Output{Text: s.Value()}, nil
	}
	return &Output{Text: value.Inspect()}, nil
}
