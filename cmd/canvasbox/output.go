package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/hokaccha/go-prettyjson"

	"github.com/deepnoodle-ai/canvasbox"
	"github.com/deepnoodle-ai/canvasbox/errors"
	modJSON "github.com/deepnoodle-ai/canvasbox/modules/json"
	"github.com/deepnoodle-ai/canvasbox/object"
)

var outputFormats = []string{"json", "text"}

func (a *app) formatValue(ctx context.Context, result object.Object, out *canvasbox.Output, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		if result == object.Undefined {
			return "", nil
		}
		return out.Text, nil
	case "text":
		return out.Text, nil
	case "json":
		return a.formatJSON(ctx, result)
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

func (a *app) formatJSON(ctx context.Context, result object.Object) (string, error) {
	space := object.NewNumber(2)
	encoded, err := modJSON.Stringify(ctx, result, object.Null, space)
	if err != nil {
		return "", err
	}
	s, ok := encoded.(*object.String)
	if !ok {
		return "", fmt.Errorf("a %s value has no JSON form", result.Type())
	}
	if !a.useColor() {
		return s.Value(), nil
	}
	colored, err := prettyjson.Format([]byte(s.Value()))
	if err != nil {
		return "", err
	}
	return string(colored), nil
}

// formatError renders parse and policy errors with a source snippet.
func (a *app) formatError(err error) error {
	formatter := errors.NewFormatter(a.useColor())

	if multiErr, ok := err.(interface {
		ToFormattedMultiple() []*errors.FormattedError
	}); ok {
		return goerrors.New(formatter.FormatMultiple(multiErr.ToFormattedMultiple()))
	}
	var formattable errors.FormattableError
	if goerrors.As(err, &formattable) {
		return goerrors.New(formatter.Format(formattable.ToFormatted()))
	}
	var thrown *object.ThrownError
	if goerrors.As(err, &thrown) {
		if _, ok := thrown.Value.(*object.Error); ok {
			return fmt.Errorf("Uncaught %s", thrown.Error())
		}
		return thrown
	}
	return err
}

func stopwatch(d time.Duration) string {
	return durafmt.Parse(d.Round(time.Microsecond)).LimitFirstN(2).String()
}

func byteSize(n int) string {
	return humanize.IBytes(uint64(n))
}

func (a *app) dim(s string) string {
	if !a.useColor() {
		return s
	}
	return color.New(color.Faint).Sprint(s)
}
