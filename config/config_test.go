package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/canvasbox"
	"github.com/deepnoodle-ai/canvasbox/object"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
timeout: 5s
fetch:
  rate: 2
  burst: 3
  user_agent: test-agent
canvas:
  max_width: 100
log:
  level: debug
  format: json
publish:
  bucket: images
  prefix: renders/
`))
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, 2.0, cfg.Fetch.Rate)
	require.Equal(t, 3, cfg.Fetch.Burst)
	require.Equal(t, "test-agent", cfg.Fetch.UserAgent)
	require.Equal(t, 100, cfg.Canvas.MaxWidth)
	require.Equal(t, Defaults().Canvas.MaxHeight, cfg.Canvas.MaxHeight)
	require.Equal(t, Defaults().Fetch.Timeout, cfg.Fetch.Timeout)
	require.Equal(t, zerolog.DebugLevel, cfg.Level())
	require.Equal(t, "images", cfg.Publish.Bucket)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("timeout: [1"))
	require.ErrorContains(t, err, "failed to parse config")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := Parse([]byte(`
timeout: -1s
fetch:
  max_bytes: 0
  rate: 1
  burst: 0
log:
  level: loud
  format: xml
publish:
  prefix: x/
`))
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 6)
	require.ErrorContains(t, err, "log.format must be console or json")
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)

	path := filepath.Join(t.TempDir(), "canvasbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 50\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.MaxDepth)
}

func TestSettings(t *testing.T) {
	settings, err := Defaults().Settings()
	require.NoError(t, err)
	require.Equal(t, "30s", settings["timeout"])
	require.Equal(t, "console", settings["log.format"])
	require.Contains(t, settings, "fetch.user_agent")
	require.Contains(t, settings, "publish.bucket")
}

func TestOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Canvas.MaxWidth = 10
	cfg.Fetch.Rate = 1
	ctx := context.Background()

	_, err := canvasbox.Eval(ctx, `new Canvas(20, 5)`, cfg.Options()...)
	var thrown *object.ThrownError
	require.ErrorAs(t, err, &thrown)
	require.Contains(t, thrown.Error(), "RangeError")

	result, err := canvasbox.Eval(ctx, `new Canvas(10, 5).width`, cfg.Options()...)
	require.NoError(t, err)
	require.Equal(t, "10", result.Inspect())
}
