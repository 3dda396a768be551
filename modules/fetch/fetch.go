// Package fetch provides the fetch function, which downloads a PNG or JPEG
// image over HTTP and resolves to an image value.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deepnoodle-ai/canvasbox/object"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBytes     = 8 << 20
	DefaultMaxDimension = 4096
	DefaultUserAgent    = "canvasbox/1.0 (+https://github.com/deepnoodle-ai/canvasbox)"
)

var (
	protocols  = []string{"http", "https"}
	extensions = []string{".png", ".jpg", ".jpeg"}
)

// Fetcher downloads images on behalf of scripts. A Fetcher is safe for
// concurrent use by many evaluations.
type Fetcher struct {
	client       *http.Client
	maxBytes     int64
	maxDimension int
	userAgent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client. Its timeout is left as given.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout sets the timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithMaxBytes limits the size of a response body.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithMaxDimension limits the width and height of a decoded image.
func WithMaxDimension(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxDimension = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request. An
// empty string keeps the default.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// New returns a Fetcher with the given options applied over the defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{Timeout: DefaultTimeout},
		maxBytes:     DefaultMaxBytes,
		maxDimension: DefaultMaxDimension,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type limiterKey struct{}

// WithLimiter returns a context whose fetches wait on limiter before each
// request.
func WithLimiter(ctx context.Context, limiter *rate.Limiter) context.Context {
	return context.WithValue(ctx, limiterKey{}, limiter)
}

// LimiterFrom returns the limiter attached to ctx, if any.
func LimiterFrom(ctx context.Context) *rate.Limiter {
	limiter, _ := ctx.Value(limiterKey{}).(*rate.Limiter)
	return limiter
}

// Builtin returns the fetch function. It returns a promise right away; the
// download runs on its own goroutine and settles the promise. Invalid
// arguments produce an already rejected promise.
func (f *Fetcher) Builtin() *object.Builtin {
	return object.NewBuiltin("fetch", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		u, err := validate(args)
		if err != nil {
			return object.RejectedPromise(err), nil
		}
		p := object.NewPromise()
		go func() {
			img, err := f.Fetch(ctx, u)
			switch {
			case err == nil:
				p.Resolve(img)
			case ctx.Err() != nil:
				// Left pending: the awaiting side reports the cancellation.
			default:
				p.Reject(object.FromGoError(err))
			}
		}()
		return p, nil
	})
}

func validate(args []object.Object) (*url.URL, *object.Error) {
	if len(args) != 1 {
		return nil, object.TypeErrorf("Expected only 1 argument (at fetch).")
	}
	s, ok := args[0].(*object.String)
	if !ok {
		return nil, object.TypeErrorf("Expected url to be a string (at fetch).")
	}
	u, err := url.Parse(s.Value())
	if err != nil || !u.IsAbs() || (isWebScheme(u.Scheme) && u.Host == "") {
		return nil, object.TypeErrorf("Invalid URL: %s", s.Value())
	}
	if !isWebScheme(u.Scheme) {
		return nil, object.Errorf("The url %s must use one of the following protocols: http, https", u)
	}
	if !hasImageExtension(u.Path) {
		return nil, object.Errorf("The url %s must have one of the following extensions: .png, .jpg, .jpeg", u)
	}
	return u, nil
}

func isWebScheme(scheme string) bool {
	for _, p := range protocols {
		if scheme == p {
			return true
		}
	}
	return false
}

func hasImageExtension(p string) bool {
	ext := path.Ext(p)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Fetch downloads and decodes the image at u. Failures other than context
// cancellation are returned as script errors.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (*object.Image, error) {
	logger := zerolog.Ctx(ctx).With().Str("url", u.String()).Logger()
	if limiter := LimiterFrom(ctx); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, object.Errorf("Too many requests | %s", u)
		}
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, object.TypeErrorf("Invalid URL: %s", u)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/png, image/jpeg")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("fetch failed")
		return nil, object.Errorf("%s | %s", err.Error(), u)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn().Int("status", resp.StatusCode).Msg("fetch rejected")
		return nil, object.Errorf("%d: %s | %s", resp.StatusCode, http.StatusText(resp.StatusCode), u)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, object.Errorf("%s | %s", err.Error(), u)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, object.RangeErrorf("The response from %s exceeds %s", u, humanize.IBytes(uint64(f.maxBytes)))
	}

	img, format, err := f.decode(body)
	if err != nil {
		logger.Warn().Err(err).Msg("fetch returned an unusable image")
		return nil, object.Errorf("Could not load image: %s | %s", err.Error(), u)
	}
	logger.Debug().
		Int("status", resp.StatusCode).
		Str("size", humanize.IBytes(uint64(len(body)))).
		Str("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Dur("elapsed", time.Since(start)).
		Msg("fetched image")
	return object.NewImage(img, format), nil
}

// decode checks the image header before decoding so oversized images are
// rejected without allocating their pixels.
func (f *Fetcher) decode(body []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return nil, "", errors.New("unsupported image type")
	}
	if cfg.Width > f.maxDimension || cfg.Height > f.maxDimension {
		return nil, "", fmt.Errorf("dimensions %dx%d exceed %dx%d",
			cfg.Width, cfg.Height, f.maxDimension, f.maxDimension)
	}
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("invalid image data: %w", err)
	}
	return img, format, nil
}
