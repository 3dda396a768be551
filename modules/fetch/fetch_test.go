package fetch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/deepnoodle-ai/canvasbox/object"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	small := pngBytes(t, 3, 2)
	large := pngBytes(t, 64, 64)
	mux := http.NewServeMux()
	mux.HandleFunc("/img.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.UserAgent() != DefaultUserAgent {
			http.Error(w, "unexpected user agent", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(small)
	})
	mux.HandleFunc("/large.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(large)
	})
	mux.HandleFunc("/text.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func fetch(ctx context.Context, f *Fetcher, args ...object.Object) (object.Object, error) {
	result, err := f.Builtin().Call(ctx, args...)
	if err != nil {
		return nil, err
	}
	return result.(*object.Promise).Await(ctx)
}

func requireRejected(t *testing.T, err error, name, message string) {
	t.Helper()
	var thrown *object.ThrownError
	require.ErrorAs(t, err, &thrown)
	scriptErr, ok := thrown.Value.(*object.Error)
	require.True(t, ok, "thrown value is %s", thrown.Value.Inspect())
	require.Equal(t, name, scriptErr.Name())
	require.Equal(t, message, scriptErr.Message())
}

func TestFetchImage(t *testing.T) {
	srv, hits := newServer(t)
	result, err := fetch(context.Background(), New(), object.NewString(srv.URL+"/img.png"))
	require.NoError(t, err)
	img, ok := result.(*object.Image)
	require.True(t, ok)
	require.Equal(t, "png", img.Format())
	require.Equal(t, "Image { width: 3, height: 2 }", img.Inspect())
	require.Equal(t, int32(1), hits.Load())
}

func TestUserAgent(t *testing.T) {
	var got atomic.Value
	data := pngBytes(t, 1, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.UserAgent())
		w.Write(data)
	}))
	t.Cleanup(srv.Close)

	_, err := fetch(context.Background(), New(WithUserAgent("thumbnailer/2")), object.NewString(srv.URL+"/a.png"))
	require.NoError(t, err)
	require.Equal(t, "thumbnailer/2", got.Load())

	_, err = fetch(context.Background(), New(WithUserAgent("")), object.NewString(srv.URL+"/b.png"))
	require.NoError(t, err)
	require.Equal(t, DefaultUserAgent, got.Load())
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	f := New()
	tests := []struct {
		name    string
		args    []object.Object
		errName string
		message string
	}{
		{"no arguments", nil, object.TypeErrorName, "Expected only 1 argument (at fetch)."},
		{"two arguments", []object.Object{object.NewString("a"), object.NewString("b")}, object.TypeErrorName, "Expected only 1 argument (at fetch)."},
		{"not a string", []object.Object{object.NewNumber(1)}, object.TypeErrorName, "Expected url to be a string (at fetch)."},
		{"relative", []object.Object{object.NewString("img.png")}, object.TypeErrorName, "Invalid URL: img.png"},
		{"no host", []object.Object{object.NewString("http:///img.png")}, object.TypeErrorName, "Invalid URL: http:///img.png"},
		{"protocol", []object.Object{object.NewString("file:///etc/a.png")}, object.ErrorName,
			"The url file:///etc/a.png must use one of the following protocols: http, https"},
		{"extension", []object.Object{object.NewString("https://example.com/a.gif")}, object.ErrorName,
			"The url https://example.com/a.gif must have one of the following extensions: .png, .jpg, .jpeg"},
		{"no extension", []object.Object{object.NewString("https://example.com/")}, object.ErrorName,
			"The url https://example.com/ must have one of the following extensions: .png, .jpg, .jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetch(ctx, f, tt.args...)
			requireRejected(t, err, tt.errName, tt.message)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	srv, _ := newServer(t)
	_, err := fetch(context.Background(), New(), object.NewString(srv.URL+"/missing.png"))
	requireRejected(t, err, object.ErrorName, "404: Not Found | "+srv.URL+"/missing.png")
}

func TestLimits(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()

	_, err := fetch(ctx, New(WithMaxBytes(16)), object.NewString(srv.URL+"/img.png"))
	requireRejected(t, err, object.RangeErrorName, "The response from "+srv.URL+"/img.png exceeds 16 B")

	_, err = fetch(ctx, New(WithMaxDimension(32)), object.NewString(srv.URL+"/large.png"))
	var thrown *object.ThrownError
	require.ErrorAs(t, err, &thrown)
	require.Contains(t, thrown.Error(), "dimensions 64x64 exceed 32x32")

	_, err = fetch(ctx, New(), object.NewString(srv.URL+"/text.jpg"))
	require.ErrorAs(t, err, &thrown)
	require.Contains(t, thrown.Error(), "unsupported image type")
}

func TestCancellation(t *testing.T) {
	srv, _ := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := fetch(ctx, New(), object.NewString(srv.URL+"/slow.png"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientTimeout(t *testing.T) {
	srv, _ := newServer(t)
	_, err := fetch(context.Background(), New(WithTimeout(50*time.Millisecond)), object.NewString(srv.URL+"/slow.png"))
	var thrown *object.ThrownError
	require.ErrorAs(t, err, &thrown)
	require.True(t, strings.HasSuffix(thrown.Error(), "| "+srv.URL+"/slow.png"), thrown.Error())
}

func TestLimiter(t *testing.T) {
	srv, hits := newServer(t)
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	ctx := WithLimiter(context.Background(), limiter)
	require.Same(t, limiter, LimiterFrom(ctx))
	require.Nil(t, LimiterFrom(context.Background()))

	_, err := fetch(ctx, New(), object.NewString(srv.URL+"/img.png"))
	require.NoError(t, err)

	// The second request would wait an hour, longer than the deadline.
	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = fetch(short, New(), object.NewString(srv.URL+"/img.png"))
	require.Error(t, err)
	require.Equal(t, int32(1), hits.Load())
}
