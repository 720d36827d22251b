package estimator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnosuke/tag-audit/types"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// noLength answers every probe without a declared length.
func noLength(contentType string) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		h := http.Header{}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		return &http.Response{
			StatusCode:    http.StatusOK,
			Header:        h,
			Body:          io.NopCloser(strings.NewReader("")),
			ContentLength: -1,
			Request:       req,
		}, nil
	}
}

func testConfig() *Config {
	return &Config{Timeout: 5, UserAgent: "test-agent/1.0", MaxResources: 30, MaxWorkers: 30}
}

func resourcesFor(base string, n int) []types.Resource {
	out := make([]types.Resource, n)
	for i := range out {
		out[i] = types.Resource{URL: fmt.Sprintf("%s/r/%d.js", base, i), Kind: types.KindScript}
	}
	return out
}

func TestEstimate_DeclaredLength(t *testing.T) {
	var method, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Content-Length", "1234")
	}))
	defer server.Close()

	size := New(testConfig()).Estimate(context.Background(), server.URL+"/app.js")

	assert.Equal(t, int64(1234), size)
	assert.Equal(t, http.MethodHead, method)
	assert.Equal(t, "test-agent/1.0", agent)
}

func TestEstimate_ZeroLengthIsUsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
	}))
	defer server.Close()

	assert.Equal(t, int64(0), New(testConfig()).Estimate(context.Background(), server.URL))
}

func TestEstimate_ContentTypeDefaults(t *testing.T) {
	tests := []struct {
		contentType string
		expected    int64
	}{
		{"application/javascript; charset=utf-8", SizeScript},
		{"text/javascript", SizeScript},
		{"text/css", SizeStyle},
		{"image/webp", SizeImage},
		{"text/html; charset=UTF-8", SizeHTML},
		{"application/font-woff2", SizeDefault},
		{"", SizeDefault},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			e := New(testConfig(), WithTransport(noLength(tt.contentType)))
			assert.Equal(t, tt.expected, e.Estimate(context.Background(), "https://cdn.example.com/x"))
		})
	}
}

func TestEstimate_FailuresFallBack(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "999")
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		assert.Equal(t, SizeOnFailed, New(testConfig()).Estimate(context.Background(), server.URL))
	})

	t.Run("transport error", func(t *testing.T) {
		e := New(testConfig(), WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})))
		assert.Equal(t, SizeOnFailed, e.Estimate(context.Background(), "https://cdn.example.com/x"))
	})

	t.Run("malformed url", func(t *testing.T) {
		assert.Equal(t, SizeOnFailed, New(testConfig()).Estimate(context.Background(), "http://[::1"))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		e := New(testConfig())
		e.client.Timeout = 50 * time.Millisecond
		assert.Equal(t, SizeOnFailed, e.Estimate(context.Background(), server.URL))
	})
}

func TestEstimateAll_CapsProbes(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.Header().Set("Content-Length", "100")
	}))
	defer server.Close()

	resources := resourcesFor(server.URL, 50)
	probed := New(testConfig()).EstimateAll(context.Background(), resources)

	assert.Equal(t, 30, probed)
	assert.Equal(t, int32(30), probes.Load())
	for i, r := range resources {
		if i < 30 {
			require.NotNil(t, r.Size, "resource %d", i)
			assert.Equal(t, int64(100), *r.Size)
		} else {
			assert.Nil(t, r.Size, "resource %d", i)
		}
	}
}

func TestEstimateAll_FewerThanCap(t *testing.T) {
	e := New(testConfig(), WithTransport(noLength("text/css")))
	resources := resourcesFor("https://cdn.example.com", 3)

	assert.Equal(t, 3, e.EstimateAll(context.Background(), resources))
	for _, r := range resources {
		require.NotNil(t, r.Size)
		assert.Equal(t, SizeStyle, *r.Size)
	}
	assert.Equal(t, 0, e.EstimateAll(context.Background(), nil))
}

func TestEstimateAll_BoundedWorkers(t *testing.T) {
	var mu sync.Mutex
	var inFlight, peak int
	e := New(&Config{Timeout: 5, MaxResources: 20, MaxWorkers: 4},
		WithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return noLength("image/png")(req)
		})))

	e.EstimateAll(context.Background(), resourcesFor("https://cdn.example.com", 20))

	assert.LessOrEqual(t, peak, 4)
	assert.Greater(t, peak, 0)
}

func TestEstimateAll_IgnoresCallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4321")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resources := resourcesFor(server.URL, 2)
	New(testConfig()).EstimateAll(ctx, resources)

	for _, r := range resources {
		require.NotNil(t, r.Size)
		assert.Equal(t, int64(4321), *r.Size)
	}
}
