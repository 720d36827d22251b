package estimator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/types"
)

const (
	SizeScript   int64 = 15000
	SizeStyle    int64 = 8000
	SizeImage    int64 = 50000
	SizeHTML     int64 = 30000
	SizeDefault  int64 = 10000
	SizeOnFailed int64 = 5000
)

type Config struct {
	Timeout      int // seconds, per probe
	UserAgent    string
	MaxResources int
	MaxWorkers   int
}

// Estimator guesses resource sizes from a HEAD probe. It never fails:
// every error degrades to a fixed size.
type Estimator struct {
	client       *http.Client
	userAgent    string
	maxResources int
	maxWorkers   int
}

type Option func(*Estimator)

// WithTransport sets the round tripper used by probes.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Estimator) {
		e.client.Transport = rt
	}
}

func New(cfg *Config, opts ...Option) *Estimator {
	zap.S().Infow("creating new size estimator",
		"timeout", cfg.Timeout,
		"max_resources", cfg.MaxResources,
		"max_workers", cfg.MaxWorkers)

	e := &Estimator{
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		userAgent:    cfg.UserAgent,
		maxResources: cfg.MaxResources,
		maxWorkers:   cfg.MaxWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns a best-effort byte size for resourceURL.
func (e *Estimator) Estimate(ctx context.Context, resourceURL string) int64 {
	size, err := e.probe(ctx, resourceURL)
	if err != nil {
		zap.S().Debugw("size probe failed, using fallback",
			"url", resourceURL,
			"fallback", SizeOnFailed,
			"error", err)
		return SizeOnFailed
	}
	return size
}

func (e *Estimator) probe(ctx context.Context, resourceURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, resourceURL, nil)
	if err != nil {
		return 0, ierrors.Wrap(err, "failed to create request")
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, ierrors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, ierrors.Newf("unexpected status code: %d", resp.StatusCode)
	}
	if resp.ContentLength >= 0 {
		return resp.ContentLength, nil
	}
	return SizeForContentType(resp.Header.Get("Content-Type")), nil
}

// SizeForContentType is the fallback size when a response declares no length.
func SizeForContentType(contentType string) int64 {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "javascript"):
		return SizeScript
	case strings.Contains(ct, "css"):
		return SizeStyle
	case strings.Contains(ct, "image"):
		return SizeImage
	case strings.Contains(ct, "html"):
		return SizeHTML
	}
	return SizeDefault
}

// EstimateAll sizes the first MaxResources entries of resources in place and
// returns how many were probed. The rest keep a nil Size. Probes run
// concurrently (at most MaxWorkers at once) and are detached from ctx
// cancellation; each is bounded only by the probe timeout.
func (e *Estimator) EstimateAll(ctx context.Context, resources []types.Resource) int {
	n := len(resources)
	if e.maxResources >= 0 && n > e.maxResources {
		n = e.maxResources
	}
	if n == 0 {
		return 0
	}

	probeCtx := context.WithoutCancel(ctx)
	start := time.Now()

	var g errgroup.Group
	if e.maxWorkers > 0 {
		g.SetLimit(e.maxWorkers)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			size := e.Estimate(probeCtx, resources[i].URL)
			resources[i].Size = &size
			return nil
		})
	}
	_ = g.Wait()

	zap.S().Debugw("size estimation finished",
		"probed", n,
		"skipped", len(resources)-n,
		"elapsed", time.Since(start))

	return n
}
