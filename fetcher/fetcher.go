package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 5 << 20

type Config struct {
	Timeout      int // seconds, per strategy
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher retrieves the HTML of the page under analysis.
type Fetcher interface {
	// Fetch tries each strategy in order and returns the first success.
	// When all strategies fail the error is a *FetchError.
	Fetch(ctx context.Context, target *url.URL) (*Result, error)
}

// Result is the page fetched by the winning strategy.
type Result struct {
	HTML        string
	FinalURL    *url.URL
	Strategy    string
	StatusCode  int
	ContentType string
}

// Runner is a Fetcher driven by an ordered list of strategies.
type Runner struct {
	strategies   []Strategy
	transport    http.RoundTripper
	maxBodyBytes int64
}

type Option func(*Runner)

// WithTransport sets the round tripper used by every attempt.
func WithTransport(rt http.RoundTripper) Option {
	return func(r *Runner) {
		r.transport = rt
	}
}

// WithMaxBodyBytes caps how much of the page body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

// NewRunner creates a Runner over strategies.
func NewRunner(strategies []Strategy, opts ...Option) *Runner {
	r := &Runner{
		strategies:   strategies,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewHTTPFetcher creates a Runner over DefaultStrategies.
func NewHTTPFetcher(cfg *Config, opts ...Option) *Runner {
	zap.S().Infow("creating new HTTP fetcher",
		"timeout", cfg.Timeout,
		"user_agent", cfg.UserAgent,
		"max_body_bytes", cfg.MaxBodyBytes)

	opts = append([]Option{WithMaxBodyBytes(cfg.MaxBodyBytes)}, opts...)
	return NewRunner(DefaultStrategies(cfg), opts...)
}

// Fetch implements Fetcher. Attempts are strictly sequential; a strategy is
// never retried and later strategies are skipped once one succeeds.
func (r *Runner) Fetch(ctx context.Context, target *url.URL) (*Result, error) {
	attempts := make([]Attempt, 0, len(r.strategies))

	for _, s := range r.strategies {
		u := target
		if s.Transform != nil {
			clone := *target
			u = s.Transform(&clone)
		}

		zap.S().Debugw("trying fetch strategy",
			"strategy", s.Name,
			"url", u.String(),
			"timeout", s.Timeout,
			"max_redirects", s.MaxRedirects)

		res, err := r.attempt(ctx, s, u)
		if err == nil {
			zap.S().Infow("fetch strategy succeeded",
				"strategy", s.Name,
				"url", u.String(),
				"final_url", res.FinalURL.String(),
				"status", res.StatusCode,
				"bytes", len(res.HTML))
			return res, nil
		}

		zap.S().Warnw("fetch strategy failed",
			"strategy", s.Name,
			"url", u.String(),
			"kind", Classify(err),
			"error", err)
		attempts = append(attempts, Attempt{Strategy: s.Name, URL: u.String(), Err: err})
	}

	return nil, newFetchError(attempts)
}

func (r *Runner) attempt(ctx context.Context, s Strategy, u *url.URL) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to create request")
	}
	if s.Header != nil {
		req.Header = s.Header.Clone()
	}

	client := &http.Client{
		Transport:     r.transport,
		Timeout:       s.Timeout,
		CheckRedirect: redirectPolicy(s.MaxRedirects),
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	accept := s.Accept
	if accept == nil {
		accept = AcceptRange(200, 399)
	}
	if !accept(resp.StatusCode) {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := r.readBody(resp)
	if err != nil {
		return nil, err
	}

	zap.S().Debugw(
		"response received",
		"strategy", s.Name,
		"url", u.String(),
		"final_url", resp.Request.URL.String(),
		"status", resp.StatusCode,
		"content-length", resp.ContentLength,
		"content-encoding", resp.Header.Get("Content-Encoding"),
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	return &Result{
		HTML:        string(body),
		FinalURL:    resp.Request.URL,
		Strategy:    s.Name,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// readBody decodes the body and caps the decoded output at maxBodyBytes, so
// a large compressed page is truncated rather than rejected.
func (r *Runner) readBody(resp *http.Response) ([]byte, error) {
	encoding := ""
	if !resp.Uncompressed {
		encoding = resp.Header.Get("Content-Encoding")
	}

	raw := &bodyReader{r: resp.Body}
	dec, err := newDecoder(encoding, raw)
	var body []byte
	if err == nil {
		defer dec.Close()
		body, err = io.ReadAll(io.LimitReader(dec, r.maxBodyBytes))
	}
	if err != nil {
		if raw.err != nil {
			return nil, ierrors.Wrap(raw.err, "failed to read response body")
		}
		return nil, &DecodeError{Encoding: encoding, Err: err}
	}
	return body, nil
}

// redirectPolicy allows up to max redirects; via includes the original request.
func redirectPolicy(max int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > max {
			return ErrTooManyRedirects
		}
		return nil
	}
}
