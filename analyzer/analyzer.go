package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cnosuke/tag-audit/collector"
	"github.com/cnosuke/tag-audit/fetcher"
	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/scoring"
	"github.com/cnosuke/tag-audit/types"
)

// TimeFormat renders analysisTime as UTC ISO-8601 with milliseconds.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

var ErrMissingURL = ierrors.New("url is required")

// SizeEstimator fills in resource sizes.
type SizeEstimator interface {
	EstimateAll(ctx context.Context, resources []types.Resource) int
}

// Failure is returned by Analyze when no fetch strategy succeeded. It is a
// reportable outcome, not an internal error.
type Failure struct {
	Response types.FailureResponse
	Cause    *fetcher.FetchError
}

func (f *Failure) Error() string {
	return fmt.Sprintf("analysis of %s failed: %v", f.Response.URL, f.Cause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Analyzer runs fetch, collection, estimation and aggregation for one URL.
type Analyzer struct {
	fetcher   fetcher.Fetcher
	collector *collector.Collector
	estimator SizeEstimator
	tables    scoring.Tables
	now       func() time.Time
}

type Option func(*Analyzer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func New(f fetcher.Fetcher, c *collector.Collector, e SizeEstimator, tables scoring.Tables, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:   f,
		collector: c,
		estimator: e,
		tables:    tables,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the report for req.URL. Errors are one of: ErrMissingURL
// or fetcher.ErrInvalidURL (bad input), *Failure (fetch exhausted), or
// anything else (internal).
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrMissingURL
	}
	target, err := fetcher.Normalize(req.URL)
	if err != nil {
		return nil, err
	}

	start := a.now()
	zap.S().Infow("starting analysis",
		"url", target.String(),
		"sector", req.Sector,
		"hit_count", req.HitCount,
		"tags", len(req.SelectedTags))

	page, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		var fe *fetcher.FetchError
		if !ierrors.As(err, &fe) {
			return nil, ierrors.Wrap(err, "failed to fetch page")
		}
		zap.S().Errorw("all fetch strategies failed",
			"url", target.String(),
			"kind", fe.Kind,
			"last_strategy", fe.Strategy,
			"attempts", len(fe.Attempts),
			"error", fe.Err)
		return nil, &Failure{
			Cause: fe,
			Response: types.FailureResponse{
				Success:      false,
				Error:        string(fe.Kind),
				Message:      fe.Message(),
				URL:          target.String(),
				AnalysisTime: a.timestamp(),
			},
		}
	}

	resources, err := a.collector.Collect(page.HTML, page.FinalURL)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to collect resources")
	}
	meta := collector.ExtractPageMeta(page.HTML, page.FinalURL)

	probed := a.estimator.EstimateAll(ctx, resources)
	stats := Aggregate(resources, a.now().Sub(start))

	estimate := scoring.Compute(a.tables, scoring.Input{
		Sector:   req.Sector,
		HitCount: req.HitCount,
		Tags:     req.SelectedTags,
		Stats:    stats,
	})

	zap.S().Infow("analysis finished",
		"url", page.FinalURL.String(),
		"strategy", page.Strategy,
		"resources", len(resources),
		"probed", probed,
		"total_size", stats.TotalSize,
		"processing_ms", stats.ProcessingTime)

	return &types.AnalyzeResponse{
		Success: true,
		URL:     page.FinalURL.String(),
		Page: types.PageInfo{
			Title:      meta.Title,
			Excerpt:    meta.Excerpt,
			Strategy:   page.Strategy,
			StatusCode: page.StatusCode,
		},
		Resources:    resources,
		Stats:        stats,
		Estimate:     estimate,
		AnalysisTime: a.timestamp(),
	}, nil
}

func (a *Analyzer) timestamp() string {
	return a.now().UTC().Format(TimeFormat)
}
