package fetcher

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Strategy is one named combination of URL transform and client settings.
// The Runner tries strategies in order and stops at the first success.
type Strategy struct {
	Name         string
	Timeout      time.Duration
	MaxRedirects int
	// Accept reports whether a final status code counts as success.
	// nil means 200-399.
	Accept func(status int) bool
	Header http.Header
	// Transform rewrites the normalized target URL. It receives a copy and
	// may modify it in place. nil leaves the URL unchanged.
	Transform func(u *url.URL) *url.URL
}

const (
	StrategyHighRedirects = "high_redirects"
	StrategyWithWWW       = "with_www"
	StrategyHTTPFallback  = "http_fallback"
)

// DefaultStrategies returns the ordered strategy list used by the analyzer.
func DefaultStrategies(cfg *Config) []Strategy {
	timeout := time.Duration(cfg.Timeout) * time.Second
	return []Strategy{
		{
			Name:         StrategyHighRedirects,
			Timeout:      timeout,
			MaxRedirects: 20,
			Accept:       AcceptRange(200, 399),
			Header:       browserHeader(cfg.UserAgent),
		},
		{
			Name:         StrategyWithWWW,
			Timeout:      timeout,
			MaxRedirects: 10,
			Accept:       AcceptRange(200, 399),
			Header:       browserHeader(cfg.UserAgent),
			Transform:    AddWWW,
		},
		{
			Name:         StrategyHTTPFallback,
			Timeout:      timeout,
			MaxRedirects: 15,
			Accept:       AcceptRange(200, 399),
			Header:       minimalHeader(cfg.UserAgent),
			Transform:    DowngradeToHTTP,
		},
	}
}

// AcceptRange returns a status predicate for the inclusive range [min, max].
func AcceptRange(min, max int) func(int) bool {
	return func(status int) bool {
		return status >= min && status <= max
	}
}

// AddWWW prefixes the host with "www." unless it already has it.
func AddWWW(u *url.URL) *url.URL {
	if !strings.HasPrefix(strings.ToLower(u.Host), "www.") {
		u.Host = "www." + u.Host
	}
	return u
}

// DowngradeToHTTP switches https to http. Other schemes are left alone.
func DowngradeToHTTP(u *url.URL) *url.URL {
	if u.Scheme == "https" {
		u.Scheme = "http"
	}
	return u
}

func browserHeader(userAgent string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9,fr;q=0.8")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Cache-Control", "no-cache")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

func minimalHeader(userAgent string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	return h
}
