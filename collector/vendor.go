package collector

import (
	"strings"

	"github.com/cnosuke/tag-audit/types"
)

// Host suffixes of well-known tag vendors. Scripts served from these hosts
// are reported under the vendor kind instead of plain "script".
var vendorHosts = []struct {
	suffix string
	kind   types.ResourceKind
}{
	{"google-analytics.com", types.KindAnalytics},
	{"googletagmanager.com", types.KindAnalytics},
	{"analytics.google.com", types.KindAnalytics},
	{"matomo.cloud", types.KindAnalytics},
	{"clarity.ms", types.KindAnalytics},
	{"hotjar.com", types.KindAnalytics},
	{"facebook.net", types.KindTracker},
	{"facebook.com", types.KindTracker},
	{"fbcdn.net", types.KindTracker},
	{"analytics.tiktok.com", types.KindTracker},
	{"snap.licdn.com", types.KindTracker},
	{"doubleclick.net", types.KindAds},
	{"googlesyndication.com", types.KindAds},
	{"googleadservices.com", types.KindAds},
	{"criteo.com", types.KindAds},
	{"criteo.net", types.KindAds},
}

func refineKind(kind types.ResourceKind, host string) types.ResourceKind {
	if kind != types.KindScript {
		return kind
	}
	host = strings.ToLower(host)
	for _, v := range vendorHosts {
		if host == v.suffix || strings.HasSuffix(host, "."+v.suffix) {
			return v.kind
		}
	}
	return kind
}
