package collector

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/types"
)

type Config struct {
	// PublicSuffix classifies parties by eTLD+1 instead of the last two labels.
	PublicSuffix bool
}

// Collector extracts script, stylesheet and image references from HTML.
// It performs no network calls.
type Collector struct {
	domainOf func(host string) string
}

func New(cfg Config) *Collector {
	c := &Collector{domainOf: RegistrableDomain}
	if cfg.PublicSuffix {
		c.domainOf = publicSuffixDomain
	}
	return c
}

// sources lists what is collected, in collection order: every script, then
// every stylesheet, then every image.
var sources = []struct {
	selector string
	attr     string
	kind     types.ResourceKind
}{
	{"script[src]", "src", types.KindScript},
	{`link[rel~="stylesheet"][href]`, "href", types.KindStyle},
	{"img[src]", "src", types.KindImage},
}

// Collect parses htmlContent and returns one Resource per reference.
// pageURL is the final URL of the page; it is the resolution base unless the
// document declares a <base href>, and its host decides first-party status.
// References that cannot be resolved are skipped. Sizes are left unset.
func (c *Collector) Collect(htmlContent string, pageURL *url.URL) ([]types.Resource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse HTML")
	}

	base := pageURL
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = pageURL.ResolveReference(b)
		}
	}
	siteDomain := c.domainOf(pageURL.Hostname())

	resources := []types.Resource{}
	for _, src := range sources {
		doc.Find(src.selector).Each(func(_ int, s *goquery.Selection) {
			ref := strings.TrimSpace(s.AttrOr(src.attr, ""))
			if ref == "" {
				return
			}
			abs, err := Resolve(ref, base)
			if err != nil {
				zap.S().Warnw("skipping unresolvable resource reference",
					"kind", src.kind,
					"ref", ref,
					"error", err)
				return
			}
			if abs.Scheme != "http" && abs.Scheme != "https" {
				zap.S().Debugw("skipping non-http resource", "kind", src.kind, "scheme", abs.Scheme)
				return
			}

			host := abs.Hostname()
			party := types.ThirdParty
			if c.domainOf(host) == siteDomain {
				party = types.FirstParty
			}
			resources = append(resources, types.Resource{
				URL:    abs.String(),
				Kind:   refineKind(src.kind, host),
				Party:  party,
				Domain: host,
			})
		})
	}

	zap.S().Debugw("collected resources",
		"page", pageURL.String(),
		"base", base.String(),
		"count", len(resources))

	return resources, nil
}

// Resolve turns ref into an absolute URL. Protocol-relative references
// always get https; relative ones are resolved against base; absolute ones
// are returned unchanged.
func Resolve(ref string, base *url.URL) (*url.URL, error) {
	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse reference")
	}
	if !u.IsAbs() {
		u = base.ResolveReference(u)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() == "" {
		return nil, ierrors.Newf("reference %q has no host", ref)
	}
	return u, nil
}
