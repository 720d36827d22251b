package collector

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnosuke/tag-audit/types"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func urls(resources []types.Resource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.URL)
	}
	return out
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host     string
		expected string
	}{
		{"www.example.com", "example.com"},
		{"img.cdn.example.com", "example.com"},
		{"example.com", "example.com"},
		{"localhost", "localhost"},
		{"WWW.Example.COM.", "example.com"},
		// known limitation of the two-label heuristic
		{"shop.example.co.uk", "co.uk"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, RegistrableDomain(tt.host))
		})
	}
}

func TestPublicSuffixDomain(t *testing.T) {
	assert.Equal(t, "example.co.uk", publicSuffixDomain("shop.example.co.uk"))
	assert.Equal(t, "example.com", publicSuffixDomain("www.example.com"))
	assert.Equal(t, "localhost", publicSuffixDomain("localhost"))
}

func TestResolve(t *testing.T) {
	base := mustParse(t, "http://www.example.com/shop/index.html")

	tests := []struct {
		name     string
		ref      string
		expected string
		wantErr  bool
	}{
		{name: "protocol relative gets https on http page", ref: "//cdn.example.com/a.js", expected: "https://cdn.example.com/a.js"},
		{name: "relative path", ref: "js/app.js", expected: "http://www.example.com/shop/js/app.js"},
		{name: "root relative", ref: "/static/site.css", expected: "http://www.example.com/static/site.css"},
		{name: "parent relative", ref: "../logo.png", expected: "http://www.example.com/logo.png"},
		{name: "absolute unchanged", ref: "https://cdn.other.com/x.js?v=2", expected: "https://cdn.other.com/x.js?v=2"},
		{name: "malformed host", ref: "http://[::1", wantErr: true},
		{name: "scheme without host", ref: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Resolve(tt.ref, base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, u.String())
		})
	}
}

func TestCollect_ProtocolRelativeOnSecurePage(t *testing.T) {
	html := `<html><head><script src="//cdn.example.com/a.js"></script></head></html>`

	resources, err := New(Config{}).Collect(html, mustParse(t, "https://www.example.com/"))

	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "https://cdn.example.com/a.js", resources[0].URL)
	assert.Equal(t, types.KindScript, resources[0].Kind)
	assert.Nil(t, resources[0].Size)
}

func TestCollect_Classification(t *testing.T) {
	html := `<html><body>
		<img src="https://img.example.com/hero.jpg">
		<img src="https://cdn.other.com/banner.png">
	</body></html>`

	resources, err := New(Config{}).Collect(html, mustParse(t, "https://www.example.com/"))

	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, types.FirstParty, resources[0].Party)
	assert.Equal(t, "img.example.com", resources[0].Domain)
	assert.Equal(t, types.ThirdParty, resources[1].Party)
	assert.Equal(t, "cdn.other.com", resources[1].Domain)
}

func TestCollect_OrderAndSelection(t *testing.T) {
	html := `<html><head>
		<link rel="icon" href="/favicon.ico">
		<img src="/first-image.png">
		<link rel="stylesheet" href="/main.css">
		<script src="/app.js"></script>
		<script>inline()</script>
		<link rel="alternate stylesheet" href="/alt.css">
		<script src="  "></script>
		<img>
		<script src="/vendor.js"></script>
	</head></html>`

	resources, err := New(Config{}).Collect(html, mustParse(t, "https://example.com/"))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/app.js",
		"https://example.com/vendor.js",
		"https://example.com/main.css",
		"https://example.com/alt.css",
		"https://example.com/first-image.png",
	}, urls(resources))
	assert.Equal(t, types.KindStyle, resources[2].Kind)
	assert.Equal(t, types.KindImage, resources[4].Kind)
}

func TestCollect_SkipsBadReferences(t *testing.T) {
	html := `<html><body>
		<img src="http://[::1">
		<img src="data:image/png;base64,iVBORw0KGgo=">
		<script src="javascript:void(0)"></script>
		<img src="/ok.png">
	</body></html>`

	resources, err := New(Config{}).Collect(html, mustParse(t, "https://example.com/"))

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/ok.png"}, urls(resources))
}

func TestCollect_BaseHref(t *testing.T) {
	html := `<html><head><base href="https://static.example.com/assets/"></head>
		<body><img src="logo.png"></body></html>`

	resources, err := New(Config{}).Collect(html, mustParse(t, "https://www.example.com/page"))

	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "https://static.example.com/assets/logo.png", resources[0].URL)
	assert.Equal(t, types.FirstParty, resources[0].Party)
}

func TestCollect_VendorKinds(t *testing.T) {
	html := `<html><head>
		<script src="https://www.googletagmanager.com/gtag/js?id=G-1"></script>
		<script src="https://connect.facebook.net/en_US/fbevents.js"></script>
		<script src="https://securepubads.g.doubleclick.net/tag/js/gpt.js"></script>
		<script src="https://cdn.example.com/app.js"></script>
		<img src="https://www.facebook.com/tr?id=1&ev=PageView">
	</head></html>`

	resources, err := New(Config{}).Collect(html, mustParse(t, "https://www.example.com/"))

	require.NoError(t, err)
	require.Len(t, resources, 5)
	assert.Equal(t, types.KindAnalytics, resources[0].Kind)
	assert.Equal(t, types.KindTracker, resources[1].Kind)
	assert.Equal(t, types.KindAds, resources[2].Kind)
	assert.Equal(t, types.KindScript, resources[3].Kind)
	assert.Equal(t, types.KindImage, resources[4].Kind, "only scripts are re-labelled")
	for _, r := range resources[:3] {
		assert.Equal(t, types.ThirdParty, r.Party)
		assert.True(t, r.Kind.IsScript())
	}
}

func TestCollect_PublicSuffixMode(t *testing.T) {
	html := `<html><body><img src="https://cdn.other.co.uk/a.png"></body></html>`
	page := mustParse(t, "https://www.shop.co.uk/")

	naive, err := New(Config{}).Collect(html, page)
	require.NoError(t, err)
	accurate, err := New(Config{PublicSuffix: true}).Collect(html, page)
	require.NoError(t, err)

	assert.Equal(t, types.FirstParty, naive[0].Party)
	assert.Equal(t, types.ThirdParty, accurate[0].Party)
}

func TestCollect_Idempotent(t *testing.T) {
	html := `<html><head>
		<script src="/a.js"></script><link rel="stylesheet" href="//fonts.other.com/f.css">
		</head><body><img src="https://img.example.com/x.png"></body></html>`
	page := mustParse(t, "https://www.example.com/")
	c := New(Config{})

	first, err := c.Collect(html, page)
	require.NoError(t, err)
	second, err := c.Collect(html, page)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCollect_EmptyDocument(t *testing.T) {
	resources, err := New(Config{}).Collect("", mustParse(t, "https://example.com/"))

	require.NoError(t, err)
	assert.Empty(t, resources)
	assert.NotNil(t, resources)
}

func TestExtractPageMeta(t *testing.T) {
	paragraph := "<p>Acme sells shoes for every occasion, every season and every budget, shipped across the country within two days.</p>"
	html := `<html><head><title>Acme Shoes</title>
		<meta name="description" content="Shoes for everyone."></head>
		<body><article>` + strings.Repeat(paragraph, 12) + `</article></body></html>`

	meta := ExtractPageMeta(html, mustParse(t, "https://www.acme.test/"))

	assert.Equal(t, "Acme Shoes", meta.Title)
	assert.Equal(t, "Shoes for everyone.", meta.Excerpt)
}
