package scoring

const OtherSector = "other"

// SectorRow holds every per-sector coefficient.
type SectorRow struct {
	Multiplier      float64 // weighting of the tag gain
	RequestModifier float64
	PrivacyImpact   int
	LoadTimeFactor  float64 // base load-time improvement, 0..1
	DataCollection  int     // baseline percent
	Conversions     int     // baseline percent
	ROAS            float64
}

// TagRow holds every per-tag coefficient.
type TagRow struct {
	Impact        int
	PrivacyImpact int
	RequestImpact int
}

// Tables is the immutable coefficient set used by Compute. Lookups return
// copies, so a Tables value can be shared between goroutines.
type Tables struct {
	sectors map[string]SectorRow
	tags    map[string]TagRow
	volumes map[string]float64
}

// NewTables builds a Tables value. sectors must contain OtherSector.
func NewTables(sectors map[string]SectorRow, tags map[string]TagRow, volumes map[string]float64) Tables {
	t := Tables{
		sectors: make(map[string]SectorRow, len(sectors)),
		tags:    make(map[string]TagRow, len(tags)),
		volumes: make(map[string]float64, len(volumes)),
	}
	for k, v := range sectors {
		t.sectors[k] = v
	}
	for k, v := range tags {
		t.tags[k] = v
	}
	for k, v := range volumes {
		t.volumes[k] = v
	}
	return t
}

// Sector returns the row for name, or the OtherSector row when unknown.
func (t Tables) Sector(name string) (SectorRow, string) {
	if row, ok := t.sectors[name]; ok {
		return row, name
	}
	return t.sectors[OtherSector], OtherSector
}

// Tag returns the row for name; unknown tags weigh nothing.
func (t Tables) Tag(name string) TagRow {
	return t.tags[name]
}

// VolumeMultiplier returns the traffic weighting for a hit-count bucket,
// 1.0 when unknown.
func (t Tables) VolumeMultiplier(bucket string) float64 {
	if m, ok := t.volumes[bucket]; ok {
		return m
	}
	return 1.0
}

// Sectors lists the known sector names.
func (t Tables) Sectors() []string {
	out := make([]string, 0, len(t.sectors))
	for k := range t.sectors {
		out = append(out, k)
	}
	return out
}

func DefaultTables() Tables {
	return NewTables(
		map[string]SectorRow{
			"e-commerce":  {Multiplier: 1.3, RequestModifier: 1.2, PrivacyImpact: 20, LoadTimeFactor: 0.40, DataCollection: 65, Conversions: 70, ROAS: 4.0},
			"media":       {Multiplier: 1.2, RequestModifier: 1.2, PrivacyImpact: 20, LoadTimeFactor: 0.40, DataCollection: 50, Conversions: 60, ROAS: 2.5},
			"finance":     {Multiplier: 1.1, RequestModifier: 0.9, PrivacyImpact: 25, LoadTimeFactor: 0.20, DataCollection: 60, Conversions: 65, ROAS: 3.2},
			"travel":      {Multiplier: 1.15, RequestModifier: 1.1, PrivacyImpact: 15, LoadTimeFactor: 0.30, DataCollection: 60, Conversions: 68, ROAS: 3.8},
			"automotive":  {Multiplier: 1.1, RequestModifier: 1.0, PrivacyImpact: 10, LoadTimeFactor: 0.30, DataCollection: 55, Conversions: 62, ROAS: 2.7},
			"real-estate": {Multiplier: 1.05, RequestModifier: 0.9, PrivacyImpact: 10, LoadTimeFactor: 0.20, DataCollection: 50, Conversions: 58, ROAS: 2.4},
			OtherSector:   {Multiplier: 1.0, RequestModifier: 1.0, PrivacyImpact: 5, LoadTimeFactor: 0.20, DataCollection: 60, Conversions: 65, ROAS: 3.0},
		},
		map[string]TagRow{
			"Google Analytics": {Impact: 4, PrivacyImpact: 10, RequestImpact: 10},
			"GTM Web":          {Impact: 4, PrivacyImpact: 10, RequestImpact: 10},
			"Google Ads":       {Impact: 5, PrivacyImpact: 15, RequestImpact: 12},
			"Meta Pixel":       {Impact: 7, PrivacyImpact: 25, RequestImpact: 12},
			"Matomo":           {Impact: 2, PrivacyImpact: -20, RequestImpact: 2},
			"TikTok Pixel":     {Impact: 5, PrivacyImpact: 25, RequestImpact: 12},
			"Criteo":           {Impact: 6, PrivacyImpact: 20, RequestImpact: 12},
			"LinkedIn Insight": {Impact: 4, PrivacyImpact: 10, RequestImpact: 6},
			"Hotjar":           {Impact: 4, PrivacyImpact: 15, RequestImpact: 6},
			"Clarity":          {Impact: 2, PrivacyImpact: 15, RequestImpact: 4},
			"Consent CMP":      {Impact: 2, PrivacyImpact: -30, RequestImpact: 3},
		},
		map[string]float64{
			"less-than-10k": 1.0,
			"10k-50k":       1.1,
			"50k-100k":      1.25,
			"100k-500k":     1.4,
			"more-than-1m":  1.6,
		},
	)
}
