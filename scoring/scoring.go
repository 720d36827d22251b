package scoring

import (
	"math"

	"github.com/cnosuke/tag-audit/types"
)

const (
	defaultTagRequestImpact = 5
	defaultBaseRequests     = 100
	defaultThirdPartyRatio  = 0.5
	maxThirdPartyRatio      = 0.8

	loadTimePerImpactPoint = 0.003
	maxLoadTimeFactor      = 0.75
	minLoadTimeShare       = 0.3

	minReductionRate        = 0.15
	maxReductionRate        = 0.65
	reductionPerImpactPoint = 0.005
	thirdPartyWeight        = 0.15

	sizeReductionShare = 0.3
	conversionShare    = 0.3
	roasPerGainPoint   = 0.2
	maxBusinessPercent = 95
	maxPrivacyGain     = 80
	nonCompliantShare  = 0.9
)

// Input is what Compute needs from an analysis.
type Input struct {
	Sector   string
	HitCount string
	Tags     []string
	Stats    types.AnalysisStats
}

// Compute derives the illustrative before/after figures. It is pure.
func Compute(t Tables, in Input) *types.Estimate {
	sector, sectorName := t.Sector(in.Sector)

	requestImpact := 0
	gainBase := 0
	privacy := 0
	for _, tag := range in.Tags {
		row := t.Tag(tag)
		requestImpact += row.RequestImpact
		gainBase += row.Impact
		privacy += row.PrivacyImpact
	}
	if len(in.Tags) == 0 {
		requestImpact = defaultTagRequestImpact
	}

	est := &types.Estimate{Sector: sectorName, HitCount: in.HitCount}

	// load time
	ltFactor := math.Min(sector.LoadTimeFactor+float64(requestImpact)*loadTimePerImpactPoint, maxLoadTimeFactor)
	lt := in.Stats.LoadTime
	est.LoadTime = types.Comparison{
		Current:   lt,
		Estimated: round2(math.Max(lt-lt*ltFactor, lt*minLoadTimeShare)),
		Gain:      round(ltFactor * 100),
	}

	// requests
	baseRequests := in.Stats.TotalRequests
	if baseRequests == 0 {
		baseRequests = defaultBaseRequests
	}
	ratio := defaultThirdPartyRatio
	if in.Stats.TotalRequests > 0 {
		ratio = math.Min(float64(in.Stats.ResourcesByDomain.ThirdParty)/float64(in.Stats.TotalRequests), maxThirdPartyRatio)
	}
	rate := minReductionRate +
		float64(requestImpact)*reductionPerImpactPoint*sector.RequestModifier +
		ratio*thirdPartyWeight
	rate = math.Min(math.Max(rate, minReductionRate), maxReductionRate)
	optimized := round(float64(baseRequests) * (1 - rate))
	requestGain := round((float64(baseRequests) - optimized) / float64(baseRequests) * 100)
	est.ScriptRequests = types.Comparison{
		Current:   float64(baseRequests),
		Estimated: optimized,
		Gain:      requestGain,
	}
	est.ScriptWeight = types.Comparison{
		Current:   float64(in.Stats.JSSize),
		Estimated: round(float64(in.Stats.JSSize) * optimized / float64(baseRequests)),
		Gain:      requestGain,
	}
	est.SizeReduction = int64(round(float64(in.Stats.TotalSize) * sizeReductionShare))

	// business
	gain := int(round(float64(gainBase) * sector.Multiplier * t.VolumeMultiplier(in.HitCount)))
	est.DataCollection = percentGain(sector.DataCollection, gain)
	est.Conversions = percentGain(sector.Conversions, int(round(float64(gain)*conversionShare)))
	roasFactor := 1 + float64(gain)*roasPerGainPoint/100
	est.ROAS = types.Comparison{
		Current:   sector.ROAS,
		Estimated: round2(sector.ROAS * roasFactor),
		Gain:      round((roasFactor-1)*1000) / 10,
	}

	// privacy
	privacyGain := min(privacy+sector.PrivacyImpact, maxPrivacyGain)
	est.PrivacyComplianceGain = privacyGain
	est.NonCompliantTrafficReduction = int(round(float64(privacyGain) * nonCompliantShare))

	return est
}

// percentGain raises base by gain, capped at maxBusinessPercent.
func percentGain(base, gain int) types.Comparison {
	estimated := min(base+gain, maxBusinessPercent)
	return types.Comparison{
		Current:   float64(base),
		Estimated: float64(estimated),
		Gain:      float64(estimated - base),
	}
}

func round2(v float64) float64 {
	return round(v*100) / 100
}

// round rounds half up, so negative halves move toward zero.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}
