package analyzer

import (
	"time"

	"github.com/cnosuke/tag-audit/types"
)

// Aggregate reduces resources to AnalysisStats. Counts cover every resource;
// sizes count only where set.
func Aggregate(resources []types.Resource, elapsed time.Duration) types.AnalysisStats {
	ms := float64(elapsed) / float64(time.Millisecond)
	stats := types.AnalysisStats{
		ResourcesByType: map[types.ResourceKind]int{},
		ProcessingTime:  ms,
		LoadTime:        ms / 1000,
		TotalRequests:   len(resources),
	}

	for _, r := range resources {
		stats.ResourcesByType[r.Kind]++
		if r.Party == types.FirstParty {
			stats.ResourcesByDomain.FirstParty++
		} else {
			stats.ResourcesByDomain.ThirdParty++
		}

		if r.Size == nil {
			continue
		}
		stats.TotalSize += *r.Size
		if r.Kind.IsScript() {
			stats.JSSize += *r.Size
		}
	}
	return stats
}
