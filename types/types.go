package types

// ResourceKind - Category of a discovered resource
type ResourceKind string

const (
	KindScript    ResourceKind = "script"
	KindStyle     ResourceKind = "style"
	KindImage     ResourceKind = "image"
	KindFont      ResourceKind = "font"
	KindXHR       ResourceKind = "xhr"
	KindAnalytics ResourceKind = "analytics"
	KindTracker   ResourceKind = "tracker"
	KindAds       ResourceKind = "ads"
	KindOther     ResourceKind = "other"
)

// IsScript reports whether the kind was discovered through a <script> tag.
// Vendor kinds (analytics, tracker, ads) only ever come from scripts.
func (k ResourceKind) IsScript() bool {
	switch k {
	case KindScript, KindAnalytics, KindTracker, KindAds:
		return true
	}
	return false
}

// Party - First/third-party classification of a resource
type Party string

const (
	FirstParty Party = "first-party"
	ThirdParty Party = "third-party"
)

// Resource - A script, stylesheet or image referenced by the analyzed page
type Resource struct {
	URL    string       `json:"url"`
	Kind   ResourceKind `json:"type"`
	Party  Party        `json:"domain"`
	Domain string       `json:"domainName"`
	// Size is nil for resources past the probe cap.
	Size *int64 `json:"size"`
}

// DomainCounts - Resource counts by party
type DomainCounts struct {
	FirstParty int `json:"firstParty"`
	ThirdParty int `json:"thirdParty"`
}

// AnalysisStats - Aggregate over the collected resources
type AnalysisStats struct {
	TotalSize         int64                `json:"totalSize"`
	ResourcesByType   map[ResourceKind]int `json:"resourcesByType"`
	ResourcesByDomain DomainCounts         `json:"resourcesByDomain"`
	ProcessingTime    float64              `json:"processingTime"` // milliseconds
	LoadTime          float64              `json:"loadTime"`       // seconds
	TotalRequests     int                  `json:"totalRequests"`
	JSSize            int64                `json:"jsSize"`
}

// PageInfo - Metadata about the fetched page
type PageInfo struct {
	Title      string `json:"title,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`
	Strategy   string `json:"strategy"`
	StatusCode int    `json:"statusCode"`
}

// AnalyzeRequest - Body of POST /api/analyze
type AnalyzeRequest struct {
	URL          string   `json:"url"`
	Sector       string   `json:"sector,omitempty"`
	HitCount     string   `json:"hitCount,omitempty"`
	SelectedTags []string `json:"selectedTags,omitempty"`
}

// AnalyzeResponse - Successful analysis
type AnalyzeResponse struct {
	Success      bool          `json:"success"`
	URL          string        `json:"url"` // final resolved URL
	Page         PageInfo      `json:"page"`
	Resources    []Resource    `json:"resources"`
	Stats        AnalysisStats `json:"stats"`
	Estimate     *Estimate     `json:"estimate,omitempty"`
	AnalysisTime string        `json:"analysisTime"`
}

// FailureResponse - Soft failure: the page could not be fetched by any strategy.
// It is served with HTTP 200.
type FailureResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	Message      string `json:"message"`
	URL          string `json:"url"`
	AnalysisTime string `json:"analysisTime"`
}

// ErrorResponse - Hard failure (400/500)
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Comparison - A current value next to its estimated value after migration
type Comparison struct {
	Current   float64 `json:"current"`
	Estimated float64 `json:"estimated"`
	Gain      float64 `json:"gain"` // percent
}

// Estimate - Illustrative before/after metrics for a server-side tagging setup
type Estimate struct {
	Sector                       string     `json:"sector"`
	HitCount                     string     `json:"hitCount"`
	LoadTime                     Comparison `json:"loadTime"`       // seconds
	ScriptRequests               Comparison `json:"scriptRequests"` // count
	ScriptWeight                 Comparison `json:"scriptWeight"`   // bytes
	SizeReduction                int64      `json:"sizeReduction"`  // bytes
	DataCollection               Comparison `json:"dataCollection"` // percent
	Conversions                  Comparison `json:"conversions"`    // percent
	ROAS                         Comparison `json:"roas"`
	PrivacyComplianceGain        int        `json:"privacyComplianceGain"`
	NonCompliantTrafficReduction int        `json:"nonCompliantTrafficReduction"`
}
