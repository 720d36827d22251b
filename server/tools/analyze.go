package tools

import (
	"context"
	"encoding/json"

	mcp "github.com/metoro-io/mcp-golang"
	"go.uber.org/zap"

	"github.com/cnosuke/tag-audit/analyzer"
	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/types"
)

// AnalyzeArgs - Arguments for analyze_site tool
type AnalyzeArgs struct {
	URL          string   `json:"url" jsonschema:"description=URL of the page to audit,required=true"`
	Sector       string   `json:"sector,omitempty" jsonschema:"description=Business sector (e-commerce, media, finance, travel, automotive, real-estate, other)"`
	HitCount     string   `json:"hitCount,omitempty" jsonschema:"description=Monthly hit bucket (less-than-10k, 10k-50k, 50k-100k, 100k-500k, more-than-1m)"`
	SelectedTags []string `json:"selectedTags,omitempty" jsonschema:"description=Marketing tags installed on the site, e.g. Google Analytics or Meta Pixel"`
}

// Analyzer defines the interface for site analysis
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error)
}

// RegisterAnalyzeTool - Register the analyze_site tool
func RegisterAnalyzeTool(ctx context.Context, mcpServer *mcp.Server, a Analyzer) error {
	zap.S().Debugw("registering analyze_site tool")
	err := mcpServer.RegisterTool("analyze_site",
		"Audits the script, stylesheet and image tags of a web page and estimates the effect of moving marketing tags server-side",
		func(args AnalyzeArgs) (*mcp.ToolResponse, error) {
			zap.S().Infow("executing analyze_site",
				"url", args.URL,
				"sector", args.Sector,
				"hit_count", args.HitCount,
				"tags", len(args.SelectedTags))

			body, err := Analyze(ctx, a, args)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResponse(mcp.NewTextContent(string(body))), nil
		})

	if err != nil {
		zap.S().Errorw("failed to register analyze_site tool", "error", err)
		return ierrors.Wrap(err, "failed to register analyze_site tool")
	}

	return nil
}

// Analyze runs one analysis and renders the JSON the HTTP endpoint would
// return. A fetch failure is a result, not an error.
func Analyze(ctx context.Context, a Analyzer, args AnalyzeArgs) ([]byte, error) {
	resp, err := a.Analyze(ctx, types.AnalyzeRequest{
		URL:          args.URL,
		Sector:       args.Sector,
		HitCount:     args.HitCount,
		SelectedTags: args.SelectedTags,
	})

	var out any = resp
	if err != nil {
		var failure *analyzer.Failure
		if !ierrors.As(err, &failure) {
			zap.S().Errorw("failed to analyze site", "url", args.URL, "error", err)
			return nil, ierrors.Wrap(err, "failed to analyze site")
		}
		out = failure.Response
	}

	body, err := json.Marshal(out)
	if err != nil {
		zap.S().Errorw("failed to marshal response to JSON", "error", err)
		return nil, ierrors.Wrap(err, "failed to marshal response to JSON")
	}
	return body, nil
}
