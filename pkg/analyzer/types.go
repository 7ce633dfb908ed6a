package analyzer

import (
	"github.com/apiscout/apiscout/internal/extract"
	"github.com/apiscout/apiscout/internal/selectors"
)

// Request describes one analysis call. Instructions must contain the target
// URL; DataDescription is the free-text description of the wanted data.
type Request struct {
	Instructions    string `json:"instructions"`
	DataDescription string `json:"data_description"`

	// MaxDepth bounds crawl depth for the session. Depth is the depth of
	// this node; callers descending into depth links pass Depth+1.
	MaxDepth int `json:"max_depth"`
	Depth    int `json:"depth"`

	// ConfirmEachDepth asks for confirmation before descending a level.
	ConfirmEachDepth bool `json:"confirm_each_depth"`

	// IncludePagination keeps pagination-shaped links in depth links.
	IncludePagination bool `json:"include_pagination"`
}

// NewRequest returns a request with default traversal settings: max depth 1,
// per-depth confirmation on, pagination links excluded.
func NewRequest(instructions, dataDescription string) Request {
	return Request{
		Instructions:     instructions,
		DataDescription:  dataDescription,
		MaxDepth:         1,
		ConfirmEachDepth: true,
	}
}

// CandidateEndpoint is a ranked API candidate surfaced to the caller.
type CandidateEndpoint struct {
	URL              string         `json:"url"`
	Method           string         `json:"method"`
	ContentType      string         `json:"content_type,omitempty"`
	ResourceClass    string         `json:"resource_class"`
	PriorityScore    float64        `json:"priority_score"`
	MatchedFields    []string       `json:"matched_fields"`
	SampleData       map[string]any `json:"sample_data"`
	DirectUseExample string         `json:"direct_use_example"`
}

// FallbackSelectors carries HTML selector hints, populated only when no API
// candidate was found.
type FallbackSelectors struct {
	IfNoAPI []selectors.Hint `json:"if_no_api"`
}

// NextActions tells the caller how to continue the session.
type NextActions struct {
	RequiresConfirmation bool     `json:"requires_confirmation"`
	AvailableDepthLinks  []string `json:"available_depth_links"`

	// PaginationAPIDetected serializes as null when no pagination-shaped
	// request was seen.
	PaginationAPIDetected *string `json:"pagination_api_detected"`
}

// Result is the outcome of one analysis call. The boundary never fails:
// input and capture errors are reported through ExecutionSummary on an
// otherwise empty-shaped result.
type Result struct {
	ExecutionSummary      string              `json:"execution_summary"`
	RecommendedAPIs       []CandidateEndpoint `json:"recommended_apis"`
	FallbackHTMLSelectors FallbackSelectors   `json:"fallback_html_selectors"`
	NextActions           NextActions         `json:"next_actions"`
}

func emptyResult() *Result {
	return &Result{
		RecommendedAPIs: []CandidateEndpoint{},
		FallbackHTMLSelectors: FallbackSelectors{
			IfNoAPI: []selectors.Hint{},
		},
		NextActions: NextActions{
			AvailableDepthLinks: []string{},
		},
	}
}

func toEndpoint(c extract.Candidate) CandidateEndpoint {
	return CandidateEndpoint{
		URL:              c.URL,
		Method:           c.Method,
		ContentType:      c.ContentType,
		ResourceClass:    c.Class.String(),
		PriorityScore:    c.Score,
		MatchedFields:    c.MatchedFields,
		SampleData:       c.SampleData,
		DirectUseExample: c.DirectUse,
	}
}
