package extract

import (
	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/keywords"
	"github.com/apiscout/apiscout/internal/score"
)

// FromText treats any remaining text body as a raw scoring surface. No
// structured parse is attempted; the sample is a bounded preview.
func FromText(ex *capture.Exchange, set keywords.Set) (Candidate, bool) {
	if !ex.HasBody || ex.Body == "" {
		return Candidate{}, false
	}

	res := score.Match(ex.Body, set)
	if !res.HasMatch() {
		return Candidate{}, false
	}

	preview, _ := truncate(ex.Body)

	contentType := ex.ContentType()
	if contentType == "" {
		contentType = "text/plain"
	}

	return Candidate{
		URL:           ex.URL,
		Method:        ex.Method,
		ContentType:   contentType,
		Class:         capture.ClassOther,
		Score:         res.Score,
		MatchedFields: res.Matched,
		SampleData:    map[string]any{"data": preview},
		DirectUse:     curlTemplate(ex.Method, ex.URL),
	}, true
}
