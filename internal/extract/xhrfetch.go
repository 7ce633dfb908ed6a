package extract

import (
	"strings"

	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/keywords"
	"github.com/apiscout/apiscout/internal/score"
)

// FromXHR analyzes one XHR/Fetch exchange, yielding at most one candidate.
// Only JSON responses with a body are considered; a body that fails to
// parse yields nothing and counts as a skip.
func FromXHR(ex *capture.Exchange, set keywords.Set) ([]Candidate, int) {
	if !ex.HasBody || ex.Body == "" {
		return nil, 0
	}
	if !strings.Contains(strings.ToLower(ex.ContentType()), "application/json") {
		return nil, 0
	}

	parsed, ok := decodeFragment(ex.Body)
	if !ok {
		return nil, 1
	}

	// The full body is the scoring surface; the sample is bounded separately.
	res := score.Match(ex.Body, set)
	if !res.HasMatch() {
		return nil, 0
	}

	sample, truncated := serializeSample(parsed)

	return []Candidate{{
		URL:           ex.URL,
		Method:        ex.Method,
		ContentType:   "application/json",
		Class:         capture.ClassXhrFetch,
		Score:         res.Score,
		MatchedFields: res.Matched,
		SampleData:    sampleValue(parsed, sample, truncated),
		DirectUse:     curlTemplate(ex.Method, ex.URL),
	}}, 0
}

func curlTemplate(method, url string) string {
	if method == "" || method == "GET" {
		return "curl -s '" + url + "'"
	}
	return "curl -s -X " + method + " '" + url + "'"
}
