package extract

import (
	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/keywords"
	"github.com/apiscout/apiscout/internal/score"
)

// FromScript scans a JavaScript source body for string literals handed to
// JSON.parse. Each textual match parses independently; failures skip and
// are counted.
func FromScript(ex *capture.Exchange, set keywords.Set) ([]Candidate, int) {
	if !ex.HasBody || ex.Body == "" {
		return nil, 0
	}

	var out []Candidate
	var skips int
	for _, r := range scriptRules {
		for _, m := range r.pattern.FindAllStringSubmatch(ex.Body, -1) {
			parsed, ok := decodeFragment(m[1])
			if !ok {
				skips++
				continue
			}

			sample, truncated := serializeSample(parsed)
			res := score.Match(sample, set)
			if !res.HasMatch() {
				continue
			}

			out = append(out, Candidate{
				URL:           ex.URL,
				Method:        ex.Method,
				ContentType:   "application/json",
				Class:         capture.ClassScript,
				Score:         res.Score,
				MatchedFields: res.Matched,
				SampleData:    sampleValue(parsed, sample, truncated),
				DirectUse:     "embedded in script (" + r.name + "): fetch " + ex.URL + " and extract the literal",
			})
		}
	}

	return out, skips
}
