package extract

import (
	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/keywords"
	"github.com/apiscout/apiscout/internal/score"
)

// FromDocument scans an HTML body for embedded JSON blocks. Each document
// rule can contribute any number of candidates; unparseable matches are
// skipped and counted.
func FromDocument(ex *capture.Exchange, set keywords.Set) ([]Candidate, int) {
	if !ex.HasBody || ex.Body == "" {
		return nil, 0
	}

	var out []Candidate
	var skips int
	for _, r := range documentRules {
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
				Class:         capture.ClassDocument,
				Score:         res.Score,
				MatchedFields: res.Matched,
				SampleData:    sampleValue(parsed, sample, truncated),
				DirectUse:     "embedded in document (" + r.name + "): fetch " + ex.URL + " and extract the block",
			})
		}
	}

	return out, skips
}
