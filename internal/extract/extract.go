// Package extract pulls candidate structured-data fragments out of captured
// exchanges and scores them against the caller's keyword set.
package extract

import (
	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/keywords"
)

// Candidate is a scored, structured-data-bearing result for one exchange.
type Candidate struct {
	URL           string
	Method        string
	ContentType   string
	Class         capture.ResourceClass
	Score         float64
	MatchedFields []string
	// SampleData is the decoded fragment, or {"data": <fragment>} when the
	// fragment is not itself a keyed structure.
	SampleData map[string]any
	// DirectUse suggests how to invoke the endpoint: a curl template for
	// fetchable responses, a provenance note for embedded data.
	DirectUse string
}

// Batch is the outcome of running all extractors over one exchange batch.
type Batch struct {
	Candidates []Candidate
	// PaginationURL is the most recently seen pagination-shaped XHR/Fetch
	// URL, or empty. Last write wins when several match.
	PaginationURL string
	// ParseSkips counts fragments that looked structured but failed to
	// decode. Skips never fail the batch.
	ParseSkips int
}

// Run walks the exchange batch in priority order (document, XHR/fetch,
// script, other) and concatenates each extractor's candidates. Malformed
// bodies never fail the batch; they just produce no candidate and bump the
// skip count.
func Run(exchanges []capture.Exchange, set keywords.Set) Batch {
	var batch Batch

	for i := range exchanges {
		ex := &exchanges[i]
		if ex.Class == capture.ClassDocument {
			cands, skips := FromDocument(ex, set)
			batch.Candidates = append(batch.Candidates, cands...)
			batch.ParseSkips += skips
		}
	}

	for i := range exchanges {
		ex := &exchanges[i]
		if ex.Class != capture.ClassXhrFetch {
			continue
		}
		// Pagination detection is a side effect, independent of whether the
		// exchange yields a scoring candidate.
		if IsPagination(ex.URL) {
			batch.PaginationURL = ex.URL
		}
		cands, skips := FromXHR(ex, set)
		batch.Candidates = append(batch.Candidates, cands...)
		batch.ParseSkips += skips
	}

	for i := range exchanges {
		ex := &exchanges[i]
		if ex.Class == capture.ClassScript {
			cands, skips := FromScript(ex, set)
			batch.Candidates = append(batch.Candidates, cands...)
			batch.ParseSkips += skips
		}
	}

	for i := range exchanges {
		ex := &exchanges[i]
		if ex.Class == capture.ClassOther {
			if c, ok := FromText(ex, set); ok {
				batch.Candidates = append(batch.Candidates, c)
			}
		}
	}

	return batch
}
