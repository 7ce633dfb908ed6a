package extract

import (
	"net/http"
	"strings"
	"testing"

	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/keywords"
)

func jsonHeaders() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json; charset=utf-8")
	return h
}

func textHeaders() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain")
	return h
}

func documentExchange(body string) capture.Exchange {
	return capture.Exchange{
		URL:     "https://shop.example.com/products",
		Method:  "GET",
		Class:   capture.ClassDocument,
		Body:    body,
		HasBody: true,
		Status:  200,
	}
}

// =============================================================================
// Document extractor
// =============================================================================

func TestFromDocument_NextDataScript(t *testing.T) {
	ex := documentExchange(`<html><head>
		<script id="__NEXT_DATA__" type="application/json">{"title":"Phone X","price":599}</script>
	</head></html>`)

	got, skips := FromDocument(&ex, keywords.Extract("phone price"))
	if len(got) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(got))
	}
	if skips != 0 {
		t.Errorf("skips = %d, want 0", skips)
	}

	c := got[0]
	if c.URL != ex.URL {
		t.Errorf("URL = %q, want %q", c.URL, ex.URL)
	}
	if len(c.MatchedFields) == 0 {
		t.Error("MatchedFields is empty, want phone and/or price")
	}
	// 2/2 keywords matched plus the {} bonus, capped at 1.0.
	if c.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", c.Score)
	}
	if c.SampleData["title"] != "Phone X" {
		t.Errorf("SampleData missing decoded title, got %v", c.SampleData)
	}
}

func TestFromDocument_JSONScriptTag(t *testing.T) {
	ex := documentExchange(`<script type="application/json">{"inventory": 14}</script>`)

	got, _ := FromDocument(&ex, keywords.Extract("inventory"))
	if len(got) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(got))
	}
}

func TestFromDocument_GlobalAssignment(t *testing.T) {
	bodies := []string{
		`<script>window.__DATA__ = {"price": 12};</script>`,
		`<script>window.__INITIAL_STATE__ = {"price": 12};</script>`,
		`<script>window.__PRELOADED_STATE__ = {"price": 12}</script>`,
	}
	for _, body := range bodies {
		ex := documentExchange(body)
		got, _ := FromDocument(&ex, keywords.Extract("price"))
		if len(got) != 1 {
			t.Errorf("body %q: len(candidates) = %d, want 1", body, len(got))
		}
	}
}

func TestFromDocument_CommentWrappedJSON(t *testing.T) {
	ex := documentExchange(`<script type="application/json">/* {"price": 77} */</script>`)

	got, _ := FromDocument(&ex, keywords.Extract("price"))
	if len(got) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(got))
	}
}

func TestFromDocument_MalformedJSONSkipped(t *testing.T) {
	ex := documentExchange(`<html>
		<script id="__NEXT_DATA__" type="application/json">not json at all</script>
		<script type="application/json">{"price": broken</script>
		<script>window.__DATA__ = {oops};</script>
	</html>`)

	got, skips := FromDocument(&ex, keywords.Extract("price"))
	if len(got) != 0 {
		t.Errorf("len(candidates) = %d, want 0 for malformed blocks", len(got))
	}
	if skips < 3 {
		t.Errorf("skips = %d, want at least one per malformed block", skips)
	}
}

func TestFromDocument_NoKeywordMatchNoCandidate(t *testing.T) {
	ex := documentExchange(`<script type="application/json">{"unrelated": true}</script>`)

	got, skips := FromDocument(&ex, keywords.Extract("phone price"))
	if len(got) != 0 {
		t.Errorf("len(candidates) = %d, want 0 without keyword match", len(got))
	}
	// No keyword match is not a parse failure.
	if skips != 0 {
		t.Errorf("skips = %d, want 0", skips)
	}
}

func TestFromDocument_EmptyBody(t *testing.T) {
	ex := capture.Exchange{Class: capture.ClassDocument}
	if got, _ := FromDocument(&ex, keywords.Extract("price")); got != nil {
		t.Errorf("candidates = %v, want nil for missing body", got)
	}
}

func TestFromDocument_SampleBounded(t *testing.T) {
	big := `{"price": "` + strings.Repeat("x", 2000) + `"}`
	ex := documentExchange(`<script type="application/json">` + big + `</script>`)

	got, _ := FromDocument(&ex, keywords.Extract("price"))
	if len(got) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(got))
	}
	preview, ok := got[0].SampleData["data"].(string)
	if !ok {
		t.Fatalf("SampleData = %v, want bounded preview under data", got[0].SampleData)
	}
	if len(preview) > 500 {
		t.Errorf("len(preview) = %d, want <= 500", len(preview))
	}
}

// =============================================================================
// XHR/Fetch extractor
// =============================================================================

func TestFromXHR_JSONResponse(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/api/products?page=1",
		Method:  "GET",
		Class:   capture.ClassXhrFetch,
		Body:    `{"items":[{"name":"Phone X","price":599}]}`,
		HasBody: true,
		Headers: jsonHeaders(),
		Status:  200,
	}

	got, skips := FromXHR(&ex, keywords.Extract("phone price"))
	if len(got) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(got))
	}
	if skips != 0 {
		t.Errorf("skips = %d, want 0", skips)
	}
	c := got[0]
	if c.Score <= 0 || c.Score > 1 {
		t.Errorf("Score = %v, want within (0,1]", c.Score)
	}
	if c.DirectUse != "curl -s 'https://shop.example.com/api/products?page=1'" {
		t.Errorf("DirectUse = %q", c.DirectUse)
	}
}

func TestFromXHR_NonJSONContentTypeIgnored(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/api/products",
		Method:  "GET",
		Class:   capture.ClassXhrFetch,
		Body:    `{"price": 599}`,
		HasBody: true,
		Headers: textHeaders(),
	}

	got, skips := FromXHR(&ex, keywords.Extract("price"))
	if len(got) != 0 {
		t.Error("got a candidate for a text/plain response, want none")
	}
	// Not considered is not a parse failure.
	if skips != 0 {
		t.Errorf("skips = %d, want 0", skips)
	}
}

func TestFromXHR_MalformedBodyYieldsNothing(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/api/broken",
		Method:  "GET",
		Class:   capture.ClassXhrFetch,
		Body:    `{"price": `,
		HasBody: true,
		Headers: jsonHeaders(),
	}

	got, skips := FromXHR(&ex, keywords.Extract("price"))
	if len(got) != 0 {
		t.Error("got a candidate for a malformed body, want none")
	}
	if skips != 1 {
		t.Errorf("skips = %d, want 1", skips)
	}
}

func TestFromXHR_MissingBody(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/api/empty",
		Class:   capture.ClassXhrFetch,
		Headers: jsonHeaders(),
	}

	if got, _ := FromXHR(&ex, keywords.Extract("price")); len(got) != 0 {
		t.Error("got a candidate for an absent body, want none")
	}
}

func TestFromXHR_ArrayBodyWrapped(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/api/list",
		Method:  "POST",
		Class:   capture.ClassXhrFetch,
		Body:    `[{"price": 1}, {"price": 2}]`,
		HasBody: true,
		Headers: jsonHeaders(),
	}

	got, _ := FromXHR(&ex, keywords.Extract("price"))
	if len(got) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(got))
	}
	c := got[0]
	if _, wrapped := c.SampleData["data"]; !wrapped {
		t.Errorf("SampleData = %v, want array wrapped under data", c.SampleData)
	}
	if c.DirectUse != "curl -s -X POST 'https://shop.example.com/api/list'" {
		t.Errorf("DirectUse = %q", c.DirectUse)
	}
}

// =============================================================================
// Script extractor
// =============================================================================

func TestFromScript_JSONParseLiterals(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "single quoted",
			body: `var cfg = JSON.parse('{"price": 10}');`,
			want: 1,
		},
		{
			name: "double quoted",
			body: `var cfg = JSON.parse("{\"price\": 10}");`,
			want: 0, // escaped quotes inside the literal are not valid JSON as matched
		},
		{
			name: "backtick",
			body: "var cfg = JSON.parse(`{\"price\": 10}`);",
			want: 1,
		},
		{
			name: "multiple literals",
			body: `a = JSON.parse('{"price": 1}'); b = JSON.parse('{"price": 2}');`,
			want: 2,
		},
		{
			name: "malformed skipped",
			body: `a = JSON.parse('{"price": }');`,
			want: 0,
		},
		{
			name: "no parse call",
			body: `var price = 10;`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := capture.Exchange{
				URL:     "https://shop.example.com/static/app.js",
				Method:  "GET",
				Class:   capture.ClassScript,
				Body:    tt.body,
				HasBody: true,
			}
			got, _ := FromScript(&ex, keywords.Extract("price"))
			if len(got) != tt.want {
				t.Errorf("len(candidates) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFromScript_MalformedLiteralCounted(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/static/app.js",
		Method:  "GET",
		Class:   capture.ClassScript,
		Body:    `a = JSON.parse('{"price": }'); b = JSON.parse('{"price": 2}');`,
		HasBody: true,
	}

	got, skips := FromScript(&ex, keywords.Extract("price"))
	if len(got) != 1 {
		t.Errorf("len(candidates) = %d, want 1", len(got))
	}
	if skips != 1 {
		t.Errorf("skips = %d, want 1", skips)
	}
}

// =============================================================================
// Other extractor
// =============================================================================

func TestFromText_RawSurface(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/feed",
		Method:  "GET",
		Class:   capture.ClassOther,
		Body:    "price,qty\n599,4\n",
		HasBody: true,
		Headers: textHeaders(),
	}

	c, ok := FromText(&ex, keywords.Extract("price"))
	if !ok {
		t.Fatal("FromText() ok = false, want true")
	}
	if c.ContentType != "text/plain" {
		t.Errorf("ContentType = %q, want text/plain", c.ContentType)
	}
	if c.SampleData["data"] != "price,qty\n599,4\n" {
		t.Errorf("SampleData = %v", c.SampleData)
	}
}

func TestFromText_BinaryPlaceholderScoresNothing(t *testing.T) {
	ex := capture.Exchange{
		URL:     "https://shop.example.com/blob",
		Class:   capture.ClassOther,
		Body:    capture.BinaryPlaceholder,
		HasBody: true,
	}

	if _, ok := FromText(&ex, keywords.Extract("price")); ok {
		t.Error("FromText() ok = true for binary placeholder, want false")
	}
}

// =============================================================================
// Batch runner
// =============================================================================

func TestRun_PriorityOrderAndPagination(t *testing.T) {
	exchanges := []capture.Exchange{
		{
			URL:     "https://shop.example.com/api/items?page=2",
			Method:  "GET",
			Class:   capture.ClassXhrFetch,
			Body:    `{"items": [{"price": 1}]}`,
			HasBody: true,
			Headers: jsonHeaders(),
		},
		documentExchange(`<script type="application/json">{"price": 599}</script>`),
		{
			URL:     "https://shop.example.com/app.js",
			Method:  "GET",
			Class:   capture.ClassScript,
			Body:    `JSON.parse('{"price": 3}')`,
			HasBody: true,
		},
	}

	batch := Run(exchanges, keywords.Extract("price"))

	if len(batch.Candidates) != 3 {
		t.Fatalf("len(candidates) = %d, want 3", len(batch.Candidates))
	}
	// Extraction order follows class priority, not batch order.
	if batch.Candidates[0].Class != capture.ClassDocument {
		t.Errorf("first candidate class = %v, want document", batch.Candidates[0].Class)
	}
	if batch.Candidates[1].Class != capture.ClassXhrFetch {
		t.Errorf("second candidate class = %v, want xhr_fetch", batch.Candidates[1].Class)
	}
	if batch.PaginationURL != "https://shop.example.com/api/items?page=2" {
		t.Errorf("PaginationURL = %q", batch.PaginationURL)
	}
}

func TestRun_PaginationLastWriteWins(t *testing.T) {
	exchanges := []capture.Exchange{
		{URL: "https://x.com/api?page=1", Class: capture.ClassXhrFetch},
		{URL: "https://x.com/api?page=2", Class: capture.ClassXhrFetch},
	}

	batch := Run(exchanges, keywords.Extract("price"))
	if batch.PaginationURL != "https://x.com/api?page=2" {
		t.Errorf("PaginationURL = %q, want the last match", batch.PaginationURL)
	}
}

func TestRun_PaginationIndependentOfCandidates(t *testing.T) {
	// Non-JSON XHR produces no candidate but still flags pagination.
	exchanges := []capture.Exchange{
		{
			URL:     "https://x.com/list?p=3",
			Class:   capture.ClassXhrFetch,
			Body:    "plain text",
			HasBody: true,
			Headers: textHeaders(),
		},
	}

	batch := Run(exchanges, keywords.Extract("price"))
	if len(batch.Candidates) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(batch.Candidates))
	}
	if batch.PaginationURL != "https://x.com/list?p=3" {
		t.Errorf("PaginationURL = %q", batch.PaginationURL)
	}
}

func TestRun_CountsParseSkips(t *testing.T) {
	exchanges := []capture.Exchange{
		documentExchange(`<script type="application/json">{"price": broken</script>`),
		{
			URL:     "https://x.com/api/broken",
			Class:   capture.ClassXhrFetch,
			Body:    `{"price": `,
			HasBody: true,
			Headers: jsonHeaders(),
		},
	}

	batch := Run(exchanges, keywords.Extract("price"))
	if len(batch.Candidates) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(batch.Candidates))
	}
	if batch.ParseSkips < 2 {
		t.Errorf("ParseSkips = %d, want at least one per malformed body", batch.ParseSkips)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	batch := Run(nil, keywords.Extract("price"))
	if len(batch.Candidates) != 0 || batch.PaginationURL != "" || batch.ParseSkips != 0 {
		t.Errorf("Run(nil) = %+v, want empty batch", batch)
	}
}
