// Package selectors proposes HTML selector hints when no API candidate was
// found. This is a shallow fallback: the hints point at elements whose
// attributes or repeated structure look related to the requested data.
package selectors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/apiscout/apiscout/internal/keywords"
)

// maxHints bounds the number of proposed selectors.
const maxHints = 10

// Hint is one proposed CSS selector with the term that justified it.
type Hint struct {
	Selector string `json:"selector"`
	Matched  string `json:"matched"`
	Count    int    `json:"count"`
}

// Suggest scans rendered HTML for elements whose id, class or data
// attributes contain a keyword term and proposes selectors for them.
func Suggest(htmlText string, set keywords.Set) []Hint {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	hints := make([]Hint, 0)

	add := func(selector, term string) {
		if selector == "" {
			return
		}
		if _, dup := seen[selector]; dup {
			return
		}
		count := doc.Find(selector).Length()
		if count == 0 {
			return
		}
		seen[selector] = struct{}{}
		hints = append(hints, Hint{Selector: selector, Matched: term, Count: count})
	}

	for _, term := range set.Terms() {
		doc.Find("[id],[class],[data-testid]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if len(hints) >= maxHints {
				return false
			}

			if id, ok := s.Attr("id"); ok && strings.Contains(strings.ToLower(id), term) {
				add("#"+id, term)
			}
			if class, ok := s.Attr("class"); ok {
				for _, cls := range strings.Fields(class) {
					if strings.Contains(strings.ToLower(cls), term) {
						add("."+cls, term)
						break
					}
				}
			}
			if tid, ok := s.Attr("data-testid"); ok && strings.Contains(strings.ToLower(tid), term) {
				add(`[data-testid="`+tid+`"]`, term)
			}
			return true
		})
		if len(hints) >= maxHints {
			break
		}
	}

	return hints
}
