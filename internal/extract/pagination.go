package extract

import "regexp"

// paginationPatterns recognize paged-listing request shapes. The p= rule
// anchors on the query delimiter so page= URLs do not double-match it and
// values like ?foo=page never match at all.
var paginationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[?&]page=\d+`),
	regexp.MustCompile(`(?i)[?&]p=\d+`),
	regexp.MustCompile(`(?i)/page/\d+`),
	regexp.MustCompile(`(?i)/\d+/page(?:[/?#]|$)`),
}

// IsPagination reports whether a URL looks like a paged-listing request.
func IsPagination(url string) bool {
	for _, p := range paginationPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}
