package crawl

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/apiscout/apiscout/internal/extract"
)

// sensitiveSegments are path segments never followed to the next depth,
// regardless of caller options.
var sensitiveSegments = []string{"auth", "login", "admin"}

// LinkOptions controls next-depth link extraction.
type LinkOptions struct {
	// IncludePagination keeps pagination-shaped links; off by default.
	IncludePagination bool
	// Limit caps the number of returned links. Zero means no cap.
	Limit int
}

// ExtractLinks pulls same-domain anchor targets out of a rendered HTML body,
// resolved against the base URL, deduplicated in document order.
func ExtractLinks(htmlText, baseURL string, opts LinkOptions) []string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				resolved := resolveLink(base, attr.Val)
				if resolved == "" {
					break
				}
				if _, dup := seen[resolved]; dup {
					break
				}
				if !sameDomain(base, resolved) {
					break
				}
				if isSensitive(resolved) {
					break
				}
				if !opts.IncludePagination && extract.IsPagination(resolved) {
					break
				}
				seen[resolved] = struct{}{}
				links = append(links, resolved)
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if opts.Limit > 0 && len(links) > opts.Limit {
		links = links[:opts.Limit]
	}
	return links
}

// resolveLink resolves an href against the base, dropping non-http targets.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

func sameDomain(base *url.URL, link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, base.Host)
}

// isSensitive reports whether any path segment is an auth-ish area.
func isSensitive(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return true
	}
	for _, seg := range strings.Split(strings.ToLower(parsed.Path), "/") {
		for _, sensitive := range sensitiveSegments {
			if seg == sensitive {
				return true
			}
		}
	}
	return false
}
