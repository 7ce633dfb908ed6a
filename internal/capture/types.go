package capture

import (
	"net/http"
	"unicode/utf8"

	"github.com/go-rod/rod/lib/proto"
)

// ResourceClass buckets an exchange by its declared resource type. The class
// fixes extraction priority: Document first, then XhrFetch, Script, Other.
type ResourceClass int

const (
	ClassDocument ResourceClass = iota
	ClassXhrFetch
	ClassScript
	ClassOther
)

// String returns the string representation of the class.
func (c ResourceClass) String() string {
	switch c {
	case ClassDocument:
		return "document"
	case ClassXhrFetch:
		return "xhr_fetch"
	case ClassScript:
		return "script"
	default:
		return "other"
	}
}

// BinaryPlaceholder stands in for response bodies that are not valid text.
// It flows through scoring as ordinary text and simply fails to match.
const BinaryPlaceholder = "[binary data]"

// Exchange is one observed network round-trip. Immutable after capture and
// discarded at the end of the visit's analysis.
type Exchange struct {
	URL     string
	Method  string
	Class   ResourceClass
	Body    string // empty unless status is 2xx and the body decoded as text
	HasBody bool
	Headers http.Header // canonicalized keys, lookups are case-insensitive
	Status  int
}

// ContentType returns the response content-type header, if any.
func (e *Exchange) ContentType() string {
	if e.Headers == nil {
		return ""
	}
	return e.Headers.Get("Content-Type")
}

// ClassifyResourceType maps a CDP resource type onto a ResourceClass.
// Stylesheet/Image/Media/Font never reach this point; Excluded reports
// whether the capture-time filter should drop the exchange entirely.
func ClassifyResourceType(t proto.NetworkResourceType) ResourceClass {
	switch t {
	case proto.NetworkResourceTypeDocument:
		return ClassDocument
	case proto.NetworkResourceTypeXHR, proto.NetworkResourceTypeFetch:
		return ClassXhrFetch
	case proto.NetworkResourceTypeScript:
		return ClassScript
	default:
		return ClassOther
	}
}

// Excluded reports whether a resource type is filtered out at capture time.
func Excluded(t proto.NetworkResourceType) bool {
	switch t {
	case proto.NetworkResourceTypeStylesheet,
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeMedia,
		proto.NetworkResourceTypeFont:
		return true
	}
	return false
}

// SanitizeBody returns the body for a captured response: non-success statuses
// yield no body, and non-text payloads collapse to the binary placeholder.
func SanitizeBody(status int, raw string) (body string, ok bool) {
	if status < 200 || status >= 300 {
		return "", false
	}
	if !utf8.ValidString(raw) {
		return BinaryPlaceholder, true
	}
	return raw, true
}

// Result is what one page visit produced: the filtered exchange sequence and
// the final rendered HTML.
type Result struct {
	URL       string
	FinalURL  string
	Exchanges []Exchange
	HTML      string
	// Err records a recoverable capture failure (navigation timeout, browser
	// error). The exchanges and HTML gathered before the failure are kept.
	Err error
}
