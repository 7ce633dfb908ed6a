package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// sampleLimit bounds the serialized sample used for scoring and display.
const sampleLimit = 500

// rule is one named extraction pattern. The first capture group is the raw
// structured-data text.
type rule struct {
	name    string
	pattern *regexp.Regexp
}

// documentRules hunt for JSON embedded in HTML documents.
var documentRules = []rule{
	{
		name:    "next_data_script",
		pattern: regexp.MustCompile(`(?s)<script[^>]*id="__NEXT_DATA__"[^>]*>(.*?)</script>`),
	},
	{
		name:    "json_script_tag",
		pattern: regexp.MustCompile(`(?s)<script[^>]*type=["']application/json["'][^>]*>(.*?)</script>`),
	},
	{
		name:    "global_data_assignment",
		pattern: regexp.MustCompile(`(?s)window\.(?:__DATA__|__INITIAL_STATE__|__PRELOADED_STATE__)\s*=\s*(\{.*?\});?`),
	},
}

// scriptRules hunt for string literals handed to JSON.parse in JS sources.
var scriptRules = []rule{
	{
		name:    "json_parse_quoted",
		pattern: regexp.MustCompile(`(?s)JSON\.parse\s*\(\s*['"](\{.*?\})['"]\s*\)`),
	},
	{
		name:    "json_parse_backtick",
		pattern: regexp.MustCompile("(?s)JSON\\.parse\\s*\\(\\s*`(\\{.*?\\})`\\s*\\)"),
	},
}

// decodeFragment strips optional comment delimiters and parses the text as
// structured data. Parse failures are soft: embedded blocks are frequently
// non-JSON decoys.
func decodeFragment(raw string) (any, bool) {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "/*") && strings.HasSuffix(clean, "*/") {
		clean = strings.TrimSpace(clean[2 : len(clean)-2])
	}

	var parsed any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// serializeSample renders a decoded fragment for scoring, bounded to
// sampleLimit characters.
func serializeSample(parsed any) (sample string, truncated bool) {
	data, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", false
	}
	return truncate(string(data))
}

func truncate(s string) (string, bool) {
	if len(s) <= sampleLimit {
		return s, false
	}
	cut := s[:sampleLimit]
	// Never split a rune at the boundary.
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut, true
}

// wrapFragment produces the candidate's sample payload: keyed structures
// carry through untouched, anything else is wrapped under "data".
func wrapFragment(parsed any) map[string]any {
	if m, ok := parsed.(map[string]any); ok {
		return m
	}
	return map[string]any{"data": parsed}
}

// sampleValue chooses the SampleData for a candidate. When serialization had
// to be truncated, the bounded preview string is wrapped instead of the full
// structure so results stay display-sized.
func sampleValue(parsed any, sample string, truncated bool) map[string]any {
	if truncated {
		return map[string]any{"data": sample}
	}
	return wrapFragment(parsed)
}
