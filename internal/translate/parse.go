package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeFence = regexp.MustCompile("```[a-zA-Z]*")
	// any backslash pair; invalid JSON escapes such as \N get doubled
	backslashPair = regexp.MustCompile(`(?s)\\.`)
)

// keys models tend to wrap the array in when asked for JSON
var wrapperKeys = []string{"results", "translations", "data", "items"}

// decodeResults pulls the translated array out of a model reply and checks
// it holds exactly want items.
func decodeResults(reply string, want int) ([]TranslationResult, error) {
	body := repairEscapes(stripFences(reply))

	for start := strings.IndexAny(body, "[{"); start >= 0; {
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(body[start:])).Decode(&raw); err == nil {
			if results := unwrapResults(raw); len(results) > 0 {
				if len(results) != want {
					return nil, fmt.Errorf("expected %d results, got %d", want, len(results))
				}
				return results, nil
			}
		}
		next := strings.IndexAny(body[start+1:], "[{")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, fmt.Errorf("no translation JSON in response: %s", clip(reply, 200))
}

func stripFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

func repairEscapes(s string) string {
	return backslashPair.ReplaceAllStringFunc(s, func(pair string) string {
		switch pair[1] {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
			return pair
		}
		return `\` + pair
	})
}

// unwrapResults accepts a bare array or an object holding one.
func unwrapResults(raw json.RawMessage) []TranslationResult {
	if results, ok := asResults(raw); ok {
		return results
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	for _, key := range wrapperKeys {
		if results, ok := asResults(obj[key]); ok {
			return results
		}
	}
	for _, field := range obj {
		if results, ok := asResults(field); ok {
			return results
		}
	}
	return nil
}

// asResults reports whether raw is an array with at least one non-empty text.
func asResults(raw json.RawMessage) ([]TranslationResult, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var results []TranslationResult
	if json.Unmarshal(raw, &results) != nil {
		return nil, false
	}
	for _, r := range results {
		if r.Text != "" {
			return results, true
		}
	}
	return nil, false
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
