package transcribe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mgpai22/captioner/internal/subtitle"
)

var codeFence = regexp.MustCompile("```[a-zA-Z]*")

// timedText is one segment as models and whisper report it, in seconds.
type timedText struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (t timedText) empty() bool {
	return t.Text == "" && t.Start == 0 && t.End == 0
}

type verboseTranscript struct {
	Text     string      `json:"text"`
	Segments []timedText `json:"segments"`
	Language string      `json:"language"`
	Duration float64     `json:"duration"`
}

func stripFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

// decodeSegments finds the first JSON value in a model reply holding a
// usable segment array, either bare or nested in objects.
func decodeSegments(reply string) ([]subtitle.Segment, error) {
	body := stripFences(reply)
	for i := 0; i < len(body); i++ {
		if body[i] != '[' && body[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(body[i:]))
		var raw json.RawMessage
		if dec.Decode(&raw) != nil {
			continue
		}
		if timed, ok := findTimed(raw); ok {
			return toSegments(timed, false), nil
		}
		i += int(dec.InputOffset()) - 1
	}
	return nil, fmt.Errorf("no transcript segments found in response: %s", clip(reply, 200))
}

func findTimed(raw json.RawMessage) ([]timedText, bool) {
	var timed []timedText
	if json.Unmarshal(raw, &timed) == nil {
		for _, t := range timed {
			if !t.empty() {
				return timed, true
			}
		}
		return nil, false
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil, false
	}
	for _, v := range obj {
		if timed, ok := findTimed(v); ok {
			return timed, true
		}
	}
	return nil, false
}

// decodeVerbose reads a whisper verbose_json body. Without segments the whole
// text becomes one segment lasting the reported (or fallback) duration.
func decodeVerbose(raw string, fallbackMs int64) ([]subtitle.Segment, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}
	var v verboseTranscript
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(v.Segments) > 0 {
		return toSegments(v.Segments, true), nil
	}
	if v.Text == "" {
		return nil, fmt.Errorf("no segments or text in response")
	}
	end := fallbackMs
	if v.Duration > 0 {
		end = secondsToMillis(v.Duration)
	}
	return []subtitle.Segment{{Start: 0, End: end, Text: strings.TrimSpace(v.Text)}}, nil
}

func toSegments(timed []timedText, dropBlank bool) []subtitle.Segment {
	out := make([]subtitle.Segment, 0, len(timed))
	for _, t := range timed {
		text := strings.TrimSpace(t.Text)
		if dropBlank && text == "" {
			continue
		}
		out = append(out, subtitle.Segment{
			Start: secondsToMillis(t.Start),
			End:   secondsToMillis(t.End),
			Text:  text,
		})
	}
	return out
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
