package timeline

// time range in milliseconds; both bounds are inclusive for hit tests
type Span struct {
	Start int64 `json:"start_ms" yaml:"start_ms"`
	End   int64 `json:"end_ms" yaml:"end_ms"`
}

func (s Span) Duration() int64 {
	return s.End - s.Start
}

// reports whether t lies within [Start, End]
func (s Span) Contains(t int64) bool {
	return t >= s.Start && t <= s.End
}

// collects every start and end of the given spans
func Boundaries(spans []Span) []int64 {
	out := make([]int64, 0, len(spans)*2)
	for _, sp := range spans {
		out = append(out, sp.Start, sp.End)
	}
	return out
}
