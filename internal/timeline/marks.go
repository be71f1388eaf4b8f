package timeline

import (
	"fmt"
	"math"
	"sort"
)

// tick on the ruler; boundary marks carry no label
type Mark struct {
	Time     int64   `json:"time_ms"`
	Position float64 `json:"position_px"`
	Major    bool    `json:"major"`
	Label    string  `json:"label,omitempty"`
	Boundary bool    `json:"boundary,omitempty"`
}

// TickInterval picks the ruler spacing for a zoom level, finer as the
// timeline is zoomed in.
func TickInterval(pps float64) int64 {
	switch {
	case pps > 200:
		return 100
	case pps > 100:
		return 500
	case pps > 50:
		return 1000
	case pps > 20:
		return 5000
	default:
		return 10000
	}
}

// Marks builds the ruler for [0, duration]. Every other tick is major and
// labelled. Each boundary not within half an interval of an existing mark is
// added as an unlabelled mark. The result is sorted by time.
func Marks(durationMs int64, pps float64, boundaries []int64) []Mark {
	if durationMs < 0 || pps <= 0 {
		return nil
	}
	interval := TickInterval(pps)
	subSecond := interval < 1000

	var marks []Mark
	for i, t := 0, int64(0); t <= durationMs; i, t = i+1, t+interval {
		m := Mark{
			Time:     t,
			Position: float64(t) / 1000 * pps,
			Major:    i%2 == 0,
		}
		if m.Major {
			m.Label = FormatRulerTime(t, subSecond)
		}
		marks = append(marks, m)
	}

	radius := interval / 2
	for _, b := range boundaries {
		if b < 0 || b > durationMs {
			continue
		}
		if nearMark(marks, b, radius) {
			continue
		}
		marks = append(marks, Mark{
			Time:     b,
			Position: float64(b) / 1000 * pps,
			Boundary: true,
		})
	}

	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].Time < marks[j].Time
	})
	return marks
}

func nearMark(marks []Mark, t, radius int64) bool {
	for _, m := range marks {
		if abs64(m.Time-t) < radius {
			return true
		}
	}
	return false
}

// FormatRulerTime renders mm:ss, or mm:ss.mmm when precise is set.
// Minutes are not wrapped into hours.
func FormatRulerTime(ms int64, precise bool) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	if precise {
		return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, ms%1000)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Seconds converts milliseconds to fractional seconds.
func Seconds(ms int64) float64 {
	return float64(ms) / 1000
}

// Millis converts fractional seconds to whole milliseconds.
func Millis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
