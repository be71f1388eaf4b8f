package cli

import "testing"

func TestSparkline(t *testing.T) {
	tests := []struct {
		peaks []float64
		want  string
	}{
		{nil, ""},
		{[]float64{0, 1}, "▁█"},
		{[]float64{-0.5, 2}, "▁█"},
		{[]float64{0.5}, "▅"},
	}

	for _, tt := range tests {
		if got := sparkline(tt.peaks); got != tt.want {
			t.Errorf("sparkline(%v) = %q, want %q", tt.peaks, got, tt.want)
		}
	}
}
