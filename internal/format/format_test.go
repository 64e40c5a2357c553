package format

import (
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{2*time.Second + 500*time.Millisecond, "2.5s"},
		{time.Minute + 1234567*time.Microsecond, "1m1.235s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.in); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v         float64
		precision int
		want      string
	}{
		{24.242424, 2, "24.24%"},
		{39.393939, 2, "39.39%"},
		{100, 0, "100%"},
		{0, 3, "0.000%"},
		{15.151515, -1, "15%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.v, tt.precision); got != tt.want {
			t.Errorf("FormatPercent(%v, %d) = %q, want %q", tt.v, tt.precision, got, tt.want)
		}
	}
}
