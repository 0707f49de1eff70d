package format

import (
	"math"
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
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.in); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "--"},
		{-time.Second, "--"},
		{300 * time.Millisecond, "<1s"},
		{61 * time.Second, "1m1s"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.in); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1_000_000, "1,000,000"},
		{12_345_678, "12,345,678"},
		{-4096, "-4,096"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumbers(t *testing.T) {
	t.Parallel()
	if got := FormatValue(0.5); got != "0.50000000000000000" {
		t.Errorf("FormatValue = %q", got)
	}
	if got := FormatError(1.5e-7); got != "1.500000e-07" {
		t.Errorf("FormatError = %q", got)
	}
	if got := FormatError(math.Inf(1)); got != "n/a" {
		t.Errorf("FormatError(Inf) = %q", got)
	}
	if got := FormatPercent(2.5e-5); got != "2.500000e-05%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(math.NaN()); got != "n/a" {
		t.Errorf("FormatPercent(NaN) = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
