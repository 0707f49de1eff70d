package format

import (
	"fmt"
	"math"
)

// FormatValue prints an integral with full double precision.
func FormatValue(v float64) string {
	return fmt.Sprintf("%.17f", v)
}

// FormatError prints an error magnitude in scientific notation.
func FormatError(e float64) string {
	if math.IsInf(e, 0) || math.IsNaN(e) {
		return "n/a"
	}
	return fmt.Sprintf("%.6e", e)
}

// FormatPercent prints a relative error already expressed in percent.
func FormatPercent(p float64) string {
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return "n/a"
	}
	return fmt.Sprintf("%.6e%%", p)
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
