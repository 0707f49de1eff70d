// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatProgressSuffix].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agbru/midcalc/internal/orchestration"
)

// ResultRecord is the serialised form of a result file.
type ResultRecord struct {
	RunID           string    `json:"run_id" yaml:"run_id"`
	GeneratedAt     time.Time `json:"generated_at" yaml:"generated_at"`
	Function        string    `json:"function" yaml:"function"`
	Mode            string    `json:"mode" yaml:"mode"`
	Workers         int       `json:"workers" yaml:"workers"`
	Leaves          int       `json:"leaves" yaml:"leaves"`
	Intervals       int       `json:"intervals" yaml:"intervals"`
	Value           float64   `json:"value" yaml:"value"`
	Reference       float64   `json:"reference" yaml:"reference"`
	AbsError        float64   `json:"abs_error" yaml:"abs_error"`
	RelErrorPercent *float64  `json:"rel_error_percent,omitempty" yaml:"rel_error_percent,omitempty"`
	Duration        string    `json:"duration" yaml:"duration"`
	DurationNs      int64     `json:"duration_ns" yaml:"duration_ns"`
	Partials        []float64 `json:"partials" yaml:"partials"`
}

// NewResultRecord converts a result for serialisation. An infinite relative
// error (zero reference) is omitted.
func NewResultRecord(res orchestration.IntegrationResult, generatedAt time.Time) ResultRecord {
	rec := ResultRecord{
		RunID:       res.RunID,
		GeneratedAt: generatedAt.UTC(),
		Function:    res.Problem,
		Mode:        res.Mode.String(),
		Workers:     res.Workers,
		Leaves:      res.Leaves,
		Intervals:   res.Intervals,
		Value:       res.Value,
		Reference:   res.Reference,
		AbsError:    res.AbsError,
		Duration:    res.Duration.String(),
		DurationNs:  res.Duration.Nanoseconds(),
		Partials:    res.Partials,
	}
	if !math.IsInf(res.RelErrorPercent, 0) && !math.IsNaN(res.RelErrorPercent) {
		rel := res.RelErrorPercent
		rec.RelErrorPercent = &rel
	}
	return rec
}

// WriteResultToFile saves res to path. The extension selects the format:
// .json, .yaml or .yml, and plain text for anything else.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(res orchestration.IntegrationResult, path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	rec := NewResultRecord(res, time.Now())
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(rec, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(rec)
	default:
		data = []byte(formatTextRecord(rec))
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func formatTextRecord(rec ResultRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Midpoint Integration Result\n")
	fmt.Fprintf(&b, "# Generated: %s\n", rec.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "# Run ID: %s\n", rec.RunID)
	fmt.Fprintf(&b, "# Function: %s\n", rec.Function)
	fmt.Fprintf(&b, "# Mode: %s (%d workers, %d leaves)\n", rec.Mode, rec.Workers, rec.Leaves)
	fmt.Fprintf(&b, "# Intervals: %d\n", rec.Intervals)
	fmt.Fprintf(&b, "# Duration: %s\n\n", rec.Duration)
	fmt.Fprintf(&b, "value = %.17f\n", rec.Value)
	fmt.Fprintf(&b, "reference = %.17f\n", rec.Reference)
	fmt.Fprintf(&b, "abs_error = %.6e\n", rec.AbsError)
	if rec.RelErrorPercent != nil {
		fmt.Fprintf(&b, "rel_error_percent = %.6e\n", *rec.RelErrorPercent)
	}
	return b.String()
}
