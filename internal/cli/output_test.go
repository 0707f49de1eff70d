package cli

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agbru/midcalc/internal/topology"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	res := sampleResult(topology.Hierarchical)

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "nested", "result.json")
		if err := WriteResultToFile(res, path); err != nil {
			t.Fatalf("WriteResultToFile: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var rec ResultRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, data)
		}
		if rec.RunID != res.RunID || rec.Mode != "hierarchical" || rec.Value != res.Value || len(rec.Partials) != 2 {
			t.Errorf("unexpected record: %+v", rec)
		}
		if rec.RelErrorPercent == nil || *rec.RelErrorPercent != res.RelErrorPercent {
			t.Errorf("RelErrorPercent = %v", rec.RelErrorPercent)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "result.YML")
		if err := WriteResultToFile(res, path); err != nil {
			t.Fatalf("WriteResultToFile: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var rec ResultRecord
		if err := yaml.Unmarshal(data, &rec); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, data)
		}
		if rec.Function != "sin-x2" || rec.Intervals != 1003 || rec.DurationNs != int64(12*time.Millisecond) {
			t.Errorf("unexpected record: %+v", rec)
		}
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "result.txt")
		if err := WriteResultToFile(res, path); err != nil {
			t.Fatalf("WriteResultToFile: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"# Midpoint Integration Result", "# Mode: hierarchical", "value = 0.62500000000000000"} {
			if !strings.Contains(string(data), want) {
				t.Errorf("text file should contain %q, got:\n%s", want, data)
			}
		}
	})
}

func TestWriteResultToFile_EmptyPath(t *testing.T) {
	t.Parallel()
	if err := WriteResultToFile(sampleResult(topology.Flat), ""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestNewResultRecord_InfiniteRelativeError(t *testing.T) {
	t.Parallel()
	res := sampleResult(topology.Flat)
	res.Reference, res.RelErrorPercent = 0, math.Inf(1)

	rec := NewResultRecord(res, time.Unix(0, 0))
	if rec.RelErrorPercent != nil {
		t.Errorf("infinite relative error should be omitted, got %v", *rec.RelErrorPercent)
	}
	if _, err := json.Marshal(rec); err != nil {
		t.Errorf("record should encode: %v", err)
	}
}
