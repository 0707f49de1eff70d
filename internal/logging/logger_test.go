package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	testErr := errors.New("worker aborted")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("mode", "flat"), "mode", "flat"},
		{"Int", Int("workers", 4), "workers", 4},
		{"Uint64", Uint64("samples", 1_000_000), "samples", uint64(1_000_000)},
		{"Float64", Float64("partial", 0.155), "partial", 0.155},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err", Err(testErr), "error", testErr},
		{"Err nil", Err(nil), "error", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

// TestNewLogger tests the component-tagged logger constructor.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "orchestration")

	logger.Info("run started", Int("leaves", 16))
	output := buf.String()

	for _, want := range []string{"orchestration", "run started", `"leaves":16`} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

// TestNewLogger_ConcurrentWriters logs from many goroutines into a plain
// bytes.Buffer, the way sibling workers share the run logger.
func TestNewLogger_ConcurrentWriters(t *testing.T) {
	t.Parallel()
	const goroutines, perGoroutine = 8, 50

	var buf bytes.Buffer
	logger := NewLogger(&buf, "orchestration").WithLevel(zerolog.DebugLevel)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				logger.Debug("leaf finished", Int("worker", g), Int("step", i))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != goroutines*perGoroutine {
		t.Fatalf("got %d lines, want %d", len(lines), goroutines*perGoroutine)
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("interleaved entry %q: %v", line, err)
		}
	}
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, `"message":"run started"`},
		{FormatText, "[INFO] run started workers=4"},
		{"", `"message":"run started"`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := New(&buf, "midcalc", tt.format, zerolog.InfoLevel)
		logger.Info("run started", Int("workers", 4))
		logger.Debug("hidden")
		out := buf.String()
		if !strings.Contains(out, tt.want) {
			t.Errorf("format %q: output %q does not contain %q", tt.format, out, tt.want)
		}
		if strings.Contains(out, "hidden") {
			t.Errorf("format %q: debug entry was not filtered: %q", tt.format, out)
		}
	}
}

func TestStdLoggerAdapter_WithLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewStdLoggerAdapter(log.New(&buf, "", 0)).WithLevel(zerolog.ErrorLevel)

	logger.Info("dropped")
	logger.Printf("dropped %d", 1)
	logger.Error("kept", errors.New("boom"))

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("entries below error should be filtered, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[ERROR] kept: boom") {
		t.Errorf("error entry missing, got: %s", buf.String())
	}
}

// TestNewNopLogger verifies the discarding logger is usable.
func TestNewNopLogger(t *testing.T) {
	var _ Logger = NewNopLogger()
	NewNopLogger().Error("ignored", errors.New("x"))
}

// TestZerologAdapter_Error tests the Error method.
func TestZerologAdapter_Error(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		err      error
		fields   []Field
		contains []string
	}{
		{
			name:     "with error",
			msg:      "worker failed",
			err:      errors.New("out of memory"),
			contains: []string{"worker failed", "out of memory", "error"},
		},
		{
			name:     "with nil error",
			msg:      "warning",
			contains: []string{"warning", "error"},
		},
		{
			name:     "with error and fields",
			msg:      "branch failed",
			err:      errors.New("panic"),
			fields:   []Field{String("mode", "hierarchical"), Int("worker", 3)},
			contains: []string{"branch failed", "panic", "hierarchical", "3"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Error(tt.msg, tt.err, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestZerologAdapter_Debug tests that debug entries honour the logger level.
func TestZerologAdapter_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))
	logger.Debug("leaf finished", Float64("partial", 0.25))

	if !strings.Contains(buf.String(), "leaf finished") {
		t.Errorf("Debug output should contain message, got: %s", buf.String())
	}

	buf.Reset()
	quiet := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.WarnLevel))
	quiet.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry leaked through warn level: %s", buf.String())
	}
}

// TestZerologAdapter_PrintfPrintln tests the printf-style helpers.
func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Printf("spawned %d sub-workers", 3)
	logger.Println("joined", "branch")

	output := buf.String()
	if !strings.Contains(output, "spawned 3 sub-workers") {
		t.Errorf("Printf should format message, got: %s", output)
	}
	if !strings.Contains(output, "joined branch") {
		t.Errorf("Println should join arguments, got: %s", output)
	}
}

// TestZerologAdapter_applyFields tests field application with all supported types.
func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "sum", Value: 0.5}, "0.5"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info("test", tt.field)

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, buf.String())
			}
		})
	}
}

// TestParseLevel tests level name resolution.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.WarnLevel},
		{"chatty", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestStdLoggerAdapter tests the standard library backend.
func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "Info with fields",
			log:      func(l Logger) { l.Info("run finished", String("mode", "flat")) },
			contains: []string{"[INFO]", "run finished", "mode=flat"},
		},
		{
			name:     "Debug with fields",
			log:      func(l Logger) { l.Debug("leaf", Int("index", 7)) },
			contains: []string{"[DEBUG]", "leaf", "index=7"},
		},
		{
			name:     "Error with cause",
			log:      func(l Logger) { l.Error("failed", errors.New("boom"), String("db", "none")) },
			contains: []string{"[ERROR]", "failed", "boom", "db=none"},
		},
		{
			name:     "Printf",
			log:      func(l Logger) { l.Printf("value is %d", 123) },
			contains: []string{"value is 123"},
		},
		{
			name:     "Println",
			log:      func(l Logger) { l.Println("a", "b", "c") },
			contains: []string{"a b c"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			adapter := NewStdLoggerAdapter(log.New(&buf, "", 0))
			tt.log(adapter)

			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got: %s", want, buf.String())
				}
			}
		})
	}
}

// TestZerologAdapter_WithLevel verifies level filtering on a derived logger.
func TestZerologAdapter_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "app").WithLevel(zerolog.WarnLevel)

	logger.Info("dropped")
	logger.Error("kept", errors.New("boom"))

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("info entry should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("error entry should pass, got: %s", output)
	}
}
