package config

import (
	"flag"
	"os"
	"strings"
)

// envBinding ties a MIDCALC_ variable to the flags that take precedence over
// it and to the setter that stores its value.
type envBinding struct {
	key   string
	flags []string
	set   func(*AppConfig, string)
}

var envBindings = []envBinding{
	{"FUNCTION", []string{"function"}, func(c *AppConfig, v string) { c.Function = v }},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) { c.MetricsFile = v }},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},
	{"LOG_FORMAT", []string{"log-format"}, func(c *AppConfig, v string) { c.LogFormat = v }},
	{"DETAILS", []string{"details", "d"}, func(c *AppConfig, v string) { c.Details = envBool(v, c.Details) }},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) { c.Quiet = envBool(v, c.Quiet) }},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) { c.TUI = envBool(v, c.TUI) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = envBool(v, c.NoColor) }},
}

// envBool reads yes/no style values. Anything else leaves current unchanged.
func envBool(v string, current bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return current
}

// applyEnvOverrides copies non-empty MIDCALC_ variables into config unless
// one of the matching flags appeared on the command line.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	for _, b := range envBindings {
		if anyGiven(given, b.flags) {
			continue
		}
		if v := os.Getenv(EnvPrefix + b.key); v != "" {
			b.set(config, v)
		}
	}
}

func anyGiven(given map[string]bool, names []string) bool {
	for _, n := range names {
		if given[n] {
			return true
		}
	}
	return false
}
