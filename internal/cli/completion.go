package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs one entry.
type FlagCompletion struct {
	Long       string   // long flag name without "--"
	Short      string   // short flag without "-"
	Help       string   // description text
	Values     []string // suggested values (nil = boolean or free-form)
	ValueName  string   // label for the value in zsh
	IsFile     bool     // the flag takes a file path
	IsFunction bool     // values come from the problem registry
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "function", Help: "Integrand to use", IsFunction: true, ValueName: "function"},
	{Long: "details", Short: "d", Help: "Show per-worker partials and resource usage"},
	{Long: "quiet", Short: "q", Help: "Print only the computed value"},
	{Long: "output", Short: "o", Help: "Write the result to a file", IsFile: true, ValueName: "file"},
	{Long: "metrics-file", Help: "Write Prometheus metrics to a file", IsFile: true, ValueName: "file"},
	{Long: "tui", Help: "Show the live worker grid"},
	{Long: "no-color", Help: "Disable coloured output"},
	{Long: "log-level", Help: "Diagnostic log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "log-format", Help: "Diagnostic log format", Values: []string{"json", "text"}, ValueName: "format"},
	{Long: "calibrate", Help: "Sweep worker counts in both modes"},
	{Long: "calibrate-quick", Help: "Quick sweep over fewer worker counts"},
	{Long: "interactive", Help: "Start the interactive mode"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// modeWords are offered for the third positional parameter.
var modeWords = []string{"0", "1", "flat", "hierarchical"}

// GenerateCompletion writes the completion script of shell to out.
//
// Parameters:
//   - out: The writer receiving the script.
//   - shell: "bash", "zsh" or "fish".
//   - functions: The integrand names offered for --function.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string, functions []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(functions)
	case "zsh":
		script = zshCompletion(functions)
	case "fish":
		script = fishCompletion(functions)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion(functions []string) string {
	var opts []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, "--"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFunction:
			fmt.Fprintf(&cases, "        --%s)\n            COMPREPLY=( $(compgen -W \"${functions}\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case f.IsFile:
			files = append(files, "--"+f.Long)
			if f.Short != "" {
				files = append(files, "-"+f.Short)
			}
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        --%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for midcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_midcalc_completions() {
    local cur prev opts functions modes
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    functions="%s"
    modes="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    COMPREPLY=( $(compgen -W "${modes}" -- "${cur}") )
}

complete -F _midcalc_completions midcalc
`, strings.Join(opts, " "), strings.Join(functions, " "), strings.Join(modeWords, " "), cases.String())
}

func zshCompletion(functions []string) string {
	args := make([]string, 0, len(flagRegistry)+3)
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args,
		"        '1:intervals:'",
		"        '2:workers:'",
		fmt.Sprintf("        '3:mode:(%s)'", strings.Join(modeWords, " ")),
	)

	return fmt.Sprintf(`#compdef midcalc

# Zsh completion script for midcalc
# Place this file in a directory of your $fpath

_midcalc() {
    local -a functions
    functions=(%s)

    _arguments -s \
%s
}

_midcalc "$@"
`, strings.Join(functions, " "), strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsFunction:
		valueSuffix = fmt.Sprintf(":%s:($functions)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion(functions []string) string {
	lines := []string{
		"# Fish completion script for midcalc",
		"# Add this to ~/.config/fish/completions/midcalc.fish",
		"",
		"complete -c midcalc -f",
		fmt.Sprintf("complete -c midcalc -n '__fish_is_nth_token 3' -a '%s'", strings.Join(modeWords, " ")),
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c midcalc"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case f.IsFunction:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(functions, " ")))
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
