package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/cpuutil/internal/config"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "interval")
	Short     string   // short flag without "-" (e.g., "i")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "duration")
	IsFile    bool     // true if the flag takes a file path
	IsSource  bool     // true if values come from the counter source list (dynamic)
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "interval", Short: "i", Help: "Time between two counter readings", Values: []string{"100ms", "250ms", "500ms", "1s", "5s"}, ValueName: "duration"},
	{Long: "count", Short: "n", Help: "Stop after this many samples", ValueName: "number"},
	{Long: "duration", Help: "Stop after this much time", Values: []string{"10s", "1m", "5m", "1h"}, ValueName: "duration"},
	{Long: "source", Help: "Counter source", IsSource: true, ValueName: "source"},
	{Long: "proc-root", Help: "procfs mount point", IsFile: true, ValueName: "dir"},
	{Long: "format", Help: "Output format", Values: []string{"text", "json"}, ValueName: "format"},
	{Long: "precision", Help: "Decimals printed for percentages", Values: []string{"0", "1", "2", "3"}, ValueName: "digits"},
	{Long: "timestamps", Help: "Prefix each line with a timestamp"},
	{Long: "quiet", Short: "q", Help: "Print sample lines only"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "theme", Help: "Color theme", Values: config.Themes, ValueName: "theme"},
	{Long: "skip-degenerate", Help: "Do not print zero-length intervals"},
	{Long: "max-invalid-streak", Help: "Re-baseline after this many invalid samples", ValueName: "number"},
	{Long: "max-source-failures", Help: "Abort after this many source failures", ValueName: "number"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics on this address", Values: []string{":9100", "127.0.0.1:9100"}, ValueName: "addr"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "log-format", Help: "Log format", Values: []string{"console", "json", "plain"}, ValueName: "format"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - sources: List of available counter source names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, sources []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, sources)
	case "zsh":
		return generateZshCompletion(out, sources)
	case "fish":
		return generateFishCompletion(out, sources)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, sources)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// flagValues returns the completion values for f.
func flagValues(f FlagCompletion, sources []string) []string {
	if f.IsSource {
		return sources
	}
	return f.Values
}

// flagPatterns returns the spellings of f as typed on the command line.
func flagPatterns(f FlagCompletion) []string {
	var p []string
	if f.Long != "" {
		p = append(p, "--"+f.Long)
	}
	if f.Short != "" {
		p = append(p, "-"+f.Short)
	}
	return p
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, sources []string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		patterns := flagPatterns(f)
		opts = append(opts, patterns...)

		var body string
		switch vals := flagValues(f, sources); {
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(vals) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(vals, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(patterns, "|"), body)
	}

	script := fmt.Sprintf(`# Bash completion script for cpuutil
# Add this to your ~/.bashrc or ~/.bash_completion

_cpuutil_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _cpuutil_completions cpuutil
`, strings.Join(opts, " "), cases.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, sources []string) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f, sources))
	}

	script := fmt.Sprintf(`#compdef cpuutil

# Zsh completion script for cpuutil
# Add this to your ~/.zshrc or place in $fpath

_cpuutil() {
    _arguments -s \
%s
}

_cpuutil "$@"
`, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion, sources []string) string {
	valueSuffix := ""
	if f.IsFile {
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	} else if vals := flagValues(f, sources); len(vals) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(vals, " "))
	} else if f.ValueName != "" {
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, sources []string) error {
	lines := []string{
		"# Fish completion script for cpuutil",
		"# Add this to ~/.config/fish/completions/cpuutil.fish",
		"",
		"# Disable file completion by default",
		"complete -c cpuutil -f",
		"",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, sources))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, sources []string) string {
	parts := []string{"complete -c cpuutil"}
	if f.Short != "" {
		parts = append(parts, fmt.Sprintf("-s %s", f.Short))
	}
	if f.Long != "" {
		parts = append(parts, fmt.Sprintf("-l %s", f.Long))
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	if f.IsFile {
		parts = append(parts, "-rF")
	} else if vals := flagValues(f, sources); len(vals) > 0 {
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(vals, " ")))
	} else if f.ValueName != "" {
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, sources []string) error {
	var options, switches []string
	for _, f := range flagRegistry {
		for _, p := range flagPatterns(f) {
			options = append(options, fmt.Sprintf("        @{Name = '%s'; Description = '%s' }", p, f.Help))
		}
		vals := flagValues(f, sources)
		if f.IsFile || len(vals) == 0 {
			continue
		}
		quoted := make([]string, len(vals))
		for i, v := range vals {
			quoted[i] = fmt.Sprintf("'%s'", v)
		}
		switches = append(switches, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, strings.Join(quoted, ", ")))
	}

	script := fmt.Sprintf(`# PowerShell completion script for cpuutil
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'cpuutil' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(options, "\n"), strings.Join(switches, "\n"))

	_, err := fmt.Fprint(out, script)
	return err
}
