package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	sources := []string{"auto", "gopsutil", "procfs"}

	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _cpuutil_completions cpuutil", "--interval|-i)", `compgen -W "auto gopsutil procfs"`, "--config)"}},
		{"zsh", []string{"#compdef cpuutil", "'(-q --quiet)'{-q,--quiet}'[Print sample lines only]'", "--source[Counter source]:source:(auto gopsutil procfs)"}},
		{"fish", []string{"complete -c cpuutil -f", "complete -c cpuutil -l format -d 'Output format' -xa 'text json'", "-l config -d 'YAML configuration file' -rF", "-l log-format -d 'Log format' -xa 'console json plain'", "-l theme -d 'Color theme' -xa 'dark light orange none'"}},
		{"powershell", []string{"Register-ArgumentCompleter -CommandName 'cpuutil'", "'--log-level' {"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, sources); err != nil {
				t.Fatalf("GenerateCompletion(%s) error = %v", tt.shell, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()
	if err := GenerateCompletion(&bytes.Buffer{}, "tcsh", nil); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
