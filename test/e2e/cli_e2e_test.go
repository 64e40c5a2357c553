package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E verifies the built binary functions correctly
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	tmpDir := t.TempDir()
	binName := "cpuutil"
	if runtime.GOOS == "windows" {
		binName = "cpuutil.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs with the package directory as CWD; build from the module root.
	rootDir := "../.."

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/cpuutil")
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build cpuutil: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "cpuutil",
			wantCode: 0,
		},
		{
			name:     "Quiet Samples",
			args:     []string{"--count", "2", "--interval", "20ms", "--quiet"},
			wantOut:  "User:",
			wantCode: 0,
		},
		{
			name:     "Text With Summary",
			args:     []string{"--count", "1", "--interval", "20ms"},
			wantOut:  "--- Summary ---",
			wantCode: 0,
		},
		{
			name:     "JSON Lines",
			args:     []string{"--format", "json", "--count", "1", "--interval", "20ms"},
			wantOut:  "cpuPercent",
			wantCode: 0,
		},
		{
			name:     "Duration Ends Run",
			args:     []string{"--duration", "100ms", "--interval", "20ms", "--quiet"},
			wantOut:  "Used:",
			wantCode: 0,
		},
		{
			name:     "Zero Interval",
			args:     []string{"--interval", "0s"},
			wantOut:  "interval",
			wantCode: 4,
		},
		{
			name:     "Unknown Flag",
			args:     []string{"--algo", "fast"},
			wantOut:  "algo",
			wantCode: 4,
		},
		{
			name:     "Unknown Source",
			args:     []string{"--source", "sundial", "--count", "1"},
			wantOut:  "sundial",
			wantCode: 4,
		},
		{
			name:     "Bash Completion",
			args:     []string{"--completion", "bash"},
			wantOut:  "_cpuutil_completions",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()

			outStr := string(output)

			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("Command failed unexpectedly: %v\nOutput: %s", err, outStr)
				}
			} else {
				var exitErr *exec.ExitError
				switch {
				case err == nil:
					t.Errorf("Expected exit code %d, but command succeeded.\nOutput: %s", tt.wantCode, outStr)
				case errors.As(err, &exitErr):
					if exitErr.ExitCode() != tt.wantCode {
						t.Errorf("Exit code = %d, want %d\nOutput: %s", exitErr.ExitCode(), tt.wantCode, outStr)
					}
				default:
					t.Errorf("Command did not exit normally: %v", err)
				}
			}

			if tt.wantOut != "" {
				if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
					t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
				}
			}
		})
	}
}
