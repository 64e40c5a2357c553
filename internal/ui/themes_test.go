package ui

import (
	"strings"
	"testing"
)

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"orange", "orange"},
		{"none", "none"},
		{"neon", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetTheme(tt.name)
			if got := GetCurrentTheme().Name; got != tt.want {
				t.Errorf("SetTheme(%q) active = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Run("noColor flag wins", func(t *testing.T) {
		InitTheme("light", true)
		if ColorEnabled() {
			t.Error("colors should be disabled by the flag")
		}
	})

	t.Run("NO_COLOR env disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme("orange", false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("active theme = %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("named theme applied", func(t *testing.T) {
		InitTheme("light", false)
		if GetCurrentTheme().Name != "light" && GetCurrentTheme().Name != "none" {
			t.Errorf("active theme = %q, want light", GetCurrentTheme().Name)
		}
	})
}

func TestStylesFor_NoColorIsPlain(t *testing.T) {
	s := StylesFor(NoColorTheme)
	for _, text := range []string{s.User.Render("24.24%"), s.Used.Render("39.39%"), s.Header.Render("| User |")} {
		if strings.Contains(text, "\033[") {
			t.Errorf("no-color style rendered escape codes: %q", text)
		}
	}
	if got := s.Kernel.Render("15.15%"); got != "15.15%" {
		t.Errorf("Kernel.Render() = %q, want plain text", got)
	}
}

func TestCurrentStyles_RendersText(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	SetTheme("dark")
	if got := CurrentStyles().Idle.Render("30.30%"); !strings.Contains(got, "30.30%") {
		t.Errorf("Idle.Render() = %q, want it to contain the value", got)
	}
}
