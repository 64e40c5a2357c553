package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for UI output.
// The string fields other than Name hold ANSI escape codes.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or critical issues.
	Error string
	// Bold is the escape code for bold text.
	Bold string
	// Reset clears all formatting.
	Reset string

	// Palette holds the lipgloss colors used for per-category sample styling.
	Palette Palette
}

// Palette maps each utilization category to a lipgloss color.
type Palette struct {
	User   lipgloss.TerminalColor
	Kernel lipgloss.TerminalColor
	Idle   lipgloss.TerminalColor
	Used   lipgloss.TerminalColor
	Label  lipgloss.TerminalColor
	Header lipgloss.TerminalColor
}

var noColorPalette = Palette{
	User:   lipgloss.NoColor{},
	Kernel: lipgloss.NoColor{},
	Idle:   lipgloss.NoColor{},
	Used:   lipgloss.NoColor{},
	Label:  lipgloss.NoColor{},
	Header: lipgloss.NoColor{},
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Warning: "\033[38;5;220m", // Yellow
		Error:   "\033[38;5;196m", // Red
		Bold:    "\033[1m",
		Reset:   "\033[0m",
		Palette: Palette{
			User:   lipgloss.Color("39"),
			Kernel: lipgloss.Color("196"),
			Idle:   lipgloss.Color("82"),
			Used:   lipgloss.Color("220"),
			Label:  lipgloss.Color("245"),
			Header: lipgloss.Color("141"),
		},
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:    "light",
		Warning: "\033[38;5;130m", // Orange
		Error:   "\033[38;5;124m", // Dark red
		Bold:    "\033[1m",
		Reset:   "\033[0m",
		Palette: Palette{
			User:   lipgloss.Color("27"),
			Kernel: lipgloss.Color("124"),
			Idle:   lipgloss.Color("28"),
			Used:   lipgloss.Color("130"),
			Label:  lipgloss.Color("240"),
			Header: lipgloss.Color("54"),
		},
	}

	// OrangeTheme is an orange-dominant dark theme.
	OrangeTheme = Theme{
		Name:    "orange",
		Warning: "\033[38;5;214m", // Light orange
		Error:   "\033[38;5;196m", // Red
		Bold:    "\033[1m",
		Reset:   "\033[0m",
		Palette: Palette{
			User:   lipgloss.Color("#FF8C00"),
			Kernel: lipgloss.Color("#FF4444"),
			Idle:   lipgloss.Color("#9ece6a"),
			Used:   lipgloss.Color("#FFB347"),
			Label:  lipgloss.Color("#666666"),
			Header: lipgloss.Color("#FF6600"),
		},
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{
		Name:    "none",
		Palette: noColorPalette,
	}

	// currentTheme is the active theme used throughout the application.
	// Defaults to DarkTheme but can be changed via SetTheme or InitTheme.
	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// Styles are the lipgloss styles applied to one sample line.
type Styles struct {
	Label  lipgloss.Style
	User   lipgloss.Style
	Kernel lipgloss.Style
	Idle   lipgloss.Style
	Used   lipgloss.Style
	Header lipgloss.Style
}

// StylesFor builds the sample-line styles for a theme.
func StylesFor(t Theme) Styles {
	p := t.Palette
	if p.User == nil {
		p = noColorPalette
	}
	return Styles{
		Label:  lipgloss.NewStyle().Foreground(p.Label),
		User:   lipgloss.NewStyle().Foreground(p.User),
		Kernel: lipgloss.NewStyle().Foreground(p.Kernel),
		Idle:   lipgloss.NewStyle().Foreground(p.Idle),
		Used:   lipgloss.NewStyle().Foreground(p.Used).Bold(t.Name != NoColorTheme.Name),
		Header: lipgloss.NewStyle().Foreground(p.Header).Underline(t.Name != NoColorTheme.Name),
	}
}

// CurrentStyles returns the sample-line styles of the active theme.
func CurrentStyles() Styles {
	return StylesFor(GetCurrentTheme())
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name.
// Valid names are: "dark", "light", "orange", "none".
// Unknown names default to dark theme.
//
// Parameters:
//   - name: The name of the theme to activate.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "dark":
		currentTheme = DarkTheme
	case "light":
		currentTheme = LightTheme
	case "orange":
		currentTheme = OrangeTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme selects the active theme from the configured name, the noColor
// flag and the environment. It respects the NO_COLOR environment variable
// (https://no-color.org/): if noColor is true or NO_COLOR is set, colors are
// disabled regardless of name.
//
// Parameters:
//   - name: The configured theme name.
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(name string, noColor bool) {
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}

	// Any value disables colors, per no-color.org
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		SetCurrentTheme(NoColorTheme)
		return
	}

	SetTheme(name)
}

// ColorEnabled reports whether the active theme emits escape codes.
func ColorEnabled() bool {
	return GetCurrentTheme().Name != NoColorTheme.Name
}
