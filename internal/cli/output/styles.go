package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Success   lipgloss.Style
	Info      lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Key       lipgloss.Style
}

// DefaultStyles returns colored styles for terminals.
func DefaultStyles() *Styles {
	return &Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Subheader: lipgloss.NewStyle().Bold(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Key:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(24),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:    plain,
		Subheader: plain,
		Success:   plain,
		Info:      plain,
		Warning:   plain,
		Error:     plain,
		Muted:     plain,
		Key:       plain,
	}
}

// KeyValue renders an aligned key/value line for text mode.
func (s *Styles) KeyValue(key, value string) string {
	return s.Key.Render(key) + " " + value
}
