package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Styles holds the text styles used by commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// DefaultStyles returns the terminal styles.
func DefaultStyles() *Styles {
	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lipgloss.NewStyle().Bold(true).Underline(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Path:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1: plain, Header2: plain, Bold: plain, Muted: plain, Path: plain,
		Success: plain, Error: plain, Warning: plain, Info: plain,
	}
}

// Severity returns the style for a finding severity.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}
