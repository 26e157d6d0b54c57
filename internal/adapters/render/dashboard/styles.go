package dashboard

import (
	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	name       lipgloss.Style
	badge      lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	heading    lipgloss.Style
	empty      lipgloss.Style
	key        lipgloss.Style
	meta       lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	statuses   map[domain.TransactionStatus]lipgloss.Style
	usage      map[string]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		badge:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		heading:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		empty:      lipgloss.NewStyle().Faint(true),
		key:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		statuses: map[domain.TransactionStatus]lipgloss.Style{
			domain.TransactionSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			domain.TransactionFailure: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			domain.TransactionPending: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			domain.TransactionUnknown: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		usage: map[string]lipgloss.Style{
			"logo":   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			"chat":   lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
			"bizweb": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			"extra1": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			"extra2": lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
			"extra3": lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
			"extra4": lipgloss.NewStyle().Foreground(lipgloss.Color("186")),
			"empty":  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		},
	}
}

func (s styles) usageStyle(colorKey string) lipgloss.Style {
	if style, ok := s.usage[colorKey]; ok {
		return style
	}
	return s.detail
}

func (s styles) statusStyle(kind domain.TransactionStatus) lipgloss.Style {
	if style, ok := s.statuses[kind]; ok {
		return style
	}
	return s.meta
}
