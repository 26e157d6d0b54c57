package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Terminal prints notifications as single styled lines.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[ports.NotificationLevel]lipgloss.Style
	icons  map[ports.NotificationLevel]string
}

var _ ports.Notifier = (*Terminal)(nil)

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = io.Discard
	}

	return &Terminal{
		out: out,
		styles: map[ports.NotificationLevel]lipgloss.Style{
			ports.NotificationInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			ports.NotificationSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			ports.NotificationError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		},
		icons: map[ports.NotificationLevel]string{
			ports.NotificationInfo:    "i",
			ports.NotificationSuccess: "✓",
			ports.NotificationError:   "✗",
		},
	}
}

// SetOutput redirects later notifications.
func (t *Terminal) SetOutput(out io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out = out
}

func (t *Terminal) Notify(n ports.Notification) {
	if n.Message == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	style, ok := t.styles[n.Level]
	if !ok {
		style = t.styles[ports.NotificationInfo]
	}
	icon, ok := t.icons[n.Level]
	if !ok {
		icon = t.icons[ports.NotificationInfo]
	}

	_, _ = fmt.Fprintln(t.out, style.Render(icon+" "+n.Message))
}
