package dashboard

import (
	"errors"
	"io"

	"github.com/bnema/bizweb-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	dashboard application.Dashboard
	opts      RenderOptions
	styles    styles
	output    string
}

func newModel(dashboard application.Dashboard, opts RenderOptions) model {
	return model{
		dashboard: dashboard,
		opts:      opts,
		styles:    newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.dashboard, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render lays the dashboard out once and returns the frame as a string.
func Render(dashboard application.Dashboard, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(dashboard, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
