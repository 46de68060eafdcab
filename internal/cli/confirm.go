package cli

import (
	"context"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	optionStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// confirmModel es el diálogo sí/no. Arranca en "no".
type confirmModel struct {
	prompt string
	yes    bool
	done   bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		m.yes, m.done = true, true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.yes, m.done = false, true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.yes = !m.yes
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes, no := optionStyle.Render("Yes"), selectedStyle.Render("No")
	if m.yes {
		yes, no = selectedStyle.Render("Yes"), optionStyle.Render("No")
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.prompt))
	b.WriteString("\n\n  ")
	b.WriteString(yes)
	b.WriteString("  ")
	b.WriteString(no)
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("y/n, ←/→ to choose, enter to confirm"))
	b.WriteString("\n")
	return b.String()
}

// TeaConfirmer pregunta en la terminal antes de guardar o deshabilitar.
type TeaConfirmer struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool
}

func (c *TeaConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}
	final, err := tea.NewProgram(confirmModel{prompt: prompt}, opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	return ok && m.done && m.yes, nil
}
