package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y/enter", "update")),
	No:  key.NewBinding(key.WithKeys("n", "N", "esc", "ctrl+c"), key.WithHelp("n/esc", "leave unchanged")),
}

func (k confirmKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Yes, k.No} }
func (k confirmKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// confirmModel asks a single yes/no question.
type confirmModel struct {
	prompt   string
	help     help.Model
	styles   styles
	answered bool
	accepted bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{prompt: prompt, help: help.New(), styles: newStyles()}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, confirmKeys.Yes):
		m.answered, m.accepted = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.No):
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return fmt.Sprintf("%s %s\n%s\n",
		m.styles.warn.Render(m.prompt),
		m.styles.muted.Render("[Y/n]"),
		m.help.View(confirmKeys))
}

// teaConfirmer runs confirmModel on the terminal. The prompt is drawn on
// stderr so report output on stdout stays clean.
type teaConfirmer struct{}

func (teaConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(prompt), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	return ok && m.accepted, nil
}
