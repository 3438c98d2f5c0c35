// Package prompt asks the commander for their EDSM profile in the terminal.
package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/greeddj/go-hge/internal/hge/helpers"
)

const (
	fieldCommander = iota
	fieldAPIKey
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// model asks one question at a time.
type model struct {
	labels []string
	inputs []textinput.Model
	idx    int
	done   bool
}

func newModel(current *config.Profile) model {
	commander := textinput.New()
	commander.Placeholder = "CMDR name"
	commander.CharLimit = 64

	apiKey := textinput.New()
	apiKey.Placeholder = "EDSM API key"
	apiKey.CharLimit = 128
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '*'

	if current != nil {
		commander.SetValue(current.Commander)
		apiKey.SetValue(current.APIKey)
	}

	m := model{
		labels: []string{"Commander", "API key"},
		inputs: []textinput.Model{commander, apiKey},
	}
	m.inputs[fieldCommander].Focus()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if strings.TrimSpace(m.inputs[m.idx].Value()) == "" {
				return m, nil
			}
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s: %s\n%s\n",
		labelStyle.Render(m.labels[m.idx]),
		m.inputs[m.idx].View(),
		hintStyle.Render("enter to confirm, esc to cancel"),
	)
}

func (m model) profile() *config.Profile {
	return &config.Profile{
		Commander: strings.TrimSpace(m.inputs[fieldCommander].Value()),
		APIKey:    strings.TrimSpace(m.inputs[fieldAPIKey].Value()),
	}
}

// Profile runs the prompt on in/out, prefilled from current when set.
// It returns helpers.ErrPromptCancelled if the user quits before the
// last answer.
func Profile(in io.Reader, out io.Writer, current *config.Profile) (*config.Profile, error) {
	p := tea.NewProgram(newModel(current), tea.WithInput(in), tea.WithOutput(out))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(model)
	if !ok || !final.done {
		return nil, helpers.ErrPromptCancelled
	}
	profile := final.profile()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}
