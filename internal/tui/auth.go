package tui

import (
	"strings"

	"codeberg.org/whbprompts/server/internal/account"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// sign-in screen; credentials are never checked
type AuthModel struct {
	inputs  []textinput.Model
	focused int
}

func NewAuthModel() *AuthModel {
	inputs := make([]textinput.Model, fieldCount)

	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 120
		ti.Width = 40
		ti.Prompt = "> "
		ti.PromptStyle = lipgloss.NewStyle().Foreground(colors.muted)
		ti.TextStyle = lipgloss.NewStyle().Foreground(colors.text)
		inputs[i] = ti
	}

	inputs[fieldName].Placeholder = "name (optional)"
	inputs[fieldEmail].Placeholder = "email"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	inputs[fieldName].Focus()

	return &AuthModel{inputs: inputs}
}

func (m *AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *AuthModel) Update(msg tea.Msg) (*AuthModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+g":
			return m, loggedIn(account.Guest())

		case "up", "shift+tab":
			m.focus(m.focused - 1)
			return m, nil

		case "down":
			m.focus(m.focused + 1)
			return m, nil

		case "enter":
			if m.focused < fieldPassword {
				m.focus(m.focused + 1)
				return m, nil
			}

			user := account.Login(
				m.inputs[fieldEmail].Value(),
				m.inputs[fieldPassword].Value(),
				m.inputs[fieldName].Value(),
			)

			m.reset()

			return m, loggedIn(user)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)

	return m, cmd
}

func (m *AuthModel) focus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = (i + fieldCount) % fieldCount
	m.inputs[m.focused].Focus()
}

func (m *AuthModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.focus(fieldName)
}

func (m *AuthModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Foreground(colors.accent).Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("turn reference images into art prompts"))
	b.WriteString("\n\n")

	labels := []string{"name", "email", "password"}
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("enter: next / sign in • ctrl+g: continue as guest • ctrl+c: quit"))

	return b.String()
}

func loggedIn(user account.User) tea.Cmd {
	return func() tea.Msg {
		return LoggedInMsg{User: user}
	}
}
