package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/whbprompts/server/internal/account"
	"codeberg.org/whbprompts/server/internal/logger"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var tabs = []AppState{StateDashboard, StateHistory, StateSettings}

// builds the root model; a saved session skips the sign-in screen
func NewApp(ctx context.Context, deps Deps) *Model {
	applyTheme(deps.Config.Settings.DarkMode)

	m := &Model{
		deps:  deps,
		state: StateAuth,
	}

	m.auth = NewAuthModel()
	m.dashboard = NewDashboardModel(&m.deps)
	m.history = NewHistoryModel(&m.deps)
	m.settings = NewSettingsModel(&m.deps)

	user, err := deps.Sessions.Load(ctx)
	switch {
	case err == nil:
		m.setUser(user)
		m.state = StateDashboard
	case !errors.Is(err, account.ErrNoSession):
		logger.Warn("failed to restore session", "error", err)
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	if m.state == StateAuth {
		return m.auth.Init()
	}

	return m.dashboard.Enter()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		m.err = nil

		if m.state != StateAuth && !(m.state == StateDashboard && m.dashboard.Modal()) {
			switch msg.String() {
			case "tab":
				return m, m.navigate(m.nextTab(1))
			case "shift+tab":
				return m, m.navigate(m.nextTab(-1))
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard, _ = m.dashboard.Update(msg)
		m.history, _ = m.history.Update(msg)
		return m, nil

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case ToastMsg:
		m.toastID++
		m.toast = msg.text
		return m, clearToast(m.toastID)

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case LoggedInMsg:
		m.setUser(msg.User)
		if err := m.deps.Sessions.Save(contextBackground(), msg.User); err != nil {
			m.err = err
		}
		logger.Info("signed in", "user_id", msg.User.ID)
		return m, m.navigate(StateDashboard)

	case LoggedOutMsg:
		m.leave()
		m.user = nil
		m.deps.Governor.SetPrivileged(false)
		m.dashboard.reset()
		m.state = StateAuth
		return m, m.auth.Init()

	case UserUpdatedMsg:
		user := msg.User
		m.user = &user
		return m, nil

	case NavigateMsg:
		return m, m.navigate(msg.To)

	case GeneratedMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)

		if msg.err == nil {
			m.history.Reload()
		}

		// modals only open over the dashboard; elsewhere they are abandoned
		if m.state != StateDashboard {
			m.dashboard.Leave()
		}

		return m, cmd

	// async results always belong to the dashboard, whichever view is shown
	case RefinedMsg, interstitialTickMsg, rewardTickMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd

	switch m.state {
	case StateAuth:
		m.auth, cmd = m.auth.Update(msg)
	case StateDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case StateHistory:
		m.history, cmd = m.history.Update(msg)
	case StateSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

func (m *Model) setUser(user account.User) {
	m.user = &user
	m.settings.SetUser(user)
	m.deps.Governor.SetPrivileged(user.IsPro)
}

func (m *Model) nextTab(step int) AppState {
	for i, t := range tabs {
		if t == m.state {
			return tabs[(i+step+len(tabs))%len(tabs)]
		}
	}

	return StateDashboard
}

func (m *Model) navigate(to AppState) tea.Cmd {
	if to == m.state {
		return nil
	}

	m.leave()
	m.state = to

	switch to {
	case StateDashboard:
		return m.dashboard.Enter()
	case StateHistory:
		return m.history.Enter()
	}

	return nil
}

// runs the exit hook of the current view
func (m *Model) leave() {
	switch m.state {
	case StateDashboard:
		m.dashboard.Leave()
	case StateSettings:
		m.settings.Leave()
	}
}

func (m *Model) View() string {
	if m.state == StateAuth {
		return m.frame(m.auth.View())
	}

	var body string

	switch m.state {
	case StateDashboard:
		body = m.dashboard.View()
	case StateHistory:
		body = m.history.View()
	case StateSettings:
		body = m.settings.View()
	default:
		body = "Unknown state"
	}

	return m.frame(m.header() + "\n\n" + body)
}

func (m *Model) header() string {
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := tabStyle
		if t == m.state {
			style = tabActiveStyle
		}
		rendered = append(rendered, style.Render(strings.ToUpper(t.String())))
	}

	title := titleStyle.MarginBottom(0).Render("WHB PROMPTS")

	who := ""
	if m.user != nil {
		who = infoStyle.Render(m.user.Name)
		if m.user.IsPro {
			who += " " + proStyle.Render("PRO")
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		title, "  ", lipgloss.JoinHorizontal(lipgloss.Top, rendered...), "  ", who)
}

// wraps a view with the error banner and toast
func (m *Model) frame(content string) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Padding(1, 2).Render(content))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}

	if m.toast != "" {
		b.WriteString("\n  ")
		b.WriteString(toastStyle.Render(m.toast))
	}

	return b.String()
}
