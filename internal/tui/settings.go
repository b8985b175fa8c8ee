package tui

import (
	"fmt"
	"strings"

	"codeberg.org/whbprompts/server/internal/account"
	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

// profile, plan and client preferences
type SettingsModel struct {
	deps   *Deps
	user   account.User
	toggle account.ProToggle
}

func NewSettingsModel(deps *Deps) *SettingsModel {
	return &SettingsModel{deps: deps}
}

func (m *SettingsModel) SetUser(u account.User) {
	m.user = u
}

// the avatar tap count only survives while the view is open
func (m *SettingsModel) Leave() {
	m.toggle.Reset()
}

func (m *SettingsModel) Update(msg tea.Msg) (*SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	settings := &m.deps.Config.Settings

	switch key.String() {
	case "a":
		return m, m.tapAvatar()

	case "1":
		settings.DarkMode = !settings.DarkMode
		applyTheme(settings.DarkMode)
		return m, m.save()

	case "2":
		if settings.DefaultFormat == config.FormatStableDiffusion {
			settings.DefaultFormat = config.FormatMidjourney
		} else {
			settings.DefaultFormat = config.FormatStableDiffusion
		}
		return m, m.save()

	case "3":
		settings.AutoCopy = !settings.AutoCopy
		return m, m.save()

	case "L":
		return m, logout(m.deps)
	}

	return m, nil
}

func (m *SettingsModel) tapAvatar() tea.Cmd {
	if !m.toggle.Tap(&m.user) {
		return nil
	}

	m.deps.Governor.SetPrivileged(m.user.IsPro)

	logger.Info("plan toggled", "user_id", m.user.ID, "pro", m.user.IsPro)

	user := m.user
	cmds := []tea.Cmd{
		func() tea.Msg { return UserUpdatedMsg{User: user} },
		toast("Plan: " + user.Plan()),
	}

	if err := m.deps.Sessions.Save(contextBackground(), user); err != nil {
		cmds = append(cmds, showError(err))
	}

	return tea.Batch(cmds...)
}

func (m *SettingsModel) save() tea.Cmd {
	if m.deps.ConfigPath == "" {
		return nil
	}

	if err := config.SaveClient(m.deps.Config, m.deps.ConfigPath); err != nil {
		return showError(err)
	}

	return nil
}

func logout(deps *Deps) tea.Cmd {
	return func() tea.Msg {
		if err := deps.Sessions.Logout(contextBackground()); err != nil {
			return ErrorMsg{err: err}
		}

		return LoggedOutMsg{}
	}
}

func (m *SettingsModel) View() string {
	var b strings.Builder
	settings := m.deps.Config.Settings

	b.WriteString(labelStyle.Render("profile"))
	b.WriteString("\n")

	avatar := "[◉]"
	if taps := m.toggle.Taps(); taps > 0 {
		avatar = fmt.Sprintf("[%d]", taps)
	}

	fmt.Fprintf(&b, "  %s %s\n", selectedStyle.Render(avatar), valueStyle.Render(m.user.Name))
	fmt.Fprintf(&b, "      %s\n", infoStyle.Render(m.user.Email))

	plan := valueStyle.Render(m.user.Plan())
	if m.user.IsPro {
		plan = proStyle.Render(m.user.Plan())
	}
	fmt.Fprintf(&b, "  %s %s\n\n", labelStyle.Render("plan"), plan)

	b.WriteString(labelStyle.Render("preferences"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s dark mode\n", labelStyle.Render("1"), checkbox(settings.DarkMode))
	fmt.Fprintf(&b, "  %s %s default format\n", labelStyle.Render("2"), valueStyle.Render(settings.DefaultFormat))
	fmt.Fprintf(&b, "  %s %s auto-copy prompts\n\n", labelStyle.Render("3"), checkbox(settings.AutoCopy))

	b.WriteString(labelStyle.Render("relay"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n\n", infoStyle.Render(m.deps.Config.API.Endpoint))

	b.WriteString(helpStyle.Render("1-3: change • L: log out • tab: next view"))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return optionOnStyle.Render("[x]")
	}
	return optionOffStyle.Render("[ ]")
}
