package tui

import (
	"codeberg.org/whbprompts/server/internal/account"
	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/history"
	"codeberg.org/whbprompts/server/internal/llm"
	"codeberg.org/whbprompts/server/internal/usage"
)

// represents the current view of the TUI
type AppState int

const (
	StateAuth AppState = iota
	StateDashboard
	StateHistory
	StateSettings
)

func (s AppState) String() string {
	switch s {
	case StateAuth:
		return "auth"
	case StateDashboard:
		return "dashboard"
	case StateHistory:
		return "history"
	case StateSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// everything the views need, built by cmd/tui
type Deps struct {
	Governor   *usage.Governor
	Ledger     *history.Ledger
	Sessions   *account.Sessions
	Clipboard  history.Clipboard
	Refiner    llm.Refiner
	Config     config.ClientConfig
	ConfigPath string
}

// main TUI application model
type Model struct {
	deps      Deps
	state     AppState
	user      *account.User
	width     int
	height    int
	err       error
	toast     string
	toastID   int
	auth      *AuthModel
	dashboard *DashboardModel
	history   *HistoryModel
	settings  *SettingsModel
}

// sent when an error should be shown in the banner
type ErrorMsg struct {
	err error
}

// sent to flash a short notice
type ToastMsg struct {
	text string
}

type clearToastMsg struct {
	id int
}

// sent when sign-in (or guest access) completes
type LoggedInMsg struct {
	User account.User
}

type LoggedOutMsg struct{}

// sent when the signed-in user changed (plan toggle)
type UserUpdatedMsg struct {
	User account.User
}

// asks the root model to switch view
type NavigateMsg struct {
	To AppState
}

// sent when a generation finished (successfully or not)
type GeneratedMsg struct {
	outcome *usage.Outcome
	entry   history.Entry
	copied  bool
	err     error
	warning error
}

type RefinedMsg struct {
	prompt string
	err    error
}

type interstitialTickMsg struct {
	epoch uint64
}

type rewardTickMsg struct {
	epoch uint64
}
