package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/gateway"
	"codeberg.org/whbprompts/server/internal/usage"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const interstitialFrame = 50 * time.Millisecond

type dashboardMode int

const (
	modeInput dashboardMode = iota
	modeCommand
	modeRefine
)

// one toggle row of the configuration panel
type optionToggle struct {
	key   string
	label string
	get   func(gateway.Options) bool
	flip  func(*gateway.Options)
}

var optionToggles = []optionToggle{
	{"1", "midjourney format",
		func(o gateway.Options) bool { return o.MidjourneyFormat },
		func(o *gateway.Options) { o.MidjourneyFormat = !o.MidjourneyFormat }},
	{"2", "stable diffusion format",
		func(o gateway.Options) bool { return o.StableDiffusionFormat },
		func(o *gateway.Options) { o.StableDiffusionFormat = !o.StableDiffusionFormat }},
	{"3", "negative prompt",
		func(o gateway.Options) bool { return o.NegativePrompt },
		func(o *gateway.Options) { o.NegativePrompt = !o.NegativePrompt }},
	{"4", "style tags",
		func(o gateway.Options) bool { return o.StyleTags },
		func(o *gateway.Options) { o.StyleTags = !o.StyleTags }},
	{"5", "color palette",
		func(o gateway.Options) bool { return o.ColorPalette },
		func(o *gateway.Options) { o.ColorPalette = !o.ColorPalette }},
	{"6", "lighting breakdown",
		func(o gateway.Options) bool { return o.LightingBreakdown },
		func(o *gateway.Options) { o.LightingBreakdown = !o.LightingBreakdown }},
}

// image upload, prompt options and the generated result
type DashboardModel struct {
	deps        *Deps
	pathInput   textinput.Model
	refineInput textinput.Model
	spinner     spinner.Model
	progress    progress.Model
	mode        dashboardMode
	options     gateway.Options
	generating  bool
	refining    bool
	prompt      string
	entryID     string
	offerReward bool
	err         error
	width       int
}

func NewDashboardModel(deps *Deps) *DashboardModel {
	path := textinput.New()
	path.Placeholder = "path to a reference image (png, jpg, webp)"
	path.CharLimit = 0
	path.Width = 60
	path.Prompt = "image > "
	path.PromptStyle = lipgloss.NewStyle().Foreground(colors.muted)
	path.TextStyle = lipgloss.NewStyle().Foreground(colors.text)
	path.Focus()

	refine := textinput.New()
	refine.Placeholder = "e.g. make it a rainy night scene"
	refine.CharLimit = 300
	refine.Width = 60
	refine.Prompt = "refine > "

	return &DashboardModel{
		deps:        deps,
		pathInput:   path,
		refineInput: refine,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		options:     defaultOptions(deps.Config.Settings.DefaultFormat),
	}
}

// returns the option set for the configured default target model
func defaultOptions(format string) gateway.Options {
	opts := gateway.DefaultOptions()

	if format == config.FormatStableDiffusion {
		opts.MidjourneyFormat = false
		opts.StableDiffusionFormat = true
	}

	return opts
}

// called whenever the dashboard is shown
func (m *DashboardModel) Enter() tea.Cmd {
	if err := m.deps.Governor.Refresh(contextBackground()); err != nil {
		m.err = err
	}

	var cmds []tea.Cmd

	if status := m.deps.Governor.Status(); status.State == usage.StateAwaitingInterstitial {
		cmds = append(cmds, interstitialTick(status.Epoch))
	}

	if m.mode == modeInput {
		cmds = append(cmds, m.pathInput.Focus())
	}

	return tea.Batch(cmds...)
}

// called when another view takes over; abandons timed modals
func (m *DashboardModel) Leave() {
	m.deps.Governor.Leave()
	m.offerReward = false
}

func (m *DashboardModel) Update(msg tea.Msg) (*DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.pathInput.Width = max(20, msg.Width-20)
		m.refineInput.Width = max(20, msg.Width-20)
		return m, nil

	case GeneratedMsg:
		return m, m.handleGenerated(msg)

	case RefinedMsg:
		m.refining = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.prompt = msg.prompt
		return m, toast("Prompt Refined")

	case interstitialTickMsg:
		status := m.deps.Governor.Status()
		if status.Epoch != msg.epoch || status.State != usage.StateAwaitingInterstitial {
			return m, nil
		}

		if status.InterstitialProgress < 100 {
			return m, interstitialTick(msg.epoch)
		}

		return m, nil

	case rewardTickMsg:
		if m.deps.Governor.RewardTick(msg.epoch) {
			return m, rewardTick(msg.epoch)
		}

		return m, nil

	case spinner.TickMsg:
		if !m.generating && !m.refining {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m *DashboardModel) handleGenerated(msg GeneratedMsg) tea.Cmd {
	m.generating = false

	if msg.err != nil {
		if !errors.Is(msg.err, usage.ErrQuotaExceeded) {
			m.err = msg.err
		}
		return nil
	}

	m.err = nil
	m.prompt = msg.outcome.Prompt
	m.entryID = msg.entry.ID

	var cmds []tea.Cmd

	if msg.warning != nil {
		cmds = append(cmds, toast("Warning: "+msg.warning.Error()))
	} else if msg.copied {
		cmds = append(cmds, toast("Sequence Copied"))
	}

	if msg.outcome.Interstitial {
		cmds = append(cmds, interstitialTick(m.deps.Governor.Status().Epoch))
	} else if msg.outcome.OfferReward {
		m.offerReward = true
	}

	return tea.Batch(cmds...)
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) (*DashboardModel, tea.Cmd) {
	gov := m.deps.Governor
	status := gov.Status()
	key := msg.String()

	// modal states take every key
	switch status.State {
	case usage.StateGenerating:
		return m, nil

	case usage.StateAwaitingInterstitial:
		if key == "enter" || key == "esc" {
			if err := gov.DismissInterstitial(); err == nil {
				return m, m.focusMode()
			}
		}
		return m, nil

	case usage.StateAwaitingReward:
		switch key {
		case "enter":
			remaining, err := gov.ClaimReward(contextBackground())
			var persistErr *usage.PersistenceError
			switch {
			case errors.As(err, &persistErr):
				return m, toast("Units Loaded (not saved)")
			case err == nil:
				return m, toast(fmt.Sprintf("Units Loaded • %d left", remaining))
			}
		case "esc":
			gov.Leave()
		}
		return m, nil

	case usage.StateLimitBlocked:
		return m.handleLimitKey(key)
	}

	if m.offerReward {
		return m.handleLimitKey(key)
	}

	if m.generating || m.refining {
		return m, nil
	}

	switch m.mode {
	case modeInput:
		switch key {
		case "enter":
			return m, m.generate()
		case "esc":
			m.mode = modeCommand
			m.pathInput.Blur()
			return m, nil
		}

	case modeRefine:
		switch key {
		case "enter":
			return m, m.refine()
		case "esc":
			m.mode = modeCommand
			m.refineInput.Blur()
			return m, nil
		}

	case modeCommand:
		return m, m.handleCommand(key)
	}

	return m.updateInputs(msg)
}

func (m *DashboardModel) handleLimitKey(key string) (*DashboardModel, tea.Cmd) {
	gov := m.deps.Governor

	switch key {
	case "w":
		epoch, err := gov.WatchReward()
		if err != nil {
			m.err = err
			return m, nil
		}

		m.offerReward = false
		return m, rewardTick(epoch)

	case "esc":
		m.offerReward = false
		_ = gov.DismissLimit()
	}

	return m, nil
}

func (m *DashboardModel) handleCommand(key string) tea.Cmd {
	for _, t := range optionToggles {
		if key == t.key {
			t.flip(&m.options)
			return nil
		}
	}

	switch key {
	case "g", "enter":
		return m.generate()

	case "i":
		m.mode = modeInput
		return m.pathInput.Focus()

	case "c":
		return copyPrompt(m.deps, m.prompt)

	case "e":
		return exportPrompt(m.deps, m.entryID, m.prompt)

	case "r":
		if m.prompt == "" || m.deps.Refiner == nil {
			return nil
		}

		m.mode = modeRefine
		m.refineInput.SetValue("")
		return m.refineInput.Focus()

	case "n":
		m.reset()
		return m.pathInput.Focus()

	case "w":
		if m.deps.Governor.Status().LimitReached() {
			_, cmd := m.handleLimitKey("w")
			return cmd
		}
	}

	return nil
}

func (m *DashboardModel) generate() tea.Cmd {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.err = errors.New("choose an image first")
		return nil
	}

	image, err := gateway.ImageFromFile(expandHome(path))
	if err != nil {
		m.err = err
		return nil
	}

	m.err = nil
	m.generating = true

	return tea.Batch(m.spinner.Tick, generateCmd(m.deps, image, m.options))
}

func (m *DashboardModel) refine() tea.Cmd {
	instruction := strings.TrimSpace(m.refineInput.Value())
	if instruction == "" {
		return nil
	}

	m.mode = modeCommand
	m.refineInput.Blur()
	m.refining = true

	return tea.Batch(m.spinner.Tick, refineCmd(m.deps, m.prompt, instruction))
}

func (m *DashboardModel) reset() {
	m.pathInput.SetValue("")
	m.prompt = ""
	m.entryID = ""
	m.err = nil
	m.mode = modeInput
	m.options = defaultOptions(m.deps.Config.Settings.DefaultFormat)
}

func (m *DashboardModel) focusMode() tea.Cmd {
	if m.mode == modeInput {
		return m.pathInput.Focus()
	}
	return nil
}

func (m *DashboardModel) updateInputs(msg tea.Msg) (*DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch m.mode {
	case modeInput:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case modeRefine:
		m.refineInput, cmd = m.refineInput.Update(msg)
	}

	return m, cmd
}

// true while a modal covers the dashboard
func (m *DashboardModel) Modal() bool {
	switch m.deps.Governor.Status().State {
	case usage.StateAwaitingInterstitial, usage.StateAwaitingReward, usage.StateLimitBlocked:
		return true
	}

	return m.offerReward
}

func (m *DashboardModel) View() string {
	status := m.deps.Governor.Status()

	switch {
	case status.State == usage.StateAwaitingInterstitial:
		return m.interstitialView(status)
	case status.State == usage.StateAwaitingReward:
		return m.rewardView(status)
	case status.State == usage.StateLimitBlocked, m.offerReward:
		return m.limitView(status)
	}

	var b strings.Builder

	b.WriteString(m.usageLine(status))
	b.WriteString("\n\n")

	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("configuration"))
	b.WriteString("\n")
	for _, t := range optionToggles {
		mark := optionOffStyle.Render("[ ]")
		if t.get(m.options) {
			mark = optionOnStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "  %s %s %s\n", labelStyle.Render(t.key), mark, t.label)
	}
	b.WriteString("\n")

	switch {
	case m.generating:
		b.WriteString(infoStyle.Render(m.spinner.View() + " analysing image..."))
		b.WriteString("\n")
	case m.refining:
		b.WriteString(infoStyle.Render(m.spinner.View() + " refining prompt..."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.prompt != "" {
		width := max(40, m.width-4)
		b.WriteString(boxStyle.Width(width).Render(m.prompt))
		b.WriteString("\n")
	}

	if m.mode == modeRefine {
		b.WriteString(m.refineInput.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help()))

	return b.String()
}

func (m *DashboardModel) usageLine(status usage.Status) string {
	if status.Privileged {
		return proStyle.Render("∞ INFINITE SYNTHESIS")
	}

	line := fmt.Sprintf("%s %s",
		labelStyle.Render("daily units"),
		valueStyle.Render(fmt.Sprintf("%d/%d", status.Remaining, status.Limit)),
	)

	if status.LimitReached() {
		line += "  " + errorStyle.Render("limit reached • w: watch ad for +5")
	}

	return line
}

func (m *DashboardModel) help() string {
	switch m.mode {
	case modeInput:
		return "enter: generate • esc: commands • tab: next view • ctrl+c: quit"
	case modeRefine:
		return "enter: refine • esc: cancel"
	default:
		return "g: generate • 1-6: options • i: image path • c: copy • e: export • r: refine • n: new • tab: next view"
	}
}

func (m *DashboardModel) interstitialView(status usage.Status) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("SPONSORED TRANSMISSION"))
	b.WriteString("\n\n")
	b.WriteString(valueStyle.Render("Upgrade your neural core"))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("unlimited synthesis, no interruptions"))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(status.InterstitialProgress / 100))
	b.WriteString("\n\n")

	if status.InterstitialProgress >= 100 {
		b.WriteString(helpStyle.Render("enter: continue"))
	} else {
		b.WriteString(helpStyle.Render("please wait..."))
	}

	return modalStyle.Render(b.String())
}

func (m *DashboardModel) limitView(status usage.Status) string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("DAILY LIMIT REACHED"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "all %d free generations for today are used.\n", status.Limit)
	fmt.Fprintf(&b, "watch a short transmission to load +%d units.\n\n", usage.RewardAmount)
	b.WriteString(helpStyle.Render("w: watch ad • esc: close"))

	return modalStyle.BorderForeground(colors.danger).Render(b.String())
}

func (m *DashboardModel) rewardView(status usage.Status) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("REWARDED TRANSMISSION"))
	b.WriteString("\n\n")

	if status.RewardUnlocked {
		b.WriteString(optionOnStyle.Render("reward unlocked"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("enter: claim +%d units • esc: leave", usage.RewardAmount)))
	} else {
		b.WriteString(valueStyle.Render(fmt.Sprintf("reward in %ds", status.RewardCountdown)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc: leave without reward"))
	}

	return modalStyle.Render(b.String())
}

func interstitialTick(epoch uint64) tea.Cmd {
	return tea.Tick(interstitialFrame, func(time.Time) tea.Msg {
		return interstitialTickMsg{epoch: epoch}
	})
}

func rewardTick(epoch uint64) tea.Cmd {
	return tea.Tick(usage.RewardTickInterval, func(time.Time) tea.Msg {
		return rewardTickMsg{epoch: epoch}
	})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return path
}
