package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"codeberg.org/whbprompts/server/internal/account"
	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/gateway"
	"codeberg.org/whbprompts/server/internal/history"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/store"
	"codeberg.org/whbprompts/server/internal/usage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrompt = "a lighthouse in a storm, oil painting"

// records the last copied text
type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func (c *fakeClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

type fakeRefiner struct{}

func (fakeRefiner) Refine(_ context.Context, prompt, instruction string) (string, error) {
	return prompt + ", " + instruction, nil
}

func testDeps(t *testing.T, limits usage.Limits) (*Deps, store.Store, *fakeClipboard) {
	t.Helper()

	gw := gateway.Func(func(context.Context, gateway.Image, gateway.Options) (string, error) {
		return testPrompt, nil
	})

	return testDepsWithGateway(t, limits, gw)
}

func testDepsWithGateway(t *testing.T, limits usage.Limits, gw gateway.Gateway) (*Deps, store.Store, *fakeClipboard) {
	t.Helper()
	logger.Discard()

	ctx := context.Background()
	s := store.NewMemoryStore()

	gov, err := usage.New(ctx, s, gw, usage.WithLimits(limits))
	require.NoError(t, err)

	ledger, err := history.Open(ctx, s)
	require.NoError(t, err)

	cfg := config.DefaultClientConfig()
	cfg.Export.Dir = t.TempDir()

	clip := &fakeClipboard{}

	return &Deps{
		Governor:   gov,
		Ledger:     ledger,
		Sessions:   account.NewSessions(s),
		Clipboard:  clip,
		Refiner:    fakeRefiner{},
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
	}, s, clip
}

func testImage(t *testing.T) gateway.Image {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	img, err := gateway.ImageFromFile(path)
	require.NoError(t, err)
	return img
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func generate(t *testing.T, deps *Deps) GeneratedMsg {
	t.Helper()
	msg, ok := generateCmd(deps, testImage(t), gateway.DefaultOptions())().(GeneratedMsg)
	require.True(t, ok)
	return msg
}

func TestGenerateCmd_RecordsAndCopies(t *testing.T) {
	deps, _, clip := testDeps(t, usage.DefaultLimits())

	msg := generate(t, deps)

	require.NoError(t, msg.err)
	assert.NoError(t, msg.warning)
	assert.Equal(t, testPrompt, msg.outcome.Prompt)
	assert.True(t, msg.copied)
	assert.Equal(t, testPrompt, clip.Text())

	entries := deps.Ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, msg.entry.ID, entries[0].ID)
	assert.Contains(t, entries[0].ImageURL, "data:image/png;base64,")
}

func TestGenerateCmd_AutoCopyDisabled(t *testing.T) {
	deps, _, clip := testDeps(t, usage.DefaultLimits())
	deps.Config.Settings.AutoCopy = false

	msg := generate(t, deps)

	require.NoError(t, msg.err)
	assert.False(t, msg.copied)
	assert.Empty(t, clip.Text())
}

func TestApp_GenerationFinishingOnAnotherView(t *testing.T) {
	limits := usage.DefaultLimits()
	limits.AdInterval = 1
	limits.InterstitialDuration = 0
	deps, _, _ := testDeps(t, limits)

	app := NewApp(context.Background(), *deps)
	app.Update(LoggedInMsg{User: account.Guest()})
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, StateHistory, app.state)

	app.Update(generate(t, &app.deps))

	assert.Equal(t, usage.StateIdle, app.deps.Governor.Status().State)
	assert.Len(t, app.history.entries, 1)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateSettings, app.state)

	app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StateHistory, app.state)
}

func TestApp_LeaveDashboardWhileGenerating(t *testing.T) {
	limits := usage.DefaultLimits()
	limits.AdInterval = 1

	release := make(chan struct{})
	gw := gateway.Func(func(ctx context.Context, _ gateway.Image, _ gateway.Options) (string, error) {
		select {
		case <-release:
			return testPrompt, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	deps, _, _ := testDepsWithGateway(t, limits, gw)

	app := NewApp(context.Background(), *deps)
	app.Update(LoggedInMsg{User: account.Guest()})

	done := make(chan tea.Msg, 1)
	cmd := generateCmd(&app.deps, testImage(t), gateway.DefaultOptions())
	go func() { done <- cmd() }()

	require.Eventually(t, func() bool {
		return app.deps.Governor.Status().State == usage.StateGenerating
	}, time.Second, 5*time.Millisecond)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, StateHistory, app.state)

	close(release)
	app.Update(<-done)

	status := app.deps.Governor.Status()
	assert.Equal(t, usage.StateIdle, status.State)
	assert.Equal(t, limits.Daily-1, status.Remaining)
	assert.Len(t, app.history.entries, 1)

	// the abandoned interstitial's ticks are stale
	_, tick := app.Update(interstitialTickMsg{epoch: status.Epoch - 1})
	assert.Nil(t, tick)

	app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StateDashboard, app.state)
	assert.False(t, app.dashboard.Modal())
}

func TestDashboard_EnterResumesInterstitial(t *testing.T) {
	limits := usage.DefaultLimits()
	limits.AdInterval = 1
	deps, _, _ := testDeps(t, limits)
	d := NewDashboardModel(deps)
	d.mode = modeCommand

	assert.Nil(t, d.Enter())

	_, err := deps.Governor.Generate(context.Background(), testImage(t), gateway.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, usage.StateAwaitingInterstitial, deps.Governor.Status().State)

	assert.NotNil(t, d.Enter())
}

func TestDashboard_ShowsResult(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	d := NewDashboardModel(deps)
	d, _ = d.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	d, _ = d.Update(generate(t, deps))

	assert.Equal(t, testPrompt, d.prompt)
	assert.False(t, d.generating)
	assert.Contains(t, d.View(), testPrompt)
	assert.Contains(t, d.View(), "29/30")
}

func TestDashboard_MissingImage(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	d := NewDashboardModel(deps)

	d.pathInput.SetValue(filepath.Join(t.TempDir(), "missing.png"))
	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Error(t, d.err)
	assert.False(t, d.generating)
}

func TestDashboard_InterstitialBlocksUntilDismissed(t *testing.T) {
	limits := usage.DefaultLimits()
	limits.AdInterval = 1
	limits.InterstitialDuration = 0
	deps, _, _ := testDeps(t, limits)
	d := NewDashboardModel(deps)

	d, cmd := d.Update(generate(t, deps))
	assert.NotNil(t, cmd)

	assert.True(t, d.Modal())
	assert.Contains(t, d.View(), "SPONSORED")

	d, _ = d.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, d.Modal())
	assert.Equal(t, usage.StateIdle, deps.Governor.Status().State)
}

func TestDashboard_StaleInterstitialTickIgnored(t *testing.T) {
	limits := usage.DefaultLimits()
	limits.AdInterval = 1
	deps, _, _ := testDeps(t, limits)
	d := NewDashboardModel(deps)

	d, _ = d.Update(generate(t, deps))
	epoch := deps.Governor.Status().Epoch

	d.Leave()

	_, cmd := d.Update(interstitialTickMsg{epoch: epoch})
	assert.Nil(t, cmd)
}

func TestDashboard_LimitRewardFlow(t *testing.T) {
	limits := usage.DefaultLimits()
	limits.Daily = 1
	limits.RewardTicks = 1
	deps, _, _ := testDeps(t, limits)
	d := NewDashboardModel(deps)

	d, _ = d.Update(generate(t, deps))
	assert.True(t, d.offerReward)
	assert.Contains(t, d.View(), "DAILY LIMIT REACHED")

	// offer dismissed; the next attempt is refused and blocks
	d, _ = d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, d.Modal())

	rejected := generate(t, deps)
	require.ErrorIs(t, rejected.err, usage.ErrQuotaExceeded)
	d, _ = d.Update(rejected)
	assert.NoError(t, d.err)
	assert.Equal(t, usage.StateLimitBlocked, deps.Governor.Status().State)

	d, cmd := d.Update(keyRunes("w"))
	require.NotNil(t, cmd)
	status := deps.Governor.Status()
	require.Equal(t, usage.StateAwaitingReward, status.State)

	// enter before the countdown ends does nothing
	d, _ = d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, usage.StateAwaitingReward, deps.Governor.Status().State)

	d, _ = d.Update(rewardTickMsg{epoch: status.Epoch})
	assert.True(t, deps.Governor.Status().RewardUnlocked)

	_, cmd = d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)

	status = deps.Governor.Status()
	assert.Equal(t, usage.StateIdle, status.State)
	assert.Equal(t, limits.RewardAmount, status.Remaining)
}

func TestDashboard_RefineReplacesPrompt(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	d := NewDashboardModel(deps)
	d, _ = d.Update(generate(t, deps))

	d.mode = modeCommand
	d, _ = d.Update(keyRunes("r"))
	assert.Equal(t, modeRefine, d.mode)

	msg := refineCmd(deps, d.prompt, "at night")()
	d, _ = d.Update(msg)

	assert.Equal(t, testPrompt+", at night", d.prompt)
}

func TestDashboard_OptionToggles(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	d := NewDashboardModel(deps)
	d.mode = modeCommand

	require.True(t, d.options.MidjourneyFormat)
	d, _ = d.Update(keyRunes("1"))
	assert.False(t, d.options.MidjourneyFormat)

	d, _ = d.Update(keyRunes("3"))
	assert.True(t, d.options.NegativePrompt)
}

func TestDefaultOptions_StableDiffusion(t *testing.T) {
	opts := defaultOptions(config.FormatStableDiffusion)

	assert.False(t, opts.MidjourneyFormat)
	assert.True(t, opts.StableDiffusionFormat)
}

func TestExportPrompt(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())

	msg := exportPrompt(deps, "abc", testPrompt)()

	toastMsg, ok := msg.(ToastMsg)
	require.True(t, ok)

	path := filepath.Join(deps.Config.Export.Dir, "WHB_Prompt_abc_")
	assert.Contains(t, toastMsg.text, path)
}

func TestCopyPrompt_Error(t *testing.T) {
	deps, _, clip := testDeps(t, usage.DefaultLimits())
	clip.err = errors.New("no display")

	msg := copyPrompt(deps, testPrompt)()

	_, ok := msg.(ErrorMsg)
	assert.True(t, ok)
}

func TestSettings_FiveTapsTogglePlan(t *testing.T) {
	deps, s, _ := testDeps(t, usage.DefaultLimits())
	m := NewSettingsModel(deps)
	m.SetUser(account.Login("ada@example.com", "pw", "Ada"))

	for range account.ProToggleTaps - 1 {
		_, cmd := m.Update(keyRunes("a"))
		assert.Nil(t, cmd)
	}

	_, cmd := m.Update(keyRunes("a"))
	require.NotNil(t, cmd)

	assert.True(t, m.user.IsPro)
	assert.True(t, deps.Governor.Status().Privileged)

	saved, err := account.NewSessions(s).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, saved.IsPro)
}

func TestSettings_LeavingResetsTaps(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	m := NewSettingsModel(deps)
	m.SetUser(account.Guest())

	m.Update(keyRunes("a"))
	m.Update(keyRunes("a"))
	m.Leave()

	assert.Equal(t, 0, m.toggle.Taps())
}

func TestSettings_PreferencesSaved(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	m := NewSettingsModel(deps)

	m.Update(keyRunes("2"))
	m.Update(keyRunes("3"))

	loaded, err := config.LoadClient(deps.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, config.FormatStableDiffusion, loaded.Settings.DefaultFormat)
	assert.False(t, loaded.Settings.AutoCopy)
}

func TestHistory_DeleteAndClear(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	ctx := context.Background()
	_, err := deps.Ledger.Append(ctx, history.Entry{Prompt: "first"})
	require.NoError(t, err)
	_, err = deps.Ledger.Append(ctx, history.Entry{Prompt: "second"})
	require.NoError(t, err)

	h := NewHistoryModel(deps)
	h.Enter()
	require.Len(t, h.entries, 2)
	assert.Contains(t, h.View(), "second")

	h, _ = h.Update(keyRunes("d"))
	assert.Equal(t, 1, deps.Ledger.Len())
	assert.Equal(t, "first", h.entries[0].Prompt)

	h, _ = h.Update(keyRunes("X"))
	assert.True(t, h.confirmClear)
	h, _ = h.Update(keyRunes("n"))
	assert.Equal(t, 1, deps.Ledger.Len())

	h, _ = h.Update(keyRunes("X"))
	h, _ = h.Update(keyRunes("y"))
	assert.Equal(t, 0, deps.Ledger.Len())
	assert.Empty(t, h.entries)
}

func TestHistory_Detail(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	_, err := deps.Ledger.Append(context.Background(), history.Entry{
		Prompt:   "misty forest",
		ImageURL: "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	h := NewHistoryModel(deps)
	h.Enter()

	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, h.detail)

	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.detail)
}

func TestImageSummary(t *testing.T) {
	assert.Equal(t, "none", imageSummary(""))
	assert.Equal(t, "image/png, 3 B", imageSummary("data:image/png;base64,AAAA"))
}

func TestApp_LoginNavigateLogout(t *testing.T) {
	deps, s, _ := testDeps(t, usage.DefaultLimits())
	app := NewApp(context.Background(), *deps)
	require.Equal(t, StateAuth, app.state)

	app.Update(LoggedInMsg{User: account.Guest()})
	assert.Equal(t, StateDashboard, app.state)

	_, err := account.NewSessions(s).Load(context.Background())
	require.NoError(t, err)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateHistory, app.state)

	app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StateDashboard, app.state)

	app.Update(LoggedOutMsg{})
	assert.Equal(t, StateAuth, app.state)
	assert.Nil(t, app.user)
}

func TestApp_RestoresSession(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	user := account.Login("ada@example.com", "pw", "Ada")
	user.IsPro = true
	require.NoError(t, deps.Sessions.Save(context.Background(), user))

	app := NewApp(context.Background(), *deps)

	assert.Equal(t, StateDashboard, app.state)
	assert.True(t, deps.Governor.Status().Privileged)
	assert.Contains(t, app.View(), "PRO")
}

func TestApp_ToastClears(t *testing.T) {
	deps, _, _ := testDeps(t, usage.DefaultLimits())
	app := NewApp(context.Background(), *deps)

	app.Update(ToastMsg{text: "Sequence Copied"})
	assert.Equal(t, "Sequence Copied", app.toast)

	app.Update(clearToastMsg{id: app.toastID - 1})
	assert.Equal(t, "Sequence Copied", app.toast)

	app.Update(clearToastMsg{id: app.toastID})
	assert.Empty(t, app.toast)
}
