// Package usage enforces the daily generation quota, the interstitial cadence
// and the rewarded-ad flow. All rules live here so the terminal client only
// renders what the governor reports.
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/whbprompts/server/internal/gateway"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/store"
)

type Option func(*Governor)

// overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(g *Governor) {
		g.now = now
	}
}

// sets the location used to decide the calendar date
func WithLocation(loc *time.Location) Option {
	return func(g *Governor) {
		g.loc = loc
	}
}

func WithLimits(l Limits) Option {
	return func(g *Governor) {
		g.limits = l
	}
}

func WithPrivileged(privileged bool) Option {
	return func(g *Governor) {
		g.privileged = privileged
	}
}

type Governor struct {
	store  store.Store
	gw     gateway.Gateway
	now    func() time.Time
	loc    *time.Location
	limits Limits

	mu                sync.Mutex
	state             State
	epoch             uint64
	privileged        bool
	remaining         int
	lastReset         string
	sinceInterstitial int
	rewardCountdown   int
	rewardUnlocked    bool
	interstitialStart time.Time
}

// loads the usage record and applies the daily reset. when the reset cannot
// be saved a usable governor is returned together with a *PersistenceError.
func New(ctx context.Context, s store.Store, gw gateway.Gateway, opts ...Option) (*Governor, error) {
	g := &Governor{
		store:  s,
		gw:     gw,
		now:    time.Now,
		loc:    time.Local,
		limits: DefaultLimits(),
		state:  StateIdle,
	}

	for _, opt := range opts {
		opt(g)
	}

	var stats Stats
	err := store.GetJSON(ctx, s, store.KeyUsageStats, &stats)

	switch {
	case err == nil:
		g.remaining = stats.Count
		g.lastReset = stats.LastReset
	case errors.Is(err, store.ErrNotFound):
	default:
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("failed to load usage: %w", err)
		}

		// an undecodable record counts as absent
		logger.Warn("discarding unreadable usage record", "error", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.remaining < 0 {
		g.remaining = 0
	}

	if err := g.resetIfNewDay(ctx); err != nil {
		return g, err
	}

	return g, nil
}

// re-applies the daily reset rule, used when the dashboard is shown again
func (g *Governor) Refresh(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.resetIfNewDay(ctx)
}

// runs one generation through the gateway while enforcing the quota. on
// gateway failure nothing is consumed and the gateway error is returned.
// a *PersistenceError comes back together with a valid outcome.
func (g *Governor) Generate(ctx context.Context, image gateway.Image, opts gateway.Options) (*Outcome, error) {
	g.mu.Lock()

	if !g.privileged && g.remaining <= 0 {
		if g.state == StateIdle {
			g.enter(StateLimitBlocked)
		}
		g.mu.Unlock()

		return nil, ErrQuotaExceeded
	}

	if g.state != StateIdle {
		g.mu.Unlock()
		return nil, ErrBusy
	}

	g.enter(StateGenerating)
	g.mu.Unlock()

	prompt, err := g.gw.Generate(ctx, image, opts)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.enter(StateIdle)

	if err != nil {
		return nil, err
	}

	out := &Outcome{Prompt: prompt}

	if g.privileged {
		out.Remaining = g.remaining
		return out, nil
	}

	g.remaining--
	g.sinceInterstitial++

	if g.sinceInterstitial >= g.limits.AdInterval {
		g.sinceInterstitial = 0
		g.enter(StateAwaitingInterstitial)
		out.Interstitial = true
	} else if g.remaining == 0 {
		out.OfferReward = true
	}

	out.Remaining = g.remaining

	if err := g.persist(ctx); err != nil {
		return out, err
	}

	return out, nil
}

// starts the rewarded countdown from the limit modal (or from the dashboard
// once nothing is left)
func (g *Governor) WatchReward() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.privileged {
		return 0, ErrPrivileged
	}

	switch {
	case g.state == StateLimitBlocked:
	case g.state == StateIdle && g.remaining <= 0:
	default:
		return 0, ErrInvalidTransition
	}

	g.enter(StateAwaitingReward)

	return g.epoch, nil
}

// advances the reward countdown by one tick. ticks carrying an epoch from
// an abandoned state are ignored. reports whether another tick is due.
func (g *Governor) RewardTick(epoch uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if epoch != g.epoch || g.state != StateAwaitingReward || g.rewardUnlocked {
		return false
	}

	g.rewardCountdown--
	if g.rewardCountdown <= 0 {
		g.rewardCountdown = 0
		g.rewardUnlocked = true
		return false
	}

	return true
}

// adds the reward once the countdown has finished and returns the new
// remaining count
func (g *Governor) ClaimReward(ctx context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAwaitingReward {
		return g.remaining, ErrInvalidTransition
	}

	if !g.rewardUnlocked {
		return g.remaining, ErrRewardLocked
	}

	g.remaining += g.limits.RewardAmount
	g.enter(StateIdle)

	if err := g.persist(ctx); err != nil {
		return g.remaining, err
	}

	return g.remaining, nil
}

// percentage of the interstitial shown so far, 0 outside that state
func (g *Governor) InterstitialProgress() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.interstitialProgress()
}

func (g *Governor) DismissInterstitial() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAwaitingInterstitial {
		return ErrInvalidTransition
	}

	if g.interstitialProgress() < 100 {
		return ErrAdNotFinished
	}

	g.enter(StateIdle)

	return nil
}

// closes the limit modal without watching a reward
func (g *Governor) DismissLimit() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateLimitBlocked {
		return ErrInvalidTransition
	}

	g.enter(StateIdle)

	return nil
}

// abandons a timed state; pending ticks become stale and the timers restart
// from zero next time
func (g *Governor) Leave() {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateAwaitingInterstitial:
		g.enter(StateIdle)
	case StateAwaitingReward:
		if !g.privileged && g.remaining <= 0 {
			g.enter(StateLimitBlocked)
		} else {
			g.enter(StateIdle)
		}
	}
}

// switches the unlimited plan on or off and resets the session state. an
// in-flight generation keeps running and settles normally.
func (g *Governor) SetPrivileged(privileged bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.privileged = privileged
	g.sinceInterstitial = 0

	if g.state != StateGenerating {
		g.enter(StateIdle)
	}
}

func (g *Governor) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Status{
		State:                g.state,
		Remaining:            g.remaining,
		Limit:                g.limits.Daily,
		Privileged:           g.privileged,
		SinceInterstitial:    g.sinceInterstitial,
		RewardCountdown:      g.rewardCountdown,
		RewardUnlocked:       g.rewardUnlocked,
		InterstitialProgress: g.interstitialProgress(),
		Epoch:                g.epoch,
		LastReset:            g.lastReset,
	}
}

// moves to a new state and bumps the epoch so ticks scheduled for the
// previous one are ignored. callers hold mu.
func (g *Governor) enter(s State) {
	g.state = s
	g.epoch++
	g.rewardCountdown = 0
	g.rewardUnlocked = false
	g.interstitialStart = time.Time{}

	switch s {
	case StateAwaitingReward:
		g.rewardCountdown = g.limits.RewardTicks
		g.rewardUnlocked = g.limits.RewardTicks <= 0
	case StateAwaitingInterstitial:
		g.interstitialStart = g.now()
	}
}

// callers hold mu
func (g *Governor) interstitialProgress() float64 {
	if g.state != StateAwaitingInterstitial {
		return 0
	}

	if g.limits.InterstitialDuration <= 0 {
		return 100
	}

	elapsed := g.now().Sub(g.interstitialStart)
	progress := float64(elapsed) / float64(g.limits.InterstitialDuration) * 100

	return min(max(progress, 0), 100)
}

// callers hold mu
func (g *Governor) resetIfNewDay(ctx context.Context) error {
	today := g.now().In(g.loc).Format(dateLayout)
	if g.lastReset == today {
		return nil
	}

	g.remaining = g.limits.Daily
	g.lastReset = today

	logger.Debug("daily usage reset",
		"date", today,
		"limit", g.limits.Daily,
	)

	return g.persist(ctx)
}

// callers hold mu
func (g *Governor) persist(ctx context.Context) error {
	stats := Stats{Count: g.remaining, LastReset: g.lastReset}

	if err := store.PutJSON(ctx, g.store, store.KeyUsageStats, stats); err != nil {
		return &PersistenceError{Err: err}
	}

	return nil
}
