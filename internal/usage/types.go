package usage

import (
	"errors"
	"fmt"
	"time"
)

const (
	DailyLimit           = 30
	AdInterval           = 5
	RewardAmount         = 5
	RewardTicks          = 5
	RewardTickInterval   = time.Second
	InterstitialDuration = 3 * time.Second

	dateLayout = "2006-01-02"
)

// governor state; exactly one holds at a time
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateAwaitingInterstitial
	StateAwaitingReward
	StateLimitBlocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateAwaitingInterstitial:
		return "awaiting_interstitial"
	case StateAwaitingReward:
		return "awaiting_reward"
	case StateLimitBlocked:
		return "limit_blocked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// daily quota is used up; the gateway was not called
	ErrQuotaExceeded = errors.New("daily generation limit reached")

	// a generation is in flight or a modal state must be resolved first
	ErrBusy = errors.New("another generation is in progress")

	// the reward countdown has not finished
	ErrRewardLocked = errors.New("reward is not unlocked yet")

	// the interstitial progress has not reached 100%
	ErrAdNotFinished = errors.New("interstitial has not finished")

	// the requested action is not valid from the current state
	ErrInvalidTransition = errors.New("action not available in the current state")

	// privileged users never watch rewarded ads
	ErrPrivileged = errors.New("unlimited plan does not need rewards")
)

// persisted usage record, stored as {"count":n,"lastReset":"YYYY-MM-DD"}
type Stats struct {
	Count     int    `json:"count"`
	LastReset string `json:"lastReset"`
}

// wraps a failed write of the usage record. the in-memory change stands,
// so callers may report it as a warning.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save usage: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// result of a successful generation
type Outcome struct {
	Prompt    string
	Remaining int

	// an interstitial is now showing (every AdInterval-th generation)
	Interstitial bool

	// the last free generation was just used; offer the reward once
	OfferReward bool
}

// point-in-time view of the governor for rendering
type Status struct {
	State                State
	Remaining            int
	Limit                int
	Privileged           bool
	SinceInterstitial    int
	RewardCountdown      int
	RewardUnlocked       bool
	InterstitialProgress float64
	Epoch                uint64
	LastReset            string
}

// true when a non-privileged user has nothing left today
func (s Status) LimitReached() bool {
	return !s.Privileged && s.Remaining <= 0
}

// tunable constants, mostly for tests
type Limits struct {
	Daily                int
	AdInterval           int
	RewardAmount         int
	RewardTicks          int
	InterstitialDuration time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		Daily:                DailyLimit,
		AdInterval:           AdInterval,
		RewardAmount:         RewardAmount,
		RewardTicks:          RewardTicks,
		InterstitialDuration: InterstitialDuration,
	}
}
