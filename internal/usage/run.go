package usage

import (
	"context"
	"time"
)

// drives the reward countdown from a ticker for callers without their own
// event loop. returns when the countdown finishes, the governor leaves the
// reward state, or ctx is done.
func (g *Governor) Run(ctx context.Context, interval time.Duration, onTick func(Status)) error {
	status := g.Status()
	if status.State != StateAwaitingReward {
		return ErrInvalidTransition
	}

	if interval <= 0 {
		interval = RewardTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			more := g.RewardTick(status.Epoch)

			if onTick != nil {
				onTick(g.Status())
			}

			if !more {
				return nil
			}
		}
	}
}
