package orchestrator

import (
	"context"
	"time"

	"tickfetch/internal/app"
)

// Ticker is the one-second heartbeat. Each beat advances State under its
// lock, then sends any trigger and a TickEvent once the lock is released.
type Ticker struct {
	state    *app.State
	orch     *Orchestrator
	interval time.Duration
}

func NewTicker(state *app.State, orch *Orchestrator, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{state: state, orch: orch, interval: interval}
}

func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.beat(ctx) {
				return
			}
		}
	}
}

func (t *Ticker) beat(ctx context.Context) bool {
	if inv, fire := t.state.Advance(t.orch.newID); fire {
		if !t.orch.Send(ctx, InvocationTriggered{inv}) {
			return false
		}
	}
	return t.orch.Send(ctx, TickEvent{})
}
