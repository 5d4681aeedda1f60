package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"tickfetch/internal/app"
	"tickfetch/internal/logging"
)

// EventBuffer is the capacity of the shared event channel.
const EventBuffer = 100

// Renderer draws a snapshot. It must not block for long.
type Renderer interface {
	Render(app.Snapshot)
}

// Orchestrator is the single consumer of the event channel and the only
// place events mutate State.
type Orchestrator struct {
	state    *app.State
	invoker  *Invoker
	renderer Renderer
	events   chan Event
	newID    func() string
}

type Option func(*Orchestrator)

// WithRenderer attaches the display. Without one, Run draws nothing.
func WithRenderer(r Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = r
	}
}

// WithIDs replaces the invocation ID generator.
func WithIDs(newID func() string) Option {
	return func(o *Orchestrator) {
		if newID != nil {
			o.newID = newID
		}
	}
}

func New(state *app.State, invoker *Invoker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:   state,
		invoker: invoker,
		events:  make(chan Event, EventBuffer),
		newID:   shortID,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func shortID() string {
	return uuid.NewString()[:8]
}

// Send enqueues ev, giving up when ctx is done. It reports whether the event
// was accepted.
func (o *Orchestrator) Send(ctx context.Context, ev Event) bool {
	select {
	case o.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// TrySend enqueues ev without blocking. The input listener uses it because it
// runs on the renderer's goroutine.
func (o *Orchestrator) TrySend(ev Event) bool {
	select {
	case o.events <- ev:
		return true
	default:
		logging.Warnf("event channel full, dropped %T", ev)
		return false
	}
}

// Run draws, then applies one event at a time until the operator quits or ctx
// ends. Pending events are dropped on exit and spawned invokers are left to
// finish on their own.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		o.render()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-o.events:
			o.apply(ctx, ev)
		}

		if !o.state.Running() {
			logging.Infof("quit requested")
			return nil
		}
	}
}

func (o *Orchestrator) render() {
	if o.renderer == nil {
		return
	}
	o.renderer.Render(o.state.Snapshot())
}

func (o *Orchestrator) apply(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case InputEvent:
		o.state.HandleKey(e.Key)
	case ResizeEvent:
		o.state.SetViewport(e.Height)
	case TickEvent:
	case InvocationTriggered:
		o.spawn(ctx, e.Invocation)
	case InvocationCompleted:
		logging.Debugf("invocation %s completed (failed=%v)", e.ID, e.Failed)
		o.state.Complete(e.Completion)
	default:
		logging.Warnf("ignoring unknown event %T", ev)
	}
}

// spawn runs one invoker detached. Quitting does not cancel the call; the
// completion is simply discarded if nobody is left to receive it.
func (o *Orchestrator) spawn(ctx context.Context, inv app.Invocation) {
	logging.Debugf("invocation %s started (first=%v)", inv.ID, inv.First)
	go func() {
		c := o.invoker.Invoke(context.WithoutCancel(ctx), inv)
		o.Send(ctx, InvocationCompleted{c})
	}()
}

// Bootstrap prepares the output directory and queues the first invocation.
// Failures are shown in the dashboard and leave scheduling disabled. Without an
// endpoint nothing happens: the configuration error is already on display.
func (o *Orchestrator) Bootstrap(ctx context.Context, dirs DirectorySetup) bool {
	if o.state.Endpoint() == "" {
		logging.Warnf("no endpoint configured, data directory setup skipped")
		return false
	}

	dir, err := dirs.Setup()
	if err != nil {
		logging.Errorf("directory setup: %v", err)
		o.state.SetError("data directory setup failed: " + err.Error())
		return false
	}
	o.state.SetOutputDir(dir)
	o.state.SetStatus("data directory " + app.HumanizePath(dir) + " is ready")
	o.state.PrimeSchedule()

	inv, ok := o.state.BeginFirst(o.newID())
	if !ok {
		return false
	}
	if !o.Send(ctx, InvocationTriggered{inv}) {
		o.state.SetError("could not queue the first invocation")
		return false
	}
	o.state.SetStatus("startup: first invocation triggered")
	return true
}
