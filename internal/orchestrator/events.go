package orchestrator

import "tickfetch/internal/app"

// Event is anything a producer can push onto the orchestrator's channel.
type Event interface {
	isEvent()
}

// InputEvent carries a decoded operator key.
type InputEvent struct {
	Key app.Key
}

// ResizeEvent reports the number of log lines the renderer can show.
type ResizeEvent struct {
	Height int
}

// TickEvent is the once-per-second heartbeat. It only causes a redraw.
type TickEvent struct{}

// InvocationTriggered asks the orchestrator to spawn one invoker.
type InvocationTriggered struct {
	app.Invocation
}

// InvocationCompleted carries an invoker's outcome back.
type InvocationCompleted struct {
	app.Completion
}

func (InputEvent) isEvent()          {}
func (ResizeEvent) isEvent()         {}
func (TickEvent) isEvent()           {}
func (InvocationTriggered) isEvent() {}
func (InvocationCompleted) isEvent() {}
