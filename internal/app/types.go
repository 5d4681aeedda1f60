package app

import (
	"time"

	"tickfetch/internal/scheduler"
)

// Key is an operator command decoded by the input listener.
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyUp
	KeyDown
	KeyTop
	KeyBottom
)

// Invocation describes one call the orchestrator should spawn.
type Invocation struct {
	ID       string
	Endpoint string
	First    bool
	Dir      string
}

// Completion is the outcome an invoker reports back.
type Completion struct {
	ID      string
	Message string
	Failed  bool
	First   bool
}

// Snapshot is a read-only copy of State for the renderer.
type Snapshot struct {
	Now        time.Time
	Clock      string
	Mode       scheduler.Mode
	Next       time.Time
	Endpoint   string
	OutputDir  string
	First      bool
	InFlight   bool
	Enabled    bool
	Status     string
	Error      string
	Logs       []string
	LogTotal   int
	Offset     int
	Viewport   int
	AutoScroll bool
}
