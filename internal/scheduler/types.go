package scheduler

import (
	"fmt"
	"time"
)

// Mode is the scheduling policy. It is implemented only by OnTime and Interval.
type Mode interface {
	Name() string
	isMode()
}

// OnTime fires once per day at a fixed wall-clock instant.
type OnTime struct {
	Hour   int
	Minute int
	Second int
}

// Interval counts down from Total and fires when Remaining reaches zero.
type Interval struct {
	Total     time.Duration
	Remaining time.Duration
}

func (OnTime) Name() string   { return "on-time" }
func (Interval) Name() string { return "interval" }

func (OnTime) isMode()   {}
func (Interval) isMode() {}

func NewInterval(total time.Duration) Interval {
	return Interval{Total: total, Remaining: total}
}

func (o OnTime) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", o.Hour, o.Minute, o.Second)
}

// Decision is the result of one Evaluate call.
type Decision struct {
	Fire bool
	Mode Mode
	Next time.Time
}
