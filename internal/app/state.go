package app

import (
	"fmt"
	"sync"
	"time"

	"tickfetch/internal/scheduler"
)

const stampLayout = "15:04:05"

// State is the single mutable record shared by the orchestrator and the
// ticker. Every method takes the lock for a short, non-blocking section.
type State struct {
	mu sync.Mutex

	mode      scheduler.Mode
	next      time.Time
	endpoint  string
	first     bool
	inFlight  bool
	outputDir string
	status    string
	errorMsg  string
	clock     string
	running   bool

	log *LogRing
	loc *time.Location
	now func() time.Time
}

type Option func(*State)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for the clock, timestamps and OnTime targets.
func WithLocation(loc *time.Location) Option {
	return func(s *State) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewState builds the state from a validated mode and endpoint. An empty
// endpoint leaves the scheduler disabled.
func NewState(mode scheduler.Mode, endpoint string, opts ...Option) *State {
	s := &State{
		mode:     mode,
		endpoint: endpoint,
		first:    true,
		running:  true,
		log:      NewLogRing(LogCapacity, DefaultViewport),
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clock = formatClock(s.current())
	return s
}

func (s *State) current() time.Time {
	return s.now().In(s.loc)
}

// SetStatus shows message in the status area and logs it.
func (s *State) SetStatus(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatus(message)
}

// SetError shows message as an error and logs it.
func (s *State) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setError(message)
}

func (s *State) Log(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Append(s.stamp(message))
}

func (s *State) setStatus(message string) {
	s.log.Append(s.stamp(message))
	s.status = message
	s.errorMsg = ""
}

func (s *State) setError(message string) {
	s.log.Append(s.stamp("ERROR: " + message))
	s.errorMsg = message
	s.status = ""
}

func (s *State) stamp(message string) string {
	return fmt.Sprintf("%s: %s", s.current().Format(stampLayout), message)
}

func (s *State) SetOutputDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputDir = dir
}

func (s *State) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

func (s *State) enabled() bool {
	return s.endpoint != "" && s.outputDir != ""
}

// PrimeSchedule computes the first OnTime target so the dashboard can show a
// countdown before the first tick.
func (s *State) PrimeSchedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled() {
		return
	}
	if target, ok := s.mode.(scheduler.OnTime); ok && s.next.IsZero() {
		s.next = scheduler.NextOccurrence(target, s.current())
	}
}

// BeginFirst marks the startup invocation in flight and returns it. It
// returns false when the scheduler is disabled or the first call was already
// started.
func (s *State) BeginFirst(id string) (Invocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled() || !s.first || s.inFlight {
		return Invocation{}, false
	}
	s.inFlight = true
	return Invocation{ID: id, Endpoint: s.endpoint, First: true, Dir: s.outputDir}, true
}

// Advance is the ticker's per-second unit of work: refresh the clock and, once
// the first invocation has completed, run the trigger engine. newID is only
// called when an invocation is actually started.
func (s *State) Advance(newID func() string) (Invocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.current()
	s.clock = formatClock(now)

	if !s.enabled() || s.first {
		return Invocation{}, false
	}

	decision := scheduler.Evaluate(s.mode, now, s.next)
	s.mode = decision.Mode
	s.next = decision.Next
	if !decision.Fire {
		return Invocation{}, false
	}

	if s.inFlight {
		s.log.Append(s.stamp("trigger skipped: previous invocation still running"))
		return Invocation{}, false
	}

	switch m := s.mode.(type) {
	case scheduler.OnTime:
		s.setStatus(fmt.Sprintf("on-time: triggering invocation for %s", m.Clock()))
	case scheduler.Interval:
		s.setStatus("interval: countdown reached zero, triggering invocation")
	}
	s.inFlight = true
	return Invocation{ID: newID(), Endpoint: s.endpoint, First: false, Dir: s.outputDir}, true
}

// Complete applies an invoker's outcome: exactly one log entry, and for the
// first invocation the flag flip and a status/error update.
func (s *State) Complete(c Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false
	if c.First {
		s.first = false
		if c.Failed {
			s.setError(c.Message)
		} else {
			s.setStatus(c.Message)
		}
		return
	}

	if c.Failed {
		s.log.Append(s.stamp("ERROR: " + c.Message))
		return
	}
	s.log.Append(s.stamp(c.Message))
}

// HandleKey applies scroll and quit keys to the log cursor.
func (s *State) HandleKey(k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch k {
	case KeyQuit:
		s.running = false
	case KeyUp:
		s.log.ScrollUp()
	case KeyDown:
		s.log.ScrollDown()
	case KeyTop:
		s.log.Top()
	case KeyBottom:
		s.log.Bottom()
	}
}

// SetViewport records the log height reported by the renderer.
func (s *State) SetViewport(height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.SetViewport(height)
}

func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Snapshot copies everything the renderer needs.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Now:        s.current(),
		Clock:      s.clock,
		Mode:       s.mode,
		Next:       s.next,
		Endpoint:   s.endpoint,
		OutputDir:  s.outputDir,
		First:      s.first,
		InFlight:   s.inFlight,
		Enabled:    s.enabled(),
		Status:     s.status,
		Error:      s.errorMsg,
		Logs:       s.log.Visible(),
		LogTotal:   s.log.Len(),
		Offset:     s.log.Offset(),
		Viewport:   s.log.Viewport(),
		AutoScroll: s.log.AutoScroll(),
	}
}

func formatClock(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}
