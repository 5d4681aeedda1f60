package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tickfetch/internal/app"
	"tickfetch/internal/orchestrator"
	"tickfetch/internal/scheduler"
)

type recorder struct {
	events []orchestrator.Event
	accept bool
}

func (r *recorder) send(ev orchestrator.Event) bool {
	r.events = append(r.events, ev)
	return r.accept
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyTranslation(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want app.Key
	}{
		{runes("q"), app.KeyQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, app.KeyQuit},
		{tea.KeyMsg{Type: tea.KeyUp}, app.KeyUp},
		{runes("k"), app.KeyUp},
		{tea.KeyMsg{Type: tea.KeyDown}, app.KeyDown},
		{runes("j"), app.KeyDown},
		{tea.KeyMsg{Type: tea.KeyHome}, app.KeyTop},
		{runes("g"), app.KeyTop},
		{tea.KeyMsg{Type: tea.KeyEnd}, app.KeyBottom},
		{runes("G"), app.KeyBottom},
		{runes("x"), app.KeyNone},
		{tea.KeyMsg{Type: tea.KeyEnter}, app.KeyNone},
	}
	keys := defaultKeys()
	for _, tt := range tests {
		if got := keys.translate(tt.msg); got != tt.want {
			t.Errorf("translate(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestUpdateForwardsInputAndResize(t *testing.T) {
	rec := &recorder{accept: true}
	m := newModel(rec.send, app.Snapshot{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	next, _ = next.Update(runes("k"))
	next, cmd := next.Update(runes("x"))
	if cmd != nil {
		t.Fatal("unbound key produced a command")
	}
	next, cmd = next.Update(runes("q"))
	if cmd != nil {
		t.Fatal("quit should be left to the orchestrator when delivered")
	}

	want := []orchestrator.Event{
		orchestrator.ResizeEvent{Height: 40 - chromeHeight},
		orchestrator.InputEvent{Key: app.KeyUp},
		orchestrator.InputEvent{Key: app.KeyQuit},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %#v", rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("event %d = %#v, want %#v", i, rec.events[i], want[i])
		}
	}
	if next.(model).abandoned {
		t.Fatal("model abandoned after a delivered quit")
	}
}

func TestQuitFallsBackWhenChannelFull(t *testing.T) {
	rec := &recorder{accept: false}
	m := newModel(rec.send, app.Snapshot{})

	next, cmd := m.Update(runes("j"))
	if cmd != nil {
		t.Fatal("dropped scroll key should not quit")
	}
	next, cmd = next.Update(runes("q"))
	if cmd == nil || !next.(model).abandoned {
		t.Fatal("undeliverable quit did not stop the dashboard")
	}
}

func TestSnapshotReplacesFrame(t *testing.T) {
	m := newModel(nil, app.Snapshot{Clock: "old"})
	next, _ := m.Update(snapshotMsg(app.Snapshot{Clock: "new"}))
	if got := next.(model).snap.Clock; got != "new" {
		t.Fatalf("clock = %q", got)
	}
}

func TestViewPanels(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		snap app.Snapshot
		want []string
	}{
		{
			name: "interval with status",
			snap: app.Snapshot{
				Now: now, Clock: "2026-03-01 12:00:00 UTC", Endpoint: "http://api.test/x",
				Mode: scheduler.Interval{Total: 90 * time.Second, Remaining: 30 * time.Second},
				Enabled: true, Status: "interval: countdown reached zero, triggering invocation",
				Logs: []string{"12:00:00: hello"}, LogTotal: 1, Viewport: 10, AutoScroll: true,
			},
			want: []string{"2026-03-01 12:00:00 UTC", "Every 00:01:30", "Next invocation in 00:00:30", "countdown reached zero", "Log (1/1)", "12:00:00: hello", "quit"},
		},
		{
			name: "on-time countdown",
			snap: app.Snapshot{
				Now: now, Mode: scheduler.OnTime{Hour: 12, Minute: 5}, Next: now.Add(5 * time.Minute),
				Enabled: true, Endpoint: "http://api.test/x", Viewport: 10,
			},
			want: []string{"Daily at 12:05:00", "00:05:00 (in 5m)", "waiting..."},
		},
		{
			name: "disabled with error",
			snap: app.Snapshot{
				Now: now, Mode: scheduler.NewInterval(time.Second), Error: "failed to load configuration: boom",
				Logs: make([]string, 0), LogTotal: 25, Offset: 10, Viewport: 5,
			},
			want: []string{"(not configured)", "disabled", "failed to load configuration: boom", "Log (3/5)"},
		},
		{
			name: "first pending",
			snap: app.Snapshot{
				Now: now, Mode: scheduler.NewInterval(time.Minute), Enabled: true, First: true, Viewport: 3,
			},
			want: []string{"waiting for the first invocation", "Log (1/1)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(nil, tt.snap)
			m.width = 100
			view := m.View()
			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestViewHeightMatchesViewport(t *testing.T) {
	snap := app.Snapshot{Mode: scheduler.NewInterval(time.Minute), Viewport: 7}
	m := newModel(nil, snap)
	m.width = 80
	if got, want := lipgloss.Height(m.View()), chromeHeight+7; got != want {
		t.Fatalf("height = %d, want %d", got, want)
	}
}

func TestPanelWidth(t *testing.T) {
	out := panel("A rather long title for a narrow box", []string{strings.Repeat("x", 200)}, 30, lipgloss.Left, plainStyle)
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != 30 {
			t.Fatalf("line %q width %d, want 30", line, w)
		}
	}
}

func TestLogHeight(t *testing.T) {
	tests := map[int]int{
		0:                app.DefaultViewport,
		chromeHeight:     1,
		chromeHeight + 9: 9,
		50:               50 - chromeHeight,
	}
	for height, want := range tests {
		if got := logHeight(height); got != want {
			t.Errorf("logHeight(%d) = %d, want %d", height, got, want)
		}
	}
}
