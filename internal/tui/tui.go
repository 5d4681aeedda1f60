package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"tickfetch/internal/app"
	"tickfetch/internal/orchestrator"
)

// SendFunc forwards an event to the orchestrator without blocking.
type SendFunc func(orchestrator.Event) bool

var ErrUserQuit = errors.New("user quit")

// snapshotMsg carries a frame from the orchestrator into the bubbletea loop.
type snapshotMsg app.Snapshot

// Dashboard is the terminal renderer and input listener. It never touches
// State: key presses and size changes go out through send, frames come in
// through Render.
type Dashboard struct {
	program *tea.Program
}

// New builds the dashboard around an initial frame. opts are passed to
// bubbletea, e.g. tea.WithAltScreen or tea.WithInput in tests.
func New(send SendFunc, initial app.Snapshot, opts ...tea.ProgramOption) *Dashboard {
	return &Dashboard{program: tea.NewProgram(newModel(send, initial), opts...)}
}

// Render hands a snapshot to the program. It blocks only until the bubbletea
// loop takes the message, and returns immediately once the program exited.
func (d *Dashboard) Render(s app.Snapshot) {
	d.program.Send(snapshotMsg(s))
}

// Run drives the terminal until Quit is called or the quit key cannot be
// delivered, in which case it returns ErrUserQuit.
func (d *Dashboard) Run() error {
	final, err := d.program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.abandoned {
		return ErrUserQuit
	}
	return nil
}

func (d *Dashboard) Quit() {
	d.program.Quit()
}

type model struct {
	send   SendFunc
	snap   app.Snapshot
	keys   keyMap
	help   help.Model
	width  int
	height int

	// abandoned is set when the quit key could not reach the orchestrator and
	// the dashboard shut itself down.
	abandoned bool
}

func newModel(send SendFunc, initial app.Snapshot) model {
	return model{
		send: send,
		snap: initial,
		keys: defaultKeys(),
		help: help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = app.Snapshot(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = renderWidth(msg.Width)
		m.forward(orchestrator.ResizeEvent{Height: logHeight(msg.Height)})
		return m, nil
	case tea.KeyMsg:
		k := m.keys.translate(msg)
		if k == app.KeyNone {
			return m, nil
		}
		if !m.forward(orchestrator.InputEvent{Key: k}) && k == app.KeyQuit {
			m.abandoned = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m model) forward(ev orchestrator.Event) bool {
	if m.send == nil {
		return false
	}
	return m.send(ev)
}
