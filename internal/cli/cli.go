package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tickfetch/internal/app"
	"tickfetch/internal/config"
	"tickfetch/internal/fetch"
	"tickfetch/internal/logging"
	"tickfetch/internal/orchestrator"
	"tickfetch/internal/scheduler"
	"tickfetch/internal/storage"
	"tickfetch/internal/tui"
)

var ErrNotTerminal = errors.New("stdout is not a terminal")

// ExitError carries the process exit code for failures after argument
// parsing. Anything else returned by the command is a usage error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

type options struct {
	cfgPath   string
	logFile   string
	verbosity int
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "Error:", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(stderr, cmd.UsageString())
	return 2
}

// NewRootCmd builds the dashboard command and its subcommands.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "tickfetch",
		Short:         "Call an HTTP endpoint on a schedule and archive the JSON responses",
		Long:          "Terminal dashboard that invokes an HTTP endpoint daily at a fixed time or on a fixed interval, saving each response under a dated folder.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetVerbosity(opts.verbosity)
			if err := logging.OpenFile(opts.logFile); err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			logging.Infof("log level %s", logging.LevelName())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", config.DefaultPath, "configuration file (JSON, or YAML by extension)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "append diagnostic logs to this file")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "more diagnostic logging (-v, -vv)")

	cmd.AddCommand(newCheckCmd(opts))
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgPath)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			loc, _ := cfg.Location()
			now := time.Now().In(loc)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "endpoint:   %s\n", cfg.API)
			fmt.Fprintf(out, "output dir: %s\n", cfg.Output())
			switch mode := cfg.Mode().(type) {
			case scheduler.OnTime:
				next := scheduler.NextOccurrence(mode, now)
				fmt.Fprintf(out, "schedule:   daily at %s (%s)\n", mode.Clock(), loc)
				fmt.Fprintf(out, "next:       %s (%s)\n", next.Format("2006-01-02 15:04:05"), scheduler.RelativeLabel(next, now))
			case scheduler.Interval:
				fmt.Fprintf(out, "schedule:   every %s\n", app.FormatDuration(mode.Total))
				next := now.Add(mode.Total)
				fmt.Fprintf(out, "next:       %s after the first invocation (%s)\n", app.FormatDuration(mode.Total), scheduler.RelativeLabel(next, now))
			}
			return nil
		},
	}
}

// session is everything built from the configuration. A configuration error
// still yields a session: scheduling is disabled and the dashboard shows why.
type session struct {
	state  *app.State
	store  *storage.Store
	client *fetch.Client
}

func buildSession(path string) session {
	cfg, err := config.Load(path)
	if err != nil {
		logging.Errorf("load config %s: %v", path, err)
		state := app.NewState(scheduler.NewInterval(0), "")
		state.SetError("failed to load configuration: " + err.Error())
		return session{
			state:  state,
			store:  storage.NewOSStore(config.DefaultOutputDir),
			client: fetch.New(config.DefaultTimeout),
		}
	}

	loc, _ := cfg.Location()
	timeout, _ := cfg.RequestTimeout()
	now := func() time.Time { return time.Now().In(loc) }

	base, err := app.ResolvePath(cfg.Output(), "")
	if err != nil {
		base = config.DefaultOutputDir
	}
	logging.Infof("config %s: endpoint %s, mode %s, output %s", path, cfg.API, cfg.Mode().Name(), base)

	state := app.NewState(cfg.Mode(), cfg.API, app.WithLocation(loc))
	state.Log("configuration loaded from " + path)
	return session{
		state:  state,
		store:  storage.NewOSStore(base).WithClock(now),
		client: fetch.New(timeout),
	}
}

func runDashboard(ctx context.Context, opts *options, stdout io.Writer) error {
	if !isTerminal(stdout) {
		return &ExitError{Code: 1, Err: ErrNotTerminal}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt := buildSession(opts.cfgPath)

	var orch *orchestrator.Orchestrator
	dash := tui.New(func(ev orchestrator.Event) bool { return orch.TrySend(ev) }, rt.state.Snapshot(),
		tea.WithAltScreen(), tea.WithOutput(stdout))
	orch = orchestrator.New(rt.state, orchestrator.NewInvoker(rt.client, rt.store), orchestrator.WithRenderer(dash))

	orch.Bootstrap(ctx, rt.store)
	go orchestrator.NewTicker(rt.state, orch, time.Second).Run(ctx)

	done := make(chan error, 1)
	go func() {
		done <- orch.Run(ctx)
		dash.Quit()
	}()

	err := dash.Run()
	cancel()
	if runErr := <-done; runErr != nil && !errors.Is(runErr, context.Canceled) {
		logging.Warnf("orchestrator stopped: %v", runErr)
	}
	if err != nil && !errors.Is(err, tui.ErrUserQuit) {
		return &ExitError{Code: 1, Err: fmt.Errorf("terminal: %w", err)}
	}
	logging.Infof("dashboard closed")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
