package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"tickfetch/internal/app"
	"tickfetch/internal/fetch"
	"tickfetch/internal/logging"
	"tickfetch/internal/storage"
)

// Caller performs the HTTP request.
type Caller interface {
	Call(ctx context.Context, endpoint string) (fetch.Response, error)
}

// Persister writes a response body under dir and returns the file path.
type Persister interface {
	Save(dir, payload string) (string, error)
}

// DirectorySetup creates the dated output directory.
type DirectorySetup interface {
	Setup() (string, error)
}

// Invoker performs one call and turns every outcome into a single
// Completion. It never retries.
type Invoker struct {
	caller    Caller
	persister Persister
}

func NewInvoker(caller Caller, persister Persister) *Invoker {
	return &Invoker{caller: caller, persister: persister}
}

func (iv *Invoker) Invoke(ctx context.Context, inv app.Invocation) app.Completion {
	if inv.First {
		return iv.checkReachable(ctx, inv)
	}
	return iv.fetchAndSave(ctx, inv)
}

// checkReachable is the startup call: only the status is reported and
// nothing is written.
func (iv *Invoker) checkReachable(ctx context.Context, inv app.Invocation) app.Completion {
	c := app.Completion{ID: inv.ID, First: true}

	resp, err := iv.caller.Call(ctx, inv.Endpoint)
	if err != nil && !errors.Is(err, fetch.ErrReadBody) {
		logging.Warnf("invocation %s: %v", inv.ID, err)
		c.Failed = true
		c.Message = fmt.Sprintf("first invocation failed: %v", err)
		return c
	}
	if !resp.OK() {
		c.Failed = true
		c.Message = fmt.Sprintf("first invocation returned status %s", resp.StatusText)
		return c
	}
	c.Message = fmt.Sprintf("first invocation completed (status %s)", resp.StatusText)
	return c
}

func (iv *Invoker) fetchAndSave(ctx context.Context, inv app.Invocation) app.Completion {
	c := app.Completion{ID: inv.ID}
	fail := func(format string, args ...any) app.Completion {
		c.Failed = true
		c.Message = fmt.Sprintf(format, args...)
		logging.Warnf("invocation %s: %s", inv.ID, c.Message)
		return c
	}

	resp, err := iv.caller.Call(ctx, inv.Endpoint)
	switch {
	case errors.Is(err, fetch.ErrReadBody):
		return fail("invocation succeeded (status %s) but the response could not be read: %v", resp.StatusText, err)
	case err != nil:
		return fail("invocation failed: %v", err)
	case !resp.OK():
		return fail("invocation returned status %s", resp.StatusText)
	case inv.Dir == "":
		return fail("invocation succeeded but no output directory is set")
	}

	path, err := iv.persister.Save(inv.Dir, resp.Body)
	if err != nil {
		if errors.Is(err, storage.ErrMalformedBody) {
			return fail("invocation succeeded but the response was not saved: %v", err)
		}
		return fail("invocation succeeded but saving the response failed: %v", err)
	}

	c.Message = fmt.Sprintf("invocation succeeded: saved %s", filepath.Base(path))
	return c
}
