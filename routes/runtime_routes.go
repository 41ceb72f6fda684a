package routes

import (
	"sync"

	tabfs "github.com/rsnous/tabfs"
)

// errorSlot is the process-wide holder for /runtime/last_error.txt: the
// most recent error any route handler chose to record via RecordError.
type errorSlot struct {
	mu   sync.Mutex
	text string
}

var lastError errorSlot

// RecordError sets the text served by /runtime/last_error.txt. Route
// handlers that want end-user-visible diagnostics (rather than a bare EIO)
// call this before returning their own error.
func RecordError(text string) {
	lastError.mu.Lock()
	lastError.text = text
	lastError.mu.Unlock()
}

func (e *errorSlot) get() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

const manifestJSON = `{
  "name": "tabfs-engine",
  "description": "exposes a live browser as a filesystem",
  "permissions": ["tabs", "debugger", "management", "nativeMessaging"]
}
`

// runtimeRoutes builds /runtime/background.js, /runtime/manifest.json, and
// /runtime/last_error.txt.
func (c *Catalog) runtimeRoutes() []*tabfs.Route {
	return []*tabfs.Route{
		c.backgroundSourceRoute(),
		c.manifestRoute(),
		c.lastErrorRoute(),
	}
}

func (c *Catalog) backgroundSourceRoute() *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			return c.source.get()
		},
		func(ctx *tabfs.Context, text string) error {
			c.source.replace(text)
			return nil
		},
	)
	r := tabfs.NewRoute(
		"/runtime/background.js",
		"this engine's own source; writing new text replaces the served copy",
	)
	r.WithContents(contents)
	return r
}

func (c *Catalog) manifestRoute() *tabfs.Route {
	r := tabfs.NewRoute("/runtime/manifest.json")
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		return []byte(manifestJSON), nil
	}
	return r
}

func (c *Catalog) lastErrorRoute() *tabfs.Route {
	r := tabfs.NewRoute("/runtime/last_error.txt")
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		return []byte(lastError.get()), nil
	}
	return r
}
