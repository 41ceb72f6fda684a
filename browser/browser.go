// Package browser declares the capability interfaces a route catalog needs
// from a live browser — tabs, windows, extensions, script debugging, and DOM
// input access — and nothing about how they are actually implemented. A
// route catalog is built once against any type satisfying these interfaces,
// so the route table stays testable against an in-memory fake instead of a
// real browser process.
package browser

import "context"

// Tab is one open browser tab.
type Tab struct {
	ID       int64
	WindowID int64
	Title    string
	URL      string
	Pinned   bool
}

// Window is one open browser window.
type Window struct {
	ID        int64
	Focused   bool
	TabIDs    []int64
	Incognito bool
	State     string // "normal", "minimized", "maximized", "fullscreen"
	Bounds    Bounds
}

// Bounds is a window's on-screen rectangle, in the same units the windows
// API reports (device-independent pixels).
type Bounds struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Extension is one installed extension or app.
type Extension struct {
	ID      string
	Name    string
	Version string
	Enabled bool
}

// Script is a piece of source the debugger has observed loading in a tab,
// identified by the debug protocol's own script id.
type Script struct {
	ID     string
	URL    string
	Source string
}

// Tabs is the subset of the tabs API a route catalog needs: listing,
// mutation, script evaluation, and capture.
type Tabs interface {
	List(ctx context.Context) ([]Tab, error)
	Get(ctx context.Context, id int64) (Tab, error)
	Update(ctx context.Context, id int64, title, url *string) error
	Close(ctx context.Context, id int64) error
	// Evaluate runs expr as a JavaScript expression in the tab's main frame
	// and returns the JSON-encoded result.
	Evaluate(ctx context.Context, id int64, expr string) (string, error)
	// CaptureVisible returns a PNG screenshot of the tab's visible area.
	CaptureVisible(ctx context.Context, id int64) ([]byte, error)
}

// Windows is the subset of the windows API a route catalog needs.
type Windows interface {
	List(ctx context.Context) ([]Window, error)
	Get(ctx context.Context, id int64) (Window, error)
	Focus(ctx context.Context, id int64) error
	// SetState changes a window between normal/minimized/maximized/fullscreen.
	SetState(ctx context.Context, id int64, state string) error
	// SetBounds moves and/or resizes a window.
	SetBounds(ctx context.Context, id int64, b Bounds) error
}

// Extensions is the subset of the management API a route catalog needs.
type Extensions interface {
	List(ctx context.Context) ([]Extension, error)
	Get(ctx context.Context, id string) (Extension, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// Reload unloads and reloads the extension in place.
	Reload(ctx context.Context, id string) error
	// Uninstall removes the extension from the browser entirely.
	Uninstall(ctx context.Context, id string) error
}

// Debugger is the subset of the Chrome DevTools Protocol a route catalog
// needs to read and patch running script source.
//
// Attach is idempotent on the browser side: a caller who races another
// debugger client may see "already attached" and should detach then
// re-attach rather than surface that as a failure — see ensureAttached in
// the routes package.
type Debugger interface {
	Attach(ctx context.Context, tabID int64) error
	Detach(ctx context.Context, tabID int64) error
	// Command sends a raw CDP method with JSON params and returns the raw
	// JSON result. The route catalog calls it with Debugger.getScriptSource
	// and Debugger.setScriptSource.
	Command(ctx context.Context, tabID int64, method string, params map[string]interface{}) (string, error)
	// Events returns a channel of debug-protocol notifications for tabID:
	// "Page.frameStartedLoading" and "Debugger.scriptParsed" are the two this
	// engine cares about. The channel is closed on Detach.
	Events(ctx context.Context, tabID int64) (<-chan Event, error)
}

// Event is one debug-protocol notification.
type Event struct {
	Method string
	Params map[string]interface{}
}

// Inputs is the DOM-input-access capability: reading and writing the
// `.value` of an element located by id, via an injected content script.
type Inputs interface {
	GetValue(ctx context.Context, tabID int64, inputID string) (string, error)
	SetValue(ctx context.Context, tabID int64, inputID string, value string) error
}

// Browser bundles every capability a route catalog depends on. A single
// concrete implementation backed by the extension APIs (not included here —
// that glue lives on the extension side of the native-messaging port) or the
// in-memory Fake in this package satisfies it.
type Browser interface {
	Tabs() Tabs
	Windows() Windows
	Extensions() Extensions
	Debugger() Debugger
	Inputs() Inputs
}
