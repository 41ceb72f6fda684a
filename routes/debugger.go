package routes

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	tabfs "github.com/rsnous/tabfs"
	"github.com/rsnous/tabfs/browser"
)

// scriptMeta is what the catalog remembers about one script the debugger has
// observed loading in a tab.
type scriptMeta struct {
	ID  string
	URL string
}

// debugState owns the per-tab attach/detach state machine and the per-tab
// scriptId→metadata map populated from debug-protocol events. Attach is
// idempotent: if the browser reports the tab already has a debugger
// attached (a race with some other client), this detaches and retries once
// rather than surfacing that as a failure.
type debugState struct {
	debugger browser.Debugger

	mu       sync.Mutex
	attached map[int64]bool
	scripts  map[int64]map[string]scriptMeta
}

func newDebugState(d browser.Debugger) *debugState {
	return &debugState{
		debugger: d,
		attached: make(map[int64]bool),
		scripts:  make(map[int64]map[string]scriptMeta),
	}
}

// ensureAttached attaches the debugger to tabID if not already attached by
// this process, retrying once after a detach if the browser reports a
// conflicting attachment.
func (d *debugState) ensureAttached(ctx context.Context, tabID int64) error {
	d.mu.Lock()
	already := d.attached[tabID]
	d.mu.Unlock()
	if already {
		return nil
	}

	if err := d.debugger.Attach(ctx, tabID); err != nil {
		if !strings.Contains(err.Error(), "already attached") {
			return err
		}
		if derr := d.debugger.Detach(ctx, tabID); derr != nil {
			return derr
		}
		if err := d.debugger.Attach(ctx, tabID); err != nil {
			return err
		}
	}

	d.mu.Lock()
	d.attached[tabID] = true
	d.mu.Unlock()
	d.watchEvents(tabID)
	return nil
}

// watchEvents drains the tab's debug-protocol event stream, clearing the
// script map on a frame reload and recording newly parsed scripts. It runs
// for the lifetime of the attach; Events' channel closes on Detach.
func (d *debugState) watchEvents(tabID int64) {
	ctx := context.Background()
	events, err := d.debugger.Events(ctx, tabID)
	if err != nil {
		return
	}
	go func() {
		for ev := range events {
			switch ev.Method {
			case "Page.frameStartedLoading":
				d.mu.Lock()
				d.scripts[tabID] = make(map[string]scriptMeta)
				d.mu.Unlock()
			case "Debugger.scriptParsed":
				id, _ := ev.Params["scriptId"].(string)
				url, _ := ev.Params["url"].(string)
				d.mu.Lock()
				if d.scripts[tabID] == nil {
					d.scripts[tabID] = make(map[string]scriptMeta)
				}
				d.scripts[tabID][id] = scriptMeta{ID: id, URL: url}
				d.mu.Unlock()
			}
		}
	}()
}

// entryName returns the "<scriptId>_<sanitizedUrl>" filename for a script.
func entryName(s scriptMeta) string {
	return s.ID + "_" + sanitizeFilename(s.URL)
}

// findByEntryName resolves a "<scriptId>_<sanitizedUrl>" filename back to a
// scriptId. The scriptId is always the caller's own uuid-free numeric id
// from the debug protocol, so splitting on the first "_" is unambiguous.
func findByEntryName(name string, scripts map[string]scriptMeta) (scriptMeta, bool) {
	idx := strings.Index(name, "_")
	if idx < 0 {
		return scriptMeta{}, false
	}
	id := name[:idx]
	s, ok := scripts[id]
	return s, ok
}

func (d *debugState) listEntries(tabID int64) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	scripts := d.scripts[tabID]
	out := make([]string, 0, len(scripts))
	for _, s := range scripts {
		out = append(out, entryName(s))
	}
	return out
}

func (d *debugState) lookup(tabID int64, name string) (scriptMeta, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return findByEntryName(name, d.scripts[tabID])
}

func (c *Catalog) scriptRoute() *tabfs.Route {
	r := tabfs.NewRoute(
		"/tabs/by-id/#TAB_ID/debugger/scripts/:ENTRY",
		"read the source of a script the debugger has observed in this tab",
		"write to push updated source back via Debugger.setScriptSource",
	)
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		tabID := ctx.Int("tabId")
		if err := c.debug.ensureAttached(ctx.Context(), tabID); err != nil {
			return nil, tabfs.ErrIO(err)
		}
		meta, ok := c.debug.lookup(tabID, ctx.String("entry"))
		if !ok {
			return nil, tabfs.ErrNoEntry("no such script: " + ctx.String("entry"))
		}
		raw, err := c.debugger().Command(ctx.Context(), tabID, "Debugger.getScriptSource",
			map[string]interface{}{"scriptId": meta.ID})
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		var decoded struct {
			ScriptSource string `json:"scriptSource"`
		}
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, tabfs.ErrIO(err)
		}
		return []byte(decoded.ScriptSource), nil
	}
	r.Write = func(ctx *tabfs.Context) (int, error) {
		tabID := ctx.Int("tabId")
		if err := c.debug.ensureAttached(ctx.Context(), tabID); err != nil {
			return 0, tabfs.ErrIO(err)
		}
		meta, ok := c.debug.lookup(tabID, ctx.String("entry"))
		if !ok {
			return 0, tabfs.ErrNoEntry("no such script: " + ctx.String("entry"))
		}
		_, err := c.debugger().Command(ctx.Context(), tabID, "Debugger.setScriptSource", map[string]interface{}{
			"scriptId":     meta.ID,
			"scriptSource": string(ctx.Buf()),
		})
		if err != nil {
			return 0, tabfs.ErrIO(err)
		}
		return len(ctx.Buf()), nil
	}
	return r
}

func (c *Catalog) scriptsDirRoute() *tabfs.Route {
	r := tabfs.NewRoute("/tabs/by-id/#TAB_ID/debugger/scripts")
	r.ReadDir = func(ctx *tabfs.Context) ([]string, error) {
		tabID := ctx.Int("tabId")
		if err := c.debug.ensureAttached(ctx.Context(), tabID); err != nil {
			return nil, tabfs.ErrIO(err)
		}
		return c.debug.listEntries(tabID), nil
	}
	return r
}

func (c *Catalog) debugger() browser.Debugger {
	return c.browser.Debugger()
}
