package routes

import (
	"fmt"
	"strconv"
	"strings"

	tabfs "github.com/rsnous/tabfs"

	"github.com/rsnous/tabfs/browser"
)

// windowRoutes builds every route under /windows: a by-id directory of
// windows, each with a tabs.txt listing member tab ids, a focused.txt flag,
// a state.txt (normal/minimized/maximized/fullscreen), and a bounds.txt
// ("left,top,width,height") that can be written to move or resize it.
func (c *Catalog) windowRoutes() []*tabfs.Route {
	return []*tabfs.Route{
		c.windowsDirRoute(),
		c.windowTabsRoute(),
		c.windowFocusedRoute(),
		c.windowStateRoute(),
		c.windowBoundsRoute(),
	}
}

func (c *Catalog) windowsDirRoute() *tabfs.Route {
	r := tabfs.NewRoute("/windows")
	r.ReadDir = func(ctx *tabfs.Context) ([]string, error) {
		windows, err := c.browser.Windows().List(ctx.Context())
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		names := make([]string, 0, len(windows))
		for _, w := range windows {
			names = append(names, strconv.FormatInt(w.ID, 10))
		}
		return names, nil
	}
	return r
}

func (c *Catalog) windowTabsRoute() *tabfs.Route {
	r := tabfs.NewRoute("/windows/#WINDOW_ID/tabs.txt")
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		w, err := c.browser.Windows().Get(ctx.Context(), ctx.Int("windowId"))
		if err != nil {
			return nil, tabfs.ErrNoEntry("no such window")
		}
		out := ""
		for _, id := range w.TabIDs {
			out += fmt.Sprintf("%d\n", id)
		}
		return []byte(out), nil
	}
	return r
}

func (c *Catalog) windowFocusedRoute() *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			w, err := c.browser.Windows().Get(ctx.Context(), ctx.Int("windowId"))
			if err != nil {
				return "", tabfs.ErrNoEntry("no such window")
			}
			if w.Focused {
				return "1\n", nil
			}
			return "0\n", nil
		},
		func(ctx *tabfs.Context, value string) error {
			if value != "1" && value != "1\n" {
				return nil
			}
			return c.browser.Windows().Focus(ctx.Context(), ctx.Int("windowId"))
		},
	)
	r := tabfs.NewRoute("/windows/#WINDOW_ID/focused.txt")
	r.WithContents(contents)
	return r
}

func (c *Catalog) windowStateRoute() *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			w, err := c.browser.Windows().Get(ctx.Context(), ctx.Int("windowId"))
			if err != nil {
				return "", tabfs.ErrNoEntry("no such window")
			}
			return w.State + "\n", nil
		},
		func(ctx *tabfs.Context, value string) error {
			state := strings.TrimSpace(value)
			return c.browser.Windows().SetState(ctx.Context(), ctx.Int("windowId"), state)
		},
	)
	r := tabfs.NewRoute("/windows/#WINDOW_ID/state.txt")
	r.WithContents(contents)
	return r
}

// windowBoundsRoute backs /windows/<id>/bounds.txt, a
// "left,top,width,height\n" scalar encoding of browser.Bounds.
func (c *Catalog) windowBoundsRoute() *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			w, err := c.browser.Windows().Get(ctx.Context(), ctx.Int("windowId"))
			if err != nil {
				return "", tabfs.ErrNoEntry("no such window")
			}
			b := w.Bounds
			return fmt.Sprintf("%d,%d,%d,%d\n", b.Left, b.Top, b.Width, b.Height), nil
		},
		func(ctx *tabfs.Context, value string) error {
			b, err := parseBounds(value)
			if err != nil {
				return tabfs.ErrNotSupported(err.Error())
			}
			return c.browser.Windows().SetBounds(ctx.Context(), ctx.Int("windowId"), b)
		},
	)
	r := tabfs.NewRoute("/windows/#WINDOW_ID/bounds.txt")
	r.WithContents(contents)
	return r
}

func parseBounds(value string) (browser.Bounds, error) {
	fields := strings.Split(strings.TrimSpace(value), ",")
	if len(fields) != 4 {
		return browser.Bounds{}, fmt.Errorf("bounds must be \"left,top,width,height\", got %q", value)
	}
	nums := make([]int, 4)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return browser.Bounds{}, fmt.Errorf("bounds field %q is not an integer", f)
		}
		nums[i] = n
	}
	return browser.Bounds{Left: nums[0], Top: nums[1], Width: nums[2], Height: nums[3]}, nil
}
