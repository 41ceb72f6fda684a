package routes

import (
	"strings"

	tabfs "github.com/rsnous/tabfs"
)

const resultSuffix = ".result"

// evalsRoute backs /tabs/by-id/<id>/evals/<filename>. mknod creates the
// entry; writing the code file runs it against the tab and stores the
// JSON-encoded result; reading "<filename>.result" returns the last result
// without re-running anything.
func (c *Catalog) evalsRoute() *tabfs.Route {
	r := tabfs.NewRoute(
		"/tabs/by-id/#TAB_ID/evals/:FILENAME",
		"mknod creates an eval entry; write runs the code; read <name>.result for the last result",
	)
	r.Mknod = func(ctx *tabfs.Context) error {
		name := ctx.String("filename")
		if strings.HasSuffix(name, resultSuffix) {
			return tabfs.ErrNotSupported("cannot create a .result file directly")
		}
		c.evals.entry(ctx.Int("tabId"), name, true)
		return nil
	}
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		name := ctx.String("filename")
		if strings.HasSuffix(name, resultSuffix) {
			base := strings.TrimSuffix(name, resultSuffix)
			e, ok := c.evals.entry(ctx.Int("tabId"), base, false)
			if !ok {
				return nil, tabfs.ErrNoEntry("no such eval: " + base)
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			return []byte(e.result), nil
		}
		e, ok := c.evals.entry(ctx.Int("tabId"), name, false)
		if !ok {
			return nil, tabfs.ErrNoEntry("no such eval: " + name)
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		return []byte(e.code), nil
	}
	r.Write = func(ctx *tabfs.Context) (int, error) {
		name := ctx.String("filename")
		if strings.HasSuffix(name, resultSuffix) {
			return 0, tabfs.ErrNotSupported("cannot write a .result file")
		}
		tabID := ctx.Int("tabId")
		e, ok := c.evals.entry(tabID, name, false)
		if !ok {
			return 0, tabfs.ErrNoEntry("no such eval: " + name)
		}
		code := string(ctx.Buf())
		result, err := c.browser.Tabs().Evaluate(ctx.Context(), tabID, code)
		if err != nil {
			return 0, tabfs.ErrIO(err)
		}
		e.mu.Lock()
		e.code = code
		e.result = result
		e.mu.Unlock()
		return len(ctx.Buf()), nil
	}
	return r
}

func (c *Catalog) evalsDirRoute() *tabfs.Route {
	r := tabfs.NewRoute("/tabs/by-id/#TAB_ID/evals")
	r.ReadDir = func(ctx *tabfs.Context) ([]string, error) {
		names := c.evals.names(ctx.Int("tabId"))
		out := make([]string, 0, len(names)*2)
		for _, n := range names {
			out = append(out, n, n+resultSuffix)
		}
		return out, nil
	}
	return r
}
