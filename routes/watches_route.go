package routes

import (
	"fmt"

	tabfs "github.com/rsnous/tabfs"
)

// watchesRoute backs /tabs/by-id/<id>/watches/<expr>. Every read re-evaluates
// expr against the tab; the shared rate limiter just throttles how often
// that actually reaches the browser.
func (c *Catalog) watchesRoute() *tabfs.Route {
	r := tabfs.NewRoute(
		"/tabs/by-id/#TAB_ID/watches/:EXPR",
		"each read re-evaluates the expression and returns the JSON result",
	)
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		tabID := ctx.Int("tabId")
		expr := ctx.String("expr")
		key := fmt.Sprintf("%d:%s", tabID, expr)
		if err := c.watch.limiter(key).Wait(ctx.Context()); err != nil {
			return nil, tabfs.ErrIO(fmt.Errorf("watch %q rate-limited: %w", expr, err))
		}
		result, err := c.browser.Tabs().Evaluate(ctx.Context(), tabID, expr)
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		return []byte(result), nil
	}
	return r
}
