package routes

import (
	"strings"

	tabfs "github.com/rsnous/tabfs"
)

// inputsRoute backs /tabs/by-id/<id>/inputs/<inputId>.txt: reads and writes
// the .value of a DOM element located by id via an injected content script.
func (c *Catalog) inputsRoute() *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			inputID := strings.TrimSuffix(ctx.String("entry"), ".txt")
			v, err := c.browser.Inputs().GetValue(ctx.Context(), ctx.Int("tabId"), inputID)
			if err != nil {
				return "", tabfs.ErrNoEntry("no such entry: " + inputID)
			}
			return v, nil
		},
		func(ctx *tabfs.Context, value string) error {
			inputID := strings.TrimSuffix(ctx.String("entry"), ".txt")
			if err := c.browser.Inputs().SetValue(ctx.Context(), ctx.Int("tabId"), inputID, value); err != nil {
				return tabfs.ErrNoEntry("no such entry: " + inputID)
			}
			return nil
		},
	)
	r := tabfs.NewRoute("/tabs/by-id/#TAB_ID/inputs/:ENTRY")
	r.WithContents(contents)
	return r
}
