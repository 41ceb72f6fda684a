package routes

import (
	"strconv"
	"strings"

	tabfs "github.com/rsnous/tabfs"
)

// captureRoutes builds /captures/<tabId>.png: a read-only binary file
// demonstrating NewBinaryContents, where a string round-trip would corrupt
// the PNG bytes.
func (c *Catalog) captureRoutes() []*tabfs.Route {
	return []*tabfs.Route{c.captureRoute()}
}

func (c *Catalog) captureRoute() *tabfs.Route {
	contents := tabfs.NewBinaryContents(func(ctx *tabfs.Context) ([]byte, error) {
		name := ctx.String("entry")
		tabID, err := strconv.ParseInt(strings.TrimSuffix(name, ".png"), 10, 64)
		if err != nil {
			return nil, tabfs.ErrNoEntry("malformed capture name: " + name)
		}
		png, err := c.browser.Tabs().CaptureVisible(ctx.Context(), tabID)
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		return png, nil
	})
	r := tabfs.NewRoute("/captures/:ENTRY")
	r.WithContents(contents)
	return r
}
