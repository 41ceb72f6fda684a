package routes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tabfs "github.com/rsnous/tabfs"
)

// tabRoutes builds every route under /tabs.
func (c *Catalog) tabRoutes() []*tabfs.Route {
	routes := []*tabfs.Route{
		c.byTitleDirRoute(),
		c.byTitleEntryRoute(),
		c.byIDDirRoute(),
		c.tabFileRoute("url.txt", func(t tabInfo) string { return t.URL }, func(ctx *tabfs.Context, tabID int64, s string) error {
			return c.browser.Tabs().Update(ctx.Context(), tabID, nil, &s)
		}),
		c.tabFileRoute("title.txt", func(t tabInfo) string { return t.Title }, func(ctx *tabfs.Context, tabID int64, s string) error {
			return c.browser.Tabs().Update(ctx.Context(), tabID, &s, nil)
		}),
		c.evalsDirRoute(),
		c.evalsRoute(),
		c.watchesRoute(),
		c.scriptsDirRoute(),
		c.scriptRoute(),
		c.inputsRoute(),
	}
	return routes
}

type tabInfo struct {
	URL   string
	Title string
}

func (c *Catalog) tabByID(ctx context.Context, tabID int64) (tabInfo, error) {
	t, err := c.browser.Tabs().Get(ctx, tabID)
	if err != nil {
		return tabInfo{}, tabfs.ErrNoEntry("no such tab: " + strconv.FormatInt(tabID, 10))
	}
	return tabInfo{URL: t.URL, Title: t.Title}, nil
}

func (c *Catalog) byTitleDirRoute() *tabfs.Route {
	r := tabfs.NewRoute("/tabs/by-title")
	r.ReadDir = func(ctx *tabfs.Context) ([]string, error) {
		tabs, err := c.browser.Tabs().List(ctx.Context())
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		names := make([]string, 0, len(tabs))
		for _, t := range tabs {
			names = append(names, byTitleName(t.Title, t.ID))
		}
		return names, nil
	}
	return r
}

func byTitleName(title string, id int64) string {
	return fmt.Sprintf("%s.%d", sanitizeFilename(title), id)
}

func (c *Catalog) byTitleEntryRoute() *tabfs.Route {
	r := tabfs.NewRoute(
		"/tabs/by-title/:ENTRY",
		"a symlink to ../by-id/<id>; unlink closes the tab",
	)
	r.Readlink = func(ctx *tabfs.Context) (string, error) {
		id, err := tabIDFromByTitleEntry(ctx.String("entry"))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("../by-id/%d", id), nil
	}
	r.Unlink = func(ctx *tabfs.Context) error {
		id, err := tabIDFromByTitleEntry(ctx.String("entry"))
		if err != nil {
			return err
		}
		return c.browser.Tabs().Close(ctx.Context(), id)
	}
	return r
}

func tabIDFromByTitleEntry(entry string) (int64, error) {
	idx := strings.LastIndex(entry, ".")
	if idx < 0 {
		return 0, tabfs.ErrNoEntry("malformed by-title entry: " + entry)
	}
	id, err := strconv.ParseInt(entry[idx+1:], 10, 64)
	if err != nil {
		return 0, tabfs.ErrNoEntry("malformed by-title entry: " + entry)
	}
	return id, nil
}

func (c *Catalog) byIDDirRoute() *tabfs.Route {
	r := tabfs.NewRoute("/tabs/by-id")
	r.ReadDir = func(ctx *tabfs.Context) ([]string, error) {
		tabs, err := c.browser.Tabs().List(ctx.Context())
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		names := make([]string, 0, len(tabs))
		for _, t := range tabs {
			names = append(names, strconv.FormatInt(t.ID, 10))
		}
		return names, nil
	}
	return r
}

// tabFileRoute builds a simple per-tab text file (url.txt, title.txt)
// wired onto the contents adapter: get reads the named field off the tab,
// set pushes a new value back through Tabs().Update.
func (c *Catalog) tabFileRoute(filename string, get func(tabInfo) string, set func(ctx *tabfs.Context, tabID int64, value string) error) *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			info, err := c.tabByID(ctx.Context(), ctx.Int("tabId"))
			if err != nil {
				return "", err
			}
			return get(info), nil
		},
		func(ctx *tabfs.Context, value string) error {
			return set(ctx, ctx.Int("tabId"), value)
		},
	)
	r := tabfs.NewRoute("/tabs/by-id/#TAB_ID/" + filename)
	r.WithContents(contents)
	return r
}
