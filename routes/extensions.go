package routes

import (
	tabfs "github.com/rsnous/tabfs"
)

// extensionRoutes builds every route under /extensions: a directory listing
// each extension by id, and per extension a name.txt file holding the
// sanitized name, an enabled.txt flag writable to enable or disable the
// extension, and two mknod-triggered management actions (touch to reload,
// touch to uninstall). Extensions are listed by id only; there is no entry
// named after the extension.
func (c *Catalog) extensionRoutes() []*tabfs.Route {
	return []*tabfs.Route{
		c.extensionsDirRoute(),
		c.extensionNameRoute(),
		c.extensionEnabledRoute(),
		c.extensionManagementActionRoute("reload", func(ctx *tabfs.Context) error {
			return c.browser.Extensions().Reload(ctx.Context(), ctx.String("extId"))
		}),
		c.extensionManagementActionRoute("uninstall", func(ctx *tabfs.Context) error {
			return c.browser.Extensions().Uninstall(ctx.Context(), ctx.String("extId"))
		}),
	}
}

func (c *Catalog) extensionsDirRoute() *tabfs.Route {
	r := tabfs.NewRoute("/extensions")
	r.ReadDir = func(ctx *tabfs.Context) ([]string, error) {
		exts, err := c.browser.Extensions().List(ctx.Context())
		if err != nil {
			return nil, tabfs.ErrIO(err)
		}
		names := make([]string, 0, len(exts))
		for _, e := range exts {
			names = append(names, e.ID)
		}
		return names, nil
	}
	return r
}

func (c *Catalog) extensionNameRoute() *tabfs.Route {
	r := tabfs.NewRoute("/extensions/:EXT_ID/name.txt")
	r.Read = func(ctx *tabfs.Context) ([]byte, error) {
		e, err := c.browser.Extensions().Get(ctx.Context(), ctx.String("extId"))
		if err != nil {
			return nil, tabfs.ErrNoEntry("no such extension: " + ctx.String("extId"))
		}
		return []byte(sanitizeFilename(e.Name) + "\n"), nil
	}
	return r
}

func (c *Catalog) extensionEnabledRoute() *tabfs.Route {
	contents := tabfs.NewContents(
		func(ctx *tabfs.Context) (string, error) {
			e, err := c.browser.Extensions().Get(ctx.Context(), ctx.String("extId"))
			if err != nil {
				return "", tabfs.ErrNoEntry("no such extension: " + ctx.String("extId"))
			}
			if e.Enabled {
				return "1\n", nil
			}
			return "0\n", nil
		},
		func(ctx *tabfs.Context, value string) error {
			enabled := value == "1" || value == "1\n"
			return c.browser.Extensions().SetEnabled(ctx.Context(), ctx.String("extId"), enabled)
		},
	)
	r := tabfs.NewRoute("/extensions/:EXT_ID/enabled.txt")
	r.WithContents(contents)
	return r
}

// extensionManagementActionRoute backs /extensions/<id>/management/<name>:
// mknod (a bare `touch`) performs the action immediately, the same
// create-triggers-effect shape as the evals route group. The file never
// actually exists afterward as far as reads are concerned — it exists only
// to satisfy shell expectations that `touch` succeeds.
func (c *Catalog) extensionManagementActionRoute(name string, perform func(ctx *tabfs.Context) error) *tabfs.Route {
	r := tabfs.NewRoute(
		"/extensions/:EXT_ID/management/"+name,
		"mknod (touch) triggers "+name+" on this extension",
	)
	r.Mknod = perform
	r.GetAttr = func(ctx *tabfs.Context) (tabfs.Attr, error) {
		return tabfs.Attr{Mode: tabfs.ModeRegular | 0o222, NLink: 1, Size: 0}, nil
	}
	r.Open = func(ctx *tabfs.Context) (tabfs.Handle, error) {
		return 0, tabfs.ErrPermissionDenied(name + " is a write-only trigger file")
	}
	return r
}
