package routes

import (
	"github.com/tliron/commonlog"

	tabfs "github.com/rsnous/tabfs"
	"github.com/rsnous/tabfs/browser"
)

var catalogLog = commonlog.GetLogger("tabfs.routes")

// Catalog owns every piece of process-wide state the route handlers close
// over: the live browser, per-tab evaluation/watch tables, the per-tab
// debug-script map, and the cached background source. Build once via New
// and hand Table() to a tabfs.Dispatcher.
type Catalog struct {
	browser browser.Browser

	evals  *evalTable
	watch  *watchTable
	debug  *debugState
	source *backgroundSource

	table *tabfs.Table
}

// New builds the full route catalog backing a live (or fake) browser.
func New(b browser.Browser, ownSource func() (string, error)) *Catalog {
	c := &Catalog{
		browser: b,
		evals:   newEvalTable(),
		watch:   newWatchTable(),
		debug:   newDebugState(b.Debugger()),
		source:  newBackgroundSource(ownSource),
	}

	var routes []*tabfs.Route
	routes = append(routes, c.tabRoutes()...)
	routes = append(routes, c.windowRoutes()...)
	routes = append(routes, c.extensionRoutes()...)
	routes = append(routes, c.runtimeRoutes()...)
	routes = append(routes, c.captureRoutes()...)
	c.table = tabfs.NewTable(routes...)
	catalogLog.Infof("route table built with %d declared routes", len(routes))
	return c
}

// Table returns the compiled route table, ready for a tabfs.Dispatcher.
func (c *Catalog) Table() *tabfs.Table {
	return c.table
}
