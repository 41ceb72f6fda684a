package routes

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	tabfs "github.com/rsnous/tabfs"
	"github.com/rsnous/tabfs/browser"
)

// waitFor polls cond until it holds or the deadline passes. The debug-script
// map is populated from an event stream drained on a separate goroutine, so
// tests observing it have to wait for the events to land.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func lookupCtx(t *testing.T, table *tabfs.Table, path string, req *tabfs.Request) (*tabfs.Route, *tabfs.Context) {
	t.Helper()
	route, bindings, ok := table.Lookup(path)
	if !ok {
		t.Fatalf("no route for %s", path)
	}
	if req == nil {
		req = &tabfs.Request{Path: path}
	} else {
		req.Path = path
	}
	return route, tabfs.NewContext(context.Background(), req, tabfs.Path(path), bindings)
}

func TestCatalogTabsListing(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")

	table := New(fake, func() (string, error) { return "// source\n", nil }).Table()

	route, ctx := lookupCtx(t, table, "/tabs/by-id", nil)
	names, err := route.ReadDir(ctx)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	found := false
	for _, n := range names {
		if n == strconv.FormatInt(id, 10) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected tab %d to be listed, got %v", id, names)
	}
}

func TestCatalogTabURLReadWrite(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	path := "/tabs/by-id/" + strconv.FormatInt(id, 10) + "/url.txt"
	route, ctx := lookupCtx(t, table, path, nil)

	h, err := route.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, readCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(h), Size: 1 << 20})
	data, err := route.Read(readCtx)
	if err != nil || string(data) != "https://example.com" {
		t.Fatalf("Read = %q, %v", data, err)
	}

	_, writeCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(h), Buf: []byte("https://other.example")})
	if _, err := route.Write(writeCtx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := fake.Tabs().Get(context.Background(), id)
	if err != nil || info.URL != "https://other.example" {
		t.Fatalf("tab URL after write = %q, %v", info.URL, err)
	}
}

func TestCatalogByTitleSymlink(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "My Tab", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	entry := byTitleName("My Tab", id)
	path := "/tabs/by-title/" + entry
	route, ctx := lookupCtx(t, table, path, nil)

	target, err := route.Readlink(ctx)
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	want := "../by-id/" + strconv.FormatInt(id, 10)
	if target != want {
		t.Fatalf("Readlink = %q, want %q", target, want)
	}
}

func TestCatalogByTitleUnlinkClosesTab(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "My Tab", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	entry := byTitleName("My Tab", id)
	path := "/tabs/by-title/" + entry
	route, ctx := lookupCtx(t, table, path, nil)

	if err := route.Unlink(ctx); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if _, err := fake.Tabs().Get(context.Background(), id); err == nil {
		t.Fatalf("expected the tab to be closed")
	}
}

func TestCatalogInputsUnknownID(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	path := "/tabs/by-id/" + strconv.FormatInt(id, 10) + "/inputs/missing.txt"
	route, ctx := lookupCtx(t, table, path, nil)

	if _, err := route.GetAttr(ctx); err == nil {
		t.Fatalf("expected an error for an unknown input id")
	}
}

func TestCatalogEvalsRoundTrip(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	codePath := "/tabs/by-id/" + strconv.FormatInt(id, 10) + "/evals/check"
	route, ctx := lookupCtx(t, table, codePath, nil)
	if err := route.Mknod(ctx); err != nil {
		t.Fatalf("Mknod: %v", err)
	}

	_, writeCtx := lookupCtx(t, table, codePath, &tabfs.Request{Buf: []byte("1+1")})
	if _, err := route.Write(writeCtx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	resultPath := codePath + ".result"
	resultRoute, resultCtx := lookupCtx(t, table, resultPath, nil)
	got, err := resultRoute.Read(resultCtx)
	if err != nil {
		t.Fatalf("Read .result: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected a non-empty eval result")
	}
}

func TestCatalogWindowBoundsReadWrite(t *testing.T) {
	fake := browser.NewFake()
	fake.AddTab(7, "Example", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	path := "/windows/7/bounds.txt"
	route, openCtx := lookupCtx(t, table, path, nil)
	fh, err := route.Open(openCtx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, writeCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(fh), Buf: []byte("10,20,800,600")})
	if _, err := route.Write(writeCtx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	win, err := fake.Windows().Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get window: %v", err)
	}
	want := browser.Bounds{Left: 10, Top: 20, Width: 800, Height: 600}
	if win.Bounds != want {
		t.Fatalf("window bounds = %+v, want %+v", win.Bounds, want)
	}
}

func TestCatalogWindowStateReadWrite(t *testing.T) {
	fake := browser.NewFake()
	fake.AddTab(7, "Example", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	path := "/windows/7/state.txt"
	route, openCtx := lookupCtx(t, table, path, nil)
	fh, err := route.Open(openCtx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, writeCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(fh), Buf: []byte("maximized")})
	if _, err := route.Write(writeCtx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	win, err := fake.Windows().Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get window: %v", err)
	}
	if win.State != "maximized" {
		t.Fatalf("window state = %q, want %q", win.State, "maximized")
	}

	_, readOpenCtx := lookupCtx(t, table, path, nil)
	readFH, err := route.Open(readOpenCtx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, readCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(readFH), Size: 1 << 20})
	data, err := route.Read(readCtx)
	if err != nil || string(data) != "maximized\n" {
		t.Fatalf("Read = %q, %v", data, err)
	}
}

func TestCatalogExtensionManagementReload(t *testing.T) {
	fake := browser.NewFake()
	fake.AddExtension("abc123", "My Extension", "1.0")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	route, ctx := lookupCtx(t, table, "/extensions/abc123/management/reload", nil)
	if err := route.Mknod(ctx); err != nil {
		t.Fatalf("Mknod reload: %v", err)
	}
}

func TestCatalogExtensionManagementUninstall(t *testing.T) {
	fake := browser.NewFake()
	fake.AddExtension("abc123", "My Extension", "1.0")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	route, ctx := lookupCtx(t, table, "/extensions/abc123/management/uninstall", nil)
	if err := route.Mknod(ctx); err != nil {
		t.Fatalf("Mknod uninstall: %v", err)
	}

	if _, err := fake.Extensions().Get(context.Background(), "abc123"); err == nil {
		t.Fatalf("expected the extension to be uninstalled")
	}
}

func TestCatalogDebuggerScriptsListing(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")
	fake.AddScript(id, browser.Script{ID: "12", URL: "https://example.com/app.js", Source: "console.log(1)"})
	table := New(fake, func() (string, error) { return "", nil }).Table()

	dirPath := "/tabs/by-id/" + strconv.FormatInt(id, 10) + "/debugger/scripts"
	route, ctx := lookupCtx(t, table, dirPath, nil)

	want := "12_" + sanitizeFilename("https://example.com/app.js")
	waitFor(t, "the seeded script to appear in the listing", func() bool {
		names, err := route.ReadDir(ctx)
		if err != nil {
			return false
		}
		for _, n := range names {
			if n == want {
				return true
			}
		}
		return false
	})
}

func TestCatalogDebuggerScriptReadWrite(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")
	fake.AddScript(id, browser.Script{ID: "12", URL: "https://example.com/app.js", Source: "console.log(1)"})
	table := New(fake, func() (string, error) { return "", nil }).Table()

	path := "/tabs/by-id/" + strconv.FormatInt(id, 10) + "/debugger/scripts/12_" +
		sanitizeFilename("https://example.com/app.js")
	route, ctx := lookupCtx(t, table, path, nil)

	waitFor(t, "the script source to become readable", func() bool {
		data, err := route.Read(ctx)
		return err == nil && string(data) == "console.log(1)"
	})

	_, writeCtx := lookupCtx(t, table, path, &tabfs.Request{Buf: []byte("console.log(2)")})
	if _, err := route.Write(writeCtx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := route.Read(ctx)
	if err != nil || string(data) != "console.log(2)" {
		t.Fatalf("Read after write = %q, %v", data, err)
	}
}

func TestCatalogCaptureRead(t *testing.T) {
	fake := browser.NewFake()
	id := fake.AddTab(1, "Example", "https://example.com")
	table := New(fake, func() (string, error) { return "", nil }).Table()

	path := "/captures/" + strconv.FormatInt(id, 10) + ".png"
	route, ctx := lookupCtx(t, table, path, nil)

	h, err := route.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, readCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(h), Size: 1 << 20})
	data, err := route.Read(readCtx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected a PNG header, got %q", data)
	}
}

func TestCatalogBackgroundSourceWriteTakesEffect(t *testing.T) {
	fake := browser.NewFake()
	table := New(fake, func() (string, error) { return "// v1\n", nil }).Table()

	path := "/runtime/background.js"
	route, ctx := lookupCtx(t, table, path, nil)

	h, err := route.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, readCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(h), Size: 1 << 20})
	data, err := route.Read(readCtx)
	if err != nil || string(data) != "// v1\n" {
		t.Fatalf("Read = %q, %v", data, err)
	}

	_, writeCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(h), Buf: []byte("// v2\n")})
	if _, err := route.Write(writeCtx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	h2, err := route.Open(ctx)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_, rereadCtx := lookupCtx(t, table, path, &tabfs.Request{FH: uint64(h2), Size: 1 << 20})
	data, err = route.Read(rereadCtx)
	if err != nil || string(data) != "// v2\n" {
		t.Fatalf("Read after write = %q, %v", data, err)
	}
}

func TestCatalogRuntimeLastError(t *testing.T) {
	fake := browser.NewFake()
	table := New(fake, func() (string, error) { return "", nil }).Table()

	RecordError("tab 7 rejected the update")
	route, ctx := lookupCtx(t, table, "/runtime/last_error.txt", nil)
	data, err := route.Read(ctx)
	if err != nil || string(data) != "tab 7 rejected the update" {
		t.Fatalf("Read = %q, %v", data, err)
	}
}
