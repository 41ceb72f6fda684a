package browser

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Browser used by route-catalog tests and by
// cmd/tabfs-engine, which has no real browser attached. It is safe for
// concurrent use.
type Fake struct {
	mu         sync.Mutex
	tabs       map[int64]Tab
	windows    map[int64]Window
	extensions map[string]Extension
	scripts    map[int64]map[string]Script
	inputs     map[int64]map[string]string
	attached   map[int64]bool
	nextTabID  int64
}

// NewFake builds an empty Fake browser.
func NewFake() *Fake {
	return &Fake{
		tabs:       make(map[int64]Tab),
		windows:    make(map[int64]Window),
		extensions: make(map[string]Extension),
		scripts:    make(map[int64]map[string]Script),
		inputs:     make(map[int64]map[string]string),
		attached:   make(map[int64]bool),
	}
}

// AddTab seeds the fake with a tab and returns its id.
func (f *Fake) AddTab(windowID int64, title, url string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTabID++
	id := f.nextTabID
	f.tabs[id] = Tab{ID: id, WindowID: windowID, Title: title, URL: url}
	w := f.windows[windowID]
	w.ID = windowID
	w.TabIDs = append(w.TabIDs, id)
	f.windows[windowID] = w
	return id
}

// AddExtension seeds the fake with an installed extension.
func (f *Fake) AddExtension(id, name, version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extensions[id] = Extension{ID: id, Name: name, Version: version, Enabled: true}
}

// SetInputValue seeds a DOM input's current value without going through
// SetValue, for test setup.
func (f *Fake) SetInputValue(tabID int64, inputID, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inputs[tabID] == nil {
		f.inputs[tabID] = make(map[string]string)
	}
	f.inputs[tabID][inputID] = value
}

// AddScript registers a script as if the debugger had observed it parsing.
func (f *Fake) AddScript(tabID int64, s Script) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scripts[tabID] == nil {
		f.scripts[tabID] = make(map[string]Script)
	}
	f.scripts[tabID][s.ID] = s
}

func (f *Fake) Tabs() Tabs             { return fakeTabs{f} }
func (f *Fake) Windows() Windows       { return fakeWindows{f} }
func (f *Fake) Extensions() Extensions { return fakeExtensions{f} }
func (f *Fake) Debugger() Debugger     { return fakeDebugger{f} }
func (f *Fake) Inputs() Inputs         { return fakeInputs{f} }

type fakeTabs struct{ f *Fake }

func (t fakeTabs) List(ctx context.Context) ([]Tab, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	out := make([]Tab, 0, len(t.f.tabs))
	for _, tab := range t.f.tabs {
		out = append(out, tab)
	}
	return out, nil
}

func (t fakeTabs) Get(ctx context.Context, id int64) (Tab, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	tab, ok := t.f.tabs[id]
	if !ok {
		return Tab{}, fmt.Errorf("no such tab: %d", id)
	}
	return tab, nil
}

func (t fakeTabs) Update(ctx context.Context, id int64, title, url *string) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	tab, ok := t.f.tabs[id]
	if !ok {
		return fmt.Errorf("no such tab: %d", id)
	}
	if title != nil {
		tab.Title = *title
	}
	if url != nil {
		tab.URL = *url
	}
	t.f.tabs[id] = tab
	return nil
}

func (t fakeTabs) Close(ctx context.Context, id int64) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if _, ok := t.f.tabs[id]; !ok {
		return fmt.Errorf("no such tab: %d", id)
	}
	delete(t.f.tabs, id)
	return nil
}

func (t fakeTabs) Evaluate(ctx context.Context, id int64, expr string) (string, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if _, ok := t.f.tabs[id]; !ok {
		return "", fmt.Errorf("no such tab: %d", id)
	}
	return fmt.Sprintf("%q", expr), nil
}

func (t fakeTabs) CaptureVisible(ctx context.Context, id int64) ([]byte, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if _, ok := t.f.tabs[id]; !ok {
		return nil, fmt.Errorf("no such tab: %d", id)
	}
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

type fakeWindows struct{ f *Fake }

func (w fakeWindows) List(ctx context.Context) ([]Window, error) {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	out := make([]Window, 0, len(w.f.windows))
	for _, win := range w.f.windows {
		out = append(out, win)
	}
	return out, nil
}

func (w fakeWindows) Get(ctx context.Context, id int64) (Window, error) {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	win, ok := w.f.windows[id]
	if !ok {
		return Window{}, fmt.Errorf("no such window: %d", id)
	}
	return win, nil
}

func (w fakeWindows) Focus(ctx context.Context, id int64) error {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	win, ok := w.f.windows[id]
	if !ok {
		return fmt.Errorf("no such window: %d", id)
	}
	for other, ww := range w.f.windows {
		ww.Focused = other == id
		w.f.windows[other] = ww
	}
	win.Focused = true
	w.f.windows[id] = win
	return nil
}

func (w fakeWindows) SetState(ctx context.Context, id int64, state string) error {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	win, ok := w.f.windows[id]
	if !ok {
		return fmt.Errorf("no such window: %d", id)
	}
	win.State = state
	w.f.windows[id] = win
	return nil
}

func (w fakeWindows) SetBounds(ctx context.Context, id int64, b Bounds) error {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	win, ok := w.f.windows[id]
	if !ok {
		return fmt.Errorf("no such window: %d", id)
	}
	win.Bounds = b
	w.f.windows[id] = win
	return nil
}

type fakeExtensions struct{ f *Fake }

func (e fakeExtensions) List(ctx context.Context) ([]Extension, error) {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	out := make([]Extension, 0, len(e.f.extensions))
	for _, ext := range e.f.extensions {
		out = append(out, ext)
	}
	return out, nil
}

func (e fakeExtensions) Get(ctx context.Context, id string) (Extension, error) {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	ext, ok := e.f.extensions[id]
	if !ok {
		return Extension{}, fmt.Errorf("no such extension: %s", id)
	}
	return ext, nil
}

func (e fakeExtensions) SetEnabled(ctx context.Context, id string, enabled bool) error {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	ext, ok := e.f.extensions[id]
	if !ok {
		return fmt.Errorf("no such extension: %s", id)
	}
	ext.Enabled = enabled
	e.f.extensions[id] = ext
	return nil
}

func (e fakeExtensions) Reload(ctx context.Context, id string) error {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	ext, ok := e.f.extensions[id]
	if !ok {
		return fmt.Errorf("no such extension: %s", id)
	}
	ext.Enabled = true
	e.f.extensions[id] = ext
	return nil
}

func (e fakeExtensions) Uninstall(ctx context.Context, id string) error {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	if _, ok := e.f.extensions[id]; !ok {
		return fmt.Errorf("no such extension: %s", id)
	}
	delete(e.f.extensions, id)
	return nil
}

type fakeDebugger struct{ f *Fake }

func (d fakeDebugger) Attach(ctx context.Context, tabID int64) error {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()
	d.f.attached[tabID] = true
	return nil
}

func (d fakeDebugger) Detach(ctx context.Context, tabID int64) error {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()
	delete(d.f.attached, tabID)
	return nil
}

func (d fakeDebugger) Command(ctx context.Context, tabID int64, method string, params map[string]interface{}) (string, error) {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()
	if !d.f.attached[tabID] {
		return "", fmt.Errorf("debugger not attached to tab %d", tabID)
	}
	switch method {
	case "Debugger.getScriptSource":
		scriptID, _ := params["scriptId"].(string)
		scripts := d.f.scripts[tabID]
		if s, ok := scripts[scriptID]; ok {
			return fmt.Sprintf(`{"scriptSource":%q}`, s.Source), nil
		}
		return "", fmt.Errorf("no such script: %s", scriptID)
	case "Debugger.setScriptSource":
		scriptID, _ := params["scriptId"].(string)
		source, _ := params["scriptSource"].(string)
		scripts := d.f.scripts[tabID]
		if s, ok := scripts[scriptID]; ok {
			s.Source = source
			scripts[scriptID] = s
			return "{}", nil
		}
		return "", fmt.Errorf("no such script: %s", scriptID)
	default:
		return "{}", nil
	}
}

// Events replays a Debugger.scriptParsed notification for every script
// already seeded via AddScript, then closes the channel. A real debugger
// keeps its stream open; for the fake, the seeded scripts are the whole
// history.
func (d fakeDebugger) Events(ctx context.Context, tabID int64) (<-chan Event, error) {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()
	scripts := d.f.scripts[tabID]
	ch := make(chan Event, len(scripts))
	for _, s := range scripts {
		ch <- Event{Method: "Debugger.scriptParsed", Params: map[string]interface{}{
			"scriptId": s.ID,
			"url":      s.URL,
		}}
	}
	close(ch)
	return ch, nil
}

type fakeInputs struct{ f *Fake }

func (i fakeInputs) GetValue(ctx context.Context, tabID int64, inputID string) (string, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	values := i.f.inputs[tabID]
	v, ok := values[inputID]
	if !ok {
		return "", fmt.Errorf("no such entry: %s", inputID)
	}
	return v, nil
}

func (i fakeInputs) SetValue(ctx context.Context, tabID int64, inputID string, value string) error {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	if i.f.inputs[tabID] == nil {
		i.f.inputs[tabID] = make(map[string]string)
	}
	if _, ok := i.f.inputs[tabID][inputID]; !ok {
		return fmt.Errorf("no such entry: %s", inputID)
	}
	i.f.inputs[tabID][inputID] = value
	return nil
}
