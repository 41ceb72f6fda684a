package tabfs

import "sort"

// Handler function types, one per operation a Route may declare. A Route
// leaves a field nil to mean "this operation is not declared"; the
// dispatcher reports ENotSupported for those, unless default-handler
// injection (see injectDefaults) has filled it in.
type (
	GetAttrFunc    func(ctx *Context) (Attr, error)
	ReadDirFunc    func(ctx *Context) ([]string, error)
	OpenFunc       func(ctx *Context) (Handle, error)
	OpendirFunc    func(ctx *Context) (Handle, error)
	ReadFunc       func(ctx *Context) ([]byte, error)
	WriteFunc      func(ctx *Context) (int, error)
	ReleaseFunc    func(ctx *Context) error
	ReleasedirFunc func(ctx *Context) error
	TruncateFunc   func(ctx *Context) error
	ReadlinkFunc   func(ctx *Context) (string, error)
	UnlinkFunc     func(ctx *Context) error
	MknodFunc      func(ctx *Context) error
)

// A Route is an immutable-once-built record mapping one compiled path
// pattern to the set of operations it supports. Route fields are exported
// so the route catalog can set them directly or through the fluent helpers
// below; once handed to NewTable a Route should not be mutated further.
type Route struct {
	pattern   *pattern
	usage     []string
	synthetic bool

	GetAttr    GetAttrFunc
	ReadDir    ReadDirFunc
	Open       OpenFunc
	Opendir    OpendirFunc
	Read       ReadFunc
	Write      WriteFunc
	Release    ReleaseFunc
	Releasedir ReleasedirFunc
	Truncate   TruncateFunc
	Readlink   ReadlinkFunc
	Unlink     UnlinkFunc
	Mknod      MknodFunc
}

// NewRoute compiles pattern and returns an empty Route ready to have its
// operation fields filled in. usage is an optional self-documentation hint,
// returned by Usage; it may be a single string or an ordered sequence of
// example invocations.
func NewRoute(routePattern string, usage ...string) *Route {
	return &Route{pattern: compilePattern(routePattern), usage: usage}
}

// WithContents wires every operation the contents adapter can answer
// (getattr, open, read, write, release, truncate) onto this route in one
// call. Handlers already set on the Route are left alone, so a route can
// still override, say, Write for patch semantics after calling this.
func (r *Route) WithContents(c *Contents) *Route {
	if r.GetAttr == nil {
		r.GetAttr = c.GetAttr
	}
	if r.Open == nil {
		r.Open = c.Open
	}
	if r.Read == nil {
		r.Read = c.Read
	}
	if r.Write == nil {
		r.Write = c.Write
	}
	if r.Release == nil {
		r.Release = c.Release
	}
	if r.Truncate == nil {
		r.Truncate = c.Truncate
	}
	return r
}

// Pattern returns the raw pattern string this route was compiled from.
func (r *Route) Pattern() string {
	return r.pattern.raw
}

// Usage returns the route's self-documentation hint, if any.
func (r *Route) Usage() []string {
	return r.usage
}

// Synthetic reports whether this route was introduced by ancestor synthesis
// rather than declared by the catalog.
func (r *Route) Synthetic() bool {
	return r.synthetic
}

// canonicalKey returns the key used to index this route's pattern in a
// Table: the pattern string with slashes normalized, so "/a/b" and "a/b/"
// collide as intended.
func (r *Route) canonicalKey() string {
	return Path(r.pattern.raw).String()
}

// A Table holds the ordered set of routes a Dispatcher searches. It is
// built once via NewTable: author-declared routes first (in source order),
// then ancestor-synthesized directory routes, then default-handler
// injection — the dispatcher never observes an intermediate state.
type Table struct {
	entries []*Route
	index   map[string]*Route
}

// NewTable builds the full route table from the catalog's declared routes:
// phase A (as given), phase B (ancestor synthesis), phase C (default
// handler injection).
func NewTable(routes ...*Route) *Table {
	t := &Table{index: make(map[string]*Route)}
	for _, r := range routes {
		t.add(r)
	}
	t.synthesizeAncestors()
	t.injectDefaults()
	return t
}

func (t *Table) add(r *Route) {
	key := r.canonicalKey()
	if _, exists := t.index[key]; exists {
		return
	}
	t.index[key] = r
	t.entries = append(t.entries, r)
}

// Lookup iterates the table in insertion order and returns the first route
// whose pattern matches path, plus the bound path variables. This linear
// scan, not a perfect-hash or trie lookup, is what makes route order
// observable when two patterns overlap (see match in dispatch.go).
func (t *Table) Lookup(path string) (*Route, Bindings, bool) {
	for _, r := range t.entries {
		if bindings, ok := r.pattern.match(path); ok {
			return r, bindings, true
		}
	}
	return nil, nil, false
}

// routesAtDepth returns the routes currently in the table whose pattern has
// exactly the given depth (number of path segments).
func (t *Table) routesAtDepth(depth int) []*Route {
	var out []*Route
	for _, r := range t.entries {
		if Path(r.pattern.raw).Depth() == depth {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) maxDepth() int {
	max := 0
	for _, r := range t.entries {
		if d := Path(r.pattern.raw).Depth(); d > max {
			max = d
		}
	}
	return max
}

// synthesizeAncestors fills in a directory route for every ancestor prefix
// of every declared route that isn't already a key in the table. It walks
// depth from the deepest declared route down to the root so that, by the
// time a parent's children are computed, every route at the child depth
// (declared or already synthesized one level down) is known — a single
// upward sweep per level, no recursion.
func (t *Table) synthesizeAncestors() {
	for depth := t.maxDepth(); depth >= 1; depth-- {
		childNamesByPrefix := map[string][]string{}
		seen := map[string]map[string]bool{}

		for _, r := range t.routesAtDepth(depth) {
			p := Path(r.pattern.raw)
			prefix := p.Parent().String()
			name := p.Names()[len(p.Names())-1]
			if seen[prefix] == nil {
				seen[prefix] = map[string]bool{}
			}
			if !seen[prefix][name] {
				seen[prefix][name] = true
				childNamesByPrefix[prefix] = append(childNamesByPrefix[prefix], name)
			}
		}

		prefixes := make([]string, 0, len(childNamesByPrefix))
		for prefix := range childNamesByPrefix {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)

		for _, prefix := range prefixes {
			if _, exists := t.index[prefix]; exists {
				continue
			}
			children := childNamesByPrefix[prefix]
			sort.Strings(children)
			t.add(newSyntheticDirRoute(prefix, children))
		}
	}
}

// newSyntheticDirRoute builds the synthetic readdir-only route ancestor
// synthesis installs at prefix.
func newSyntheticDirRoute(prefix string, children []string) *Route {
	r := NewRoute(prefix)
	r.synthetic = true
	entries := append([]string{}, children...)
	r.ReadDir = func(ctx *Context) ([]string, error) {
		return entries, nil
	}
	return r
}

const fixedDirHandle Handle = 1

// injectDefaults fills in getattr/opendir/releasedir for directory routes,
// getattr for symlink routes, and getattr/open/release stubs for raw
// read/write routes that didn't come in through the contents adapter.
// Author-supplied handlers are never overwritten.
func (t *Table) injectDefaults() {
	for _, r := range t.entries {
		switch {
		case r.ReadDir != nil:
			if r.GetAttr == nil {
				r.GetAttr = func(ctx *Context) (Attr, error) {
					return Attr{Mode: ModeDir | 0o755, NLink: 3}, nil
				}
			}
			if r.Opendir == nil {
				r.Opendir = func(ctx *Context) (Handle, error) {
					return fixedDirHandle, nil
				}
			}
			if r.Releasedir == nil {
				r.Releasedir = func(ctx *Context) error {
					return nil
				}
			}
		case r.Readlink != nil:
			if r.GetAttr == nil {
				readlink := r.Readlink
				r.GetAttr = func(ctx *Context) (Attr, error) {
					target, err := readlink(ctx)
					if err != nil {
						return Attr{}, err
					}
					return Attr{Mode: ModeSymlink | 0o444, NLink: 1, Size: int64(len(target)) + 1}, nil
				}
			}
		case r.Read != nil || r.Write != nil:
			if r.GetAttr == nil {
				mode := ModeRegular
				if r.Read != nil {
					mode |= 0o444
				}
				if r.Write != nil {
					mode |= 0o222
				}
				r.GetAttr = func(ctx *Context) (Attr, error) {
					return Attr{Mode: mode, NLink: 1, Size: 100}, nil
				}
			}
			if r.Open == nil {
				r.Open = func(ctx *Context) (Handle, error) {
					return sharedHandles.allocate(), nil
				}
			}
			if r.Release == nil {
				r.Release = func(ctx *Context) error {
					return nil
				}
			}
		}
	}
}
