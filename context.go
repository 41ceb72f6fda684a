package tabfs

import "context"

// A Context is the merged view of a request's scalar fields plus the path
// variables bound by the matching route's pattern, passed to every route
// handler. It implements the RoutingContext role the route catalog relies
// on to read both "which tab/window/script is this" (from the path) and
// "what did the client ask for" (from the request).
type Context struct {
	goCtx    context.Context
	req      *Request
	path     Path
	bindings Bindings
}

// NewContext builds a Context directly from its parts, for route handlers
// exercised outside a live Dispatcher — typically in tests that want to
// drive a Route's handlers against a fake collaborator without going
// through the wire protocol.
func NewContext(goCtx context.Context, req *Request, path Path, bindings Bindings) *Context {
	return &Context{goCtx: goCtx, req: req, path: path, bindings: bindings}
}

// Context returns the Go execution context for this request. It carries the
// per-request timeout armed by the dispatcher (see dispatch.go) and should
// be threaded through any blocking call into a browser capability.
func (c *Context) Context() context.Context {
	return c.goCtx
}

// Op returns the requested operation.
func (c *Context) Op() Op {
	return c.req.Op
}

// RequestID returns the identifier the client attached to this request.
func (c *Context) RequestID() int64 {
	return c.req.ID
}

// Path returns the normalized request path.
func (c *Context) Path() Path {
	return c.path
}

// Handle returns the client-supplied file handle (fh), for read/write/
// release/releasedir/truncate requests.
func (c *Context) Handle() Handle {
	return Handle(c.req.FH)
}

// Offset returns the byte offset for read/write requests.
func (c *Context) Offset() int64 {
	return c.req.Offset
}

// Size returns the requested size for read/truncate requests.
func (c *Context) Size() int64 {
	return c.req.Size
}

// Mode returns the file mode a mknod request asked to create.
func (c *Context) Mode() uint32 {
	return c.req.Mode
}

// Buf returns the raw bytes of a write request, already base64-decoded.
func (c *Context) Buf() []byte {
	return c.req.Buf
}

// Int returns the value of an integer ("#") path variable bound by the
// matching pattern. It panics if name was not declared as an integer
// variable in the route's pattern — a programming error in the catalog, not
// a runtime condition a client can trigger.
func (c *Context) Int(name string) int64 {
	v, ok := c.bindings[name]
	if !ok {
		panic("tabfs: no such path variable: " + name)
	}
	n, ok := v.(int64)
	if !ok {
		panic("tabfs: path variable " + name + " is not an integer variable")
	}
	return n
}

// String returns the value of a string (":") path variable bound by the
// matching pattern, or the empty string if name was not bound.
func (c *Context) String(name string) string {
	v, ok := c.bindings[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
