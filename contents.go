package tabfs

import "sync"

// Contents turns a whole-value getter (and optional setter) into the full
// POSIX file-operation surface a Route needs: getattr, open, read, write,
// release, truncate. Route authors who just want "this path is the string
// X, and writing to it calls Y" never implement seek semantics against live
// browser state themselves.
type Contents struct {
	get func(ctx *Context) ([]byte, error)
	set func(ctx *Context, contents string) error

	mu      sync.Mutex
	handles map[Handle]*openBuffer
}

// openBuffer is the per-open backing buffer a handle owns exclusively. path
// is kept only so Truncate can broadcast a resize to every handle open on
// the same file.
type openBuffer struct {
	path Path
	data []byte
}

// NewContents builds a Contents from a textual getter/setter pair. The
// setter may be nil, in which case the resulting route is read-only.
func NewContents(get func(ctx *Context) (string, error), set func(ctx *Context, contents string) error) *Contents {
	return &Contents{
		get: func(ctx *Context) ([]byte, error) {
			s, err := get(ctx)
			return []byte(s), err
		},
		set:     set,
		handles: make(map[Handle]*openBuffer),
	}
}

// NewBinaryContents builds a read-only Contents around a getter that
// produces raw bytes directly, for files like screenshots where a string
// round-trip would be lossy.
func NewBinaryContents(get func(ctx *Context) ([]byte, error)) *Contents {
	return &Contents{get: get, handles: make(map[Handle]*openBuffer)}
}

// GetAttr reports file mode regular | 0444 | (writable ? 0222 : 0), link
// count 1, and size equal to the byte length of the current getter value.
func (c *Contents) GetAttr(ctx *Context) (Attr, error) {
	data, err := c.get(ctx)
	if err != nil {
		return Attr{}, err
	}
	mode := ModeRegular | 0o444
	if c.set != nil {
		mode |= 0o222
	}
	return Attr{Mode: mode, NLink: 1, Size: int64(len(data))}, nil
}

// Open calls the getter once and stores the result under a fresh handle.
// Reads within this open return exactly the bytes captured here, even if
// the underlying browser state changes before release — see the per-open
// caching design note.
func (c *Contents) Open(ctx *Context) (Handle, error) {
	data, err := c.get(ctx)
	if err != nil {
		return 0, err
	}
	h := sharedHandles.allocate()
	c.mu.Lock()
	c.handles[h] = &openBuffer{path: ctx.Path(), data: data}
	c.mu.Unlock()
	return h, nil
}

// Read returns the substring of the open handle's buffer in
// [offset, offset+size), clamped to the buffer's length.
func (c *Contents) Read(ctx *Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, ok := c.handles[ctx.Handle()]
	if !ok {
		return nil, ErrNoEntry("unknown file handle")
	}
	offset, size := ctx.Offset(), ctx.Size()
	if offset >= int64(len(buf.data)) {
		return []byte{}, nil
	}
	end := offset + size
	if end > int64(len(buf.data)) {
		end = int64(len(buf.data))
	}
	return buf.data[offset:end], nil
}

// Write grows the handle's buffer to at least offset+len(data) (new area is
// zero-padded), copies data into place, calls the setter with the entire
// updated buffer decoded as UTF-8, and returns the number of bytes written.
// This is a full-file rewrite on every chunk by design; authors wanting
// patch semantics override Write on the Route after calling WithContents.
func (c *Contents) Write(ctx *Context) (int, error) {
	c.mu.Lock()
	buf, ok := c.handles[ctx.Handle()]
	if !ok {
		c.mu.Unlock()
		return 0, ErrNoEntry("unknown file handle")
	}
	offset, data := ctx.Offset(), ctx.Buf()
	needed := offset + int64(len(data))
	if needed > int64(len(buf.data)) {
		grown := make([]byte, needed)
		copy(grown, buf.data)
		buf.data = grown
	}
	copy(buf.data[offset:], data)
	updated := string(buf.data)
	c.mu.Unlock()

	if c.set != nil {
		if err := c.set(ctx, updated); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

// Release discards the buffered contents and frees the handle.
func (c *Contents) Release(ctx *Context) error {
	c.mu.Lock()
	delete(c.handles, ctx.Handle())
	c.mu.Unlock()
	return nil
}

// Truncate reads the current contents, reshapes them to the requested
// length (zero-padded or cut), updates every open handle for the same
// path, and calls the setter with the result.
func (c *Contents) Truncate(ctx *Context) error {
	data, err := c.get(ctx)
	if err != nil {
		return err
	}
	reshaped := make([]byte, ctx.Size())
	copy(reshaped, data)

	c.mu.Lock()
	for _, buf := range c.handles {
		if buf.path == ctx.Path() {
			// each handle keeps exclusive ownership of its buffer, so a
			// later write through one open must not leak into another
			buf.data = append([]byte(nil), reshaped...)
		}
	}
	c.mu.Unlock()

	if c.set != nil {
		return c.set(ctx, string(reshaped))
	}
	return nil
}
