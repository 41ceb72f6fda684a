package tabfs

import "testing"

func newTestContext(op Op, handle Handle, offset, size int64, buf []byte) *Context {
	return &Context{
		req: &Request{Op: op, FH: uint64(handle), Offset: offset, Size: size, Buf: buf},
		path: Path("/test"),
	}
}

func TestContentsReadWriteRoundTrip(t *testing.T) {
	var stored string
	c := NewContents(
		func(ctx *Context) (string, error) { return stored, nil },
		func(ctx *Context, contents string) error { stored = contents; return nil },
	)
	stored = "hello"

	h, err := c.Open(newTestContext(OpOpen, 0, 0, 0, nil))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got, err := c.Read(newTestContext(OpRead, h, 0, 5, nil))
	if err != nil || string(got) != "hello" {
		t.Fatalf("Read = %q, %v, want %q, nil", got, err, "hello")
	}

	if _, err := c.Write(newTestContext(OpWrite, h, 0, 0, []byte("HELLO"))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if stored != "HELLO" {
		t.Fatalf("stored = %q, want %q", stored, "HELLO")
	}

	if err := c.Release(newTestContext(OpRelease, h, 0, 0, nil)); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, ok := c.handles[h]; ok {
		t.Fatalf("expected handle to be released")
	}
}

func TestContentsChunkedWrites(t *testing.T) {
	var stored string
	c := NewContents(
		func(ctx *Context) (string, error) { return stored, nil },
		func(ctx *Context, contents string) error { stored = contents; return nil },
	)

	h, err := c.Open(newTestContext(OpOpen, 0, 0, 0, nil))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	n, err := c.Write(newTestContext(OpWrite, h, 0, 0, []byte("hello")))
	if err != nil || n != 5 {
		t.Fatalf("Write = %d, %v, want 5, nil", n, err)
	}
	n, err = c.Write(newTestContext(OpWrite, h, 5, 0, []byte(" world")))
	if err != nil || n != 6 {
		t.Fatalf("Write = %d, %v, want 6, nil", n, err)
	}

	got, err := c.Read(newTestContext(OpRead, h, 0, 11, nil))
	if err != nil || string(got) != "hello world" {
		t.Fatalf("Read = %q, %v, want %q, nil", got, err, "hello world")
	}
	if stored != "hello world" {
		t.Fatalf("stored = %q, want %q", stored, "hello world")
	}
}

func TestContentsWriteGrowsAndZeroPads(t *testing.T) {
	var stored string
	c := NewContents(
		func(ctx *Context) (string, error) { return stored, nil },
		func(ctx *Context, contents string) error { stored = contents; return nil },
	)
	stored = "ab"

	h, _ := c.Open(newTestContext(OpOpen, 0, 0, 0, nil))
	if _, err := c.Write(newTestContext(OpWrite, h, 4, 0, []byte("Z"))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "ab\x00\x00Z"
	if stored != want {
		t.Fatalf("stored = %q, want %q", stored, want)
	}
}

func TestContentsReadClampsToLength(t *testing.T) {
	c := NewContents(func(ctx *Context) (string, error) { return "hi", nil }, nil)
	h, _ := c.Open(newTestContext(OpOpen, 0, 0, 0, nil))

	got, err := c.Read(newTestContext(OpRead, h, 0, 100, nil))
	if err != nil || string(got) != "hi" {
		t.Fatalf("Read = %q, %v, want %q, nil", got, err, "hi")
	}

	got, err = c.Read(newTestContext(OpRead, h, 10, 5, nil))
	if err != nil || len(got) != 0 {
		t.Fatalf("Read past EOF = %q, %v, want empty, nil", got, err)
	}
}

func TestContentsTruncateGrowsAndBroadcasts(t *testing.T) {
	var stored string
	c := NewContents(
		func(ctx *Context) (string, error) { return stored, nil },
		func(ctx *Context, contents string) error { stored = contents; return nil },
	)
	stored = "ab"

	h1, _ := c.Open(newTestContext(OpOpen, 0, 0, 0, nil))
	h2, _ := c.Open(newTestContext(OpOpen, 0, 0, 0, nil))

	if err := c.Truncate(newTestContext(OpTruncate, 0, 0, 4, nil)); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if stored != "ab\x00\x00" {
		t.Fatalf("stored = %q, want %q", stored, "ab\x00\x00")
	}

	for _, h := range []Handle{h1, h2} {
		got, err := c.Read(newTestContext(OpRead, h, 0, 4, nil))
		if err != nil || string(got) != "ab\x00\x00" {
			t.Fatalf("handle %d Read after truncate = %q, %v", h, got, err)
		}
	}
}

func TestContentsGetAttrReflectsWritability(t *testing.T) {
	ro := NewContents(func(ctx *Context) (string, error) { return "x", nil }, nil)
	attr, err := ro.GetAttr(newTestContext(OpGetAttr, 0, 0, 0, nil))
	if err != nil {
		t.Fatalf("GetAttr: %v", err)
	}
	if attr.Mode&0o222 != 0 {
		t.Fatalf("expected read-only contents to have no write bits, got mode %o", attr.Mode)
	}

	rw := NewContents(func(ctx *Context) (string, error) { return "x", nil }, func(ctx *Context, s string) error { return nil })
	attr, err = rw.GetAttr(newTestContext(OpGetAttr, 0, 0, 0, nil))
	if err != nil {
		t.Fatalf("GetAttr: %v", err)
	}
	if attr.Mode&0o222 == 0 {
		t.Fatalf("expected read-write contents to have write bits, got mode %o", attr.Mode)
	}
}
