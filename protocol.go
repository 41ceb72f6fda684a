package tabfs

// Op names the POSIX filesystem verb a request asks the engine to perform.
type Op string

// The fixed set of operations the dispatcher knows how to route.
const (
	OpGetAttr    Op = "getattr"
	OpReadDir    Op = "readdir"
	OpOpendir    Op = "opendir"
	OpReleasedir Op = "releasedir"
	OpOpen       Op = "open"
	OpRead       Op = "read"
	OpWrite      Op = "write"
	OpRelease    Op = "release"
	OpTruncate   Op = "truncate"
	OpReadlink   Op = "readlink"
	OpUnlink     Op = "unlink"
	OpMknod      Op = "mknod"
)

// Request is the decoded form of one incoming wire message:
// {id, op, path, ...opFields}. Buf arrives base64-encoded on the wire; the
// dispatcher decodes it into raw bytes before a Request ever reaches a
// route handler.
type Request struct {
	ID     int64  `json:"id"`
	Op     Op     `json:"op"`
	Path   string `json:"path"`
	FH     uint64 `json:"fh,omitempty"`
	Offset int64  `json:"offset,omitempty"`
	Size   int64  `json:"size,omitempty"`
	Mode   uint32 `json:"mode,omitempty"`
	Buf    []byte `json:"-"`
	RawBuf string `json:"buf,omitempty"`
}

// Fields is a generic bag of operation-specific result fields. It is the
// dispatcher's wire representation of a reply: {id, op, ...Fields} on
// success, or {id, op, error} on failure. A "buf" entry of type []byte is
// base64-re-encoded by the dispatcher before the reply is sent.
type Fields = map[string]interface{}

// Attr is the {st_mode, st_nlink, st_size} shape returned by getattr.
type Attr struct {
	Mode  uint32
	NLink uint32
	Size  int64
}

// File-type bits composed into Attr.Mode, matching the wire protocol's
// attribute reply shape.
const (
	ModeRegular uint32 = 0o100000
	ModeDir     uint32 = 0o40000
	ModeSymlink uint32 = 0o120000
)
