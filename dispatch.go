package tabfs

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/tliron/commonlog"
)

var dispatchLog = commonlog.GetLogger("tabfs.dispatch")

// requestTimeout is the fixed per-request budget the dispatcher arms before
// giving up and replying ETimedOut. The in-flight handler is not
// cancelled; its eventual completion is simply discarded.
const requestTimeout = 1 * time.Second

// A Transport ferries JSON-shaped messages between the host adapter and
// the dispatcher. The dispatcher is agnostic to how Send/Receive actually
// move bytes — native messaging, a local WebSocket, or a test double all
// satisfy this the same way.
type Transport interface {
	// Receive blocks for the next request, or returns an error (including
	// the passed context's cancellation) if none will ever arrive.
	Receive(ctx context.Context) (*Request, error)
	// Send delivers one reply. Ordering across calls is the transport's
	// responsibility; the engine never reorders or coalesces replies.
	Send(reply Fields) error
}

// A Dispatcher matches incoming requests against a Table, invokes the
// bound handler, and writes the encoded reply back to a Transport.
type Dispatcher struct {
	table     *Table
	transport Transport
}

// NewDispatcher pairs a route table with a transport.
func NewDispatcher(table *Table, transport Transport) *Dispatcher {
	return &Dispatcher{table: table, transport: transport}
}

// Serve reads requests from the transport until ctx is cancelled or the
// transport reports it is done, dispatching each one onto its own
// goroutine, so a slow browser call never blocks the rest of the request
// stream. Synchronization lives in the shared state itself (Contents guards
// its handle table with a mutex; route catalog state does the same).
// Requests are read from the transport in order, but because each runs on
// its own goroutine, later requests can complete before earlier ones.
func (d *Dispatcher) Serve(ctx context.Context) error {
	for {
		req, err := d.transport.Receive(ctx)
		if err != nil {
			return err
		}
		go d.dispatch(ctx, req)
	}
}

// dispatch handles exactly one request: decode, match, invoke, encode,
// reply. It never panics out to the caller — a handler panic is not
// expected in well-formed routes, but this is the request boundary, not a
// place to let one bad request take the whole engine down.
func (d *Dispatcher) dispatch(parent context.Context, req *Request) {
	if err := decodeBuf(req); err != nil {
		d.reply(req.ID, req.Op, Fields{"error": int(EIO)})
		return
	}

	reqCtx, cancel := context.WithTimeout(parent, requestTimeout)
	defer cancel()

	timer := time.AfterFunc(requestTimeout, func() {
		d.reply(req.ID, req.Op, Fields{"error": int(ETimedOut)})
	})
	defer func() {
		if p := recover(); p != nil {
			dispatchLog.Errorf("request %d (%s %s) panicked: %v", req.ID, req.Op, req.Path, p)
			if timer.Stop() {
				d.reply(req.ID, req.Op, Fields{"error": int(EIO)})
			}
		}
	}()

	result, err := d.invoke(reqCtx, req)

	if !timer.Stop() {
		// the timeout already fired and sent a reply; discard this
		// completion per the "reply-and-forget" contract.
		return
	}

	if err != nil {
		errno := errnoOf(err)
		dispatchLog.Debugf("request %d (%s %s) failed: %v", req.ID, req.Op, req.Path, err)
		d.reply(req.ID, req.Op, Fields{"error": int(errno)})
		return
	}

	if buf, ok := result["buf"].([]byte); ok {
		result["buf"] = base64.StdEncoding.EncodeToString(buf)
	}
	d.reply(req.ID, req.Op, result)
}

// match applies the two special cases that precede the route search
// (AppleDouble guard, no-match) and otherwise returns the first matching
// route in table order.
func (d *Dispatcher) match(path string) (*Route, Bindings, error) {
	if Path(path).isAppleDoubleCompanion() {
		return nil, nil, ErrNotSupported("AppleDouble companion file: " + path)
	}
	route, bindings, ok := d.table.Lookup(path)
	if !ok {
		return nil, nil, ErrNoEntry("no route for path: " + path)
	}
	return route, bindings, nil
}

// invoke binds path variables and calls the handler named by req.Op.
func (d *Dispatcher) invoke(goCtx context.Context, req *Request) (Fields, error) {
	route, bindings, err := d.match(req.Path)
	if err != nil {
		return nil, err
	}

	ctx := NewContext(goCtx, req, Path(req.Path), bindings)

	switch req.Op {
	case OpGetAttr:
		if route.GetAttr == nil {
			return nil, ErrNotSupported("getattr not supported on " + req.Path)
		}
		attr, err := route.GetAttr(ctx)
		if err != nil {
			return nil, err
		}
		return Fields{"st_mode": attr.Mode, "st_nlink": attr.NLink, "st_size": attr.Size}, nil

	case OpReadDir:
		if route.ReadDir == nil {
			return nil, ErrNotSupported("readdir not supported on " + req.Path)
		}
		names, err := route.ReadDir(ctx)
		if err != nil {
			return nil, err
		}
		entries := append([]string{".", ".."}, names...)
		return Fields{"entries": entries}, nil

	case OpOpendir:
		if route.Opendir == nil {
			return nil, ErrNotSupported("opendir not supported on " + req.Path)
		}
		h, err := route.Opendir(ctx)
		if err != nil {
			return nil, err
		}
		return Fields{"fh": uint64(h)}, nil

	case OpReleasedir:
		if route.Releasedir == nil {
			return nil, ErrNotSupported("releasedir not supported on " + req.Path)
		}
		return Fields{}, route.Releasedir(ctx)

	case OpOpen:
		if route.Open == nil {
			return nil, ErrNotSupported("open not supported on " + req.Path)
		}
		h, err := route.Open(ctx)
		if err != nil {
			return nil, err
		}
		return Fields{"fh": uint64(h)}, nil

	case OpRead:
		if route.Read == nil {
			return nil, ErrNotSupported("read not supported on " + req.Path)
		}
		data, err := route.Read(ctx)
		if err != nil {
			return nil, err
		}
		return Fields{"buf": data}, nil

	case OpWrite:
		if route.Write == nil {
			return nil, ErrNotSupported("write not supported on " + req.Path)
		}
		n, err := route.Write(ctx)
		if err != nil {
			return nil, err
		}
		return Fields{"size": n}, nil

	case OpRelease:
		if route.Release == nil {
			return nil, ErrNotSupported("release not supported on " + req.Path)
		}
		return Fields{}, route.Release(ctx)

	case OpTruncate:
		if route.Truncate == nil {
			return nil, ErrNotSupported("truncate not supported on " + req.Path)
		}
		return Fields{}, route.Truncate(ctx)

	case OpReadlink:
		if route.Readlink == nil {
			return nil, ErrNotSupported("readlink not supported on " + req.Path)
		}
		target, err := route.Readlink(ctx)
		if err != nil {
			return nil, err
		}
		return Fields{"target": target}, nil

	case OpUnlink:
		if route.Unlink == nil {
			return nil, ErrNotSupported("unlink not supported on " + req.Path)
		}
		return Fields{}, route.Unlink(ctx)

	case OpMknod:
		if route.Mknod == nil {
			return nil, ErrNotSupported("mknod not supported on " + req.Path)
		}
		return Fields{}, route.Mknod(ctx)

	default:
		return nil, ErrNotSupported("unknown operation: " + string(req.Op))
	}
}

func (d *Dispatcher) reply(id int64, op Op, fields Fields) {
	fields["id"] = id
	fields["op"] = op
	if err := d.transport.Send(fields); err != nil {
		dispatchLog.Errorf("failed to send reply for request %d: %v", id, err)
	}
}

// decodeBuf base64-decodes req.RawBuf into req.Buf, if present.
func decodeBuf(req *Request) error {
	if req.RawBuf == "" {
		return nil
	}
	buf, err := base64.StdEncoding.DecodeString(req.RawBuf)
	if err != nil {
		return err
	}
	req.Buf = buf
	return nil
}
