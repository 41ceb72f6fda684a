// Package nativemessaging implements the standard Chrome native-messaging
// framing on stdin/stdout: each message is a 4-byte little-endian length
// prefix followed by that many bytes of UTF-8 JSON.
package nativemessaging

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	tabfs "github.com/rsnous/tabfs"
)

// maxMessageBytes matches the browser's own native-messaging limit (1 MiB
// from the host to the browser); a frame claiming more is a protocol error.
const maxMessageBytes = 1 << 20

// Transport implements tabfs.Transport over a pair of byte streams framed
// with a 4-byte length prefix, matching the native-messaging host protocol.
// Receive and Send may be called from different goroutines; Send serializes
// concurrent writers.
type Transport struct {
	r io.Reader

	writeMu sync.Mutex
	w       io.Writer
}

// New wraps r/w (typically os.Stdin/os.Stdout) as a Transport.
func New(r io.Reader, w io.Writer) *Transport {
	return &Transport{r: r, w: w}
}

// Receive blocks for the next length-prefixed frame and decodes it as a
// Request. io.EOF (stdin closed, the extension disconnected) is returned
// unwrapped so callers can distinguish "done" from a framing error. ctx is
// accepted to satisfy tabfs.Transport but isn't consulted: the underlying
// read is a blocking stdio call with no cancellation hook, matching how
// native messaging hosts are normally written.
func (t *Transport) Receive(ctx context.Context) (*tabfs.Request, error) {
	var length uint32
	if err := binary.Read(t.r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length > maxMessageBytes {
		return nil, fmt.Errorf("nativemessaging: frame of %d bytes exceeds the %d byte limit", length, maxMessageBytes)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(t.r, buf); err != nil {
		return nil, err
	}

	var req tabfs.Request
	if err := json.Unmarshal(buf, &req); err != nil {
		return nil, fmt.Errorf("nativemessaging: decode frame: %w", err)
	}
	return &req, nil
}

// Send encodes reply as JSON and writes it as one length-prefixed frame.
func (t *Transport) Send(reply tabfs.Fields) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("nativemessaging: encode reply: %w", err)
	}
	if len(data) > maxMessageBytes {
		return fmt.Errorf("nativemessaging: reply of %d bytes exceeds the %d byte limit", len(data), maxMessageBytes)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := binary.Write(t.w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err = t.w.Write(data)
	return err
}

var _ tabfs.Transport = (*Transport)(nil)
