// Package wsfallback implements the local-WebSocket compatibility transport:
// when native messaging isn't available, the host adapter instead listens
// on ws://localhost:9991 and a single page-side client connects to it,
// retrying with exponential backoff until the connection is accepted.
package wsfallback

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	tabfs "github.com/rsnous/tabfs"
)

var log = commonlog.GetLogger("tabfs.transport.wsfallback")

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Listener accepts the single inbound connection the extension's page-side
// script makes after being woken by a "did connect" native message, and
// exposes it as a tabfs.Transport once connected.
type Listener struct {
	addr     string
	upgrader websocket.Upgrader
	accepted chan *Transport
}

// NewListener builds a Listener bound to addr (e.g. "localhost:9991").
func NewListener(addr string) *Listener {
	return &Listener{addr: addr, accepted: make(chan *Transport, 1)}
}

// Serve runs the HTTP server accepting upgrade requests until ctx is
// cancelled. Each upgraded connection is queued for Accept; a Transport
// already returned by Accept is not closed or replaced when a later
// connection arrives.
func (l *Listener) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorf("websocket upgrade failed: %v", err)
			return
		}
		select {
		case l.accepted <- newTransport(conn):
		case <-ctx.Done():
			conn.Close()
		}
	})

	server := &http.Server{Addr: l.addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return server.Close()
	case err := <-errCh:
		return err
	}
}

// Accept blocks until a client has connected and returns the resulting
// Transport.
func (l *Listener) Accept(ctx context.Context) (*Transport, error) {
	select {
	case t := <-l.accepted:
		return t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Transport implements tabfs.Transport over one gorilla/websocket
// connection, JSON-framing each message in both directions.
type Transport struct {
	conn *websocket.Conn
}

func newTransport(conn *websocket.Conn) *Transport {
	return &Transport{conn: conn}
}

// Dial connects to a local-WebSocket host, retrying with exponential
// backoff starting at 200ms (capped at maxBackoff) until the connection is
// accepted or ctx is cancelled — the page-side half of the "did connect"
// wake-and-poll handshake described in the wire protocol.
func Dial(ctx context.Context, url string) (*Transport, error) {
	backoff := initialBackoff
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err == nil {
			return newTransport(conn), nil
		}
		log.Debugf("dial %s failed: %v, retrying in %s", url, err, backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, fmt.Errorf("wsfallback: dial %s: %w", url, ctx.Err())
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (t *Transport) Receive(ctx context.Context) (*tabfs.Request, error) {
	var req tabfs.Request
	if err := t.conn.ReadJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (t *Transport) Send(reply tabfs.Fields) error {
	return t.conn.WriteJSON(reply)
}

var _ tabfs.Transport = (*Transport)(nil)
