// Package cdp implements browser.Debugger by speaking the Chrome DevTools
// Protocol directly over a websocket, for deployments where the engine talks
// to a debuggable browser target instead of going through an extension's own
// chrome.debugger calls. One Client serves every tab that shares a single
// target websocket endpoint.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rsnous/tabfs/browser"
)

// Client is a single CDP websocket connection. Every outgoing command
// carries a fresh correlation id so concurrent commands from different
// route handlers can share the one connection safely.
type Client struct {
	conn *websocket.Conn

	mu      sync.Mutex
	pending map[string]chan json.RawMessage
	events  map[int64]chan browser.Event
}

// Dial connects to a CDP target's websocket debugger URL (as returned by
// the browser's /json endpoint) and starts reading its message stream.
func Dial(ctx context.Context, targetWSURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, targetWSURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cdp: dial %s: %w", targetWSURL, err)
	}
	c := &Client{
		conn:    conn,
		pending: make(map[string]chan json.RawMessage),
		events:  make(map[int64]chan browser.Event),
	}
	go c.readLoop()
	return c, nil
}

type wireCommand struct {
	ID     string                 `json:"id"`
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params,omitempty"`
}

type wireMessage struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.ID != "" {
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			if ok {
				if msg.Error != nil {
					ch <- json.RawMessage(fmt.Sprintf(`{"error":%q}`, msg.Error.Message))
				} else {
					ch <- msg.Result
				}
				close(ch)
			}
			continue
		}
		if msg.Method != "" {
			c.dispatchEvent(msg.Method, msg.Params)
		}
	}
}

func (c *Client) dispatchEvent(method string, params json.RawMessage) {
	var decoded map[string]interface{}
	json.Unmarshal(params, &decoded)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.events {
		select {
		case ch <- browser.Event{Method: method, Params: decoded}:
		default:
		}
	}
}

// Command sends method with params, tagged with a fresh uuid so its
// response can be matched against concurrent in-flight commands, and
// returns the raw JSON result.
func (c *Client) Command(ctx context.Context, tabID int64, method string, params map[string]interface{}) (string, error) {
	id := uuid.NewString()
	reply := make(chan json.RawMessage, 1)

	c.mu.Lock()
	c.pending[id] = reply
	c.mu.Unlock()

	if err := c.conn.WriteJSON(wireCommand{ID: id, Method: method, Params: params}); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return "", fmt.Errorf("cdp: write %s: %w", method, err)
	}

	select {
	case result := <-reply:
		return string(result), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Attach is a no-op for a Client dialed directly against one target's
// websocket: the connection itself is the attachment.
func (c *Client) Attach(ctx context.Context, tabID int64) error {
	c.mu.Lock()
	if c.events[tabID] == nil {
		c.events[tabID] = make(chan browser.Event, 16)
	}
	c.mu.Unlock()
	return nil
}

// Detach closes tabID's event channel. The underlying websocket stays open
// for other tabs sharing this Client.
func (c *Client) Detach(ctx context.Context, tabID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.events[tabID]; ok {
		close(ch)
		delete(c.events, tabID)
	}
	return nil
}

// Events returns the event channel for tabID, attaching first if needed.
func (c *Client) Events(ctx context.Context, tabID int64) (<-chan browser.Event, error) {
	if err := c.Attach(ctx, tabID); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[tabID], nil
}

var _ browser.Debugger = (*Client)(nil)
