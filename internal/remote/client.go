// Package remote implements history.Store against a syncd server.
package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/verte-zerg/typesync/internal/history"
	"github.com/verte-zerg/typesync/internal/syncd"
)

// ErrClosed is returned for calls on a closed or broken connection.
var ErrClosed = errors.New("remote store connection closed")

// Client multiplexes store calls over one websocket connection. Replies
// are matched to calls by request id.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan syncd.Response
	err     error
	done    chan struct{}
}

var _ history.Store = (*Client)(nil)

// Dial connects to a syncd endpoint such as ws://host:8787/sync.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial sync server: %w", err)
	}
	c := &Client{
		conn:    conn,
		pending: map[uint64]chan syncd.Response{},
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Get implements history.Store.
func (c *Client) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	resp, err := c.call(ctx, syncd.Request{Op: syncd.OpGet, Keys: keys})
	if err != nil {
		return nil, err
	}
	if resp.Values == nil {
		resp.Values = map[string][]byte{}
	}
	return resp.Values, nil
}

// Set implements history.Store.
func (c *Client) Set(ctx context.Context, entries map[string][]byte) error {
	_, err := c.call(ctx, syncd.Request{Op: syncd.OpSet, Entries: entries})
	return err
}

// Close closes the connection and fails pending calls.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	err := c.conn.Close()
	c.shutdown(ErrClosed)
	return err
}

func (c *Client) call(ctx context.Context, req syncd.Request) (syncd.Response, error) {
	ch := make(chan syncd.Response, 1)
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return syncd.Response{}, err
	}
	c.nextID++
	req.ID = c.nextID
	c.pending[req.ID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(req.ID)
		return syncd.Response{}, fmt.Errorf("failed to send %s request: %w", req.Op, err)
	}

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return resp, fmt.Errorf("sync server: %s", resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(req.ID)
		return syncd.Response{}, ctx.Err()
	case <-c.done:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return syncd.Response{}, err
	}
}

func (c *Client) readLoop() {
	for {
		var resp syncd.Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.shutdown(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) shutdown(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	c.err = err
	c.pending = map[uint64]chan syncd.Response{}
	close(c.done)
}
