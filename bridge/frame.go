package bridge

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is a parent frame reached over the bridge; it lets a page outside a browser post selections
type Frame struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial connects to a hub endpoint with the supplied role
func Dial(ctx context.Context, endpoint string, role Role) (*Frame, error) {
	URL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge endpoint %s: %w", endpoint, err)
	}
	query := URL.Query()
	query.Set("role", string(role))
	URL.RawQuery = query.Encode()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, URL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bridge %s: %w", endpoint, err)
	}
	return &Frame{conn: conn}, nil
}

// PostMessage writes a message to the hub
func (f *Frame) PostMessage(data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return f.conn.WriteMessage(websocket.TextMessage, data)
}

// Listen passes messages received from the hub to deliver until the connection or context ends
func (f *Frame) Listen(ctx context.Context, deliver func(data []byte)) error {
	stop := context.AfterFunc(ctx, func() {
		_ = f.conn.Close()
	})
	defer stop()
	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		deliver(data)
	}
}

// Close closes the connection
func (f *Frame) Close() error {
	return f.conn.Close()
}
