package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tasktracker/internal/adapter/ws"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Listen subscribes to the change feed and refreshes the cache on every
// known event. It returns when the connection drops or ctx is done; there
// is no reconnect.
func (c *Client) Listen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL(), http.Header{})
	if err != nil {
		c.logger.Warn("failed to connect to change feed", zap.Error(err))
		return fmt.Errorf("dial change feed: %w", err)
	}
	defer conn.Close()

	c.state.Store(int32(Connected))
	c.logger.Info("connected to change feed")
	defer func() {
		c.state.Store(int32(Disconnected))
		c.logger.Info("disconnected from change feed")
	}()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read change feed: %w", err)
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil || !msg.Type.Valid() {
			c.logger.Debug("ignoring change feed message", zap.ByteString("message", data))
			continue
		}

		// Refresh failures are logged and leave the cache untouched.
		_ = c.Refresh(ctx)
	}
}

func (c *Client) wsURL() string {
	switch {
	case strings.HasPrefix(c.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.baseURL, "https://") + "/ws"
	case strings.HasPrefix(c.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.baseURL, "http://") + "/ws"
	default:
		return c.baseURL + "/ws"
	}
}
