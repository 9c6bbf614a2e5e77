package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const flushTimeout = 2 * time.Second

// NATS relays events over a core NATS subject. Delivery is at most once,
// the same as the websocket hop.
type NATS struct {
	conn    *nats.Conn
	subject string
	sink    ports.TaskNotifier
	logger  *zap.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string, logger *zap.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := nats.Connect(url,
		nats.Name("tasktracker"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return conn, nil
}

func NewNATS(conn *nats.Conn, subject string, sink ports.TaskNotifier, logger *zap.Logger) *NATS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATS{
		conn:    conn,
		subject: subject,
		sink:    sink,
		logger:  logger.Named("relay.nats").With(zap.String("subject", subject)),
	}
}

func (n *NATS) Name() string { return "nats" }

// Notify buffers the publish in the client; it does not wait for the server.
func (n *NATS) Notify(_ context.Context, event domain.TaskEvent) {
	if err := n.conn.Publish(n.subject, []byte(event)); err != nil {
		n.logger.Error("failed to publish event", zap.String("event", string(event)), zap.Error(err))
	}
}

func (n *NATS) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sub != nil {
		return errors.New("nats relay already started")
	}

	handlerCtx := context.WithoutCancel(ctx)
	sub, err := n.conn.Subscribe(n.subject, func(msg *nats.Msg) {
		forward(handlerCtx, n.logger, n.sink, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", n.subject, err)
	}
	// Subscriptions are replayed on reconnect, so a failed flush is not fatal.
	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := n.conn.FlushWithContext(flushCtx); err != nil {
		n.logger.Warn("nats subscription not confirmed", zap.Error(err))
	}

	n.sub = sub
	n.logger.Info("nats relay subscribed")
	return nil
}

func (n *NATS) Stop() error {
	n.mu.Lock()
	sub := n.sub
	n.sub = nil
	n.mu.Unlock()

	if sub == nil {
		return nil
	}
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("drain subscription: %w", err)
	}
	n.logger.Info("nats relay stopped")
	return nil
}

func (n *NATS) Ping(ctx context.Context) error {
	if !n.conn.IsConnected() {
		return fmt.Errorf("nats status %s", n.conn.Status())
	}

	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	return n.conn.FlushWithContext(flushCtx)
}
