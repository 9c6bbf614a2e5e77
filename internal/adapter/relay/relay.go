// Package relay carries task events between backend instances so that every
// instance's websocket hub sees every change.
package relay

import (
	"context"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"

	"go.uber.org/zap"
)

// Relay publishes local task events and feeds remote ones to a sink.
type Relay interface {
	ports.TaskNotifier
	Name() string
	Start(ctx context.Context) error
	Stop() error
	Ping(ctx context.Context) error
}

// Local hands events straight to the sink. It is the single-instance setup.
type Local struct {
	sink ports.TaskNotifier
}

func NewLocal(sink ports.TaskNotifier) *Local {
	return &Local{sink: sink}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Notify(ctx context.Context, event domain.TaskEvent) {
	l.sink.Notify(ctx, event)
}

func (l *Local) Start(context.Context) error { return nil }

func (l *Local) Stop() error { return nil }

func (l *Local) Ping(context.Context) error { return nil }

// forward decodes a payload received from a broker and passes known event
// tags to the sink.
func forward(ctx context.Context, logger *zap.Logger, sink ports.TaskNotifier, payload []byte) {
	event := domain.TaskEvent(payload)
	if !event.Valid() {
		logger.Warn("dropping unknown event", zap.ByteString("payload", payload))
		return
	}
	sink.Notify(ctx, event)
}

var (
	_ Relay = (*Local)(nil)
	_ Relay = (*Redis)(nil)
	_ Relay = (*NATS)(nil)
)
