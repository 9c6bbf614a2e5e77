package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"tasktracker/internal/core/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.TaskEvent
}

func (s *recordingSink) Notify(_ context.Context, event domain.TaskEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []domain.TaskEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TaskEvent(nil), s.events...)
}

func TestLocal_PassesEventsThrough(t *testing.T) {
	sink := &recordingSink{}
	local := NewLocal(sink)

	require.NoError(t, local.Start(context.Background()))
	local.Notify(context.Background(), domain.TaskEventAdded)
	local.Notify(context.Background(), domain.TaskEventDeleted)
	require.NoError(t, local.Ping(context.Background()))
	require.NoError(t, local.Stop())

	require.Equal(t, "local", local.Name())
	require.Equal(t, []domain.TaskEvent{domain.TaskEventAdded, domain.TaskEventDeleted}, sink.Events())
}

func TestForward_DropsUnknownTags(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recordingSink{}

	forward(context.Background(), zap.New(core), sink, []byte("taskUpdated"))
	forward(context.Background(), zap.New(core), sink, []byte("taskRenamed"))
	forward(context.Background(), zap.New(core), sink, nil)

	require.Equal(t, []domain.TaskEvent{domain.TaskEventUpdated}, sink.Events())
	require.Equal(t, 2, logs.FilterMessage("dropping unknown event").Len())
}

func waitForEvents(t *testing.T, sink *recordingSink, want ...domain.TaskEvent) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(sink.Events()) == len(want)
	}, 3*time.Second, 10*time.Millisecond)
	require.Equal(t, want, sink.Events())
}
