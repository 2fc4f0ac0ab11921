package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/operion-analyzer/pkg/channels/gochannel"
	"github.com/dukex/operion-analyzer/pkg/events"
	"github.com/dukex/operion-analyzer/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillEventBus_PublishSubscribe(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub, nil)
	defer bus.Close()

	received := make(chan *events.AnalysisCompleted, 1)
	loggers := make(chan *slog.Logger, 1)

	require.NoError(t, bus.Handle(events.AnalysisCompletedEvent, func(ctx context.Context, event Event) error {
		loggers <- log.FromContext(ctx)
		received <- event.(*events.AnalysisCompleted)

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	published := events.AnalysisCompleted{
		BaseEvent:   events.NewBaseEvent(events.AnalysisCompletedEvent, "wf-1"),
		Fingerprint: "abc",
		Valid:       true,
		Paths:       2,
	}

	require.NoError(t, bus.Publish(t.Context(), "abc", published))

	select {
	case event := <-received:
		assert.Equal(t, published.ID, event.ID)
		assert.Equal(t, "abc", event.Fingerprint)
		assert.True(t, event.Valid)
		assert.Equal(t, 2, event.Paths)
		assert.NotSame(t, slog.Default(), <-loggers)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledEventsAreAcked(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub, nil)
	defer bus.Close()

	received := make(chan string, 1)

	require.NoError(t, bus.Handle(events.AnalysisCompletedEvent, func(_ context.Context, event Event) error {
		received <- event.(*events.AnalysisCompleted).Fingerprint

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	require.NoError(t, bus.Publish(t.Context(), "k", events.AnalysisFailed{
		BaseEvent: events.NewBaseEvent(events.AnalysisFailedEvent, ""),
		Error:     "malformed",
	}))
	require.NoError(t, bus.Publish(t.Context(), "k", events.AnalysisCompleted{
		BaseEvent:   events.NewBaseEvent(events.AnalysisCompletedEvent, ""),
		Fingerprint: "second",
	}))

	select {
	case fingerprint := <-received:
		assert.Equal(t, "second", fingerprint)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub, nil)
	defer bus.Close()

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
