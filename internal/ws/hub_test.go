package ws

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastAfterStopFails(t *testing.T) {
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	require.NoError(t, hub.Broadcast(context.Background(), []byte(`{"type":"stock_update"}`)))

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	assert.ErrorIs(t, hub.Broadcast(context.Background(), []byte("late")), ErrHubStopped)
	assert.Equal(t, 0, hub.Clients())
}

func TestBroadcastAfterStopFailsWhileBufferHasRoom(t *testing.T) {
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, hub.Broadcast(context.Background(), []byte("late")), ErrHubStopped)
	}
	assert.Empty(t, hub.broadcast)
}

func TestBroadcastHonoursContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	fill(hub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, hub.Broadcast(ctx, []byte("x")), context.Canceled)
}

func fill(h *Hub) {
	for {
		select {
		case h.broadcast <- nil:
		default:
			return
		}
	}
}
