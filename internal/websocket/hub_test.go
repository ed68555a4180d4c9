package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHub_BroadcastReachesOnlyThatScorecard(t *testing.T) {
	hub := startHub(t)

	a := &Client{ScorecardID: "a", Send: make(chan []byte, 1)}
	b := &Client{ScorecardID: "b", Send: make(chan []byte, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastToScorecard("a", []byte("hello"))

	assert.Equal(t, []byte("hello"), receive(t, a.Send))
	select {
	case <-b.Send:
		t.Fatal("client of another scorecard received the broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := &Client{ScorecardID: "a", Send: make(chan []byte, 1)}
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.Watchers("a") == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(c)
	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Zero(t, hub.Watchers("a"))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)

	c := &Client{ScorecardID: "a", Send: make(chan []byte)} // unbuffered: never ready
	hub.Register(c)
	hub.BroadcastToScorecard("a", []byte("x"))

	require.Eventually(t, func() bool { return hub.Watchers("a") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	c := &Client{ScorecardID: "a", Send: make(chan []byte, 1)}

	go hub.Run(ctx)
	hub.Register(c)
	cancel()

	_, ok := <-c.Send
	assert.False(t, ok, "stopping the hub closes client channels")

	done := make(chan struct{})
	go func() {
		hub.Unregister(c)
		for i := 0; i < 300; i++ {
			hub.BroadcastToScorecard("a", []byte("late"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after Run returned")
	}
}
