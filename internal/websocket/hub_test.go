package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templequest/temple-api/internal/logging"
)

func newTestClient(hub *Hub, userID uuid.UUID, buffer int) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, buffer),
		userID: userID,
		log:    logging.Discard(),
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestHub_PublishReachesEveryConnectionOfUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	alice := uuid.New()
	bob := uuid.New()
	tab1 := newTestClient(hub, alice, 4)
	tab2 := newTestClient(hub, alice, 4)
	other := newTestClient(hub, bob, 4)
	hub.Register(tab1)
	hub.Register(tab2)
	hub.Register(other)

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, hub.Publish(alice, ReplyFrame{Message: "hi", Response: "namaste", Timestamp: ts}))

	for _, c := range []*Client{tab1, tab2} {
		var frame ReplyFrame
		require.NoError(t, json.Unmarshal(receive(t, c), &frame))
		assert.Equal(t, "namaste", frame.Response)
		assert.True(t, ts.Equal(frame.Timestamp))
	}

	select {
	case <-other.send:
		t.Fatal("frame delivered to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := newTestClient(hub, uuid.New(), 1)
	hub.Register(c)
	hub.Unregister(c)

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("client not closed")
	}
	assert.False(t, c.Send(ErrorFrame{Error: "late"}))
}

func TestHub_StopClosesClientsAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub, uuid.New(), 1)
	hub.Register(c)
	hub.Stop()
	hub.Stop()

	_, ok := <-c.send
	assert.False(t, ok)

	late := newTestClient(hub, uuid.New(), 1)
	hub.Register(late)
	_, ok = <-late.send
	assert.False(t, ok)
	assert.NoError(t, hub.Publish(uuid.New(), ErrorFrame{Error: "ignored"}))
}

func TestClient_SendDropsWhenBufferFull(t *testing.T) {
	c := newTestClient(nil, uuid.New(), 1)

	assert.True(t, c.Send(ErrorFrame{Error: "one"}))
	assert.False(t, c.Send(ErrorFrame{Error: "two"}))

	var frame ErrorFrame
	require.NoError(t, json.Unmarshal(<-c.send, &frame))
	assert.Equal(t, "one", frame.Error)
}

func TestClient_SendConcurrentWithClose(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := newTestClient(nil, uuid.New(), sendBuffer)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for j := 0; j < 10; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				c.Send(ErrorFrame{Error: "x"})
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			c.Close()
		}()
		close(start)
		wg.Wait()

		assert.False(t, c.Send(ErrorFrame{Error: "after close"}))
		for range c.send {
		}
	}
}
