package testutil

import (
	"encoding/json"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/templequest/temple-api/internal/websocket"
)

// WSClient is a test chat WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan []byte
	done     chan struct{}
}

// NewWSClient dials url and starts reading frames
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(client.Close)

	return client
}

func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case c.messages <- data:
		case <-c.done:
			return
		}
	}
}

// Close closes the connection
func (c *WSClient) Close() {
	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	c.conn.Close()
}

// SendRaw writes a text frame as-is
func (c *WSClient) SendRaw(data []byte) {
	c.t.Helper()
	if err := c.conn.WriteMessage(gorillaWS.TextMessage, data); err != nil {
		c.t.Fatalf("failed to write frame: %v", err)
	}
}

// SendChat sends a chat frame
func (c *WSClient) SendChat(message string) {
	c.t.Helper()
	data, err := json.Marshal(websocket.ChatFrame{Message: message})
	if err != nil {
		c.t.Fatalf("failed to marshal frame: %v", err)
	}
	c.SendRaw(data)
}

func (c *WSClient) next(timeout time.Duration) []byte {
	c.t.Helper()
	select {
	case data, ok := <-c.messages:
		if !ok {
			c.t.Fatal("websocket closed while waiting for frame")
		}
		return data
	case <-time.After(timeout):
		c.t.Fatalf("timed out after %s waiting for frame", timeout)
	}
	return nil
}

// ExpectReply waits for a reply frame
func (c *WSClient) ExpectReply(timeout time.Duration) *websocket.ReplyFrame {
	c.t.Helper()
	var frame websocket.ReplyFrame
	if err := json.Unmarshal(c.next(timeout), &frame); err != nil {
		c.t.Fatalf("failed to decode reply frame: %v", err)
	}
	return &frame
}

// ExpectError waits for an error frame
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorFrame {
	c.t.Helper()
	var frame websocket.ErrorFrame
	if err := json.Unmarshal(c.next(timeout), &frame); err != nil {
		c.t.Fatalf("failed to decode error frame: %v", err)
	}
	if frame.Error == "" {
		c.t.Fatal("expected an error frame")
	}
	return &frame
}

// ExpectNoMessage verifies nothing arrives within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()
	select {
	case data, ok := <-c.messages:
		if ok {
			c.t.Fatalf("unexpected frame: %s", data)
		}
	case <-time.After(timeout):
	}
}
