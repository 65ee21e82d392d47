package websocket

import (
	"encoding/json"
	"time"
)

// ChatFrame is sent by the client.
type ChatFrame struct {
	Message string `json:"message"`
}

// ReplyFrame is delivered to every open connection of the user after an exchange.
type ReplyFrame struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorFrame is delivered only to the connection that caused it.
type ErrorFrame struct {
	Error string `json:"error"`
}

func Encode(frame any) ([]byte, error) {
	return json.Marshal(frame)
}
