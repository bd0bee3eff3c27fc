package websocket

import "time"

type MessageType string

const (
	MessageTypeEvents MessageType = "events"
)

type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func NewEventsMessage(payload interface{}) Message {
	return Message{
		Type:      MessageTypeEvents,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
