// Package events contains the WebSocket message contracts of the dashboard.
package events

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client to server
	MessageTypeDashboardEvent MessageType = "dashboard:event"
	MessageTypePing           MessageType = "ping"

	// Server to client
	MessageTypePanel  MessageType = "dashboard:panel"
	MessageTypeCharts MessageType = "dashboard:charts"
	MessageTypePong   MessageType = "pong"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// InboundMessage is a frame received from the browser. Data is decoded
// according to Type.
type InboundMessage struct {
	ID   string          `json:"id,omitempty"`
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WebSocketMessage is a frame sent to the browser
type WebSocketMessage struct {
	BaseMessage
	// ReplyTo echoes the ID of the inbound message being answered
	ReplyTo string      `json:"reply_to,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorData is the payload of an error message
type ErrorData struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ConnectData is sent once after the upgrade completes
type ConnectData struct {
	ClientID string `json:"client_id"`
	Version  string `json:"version"`
}
