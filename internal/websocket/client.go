package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"ecotrack/internal/config"
	"ecotrack/internal/dashboard"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/infrastructure"
	"ecotrack/internal/middleware"
	api "ecotrack/pkg/contracts/api/v1"
	"ecotrack/pkg/contracts/events"
)

// Options tune the pumps of every client
type Options struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer
	PongWait time.Duration
	// Send pings to peer with this period. Must be less than PongWait
	PingPeriod time.Duration
	// Maximum message size allowed from peer
	MaxMessageSize int64
	// Outbound messages buffered per client
	SendBuffer int
	// Dashboard events accepted per second and burst per client
	EventRate  rate.Limit
	EventBurst int
}

// DefaultOptions returns the pump settings used when none are configured
func DefaultOptions() Options {
	return Options{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     64,
		EventRate:      20,
		EventBurst:     40,
	}
}

// OptionsFrom applies the WebSocket section of the configuration to the defaults
func OptionsFrom(cfg config.WebSocketConfig) Options {
	opts := DefaultOptions()
	if cfg.PongWait > 0 {
		opts.PongWait = cfg.PongWait
	}
	if cfg.PingPeriod > 0 && cfg.PingPeriod < opts.PongWait {
		opts.PingPeriod = cfg.PingPeriod
	}
	return opts
}

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is a middleman between one browser connection and the dashboard
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages
	send   chan []byte
	sendMu sync.Mutex
	closed bool

	events     EventHandler
	validation *middleware.ValidationMiddleware
	limiter    *rate.Limiter
	opts       Options

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics

	messagesSent     int64
	messagesReceived int64
}

// NewClient creates a client for conn answering dashboard events with
// handler. traceID may be empty.
func NewClient(hub *Hub, conn Connection, handler EventHandler, traceID string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, opts.SendBuffer),
		events:      handler,
		validation:  middleware.NewValidationMiddleware(logger, nil),
		limiter:     rate.NewLimiter(opts.EventRate, opts.EventBurst),
		opts:        opts,
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
		metrics:     hub.metrics,
	}
}

// ID returns the client identifier sent in the connect message
func (c *Client) ID() string {
	return c.id
}

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// enqueue queues message without blocking. It reports false when the
// buffer is full or the client is closed.
func (c *Client) enqueue(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// reply queues a message to this client only
func (c *Client) reply(ctx context.Context, msgType events.MessageType, replyTo string, data interface{}) {
	msg := events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.New().String(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   c.traceID,
		},
		ReplyTo: replyTo,
		Data:    data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("message_type", string(msgType)),
			slog.String("error", err.Error()))
		return
	}
	if !c.enqueue(payload) {
		c.logger.WarnContext(ctx, "Client send buffer full, message dropped",
			slog.String("message_type", string(msgType)))
	}
}

func (c *Client) replyError(ctx context.Context, replyTo string, err error) {
	c.reply(ctx, events.MessageTypeError, replyTo, errorData(err))
}

// SendConnect greets the client with its identifier
func (c *Client) SendConnect() {
	c.reply(c.context(), events.MessageTypeConnect, "", events.ConnectData{
		ClientID: c.id,
		Version:  config.AppVersion,
	})
}

// ReadPump pumps messages from the connection to the dashboard until the
// peer goes away. Every inbound message is answered on the send channel.
func (c *Client) ReadPump() {
	ctx := c.context()
	defer func() {
		c.logger.InfoContext(ctx, "WebSocket client disconnected (readPump)",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		c.messagesReceived++
		c.handleMessage(ctx, message)
	}
}

func (c *Client) handleMessage(ctx context.Context, raw []byte) {
	var msg events.InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		infrastructure.RecordWebSocketMessage(ctx, c.metrics, "invalid")
		c.replyError(ctx, "", apierrors.InvalidRequestWithError(err))
		return
	}
	infrastructure.RecordWebSocketMessage(ctx, c.metrics, string(msg.Type))

	switch msg.Type {
	case events.MessageTypePing:
		c.reply(ctx, events.MessageTypePong, msg.ID, nil)

	case events.MessageTypeDashboardEvent:
		if !c.limiter.Allow() {
			c.replyError(ctx, msg.ID, apierrors.ErrRateLimitExceeded)
			return
		}
		resp, err := c.dispatch(ctx, msg.Data)
		if err != nil {
			c.logger.DebugContext(ctx, "dashboard event failed",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()))
			c.replyError(ctx, msg.ID, err)
			return
		}
		if resp.Panel != nil {
			c.reply(ctx, events.MessageTypePanel, msg.ID, resp.Panel)
			return
		}
		c.reply(ctx, events.MessageTypeCharts, msg.ID, resp.Charts)

	default:
		c.replyError(ctx, msg.ID, apierrors.NewWithDetails(
			apierrors.ErrInvalidRequest.StatusCode, "UNKNOWN_MESSAGE_TYPE", "Unknown message type", string(msg.Type)))
	}
}

func (c *Client) dispatch(ctx context.Context, data json.RawMessage) (*dashboard.Response, error) {
	if len(data) == 0 {
		return nil, apierrors.NewValidationError("event data is required")
	}

	var req api.DashboardEventRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	if err := c.validation.ValidateStruct(&req); err != nil {
		return nil, err
	}

	return c.events.HandleEvent(ctx, dashboard.Event{
		Type:  req.Type,
		Tab:   req.Tab,
		Value: req.Value,
	})
}

// WritePump pumps queued messages to the connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	ctx := c.context()
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.InfoContext(ctx, "WebSocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(ctx, "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(ctx, "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

// errorData maps an error to the payload of an error message
func errorData(err error) events.ErrorData {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return events.ErrorData{Code: apiErr.ErrorCode, Message: apiErr.Message, Details: apiErr.Details}
	}
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		return events.ErrorData{Code: string(appErr.Type), Message: appErr.Message}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return events.ErrorData{Code: "TIMEOUT", Message: err.Error()}
	}
	return events.ErrorData{
		Code:    apierrors.ErrInternalServer.ErrorCode,
		Message: apierrors.ErrInternalServer.Message,
	}
}
