package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/infrastructure"
	"ecotrack/internal/middleware"
)

// Handler upgrades /ws requests and attaches a client to the hub
type Handler struct {
	hub            *Hub
	events         EventHandler
	upgrader       websocket.Upgrader
	allowedOrigins map[string]bool
	opts           Options
	errorHandler   *apierrors.ErrorHandler
	logger         *slog.Logger
}

// NewHandler creates the upgrade handler. Requests without an Origin header
// and origins listed in allowedOrigins are accepted.
func NewHandler(hub *Hub, events EventHandler, allowedOrigins []string, opts Options, bufferSize int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize <= 0 {
		bufferSize = 1024
	}

	h := &Handler{
		hub:            hub,
		events:         events,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
		opts:           opts,
		errorHandler:   apierrors.NewErrorHandler(logger, false),
		logger:         logger.With(slog.String("component", "websocket.handler")),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  bufferSize,
		WriteBufferSize: bufferSize,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.ErrorContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(status,
				apierrors.ErrWebSocketUpgrade.ErrorCode, apierrors.ErrWebSocketUpgrade.Message, reason.Error()))
		},
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigins["*"] || h.allowedOrigins[origin] {
		return true
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin))
	return false
}

// ServeHTTP upgrades the connection and starts the client pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already answered through its Error callback
		return
	}

	traceID := infrastructure.GetTraceID(ctx)
	client := NewClient(h.hub, NewConnectionWrapper(conn), h.events, traceID, h.opts, h.logger)
	h.hub.Register(client)
	client.SendConnect()

	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", middleware.GetRealIP(r)),
		slog.String("request_id", middleware.GetRequestID(ctx)))

	go client.WritePump()
	go client.ReadPump()
}
