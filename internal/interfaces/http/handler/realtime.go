package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/infrastructure/realtime"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeat = 30 * time.Second

// Subscriber registers SSE streams
type Subscriber interface {
	Subscribe(p identity.Principal) (*realtime.Client, func(), error)
}

// RealtimeHandler streams the caller's notifications over Server-Sent Events
type RealtimeHandler struct {
	BaseHandler
	hub       Subscriber
	heartbeat time.Duration
}

// NewRealtimeHandler creates a new RealtimeHandler. heartbeat <= 0 uses 30s.
func NewRealtimeHandler(hub Subscriber, heartbeat time.Duration, log *zap.Logger) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &RealtimeHandler{
		BaseHandler: newBaseHandler(log),
		hub:         hub,
		heartbeat:   heartbeat,
	}
}

// Stream godoc
// @Summary      Subscribe to notifications
// @Description  Keeps the connection open and writes one event per notification. EventSource clients pass the token as access_token
// @Tags         realtime
// @Produce      text/event-stream
// @Param        access_token query string false "Access token for clients that cannot send headers"
// @Success      200 {string} string "Server-sent events"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /realtime/stream [get]
func (h *RealtimeHandler) Stream(c *gin.Context) {
	p := principal(c)
	client, unsubscribe, err := h.hub.Subscribe(p)
	if err != nil {
		if errors.Is(err, realtime.ErrTooManyClients) {
			h.Error(c, http.StatusServiceUnavailable, "MAX_CONNECTIONS_REACHED", "Maximum number of realtime connections reached")
			return
		}
		h.HandleError(c, err)
		return
	}
	defer unsubscribe()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	log := h.logger.With(zap.String("client_id", client.ID.String()), zap.String("user_id", p.UserID.String()))
	log.Debug("Realtime client connected")

	writeEvent(w, "connected", client.ID.String(), fmt.Sprintf(`{"client_id":"%s","timestamp":%d}`, client.ID, time.Now().Unix()))
	w.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Realtime client disconnected")
			return
		case <-ticker.C:
			writeEvent(w, "heartbeat", "", fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()))
			w.Flush()
		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			data, err := realtime.Encode(msg)
			if err != nil {
				log.Warn("Failed to encode realtime message", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			writeEvent(w, msg.Type, msg.ID.String(), string(data))
			w.Flush()
		}
	}
}

func writeEvent(w io.Writer, event, id, data string) {
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
