package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"fieldlogger/internal/stream"
)

type EventsHandler struct {
	Registry *stream.Registry
	Logger   *zap.Logger
	// OriginPatterns are host globs accepted on the WebSocket upgrade.
	OriginPatterns []string
}

func (h *EventsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/inspections/events")
	group.GET("/stream", h.stream)
	group.GET("/ws", h.websocket)
	group.GET("/stats", h.stats)
}

// @Summary Live inspection snapshots (Server-Sent Events)
// @Description Sends an initial snapshot, then an update after every save. Heartbeat comments keep the connection open.
// @Tags events
// @Produce text/event-stream
// @Success 200 {string} string "data: {...}"
// @Failure 503 {object} apiResponse
// @Router /api/inspections/events/stream [get]
func (h *EventsHandler) stream(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "stream unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	sub, err := h.Registry.Subscribe(ctx, stream.NewSSESink(c.Writer))
	if err != nil {
		storageFailure(c, h.Logger, "sse subscribe", err)
		return
	}
	select {
	case <-ctx.Done():
	case <-sub.Done():
	}
	h.Registry.Unsubscribe(sub)
	sub.Wait()
}

// @Summary Live inspection snapshots (WebSocket)
// @Description Same messages as the SSE stream, one text frame each.
// @Tags events
// @Router /api/inspections/events/ws [get]
func (h *EventsHandler) websocket(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "stream unavailable", nil)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.OriginPatterns,
	})
	if err != nil {
		h.warn("websocket accept failed", err)
		return
	}
	ctx := conn.CloseRead(c.Request.Context())
	sub, err := h.Registry.Subscribe(ctx, stream.NewWebSocketSink(conn))
	if err != nil {
		h.warn("websocket subscribe failed", err)
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	select {
	case <-ctx.Done():
	case <-sub.Done():
	}
	h.Registry.Unsubscribe(sub)
	sub.Wait()
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

// @Summary Stream connection stats
// @Tags events
// @Success 200 {object} apiResponse
// @Router /api/inspections/events/stats [get]
func (h *EventsHandler) stats(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "stream unavailable", nil)
		return
	}
	Ok(c, h.Registry.Stats(), nil)
}

func (h *EventsHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
