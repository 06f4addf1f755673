package stream

import (
	"context"
	"errors"
	"net/http"

	"nhooyr.io/websocket"
)

var (
	sseDataPrefix = []byte("data: ")
	sseTerminator = []byte("\n\n")
	sseHeartbeat  = []byte(":heartbeat\n\n")
)

// SSESink writes text/event-stream frames to an HTTP response. Nothing,
// headers included, reaches the client before the first frame, so the
// caller can still answer with an error status if Subscribe fails.
type SSESink struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func NewSSESink(w http.ResponseWriter) *SSESink {
	return &SSESink{w: w, rc: http.NewResponseController(w)}
}

func (s *SSESink) start() {
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.started = true
}

func (s *SSESink) WriteMessage(ctx context.Context, payload []byte) error {
	frame := make([]byte, 0, len(sseDataPrefix)+len(payload)+len(sseTerminator))
	frame = append(frame, sseDataPrefix...)
	frame = append(frame, payload...)
	frame = append(frame, sseTerminator...)
	return s.write(ctx, frame)
}

func (s *SSESink) WriteHeartbeat(ctx context.Context) error {
	return s.write(ctx, sseHeartbeat)
}

func (s *SSESink) write(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.rc.SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
	}
	if !s.started {
		s.start()
	}
	if _, err := s.w.Write(frame); err != nil {
		return err
	}
	return s.rc.Flush()
}

// WebSocketSink sends each message as one text frame and pings as heartbeat.
// The connection needs an active reader (CloseRead) for pings to complete.
type WebSocketSink struct {
	conn *websocket.Conn
}

func NewWebSocketSink(conn *websocket.Conn) *WebSocketSink {
	return &WebSocketSink{conn: conn}
}

func (s *WebSocketSink) WriteMessage(ctx context.Context, payload []byte) error {
	return s.conn.Write(ctx, websocket.MessageText, payload)
}

func (s *WebSocketSink) WriteHeartbeat(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
