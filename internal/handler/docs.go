package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# FieldLogger Inspection Service

Stores field inspection reports and pushes the full record set to connected
clients after every save.

## Records

- id: UUID chosen by the client, submitting the same id again updates the record
- location: at least 3 characters
- technician: at least 2 characters
- findings: at least 10 characters
- status: pending | synced
- createdAt: set on first save, never changed afterwards
- syncedAt: present only when status is synced

## Routes

- POST /api/inspections
- POST /api/inspections/sync
- POST /api/inspections/sync/batch
- GET /api/inspections
- GET /api/inspections/{id}
- GET /api/inspections/status/{status}
- GET /api/inspections/events/stream (Server-Sent Events)
- GET /api/inspections/events/ws (WebSocket)
- GET /api/inspections/events/stats
- GET /healthz
- GET /readyz
- GET /swagger/index.html

## Stream messages

Every message carries the whole record set:

    {"type":"initial|update","count":N,"inspections":[...],"timestamp":"..."}

SSE clients also receive ":heartbeat" comments. WebSocket clients receive
pings instead. Delivery is best effort, a client that falls behind may miss
intermediate updates but the next one always holds the full state.
`)
	})
}
