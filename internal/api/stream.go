package api

import (
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// StreamEvents handles GET /api/events: a long-lived server-sent-events
// connection. The handler polls the event log on a fixed interval and writes
// each new event as its own data frame; nothing is sent while no events are
// pending. The connection runs until the client disconnects, which is the
// only termination signal.
func (h *Handler) StreamEvents(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	// Cursor zero replays whatever backlog the log still retains before
	// switching to live delivery.
	var cursor uint64

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, next := h.events.Since(cursor)
			cursor = next
			if len(pending) == 0 {
				continue
			}

			for _, event := range pending {
				if err := sse.Encode(c.Writer, sse.Event{Data: event}); err != nil {
					return
				}
			}
			c.Writer.Flush()
		}
	}
}
