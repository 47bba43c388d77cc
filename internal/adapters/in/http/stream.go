package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	statsStreamBuffer = 4
	heartbeatInterval = 15 * time.Second
)

// StreamStats handles GET /api/v1/stats/stream. Each recomputed value is
// sent as a server-sent event whose id is the source version; a comment line
// keeps idle connections open.
func (s *Server) StreamStats(ctx echo.Context) error {
	updates, cancel := s.stats.Subscribe(statsStreamBuffer)
	defer cancel()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case latest, ok := <-updates:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(toStats(latest))
			if err != nil {
				return err
			}
			if _, err = fmt.Fprintf(res, "event: stats\nid: %d\ndata: %s\n\n", latest.SourceVersion, payload); err != nil {
				s.logger.DebugContext(ctx.Request().Context(), "stats stream closed", "error", err)
				return nil
			}
			res.Flush()
		}
	}
}
