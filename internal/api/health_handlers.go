package api

import (
	"context"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}

// @Summary      Health check
// @Description  Reports whether the server can reach its metadata store.
// @Tags         ops
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	timeout := s.config.DB.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logger.Warningf("health check: database unreachable: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "unreachable"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
