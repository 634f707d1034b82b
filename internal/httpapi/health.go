package httpapi

import (
	"context"
	"net/http"
	"time"
)

const healthPingTimeout = 3 * time.Second

type storePinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status     string                `json:"status"`
	Components map[string]CompStatus `json:"components"`
	Timestamp  time.Time             `json:"timestamp"`
}

type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// health reports 200 when the version store answers a ping, 503 otherwise.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	resp := HealthResponse{Status: "ok", Components: map[string]CompStatus{}, Timestamp: time.Now()}
	status := http.StatusOK
	if err != nil {
		resp.Status = "down"
		resp.Components["store"] = CompStatus{Status: "down"}
		status = http.StatusServiceUnavailable
	} else {
		resp.Components["store"] = CompStatus{Status: "ok", Latency: latency.String()}
	}
	writeJSON(w, status, resp)
}
