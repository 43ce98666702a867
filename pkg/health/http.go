package health

import (
	"encoding/json"
	"net/http"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// HealthResponse is the JSON body served by the probe handlers.
type HealthResponse struct {
	Status  string                 `json:"status"` // "healthy" | "unhealthy"
	Checks  map[string]CheckStatus `json:"checks,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// CheckStatus is the per-check entry of a HealthResponse.
type CheckStatus struct {
	Status  string `json:"status"` // "ok" | "error"
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// LivenessHandler serves liveness: 200 when alive, 503 otherwise.
func (h *HealthChecker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.CheckLiveness(r.Context())
		h.writeHealthResponse(w, status, err)
	}
}

// ReadinessHandler serves readiness: 200 when ready for traffic, 503 otherwise.
func (h *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.CheckReadiness(r.Context())
		h.writeHealthResponse(w, status, err)
	}
}

func (h *HealthChecker) writeHealthResponse(w http.ResponseWriter, status *HealthStatus, err error) {
	response := NewHealthResponse(status, err)

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", logger.ErrorField(err))
	}
}

// NewHealthResponse converts a HealthStatus into its JSON representation.
func NewHealthResponse(status *HealthStatus, err error) HealthResponse {
	response := HealthResponse{Status: "healthy", Checks: make(map[string]CheckStatus, len(status.Checks))}
	if !status.Healthy {
		response.Status = "unhealthy"
		if err != nil {
			response.Message = err.Error()
		}
	}
	for _, result := range status.Checks {
		entry := CheckStatus{Status: "ok", Latency: result.Latency.String()}
		if !result.Healthy {
			entry.Status = "error"
			entry.Error = result.Error
		}
		response.Checks[result.Name] = entry
	}
	return response
}
