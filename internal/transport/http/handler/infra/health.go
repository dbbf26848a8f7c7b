package infra

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mandalnilabja/promptgate/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"name":            "promptgate",
		"version":         version.Version,
		"status":          "running",
		"api":             "/v1",
		"full_deployment": h.FullDeployment,
		"mini_deployment": h.MiniDeployment,
		"uptime_seconds":  int(time.Since(h.StartTime).Seconds()),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "active",
		"app":    "promptgate",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
