package controllers

import (
	"net/http"

	"github.com/Ailysom/ras-chat/internal/runtime"
	chatsvc "github.com/Ailysom/ras-chat/internal/services/chat"
)

// GeneralController handles general HTTP endpoints like ping and health.
type GeneralController struct {
	rt *runtime.Runtime
	ch *chatsvc.Service
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, svc *chatsvc.Service) *GeneralController {
	return &GeneralController{
		rt: rt,
		ch: svc,
	}
}

// RegisterRoutes registers general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/ping", c.handlePing)
	mux.HandleFunc("/v1/healthz", c.handleHealth)
}

// handlePing returns the literal acknowledgment. No authentication.
func (c *GeneralController) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, map[string]string{"message": c.ch.Ping()})
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
