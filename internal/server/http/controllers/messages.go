package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Ailysom/ras-chat/internal/runtime"
	chatsvc "github.com/Ailysom/ras-chat/internal/services/chat"
)

// MessagesController handles the chat log endpoints.
//
// All operations take the bearer token in the JSON body; authentication,
// authorization, and the ring operation itself happen in the chat service.
type MessagesController struct {
	rt *runtime.Runtime
	ch *chatsvc.Service
}

// NewMessagesController creates a new messages controller.
func NewMessagesController(rt *runtime.Runtime, svc *chatsvc.Service) *MessagesController {
	return &MessagesController{
		rt: rt,
		ch: svc,
	}
}

// RegisterRoutes registers message routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Appending a message (/v1/messages/send)
// - Full snapshot (/v1/messages/list)
// - Snapshot from a marker key (/v1/messages/from)
// - Recent audit entries (/v1/audit/recent)
func (c *MessagesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/messages/send", c.handleSend)
	mux.HandleFunc("/v1/messages/list", c.handleList)
	mux.HandleFunc("/v1/messages/from", c.handleFrom)
	mux.HandleFunc("/v1/audit/recent", c.handleAuditRecent)
}

// handleSend appends one message to the log.
func (c *MessagesController) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req sendReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == nil {
		writeError(w, http.StatusBadRequest, "Missing message")
		return
	}
	if err := c.ch.Append(r.Context(), req.Token, *req.Message); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleList returns the full snapshot, oldest first.
func (c *MessagesController) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req listReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msgs, err := c.ch.SnapshotAll(r.Context(), req.Token, req.Filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"messages": formatMessages(msgs)})
}

// handleFrom returns the messages stored after a marker key.
func (c *MessagesController) handleFrom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req fromReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StartKey == nil {
		writeError(w, http.StatusBadRequest, "Missing start_key")
		return
	}
	msgs, err := c.ch.SnapshotFrom(r.Context(), req.Token, *req.StartKey, req.Filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"messages": formatMessages(msgs)})
}

// handleAuditRecent returns the newest audit entries, reader-gated.
func (c *MessagesController) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req auditReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	entries, err := c.ch.AuditRecent(r.Context(), req.Token, req.Limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"entries": entries})
}
