package controllers

import (
	"net/http"

	"github.com/Ailysom/ras-chat/internal/runtime"
	chatsvc "github.com/Ailysom/ras-chat/internal/services/chat"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general  *GeneralController
	messages *MessagesController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *chatsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(rt, svc),
		messages: NewMessagesController(rt, svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.messages.RegisterRoutes(mux)
}
