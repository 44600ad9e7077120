// internal/messaging/routes.go

package messaging

import (
	"github.com/gorilla/mux"
	"github.com/lumadating/luma-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/messaging").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/conversations", handler.GetConversations).Methods("GET")
}
