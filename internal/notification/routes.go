// internal/notification/routes.go

package notification

import (
	"github.com/gorilla/mux"
	"github.com/lumadating/luma-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/notifications").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetNotifications).Methods("GET")
	api.HandleFunc("/{id}/read", handler.MarkAsRead).Methods("POST")
	api.HandleFunc("/read-all", handler.MarkAllAsRead).Methods("POST")
}
