// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"
	"github.com/lumadating/luma-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/profiles").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/{userId}", handler.GetProfile).Methods("GET")
	api.HandleFunc("/me/personality", handler.SubmitPersonalityTest).Methods("POST")
}
