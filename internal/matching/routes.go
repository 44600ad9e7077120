// internal/matching/routes.go

package matching

import (
	"github.com/gorilla/mux"
	"github.com/lumadating/luma-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Likes
	api.HandleFunc("/likes", handler.Like).Methods("POST")
	api.HandleFunc("/likes", handler.ListLikes).Methods("GET")
	api.HandleFunc("/likes/{receiverId}", handler.CancelLike).Methods("DELETE")
	api.HandleFunc("/likes/{senderId}/reject", handler.Reject).Methods("DELETE")

	// Matches
	api.HandleFunc("/matches", handler.ListMatches).Methods("GET")
	api.HandleFunc("/matches/{userId}", handler.Unmatch).Methods("DELETE")

	// Ranking
	api.HandleFunc("/suggestions", handler.SuggestedMatches).Methods("GET")
	api.HandleFunc("/compatibility", handler.Compatibility).Methods("GET")
}
