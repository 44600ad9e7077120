// internal/messaging/handlers.go

package messaging

import (
	"net/http"

	"github.com/lumadating/luma-backend/internal/auth"
	"github.com/lumadating/luma-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetConversations returns the caller's message threads
func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversations, err := h.service.GetUserConversations(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get conversations")
		return
	}

	utils.RespondWithData(w, http.StatusOK, conversations)
}
