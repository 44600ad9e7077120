// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/lumadating/luma-backend/internal/auth"
	"github.com/lumadating/luma-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Like expresses interest in another user
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Like(r.Context(), userID, req.ReceiverID); err != nil {
		if errors.Is(err, ErrSelfLike) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record like")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Like recorded")
}

// CancelLike withdraws a previously sent like
func (h *Handler) CancelLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	receiverID, err := pathID(r, "receiverId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.CancelLike(r.Context(), userID, receiverID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel like")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Like cancelled")
}

// Reject declines an incoming like
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	senderID, err := pathID(r, "senderId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.Reject(r.Context(), userID, senderID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reject like")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Like rejected")
}

// Unmatch dissolves an existing connection
func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otherID, err := pathID(r, "userId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.Unmatch(r.Context(), userID, otherID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unmatch")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Unmatched")
}

// ListMatches returns the caller's connections with scores
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	results, err := h.service.ListMatches(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, results)
}

// SuggestedMatches returns the ranked candidate list for the caller
func (h *Handler) SuggestedMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	results, err := h.service.SuggestedMatches(r.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		case errors.Is(err, ErrNoRelationshipGoal):
			utils.RespondWithError(w, http.StatusConflict, "Set a relationship goal to see suggestions")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get suggestions")
		}
		return
	}

	utils.RespondWithData(w, http.StatusOK, results)
}

// Compatibility scores the caller against an explicit candidate list
func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	var candidateIDs []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid candidate ID")
			return
		}
		candidateIDs = append(candidateIDs, id)
	}

	results, err := h.service.CompatibilityFor(r.Context(), userID, candidateIDs)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to score candidates")
		return
	}

	utils.RespondWithData(w, http.StatusOK, results)
}

// ListLikes returns the caller's sent or received likes with scores
func (h *Handler) ListLikes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	direction := r.URL.Query().Get("type")
	if direction == "" {
		direction = "sent"
	}
	if direction != "sent" && direction != "received" {
		utils.RespondWithError(w, http.StatusBadRequest, "type must be sent or received")
		return
	}

	results, err := h.service.ListLikes(r.Context(), userID, direction)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list likes")
		return
	}

	utils.RespondWithData(w, http.StatusOK, results)
}

// pathID parses a numeric mux path variable
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
