package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/middlewares"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
	"github.com/sbilibin2017/gw-game-scores/internal/services"
)

//go:generate mockgen -source=profile.go -destination=profile_mock.go -package=handlers

// Profiler loads the full profile of a user.
type Profiler interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ProfileResponse wraps the authenticated user's profile
// swagger:model ProfileResponse
type ProfileResponse struct {
	User *models.Profile `json:"user"`
}

// NewProfileHandler returns an HTTP handler for the authenticated user's profile.
// @Summary Current user profile
// @Description Returns the profile of the user the bearer token belongs to
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.ProfileResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /api/auth/me [get]
func NewProfileHandler(svc Profiler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middlewares.GetIdentityFromContext(r.Context())
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		profile, err := svc.Profile(r.Context(), identity.ID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			logger.Log.Errorw("failed to load profile", "request_id", middlewares.GetRequestID(r.Context()), "user_id", identity.ID, "err", err)
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		writeJSON(w, http.StatusOK, ProfileResponse{User: profile})
	}
}
