package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/middlewares"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
	"github.com/sbilibin2017/gw-game-scores/internal/services"
)

//go:generate mockgen -source=score.go -destination=score_mock.go -package=handlers

// ScoreSubmitter stores a score for an authenticated user.
type ScoreSubmitter interface {
	Submit(ctx context.Context, identity models.Identity, score int64) (*models.ScoreDB, error)
}

// LeaderboardReader returns a page of the leaderboard.
type LeaderboardReader interface {
	Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error)
}

// SubmitScoreRequest represents the JSON body for a score submission
// swagger:model SubmitScoreRequest
type SubmitScoreRequest struct {
	// Score, an integer between 0 and 1000000000
	// required: true
	// default: 1200
	Score *int64 `json:"score"`
}

// SubmitScoreResponse represents a stored score
// swagger:model SubmitScoreResponse
type SubmitScoreResponse struct {
	// default: Score submitted successfully!
	Message string          `json:"message"`
	Score   *models.ScoreDB `json:"score"`
}

// NewSubmitScoreHandler returns an HTTP handler that records a score for the caller.
// @Summary Submit a score
// @Description Stores a score for the authenticated user and raises their highest score
// @Tags scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submitScoreRequest body handlers.SubmitScoreRequest true "Score"
// @Success 201 {object} handlers.SubmitScoreResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing or invalid score"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /api/scores [post]
func NewSubmitScoreHandler(svc ScoreSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middlewares.GetIdentityFromContext(r.Context())
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		var req SubmitScoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Score must be an integer between 0 and 1000000000")
			return
		}
		if req.Score == nil {
			writeError(w, http.StatusBadRequest, "Score is required")
			return
		}

		score, err := svc.Submit(r.Context(), *identity, *req.Score)
		if err != nil {
			if errors.Is(err, services.ErrInvalidScore) {
				writeError(w, http.StatusBadRequest, "Score must be an integer between 0 and 1000000000")
				return
			}
			logger.Log.Errorw("failed to submit score", "request_id", middlewares.GetRequestID(r.Context()), "user_id", identity.ID, "err", err)
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		writeJSON(w, http.StatusCreated, SubmitScoreResponse{
			Message: "Score submitted successfully!",
			Score:   score,
		})
	}
}

// NewLeaderboardHandler returns an HTTP handler for the public leaderboard.
// @Summary Leaderboard
// @Description Returns scores ordered by score descending, then oldest first
// @Tags scores
// @Produce json
// @Param limit query int false "Page size (default 10, capped)"
// @Param offset query int false "Entries to skip (default 0)"
// @Success 200 {array} models.LeaderboardEntry
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /api/scores/leaderboard [get]
func NewLeaderboardHandler(svc LeaderboardReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		limit := parseIntOrZero(query.Get("limit"))
		offset := parseIntOrZero(query.Get("offset"))

		entries, err := svc.Leaderboard(r.Context(), limit, offset)
		if err != nil {
			logger.Log.Errorw("failed to get leaderboard", "request_id", middlewares.GetRequestID(r.Context()), "err", err)
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

// parseIntOrZero returns 0 for empty or non-numeric input so the service applies its default.
func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
