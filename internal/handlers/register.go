package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/middlewares"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
)

//go:generate mockgen -source=register.go -destination=register_mock.go -package=handlers

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, newUser models.NewUser) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Avatar reference, defaults to the placeholder avatar
	Avatar string `json:"avatar"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// default: User registered successfully! Please log in.
	Message string              `json:"message"`
	User    models.UserResponse `json:"user"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a user account. The password is never returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "Register Request"
// @Success 201 {object} handlers.RegisterResponse "User registered"
// @Failure 400 {object} handlers.ErrorResponse "Missing fields, conflict or validation error"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Username, email and password are required")
			return
		}

		user, err := svc.Register(r.Context(), models.NewUser{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Avatar:   req.Avatar,
		})
		if err != nil {
			var verr *models.ValidationError
			switch {
			case errors.Is(err, models.ErrEmailTaken):
				writeError(w, http.StatusBadRequest, "An account with this email already exists")
			case errors.Is(err, models.ErrUsernameTaken):
				writeError(w, http.StatusBadRequest, "This username is already taken")
			case errors.As(err, &verr):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{
					Message: "Validation error",
					Errors:  verr.Errors,
				})
			default:
				logger.Log.Errorw("registration failed", "request_id", middlewares.GetRequestID(r.Context()), "err", err)
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			Message: "User registered successfully! Please log in.",
			User:    models.NewUserResponse(user),
		})
	}
}
