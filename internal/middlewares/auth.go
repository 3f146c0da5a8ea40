package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=middlewares

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*models.Identity, error)
}

// UserChecker confirms that a token's user still exists.
type UserChecker interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type unauthorizedResponse struct {
	Message string `json:"message"`
}

// AuthMiddleware returns a middleware that verifies the bearer token and
// stores the identity it carries in the request context. When checker is
// non-nil the user is also looked up on every request.
func AuthMiddleware(tokener Tokener, checker UserChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				writeUnauthorized(w, "No token, authorization denied")
				return
			}

			identity, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				writeUnauthorized(w, "Token is not valid")
				return
			}

			if checker != nil {
				exists, err := checker.Exists(ctx, identity.ID)
				if err != nil {
					logger.Log.Errorw("failed to check token user", "user_id", identity.ID, "err", err)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(unauthorizedResponse{Message: "Internal server error"})
					return
				}
				if !exists {
					logger.Log.Infow("authorization failed", "err", "user no longer exists", "user_id", identity.ID)
					writeUnauthorized(w, "Token is not valid")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(SetIdentityToContext(ctx, identity)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(unauthorizedResponse{Message: message})
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var identityKey = contextKey{}

// SetIdentityToContext stores the authenticated identity in the context.
func SetIdentityToContext(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the authenticated identity. Returns nil if not present.
func GetIdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey).(*models.Identity)
	return identity
}
