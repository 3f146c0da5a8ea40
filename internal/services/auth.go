package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
	"github.com/sbilibin2017/gw-game-scores/internal/passwords"
)

// Error variables
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUserNotFound       = errors.New("user not found")
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetAchievements(ctx context.Context, userID uuid.UUID) ([]models.Achievement, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, newUser models.NewUser) (*models.UserDB, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, identity models.Identity) (string, error)
}

// LoginAttempter counts failed logins per email.
type LoginAttempter interface {
	Get(ctx context.Context, email string) (int64, error)
	Increment(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

// AuthService handles registration and login.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	jwt         JWTGenerator
	attempts    LoginAttempter // nil disables throttling
	maxAttempts int64
}

// NewAuthService creates a new AuthService instance.
// attempts may be nil, in which case logins are never throttled.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, attempts LoginAttempter, maxAttempts int) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		attempts:    attempts,
		maxAttempts: int64(maxAttempts),
	}
}

// Register creates a new user after checking that neither the email nor the
// username is taken.
func (svc *AuthService) Register(ctx context.Context, newUser models.NewUser) (*models.UserDB, error) {
	newUser = newUser.Normalize()

	existing, err := svc.reader.GetByEmail(ctx, newUser.Email)
	if err != nil {
		logger.Log.Errorw("failed to look up user by email", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Infow("email already registered", "email", newUser.Email)
		return nil, models.ErrEmailTaken
	}

	existing, err = svc.reader.GetByUsername(ctx, newUser.Username)
	if err != nil {
		logger.Log.Errorw("failed to look up user by username", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Infow("username already taken", "username", newUser.Username)
		return nil, models.ErrUsernameTaken
	}

	user, err := svc.writer.Save(ctx, newUser)
	if err != nil {
		var verr *models.ValidationError
		if !errors.As(err, &verr) && !errors.Is(err, models.ErrEmailTaken) && !errors.Is(err, models.ErrUsernameTaken) {
			logger.Log.Errorw("failed to save user", "err", err)
		}
		return nil, err
	}

	logger.Log.Infow("user registered", "user_id", user.UserID)
	return user, nil
}

// Login authenticates a user by email and password and returns a token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, *models.UserDB, error) {
	email = models.NormalizeEmail(email)

	if svc.throttled(ctx, email) {
		return "", nil, ErrTooManyAttempts
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", nil, err
	}

	var hash string
	if user != nil {
		hash = user.PasswordHash
	}
	ok, err := passwords.Compare(hash, password)
	if err != nil {
		logger.Log.Errorw("failed to compare password", "err", err)
		return "", nil, err
	}
	if !ok {
		logger.Log.Infow("invalid credentials", "email", email)
		svc.recordFailure(ctx, email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, models.Identity{ID: user.UserID, Username: user.Username})
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", nil, err
	}

	svc.resetFailures(ctx, email)
	return token, user, nil
}

// Profile returns the stored user with its achievements.
func (svc *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	achievements, err := svc.reader.GetAchievements(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get achievements", "user_id", userID, "err", err)
		return nil, err
	}

	return &models.Profile{
		ID:           user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		Avatar:       user.Avatar,
		HighestScore: user.HighestScore,
		Achievements: achievements,
		CreatedAt:    user.CreatedAt,
	}, nil
}

// throttled reports whether email has reached the failure limit.
// Counter errors fail open.
func (svc *AuthService) throttled(ctx context.Context, email string) bool {
	if svc.attempts == nil || svc.maxAttempts <= 0 {
		return false
	}
	n, err := svc.attempts.Get(ctx, email)
	if err != nil {
		logger.Log.Warnw("failed to read login attempts", "err", err)
		return false
	}
	if n >= svc.maxAttempts {
		logger.Log.Warnw("login throttled", "email", email, "attempts", n)
		return true
	}
	return false
}

func (svc *AuthService) recordFailure(ctx context.Context, email string) {
	if svc.attempts == nil {
		return
	}
	if _, err := svc.attempts.Increment(ctx, email); err != nil {
		logger.Log.Warnw("failed to record login attempt", "err", err)
	}
}

func (svc *AuthService) resetFailures(ctx context.Context, email string) {
	if svc.attempts == nil {
		return
	}
	if err := svc.attempts.Reset(ctx, email); err != nil {
		logger.Log.Warnw("failed to reset login attempts", "err", err)
	}
}
