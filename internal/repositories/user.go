package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
	"github.com/sbilibin2017/gw-game-scores/internal/passwords"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, avatar, highest_score, created_at`

// UserReadRepository looks users up.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if none exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, models.NormalizeEmail(email))
}

// GetByUsername returns the user with the given username, or nil if none exists.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, models.NormalizeUsername(username))
}

// GetByID returns the user with the given id, or nil if none exists.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, userID)
}

// Exists reports whether a user with the given id is stored.
func (r *UserReadRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID)

	logger.Log.Infow(
		"query", query,
		"args", []any{userID},
		"result", exists,
		"error", err,
	)

	return exists, err
}

// GetAchievements returns the user's achievements in unlock order.
func (r *UserReadRepository) GetAchievements(ctx context.Context, userID uuid.UUID) ([]models.Achievement, error) {
	const query = `
		SELECT achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at ASC, achievement_id ASC
	`

	achievements := []models.Achievement{}
	err := r.db.SelectContext(ctx, &achievements, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", len(achievements),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, arg)

	// The hash never reaches the log.
	logger.Log.Infow(
		"query", query,
		"args", []any{arg},
		"result", user.UserID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository creates users and tracks their best score.
type UserWriteRepository struct {
	db         *sqlx.DB
	bcryptCost int
}

func NewUserWriteRepository(db *sqlx.DB, bcryptCost int) *UserWriteRepository {
	return &UserWriteRepository{db: db, bcryptCost: bcryptCost}
}

// Save validates and stores a new user. The password is hashed before it is
// written; the plaintext never reaches the database.
// Returns *models.ValidationError, models.ErrEmailTaken or models.ErrUsernameTaken on bad input.
func (r *UserWriteRepository) Save(ctx context.Context, newUser models.NewUser) (*models.UserDB, error) {
	newUser = newUser.Normalize()
	if err := newUser.Validate(); err != nil {
		return nil, err
	}

	hash, err := passwords.Hash(newUser.Password, r.bcryptCost)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, avatar, highest_score, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW())
		RETURNING ` + userColumns

	userID := uuid.New()
	var user models.UserDB
	err = r.db.GetContext(ctx, &user, query, userID, newUser.Username, newUser.Email, hash, newUser.Avatar)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, newUser.Username, newUser.Email, newUser.Avatar},
		"result", user.UserID,
		"error", err,
	)

	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &user, nil
}

// UpdateHighestScore raises the user's highest score to score if it is greater.
// The comparison happens inside a single UPDATE so concurrent submissions
// cannot lower the stored value. Reports whether a row was changed.
func (r *UserWriteRepository) UpdateHighestScore(ctx context.Context, userID uuid.UUID, score int64) (bool, error) {
	const query = `UPDATE users SET highest_score = $2 WHERE id = $1 AND highest_score < $2`

	res, err := r.db.ExecContext(ctx, query, userID, score)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{userID, score},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return models.ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "username"):
		return models.ErrUsernameTaken
	default:
		return err
	}
}
