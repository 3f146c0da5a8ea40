package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
)

// ScoreWriteRepository appends scores.
type ScoreWriteRepository struct {
	db *sqlx.DB
}

func NewScoreWriteRepository(db *sqlx.DB) *ScoreWriteRepository {
	return &ScoreWriteRepository{db: db}
}

// Save inserts a new score and returns the stored row.
func (r *ScoreWriteRepository) Save(ctx context.Context, userID uuid.UUID, username string, score int64) (*models.ScoreDB, error) {
	const query = `
		INSERT INTO scores (id, user_id, username, score, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, username, score, created_at
	`

	scoreID := uuid.New()
	args := []any{scoreID, userID, username, score}

	var saved models.ScoreDB
	err := r.db.GetContext(ctx, &saved, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", saved.ScoreID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ScoreReadRepository serves leaderboard reads.
type ScoreReadRepository struct {
	db *sqlx.DB
}

func NewScoreReadRepository(db *sqlx.DB) *ScoreReadRepository {
	return &ScoreReadRepository{db: db}
}

// GetTop returns at most limit scores after skipping offset, ordered by score
// descending and, for equal scores, by submission time ascending.
func (r *ScoreReadRepository) GetTop(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	const query = `
		SELECT s.id, s.user_id, s.username, COALESCE(u.avatar, '') AS avatar, s.score, s.created_at
		FROM scores s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY s.score DESC, s.created_at ASC, s.id ASC
		LIMIT $1 OFFSET $2
	`

	entries := []models.LeaderboardEntry{}
	err := r.db.SelectContext(ctx, &entries, query, limit, offset)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{limit, offset},
		"result", len(entries),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return entries, nil
}
