package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
	"github.com/segmentio/kafka-go"
)

// Leaderboard paging defaults.
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ErrInvalidScore is returned for scores outside [0, models.MaxScore].
var ErrInvalidScore = errors.New("score must be an integer between 0 and 1000000000")

//go:generate mockgen -source=score.go -destination=score_mock.go -package=services

// ScoreWriter stores submitted scores.
type ScoreWriter interface {
	Save(ctx context.Context, userID uuid.UUID, username string, score int64) (*models.ScoreDB, error)
}

// ScoreReader reads the leaderboard.
type ScoreReader interface {
	GetTop(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error)
}

// HighestScoreWriter raises a user's best score.
type HighestScoreWriter interface {
	UpdateHighestScore(ctx context.Context, userID uuid.UUID, score int64) (bool, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ScoreService handles score submission and the leaderboard.
type ScoreService struct {
	writer      ScoreWriter
	reader      ScoreReader
	users       HighestScoreWriter
	kafkaWriter KafkaWriter
	maxLimit    int
}

// NewScoreService creates a new ScoreService. kafkaWriter may be nil.
// maxLimit <= 0 selects MaxLeaderboardLimit.
func NewScoreService(
	writer ScoreWriter,
	reader ScoreReader,
	users HighestScoreWriter,
	kafkaWriter KafkaWriter,
	maxLimit int,
) *ScoreService {
	if maxLimit <= 0 {
		maxLimit = MaxLeaderboardLimit
	}
	return &ScoreService{
		writer:      writer,
		reader:      reader,
		users:       users,
		kafkaWriter: kafkaWriter,
		maxLimit:    maxLimit,
	}
}

// Submit stores a score for the authenticated user. Raising the user's
// highest score and publishing the event are best-effort: their failures are
// logged and do not fail the submission.
func (s *ScoreService) Submit(ctx context.Context, identity models.Identity, score int64) (*models.ScoreDB, error) {
	if score < 0 || score > models.MaxScore {
		return nil, ErrInvalidScore
	}

	saved, err := s.writer.Save(ctx, identity.ID, identity.Username, score)
	if err != nil {
		logger.Log.Errorw("failed to save score", "user_id", identity.ID, "score", score, "err", err)
		return nil, err
	}

	if raised, err := s.users.UpdateHighestScore(ctx, identity.ID, score); err != nil {
		logger.Log.Errorw("failed to update highest score", "user_id", identity.ID, "score", score, "err", err)
	} else if raised {
		logger.Log.Infow("highest score raised", "user_id", identity.ID, "score", score)
	}

	s.publishScore(ctx, saved)

	return saved, nil
}

// Leaderboard returns a page of the leaderboard. A non-positive limit selects
// the default, a negative offset starts from the top, and limit is capped.
func (s *ScoreService) Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	limit, offset = s.page(limit, offset)

	entries, err := s.reader.GetTop(ctx, limit, offset)
	if err != nil {
		logger.Log.Errorw("failed to get leaderboard", "limit", limit, "offset", offset, "err", err)
		return nil, err
	}
	return entries, nil
}

func (s *ScoreService) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// publishScore publishes a score event to Kafka.
func (s *ScoreService) publishScore(ctx context.Context, score *models.ScoreDB) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.ScoreEvent{
		ScoreID:   score.ScoreID.String(),
		UserID:    score.UserID.String(),
		Username:  score.Username,
		Score:     score.Score,
		CreatedAt: score.CreatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal score event", "score_id", event.ScoreID, "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish score event", "score_id", event.ScoreID, "err", err)
		return
	}
	logger.Log.Infow("score event published", "score_id", event.ScoreID, "score", event.Score)
}
