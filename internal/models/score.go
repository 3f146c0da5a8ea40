package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxScore is the highest score a client may submit.
const MaxScore int64 = 1_000_000_000

// ScoreDB represents a leaderboard entry in the database
type ScoreDB struct {
	ScoreID   uuid.UUID `json:"id" db:"id"`                // Primary key
	UserID    uuid.UUID `json:"user" db:"user_id"`         // Owning user
	Username  string    `json:"username" db:"username"`    // Username captured at submission time
	Score     int64     `json:"score" db:"score"`          // Submitted score
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // Submission timestamp
}

// LeaderboardEntry is a score enriched with its owner's current avatar.
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	ScoreID   uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Avatar    string    `json:"avatar" db:"avatar"`
	Score     int64     `json:"score" db:"score"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ScoreEvent is published after a score has been stored.
type ScoreEvent struct {
	ScoreID   string    `json:"id"`
	UserID    string    `json:"user"`
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
