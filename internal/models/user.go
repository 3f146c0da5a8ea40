package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAvatar is stored for users who register without an avatar reference.
const DefaultAvatar = "default_avatar_placeholder.png"

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"id" db:"id"`                      // Primary key
	Username     string    `json:"username" db:"username"`          // Unique username
	Email        string    `json:"email" db:"email"`                // Unique, lowercased email
	PasswordHash string    `json:"-" db:"password_hash"`            // bcrypt hash, never serialized
	Avatar       string    `json:"avatar" db:"avatar"`              // Avatar reference
	HighestScore int64     `json:"highestScore" db:"highest_score"` // Best submitted score
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`       // Creation timestamp
}

// NewUser carries the fields accepted when a user is created.
type NewUser struct {
	Username string
	Email    string
	Password string
	Avatar   string
}

// Achievement is an unlocked achievement of a user.
type Achievement struct {
	AchievementID string    `json:"achievementId" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlockedAt" db:"unlocked_at"`
}

// UserResponse is the safe projection of a user returned to clients.
// swagger:model UserResponse
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
}

// NewUserResponse projects a stored user without its credentials.
func NewUserResponse(u *UserDB) UserResponse {
	return UserResponse{
		ID:       u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

// Profile is the full view of the authenticated user.
// swagger:model Profile
type Profile struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Avatar       string        `json:"avatar"`
	HighestScore int64         `json:"highestScore"`
	Achievements []Achievement `json:"achievements"`
	CreatedAt    time.Time     `json:"createdAt"`
}
