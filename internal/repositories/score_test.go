package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoreWriteRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	scoreID := uuid.New()
	createdAt := time.Now().UTC()
	insert := regexp.QuoteMeta("INSERT INTO scores (id, user_id, username, score, created_at)")

	mock.ExpectQuery(insert).
		WithArgs(sqlmock.AnyArg(), userID, "alice", int64(120)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "username", "score", "created_at"}).
			AddRow(scoreID.String(), userID.String(), "alice", int64(120), createdAt))

	saved, err := repo.Save(ctx, userID, "alice", 120)
	require.NoError(t, err)
	assert.Equal(t, scoreID, saved.ScoreID)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, int64(120), saved.Score)
	assert.Equal(t, createdAt, saved.CreatedAt)

	mock.ExpectQuery(insert).WillReturnError(errors.New("insert failed"))
	saved, err = repo.Save(ctx, userID, "alice", 1)
	assert.EqualError(t, err, "insert failed")
	assert.Nil(t, saved)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreReadRepository_GetTop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoreReadRepository(db)
	ctx := context.Background()

	order := regexp.QuoteMeta("ORDER BY s.score DESC, s.created_at ASC, s.id ASC LIMIT $1 OFFSET $2")
	columns := []string{"id", "user_id", "username", "avatar", "score", "created_at"}
	now := time.Now().UTC()

	t.Run("rows", func(t *testing.T) {
		mock.ExpectQuery(order).
			WithArgs(2, 1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.NewString(), uuid.NewString(), "bob", "bob.png", int64(80), now).
				AddRow(uuid.NewString(), uuid.NewString(), "carol", "", int64(70), now))

		entries, err := repo.GetTop(ctx, 2, 1)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(80), entries[0].Score)
		assert.Equal(t, "bob.png", entries[0].Avatar)
		assert.Equal(t, int64(70), entries[1].Score)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(order).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(columns))

		entries, err := repo.GetTop(ctx, 10, 0)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectQuery(order).
			WithArgs(10, 0).
			WillReturnError(errors.New("select failed"))

		entries, err := repo.GetTop(ctx, 10, 0)
		assert.EqualError(t, err, "select failed")
		assert.Nil(t, entries)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
