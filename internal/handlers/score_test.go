package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-game-scores/internal/middlewares"
	"github.com/sbilibin2017/gw-game-scores/internal/models"
	"github.com/sbilibin2017/gw-game-scores/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScoreHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockScoreSubmitter(ctrl)
	identity := &models.Identity{ID: uuid.New(), Username: "alice"}
	stored := &models.ScoreDB{
		ScoreID:   uuid.New(),
		UserID:    identity.ID,
		Username:  identity.Username,
		Score:     1200,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name         string
		identity     *models.Identity
		body         string
		mockSetup    func()
		expectedCode int
		expectedBody interface{}
	}{
		{
			name:     "success",
			identity: identity,
			body:     `{"score":1200}`,
			mockSetup: func() {
				mockSvc.EXPECT().Submit(gomock.Any(), *identity, int64(1200)).Return(stored, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: &SubmitScoreResponse{Message: "Score submitted successfully!", Score: stored},
		},
		{
			name:     "zero score",
			identity: identity,
			body:     `{"score":0}`,
			mockSetup: func() {
				mockSvc.EXPECT().Submit(gomock.Any(), *identity, int64(0)).Return(stored, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: &SubmitScoreResponse{Message: "Score submitted successfully!", Score: stored},
		},
		{
			name:         "no identity",
			body:         `{"score":1200}`,
			mockSetup:    func() {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: &ErrorResponse{Message: "No token, authorization denied"},
		},
		{
			name:         "missing score",
			identity:     identity,
			body:         `{}`,
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Message: "Score is required"},
		},
		{
			name:         "string score",
			identity:     identity,
			body:         `{"score":"1200"}`,
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Message: "Score must be an integer between 0 and 1000000000"},
		},
		{
			name:         "fractional score",
			identity:     identity,
			body:         `{"score":12.5}`,
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Message: "Score must be an integer between 0 and 1000000000"},
		},
		{
			name:     "out of range",
			identity: identity,
			body:     `{"score":-5}`,
			mockSetup: func() {
				mockSvc.EXPECT().Submit(gomock.Any(), *identity, int64(-5)).Return(nil, services.ErrInvalidScore)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Message: "Score must be an integer between 0 and 1000000000"},
		},
		{
			name:     "internal error",
			identity: identity,
			body:     `{"score":1200}`,
			mockSetup: func() {
				mockSvc.EXPECT().Submit(gomock.Any(), *identity, int64(1200)).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: &ErrorResponse{Message: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/api/scores", bytes.NewBufferString(tt.body))
			if tt.identity != nil {
				req = req.WithContext(middlewares.SetIdentityToContext(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()

			NewSubmitScoreHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var respBody interface{}
			if tt.expectedCode == http.StatusCreated {
				respBody = &SubmitScoreResponse{}
			} else {
				respBody = &ErrorResponse{}
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), respBody))
			assert.Equal(t, tt.expectedBody, respBody)
		})
	}
}

func TestLeaderboardHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLeaderboardReader(ctrl)
	entries := []models.LeaderboardEntry{
		{ScoreID: uuid.New(), UserID: uuid.New(), Username: "bob", Avatar: "bob.png", Score: 80,
			CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{ScoreID: uuid.New(), UserID: uuid.New(), Username: "alice", Avatar: models.DefaultAvatar, Score: 50,
			CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	tests := []struct {
		name           string
		query          string
		mockSetup      func()
		expectedCode   int
		expectedResult []models.LeaderboardEntry
	}{
		{
			name:  "defaults",
			query: "",
			mockSetup: func() {
				mockSvc.EXPECT().Leaderboard(gomock.Any(), 0, 0).Return(entries, nil)
			},
			expectedCode:   http.StatusOK,
			expectedResult: entries,
		},
		{
			name:  "paged",
			query: "?limit=2&offset=1",
			mockSetup: func() {
				mockSvc.EXPECT().Leaderboard(gomock.Any(), 2, 1).Return(entries[1:], nil)
			},
			expectedCode:   http.StatusOK,
			expectedResult: entries[1:],
		},
		{
			name:  "non-numeric params fall back",
			query: "?limit=abc&offset=xyz",
			mockSetup: func() {
				mockSvc.EXPECT().Leaderboard(gomock.Any(), 0, 0).Return(entries, nil)
			},
			expectedCode:   http.StatusOK,
			expectedResult: entries,
		},
		{
			name:  "negative params passed through",
			query: "?limit=-3&offset=-1",
			mockSetup: func() {
				mockSvc.EXPECT().Leaderboard(gomock.Any(), -3, -1).Return(entries, nil)
			},
			expectedCode:   http.StatusOK,
			expectedResult: entries,
		},
		{
			name:  "empty",
			query: "?offset=100",
			mockSetup: func() {
				mockSvc.EXPECT().Leaderboard(gomock.Any(), 0, 100).Return([]models.LeaderboardEntry{}, nil)
			},
			expectedCode:   http.StatusOK,
			expectedResult: []models.LeaderboardEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/api/scores/leaderboard"+tt.query, nil)
			w := httptest.NewRecorder()

			NewLeaderboardHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var got []models.LeaderboardEntry
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.expectedResult, got)
		})
	}
}

func TestLeaderboardHandler_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLeaderboardReader(ctrl)
	mockSvc.EXPECT().Leaderboard(gomock.Any(), 0, 0).Return(nil, errors.New("db error"))

	req := httptest.NewRequest(http.MethodGet, "/api/scores/leaderboard", nil)
	w := httptest.NewRecorder()

	NewLeaderboardHandler(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Message)
}
