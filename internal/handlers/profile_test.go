package handlers

import (
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

func TestProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockProfiler(ctrl)
	identity := &models.Identity{ID: uuid.New(), Username: "alice"}
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	profile := &models.Profile{
		ID:           identity.ID,
		Username:     "alice",
		Email:        "alice@example.com",
		Avatar:       models.DefaultAvatar,
		HighestScore: 900,
		Achievements: []models.Achievement{{AchievementID: "first_win", UnlockedAt: createdAt}},
		CreatedAt:    createdAt,
	}

	tests := []struct {
		name         string
		identity     *models.Identity
		mockSetup    func()
		expectedCode int
		expectedBody interface{}
	}{
		{
			name:     "success",
			identity: identity,
			mockSetup: func() {
				mockSvc.EXPECT().Profile(gomock.Any(), identity.ID).Return(profile, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &ProfileResponse{User: profile},
		},
		{
			name:         "no identity",
			mockSetup:    func() {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: &ErrorResponse{Message: "No token, authorization denied"},
		},
		{
			name:     "user gone",
			identity: identity,
			mockSetup: func() {
				mockSvc.EXPECT().Profile(gomock.Any(), identity.ID).Return(nil, services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: &ErrorResponse{Message: "User not found"},
		},
		{
			name:     "internal error",
			identity: identity,
			mockSetup: func() {
				mockSvc.EXPECT().Profile(gomock.Any(), identity.ID).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: &ErrorResponse{Message: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.identity != nil {
				req = req.WithContext(middlewares.SetIdentityToContext(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()

			NewProfileHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var respBody interface{}
			if tt.expectedCode == http.StatusOK {
				respBody = &ProfileResponse{}
			} else {
				respBody = &ErrorResponse{}
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), respBody))
			assert.Equal(t, tt.expectedBody, respBody)
		})
	}
}
