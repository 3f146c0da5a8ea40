package handlers

import (
	"net/http"
)

// NewHealthHandler returns a liveness handler.
// @Summary Liveness
// @Tags health
// @Produce plain
// @Success 200 {string} string "Game Scores API is running!"
// @Router / [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Game Scores API is running!"))
	}
}
