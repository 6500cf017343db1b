package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/players"
)

type upsertPlayerRequest struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	LevelValue      float64  `json:"level_value"`
	LevelConfidence float64  `json:"level_confidence"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

func UpsertPlayerHandler(store players.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req upsertPlayerRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.Name == "" {
			respondError(w, apperr.New(apperr.KindValidation, "name is required"))
			return
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		p := players.PlayerInfo{
			ID:              req.ID,
			UserID:          user,
			Name:            req.Name,
			LevelValue:      req.LevelValue,
			LevelConfidence: req.LevelConfidence,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
		}
		if err := store.Upsert(p); err != nil {
			respondError(w, err)
			return
		}
		stored, err := store.FindByUserID(user)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stored)
	}
}

func LeaderboardHandler(store players.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 25
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				respondError(w, apperr.New(apperr.KindValidation, "limit must be a positive integer"))
				return
			}
			limit = n
		}
		board, err := store.Leaderboard(limit)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, board)
	}
}

func RatingHistoryHandler(store players.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := store.History(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, history)
	}
}
