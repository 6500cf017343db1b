package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/match"
)

type createMatchRequest struct {
	Type           match.Type `json:"type"`
	HostUserID     string     `json:"host_user_id"`
	OpponentUserID string     `json:"opponent_user_id"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
}

// CreateMatchHandler is the admin path for creating a match directly,
// outside the invite flow. Regular matches come from invite confirmation.
func CreateMatchHandler(svc *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMatchRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.HostUserID == "" || req.OpponentUserID == "" {
			respondError(w, apperr.New(apperr.KindValidation, "host_user_id and opponent_user_id are required"))
			return
		}
		if req.Type == "" {
			req.Type = match.TypeCompetitive
		}

		m, err := svc.Create(&match.Match{
			ID:             uuid.NewString(),
			Type:           req.Type,
			Status:         match.StatusScheduled,
			HostUserID:     req.HostUserID,
			OpponentUserID: req.OpponentUserID,
			ScheduledAt:    req.ScheduledAt,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info("Match created", "matchID", m.ID, "type", m.Type)
		respondJSON(w, http.StatusCreated, m)
	}
}

func GetMatchHandler(svc *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Get(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func CancelMatchHandler(svc *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		m, err := svc.Cancel(r.PathValue("id"), caller)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

// CompleteMatchHandler is the admin override for closing out a match whose
// result was confirmed but whose transition was missed.
func CompleteMatchHandler(svc *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Complete(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}
