package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/clock"
)

type createAvailabilityRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	MinLevel  *float64  `json:"min_level,omitempty"`
	MaxLevel  *float64  `json:"max_level,omitempty"`
	Surface   *string   `json:"surface,omitempty"`
}

func CreateAvailabilityHandler(store availability.AvailabilityStore, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req createAvailabilityRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if !req.EndTime.After(req.StartTime) {
			respondError(w, apperr.New(apperr.KindValidation, "end_time must be after start_time"))
			return
		}

		a := &availability.Availability{
			ID:          uuid.NewString(),
			OwnerUserID: owner,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			MinLevel:    req.MinLevel,
			MaxLevel:    req.MaxLevel,
			Surface:     req.Surface,
			Status:      availability.StatusOpen,
			CreatedAt:   clk.Now(),
		}
		if err := store.Create(a); err != nil {
			respondError(w, err)
			return
		}
		log.Info("Availability created", "availabilityID", a.ID, "owner", owner)
		respondJSON(w, http.StatusCreated, a)
	}
}

func ListAvailabilitiesHandler(store availability.AvailabilityStore, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := clk.Now()
		from, to := now, now.AddDate(0, 0, 14)
		if v := r.URL.Query().Get("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				respondError(w, apperr.New(apperr.KindValidation, "invalid 'from' timestamp: %v", err))
				return
			}
			from = t
		}
		if v := r.URL.Query().Get("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				respondError(w, apperr.New(apperr.KindValidation, "invalid 'to' timestamp: %v", err))
				return
			}
			to = t
		}

		list, err := store.ListOpen(from, to)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func GetAvailabilityHandler(store availability.AvailabilityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		a, err := store.Get(id)
		if err != nil {
			respondError(w, err)
			return
		}
		if a == nil {
			respondError(w, apperr.New(apperr.KindNotFound, "availability %s not found", id))
			return
		}
		respondJSON(w, http.StatusOK, a)
	}
}
