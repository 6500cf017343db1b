package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/invite"
)

type createInviteRequest struct {
	AvailabilityID string            `json:"availability_id"`
	Visibility     invite.Visibility `json:"visibility"`
	Conditions     invite.Conditions `json:"conditions"`
}

func CreateInviteHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inviter, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req createInviteRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.Visibility == "" {
			req.Visibility = invite.VisibilityPrivate
		}

		inv, err := svc.Create(inviter, req.AvailabilityID, req.Conditions, req.Visibility)
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info("Invite created", "inviteID", inv.ID, "availabilityID", inv.AvailabilityID)
		respondJSON(w, http.StatusCreated, inv)
	}
}

func GetInviteHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.GetByToken(r.PathValue("token"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, inv)
	}
}

func ConfirmInviteHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acceptor, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		inv, m, err := svc.Confirm(r.PathValue("token"), acceptor)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"invite": inv,
			"match":  m,
		})
	}
}

func DeclineInviteHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.Decline(r.PathValue("token"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, inv)
	}
}

func CancelInviteHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		inv, err := svc.Cancel(r.PathValue("id"), caller)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, inv)
	}
}
