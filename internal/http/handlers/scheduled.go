package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/invite"
)

// ExpireInvitesHandler sweeps every pending invite past its TTL. Invoked by
// Cloud Scheduler; it is idempotent so overlapping runs are harmless.
func ExpireInvitesHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.ExpirePending()
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info("Expired pending invites", "count", n)
		respondJSON(w, http.StatusOK, map[string]int64{"expired": n})
	}
}

// ExpireInviteHandler force-expires a single invite. Idempotent: a
// non-pending invite is left alone.
func ExpireInviteHandler(svc *invite.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Expire(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
