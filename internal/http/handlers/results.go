package handlers

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/result"
)

type submitResultRequest struct {
	Sets []result.SetScore `json:"sets"`
}

func SubmitResultHandler(svc *result.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submitter, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req submitResultRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		res, err := svc.Submit(r.PathValue("id"), req.Sets, submitter)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, res)
	}
}

func GetResultHandler(svc *result.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Get(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func ConfirmResultHandler(svc *result.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		res, err := svc.Confirm(r.PathValue("id"), caller)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func DisputeResultHandler(svc *result.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		res, err := svc.Dispute(r.PathValue("id"), caller)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func AddSetHandler(svc *result.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var set result.SetScore
		if err := decodeBody(r, &set); err != nil {
			respondError(w, err)
			return
		}
		res, err := svc.AddSet(r.PathValue("id"), set)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}
