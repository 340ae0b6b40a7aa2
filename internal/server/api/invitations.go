package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
	"github.com/go-chi/chi/v5"
)

type rsvpRequest struct {
	Status   string  `json:"status"`
	PlusOnes int     `json:"plus_ones"`
	Message  *string `json:"message"`
}

// showInvitation handles GET /i/{token}, the public share link.
func (h *Handler) showInvitation(w http.ResponseWriter, r *http.Request) {
	doc, err := h.records.Invitation(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// respondInvitation handles POST /i/{token} with the guest's answer.
func (h *Handler) respondInvitation(w http.ResponseWriter, r *http.Request) {
	var req rsvpRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.records.Respond(r.Context(), chi.URLParam(r, "token"), tables.Response{
		Status:   req.Status,
		PlusOnes: req.PlusOnes,
		Message:  req.Message,
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
