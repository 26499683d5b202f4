package handlers

import (
	"net/http"

	"github.com/fairwayfive/golf-pool/services"
)

type ParticipantHandler struct {
	participants *services.ParticipantService
}

func NewParticipantHandler(participants *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name  string  `json:"name"`
		Email *string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participants.Create(r.Context(), input.Name, input.Email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, participant, nil)
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participants.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil)
}
