package handlers

import (
	"errors"
	"net/http"

	"github.com/fairwayfive/golf-pool/services"
)

type BonusHandler struct {
	bonuses *services.BonusService
}

func NewBonusHandler(bonuses *services.BonusService) *BonusHandler {
	return &BonusHandler{bonuses: bonuses}
}

// Add creates one award; the response totals are already recalculated.
func (h *BonusHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input services.AddBonusInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	mutation, err := h.bonuses.Add(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutation, nil)
}

func (h *BonusHandler) AddBulk(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Awards []services.AddBonusInput `json:"awards"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Awards) == 0 {
		badRequestResponse(w, r, errors.New("awards must not be empty"))
		return
	}

	results := h.bonuses.AddBulk(r.Context(), input.Awards)
	writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil)
}

func (h *BonusHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readOptionalIntQuery(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if tournamentID == nil {
		badRequestResponse(w, r, errors.New("tournament_id is required"))
		return
	}
	roundID, err := readOptionalIntQuery(r, "round_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	awards, err := h.bonuses.List(r.Context(), *tournamentID, roundID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"bonus_points": awards}, nil)
}

func (h *BonusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIntParam(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	mutation, err := h.bonuses.Delete(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutation, nil)
}

// Suggestions lists scorecard-derived award candidates for confirmation.
func (h *BonusHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readOptionalIntQuery(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if tournamentID == nil {
		badRequestResponse(w, r, errors.New("tournament_id is required"))
		return
	}

	suggestions, err := h.bonuses.Suggestions(r.Context(), *tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"suggestions": suggestions}, nil)
}
