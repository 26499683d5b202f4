package handlers

import (
	"net/http"

	"github.com/fairwayfive/golf-pool/services"
)

type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// History returns the ordered ranking snapshot ledger, optionally filtered
// by round and entry.
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roundID, err := readOptionalIntQuery(r, "round_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entryID, err := readOptionalIntQuery(r, "entry_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshots, err := h.history.History(r.Context(), tournamentID, roundID, entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"snapshots": snapshots}, nil)
}

func (h *HistoryHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	analytics, err := h.history.Analytics(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics, nil)
}
