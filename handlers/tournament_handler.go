package handlers

import (
	"net/http"

	"github.com/fairwayfive/golf-pool/services"
)

type TournamentHandler struct {
	tournaments *services.TournamentService
	entries     *services.EntryService
	leaderboard *services.LeaderboardService
}

func NewTournamentHandler(
	tournaments *services.TournamentService,
	entries *services.EntryService,
	leaderboard *services.LeaderboardService,
) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments, entries: entries, leaderboard: leaderboard}
}

// Create registers a tournament by fetching its header from the provider.
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Year       int    `json:"year"`
		ExternalID string `json:"external_id"`
		OrgID      string `json:"org_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournaments.CreateFromProvider(r.Context(), input.Year, input.ExternalID, input.OrgID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tournament, nil)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	year, err := readOptionalIntQuery(r, "year")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournaments.List(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournaments.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tournament, nil)
}

func (h *TournamentHandler) Entries(w http.ResponseWriter, r *http.Request) {
	id, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.entries.ListByTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil)
}

func (h *TournamentHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboard.Leaderboard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board, nil)
}
