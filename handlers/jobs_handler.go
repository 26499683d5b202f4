package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fairwayfive/golf-pool/config"
	"github.com/fairwayfive/golf-pool/jobs"
	"github.com/fairwayfive/golf-pool/services"
)

// JobsHandler exposes scheduler lifecycle control, manual sync and manual
// recalculation.
type JobsHandler struct {
	registry   *jobs.Registry
	cycles     *services.CycleRunner
	calculator *services.CalculatorService
	cfg        *config.Config
}

func NewJobsHandler(
	registry *jobs.Registry,
	cycles *services.CycleRunner,
	calculator *services.CalculatorService,
	cfg *config.Config,
) *JobsHandler {
	return &JobsHandler{registry: registry, cycles: cycles, calculator: calculator, cfg: cfg}
}

// Start launches a scheduler. Omitted fields fall back to configured
// defaults.
func (h *JobsHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TournamentID    int  `json:"tournament_id"`
		IntervalSeconds *int `json:"interval_seconds"`
		StartHour       *int `json:"start_hour"`
		StopHour        *int `json:"stop_hour"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	interval := h.cfg.SyncInterval
	if input.IntervalSeconds != nil {
		interval = time.Duration(*input.IntervalSeconds) * time.Second
	}
	startHour := h.cfg.SyncStartHour
	if input.StartHour != nil {
		startHour = *input.StartHour
	}
	stopHour := h.cfg.SyncStopHour
	if input.StopHour != nil {
		stopHour = *input.StopHour
	}

	if err := h.registry.Start(input.TournamentID, interval, startHour, stopHour); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.registry.Status(input.TournamentID), nil)
}

func (h *JobsHandler) Stop(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TournamentID int `json:"tournament_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registry.Stop(input.TournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.registry.Status(input.TournamentID), nil)
}

// Status reports one scheduler when tournament_id is given, otherwise all
// running schedulers.
func (h *JobsHandler) Status(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readOptionalIntQuery(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if tournamentID != nil {
		writeJSON(w, http.StatusOK, h.registry.Status(*tournamentID), nil)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"jobs": h.registry.StatusAll()}, nil)
}

// Sync runs one fetch-and-recalculate cycle immediately. The configured busy
// policy decides whether a held lock queues the request or rejects it.
func (h *JobsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	info, err := h.cycles.Run(r.Context(), tournamentID, h.cfg.SyncBusyPolicy == config.BusyWait)
	if err != nil {
		if errors.Is(err, services.ErrSyncInProgress) {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if info != nil {
			// The cycle started but failed; return the diagnostic.
			writeJSON(w, http.StatusBadGateway, info, nil)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info, nil)
}

// Calculate recomputes scores from already-synced data without a fresh
// fetch.
func (h *JobsHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TournamentID int  `json:"tournament_id"`
		RoundID      *int `json:"round_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.calculator.Calculate(r.Context(), input.TournamentID, input.RoundID, h.cfg.SyncBusyPolicy == config.BusyWait)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result, nil)
}
