package handlers

import (
	"net/http"

	"github.com/fairwayfive/golf-pool/services"
)

type EntryHandler struct {
	entries *services.EntryService
}

func NewEntryHandler(entries *services.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.entries.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry, nil)
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := readIntParam(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.entries.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail, nil)
}

func (h *EntryHandler) AddRebuy(w http.ResponseWriter, r *http.Request) {
	id, err := readIntParam(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddRebuyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.entries.AddRebuy(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry, nil)
}
