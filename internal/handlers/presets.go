package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"thumbstudio/internal/store"
)

// Presets serves the curated thumbnail prompt catalog.
type Presets struct {
	presets *store.PresetStore
}

// NewPresets creates a new Presets handler group.
func NewPresets(presets *store.PresetStore) *Presets {
	return &Presets{presets: presets}
}

// List returns every preset in display order.
func (h *Presets) List(w http.ResponseWriter, r *http.Request) {
	presets, err := h.presets.List()
	if err != nil {
		slog.Error("preset list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load presets")
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

// Get returns a single preset by its slug ID.
func (h *Presets) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	preset, err := h.presets.Find(id)
	if err != nil {
		slog.Error("preset lookup failed", "preset_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load preset")
		return
	}
	if preset == nil {
		writeError(w, http.StatusNotFound, "preset not found")
		return
	}
	writeJSON(w, http.StatusOK, preset)
}
