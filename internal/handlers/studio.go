// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thumbstudio/internal/cache"
	"thumbstudio/internal/imaging"
	"thumbstudio/internal/middleware"
	"thumbstudio/internal/models"
	"thumbstudio/internal/studio"
)

// Studio groups the image workspace HTTP handlers. Every route here sits
// behind RequireAuth, so the session is always present.
type Studio struct {
	svc      *studio.Service
	previews *cache.PreviewCache
}

// NewStudio creates a new Studio handler group.
func NewStudio(svc *studio.Service, previews *cache.PreviewCache) *Studio {
	return &Studio{svc: svc, previews: previews}
}

type promptRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type generateResponse struct {
	Image   *models.GeneratedImage `json:"image"`
	Balance int                    `json:"balance"`
}

// State returns the session's full studio state: current image, history,
// slider positions, and the CSS filter string for live preview.
func (h *Studio) State(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromCtx(r.Context())
	writeJSON(w, http.StatusOK, h.svc.Snapshot(sid))
}

// Generate produces a new image from a prompt, debiting tokens.
func (h *Studio) Generate(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	ratio, err := models.ParseAspectRatio(req.AspectRatio)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	sid := middleware.SessionIDFromCtx(r.Context())

	res, err := h.svc.Generate(r.Context(), sid, sess.UserID, req.Prompt, ratio)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Image: res.Image, Balance: res.Balance})
}

// Edit reworks the current image with a modification prompt, debiting
// tokens like a generation.
func (h *Studio) Edit(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	sid := middleware.SessionIDFromCtx(r.Context())

	res, err := h.svc.Edit(r.Context(), sid, sess.UserID, req.Prompt)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Image: res.Image, Balance: res.Balance})
}

// Adjustments stores new slider positions and returns the updated state.
// Free: moving sliders only changes the live preview.
func (h *Studio) Adjustments(w http.ResponseWriter, r *http.Request) {
	var adj imaging.Adjustments
	if err := decodeJSON(w, r, &adj); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sid := middleware.SessionIDFromCtx(r.Context())
	writeJSON(w, http.StatusOK, h.svc.UpdateAdjustments(sid, adj))
}

// ResetAdjustments returns every slider to neutral.
func (h *Studio) ResetAdjustments(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromCtx(r.Context())
	writeJSON(w, http.StatusOK, h.svc.UpdateAdjustments(sid, imaging.DefaultAdjustments()))
}

// Commit bakes the current adjustments into a new history entry.
func (h *Studio) Commit(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromCtx(r.Context())

	img, err := h.svc.Commit(sid)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"image":    img,
		"snapshot": h.svc.Snapshot(sid),
	})
}

// History returns the session's images, newest first.
func (h *Studio) History(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromCtx(r.Context())
	writeJSON(w, http.StatusOK, h.svc.Snapshot(sid).History)
}

// SelectHistory makes a history entry the current image and resets the
// sliders.
func (h *Studio) SelectHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}

	sid := middleware.SessionIDFromCtx(r.Context())
	snap, err := h.svc.SelectHistory(sid, id)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// ClearHistory wipes the session's images and resets the workspace.
func (h *Studio) ClearHistory(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromCtx(r.Context())
	h.invalidatePreviews(r, sid)
	writeJSON(w, http.StatusOK, h.svc.ClearHistory(sid))
}

// Image serves a history entry's full-size payload.
func (h *Studio) Image(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}

	sid := middleware.SessionIDFromCtx(r.Context())
	img, err := h.svc.Image(sid, id)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(img.Data)
}

// Preview serves a downscaled thumbnail of a history entry, cached in
// Valkey so the strip renders fast across page loads.
func (h *Studio) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}

	sid := middleware.SessionIDFromCtx(r.Context())
	img, err := h.svc.Image(sid, id)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	if data, ok := h.previews.Get(r.Context(), img.ID.String()); ok {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.Write(data)
		return
	}

	thumb, err := imaging.Thumbnail(img.Data)
	if err != nil {
		slog.Error("thumbnail failed", "image_id", img.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render preview")
		return
	}
	h.previews.Set(r.Context(), img.ID.String(), thumb)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(thumb)
}

// Export downloads the current image as PNG with the live adjustments
// baked in. The filename carries a millisecond timestamp.
func (h *Studio) Export(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromCtx(r.Context())

	snap := h.svc.Snapshot(sid)
	if snap.Current == nil {
		h.writeWorkflowError(w, studio.ErrNoCurrentImage)
		return
	}

	data, err := imaging.Bake(snap.Current.Data, snap.Adjustments)
	if err != nil {
		slog.Error("export bake failed", "image_id", snap.Current.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not export image")
		return
	}

	filename := fmt.Sprintf("thumbstudio-%d.png", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// invalidatePreviews drops cached thumbnails for every history entry.
func (h *Studio) invalidatePreviews(r *http.Request, sid string) {
	snap := h.svc.Snapshot(sid)
	ids := make([]string, 0, len(snap.History))
	for _, img := range snap.History {
		ids = append(ids, img.ID.String())
	}
	if len(ids) > 0 {
		h.previews.Invalidate(r.Context(), ids...)
	}
}

// writeWorkflowError maps studio errors onto the HTTP taxonomy.
func (h *Studio) writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, studio.ErrInsufficientTokens):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Error: "not enough tokens for this operation",
			Shop:  true,
		})
	case errors.Is(err, studio.ErrBusy):
		writeError(w, http.StatusConflict, "another operation is in progress")
	case errors.Is(err, studio.ErrNoCurrentImage):
		writeError(w, http.StatusConflict, "no image to work on yet")
	case errors.Is(err, studio.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "image not found")
	case errors.Is(err, studio.ErrPromptRejected):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, studio.ErrGateway):
		// Tokens were already refunded by the workflow.
		writeError(w, http.StatusBadGateway, "image service is unavailable, tokens were not spent")
	default:
		slog.Error("studio operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
