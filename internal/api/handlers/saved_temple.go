package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/api/middleware"
	"github.com/templequest/temple-api/internal/api/respond"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/service"
)

type SavedTempleHandler struct {
	savedService *service.SavedTempleService
	log          logging.Logger
}

func NewSavedTempleHandler(savedService *service.SavedTempleService, log logging.Logger) *SavedTempleHandler {
	return &SavedTempleHandler{savedService: savedService, log: log}
}

type SaveTempleRequest struct {
	TempleID string `json:"temple_id"`
}

func (h *SavedTempleHandler) Save(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req SaveTempleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TempleID == "" {
		respond.Error(w, http.StatusBadRequest, "temple_id is required")
		return
	}

	templeID, err := uuid.Parse(req.TempleID)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Temple not found")
		return
	}

	if err := h.savedService.Save(r.Context(), user, templeID); err != nil {
		switch {
		case errors.Is(err, domain.ErrTempleNotFound):
			respond.Error(w, http.StatusNotFound, "Temple not found")
		case errors.Is(err, domain.ErrTempleAlreadySaved):
			respond.Error(w, http.StatusBadRequest, "Temple already saved")
		default:
			h.log.Error(r.Context(), "save temple failed", "user_id", user.ID, "temple_id", templeID, "err", err)
			respond.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respond.Message(w, "Temple saved successfully")
}

func (h *SavedTempleHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	temples, err := h.savedService.List(r.Context(), user)
	if err != nil {
		h.log.Error(r.Context(), "list saved temples failed", "user_id", user.ID, "err", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp, err := newTempleResponses(temples)
	if err != nil {
		h.log.Error(r.Context(), "encode saved temples failed", "user_id", user.ID, "err", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *SavedTempleHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	templeID, err := uuid.Parse(chi.URLParam(r, "templeId"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Saved temple not found")
		return
	}

	if err := h.savedService.Unsave(r.Context(), user, templeID); err != nil {
		if errors.Is(err, domain.ErrSavedTempleNotFound) {
			respond.Error(w, http.StatusNotFound, "Saved temple not found")
			return
		}
		h.log.Error(r.Context(), "unsave temple failed", "user_id", user.ID, "temple_id", templeID, "err", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Message(w, "Temple removed from saved list")
}
