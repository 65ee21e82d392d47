package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/api/respond"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/service"
)

type TempleHandler struct {
	templeService *service.TempleService
	log           logging.Logger
}

func NewTempleHandler(templeService *service.TempleService, log logging.Logger) *TempleHandler {
	return &TempleHandler{templeService: templeService, log: log}
}

type TempleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	State       string    `json:"state"`
	Deity       string    `json:"deity"`
	Description string    `json:"description"`
	History     string    `json:"history"`
	Timings     string    `json:"timings"`
	DressCode   string    `json:"dress_code"`
	Festivals   []string  `json:"festivals"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTempleResponse(t *domain.Temple) (TempleResponse, error) {
	festivals, err := t.FestivalList()
	if err != nil {
		return TempleResponse{}, err
	}
	return TempleResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Location:    t.Location,
		State:       t.State,
		Deity:       t.Deity,
		Description: t.Description,
		History:     t.History,
		Timings:     t.Timings,
		DressCode:   t.DressCode,
		Festivals:   festivals,
		ImageURL:    t.ImageURL,
		CreatedAt:   t.CreatedAt,
	}, nil
}

func newTempleResponses(temples []*domain.Temple) ([]TempleResponse, error) {
	resp := make([]TempleResponse, len(temples))
	for i, t := range temples {
		tr, err := NewTempleResponse(t)
		if err != nil {
			return nil, err
		}
		resp[i] = tr
	}
	return resp, nil
}

func (h *TempleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.TempleFilter{
		State: r.URL.Query().Get("state"),
		Deity: r.URL.Query().Get("deity"),
	}

	temples, err := h.templeService.ListTemples(r.Context(), filter)
	if err != nil {
		h.log.Error(r.Context(), "list temples failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to get temples")
		return
	}

	resp, err := newTempleResponses(temples)
	if err != nil {
		h.log.Error(r.Context(), "encode temples failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to get temples")
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *TempleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Temple not found")
		return
	}

	temple, err := h.templeService.GetTemple(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTempleNotFound) {
			respond.Error(w, http.StatusNotFound, "Temple not found")
			return
		}
		h.log.Error(r.Context(), "get temple failed", "temple_id", id, "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to get temple")
		return
	}

	resp, err := NewTempleResponse(temple)
	if err != nil {
		h.log.Error(r.Context(), "encode temple failed", "temple_id", id, "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to get temple")
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
