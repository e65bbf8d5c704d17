package handlers

import (
	"errors"
	"net/http"
	"trip-planner/internal/adapters/repositories"
	"trip-planner/internal/api/dto"
	"trip-planner/internal/domain"
	"trip-planner/internal/metrics"
	"trip-planner/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PointHandler exposes route point CRUD over /points.
type PointHandler struct {
	Repo    ports.RoutePointRepository
	Metrics *metrics.Metrics
	// NewID assigns ids to created points. Defaults to random UUIDs.
	NewID func() string
}

// Collection serves /points.
func (h *PointHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

// Item serves /points/{id}.
func (h *PointHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "route point not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w, r, "PUT, DELETE")
	}
}

func (h *PointHandler) list(w http.ResponseWriter, r *http.Request) {
	points, err := h.Repo.ListRoutePoints(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list route points failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.RoutePoint, 0, len(points))
	for _, p := range points {
		res = append(res, dto.AdaptRoutePointToServer(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PointHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.RoutePoint
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	point := dto.AdaptRoutePointToModel(req)
	point.ID = h.newID()
	if err := point.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Repo.CreateRoutePoint(r.Context(), point)
	h.observe("create", err)
	if err != nil {
		h.writeRepoError(w, r, "create", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.AdaptRoutePointToServer(created))
}

func (h *PointHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.RoutePoint
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ID != "" && req.ID != id {
		writeError(w, r, http.StatusBadRequest, "id in body does not match path")
		return
	}

	point := dto.AdaptRoutePointToModel(req)
	point.ID = id
	if err := point.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Repo.UpdateRoutePoint(r.Context(), point)
	h.observe("update", err)
	if err != nil {
		h.writeRepoError(w, r, "update", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AdaptRoutePointToServer(updated))
}

func (h *PointHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.Repo.DeleteRoutePoint(r.Context(), id)
	h.observe("delete", err)
	if err != nil {
		h.writeRepoError(w, r, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PointHandler) writeRepoError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "route point not found")
	case errors.Is(err, repositories.ErrAlreadyExists):
		writeError(w, r, http.StatusConflict, "route point already exists")
	case errors.Is(err, domain.ErrInvalidRoutePoint):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("op", op).Msg("route point write failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *PointHandler) observe(op string, err error) {
	if h.Metrics != nil {
		h.Metrics.ObserveMutation(op, err)
	}
}

func (h *PointHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}
