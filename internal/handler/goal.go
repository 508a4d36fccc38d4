package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goalspan/goalspan/internal/config"
	"github.com/goalspan/goalspan/internal/repository"
	"github.com/goalspan/goalspan/internal/service"
	"github.com/goalspan/goalspan/internal/validation"
)

type GoalHandler struct {
	goals *service.GoalService
	cfg   *config.Config
}

func NewGoalHandler(goals *service.GoalService, cfg *config.Config) *GoalHandler {
	return &GoalHandler{
		goals: goals,
		cfg:   cfg,
	}
}

type createGoalRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var errs validation.Errors
	errs.Check("name", validation.ValidateGoalName(req.Name))
	if req.Description != nil {
		errs.Check("description", validation.ValidateDescription(*req.Description))
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	goal, err := h.goals.Create(req.Name, req.Description)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, "goal created", goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

	filter := repository.GoalFilter{Name: r.URL.Query().Get("name")}

	goals, total, err := h.goals.List(filter, page, pageSize)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondList(w, goals, len(goals), NewPagination(total, page, pageSize))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	goal, err := h.goals.ByID(id)
	if errors.Is(err, service.ErrGoalNotFound) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "", goal)
}

type updateGoalRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	var req updateGoalRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var errs validation.Errors
	if req.Name == nil && req.Description == nil {
		errs.Add("body", "at least one field is required")
	}
	if req.Name != nil {
		errs.Check("name", validation.ValidateGoalName(*req.Name))
	}
	if req.Description != nil {
		errs.Check("description", validation.ValidateDescription(*req.Description))
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	goal, err := h.goals.Update(id, repository.GoalUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if errors.Is(err, service.ErrGoalNotFound) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "goal updated", goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	err = h.goals.Delete(id)
	if errors.Is(err, service.ErrGoalNotFound) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "goal deleted", nil)
}

// Intervals lists the goal's associations denormalized with each
// interval's dates and owner.
func (h *GoalHandler) Intervals(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	links, err := h.goals.Intervals(id)
	if errors.Is(err, service.ErrGoalNotFound) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondCollection(w, links, len(links))
}
