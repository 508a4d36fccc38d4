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

type UserHandler struct {
	users *service.UserService
	cfg   *config.Config
}

func NewUserHandler(users *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		users: users,
		cfg:   cfg,
	}
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var errs validation.Errors
	errs.Check("email", validation.ValidateEmail(req.Email))
	errs.Check("firstName", validation.ValidateName(req.FirstName))
	errs.Check("lastName", validation.ValidateName(req.LastName))
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	user, err := h.users.Create(req.Email, req.FirstName, req.LastName)
	if errors.Is(err, service.ErrEmailTaken) {
		respondError(w, http.StatusConflict, "email is already registered")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, "user created", user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	q := r.URL.Query()

	filter := repository.UserFilter{
		Email:     q.Get("email"),
		FirstName: q.Get("firstName"),
		LastName:  q.Get("lastName"),
	}

	users, total, err := h.users.List(filter, page, pageSize)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondList(w, users, len(users), NewPagination(total, page, pageSize))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.users.ByID(id)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "", user)
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var errs validation.Errors
	if req.Email == nil && req.FirstName == nil && req.LastName == nil {
		errs.Add("body", "at least one field is required")
	}
	if req.Email != nil {
		errs.Check("email", validation.ValidateEmail(*req.Email))
	}
	if req.FirstName != nil {
		errs.Check("firstName", validation.ValidateName(*req.FirstName))
	}
	if req.LastName != nil {
		errs.Check("lastName", validation.ValidateName(*req.LastName))
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	user, err := h.users.Update(id, repository.UserUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if errors.Is(err, service.ErrEmailTaken) {
		respondError(w, http.StatusConflict, "email is already registered")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "user updated", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	err = h.users.Delete(id)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "user deleted", nil)
}

func (h *UserHandler) Intervals(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	page, pageSize := pageParams(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

	intervals, total, err := h.users.Intervals(id, page, pageSize)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondList(w, intervals, len(intervals), NewPagination(total, page, pageSize))
}

func (h *UserHandler) Goals(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	page, pageSize := pageParams(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

	goals, total, err := h.users.Goals(id, page, pageSize)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondList(w, goals, len(goals), NewPagination(total, page, pageSize))
}

// GoalStats returns, per goal, how many of the user's intervals link to it,
// optionally restricted to intervals overlapping a date range.
func (h *UserHandler) GoalStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	q := r.URL.Query()
	startDate := q.Get("startDate")
	endDate := q.Get("endDate")

	var errs validation.Errors
	if startDate != "" {
		errs.Check("startDate", validation.ValidateDate(startDate))
	}
	if endDate != "" {
		errs.Check("endDate", validation.ValidateDate(endDate))
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	stats, err := h.users.GoalStats(id, startDate, endDate)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondCollection(w, stats, len(stats))
}
