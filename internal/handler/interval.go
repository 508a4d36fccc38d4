package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalspan/goalspan/internal/config"
	"github.com/goalspan/goalspan/internal/model"
	"github.com/goalspan/goalspan/internal/repository"
	"github.com/goalspan/goalspan/internal/service"
	"github.com/goalspan/goalspan/internal/validation"
)

type IntervalHandler struct {
	intervals *service.IntervalService
	cfg       *config.Config
}

func NewIntervalHandler(intervals *service.IntervalService, cfg *config.Config) *IntervalHandler {
	return &IntervalHandler{
		intervals: intervals,
		cfg:       cfg,
	}
}

type createIntervalRequest struct {
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	UserID    int64   `json:"userId"`
	GoalIDs   []int64 `json:"goalIds"`
}

// intervalWithGoals is the create response: the interval, its current goal
// list, and the per-goal outcome of the requested links.
type intervalWithGoals struct {
	*model.Interval
	Goals       []*model.GoalWithLink  `json:"goals"`
	GoalResults []model.GoalLinkResult `json:"goalResults,omitempty"`
}

func (h *IntervalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIntervalRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var errs validation.Errors
	errs.Check("startDate", validation.ValidateDate(req.StartDate))
	errs.Check("endDate", validation.ValidateDate(req.EndDate))
	if errs.Empty() {
		errs.Check("endDate", validation.ValidateDateRange(req.StartDate, req.EndDate))
	}
	if req.UserID <= 0 {
		errs.Add("userId", "must be a positive integer")
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	interval, results, err := h.intervals.Create(req.StartDate, req.EndDate, req.UserID, req.GoalIDs)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	goals, _, err := h.intervals.Goals(interval.ID, 1, h.cfg.MaxPageSize)
	if err != nil {
		slog.Error("failed to load goals of new interval", "error", err, "interval_id", interval.ID)
		goals = []*model.GoalWithLink{}
	}

	respondData(w, http.StatusCreated, "interval created", intervalWithGoals{
		Interval:    interval,
		Goals:       goals,
		GoalResults: results,
	})
}

func (h *IntervalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	q := r.URL.Query()

	var errs validation.Errors
	userID, err := optionalID(q, "userId")
	if err != nil {
		errs.Add("userId", err.Error())
	}
	goalID, err := optionalID(q, "goalId")
	if err != nil {
		errs.Add("goalId", err.Error())
	}
	startDate := q.Get("startDate")
	if startDate != "" {
		errs.Check("startDate", validation.ValidateDate(startDate))
	}
	endDate := q.Get("endDate")
	if endDate != "" {
		errs.Check("endDate", validation.ValidateDate(endDate))
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	filter := repository.IntervalFilter{
		UserID:    userID,
		GoalID:    goalID,
		StartDate: startDate,
		EndDate:   endDate,
	}

	intervals, total, err := h.intervals.List(filter, page, pageSize)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondList(w, intervals, len(intervals), NewPagination(total, page, pageSize))
}

// Active lists intervals whose date range contains the given date,
// inclusive on both ends.
func (h *IntervalHandler) Active(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var errs validation.Errors
	date := q.Get("date")
	errs.Check("date", validation.ValidateDate(date))
	userID, err := optionalID(q, "userId")
	if err != nil {
		errs.Add("userId", err.Error())
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	intervals, err := h.intervals.Active(date, userID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondCollection(w, intervals, len(intervals))
}

func (h *IntervalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interval id")
		return
	}

	interval, err := h.intervals.ByID(id)
	if errors.Is(err, service.ErrIntervalNotFound) {
		respondError(w, http.StatusNotFound, "interval not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "", interval)
}

type updateIntervalRequest struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	UserID    *int64  `json:"userId"`
}

func (h *IntervalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interval id")
		return
	}

	var req updateIntervalRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var errs validation.Errors
	if req.StartDate == nil && req.EndDate == nil && req.UserID == nil {
		errs.Add("body", "at least one field is required")
	}
	if req.StartDate != nil {
		errs.Check("startDate", validation.ValidateDate(*req.StartDate))
	}
	if req.EndDate != nil {
		errs.Check("endDate", validation.ValidateDate(*req.EndDate))
	}
	if req.StartDate != nil && req.EndDate != nil && errs.Empty() {
		errs.Check("endDate", validation.ValidateDateRange(*req.StartDate, *req.EndDate))
	}
	if req.UserID != nil && *req.UserID <= 0 {
		errs.Add("userId", "must be a positive integer")
	}
	if !errs.Empty() {
		respondValidation(w, errs)
		return
	}

	interval, err := h.intervals.Update(id, repository.IntervalUpdate{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		UserID:    req.UserID,
	})
	if errors.Is(err, service.ErrIntervalNotFound) {
		respondError(w, http.StatusNotFound, "interval not found")
		return
	}
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "interval updated", interval)
}

func (h *IntervalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interval id")
		return
	}

	err = h.intervals.Delete(id)
	if errors.Is(err, service.ErrIntervalNotFound) {
		respondError(w, http.StatusNotFound, "interval not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "interval deleted", nil)
}

type associateGoalRequest struct {
	GoalID int64 `json:"goalId"`
}

func (h *IntervalHandler) AssociateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interval id")
		return
	}

	var req associateGoalRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.GoalID <= 0 {
		var errs validation.Errors
		errs.Add("goalId", "must be a positive integer")
		respondValidation(w, errs)
		return
	}

	link, err := h.intervals.AssociateGoal(id, req.GoalID)
	if errors.Is(err, service.ErrIntervalNotFound) {
		respondError(w, http.StatusNotFound, "interval not found")
		return
	}
	if errors.Is(err, service.ErrGoalNotFound) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, "goal associated", link)
}

func (h *IntervalHandler) DissociateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interval id")
		return
	}

	goalID, err := parseID(r, "goalId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	err = h.intervals.DissociateGoal(id, goalID)
	if errors.Is(err, service.ErrIntervalNotFound) {
		respondError(w, http.StatusNotFound, "interval not found")
		return
	}
	if errors.Is(err, service.ErrGoalNotFound) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if errors.Is(err, service.ErrAssociationNotFound) {
		respondError(w, http.StatusNotFound, "association not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, "goal dissociated", nil)
}

func (h *IntervalHandler) Goals(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interval id")
		return
	}

	page, pageSize := pageParams(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

	goals, total, err := h.intervals.Goals(id, page, pageSize)
	if errors.Is(err, service.ErrIntervalNotFound) {
		respondError(w, http.StatusNotFound, "interval not found")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondList(w, goals, len(goals), NewPagination(total, page, pageSize))
}
