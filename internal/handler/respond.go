package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalspan/goalspan/internal/repository"
	"github.com/goalspan/goalspan/internal/validation"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the uniform envelope every route returns.
type Response struct {
	Status     string            `json:"status"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Results    *int              `json:"results,omitempty"`
	Errors     validation.Errors `json:"errors,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination describes the position of one page within a filtered result set.
type Pagination struct {
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func NewPagination(total, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func writeJSON(w http.ResponseWriter, code int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondData(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Response{Status: statusSuccess, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, data any, count int, pg Pagination) {
	writeJSON(w, http.StatusOK, Response{Status: statusSuccess, Data: data, Results: &count, Pagination: &pg})
}

// respondCollection is for unpaginated collections.
func respondCollection(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, Response{Status: statusSuccess, Data: data, Results: &count})
}

func respondError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Response{Status: statusError, Message: message})
}

func respondValidation(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, Response{Status: statusError, Message: "validation error", Errors: errs})
}

// respondStoreError is the terminal translator for errors no handler branch
// claimed. Store details never reach the client.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		respondError(w, http.StatusConflict, "duplicate entry")
	case errors.Is(err, repository.ErrForeignKey):
		respondError(w, http.StatusConflict, "resource is referenced by other records")
	default:
		slog.Error("unhandled store error", "error", err, "method", r.Method, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "route not found")
}
