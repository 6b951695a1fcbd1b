package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/httputil"
)

// parseWorkspaceID reads the optional workspaceId query parameter. Absent
// means personal scope.
func parseWorkspaceID(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("workspaceId")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parsePagination(r *http.Request) service.PaginationOpts {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return service.PaginationOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// writeServiceError maps service sentinels onto HTTP statuses. Handlers
// only special-case responses that need a more precise message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, action string, err error) {
	logger.Error(action, slog.String("error", err.Error()))
	switch {
	case errors.Is(err, errorvalues.ErrValidation):
		httputil.WriteValidationErrorResponse(w, "invalid request data", err)
	case errors.Is(err, errorvalues.ErrForbidden):
		httputil.WriteErrorResponse(w, http.StatusForbidden, "insufficient role for this action", nil)
	case errors.Is(err, errorvalues.ErrWorkspaceNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "workspace doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrEntryNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "entry doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrTaskNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrTaskTypeNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "task type doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrResourceNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "record doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrUnknownKind):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "unknown record kind", nil)
	case errors.Is(err, errorvalues.ErrUserNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrDuplicateTask):
		httputil.WriteErrorResponse(w, http.StatusConflict, "task already exists in today's entry", nil)
	case errors.Is(err, errorvalues.ErrDuplicateEntry), errors.Is(err, errorvalues.ErrWriteConflict):
		httputil.WriteErrorResponse(w, http.StatusConflict, "concurrent write conflict, retry the request", nil)
	case errors.Is(err, errorvalues.ErrTaskTypeExists):
		httputil.WriteErrorResponse(w, http.StatusConflict, "task type with such name already exists", nil)
	case errors.Is(err, errorvalues.ErrResourceExists):
		httputil.WriteErrorResponse(w, http.StatusConflict, "record with such name already exists", nil)
	default:
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
