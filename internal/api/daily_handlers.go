package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/entity"
	"github.com/csg4786/progress-tracker/pkg/httputil"
)

type ListDailyResponse struct {
	Entries []*entity.DailyEntry `json:"entries"`
	Total   int                  `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

type ReorderTasksRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids"`
}

func (s *Server) UpsertDaily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("daily upsert error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("daily upsert error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	var req service.UpsertDailyRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("daily upsert error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.UpsertForDate(ctx, uid, workspaceID, &req)
	if err != nil {
		writeServiceError(w, logger, "daily upsert error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("daily entry upserted")
}

func (s *Server) ListDaily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("daily list error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("daily list error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	pagination := parsePagination(r)
	opts := service.ListDailyOpts{
		Date:      r.URL.Query().Get("date"),
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		Limit:     pagination.Limit,
		Offset:    pagination.Offset,
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	entries, total, err := s.dailyService.List(ctx, uid, workspaceID, opts)
	if err != nil {
		writeServiceError(w, logger, "daily list error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListDailyResponse{
		Entries: entries,
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
	logger.Info("daily entries provided")
}

func (s *Server) GetDaily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("daily get error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("daily get error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.Get(ctx, uid, entryID)
	if err != nil {
		writeServiceError(w, logger, "daily get error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("daily entry provided")
}

func (s *Server) DeleteDaily(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("daily deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("daily deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.dailyService.Delete(ctx, uid, entryID)
	if err != nil {
		writeServiceError(w, logger, "daily deletion error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("daily entry deleted")
}

func (s *Server) AddTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task creation error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task creation error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	var req service.TaskInput
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("task creation error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.AddTask(ctx, uid, entryID, &req)
	if err != nil {
		writeServiceError(w, logger, "task creation error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entry)
	logger.Info("task added to daily entry")
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task update error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task update error: invalid entry id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		logger.Error("task update error: invalid task id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req service.UpdateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("task update error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.UpdateTask(ctx, uid, entryID, taskID, &req)
	if err != nil {
		writeServiceError(w, logger, "task update error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("task updated")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task deletion error: invalid entry id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		logger.Error("task deletion error: invalid task id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.DeleteTask(ctx, uid, entryID, taskID)
	if err != nil {
		writeServiceError(w, logger, "task deletion error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("task deleted")
}

func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task toggle error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task toggle error: invalid entry id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		logger.Error("task toggle error: invalid task id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.ToggleTask(ctx, uid, entryID, taskID)
	if err != nil {
		writeServiceError(w, logger, "task toggle error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("task toggled")
}

func (s *Server) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task reorder error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task reorder error: invalid entry id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	var req ReorderTasksRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.TaskIDs == nil {
		logger.Error("task reorder error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "task_ids must be an array of task ids", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.ReorderTasks(ctx, uid, entryID, req.TaskIDs)
	if err != nil {
		writeServiceError(w, logger, "task reorder error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("tasks reordered")
}

func (s *Server) CopyTaskToToday(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task copy error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task copy error: invalid entry id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		logger.Error("task copy error: invalid task id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.dailyService.CopyTaskToToday(ctx, uid, entryID, taskID)
	if err != nil {
		writeServiceError(w, logger, "task copy error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("task copied to today's entry")
}
