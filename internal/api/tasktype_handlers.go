package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/httputil"
)

func (s *Server) CreateTaskType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task type creation error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("task type creation error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	var req service.TaskTypeRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("task type creation error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	taskType, err := s.taskTypeService.Create(ctx, uid, workspaceID, &req)
	if err != nil {
		writeServiceError(w, logger, "task type creation error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, taskType)
	logger.Info("task type created")
}

func (s *Server) ListTaskTypes(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task type list error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("task type list error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	types, err := s.taskTypeService.List(ctx, uid, workspaceID)
	if err != nil {
		writeServiceError(w, logger, "task type list error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"task_types": types})
	logger.Info("task types provided")
}

func (s *Server) GetTaskType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task type get error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("task type get error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task type get error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task type id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	taskType, err := s.taskTypeService.Get(ctx, uid, workspaceID, id)
	if err != nil {
		writeServiceError(w, logger, "task type get error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, taskType)
	logger.Info("task type provided")
}

func (s *Server) UpdateTaskType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task type update error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("task type update error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task type update error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task type id in path value", nil)
		return
	}
	var req service.TaskTypeRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("task type update error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	taskType, err := s.taskTypeService.Update(ctx, uid, workspaceID, id, &req)
	if err != nil {
		writeServiceError(w, logger, "task type update error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, taskType)
	logger.Info("task type updated")
}

func (s *Server) DeleteTaskType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task type deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("task type deletion error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task type deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task type id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.taskTypeService.Delete(ctx, uid, workspaceID, id)
	if err != nil {
		writeServiceError(w, logger, "task type deletion error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task type deleted")
}

func (s *Server) AddTaskTypeField(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("custom field creation error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("custom field creation error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("custom field creation error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task type id in path value", nil)
		return
	}
	var req service.CustomFieldRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("custom field creation error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	taskType, err := s.taskTypeService.AddField(ctx, uid, workspaceID, id, &req)
	if err != nil {
		writeServiceError(w, logger, "custom field creation error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, taskType)
	logger.Info("custom field added")
}

func (s *Server) RemoveTaskTypeField(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("custom field deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("custom field deletion error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("custom field deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task type id in path value", nil)
		return
	}
	fieldName := r.PathValue("fieldName")
	if fieldName == "" {
		logger.Error("custom field deletion error: empty field name")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "field name required in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	taskType, err := s.taskTypeService.RemoveField(ctx, uid, workspaceID, id, fieldName)
	if err != nil {
		writeServiceError(w, logger, "custom field deletion error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, taskType)
	logger.Info("custom field removed")
}
