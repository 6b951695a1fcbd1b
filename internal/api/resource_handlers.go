package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/csg4786/progress-tracker/pkg/entity"
	"github.com/csg4786/progress-tracker/pkg/httputil"
)

type ListResourcesResponse struct {
	Kind    string             `json:"kind"`
	Records []*entity.Resource `json:"records"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

func (s *Server) CreateResource(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record creation error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("record creation error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	var payload map[string]any
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		logger.Error("record creation error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	record, err := s.resourceService.Create(ctx, uid, workspaceID, r.PathValue("kind"), payload)
	if err != nil {
		writeServiceError(w, logger, "record creation error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, record)
	logger.Info("record created")
}

func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record list error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("record list error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	kind := r.PathValue("kind")
	pagination := parsePagination(r)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	records, total, err := s.resourceService.List(ctx, uid, workspaceID, kind, pagination)
	if err != nil {
		writeServiceError(w, logger, "record list error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListResourcesResponse{
		Kind:    kind,
		Records: records,
		Total:   total,
		Limit:   pagination.Limit,
		Offset:  pagination.Offset,
	})
	logger.Info("records provided")
}

func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record get error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("record get error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("record get error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid record id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	record, err := s.resourceService.Get(ctx, uid, workspaceID, r.PathValue("kind"), id)
	if err != nil {
		writeServiceError(w, logger, "record get error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, record)
	logger.Info("record provided")
}

func (s *Server) UpdateResource(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record update error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("record update error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("record update error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid record id in path value", nil)
		return
	}
	var payload map[string]any
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		logger.Error("record update error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	record, err := s.resourceService.Update(ctx, uid, workspaceID, r.PathValue("kind"), id, payload)
	if err != nil {
		writeServiceError(w, logger, "record update error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, record)
	logger.Info("record updated")
}

func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := parseWorkspaceID(r)
	if err != nil {
		logger.Error("record deletion error: invalid workspace id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspaceId query parameter", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("record deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid record id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.resourceService.Delete(ctx, uid, workspaceID, r.PathValue("kind"), id)
	if err != nil {
		writeServiceError(w, logger, "record deletion error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("record deleted")
}
