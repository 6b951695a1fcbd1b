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

type ShareWorkspaceRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type WorkspaceMembersResponse struct {
	OwnerID string                   `json:"owner_id"`
	Members []entity.WorkspaceMember `json:"members"`
}

func (s *Server) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace creation error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req service.CreateWorkspaceRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("workspace creation error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workspace, err := s.workspaceService.Create(ctx, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "workspace creation error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, workspace)
	logger.Info("workspace created")
}

func (s *Server) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace list error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	workspaces, err := s.workspaceService.List(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "workspace list error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"workspaces": workspaces})
	logger.Info("workspaces provided")
}

func (s *Server) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace get error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("workspace get error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspace id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workspace, err := s.workspaceService.Get(ctx, uid, workspaceID)
	if err != nil {
		writeServiceError(w, logger, "workspace get error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, workspace)
	logger.Info("workspace provided")
}

func (s *Server) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace update error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("workspace update error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspace id in path value", nil)
		return
	}
	var req service.CreateWorkspaceRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("workspace update error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workspace, err := s.workspaceService.Update(ctx, uid, workspaceID, &req)
	if err != nil {
		writeServiceError(w, logger, "workspace update error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, workspace)
	logger.Info("workspace updated")
}

func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("workspace deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspace id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	err = s.workspaceService.Delete(ctx, uid, workspaceID)
	if err != nil {
		writeServiceError(w, logger, "workspace deletion error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("workspace deleted")
}

func (s *Server) ShareWorkspace(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace share error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("workspace share error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspace id in path value", nil)
		return
	}
	var req ShareWorkspaceRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("workspace share error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workspace, err := s.workspaceService.Share(ctx, uid, workspaceID, req.UserID, req.Role)
	if err != nil {
		writeServiceError(w, logger, "workspace share error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, workspace)
	logger.Info("workspace membership changed")
}

func (s *Server) ListWorkspaceMembers(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workspace members error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	workspaceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("workspace members error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workspace id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workspace, err := s.workspaceService.Get(ctx, uid, workspaceID)
	if err != nil {
		writeServiceError(w, logger, "workspace members error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, WorkspaceMembersResponse{
		OwnerID: workspace.OwnerID.String(),
		Members: workspace.Members,
	})
	logger.Info("workspace members provided")
}
