package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/httputil"
)

func (s *Server) ExportBackup(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	snap, err := s.backupService.ExportAll(ctx)
	if err != nil {
		logger.Error("backup export error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while exporting backup", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, snap)
	logger.Info("backup exported")
}

func (s *Server) ImportBackup(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	keepExisting, _ := strconv.ParseBool(r.URL.Query().Get("keepExisting"))
	var snap service.Snapshot
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&snap)
	if err != nil {
		logger.Error("backup import error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid snapshot body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancel()
	err = s.backupService.ImportAll(ctx, &snap, keepExisting)
	if err != nil {
		logger.Error("backup import error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while importing backup", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"workspaces": len(snap.Workspaces),
		"dailies":    len(snap.Dailies),
		"task_types": len(snap.TaskTypes),
		"resources":  len(snap.Resources),
	})
	logger.Info("backup imported")
}
