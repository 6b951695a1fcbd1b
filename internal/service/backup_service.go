package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

// BackupService is the only consumer of the unscoped repository methods.
// It is wired exclusively to the admin route group.
type BackupService struct {
	workspaces repository.WorkspacesRepositoryI
	dailies    repository.DailiesRepositoryI
	taskTypes  repository.TaskTypesRepositoryI
	resources  repository.ResourcesRepositoryI
}

func NewBackupService(
	workspacesRepo repository.WorkspacesRepositoryI,
	dailiesRepo repository.DailiesRepositoryI,
	taskTypesRepo repository.TaskTypesRepositoryI,
	resourcesRepo repository.ResourcesRepositoryI,
) *BackupService {
	if workspacesRepo == nil || dailiesRepo == nil || taskTypesRepo == nil || resourcesRepo == nil {
		log.Fatal("provided nil dependency to BackupService")
	}
	return &BackupService{
		workspaces: workspacesRepo,
		dailies:    dailiesRepo,
		taskTypes:  taskTypesRepo,
		resources:  resourcesRepo,
	}
}

func (bs *BackupService) ExportAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Workspaces, err = bs.workspaces.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Dailies, err = bs.dailies.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.TaskTypes, err = bs.taskTypes.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Resources, err = bs.resources.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.New("exporting snapshot error: " + err.Error())
	}
	return snap, nil
}

func (bs *BackupService) ImportAll(ctx context.Context, snap *Snapshot, keepExisting bool) error {
	if snap == nil {
		return errors.New("snapshot is nil")
	}
	if !keepExisting {
		// order matters: dailies/types/resources reference workspaces
		for _, clear := range []func(context.Context) error{
			bs.dailies.DeleteAll,
			bs.taskTypes.DeleteAll,
			bs.resources.DeleteAll,
			bs.workspaces.DeleteAll,
		} {
			if err := clear(ctx); err != nil {
				return errors.New("clearing collections error: " + err.Error())
			}
		}
	}
	// the database assigns fresh workspace ids, so scoped records are
	// remapped from the snapshot's ids before insertion
	idMap := make(map[uuid.UUID]uuid.UUID, len(snap.Workspaces))
	for _, ws := range snap.Workspaces {
		newID, err := bs.workspaces.Create(ctx, ws)
		if err != nil {
			return errors.New("importing workspace error: " + err.Error())
		}
		idMap[ws.ID] = newID
		for _, m := range ws.Members {
			if err := bs.workspaces.SetMember(ctx, newID, m.UserID, m.Role); err != nil {
				return errors.New("importing workspace member error: " + err.Error())
			}
		}
	}
	remap := func(s entity.Scope) (entity.Scope, bool) {
		if s.Kind != entity.ScopeWorkspace {
			return s, true
		}
		newID, ok := idMap[s.WorkspaceID]
		if !ok {
			return s, false
		}
		return entity.WorkspaceScope(newID), true
	}
	for _, e := range snap.Dailies {
		scope, ok := remap(e.Scope)
		if !ok {
			return errors.New("importing daily entry error: unknown workspace " + e.Scope.WorkspaceID.String())
		}
		e.Scope = scope
		if _, err := bs.dailies.Create(ctx, e); err != nil {
			return errors.New("importing daily entry error: " + err.Error())
		}
	}
	for _, tt := range snap.TaskTypes {
		scope, ok := remap(tt.Scope)
		if !ok {
			return errors.New("importing task type error: unknown workspace " + tt.Scope.WorkspaceID.String())
		}
		tt.Scope = scope
		if _, err := bs.taskTypes.Create(ctx, tt); err != nil {
			return errors.New("importing task type error: " + err.Error())
		}
	}
	for _, r := range snap.Resources {
		scope, ok := remap(r.Scope)
		if !ok {
			return errors.New("importing resource error: unknown workspace " + r.Scope.WorkspaceID.String())
		}
		r.Scope = scope
		if _, err := bs.resources.Create(ctx, r); err != nil {
			return errors.New("importing resource error: " + err.Error())
		}
	}
	return nil
}
