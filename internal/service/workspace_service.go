package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

type WorkspaceService struct {
	repo      repository.WorkspacesRepositoryI
	dailies   repository.DailiesRepositoryI
	taskTypes repository.TaskTypesRepositoryI
	resources repository.ResourcesRepositoryI
	users     repository.UsersRepositoryI
}

func NewWorkspaceService(
	workspacesRepo repository.WorkspacesRepositoryI,
	dailiesRepo repository.DailiesRepositoryI,
	taskTypesRepo repository.TaskTypesRepositoryI,
	resourcesRepo repository.ResourcesRepositoryI,
	usersRepo repository.UsersRepositoryI,
) *WorkspaceService {
	if workspacesRepo == nil || dailiesRepo == nil || taskTypesRepo == nil || resourcesRepo == nil || usersRepo == nil {
		log.Fatal("provided nil dependency to WorkspaceService")
	}
	return &WorkspaceService{
		repo:      workspacesRepo,
		dailies:   dailiesRepo,
		taskTypes: taskTypesRepo,
		resources: resourcesRepo,
		users:     usersRepo,
	}
}

func (ws *WorkspaceService) Create(ctx context.Context, principal uuid.UUID, req *CreateWorkspaceRequest) (*entity.Workspace, error) {
	if err := validate.Struct(*req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return nil, joined
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	id, err := ws.repo.Create(ctx, &entity.Workspace{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     principal,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("workspaces repository error: " + err.Error())
	}
	return ws.repo.GetByID(ctx, id)
}

func (ws *WorkspaceService) List(ctx context.Context, principal uuid.UUID) ([]*entity.Workspace, error) {
	workspaces, err := ws.repo.ListByUser(ctx, principal)
	if err != nil {
		return nil, errors.New("workspaces repository error: " + err.Error())
	}
	return workspaces, nil
}

// loadAuthorized fetches the workspace and resolves the principal's role;
// non-members get not-found, never forbidden.
func (ws *WorkspaceService) loadAuthorized(ctx context.Context, principal, workspaceID uuid.UUID) (*entity.Workspace, entity.Role, error) {
	workspace, err := ws.repo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWorkspaceNotFound) {
			return nil, "", err
		}
		return nil, "", errors.New("workspaces repository error: " + err.Error())
	}
	role, ok := workspace.RoleOf(principal)
	if !ok {
		return nil, "", errorvalues.ErrWorkspaceNotFound
	}
	return workspace, role, nil
}

func (ws *WorkspaceService) Get(ctx context.Context, principal, workspaceID uuid.UUID) (*entity.Workspace, error) {
	workspace, _, err := ws.loadAuthorized(ctx, principal, workspaceID)
	if err != nil {
		return nil, err
	}
	return workspace, nil
}

func (ws *WorkspaceService) Update(ctx context.Context, principal, workspaceID uuid.UUID, req *CreateWorkspaceRequest) (*entity.Workspace, error) {
	if err := validate.Struct(*req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return nil, joined
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	workspace, role, err := ws.loadAuthorized(ctx, principal, workspaceID)
	if err != nil {
		return nil, err
	}
	if !role.CanWrite() {
		return nil, errorvalues.ErrForbidden
	}
	workspace.Name = req.Name
	workspace.Description = req.Description
	if err = ws.repo.Update(ctx, workspace); err != nil {
		if errors.Is(err, errorvalues.ErrWorkspaceNotFound) {
			return nil, err
		}
		return nil, errors.New("workspaces repository error: " + err.Error())
	}
	return workspace, nil
}

// Delete removes the workspace and everything scoped to it. The cascade is
// best-effort: a failed collection sweep is logged and skipped, but the
// workspace row itself must go or the whole call fails.
func (ws *WorkspaceService) Delete(ctx context.Context, principal, workspaceID uuid.UUID) error {
	workspace, role, err := ws.loadAuthorized(ctx, principal, workspaceID)
	if err != nil {
		return err
	}
	if role != entity.RoleOwner {
		return errorvalues.ErrForbidden
	}
	g, gctx := errgroup.WithContext(ctx)
	sweeps := []struct {
		name string
		f    func(context.Context, uuid.UUID) error
	}{
		{"dailies", ws.dailies.DeleteByWorkspace},
		{"task types", ws.taskTypes.DeleteByWorkspace},
		{"resources", ws.resources.DeleteByWorkspace},
	}
	for _, sweep := range sweeps {
		g.Go(func() error {
			if err := sweep.f(gctx, workspace.ID); err != nil {
				slog.Error("cascade delete sweep failed, continuing",
					slog.String("collection", sweep.name),
					slog.String("workspace_id", workspace.ID.String()),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	g.Wait()
	if err = ws.repo.Delete(ctx, workspace.ID); err != nil {
		if errors.Is(err, errorvalues.ErrWorkspaceNotFound) {
			return err
		}
		return errors.New("workspaces repository error: " + err.Error())
	}
	return nil
}

func (ws *WorkspaceService) Share(ctx context.Context, principal, workspaceID uuid.UUID, targetUserID string, role string) (*entity.Workspace, error) {
	workspace, principalRole, err := ws.loadAuthorized(ctx, principal, workspaceID)
	if err != nil {
		return nil, err
	}
	if principalRole != entity.RoleOwner {
		return nil, errorvalues.ErrForbidden
	}
	target, err := uuid.Parse(targetUserID)
	if err != nil {
		return nil, errorvalues.ErrValidation
	}
	if role == "remove" {
		if err = ws.repo.RemoveMember(ctx, workspace.ID, target); err != nil {
			return nil, errors.New("workspaces repository error: " + err.Error())
		}
		return ws.repo.GetByID(ctx, workspace.ID)
	}
	memberRole := entity.Role(role)
	if !memberRole.Valid() {
		return nil, errorvalues.ErrValidation
	}
	// the owner holds its role structurally, never through membership
	if target == workspace.OwnerID {
		return nil, errorvalues.ErrValidation
	}
	if _, err = ws.users.FindByID(ctx, target); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	if err = ws.repo.SetMember(ctx, workspace.ID, target, memberRole); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("workspaces repository error: " + err.Error())
	}
	return ws.repo.GetByID(ctx, workspace.ID)
}
