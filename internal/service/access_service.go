package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

// AccessService is a pure read over workspace state: it never mutates
// anything, it only resolves scopes and roles.
type AccessService struct {
	repo repository.WorkspacesRepositoryI
}

func NewAccessService(workspacesRepo repository.WorkspacesRepositoryI) *AccessService {
	if workspacesRepo == nil {
		log.Fatal("provided nil workspacesRepo")
	}
	return &AccessService{
		repo: workspacesRepo,
	}
}

var roleRank = map[entity.Role]int{
	entity.RoleViewer: 1,
	entity.RoleEditor: 2,
	entity.RoleOwner:  3,
}

func (as *AccessService) ResolveScope(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, write bool) (entity.Scope, error) {
	if workspaceID == nil {
		return entity.PersonalScope(principal), nil
	}
	role, err := as.Authorize(ctx, principal, *workspaceID)
	if err != nil {
		return entity.Scope{}, err
	}
	if write && !role.CanWrite() {
		return entity.Scope{}, errorvalues.ErrForbidden
	}
	return entity.WorkspaceScope(*workspaceID), nil
}

func (as *AccessService) Authorize(ctx context.Context, principal, workspaceID uuid.UUID) (entity.Role, error) {
	ws, err := as.repo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWorkspaceNotFound) {
			return "", err
		}
		return "", errors.New("workspaces repository error: " + err.Error())
	}
	role, ok := ws.RoleOf(principal)
	if !ok {
		// a workspace the principal can't see doesn't exist for them
		return "", errorvalues.ErrWorkspaceNotFound
	}
	return role, nil
}

func (as *AccessService) RequireRole(ctx context.Context, principal, workspaceID uuid.UUID, minRole entity.Role) error {
	role, err := as.Authorize(ctx, principal, workspaceID)
	if err != nil {
		return err
	}
	if roleRank[role] < roleRank[minRole] {
		return errorvalues.ErrForbidden
	}
	return nil
}

func (as *AccessService) CheckScopeAccess(ctx context.Context, principal uuid.UUID, scope entity.Scope, write bool) error {
	if scope.Kind == entity.ScopePersonal {
		if scope.UserID != principal {
			return errorvalues.ErrWorkspaceNotFound
		}
		return nil
	}
	role, err := as.Authorize(ctx, principal, scope.WorkspaceID)
	if err != nil {
		return err
	}
	if write && !role.CanWrite() {
		return errorvalues.ErrForbidden
	}
	return nil
}
