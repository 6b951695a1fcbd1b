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

// ResourceService is the scope-aware CRUD mediator shared by all generic
// record kinds. Scope stamping and filtering is strict: a personal request
// can never see or touch a workspace record, and vice versa.
type ResourceService struct {
	repo   repository.ResourcesRepositoryI
	access AccessServiceI
}

func NewResourceService(resourcesRepo repository.ResourcesRepositoryI, access AccessServiceI) *ResourceService {
	if resourcesRepo == nil || access == nil {
		log.Fatal("provided nil dependency to ResourceService")
	}
	return &ResourceService{
		repo:   resourcesRepo,
		access: access,
	}
}

func (rs *ResourceService) Create(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, payload map[string]any) (*entity.Resource, error) {
	rk, ok := resourceKinds[kind]
	if !ok {
		return nil, errorvalues.ErrUnknownKind
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := rk.Validate(payload); err != nil {
		return nil, err
	}
	rk.Normalize(payload)
	scope, err := rs.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	id, err := rs.repo.Create(ctx, &entity.Resource{
		Kind:    kind,
		Scope:   scope,
		Payload: payload,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrResourceExists) {
			return nil, err
		}
		return nil, errors.New("resources repository error: " + err.Error())
	}
	return rs.repo.GetByID(ctx, id, kind, scope)
}

func (rs *ResourceService) List(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, pagination PaginationOpts) ([]*entity.Resource, int, error) {
	if _, ok := resourceKinds[kind]; !ok {
		return nil, 0, errorvalues.ErrUnknownKind
	}
	scope, err := rs.access.ResolveScope(ctx, principal, workspaceID, false)
	if err != nil {
		return nil, 0, err
	}
	resources, err := rs.repo.ListByScope(ctx, kind, scope, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, 0, errors.New("resources repository error: " + err.Error())
	}
	total, err := rs.repo.CountByScope(ctx, kind, scope)
	if err != nil {
		return nil, 0, errors.New("resources repository error: " + err.Error())
	}
	return resources, total, nil
}

func (rs *ResourceService) Get(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, id uuid.UUID) (*entity.Resource, error) {
	if _, ok := resourceKinds[kind]; !ok {
		return nil, errorvalues.ErrUnknownKind
	}
	scope, err := rs.access.ResolveScope(ctx, principal, workspaceID, false)
	if err != nil {
		return nil, err
	}
	r, err := rs.repo.GetByID(ctx, id, kind, scope)
	if err != nil {
		if errors.Is(err, errorvalues.ErrResourceNotFound) {
			return nil, err
		}
		return nil, errors.New("resources repository error: " + err.Error())
	}
	return r, nil
}

func (rs *ResourceService) Update(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, id uuid.UUID, payload map[string]any) (*entity.Resource, error) {
	rk, ok := resourceKinds[kind]
	if !ok {
		return nil, errorvalues.ErrUnknownKind
	}
	scope, err := rs.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	r, err := rs.repo.GetByID(ctx, id, kind, scope)
	if err != nil {
		if errors.Is(err, errorvalues.ErrResourceNotFound) {
			return nil, err
		}
		return nil, errors.New("resources repository error: " + err.Error())
	}
	// partial update: provided keys override, the rest survive
	for k, v := range payload {
		r.Payload[k] = v
	}
	if err = rk.Validate(r.Payload); err != nil {
		return nil, err
	}
	rk.Normalize(r.Payload)
	if err = rs.repo.Update(ctx, r); err != nil {
		if errors.Is(err, errorvalues.ErrResourceExists) || errors.Is(err, errorvalues.ErrResourceNotFound) {
			return nil, err
		}
		return nil, errors.New("resources repository error: " + err.Error())
	}
	return r, nil
}

func (rs *ResourceService) Delete(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, id uuid.UUID) error {
	if _, ok := resourceKinds[kind]; !ok {
		return errorvalues.ErrUnknownKind
	}
	scope, err := rs.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return err
	}
	if err = rs.repo.Delete(ctx, id, kind, scope); err != nil {
		if errors.Is(err, errorvalues.ErrResourceNotFound) {
			return err
		}
		return errors.New("resources repository error: " + err.Error())
	}
	return nil
}
