package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

const defaultTaskTypeColor = "#6366F1"

type TaskTypeService struct {
	repo   repository.TaskTypesRepositoryI
	access AccessServiceI
}

func NewTaskTypeService(taskTypesRepo repository.TaskTypesRepositoryI, access AccessServiceI) *TaskTypeService {
	if taskTypesRepo == nil || access == nil {
		log.Fatal("provided nil dependency to TaskTypeService")
	}
	return &TaskTypeService{
		repo:   taskTypesRepo,
		access: access,
	}
}

func validateStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return joined
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}

func validateFieldDefs(fields []entity.CustomFieldDef) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || f.Label == "" || !f.Kind.Valid() || seen[f.Name] {
			return errorvalues.ErrValidation
		}
		seen[f.Name] = true
	}
	return nil
}

func (ts *TaskTypeService) Create(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, req *TaskTypeRequest) (*entity.TaskType, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if err := validateFieldDefs(req.Fields); err != nil {
		return nil, err
	}
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	color := req.Color
	if color == "" {
		color = defaultTaskTypeColor
	}
	id, err := ts.repo.Create(ctx, &entity.TaskType{
		Scope:  scope,
		Name:   req.Name,
		Color:  color,
		Fields: req.Fields,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeExists) {
			return nil, err
		}
		return nil, errors.New("task types repository error: " + err.Error())
	}
	return ts.repo.GetByID(ctx, id, scope)
}

func (ts *TaskTypeService) List(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID) ([]*entity.TaskType, error) {
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, false)
	if err != nil {
		return nil, err
	}
	types, err := ts.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, errors.New("task types repository error: " + err.Error())
	}
	return types, nil
}

func (ts *TaskTypeService) Get(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID) (*entity.TaskType, error) {
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, false)
	if err != nil {
		return nil, err
	}
	tt, err := ts.repo.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("task types repository error: " + err.Error())
	}
	return tt, nil
}

func (ts *TaskTypeService) Update(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID, req *TaskTypeRequest) (*entity.TaskType, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if err := validateFieldDefs(req.Fields); err != nil {
		return nil, err
	}
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	tt, err := ts.repo.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("task types repository error: " + err.Error())
	}
	tt.Name = req.Name
	if req.Color != "" {
		tt.Color = req.Color
	}
	tt.Fields = req.Fields
	if err = ts.repo.Update(ctx, tt); err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeExists) || errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("task types repository error: " + err.Error())
	}
	return tt, nil
}

func (ts *TaskTypeService) Delete(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID) error {
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return err
	}
	// tasks referencing this type keep their free-text type name
	if err = ts.repo.Delete(ctx, id, scope); err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return err
		}
		return errors.New("task types repository error: " + err.Error())
	}
	return nil
}

func (ts *TaskTypeService) AddField(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID, req *CustomFieldRequest) (*entity.TaskType, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	tt, err := ts.repo.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("task types repository error: " + err.Error())
	}
	for _, f := range tt.Fields {
		if f.Name == req.Name {
			return nil, errorvalues.ErrValidation
		}
	}
	tt.Fields = append(tt.Fields, entity.CustomFieldDef{
		Name:  req.Name,
		Kind:  entity.FieldKind(req.Kind),
		Label: req.Label,
	})
	if err = ts.repo.Update(ctx, tt); err != nil {
		return nil, errors.New("task types repository error: " + err.Error())
	}
	return tt, nil
}

func (ts *TaskTypeService) RemoveField(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID, fieldName string) (*entity.TaskType, error) {
	scope, err := ts.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	tt, err := ts.repo.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("task types repository error: " + err.Error())
	}
	kept := tt.Fields[:0]
	for _, f := range tt.Fields {
		if f.Name != fieldName {
			kept = append(kept, f)
		}
	}
	tt.Fields = kept
	if err = ts.repo.Update(ctx, tt); err != nil {
		return nil, errors.New("task types repository error: " + err.Error())
	}
	return tt, nil
}
