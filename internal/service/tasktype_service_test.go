package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

func newTaskTypeService() (*service.TaskTypeService, *taskTypesRepoFake) {
	repo := newTaskTypesRepoFake()
	access := service.NewAccessService(newWorkspacesRepoMock())
	return service.NewTaskTypeService(repo, access), repo
}

func TestCreateTaskType(t *testing.T) {
	s, _ := newTaskTypeService()
	ctx := context.Background()
	t.Run("success with default color", func(t *testing.T) {
		tt, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "bug"})
		assert.NoError(t, err)
		assert.Equal(t, "bug", tt.Name)
		assert.Equal(t, "#6366F1", tt.Color)
	})
	t.Run("explicit color kept", func(t *testing.T) {
		tt, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "feature", Color: "#00FF00"})
		assert.NoError(t, err)
		assert.Equal(t, "#00FF00", tt.Color)
	})
	t.Run("duplicate name in scope", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "bug"})
		assert.ErrorIs(t, err, errorvalues.ErrTaskTypeExists)
	})
	t.Run("same name allowed in another scope", func(t *testing.T) {
		_, err := s.Create(ctx, editorID, &wsID, &service.TaskTypeRequest{Name: "bug"})
		assert.NoError(t, err)
	})
	t.Run("invalid color", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "chore", Color: "green"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("invalid field kind", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{
			Name: "chore",
			Fields: []entity.CustomFieldDef{
				{Name: "weight", Kind: "decimal", Label: "Weight"},
			},
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("duplicate field names", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{
			Name: "chore",
			Fields: []entity.CustomFieldDef{
				{Name: "weight", Kind: entity.FieldNumber, Label: "Weight"},
				{Name: "weight", Kind: entity.FieldText, Label: "Weight again"},
			},
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("viewer can't create workspace types", func(t *testing.T) {
		_, err := s.Create(ctx, viewerID, &wsID, &service.TaskTypeRequest{Name: "epic"})
		assert.ErrorIs(t, err, errorvalues.ErrForbidden)
	})
}

func TestUpdateTaskType(t *testing.T) {
	s, _ := newTaskTypeService()
	ctx := context.Background()
	created, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "bug", Color: "#FF0000"})
	require.NoError(t, err)
	t.Run("rename keeps color when omitted", func(t *testing.T) {
		tt, err := s.Update(ctx, ownerID, nil, created.ID, &service.TaskTypeRequest{Name: "defect"})
		assert.NoError(t, err)
		assert.Equal(t, "defect", tt.Name)
		assert.Equal(t, "#FF0000", tt.Color)
	})
	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Update(ctx, ownerID, nil, uuid.New(), &service.TaskTypeRequest{Name: "x"})
		assert.ErrorIs(t, err, errorvalues.ErrTaskTypeNotFound)
	})
	t.Run("foreign scope is invisible", func(t *testing.T) {
		_, err := s.Update(ctx, strangerID, nil, created.ID, &service.TaskTypeRequest{Name: "stolen"})
		assert.ErrorIs(t, err, errorvalues.ErrTaskTypeNotFound)
	})
}

func TestTaskTypeFields(t *testing.T) {
	s, _ := newTaskTypeService()
	ctx := context.Background()
	created, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "bug"})
	require.NoError(t, err)

	t.Run("add field", func(t *testing.T) {
		tt, err := s.AddField(ctx, ownerID, nil, created.ID, &service.CustomFieldRequest{
			Name:  "severity",
			Kind:  "number",
			Label: "Severity",
		})
		assert.NoError(t, err)
		require.Len(t, tt.Fields, 1)
		assert.Equal(t, entity.FieldNumber, tt.Fields[0].Kind)
	})
	t.Run("duplicate field name", func(t *testing.T) {
		_, err := s.AddField(ctx, ownerID, nil, created.ID, &service.CustomFieldRequest{
			Name:  "severity",
			Kind:  "text",
			Label: "Severity",
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("invalid kind rejected", func(t *testing.T) {
		_, err := s.AddField(ctx, ownerID, nil, created.ID, &service.CustomFieldRequest{
			Name:  "estimate",
			Kind:  "duration",
			Label: "Estimate",
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("remove field", func(t *testing.T) {
		tt, err := s.RemoveField(ctx, ownerID, nil, created.ID, "severity")
		assert.NoError(t, err)
		assert.Len(t, tt.Fields, 0)
	})
	t.Run("removing a missing field is a no-op", func(t *testing.T) {
		tt, err := s.RemoveField(ctx, ownerID, nil, created.ID, "ghost")
		assert.NoError(t, err)
		assert.Len(t, tt.Fields, 0)
	})
}

func TestDeleteTaskType(t *testing.T) {
	s, _ := newTaskTypeService()
	ctx := context.Background()
	created, err := s.Create(ctx, ownerID, nil, &service.TaskTypeRequest{Name: "bug"})
	require.NoError(t, err)
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, ownerID, nil, created.ID))
	})
	t.Run("already gone", func(t *testing.T) {
		err := s.Delete(ctx, ownerID, nil, created.ID)
		assert.ErrorIs(t, err, errorvalues.ErrTaskTypeNotFound)
	})
}
