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

type resourcesRepoFake struct {
	resources         map[uuid.UUID]*entity.Resource
	deletedWorkspaces []uuid.UUID
}

func newResourcesRepoFake() *resourcesRepoFake {
	return &resourcesRepoFake{
		resources: map[uuid.UUID]*entity.Resource{},
	}
}

func copyResource(r *entity.Resource) *entity.Resource {
	copied := *r
	copied.Payload = make(map[string]any, len(r.Payload))
	for k, v := range r.Payload {
		copied.Payload[k] = v
	}
	return &copied
}

func (f *resourcesRepoFake) Create(ctx context.Context, r *entity.Resource) (uuid.UUID, error) {
	if r.Kind == "section" {
		name, _ := r.Payload["name"].(string)
		for _, stored := range f.resources {
			if stored.Kind == "section" && stored.Scope == r.Scope && stored.Payload["name"] == name {
				return uuid.UUID{}, errorvalues.ErrResourceExists
			}
		}
	}
	copied := copyResource(r)
	copied.ID = uuid.New()
	f.resources[copied.ID] = copied
	return copied.ID, nil
}

func (f *resourcesRepoFake) GetByID(ctx context.Context, id uuid.UUID, kind string, scope entity.Scope) (*entity.Resource, error) {
	r, ok := f.resources[id]
	if !ok || r.Kind != kind || r.Scope != scope {
		return nil, errorvalues.ErrResourceNotFound
	}
	return copyResource(r), nil
}

func (f *resourcesRepoFake) ListByScope(ctx context.Context, kind string, scope entity.Scope, limit, offset int) ([]*entity.Resource, error) {
	matched := make([]*entity.Resource, 0)
	for _, r := range f.resources {
		if r.Kind == kind && r.Scope == scope {
			matched = append(matched, copyResource(r))
		}
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *resourcesRepoFake) CountByScope(ctx context.Context, kind string, scope entity.Scope) (int, error) {
	total := 0
	for _, r := range f.resources {
		if r.Kind == kind && r.Scope == scope {
			total++
		}
	}
	return total, nil
}

func (f *resourcesRepoFake) Update(ctx context.Context, r *entity.Resource) error {
	if _, ok := f.resources[r.ID]; !ok {
		return errorvalues.ErrResourceNotFound
	}
	f.resources[r.ID] = copyResource(r)
	return nil
}

func (f *resourcesRepoFake) Delete(ctx context.Context, id uuid.UUID, kind string, scope entity.Scope) error {
	r, ok := f.resources[id]
	if !ok || r.Kind != kind || r.Scope != scope {
		return errorvalues.ErrResourceNotFound
	}
	delete(f.resources, id)
	return nil
}

func (f *resourcesRepoFake) DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error {
	f.deletedWorkspaces = append(f.deletedWorkspaces, wid)
	for id, r := range f.resources {
		if r.Scope.Kind == entity.ScopeWorkspace && r.Scope.WorkspaceID == wid {
			delete(f.resources, id)
		}
	}
	return nil
}

func (f *resourcesRepoFake) ListAll(ctx context.Context) ([]*entity.Resource, error) {
	result := make([]*entity.Resource, 0, len(f.resources))
	for _, r := range f.resources {
		result = append(result, copyResource(r))
	}
	return result, nil
}

func (f *resourcesRepoFake) DeleteAll(ctx context.Context) error {
	f.resources = map[uuid.UUID]*entity.Resource{}
	return nil
}

func newResourceService() (*service.ResourceService, *resourcesRepoFake) {
	repo := newResourcesRepoFake()
	access := service.NewAccessService(newWorkspacesRepoMock())
	return service.NewResourceService(repo, access), repo
}

func TestCreateResource(t *testing.T) {
	s, repo := newResourceService()
	ctx := context.Background()
	t.Run("unknown kind", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, "spaceship", map[string]any{})
		assert.ErrorIs(t, err, errorvalues.ErrUnknownKind)
	})
	t.Run("missing required field", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, "job", map[string]any{"role": "backend"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("empty required string", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, "job", map[string]any{"company": ""})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("job defaults the stage", func(t *testing.T) {
		r, err := s.Create(ctx, ownerID, nil, "job", map[string]any{"company": "acme"})
		assert.NoError(t, err)
		assert.Equal(t, "applied", r.Payload["stage"])
		assert.Equal(t, entity.PersonalScope(ownerID), r.Scope)
	})
	t.Run("board task lands in the backlog", func(t *testing.T) {
		r, err := s.Create(ctx, ownerID, nil, "board-task", map[string]any{"title": "write migration"})
		assert.NoError(t, err)
		assert.Equal(t, "Backlog", r.Payload["column"])
		assert.Equal(t, "Medium", r.Payload["priority"])
	})
	t.Run("explicit column survives", func(t *testing.T) {
		r, err := s.Create(ctx, ownerID, nil, "board-task", map[string]any{
			"title":  "deploy",
			"column": "In Progress",
		})
		assert.NoError(t, err)
		assert.Equal(t, "In Progress", r.Payload["column"])
	})
	t.Run("weekly derives the score", func(t *testing.T) {
		r, err := s.Create(ctx, ownerID, nil, "weekly", map[string]any{
			"week_start":               "2026-01-05",
			"week_end":                 "2026-01-11",
			"dsa_total":                float64(100),
			"backend_topics_completed": float64(50),
			"system_design_topics":     float64(50),
			"project_commits":          float64(100),
		})
		assert.NoError(t, err)
		// (100*0.4 + 50*0.2 + 50*0.2 + 100*0.2) / 10 = 8
		assert.Equal(t, 8, r.Payload["weekly_score"])
	})
	t.Run("duplicate section name", func(t *testing.T) {
		_, err := s.Create(ctx, ownerID, nil, "section", map[string]any{"name": "DSA"})
		require.NoError(t, err)
		_, err = s.Create(ctx, ownerID, nil, "section", map[string]any{"name": "DSA"})
		assert.ErrorIs(t, err, errorvalues.ErrResourceExists)
	})
	t.Run("section defaults the order", func(t *testing.T) {
		r, err := s.Create(ctx, ownerID, nil, "section", map[string]any{"name": "Backend"})
		assert.NoError(t, err)
		assert.Equal(t, float64(0), r.Payload["order"])
	})
	t.Run("explicit section order survives", func(t *testing.T) {
		r, err := s.Create(ctx, ownerID, nil, "section", map[string]any{
			"name":  "System Design",
			"order": float64(3),
		})
		assert.NoError(t, err)
		assert.Equal(t, float64(3), r.Payload["order"])
	})
	t.Run("viewer can't create in workspace", func(t *testing.T) {
		_, err := s.Create(ctx, viewerID, &wsID, "section", map[string]any{"name": "Shared"})
		assert.ErrorIs(t, err, errorvalues.ErrForbidden)
	})
	_ = repo
}

func TestListResources(t *testing.T) {
	s, _ := newResourceService()
	ctx := context.Background()
	for _, company := range []string{"acme", "globex", "initech"} {
		_, err := s.Create(ctx, ownerID, nil, "job", map[string]any{"company": company})
		require.NoError(t, err)
	}
	t.Run("kinds don't leak into each other", func(t *testing.T) {
		records, total, err := s.List(ctx, ownerID, nil, "board-task", service.PaginationOpts{Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Len(t, records, 0)
	})
	t.Run("lists with total", func(t *testing.T) {
		records, total, err := s.List(ctx, ownerID, nil, "job", service.PaginationOpts{Limit: 2})
		assert.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, records, 2)
	})
	t.Run("scope isolation", func(t *testing.T) {
		_, total, err := s.List(ctx, editorID, nil, "job", service.PaginationOpts{Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, 0, total)
	})
}

func TestUpdateResource(t *testing.T) {
	s, _ := newResourceService()
	ctx := context.Background()
	created, err := s.Create(ctx, ownerID, nil, "job", map[string]any{
		"company": "acme",
		"notes":   "referral from a friend",
	})
	require.NoError(t, err)
	t.Run("partial update keeps the rest", func(t *testing.T) {
		updated, err := s.Update(ctx, ownerID, nil, "job", created.ID, map[string]any{
			"stage": "interviewing",
		})
		assert.NoError(t, err)
		assert.Equal(t, "interviewing", updated.Payload["stage"])
		assert.Equal(t, "acme", updated.Payload["company"])
		assert.Equal(t, "referral from a friend", updated.Payload["notes"])
	})
	t.Run("update can't blank a required field", func(t *testing.T) {
		_, err := s.Update(ctx, ownerID, nil, "job", created.ID, map[string]any{"company": ""})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("weekly score recomputes on update", func(t *testing.T) {
		weekly, err := s.Create(ctx, ownerID, nil, "weekly", map[string]any{
			"week_start": "2026-01-05",
			"week_end":   "2026-01-11",
			"dsa_total":  float64(50),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, weekly.Payload["weekly_score"])
		updated, err := s.Update(ctx, ownerID, nil, "weekly", weekly.ID, map[string]any{
			"dsa_total": float64(250),
		})
		assert.NoError(t, err)
		assert.Equal(t, 10, updated.Payload["weekly_score"])
	})
	t.Run("unknown record", func(t *testing.T) {
		_, err := s.Update(ctx, ownerID, nil, "job", uuid.New(), map[string]any{"stage": "offer"})
		assert.ErrorIs(t, err, errorvalues.ErrResourceNotFound)
	})
}

func TestDeleteResource(t *testing.T) {
	s, _ := newResourceService()
	ctx := context.Background()
	created, err := s.Create(ctx, ownerID, nil, "backend-topic", map[string]any{"topic": "goroutine scheduler"})
	require.NoError(t, err)
	t.Run("foreign record is invisible", func(t *testing.T) {
		err := s.Delete(ctx, strangerID, nil, "backend-topic", created.ID)
		assert.ErrorIs(t, err, errorvalues.ErrResourceNotFound)
	})
	t.Run("success then gone", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, ownerID, nil, "backend-topic", created.ID))
		_, err := s.Get(ctx, ownerID, nil, "backend-topic", created.ID)
		assert.ErrorIs(t, err, errorvalues.ErrResourceNotFound)
	})
}
