package service_test

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

func newBackupFixture() (*service.BackupService, *workspacesRepoMock, *dailiesRepoFake, *taskTypesRepoFake, *resourcesRepoFake) {
	wsRepo := newWorkspacesRepoMock()
	dailies := newDailiesRepoFake()
	types := newTaskTypesRepoFake()
	resources := newResourcesRepoFake()
	return service.NewBackupService(wsRepo, dailies, types, resources), wsRepo, dailies, types, resources
}

func TestExportAll(t *testing.T) {
	s, _, dailies, types, _ := newBackupFixture()
	ctx := context.Background()
	_, err := dailies.Create(ctx, &entity.DailyEntry{
		Scope:       entity.PersonalScope(ownerID),
		Date:        service.Today(),
		Tasks:       []entity.DailyTask{},
		EnergyLevel: 3,
	})
	require.NoError(t, err)
	_, err = types.Create(ctx, &entity.TaskType{
		Scope: entity.PersonalScope(ownerID),
		Name:  "bug",
	})
	require.NoError(t, err)

	snap, err := s.ExportAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, snap.Workspaces, 1)
	assert.Len(t, snap.Dailies, 1)
	assert.Len(t, snap.TaskTypes, 1)
	assert.Len(t, snap.Resources, 0)
}

func TestImportAll(t *testing.T) {
	ctx := context.Background()
	snapshot := &service.Snapshot{
		Workspaces: []*entity.Workspace{
			{Name: "restored", OwnerID: ownerID},
		},
		Dailies: []*entity.DailyEntry{
			{Scope: entity.PersonalScope(ownerID), Date: service.Today(), Tasks: []entity.DailyTask{}, EnergyLevel: 3},
		},
		TaskTypes: []*entity.TaskType{
			{Scope: entity.PersonalScope(ownerID), Name: "bug"},
		},
		Resources: []*entity.Resource{
			{Kind: "job", Scope: entity.PersonalScope(ownerID), Payload: map[string]any{"company": "acme"}},
		},
	}
	t.Run("replace wipes existing data first", func(t *testing.T) {
		s, wsRepo, dailies, _, _ := newBackupFixture()
		_, err := dailies.Create(ctx, &entity.DailyEntry{
			Scope: entity.PersonalScope(editorID),
			Date:  service.Today(),
			Tasks: []entity.DailyTask{},
		})
		require.NoError(t, err)
		assert.NoError(t, s.ImportAll(ctx, snapshot, false))
		assert.Len(t, wsRepo.workspaces, 1)
		assert.Len(t, dailies.entries, 1)
		for _, e := range dailies.entries {
			assert.Equal(t, entity.PersonalScope(ownerID), e.Scope)
		}
	})
	t.Run("keep existing appends", func(t *testing.T) {
		s, wsRepo, dailies, _, resources := newBackupFixture()
		_, err := dailies.Create(ctx, &entity.DailyEntry{
			Scope: entity.PersonalScope(editorID),
			Date:  service.Today(),
			Tasks: []entity.DailyTask{},
		})
		require.NoError(t, err)
		assert.NoError(t, s.ImportAll(ctx, snapshot, true))
		assert.Len(t, wsRepo.workspaces, 2)
		assert.Len(t, dailies.entries, 2)
		assert.Len(t, resources.resources, 1)
	})
	t.Run("workspace members and scoped records are restored", func(t *testing.T) {
		s, wsRepo, dailies, _, _ := newBackupFixture()
		oldID := uuid.New()
		shared := &service.Snapshot{
			Workspaces: []*entity.Workspace{
				{
					ID:      oldID,
					Name:    "team",
					OwnerID: ownerID,
					Members: []entity.WorkspaceMember{{UserID: editorID, Role: entity.RoleEditor}},
				},
			},
			Dailies: []*entity.DailyEntry{
				{Scope: entity.WorkspaceScope(oldID), Date: service.Today(), Tasks: []entity.DailyTask{}},
			},
		}
		assert.NoError(t, s.ImportAll(ctx, shared, false))
		require.Len(t, wsRepo.workspaces, 1)
		for id, ws := range wsRepo.workspaces {
			require.Len(t, ws.Members, 1)
			assert.Equal(t, entity.RoleEditor, ws.Members[0].Role)
			for _, e := range dailies.entries {
				assert.Equal(t, entity.WorkspaceScope(id), e.Scope)
			}
		}
	})
	t.Run("unknown workspace in a scoped record", func(t *testing.T) {
		s, _, _, _, _ := newBackupFixture()
		broken := &service.Snapshot{
			Dailies: []*entity.DailyEntry{
				{Scope: entity.WorkspaceScope(uuid.New()), Date: service.Today(), Tasks: []entity.DailyTask{}},
			},
		}
		assert.Error(t, s.ImportAll(ctx, broken, false))
	})
	t.Run("nil snapshot", func(t *testing.T) {
		s, _, _, _, _ := newBackupFixture()
		assert.Error(t, s.ImportAll(ctx, nil, false))
	})
}

// The snapshot travels over HTTP as JSON, so the round trip has to cross an
// encode/decode and still bring workspace-scoped records back into their
// workspace.
func TestSnapshotJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, wsRepo, dailies, _, _ := newBackupFixture()
	var wid uuid.UUID
	for id := range wsRepo.workspaces {
		wid = id
	}
	_, err := dailies.Create(ctx, &entity.DailyEntry{
		Scope: entity.WorkspaceScope(wid),
		Date:  service.Today(),
		Tasks: []entity.DailyTask{},
	})
	require.NoError(t, err)
	_, err = dailies.Create(ctx, &entity.DailyEntry{
		Scope: entity.PersonalScope(ownerID),
		Date:  service.Today(),
		Tasks: []entity.DailyTask{},
	})
	require.NoError(t, err)

	snap, err := s.ExportAll(ctx)
	require.NoError(t, err)
	raw, err := sonic.Marshal(snap)
	require.NoError(t, err)
	var decoded service.Snapshot
	require.NoError(t, sonic.Unmarshal(raw, &decoded))

	require.NoError(t, s.ImportAll(ctx, &decoded, false))
	require.Len(t, wsRepo.workspaces, 1)
	var restoredWID uuid.UUID
	for id := range wsRepo.workspaces {
		restoredWID = id
	}
	workspaceScoped := 0
	personalScoped := 0
	for _, e := range dailies.entries {
		switch e.Scope {
		case entity.WorkspaceScope(restoredWID):
			workspaceScoped++
		case entity.PersonalScope(ownerID):
			personalScoped++
		default:
			t.Fatalf("entry restored into unexpected scope %+v", e.Scope)
		}
	}
	assert.Equal(t, 1, workspaceScoped)
	assert.Equal(t, 1, personalScoped)
}
