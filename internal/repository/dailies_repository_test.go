package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

// The expected SQL is matched as a regexp, so for the multi-line queries an
// unambiguous quoted fragment is enough.
var dailyRowColumns = []string{
	"id", "user_id", "workspace_id", "entry_date", "tasks", "dsa_completed", "backend_learning",
	"system_design", "project_work", "notes", "time_spent_hours", "energy_level", "score", "created_at", "updated_at",
}

func testDailyEntry(scope entity.Scope) *entity.DailyEntry {
	return &entity.DailyEntry{
		ID:              uuid.New(),
		Scope:           scope,
		Date:            time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Tasks:           []entity.DailyTask{},
		DSACompleted:    2,
		BackendLearning: 1,
		Notes:           "good day",
		TimeSpentHours:  3.5,
		EnergyLevel:     4,
		Score:           3,
	}
}

// ownerRowValues returns the owner pair as pointers: pgxmock cannot scan a
// plain uuid.UUID row value into the *uuid.UUID destinations used for the
// nullable owner columns.
func ownerRowValues(scope entity.Scope) (userID, workspaceID any) {
	userID, workspaceID = scope.OwnerColumns()
	if id, ok := userID.(uuid.UUID); ok {
		userID = &id
	}
	if id, ok := workspaceID.(uuid.UUID); ok {
		workspaceID = &id
	}
	return userID, workspaceID
}

func dailyRow(e *entity.DailyEntry, rawTasks []byte) *pgxmock.Rows {
	userID, workspaceID := ownerRowValues(e.Scope)
	now := time.Now()
	return pgxmock.NewRows(dailyRowColumns).AddRow(
		e.ID, userID, workspaceID, e.Date, rawTasks, e.DSACompleted, e.BackendLearning,
		e.SystemDesign, e.ProjectWork, e.Notes, e.TimeSpentHours, e.EnergyLevel, e.Score, now, now,
	)
}

func TestCreateDailyEntry(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	entry := testDailyEntry(entity.PersonalScope(uuid.New()))
	userID, workspaceID := entry.Scope.OwnerColumns()
	rawTasks, err := sonic.Marshal(entry.Tasks)
	require.NoError(t, err)
	query := regexp.QuoteMeta(`INSERT INTO dailies (user_id, workspace_id, entry_date, tasks, dsa_completed,`)
	args := []any{
		userID, workspaceID, entry.Date, rawTasks, entry.DSACompleted, entry.BackendLearning,
		entry.SystemDesign, entry.ProjectWork, entry.Notes, entry.TimeSpentHours, entry.EnergyLevel, entry.Score,
	}
	t.Run("successfully created", func(t *testing.T) {
		id := uuid.New()
		conn.ExpectQuery(query).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
		created, err := repo.Create(ctx, entry)
		assert.NoError(t, err)
		assert.Equal(t, id, created)
	})
	t.Run("duplicate scope and date", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(args...).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Create(ctx, entry)
		assert.ErrorIs(t, err, errorvalues.ErrDuplicateEntry)
	})
	t.Run("owner is gone", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(args...).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, entry)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(args...).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, entry)
		assert.Error(t, err)
	})
}

func TestGetDailyEntryByID(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	entry := testDailyEntry(entity.PersonalScope(uuid.New()))
	entry.Tasks = []entity.DailyTask{
		{ID: uuid.New(), Title: "solve two mediums", Type: "dsa", Completed: true},
	}
	rawTasks, err := sonic.Marshal(entry.Tasks)
	require.NoError(t, err)
	query := regexp.QuoteMeta(`FROM dailies WHERE id = $1;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(entry.ID).
			WillReturnRows(dailyRow(entry, rawTasks))
		result, err := repo.GetByID(ctx, entry.ID)
		assert.NoError(t, err)
		assert.Equal(t, entry.ID, result.ID)
		assert.Equal(t, entry.Scope, result.Scope)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, entry.Tasks[0], result.Tasks[0])
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(entry.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, entry.ID)
		assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(entry.ID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByID(ctx, entry.ID)
		assert.Error(t, err)
	})
}

func TestGetDailyEntryByScopeAndDate(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	entry := testDailyEntry(entity.WorkspaceScope(uuid.New()))
	userID, workspaceID := entry.Scope.OwnerColumns()
	rawTasks, err := sonic.Marshal(entry.Tasks)
	require.NoError(t, err)
	query := regexp.QuoteMeta(`AND entry_date = $3;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, entry.Date).
			WillReturnRows(dailyRow(entry, rawTasks))
		result, err := repo.GetByScopeAndDate(ctx, entry.Scope, entry.Date)
		assert.NoError(t, err)
		assert.Equal(t, entry.ID, result.ID)
		assert.Equal(t, entry.Scope, result.Scope)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, entry.Date).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByScopeAndDate(ctx, entry.Scope, entry.Date)
		assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	})
}

func TestListDailyEntriesByScope(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	scope := entity.PersonalScope(uuid.New())
	userID, workspaceID := scope.OwnerColumns()
	var from, to *time.Time
	query := regexp.QuoteMeta(`ORDER BY entry_date DESC LIMIT $5 OFFSET $6;`)
	t.Run("listed", func(t *testing.T) {
		first := testDailyEntry(scope)
		rawTasks, err := sonic.Marshal(first.Tasks)
		require.NoError(t, err)
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, from, to, 20, 0).
			WillReturnRows(dailyRow(first, rawTasks))
		entries, err := repo.ListByScope(ctx, scope, from, to, 20, 0)
		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, first.ID, entries[0].ID)
	})
	t.Run("empty", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, from, to, 20, 0).
			WillReturnRows(pgxmock.NewRows(dailyRowColumns))
		entries, err := repo.ListByScope(ctx, scope, from, to, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, entries, 0)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, from, to, 20, 0).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByScope(ctx, scope, from, to, 20, 0)
		assert.Error(t, err)
	})
}

func TestCountDailyEntriesByScope(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	scope := entity.PersonalScope(uuid.New())
	userID, workspaceID := scope.OwnerColumns()
	var from, to *time.Time
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM dailies`)
	t.Run("counted", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, from, to).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
		total, err := repo.CountByScope(ctx, scope, from, to)
		assert.NoError(t, err)
		assert.Equal(t, 7, total)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(userID, workspaceID, from, to).
			WillReturnError(errors.New("db error"))
		_, err := repo.CountByScope(ctx, scope, from, to)
		assert.Error(t, err)
	})
}

func TestUpdateDailyEntry(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	entry := testDailyEntry(entity.PersonalScope(uuid.New()))
	rawTasks, err := sonic.Marshal(entry.Tasks)
	require.NoError(t, err)
	query := regexp.QuoteMeta(`UPDATE dailies SET tasks = $1, dsa_completed = $2, backend_learning = $3,`)
	args := []any{
		rawTasks, entry.DSACompleted, entry.BackendLearning, entry.SystemDesign, entry.ProjectWork,
		entry.Notes, entry.TimeSpentHours, entry.EnergyLevel, entry.Score, entry.ID,
	}
	t.Run("updated", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(args...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Update(ctx, entry)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(args...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.Update(ctx, entry)
		assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(args...).
			WillReturnError(errors.New("db error"))
		err := repo.Update(ctx, entry)
		assert.Error(t, err)
	})
}

func TestDeleteDailyEntry(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	scope := entity.PersonalScope(uuid.New())
	userID, workspaceID := scope.OwnerColumns()
	id := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM dailies WHERE id = $1`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(id, userID, workspaceID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.Delete(ctx, id, scope)
		assert.NoError(t, err)
	})
	t.Run("not found in scope", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(id, userID, workspaceID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.Delete(ctx, id, scope)
		assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	})
}

func TestDeleteDailyEntriesByWorkspace(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewDailiesRepoWithConn(conn)
	wid := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM dailies WHERE workspace_id = $1;`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(wid).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		err := repo.DeleteByWorkspace(ctx, wid)
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).
			WithArgs(wid).
			WillReturnError(errors.New("db error"))
		err := repo.DeleteByWorkspace(ctx, wid)
		assert.Error(t, err)
	})
}
