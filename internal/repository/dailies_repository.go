package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/pkg/cleanup"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

// DailiesRepository persists daily entries. The task list is stored as a
// jsonb document; the partial unique indexes on (user_id, entry_date) and
// (workspace_id, entry_date) are the only mutual-exclusion mechanism for
// concurrent upserts.
type DailiesRepository struct {
	conn PgConnection
}

func NewDailiesRepo(cfg DBConfig) *DailiesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for dailiesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for dailiesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &DailiesRepository{
		conn: pool,
	}
}

func NewDailiesRepoWithConn(conn PgConnection) *DailiesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for dailiesRepo: " + err.Error())
	}
	return &DailiesRepository{
		conn: conn,
	}
}

func marshalTasks(tasks []entity.DailyTask) ([]byte, error) {
	if tasks == nil {
		tasks = []entity.DailyTask{}
	}
	raw, err := sonic.Marshal(tasks)
	if err != nil {
		return nil, errors.New("marshalling tasks error: " + err.Error())
	}
	return raw, nil
}

const dailyColumns = `id, user_id, workspace_id, entry_date, tasks, dsa_completed, backend_learning,
		system_design, project_work, notes, time_spent_hours, energy_level, score, created_at, updated_at`

func scanDaily(row pgx.Row) (*entity.DailyEntry, error) {
	var (
		e           entity.DailyEntry
		userID      *uuid.UUID
		workspaceID *uuid.UUID
		rawTasks    []byte
	)
	err := row.Scan(&e.ID, &userID, &workspaceID, &e.Date, &rawTasks, &e.DSACompleted, &e.BackendLearning,
		&e.SystemDesign, &e.ProjectWork, &e.Notes, &e.TimeSpentHours, &e.EnergyLevel, &e.Score, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Scope = entity.ScopeFromColumns(userID, workspaceID)
	e.Tasks = make([]entity.DailyTask, 0)
	if len(rawTasks) > 0 {
		if err = sonic.Unmarshal(rawTasks, &e.Tasks); err != nil {
			return nil, errors.New("unmarshalling tasks error: " + err.Error())
		}
	}
	return &e, nil
}

func (dr *DailiesRepository) Create(ctx context.Context, e *entity.DailyEntry) (uuid.UUID, error) {
	rawTasks, err := marshalTasks(e.Tasks)
	if err != nil {
		return uuid.UUID{}, err
	}
	userID, workspaceID := e.Scope.OwnerColumns()
	var id uuid.UUID
	row := dr.conn.QueryRow(ctx, `INSERT INTO dailies (user_id, workspace_id, entry_date, tasks, dsa_completed,
		backend_learning, system_design, project_work, notes, time_spent_hours, energy_level, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id;`,
		userID, workspaceID, e.Date, rawTasks, e.DSACompleted, e.BackendLearning, e.SystemDesign,
		e.ProjectWork, e.Notes, e.TimeSpentHours, e.EnergyLevel, e.Score,
	)
	if err = row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation on (scope, date)
			case "23505":
				return uuid.UUID{}, errorvalues.ErrDuplicateEntry
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating daily entry db error: " + err.Error())
	}
	return id, nil
}

func (dr *DailiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DailyEntry, error) {
	row := dr.conn.QueryRow(ctx, `SELECT `+dailyColumns+` FROM dailies WHERE id = $1;`, id)
	e, err := scanDaily(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("getting daily entry by id error: " + err.Error())
	}
	return e, nil
}

func (dr *DailiesRepository) GetByScopeAndDate(ctx context.Context, scope entity.Scope, date time.Time) (*entity.DailyEntry, error) {
	userID, workspaceID := scope.OwnerColumns()
	row := dr.conn.QueryRow(ctx, `SELECT `+dailyColumns+` FROM dailies
		WHERE user_id IS NOT DISTINCT FROM $1 AND workspace_id IS NOT DISTINCT FROM $2 AND entry_date = $3;`,
		userID, workspaceID, date,
	)
	e, err := scanDaily(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("getting daily entry by date error: " + err.Error())
	}
	return e, nil
}

func (dr *DailiesRepository) ListByScope(ctx context.Context, scope entity.Scope, from, to *time.Time, limit, offset int) ([]*entity.DailyEntry, error) {
	userID, workspaceID := scope.OwnerColumns()
	entries := make([]*entity.DailyEntry, 0)
	rows, err := dr.conn.Query(ctx, `SELECT `+dailyColumns+` FROM dailies
		WHERE user_id IS NOT DISTINCT FROM $1 AND workspace_id IS NOT DISTINCT FROM $2
		AND ($3::date IS NULL OR entry_date >= $3) AND ($4::date IS NULL OR entry_date <= $4)
		ORDER BY entry_date DESC LIMIT $5 OFFSET $6;`,
		userID, workspaceID, from, to, limit, offset,
	)
	if err != nil {
		return nil, errors.New("listing daily entries error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanDaily(rows)
		if err != nil {
			return nil, errors.New("unmarshalling daily entry error: " + err.Error())
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return entries, nil
}

func (dr *DailiesRepository) CountByScope(ctx context.Context, scope entity.Scope, from, to *time.Time) (int, error) {
	userID, workspaceID := scope.OwnerColumns()
	var total int
	row := dr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM dailies
		WHERE user_id IS NOT DISTINCT FROM $1 AND workspace_id IS NOT DISTINCT FROM $2
		AND ($3::date IS NULL OR entry_date >= $3) AND ($4::date IS NULL OR entry_date <= $4);`,
		userID, workspaceID, from, to,
	)
	if err := row.Scan(&total); err != nil {
		return 0, errors.New("counting daily entries error: " + err.Error())
	}
	return total, nil
}

func (dr *DailiesRepository) Update(ctx context.Context, e *entity.DailyEntry) error {
	rawTasks, err := marshalTasks(e.Tasks)
	if err != nil {
		return err
	}
	ct, err := dr.conn.Exec(ctx, `UPDATE dailies SET tasks = $1, dsa_completed = $2, backend_learning = $3,
		system_design = $4, project_work = $5, notes = $6, time_spent_hours = $7, energy_level = $8,
		score = $9, updated_at = NOW() WHERE id = $10;`,
		rawTasks, e.DSACompleted, e.BackendLearning, e.SystemDesign, e.ProjectWork, e.Notes,
		e.TimeSpentHours, e.EnergyLevel, e.Score, e.ID,
	)
	if err != nil {
		return errors.New("updating daily entry error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func (dr *DailiesRepository) Delete(ctx context.Context, id uuid.UUID, scope entity.Scope) error {
	userID, workspaceID := scope.OwnerColumns()
	ct, err := dr.conn.Exec(ctx, `DELETE FROM dailies WHERE id = $1
		AND user_id IS NOT DISTINCT FROM $2 AND workspace_id IS NOT DISTINCT FROM $3;`,
		id, userID, workspaceID,
	)
	if err != nil {
		return errors.New("deleting daily entry error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func (dr *DailiesRepository) DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error {
	_, err := dr.conn.Exec(ctx, `DELETE FROM dailies WHERE workspace_id = $1;`, wid)
	if err != nil {
		return errors.New("deleting workspace daily entries error: " + err.Error())
	}
	return nil
}

func (dr *DailiesRepository) ListAll(ctx context.Context) ([]*entity.DailyEntry, error) {
	entries := make([]*entity.DailyEntry, 0)
	rows, err := dr.conn.Query(ctx, `SELECT ` + dailyColumns + ` FROM dailies ORDER BY entry_date DESC;`)
	if err != nil {
		return nil, errors.New("listing all daily entries error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanDaily(rows)
		if err != nil {
			return nil, errors.New("unmarshalling daily entry error: " + err.Error())
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return entries, nil
}

func (dr *DailiesRepository) DeleteAll(ctx context.Context) error {
	_, err := dr.conn.Exec(ctx, `DELETE FROM dailies;`)
	if err != nil {
		return errors.New("deleting all daily entries error: " + err.Error())
	}
	return nil
}
