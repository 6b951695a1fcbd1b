package repository

import (
	"context"
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/pkg/cleanup"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

type TaskTypesRepository struct {
	conn PgConnection
}

func NewTaskTypesRepo(cfg DBConfig) *TaskTypesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for taskTypesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for taskTypesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &TaskTypesRepository{
		conn: pool,
	}
}

func NewTaskTypesRepoWithConn(conn PgConnection) *TaskTypesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for taskTypesRepo: " + err.Error())
	}
	return &TaskTypesRepository{
		conn: conn,
	}
}

func marshalFields(fields []entity.CustomFieldDef) ([]byte, error) {
	if fields == nil {
		fields = []entity.CustomFieldDef{}
	}
	raw, err := sonic.Marshal(fields)
	if err != nil {
		return nil, errors.New("marshalling custom field defs error: " + err.Error())
	}
	return raw, nil
}

func scanTaskType(row pgx.Row) (*entity.TaskType, error) {
	var (
		tt          entity.TaskType
		userID      *uuid.UUID
		workspaceID *uuid.UUID
		rawFields   []byte
	)
	err := row.Scan(&tt.ID, &userID, &workspaceID, &tt.Name, &tt.Color, &rawFields, &tt.CreatedAt)
	if err != nil {
		return nil, err
	}
	tt.Scope = entity.ScopeFromColumns(userID, workspaceID)
	tt.Fields = make([]entity.CustomFieldDef, 0)
	if len(rawFields) > 0 {
		if err = sonic.Unmarshal(rawFields, &tt.Fields); err != nil {
			return nil, errors.New("unmarshalling custom field defs error: " + err.Error())
		}
	}
	return &tt, nil
}

func (tr *TaskTypesRepository) Create(ctx context.Context, tt *entity.TaskType) (uuid.UUID, error) {
	rawFields, err := marshalFields(tt.Fields)
	if err != nil {
		return uuid.UUID{}, err
	}
	userID, workspaceID := tt.Scope.OwnerColumns()
	var id uuid.UUID
	row := tr.conn.QueryRow(ctx, `INSERT INTO task_types (user_id, workspace_id, name, color, fields) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		userID, workspaceID, tt.Name, tt.Color, rawFields,
	)
	if err = row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation on (scope, name)
			case "23505":
				return uuid.UUID{}, errorvalues.ErrTaskTypeExists
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating task type db error: " + err.Error())
	}
	return id, nil
}

func (tr *TaskTypesRepository) GetByID(ctx context.Context, id uuid.UUID, scope entity.Scope) (*entity.TaskType, error) {
	userID, workspaceID := scope.OwnerColumns()
	row := tr.conn.QueryRow(ctx, `SELECT id, user_id, workspace_id, name, color, fields, created_at FROM task_types
		WHERE id = $1 AND user_id IS NOT DISTINCT FROM $2 AND workspace_id IS NOT DISTINCT FROM $3;`,
		id, userID, workspaceID,
	)
	tt, err := scanTaskType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskTypeNotFound
		}
		return nil, errors.New("getting task type by id error: " + err.Error())
	}
	return tt, nil
}

func (tr *TaskTypesRepository) GetByName(ctx context.Context, scope entity.Scope, name string) (*entity.TaskType, error) {
	userID, workspaceID := scope.OwnerColumns()
	row := tr.conn.QueryRow(ctx, `SELECT id, user_id, workspace_id, name, color, fields, created_at FROM task_types
		WHERE name = $1 AND user_id IS NOT DISTINCT FROM $2 AND workspace_id IS NOT DISTINCT FROM $3;`,
		name, userID, workspaceID,
	)
	tt, err := scanTaskType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskTypeNotFound
		}
		return nil, errors.New("getting task type by name error: " + err.Error())
	}
	return tt, nil
}

func (tr *TaskTypesRepository) ListByScope(ctx context.Context, scope entity.Scope) ([]*entity.TaskType, error) {
	userID, workspaceID := scope.OwnerColumns()
	types := make([]*entity.TaskType, 0)
	rows, err := tr.conn.Query(ctx, `SELECT id, user_id, workspace_id, name, color, fields, created_at FROM task_types
		WHERE user_id IS NOT DISTINCT FROM $1 AND workspace_id IS NOT DISTINCT FROM $2 ORDER BY created_at DESC;`,
		userID, workspaceID,
	)
	if err != nil {
		return nil, errors.New("listing task types error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		tt, err := scanTaskType(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task type error: " + err.Error())
		}
		types = append(types, tt)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return types, nil
}

func (tr *TaskTypesRepository) Update(ctx context.Context, tt *entity.TaskType) error {
	rawFields, err := marshalFields(tt.Fields)
	if err != nil {
		return err
	}
	userID, workspaceID := tt.Scope.OwnerColumns()
	ct, err := tr.conn.Exec(ctx, `UPDATE task_types SET name = $1, color = $2, fields = $3
		WHERE id = $4 AND user_id IS NOT DISTINCT FROM $5 AND workspace_id IS NOT DISTINCT FROM $6;`,
		tt.Name, tt.Color, rawFields, tt.ID, userID, workspaceID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrTaskTypeExists
		}
		return errors.New("updating task type error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskTypeNotFound
	}
	return nil
}

func (tr *TaskTypesRepository) Delete(ctx context.Context, id uuid.UUID, scope entity.Scope) error {
	userID, workspaceID := scope.OwnerColumns()
	ct, err := tr.conn.Exec(ctx, `DELETE FROM task_types WHERE id = $1
		AND user_id IS NOT DISTINCT FROM $2 AND workspace_id IS NOT DISTINCT FROM $3;`,
		id, userID, workspaceID,
	)
	if err != nil {
		return errors.New("deleting task type error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskTypeNotFound
	}
	return nil
}

func (tr *TaskTypesRepository) DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error {
	_, err := tr.conn.Exec(ctx, `DELETE FROM task_types WHERE workspace_id = $1;`, wid)
	if err != nil {
		return errors.New("deleting workspace task types error: " + err.Error())
	}
	return nil
}

func (tr *TaskTypesRepository) ListAll(ctx context.Context) ([]*entity.TaskType, error) {
	types := make([]*entity.TaskType, 0)
	rows, err := tr.conn.Query(ctx, `SELECT id, user_id, workspace_id, name, color, fields, created_at FROM task_types ORDER BY created_at;`)
	if err != nil {
		return nil, errors.New("listing all task types error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		tt, err := scanTaskType(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task type error: " + err.Error())
		}
		types = append(types, tt)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return types, nil
}

func (tr *TaskTypesRepository) DeleteAll(ctx context.Context) error {
	_, err := tr.conn.Exec(ctx, `DELETE FROM task_types;`)
	if err != nil {
		return errors.New("deleting all task types error: " + err.Error())
	}
	return nil
}
