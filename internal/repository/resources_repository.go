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

// ResourcesRepository is a single jsonb-payload store shared by all generic
// record kinds (weekly, monthly, topics, board tasks, jobs, sections).
type ResourcesRepository struct {
	conn PgConnection
}

func NewResourcesRepo(cfg DBConfig) *ResourcesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for resourcesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for resourcesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ResourcesRepository{
		conn: pool,
	}
}

func NewResourcesRepoWithConn(conn PgConnection) *ResourcesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for resourcesRepo: " + err.Error())
	}
	return &ResourcesRepository{
		conn: conn,
	}
}

func scanResource(row pgx.Row) (*entity.Resource, error) {
	var (
		r           entity.Resource
		userID      *uuid.UUID
		workspaceID *uuid.UUID
		rawPayload  []byte
	)
	err := row.Scan(&r.ID, &r.Kind, &userID, &workspaceID, &rawPayload, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Scope = entity.ScopeFromColumns(userID, workspaceID)
	r.Payload = map[string]any{}
	if len(rawPayload) > 0 {
		if err = sonic.Unmarshal(rawPayload, &r.Payload); err != nil {
			return nil, errors.New("unmarshalling resource payload error: " + err.Error())
		}
	}
	return &r, nil
}

func (rr *ResourcesRepository) Create(ctx context.Context, r *entity.Resource) (uuid.UUID, error) {
	rawPayload, err := sonic.Marshal(r.Payload)
	if err != nil {
		return uuid.UUID{}, errors.New("marshalling resource payload error: " + err.Error())
	}
	userID, workspaceID := r.Scope.OwnerColumns()
	var id uuid.UUID
	row := rr.conn.QueryRow(ctx, `INSERT INTO resources (kind, user_id, workspace_id, payload) VALUES ($1, $2, $3, $4) RETURNING id;`,
		r.Kind, userID, workspaceID, rawPayload,
	)
	if err = row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation (section name within scope)
			case "23505":
				return uuid.UUID{}, errorvalues.ErrResourceExists
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating resource db error: " + err.Error())
	}
	return id, nil
}

func (rr *ResourcesRepository) GetByID(ctx context.Context, id uuid.UUID, kind string, scope entity.Scope) (*entity.Resource, error) {
	userID, workspaceID := scope.OwnerColumns()
	row := rr.conn.QueryRow(ctx, `SELECT id, kind, user_id, workspace_id, payload, created_at FROM resources
		WHERE id = $1 AND kind = $2 AND user_id IS NOT DISTINCT FROM $3 AND workspace_id IS NOT DISTINCT FROM $4;`,
		id, kind, userID, workspaceID,
	)
	r, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrResourceNotFound
		}
		return nil, errors.New("getting resource by id error: " + err.Error())
	}
	return r, nil
}

func (rr *ResourcesRepository) ListByScope(ctx context.Context, kind string, scope entity.Scope, limit, offset int) ([]*entity.Resource, error) {
	userID, workspaceID := scope.OwnerColumns()
	resources := make([]*entity.Resource, 0)
	rows, err := rr.conn.Query(ctx, `SELECT id, kind, user_id, workspace_id, payload, created_at FROM resources
		WHERE kind = $1 AND user_id IS NOT DISTINCT FROM $2 AND workspace_id IS NOT DISTINCT FROM $3
		ORDER BY created_at DESC LIMIT $4 OFFSET $5;`,
		kind, userID, workspaceID, limit, offset,
	)
	if err != nil {
		return nil, errors.New("listing resources error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, errors.New("unmarshalling resource error: " + err.Error())
		}
		resources = append(resources, r)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return resources, nil
}

func (rr *ResourcesRepository) CountByScope(ctx context.Context, kind string, scope entity.Scope) (int, error) {
	userID, workspaceID := scope.OwnerColumns()
	var total int
	row := rr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM resources
		WHERE kind = $1 AND user_id IS NOT DISTINCT FROM $2 AND workspace_id IS NOT DISTINCT FROM $3;`,
		kind, userID, workspaceID,
	)
	if err := row.Scan(&total); err != nil {
		return 0, errors.New("counting resources error: " + err.Error())
	}
	return total, nil
}

func (rr *ResourcesRepository) Update(ctx context.Context, r *entity.Resource) error {
	rawPayload, err := sonic.Marshal(r.Payload)
	if err != nil {
		return errors.New("marshalling resource payload error: " + err.Error())
	}
	userID, workspaceID := r.Scope.OwnerColumns()
	ct, err := rr.conn.Exec(ctx, `UPDATE resources SET payload = $1 WHERE id = $2 AND kind = $3
		AND user_id IS NOT DISTINCT FROM $4 AND workspace_id IS NOT DISTINCT FROM $5;`,
		rawPayload, r.ID, r.Kind, userID, workspaceID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrResourceExists
		}
		return errors.New("updating resource error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrResourceNotFound
	}
	return nil
}

func (rr *ResourcesRepository) Delete(ctx context.Context, id uuid.UUID, kind string, scope entity.Scope) error {
	userID, workspaceID := scope.OwnerColumns()
	ct, err := rr.conn.Exec(ctx, `DELETE FROM resources WHERE id = $1 AND kind = $2
		AND user_id IS NOT DISTINCT FROM $3 AND workspace_id IS NOT DISTINCT FROM $4;`,
		id, kind, userID, workspaceID,
	)
	if err != nil {
		return errors.New("deleting resource error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrResourceNotFound
	}
	return nil
}

func (rr *ResourcesRepository) DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error {
	_, err := rr.conn.Exec(ctx, `DELETE FROM resources WHERE workspace_id = $1;`, wid)
	if err != nil {
		return errors.New("deleting workspace resources error: " + err.Error())
	}
	return nil
}

func (rr *ResourcesRepository) ListAll(ctx context.Context) ([]*entity.Resource, error) {
	resources := make([]*entity.Resource, 0)
	rows, err := rr.conn.Query(ctx, `SELECT id, kind, user_id, workspace_id, payload, created_at FROM resources ORDER BY created_at;`)
	if err != nil {
		return nil, errors.New("listing all resources error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, errors.New("unmarshalling resource error: " + err.Error())
		}
		resources = append(resources, r)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return resources, nil
}

func (rr *ResourcesRepository) DeleteAll(ctx context.Context) error {
	_, err := rr.conn.Exec(ctx, `DELETE FROM resources;`)
	if err != nil {
		return errors.New("deleting all resources error: " + err.Error())
	}
	return nil
}
