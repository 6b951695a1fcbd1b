package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/pkg/cleanup"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

type WorkspacesRepository struct {
	conn PgConnection
}

func NewWorkspacesRepo(cfg DBConfig) *WorkspacesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for workspacesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for workspacesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &WorkspacesRepository{
		conn: pool,
	}
}

func NewWorkspacesRepoWithConn(conn PgConnection) *WorkspacesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for workspacesRepo: " + err.Error())
	}
	return &WorkspacesRepository{
		conn: conn,
	}
}

func (wr *WorkspacesRepository) Create(ctx context.Context, ws *entity.Workspace) (uuid.UUID, error) {
	var id uuid.UUID
	row := wr.conn.QueryRow(ctx, `INSERT INTO workspaces (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id;`,
		ws.Name, ws.Description, ws.OwnerID,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating workspace db error: " + err.Error())
	}
	return id, nil
}

func (wr *WorkspacesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Workspace, error) {
	var ws entity.Workspace
	ws.ID = id
	row := wr.conn.QueryRow(ctx, `SELECT name, description, owner_id, created_at, updated_at FROM workspaces WHERE id = $1;`, id)
	if err := row.Scan(&ws.Name, &ws.Description, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrWorkspaceNotFound
		}
		return nil, errors.New("getting workspace by id error: " + err.Error())
	}
	members, err := wr.listMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	ws.Members = members
	return &ws, nil
}

func (wr *WorkspacesRepository) listMembers(ctx context.Context, wid uuid.UUID) ([]entity.WorkspaceMember, error) {
	members := make([]entity.WorkspaceMember, 0)
	rows, err := wr.conn.Query(ctx, `SELECT user_id, role FROM workspace_members WHERE workspace_id = $1;`, wid)
	if err != nil {
		return nil, errors.New("getting workspace members error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		m := entity.WorkspaceMember{}
		if err = rows.Scan(&m.UserID, &m.Role); err != nil {
			return nil, errors.New("unmarshalling workspace member error: " + err.Error())
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return members, nil
}

func (wr *WorkspacesRepository) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Workspace, error) {
	workspaces := make([]*entity.Workspace, 0)
	rows, err := wr.conn.Query(ctx, `SELECT DISTINCT w.id, w.name, w.description, w.owner_id, w.created_at, w.updated_at
		FROM workspaces w LEFT JOIN workspace_members m ON m.workspace_id = w.id
		WHERE w.owner_id = $1 OR m.user_id = $1 ORDER BY w.updated_at DESC;`, uid)
	if err != nil {
		return nil, errors.New("listing workspaces error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		ws := entity.Workspace{}
		err = rows.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling workspace error: " + err.Error())
		}
		workspaces = append(workspaces, &ws)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	for _, ws := range workspaces {
		members, err := wr.listMembers(ctx, ws.ID)
		if err != nil {
			return nil, err
		}
		ws.Members = members
	}
	return workspaces, nil
}

func (wr *WorkspacesRepository) Update(ctx context.Context, ws *entity.Workspace) error {
	ct, err := wr.conn.Exec(ctx, `UPDATE workspaces SET name = $1, description = $2, updated_at = NOW() WHERE id = $3;`,
		ws.Name, ws.Description, ws.ID,
	)
	if err != nil {
		return errors.New("updating workspace error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrWorkspaceNotFound
	}
	return nil
}

func (wr *WorkspacesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := wr.conn.Exec(ctx, `DELETE FROM workspaces WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting workspace error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrWorkspaceNotFound
	}
	return nil
}

func (wr *WorkspacesRepository) SetMember(ctx context.Context, wid, uid uuid.UUID, role entity.Role) error {
	_, err := wr.conn.Exec(ctx, `INSERT INTO workspace_members (workspace_id, user_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role;`,
		wid, uid, role,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation: either workspace or user is gone
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("setting workspace member error: " + err.Error())
	}
	return nil
}

func (wr *WorkspacesRepository) RemoveMember(ctx context.Context, wid, uid uuid.UUID) error {
	_, err := wr.conn.Exec(ctx, `DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2;`, wid, uid)
	if err != nil {
		return errors.New("removing workspace member error: " + err.Error())
	}
	return nil
}

func (wr *WorkspacesRepository) ListAll(ctx context.Context) ([]*entity.Workspace, error) {
	workspaces := make([]*entity.Workspace, 0)
	rows, err := wr.conn.Query(ctx, `SELECT id, name, description, owner_id, created_at, updated_at FROM workspaces ORDER BY created_at;`)
	if err != nil {
		return nil, errors.New("listing all workspaces error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		ws := entity.Workspace{}
		err = rows.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling workspace error: " + err.Error())
		}
		workspaces = append(workspaces, &ws)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	for _, ws := range workspaces {
		members, err := wr.listMembers(ctx, ws.ID)
		if err != nil {
			return nil, err
		}
		ws.Members = members
	}
	return workspaces, nil
}

func (wr *WorkspacesRepository) DeleteAll(ctx context.Context) error {
	_, err := wr.conn.Exec(ctx, `DELETE FROM workspaces;`)
	if err != nil {
		return errors.New("deleting all workspaces error: " + err.Error())
	}
	return nil
}
