package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/csg4786/progress-tracker/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Case-insensitive substring search over usernames, for workspace sharing
	SearchByName(ctx context.Context, q string, limit int) ([]*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type WorkspacesRepositoryI interface {
	// Creates workspace, returns its id
	Create(ctx context.Context, ws *entity.Workspace) (uuid.UUID, error)
	// Loads workspace with its member list
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Workspace, error)
	// Lists workspaces where uid is owner or member
	ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Workspace, error)
	// Updates name and description
	Update(ctx context.Context, ws *entity.Workspace) error
	// Deletes the workspace row (members cascade via FK)
	Delete(ctx context.Context, id uuid.UUID) error
	// Adds the member or updates its role (last write wins)
	SetMember(ctx context.Context, wid, uid uuid.UUID, role entity.Role) error
	RemoveMember(ctx context.Context, wid, uid uuid.UUID) error
	ListAll(ctx context.Context) ([]*entity.Workspace, error)
	DeleteAll(ctx context.Context) error
}

type DailiesRepositoryI interface {
	// Inserts entry, returns id. Duplicate (scope, date) maps to ErrDuplicateEntry
	Create(ctx context.Context, e *entity.DailyEntry) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DailyEntry, error)
	// Looks up the single entry for (scope, date); date must be UTC midnight
	GetByScopeAndDate(ctx context.Context, scope entity.Scope, date time.Time) (*entity.DailyEntry, error)
	// Lists entries of a scope, newest first. Nil bounds are open
	ListByScope(ctx context.Context, scope entity.Scope, from, to *time.Time, limit, offset int) ([]*entity.DailyEntry, error)
	CountByScope(ctx context.Context, scope entity.Scope, from, to *time.Time) (int, error)
	// Writes all mutable fields including the task list and score
	Update(ctx context.Context, e *entity.DailyEntry) error
	Delete(ctx context.Context, id uuid.UUID, scope entity.Scope) error
	DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error
	ListAll(ctx context.Context) ([]*entity.DailyEntry, error)
	DeleteAll(ctx context.Context) error
}

type TaskTypesRepositoryI interface {
	// Creates task type. Duplicate (scope, name) maps to ErrTaskTypeExists
	Create(ctx context.Context, tt *entity.TaskType) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID, scope entity.Scope) (*entity.TaskType, error)
	// Name lookup used for custom field validation; type names are free text
	// on tasks, so absence is not an error for callers
	GetByName(ctx context.Context, scope entity.Scope, name string) (*entity.TaskType, error)
	ListByScope(ctx context.Context, scope entity.Scope) ([]*entity.TaskType, error)
	Update(ctx context.Context, tt *entity.TaskType) error
	Delete(ctx context.Context, id uuid.UUID, scope entity.Scope) error
	DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error
	ListAll(ctx context.Context) ([]*entity.TaskType, error)
	DeleteAll(ctx context.Context) error
}

type ResourcesRepositoryI interface {
	// Inserts resource. Duplicate (kind, scope, name) maps to ErrResourceExists
	Create(ctx context.Context, r *entity.Resource) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID, kind string, scope entity.Scope) (*entity.Resource, error)
	ListByScope(ctx context.Context, kind string, scope entity.Scope, limit, offset int) ([]*entity.Resource, error)
	CountByScope(ctx context.Context, kind string, scope entity.Scope) (int, error)
	Update(ctx context.Context, r *entity.Resource) error
	Delete(ctx context.Context, id uuid.UUID, kind string, scope entity.Scope) error
	DeleteByWorkspace(ctx context.Context, wid uuid.UUID) error
	ListAll(ctx context.Context) ([]*entity.Resource, error)
	DeleteAll(ctx context.Context) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
