package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/csg4786/progress-tracker/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	// Substring search over usernames, used by the workspace sharing dialog
	SearchUsers(ctx context.Context, q string) ([]*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

// AccessServiceI decides whether a principal may act on a scope and at what
// role. A workspace that doesn't exist and a workspace the principal has no
// membership in are indistinguishable to callers: both are not-found.
type AccessServiceI interface {
	// ResolveScope maps (principal, optional workspace) to a scope. With a
	// workspace id it also authorizes: any role for reads, owner/editor for
	// writes.
	ResolveScope(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, write bool) (entity.Scope, error)
	// Authorize resolves the principal's role in the workspace
	Authorize(ctx context.Context, principal, workspaceID uuid.UUID) (entity.Role, error)
	// RequireRole denies with ErrForbidden when the principal's role ranks
	// below minRole
	RequireRole(ctx context.Context, principal, workspaceID uuid.UUID, minRole entity.Role) error
	// CheckScopeAccess validates access to an already-loaded record's scope
	CheckScopeAccess(ctx context.Context, principal uuid.UUID, scope entity.Scope, write bool) error
}

type TaskInput struct {
	ID           *uuid.UUID                   `json:"id"`
	Title        string                       `json:"title" validate:"required"`
	Type         string                       `json:"type" validate:"required"`
	Completed    bool                         `json:"completed"`
	Assignee     *uuid.UUID                   `json:"assignee"`
	CustomFields map[string]entity.FieldValue `json:"custom_fields"`
}

// UpsertDailyRequest carries partial update semantics: nil fields are left
// untouched on an existing entry; the task list is replaced only when Tasks
// is present.
type UpsertDailyRequest struct {
	Date            string       `json:"date" validate:"required,entry_date"`
	Tasks           *[]TaskInput `json:"tasks"`
	DSACompleted    *int         `json:"dsa_completed" validate:"omitempty,min=0"`
	BackendLearning *int         `json:"backend_learning" validate:"omitempty,min=0"`
	SystemDesign    *int         `json:"system_design" validate:"omitempty,min=0"`
	ProjectWork     *int         `json:"project_work" validate:"omitempty,min=0"`
	Notes           *string      `json:"notes"`
	TimeSpentHours  *float64     `json:"time_spent_hours" validate:"omitempty,min=0"`
	EnergyLevel     *int         `json:"energy_level" validate:"omitempty,min=0,max=5"`
}

type UpdateTaskRequest struct {
	Title        *string                      `json:"title"`
	Type         *string                      `json:"type"`
	Completed    *bool                        `json:"completed"`
	Assignee     *uuid.UUID                   `json:"assignee"`
	CustomFields map[string]entity.FieldValue `json:"custom_fields"`
}

type ListDailyOpts struct {
	Date      string
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

type DailyServiceI interface {
	UpsertForDate(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, req *UpsertDailyRequest) (*entity.DailyEntry, error)
	List(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, opts ListDailyOpts) ([]*entity.DailyEntry, int, error)
	Get(ctx context.Context, principal, entryID uuid.UUID) (*entity.DailyEntry, error)
	Delete(ctx context.Context, principal, entryID uuid.UUID) error
	AddTask(ctx context.Context, principal, entryID uuid.UUID, task *TaskInput) (*entity.DailyEntry, error)
	UpdateTask(ctx context.Context, principal, entryID, taskID uuid.UUID, req *UpdateTaskRequest) (*entity.DailyEntry, error)
	DeleteTask(ctx context.Context, principal, entryID, taskID uuid.UUID) (*entity.DailyEntry, error)
	ToggleTask(ctx context.Context, principal, entryID, taskID uuid.UUID) (*entity.DailyEntry, error)
	ReorderTasks(ctx context.Context, principal, entryID uuid.UUID, orderedIDs []uuid.UUID) (*entity.DailyEntry, error)
	CopyTaskToToday(ctx context.Context, principal, sourceEntryID, taskID uuid.UUID) (*entity.DailyEntry, error)
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type WorkspaceServiceI interface {
	Create(ctx context.Context, principal uuid.UUID, req *CreateWorkspaceRequest) (*entity.Workspace, error)
	List(ctx context.Context, principal uuid.UUID) ([]*entity.Workspace, error)
	Get(ctx context.Context, principal, workspaceID uuid.UUID) (*entity.Workspace, error)
	Update(ctx context.Context, principal, workspaceID uuid.UUID, req *CreateWorkspaceRequest) (*entity.Workspace, error)
	// Delete is owner-only and cascades over all workspace-scoped records
	Delete(ctx context.Context, principal, workspaceID uuid.UUID) error
	// Share adds or re-roles a member; role "remove" unshares. Owner-only.
	Share(ctx context.Context, principal, workspaceID uuid.UUID, targetUserID string, role string) (*entity.Workspace, error)
}

type TaskTypeRequest struct {
	Name   string                  `json:"name" validate:"required,min=1,max=100"`
	Color  string                  `json:"color" validate:"omitempty,hexcolor"`
	Fields []entity.CustomFieldDef `json:"custom_fields"`
}

type CustomFieldRequest struct {
	Name  string `json:"name" validate:"required,alphanum_underscore"`
	Kind  string `json:"type" validate:"required,oneof=text number boolean date"`
	Label string `json:"label" validate:"required"`
}

type TaskTypeServiceI interface {
	Create(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, req *TaskTypeRequest) (*entity.TaskType, error)
	List(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID) ([]*entity.TaskType, error)
	Get(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID) (*entity.TaskType, error)
	Update(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID, req *TaskTypeRequest) (*entity.TaskType, error)
	Delete(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID) error
	AddField(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID, req *CustomFieldRequest) (*entity.TaskType, error)
	RemoveField(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, id uuid.UUID, fieldName string) (*entity.TaskType, error)
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type ResourceServiceI interface {
	Create(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, payload map[string]any) (*entity.Resource, error)
	List(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, pagination PaginationOpts) ([]*entity.Resource, int, error)
	Get(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, id uuid.UUID) (*entity.Resource, error)
	Update(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, id uuid.UUID, payload map[string]any) (*entity.Resource, error)
	Delete(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, kind string, id uuid.UUID) error
}

// Snapshot is the full-database backup payload. It deliberately skips user
// rows: password hashes never leave the database.
type Snapshot struct {
	Workspaces []*entity.Workspace  `json:"workspaces"`
	Dailies    []*entity.DailyEntry `json:"dailies"`
	TaskTypes  []*entity.TaskType   `json:"task_types"`
	Resources  []*entity.Resource   `json:"resources"`
}

type BackupServiceI interface {
	// ExportAll reads every collection without scope filtering
	ExportAll(ctx context.Context) (*Snapshot, error)
	// ImportAll replaces stored data with the snapshot unless keep is set
	ImportAll(ctx context.Context, snap *Snapshot, keepExisting bool) error
}
