package entity

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type ScopeKind int

const (
	ScopePersonal ScopeKind = iota
	ScopeWorkspace
)

// Scope is the ownership boundary of a record: exactly one of a personal
// account or a shared workspace. The zero value is an invalid scope.
type Scope struct {
	Kind        ScopeKind
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
}

func PersonalScope(uid uuid.UUID) Scope {
	return Scope{Kind: ScopePersonal, UserID: uid}
}

func WorkspaceScope(wid uuid.UUID) Scope {
	return Scope{Kind: ScopeWorkspace, WorkspaceID: wid}
}

// OwnerColumns splits the scope into the nullable (user_id, workspace_id)
// pair persisted in the database.
func (s Scope) OwnerColumns() (userID, workspaceID any) {
	if s.Kind == ScopeWorkspace {
		return nil, s.WorkspaceID
	}
	return s.UserID, nil
}

type scopeColumns struct {
	UserID      *uuid.UUID `json:"user_id"`
	WorkspaceID *uuid.UUID `json:"workspace_id"`
}

// MarshalJSON emits the same nullable owner pair the database stores, so
// backup snapshots round-trip the scope.
func (s Scope) MarshalJSON() ([]byte, error) {
	var cols scopeColumns
	if s.Kind == ScopeWorkspace {
		cols.WorkspaceID = &s.WorkspaceID
	} else {
		cols.UserID = &s.UserID
	}
	return sonic.Marshal(cols)
}

func (s *Scope) UnmarshalJSON(data []byte) error {
	var cols scopeColumns
	if err := sonic.Unmarshal(data, &cols); err != nil {
		return err
	}
	*s = ScopeFromColumns(cols.UserID, cols.WorkspaceID)
	return nil
}

// ScopeFromColumns rebuilds a scope from the nullable columns read back.
func ScopeFromColumns(userID, workspaceID *uuid.UUID) Scope {
	if workspaceID != nil {
		return WorkspaceScope(*workspaceID)
	}
	if userID != nil {
		return PersonalScope(*userID)
	}
	return Scope{}
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEditor || r == RoleViewer
}

// CanWrite reports whether the role is allowed to mutate scoped records.
// Viewers are read-only.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleEditor
}
