package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type WorkspaceMember struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// Workspace is a shared scope. The owner is never duplicated into Members.
type Workspace struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	Members     []WorkspaceMember `json:"members"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// RoleOf resolves the principal's role in the workspace; ok is false when
// the principal is neither the owner nor a member.
func (w *Workspace) RoleOf(uid uuid.UUID) (Role, bool) {
	if w.OwnerID == uid {
		return RoleOwner, true
	}
	for _, m := range w.Members {
		if m.UserID == uid {
			return m.Role, true
		}
	}
	return "", false
}

type DailyTask struct {
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	Type         string                `json:"type"`
	Completed    bool                  `json:"completed"`
	Assignee     *uuid.UUID            `json:"assignee,omitempty"`
	CustomFields map[string]FieldValue `json:"custom_fields,omitempty"`
}

// DailyEntry is one calendar day's log for a scope. Date is always a
// date-only value at UTC midnight; at most one entry exists per
// (scope, date) pair.
type DailyEntry struct {
	ID              uuid.UUID   `json:"id"`
	Scope           Scope       `json:"scope"`
	Date            time.Time   `json:"date"`
	Tasks           []DailyTask `json:"tasks"`
	DSACompleted    int         `json:"dsa_completed"`
	BackendLearning int         `json:"backend_learning"`
	SystemDesign    int         `json:"system_design"`
	ProjectWork     int         `json:"project_work"`
	Notes           string      `json:"notes"`
	TimeSpentHours  float64     `json:"time_spent_hours"`
	EnergyLevel     int         `json:"energy_level"`
	Score           int         `json:"score"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// RecalculateScore applies the dual-path scoring rule. With tasks present
// the score is the completion ratio scaled to 0..5. Without tasks the
// legacy counter formula is kept bit-for-bit, including the zero energy
// level falling back to 3.
func (d *DailyEntry) RecalculateScore() {
	if len(d.Tasks) > 0 {
		completed := 0
		for _, t := range d.Tasks {
			if t.Completed {
				completed++
			}
		}
		d.Score = int(math.Round(float64(completed) / float64(len(d.Tasks)) * 5))
		return
	}
	compAvg := float64(d.DSACompleted+d.BackendLearning+d.SystemDesign+d.ProjectWork) / 4
	energy := float64(d.EnergyLevel)
	if energy == 0 {
		energy = 3
	}
	score := int(math.Round((compAvg/(compAvg+1)*4 + energy) / 2))
	if score > 5 {
		score = 5
	}
	if score < 0 {
		score = 0
	}
	d.Score = score
}

// TaskByID returns a pointer into Tasks, or nil.
func (d *DailyEntry) TaskByID(id uuid.UUID) *DailyTask {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// TaskType is a user-defined task category with a custom field schema.
// Name is unique within its scope.
type TaskType struct {
	ID        uuid.UUID        `json:"id"`
	Scope     Scope            `json:"scope"`
	Name      string           `json:"name"`
	Color     string           `json:"color"`
	Fields    []CustomFieldDef `json:"custom_fields"`
	CreatedAt time.Time        `json:"created_at"`
}

// Resource is a generic scoped record (weekly/monthly summaries, topics,
// board tasks, jobs, sections). The payload shape is owned by its kind.
type Resource struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	Scope     Scope          `json:"scope"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}
