package service

import (
	"math"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
)

// resourceKind is the capability contract a generic record kind implements:
// its wire name, which payload fields are mandatory, and any write-time
// normalization. The resource service operates purely against this
// interface and never inspects concrete kinds.
type resourceKind interface {
	Kind() string
	Validate(payload map[string]any) error
	// Normalize may rewrite derived payload fields before persisting
	Normalize(payload map[string]any)
}

type baseKind struct {
	name     string
	required []string
}

func (k baseKind) Kind() string { return k.name }

func (k baseKind) Validate(payload map[string]any) error {
	for _, field := range k.required {
		v, ok := payload[field]
		if !ok || v == nil {
			return errorvalues.ErrValidation
		}
		if s, isStr := v.(string); isStr && s == "" {
			return errorvalues.ErrValidation
		}
	}
	return nil
}

func (k baseKind) Normalize(payload map[string]any) {}

// weeklyKind derives the weekly score with the weighted counter formula,
// clamped to 0..100.
type weeklyKind struct{ baseKind }

func (k weeklyKind) Normalize(payload map[string]any) {
	num := func(field string) float64 {
		if v, ok := payload[field].(float64); ok {
			return v
		}
		return 0
	}
	score := int(math.Round((num("dsa_total")*0.4 + num("backend_topics_completed")*0.2 +
		num("system_design_topics")*0.2 + num("project_commits")*0.2) / 10))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	payload["weekly_score"] = score
}

// boardTaskKind defaults new kanban cards into the backlog column.
type boardTaskKind struct{ baseKind }

func (k boardTaskKind) Normalize(payload map[string]any) {
	if _, ok := payload["column"]; !ok {
		payload["column"] = "Backlog"
	}
	if _, ok := payload["priority"]; !ok {
		payload["priority"] = "Medium"
	}
}

// sectionKind keeps the numeric ordering clients sort sections by.
type sectionKind struct{ baseKind }

func (k sectionKind) Normalize(payload map[string]any) {
	switch payload["order"].(type) {
	case float64, int:
	default:
		payload["order"] = float64(0)
	}
}

// jobKind defaults the application stage.
type jobKind struct{ baseKind }

func (k jobKind) Normalize(payload map[string]any) {
	if _, ok := payload["stage"]; !ok {
		payload["stage"] = "applied"
	}
}

var resourceKinds = func() map[string]resourceKind {
	kinds := []resourceKind{
		weeklyKind{baseKind{name: "weekly", required: []string{"week_start", "week_end"}}},
		baseKind{name: "monthly", required: []string{"month"}},
		baseKind{name: "backend-topic", required: []string{"topic"}},
		baseKind{name: "system-design", required: []string{"concept"}},
		boardTaskKind{baseKind{name: "board-task", required: []string{"title"}}},
		jobKind{baseKind{name: "job", required: []string{"company"}}},
		sectionKind{baseKind{name: "section", required: []string{"name"}}},
	}
	m := make(map[string]resourceKind, len(kinds))
	for _, k := range kinds {
		m[k.Kind()] = k
	}
	return m
}()
