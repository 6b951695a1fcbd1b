package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/csg4786/progress-tracker/internal/error_values"
	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/pkg/entity"
)

// DailyService owns the upsert-by-date invariant and every task-list
// mutation within an entry.
type DailyService struct {
	repo      repository.DailiesRepositoryI
	typesRepo repository.TaskTypesRepositoryI
	access    AccessServiceI
}

func NewDailyService(dailiesRepo repository.DailiesRepositoryI, taskTypesRepo repository.TaskTypesRepositoryI, access AccessServiceI) *DailyService {
	if dailiesRepo == nil || taskTypesRepo == nil || access == nil {
		log.Fatal("provided nil dependency to DailyService")
	}
	return &DailyService{
		repo:      dailiesRepo,
		typesRepo: taskTypesRepo,
		access:    access,
	}
}

var dateOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDate reduces any accepted date input (YYYY-MM-DD literal or an
// RFC3339 timestamp) to UTC midnight of its calendar day. Two inputs on the
// same UTC day always normalize to the same instant, regardless of the
// caller's timezone offset.
func NormalizeDate(input string) (time.Time, error) {
	if dateOnlyRe.MatchString(input) {
		d, err := time.ParseInLocation("2006-01-02", input, time.UTC)
		if err != nil {
			return time.Time{}, errorvalues.ErrValidation
		}
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return time.Time{}, errorvalues.ErrValidation
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Today returns the current UTC day at midnight.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (ds *DailyService) UpsertForDate(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, req *UpsertDailyRequest) (*entity.DailyEntry, error) {
	if err := validate.Struct(*req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return nil, joined
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	scope, err := ds.access.ResolveScope(ctx, principal, workspaceID, true)
	if err != nil {
		return nil, err
	}
	date, err := NormalizeDate(req.Date)
	if err != nil {
		return nil, err
	}
	entry, err := ds.upsert(ctx, scope, date, req)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDuplicateEntry) {
			// lost the insert race; the winner's row exists now, merge into it
			entry, err = ds.upsert(ctx, scope, date, req)
			if err != nil {
				if errors.Is(err, errorvalues.ErrDuplicateEntry) {
					return nil, errorvalues.ErrWriteConflict
				}
				return nil, err
			}
			return entry, nil
		}
		return nil, err
	}
	return entry, nil
}

func (ds *DailyService) upsert(ctx context.Context, scope entity.Scope, date time.Time, req *UpsertDailyRequest) (*entity.DailyEntry, error) {
	existing, err := ds.repo.GetByScopeAndDate(ctx, scope, date)
	if err != nil && !errors.Is(err, errorvalues.ErrEntryNotFound) {
		return nil, errors.New("dailies repository error: " + err.Error())
	}
	if existing == nil {
		existing = &entity.DailyEntry{
			Scope:       scope,
			Date:        date,
			Tasks:       []entity.DailyTask{},
			EnergyLevel: 3,
		}
		if err = ds.applyPatch(ctx, existing, req); err != nil {
			return nil, err
		}
		existing.RecalculateScore()
		id, err := ds.repo.Create(ctx, existing)
		if err != nil {
			if errors.Is(err, errorvalues.ErrDuplicateEntry) {
				return nil, err
			}
			return nil, errors.New("dailies repository error: " + err.Error())
		}
		return ds.repo.GetByID(ctx, id)
	}
	if err = ds.applyPatch(ctx, existing, req); err != nil {
		return nil, err
	}
	existing.RecalculateScore()
	if err = ds.repo.Update(ctx, existing); err != nil {
		return nil, errors.New("dailies repository error: " + err.Error())
	}
	return existing, nil
}

// applyPatch merges provided fields over the entry; nil fields stay
// untouched. Tasks are replaced wholesale only when the patch carries them.
func (ds *DailyService) applyPatch(ctx context.Context, entry *entity.DailyEntry, req *UpsertDailyRequest) error {
	if req.DSACompleted != nil {
		entry.DSACompleted = *req.DSACompleted
	}
	if req.BackendLearning != nil {
		entry.BackendLearning = *req.BackendLearning
	}
	if req.SystemDesign != nil {
		entry.SystemDesign = *req.SystemDesign
	}
	if req.ProjectWork != nil {
		entry.ProjectWork = *req.ProjectWork
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.TimeSpentHours != nil {
		entry.TimeSpentHours = *req.TimeSpentHours
	}
	if req.EnergyLevel != nil {
		entry.EnergyLevel = *req.EnergyLevel
	}
	if req.Tasks != nil {
		tasks := make([]entity.DailyTask, 0, len(*req.Tasks))
		for _, in := range *req.Tasks {
			task, err := ds.buildTask(ctx, entry.Scope, &in)
			if err != nil {
				return err
			}
			task.Completed = in.Completed
			tasks = append(tasks, *task)
		}
		entry.Tasks = tasks
	}
	return nil
}

func (ds *DailyService) buildTask(ctx context.Context, scope entity.Scope, in *TaskInput) (*entity.DailyTask, error) {
	if in.Title == "" || in.Type == "" {
		return nil, errorvalues.ErrValidation
	}
	if err := ds.validateCustomFields(ctx, scope, in.Type, in.CustomFields); err != nil {
		return nil, err
	}
	id := uuid.New()
	if in.ID != nil {
		id = *in.ID
	}
	fields := in.CustomFields
	if fields == nil {
		fields = map[string]entity.FieldValue{}
	}
	return &entity.DailyTask{
		ID:           id,
		Title:        in.Title,
		Type:         in.Type,
		Completed:    false,
		Assignee:     in.Assignee,
		CustomFields: fields,
	}, nil
}

// validateCustomFields checks values against the scope's task type schema.
// Task types are referenced by free-text name: an unknown name means no
// schema, so any fields pass through.
func (ds *DailyService) validateCustomFields(ctx context.Context, scope entity.Scope, typeName string, fields map[string]entity.FieldValue) error {
	if len(fields) == 0 {
		return nil
	}
	tt, err := ds.typesRepo.GetByName(ctx, scope, typeName)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskTypeNotFound) {
			return nil
		}
		return errors.New("task types repository error: " + err.Error())
	}
	defs := make(map[string]entity.FieldKind, len(tt.Fields))
	for _, def := range tt.Fields {
		defs[def.Name] = def.Kind
	}
	for name, value := range fields {
		kind, ok := defs[name]
		if !ok {
			return errorvalues.ErrValidation
		}
		if !value.Matches(kind) {
			return errorvalues.ErrValidation
		}
	}
	return nil
}

func (ds *DailyService) List(ctx context.Context, principal uuid.UUID, workspaceID *uuid.UUID, opts ListDailyOpts) ([]*entity.DailyEntry, int, error) {
	scope, err := ds.access.ResolveScope(ctx, principal, workspaceID, false)
	if err != nil {
		return nil, 0, err
	}
	var from, to *time.Time
	if opts.Date != "" {
		d, err := NormalizeDate(opts.Date)
		if err != nil {
			return nil, 0, err
		}
		from, to = &d, &d
	} else {
		if opts.StartDate != "" {
			d, err := NormalizeDate(opts.StartDate)
			if err != nil {
				return nil, 0, err
			}
			from = &d
		}
		if opts.EndDate != "" {
			d, err := NormalizeDate(opts.EndDate)
			if err != nil {
				return nil, 0, err
			}
			to = &d
		}
	}
	entries, err := ds.repo.ListByScope(ctx, scope, from, to, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, errors.New("dailies repository error: " + err.Error())
	}
	total, err := ds.repo.CountByScope(ctx, scope, from, to)
	if err != nil {
		return nil, 0, errors.New("dailies repository error: " + err.Error())
	}
	return entries, total, nil
}

// loadForAccess fetches an entry and checks the principal against its
// scope. Denials surface as not-found so entry existence can't be probed.
func (ds *DailyService) loadForAccess(ctx context.Context, principal, entryID uuid.UUID, write bool) (*entity.DailyEntry, error) {
	entry, err := ds.repo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return nil, err
		}
		return nil, errors.New("dailies repository error: " + err.Error())
	}
	if err = ds.access.CheckScopeAccess(ctx, principal, entry.Scope, write); err != nil {
		if errors.Is(err, errorvalues.ErrWorkspaceNotFound) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (ds *DailyService) Get(ctx context.Context, principal, entryID uuid.UUID) (*entity.DailyEntry, error) {
	return ds.loadForAccess(ctx, principal, entryID, false)
}

func (ds *DailyService) Delete(ctx context.Context, principal, entryID uuid.UUID) error {
	entry, err := ds.loadForAccess(ctx, principal, entryID, true)
	if err != nil {
		return err
	}
	if err = ds.repo.Delete(ctx, entryID, entry.Scope); err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return err
		}
		return errors.New("dailies repository error: " + err.Error())
	}
	return nil
}

func (ds *DailyService) AddTask(ctx context.Context, principal, entryID uuid.UUID, task *TaskInput) (*entity.DailyEntry, error) {
	entry, err := ds.loadForAccess(ctx, principal, entryID, true)
	if err != nil {
		return nil, err
	}
	built, err := ds.buildTask(ctx, entry.Scope, task)
	if err != nil {
		return nil, err
	}
	entry.Tasks = append(entry.Tasks, *built)
	return ds.saveEntry(ctx, entry)
}

func (ds *DailyService) UpdateTask(ctx context.Context, principal, entryID, taskID uuid.UUID, req *UpdateTaskRequest) (*entity.DailyEntry, error) {
	entry, err := ds.loadForAccess(ctx, principal, entryID, true)
	if err != nil {
		return nil, err
	}
	task := entry.TaskByID(taskID)
	if task == nil {
		return nil, errorvalues.ErrTaskNotFound
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Type != nil {
		task.Type = *req.Type
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Assignee != nil {
		task.Assignee = req.Assignee
	}
	if req.CustomFields != nil {
		if err = ds.validateCustomFields(ctx, entry.Scope, task.Type, req.CustomFields); err != nil {
			return nil, err
		}
		task.CustomFields = req.CustomFields
	}
	return ds.saveEntry(ctx, entry)
}

func (ds *DailyService) DeleteTask(ctx context.Context, principal, entryID, taskID uuid.UUID) (*entity.DailyEntry, error) {
	entry, err := ds.loadForAccess(ctx, principal, entryID, true)
	if err != nil {
		return nil, err
	}
	kept := entry.Tasks[:0]
	found := false
	for _, t := range entry.Tasks {
		if t.ID == taskID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return nil, errorvalues.ErrTaskNotFound
	}
	entry.Tasks = kept
	return ds.saveEntry(ctx, entry)
}

func (ds *DailyService) ToggleTask(ctx context.Context, principal, entryID, taskID uuid.UUID) (*entity.DailyEntry, error) {
	entry, err := ds.loadForAccess(ctx, principal, entryID, true)
	if err != nil {
		return nil, err
	}
	task := entry.TaskByID(taskID)
	if task == nil {
		return nil, errorvalues.ErrTaskNotFound
	}
	task.Completed = !task.Completed
	return ds.saveEntry(ctx, entry)
}

// ReorderTasks places tasks named in orderedIDs first, in the given order,
// then appends every unmentioned task in its original relative order, so an
// incomplete payload can't silently drop tasks. Unknown ids are ignored.
func (ds *DailyService) ReorderTasks(ctx context.Context, principal, entryID uuid.UUID, orderedIDs []uuid.UUID) (*entity.DailyEntry, error) {
	entry, err := ds.loadForAccess(ctx, principal, entryID, true)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]entity.DailyTask, len(entry.Tasks))
	for _, t := range entry.Tasks {
		byID[t.ID] = t
	}
	mentioned := make(map[uuid.UUID]bool, len(orderedIDs))
	reordered := make([]entity.DailyTask, 0, len(entry.Tasks))
	for _, id := range orderedIDs {
		if t, ok := byID[id]; ok && !mentioned[id] {
			reordered = append(reordered, t)
			mentioned[id] = true
		}
	}
	for _, t := range entry.Tasks {
		if !mentioned[t.ID] {
			reordered = append(reordered, t)
		}
	}
	entry.Tasks = reordered
	return ds.saveEntry(ctx, entry)
}

func (ds *DailyService) CopyTaskToToday(ctx context.Context, principal, sourceEntryID, taskID uuid.UUID) (*entity.DailyEntry, error) {
	source, err := ds.loadForAccess(ctx, principal, sourceEntryID, false)
	if err != nil {
		return nil, err
	}
	task := source.TaskByID(taskID)
	if task == nil {
		return nil, errorvalues.ErrTaskNotFound
	}
	// target is today's entry in the same scope as the source
	if err = ds.access.CheckScopeAccess(ctx, principal, source.Scope, true); err != nil {
		if errors.Is(err, errorvalues.ErrWorkspaceNotFound) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, err
	}
	today, err := ds.findOrCreateToday(ctx, source.Scope)
	if err != nil {
		return nil, err
	}
	for _, t := range today.Tasks {
		if t.Title == task.Title && t.Type == task.Type {
			return nil, errorvalues.ErrDuplicateTask
		}
	}
	copied := entity.DailyTask{
		ID:           uuid.New(),
		Title:        task.Title,
		Type:         task.Type,
		Completed:    false,
		CustomFields: cloneFields(task.CustomFields),
	}
	today.Tasks = append(today.Tasks, copied)
	return ds.saveEntry(ctx, today)
}

func (ds *DailyService) findOrCreateToday(ctx context.Context, scope entity.Scope) (*entity.DailyEntry, error) {
	date := Today()
	entry, err := ds.repo.GetByScopeAndDate(ctx, scope, date)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, errorvalues.ErrEntryNotFound) {
		return nil, errors.New("dailies repository error: " + err.Error())
	}
	fresh := &entity.DailyEntry{
		Scope:       scope,
		Date:        date,
		Tasks:       []entity.DailyTask{},
		EnergyLevel: 3,
	}
	fresh.RecalculateScore()
	id, err := ds.repo.Create(ctx, fresh)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDuplicateEntry) {
			// another writer created today's entry first, use theirs
			return ds.repo.GetByScopeAndDate(ctx, scope, date)
		}
		return nil, errors.New("dailies repository error: " + err.Error())
	}
	return ds.repo.GetByID(ctx, id)
}

func (ds *DailyService) saveEntry(ctx context.Context, entry *entity.DailyEntry) (*entity.DailyEntry, error) {
	entry.RecalculateScore()
	if err := ds.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return nil, err
		}
		return nil, errors.New("dailies repository error: " + err.Error())
	}
	return entry, nil
}

func cloneFields(fields map[string]entity.FieldValue) map[string]entity.FieldValue {
	cloned := make(map[string]entity.FieldValue, len(fields))
	for k, v := range fields {
		cloned[k] = v
	}
	return cloned
}
