package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrWorkspaceNotFound = errors.New("workspace doesn't exist")
	ErrForbidden         = errors.New("insufficient role for this operation")

	ErrEntryNotFound  = errors.New("daily entry doesn't exist")
	ErrTaskNotFound   = errors.New("task doesn't exist in this entry")
	ErrDuplicateEntry = errors.New("daily entry already exists for this date")
	ErrDuplicateTask  = errors.New("task with same title and type already exists for today")
	ErrWriteConflict  = errors.New("concurrent write conflict on daily entry")

	ErrTaskTypeExists   = errors.New("task type with such name already exists in this scope")
	ErrTaskTypeNotFound = errors.New("task type doesn't exist")

	ErrResourceNotFound = errors.New("resource doesn't exist")
	ErrResourceExists   = errors.New("resource with such name already exists in this scope")
	ErrUnknownKind      = errors.New("unknown resource kind")

	ErrValidation = errors.New("validation failed")
)
