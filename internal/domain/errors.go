package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify failures with errors.Is against these.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrRepositoryFailure = errors.New("repository failure")
)

// Domain errors.
var (
	ErrTaskNotFound      = fmt.Errorf("%w: task not found", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmptyTitle        = fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	ErrEmptyDescription  = fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
	ErrPriorityRequired  = fmt.Errorf("%w: priority is required", ErrInvalidInput)
	ErrInvalidPriority   = fmt.Errorf("%w: invalid priority", ErrInvalidInput)
	ErrStatusRequired    = fmt.Errorf("%w: status is required", ErrInvalidInput)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status", ErrInvalidInput)
	ErrAssigneesRequired = fmt.Errorf("%w: assignedTo is required", ErrInvalidInput)
	ErrAssigneesNotList  = fmt.Errorf("%w: assignedTo should be an array", ErrInvalidInput)
	ErrInvalidChecklist  = fmt.Errorf("%w: invalid checklist format", ErrInvalidInput)
	ErrInvalidScope      = fmt.Errorf("%w: invalid summary scope", ErrInvalidInput)
	ErrAdminOnly         = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrNotVisible        = fmt.Errorf("%w: not authorized to view this task", ErrForbidden)
	ErrNotAssigned       = fmt.Errorf("%w: not authorized to update this task", ErrForbidden)
	ErrNotInitialized    = errors.New("taskdeck not initialized (run 'taskdeck init' first)")
	ErrConfigExists      = errors.New("config file already exists")
	ErrUnknownStore      = errors.New("unknown store type")
)
