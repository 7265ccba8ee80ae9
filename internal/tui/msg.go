package tui

import (
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
)

// MsgLoaded is sent when statistics have been loaded.
type MsgLoaded struct {
	Now       time.Time
	Workloads []domain.Workload // Only for the global scope
	Summary   domain.Summary
	Scope     domain.Scope
}

// MsgError is sent when loading fails.
type MsgError struct {
	Err error
}

// MsgTick triggers a periodic refresh.
type MsgTick struct{}
