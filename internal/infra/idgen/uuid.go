// Package idgen provides task ID generation.
package idgen

import (
	"github.com/google/uuid"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Ensure UUID implements domain.IDGenerator.
var _ domain.IDGenerator = UUID{}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}
