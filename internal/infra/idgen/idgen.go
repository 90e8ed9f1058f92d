// Package idgen generates record identifiers.
package idgen

import (
	"github.com/google/uuid"

	"github.com/runoshun/taskdag/internal/domain"
)

// Ensure UUID implements domain.IDGenerator.
var _ domain.IDGenerator = UUID{}

// UUID produces random (version 4) UUID strings.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}
