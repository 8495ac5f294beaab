package store

import (
	"github.com/1282saa/work-con/internal/models"
)

// Store tracks the workflow status of every article identifier the service
// has ever seen. Implementations must be safe for concurrent use by the
// request handlers.
type Store interface {
	// Get returns the entry for id, or ok=false when the id has never
	// been seen.
	Get(id string) (models.StatusEntry, bool)

	// Ensure returns the existing entry for id or lazily creates a
	// default NotStarted one. It never overwrites an existing entry and
	// does not persist by itself; callers batch a Save after decorating
	// a whole response.
	Ensure(id string) models.StatusEntry

	// SetStatus validates and applies a workflow status change, stamps
	// UpdatedAt and persists the whole store synchronously.
	SetStatus(id, status string) (models.StatusEntry, error)

	// SetGeneratedContent records AI-generated content for id, stamps
	// AIGeneratedAt and persists synchronously.
	SetGeneratedContent(id, content string) (models.StatusEntry, error)

	// Summary recounts entries per status with a full scan.
	Summary() models.StatusSummary

	// Save rewrites the whole store to its backing file.
	Save() error

	// Len returns the number of tracked identifiers.
	Len() int
}
