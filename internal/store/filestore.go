package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/1282saa/work-con/internal/models"
	"github.com/1282saa/work-con/internal/utils"
)

// FileStore keeps the whole status mapping in memory and rewrites it to a
// single JSON file on every mutation. The file is the entire persistence
// layer: load failures at startup are logged and the store starts empty,
// trading durability for availability.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]models.StatusEntry
	logger  *utils.Logger
}

// NewFileStore loads path if it exists and returns a ready store. A missing
// or unreadable file is not an error.
func NewFileStore(path string, logger *utils.Logger) *FileStore {
	s := &FileStore{
		path:    path,
		entries: make(map[string]models.StatusEntry),
		logger:  logger,
	}
	s.load()
	return s
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.LogError("Failed to read status file %s: %v", s.path, err)
		}
		return
	}

	entries := make(map[string]models.StatusEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.LogError("Failed to parse status file %s, starting empty: %v", s.path, err)
		return
	}

	s.entries = entries
	s.logger.LogInfo("Loaded status data for %d articles from %s", len(entries), s.path)
}

func (s *FileStore) Get(id string) (models.StatusEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	return entry, ok
}

func (s *FileStore) Ensure(id string) models.StatusEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[id]; ok {
		return entry
	}

	entry := models.StatusEntry{Status: models.StatusNotStarted}
	s.entries[id] = entry
	return entry
}

func (s *FileStore) SetStatus(id, status string) (models.StatusEntry, error) {
	if !models.ValidStatus(status) {
		return models.StatusEntry{}, models.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry := s.entries[id]
	entry.Status = status
	entry.UpdatedAt = &now
	s.entries[id] = entry

	if err := s.saveLocked(); err != nil {
		s.logger.LogError("Failed to persist status store: %v", err)
	}

	return entry, nil
}

func (s *FileStore) SetGeneratedContent(id, content string) (models.StatusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[id]
	if !ok {
		entry = models.StatusEntry{Status: models.StatusNotStarted}
	}
	entry.AIContent = content
	entry.AIGeneratedAt = &now
	s.entries[id] = entry

	if err := s.saveLocked(); err != nil {
		s.logger.LogError("Failed to persist status store: %v", err)
	}

	return entry, nil
}

func (s *FileStore) Summary() models.StatusSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := models.StatusSummary{Total: len(s.entries)}
	for _, entry := range s.entries {
		switch entry.Status {
		case models.StatusInProgress:
			summary.InProgress++
		case models.StatusDone:
			summary.Done++
		default:
			summary.NotStarted++
		}
	}
	return summary
}

func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// saveLocked rewrites the whole mapping; callers must hold s.mu. The file is
// pretty-printed with HTML escaping off so Korean text stays readable.
func (s *FileStore) saveLocked() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create status file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.entries); err != nil {
		return fmt.Errorf("failed to encode status data: %w", err)
	}

	return nil
}
