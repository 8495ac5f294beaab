package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Workflow statuses for a single news article.
const (
	StatusNotStarted = "NotStarted"
	StatusInProgress = "InProgress"
	StatusDone       = "Done"
)

var (
	ErrInvalidStatus        = errors.New("status must be one of NotStarted, InProgress, Done")
	ErrMissingField         = errors.New("required field is missing")
	ErrGeneratorUnavailable = errors.New("content generator is not configured")
)

// ValidStatus reports whether s is one of the recognized workflow statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// StatusEntry is the per-article workflow record persisted in the status file.
type StatusEntry struct {
	Status        string     `json:"status"`
	AIContent     string     `json:"ai_content,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	AIGeneratedAt *time.Time `json:"ai_generated_at,omitempty"`
}

// StatusSummary holds the per-status counts computed by a full store scan.
type StatusSummary struct {
	NotStarted int `json:"NotStarted"`
	InProgress int `json:"InProgress"`
	Done       int `json:"Done"`
	Total      int `json:"Total"`
}

// Event types appended to the update log.
const (
	EventStatusChange     = "status_change"
	EventContentGenerated = "content_generated"
)

// UpdateEvent is one immutable entry in the live-update log.
type UpdateEvent struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// StringOrList accepts either a bare JSON string or a list of strings,
// keeping the first element as the canonical value. The news API returns
// category sometimes as a string and sometimes as a list.
type StringOrList string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringOrList(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*s = StringOrList(list[0])
		} else {
			*s = ""
		}
		return nil
	}

	// null or an unexpected shape collapses to empty rather than failing
	// the whole document parse
	*s = ""
	return nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// Article is one news record normalized from the upstream search response
// and decorated with the local workflow fields before being returned to a
// client. It is never persisted by this service.
type Article struct {
	NewsID           string       `json:"news_id"`
	Title            string       `json:"title"`
	Content          string       `json:"content"`
	PublishedAt      string       `json:"published_at"`
	EnvelopedAt      string       `json:"enveloped_at,omitempty"`
	Dateline         string       `json:"dateline,omitempty"`
	Provider         string       `json:"provider,omitempty"`
	Byline           string       `json:"byline,omitempty"`
	ProviderLinkPage string       `json:"provider_link_page,omitempty"`
	Hilight          string       `json:"hilight,omitempty"`
	Category         StringOrList `json:"category,omitempty"`

	// Decoration fields, filled from the status store per response.
	Status    string `json:"status"`
	AIContent string `json:"ai_content,omitempty"`
}
