package events

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1282saa/work-con/internal/models"
)

func TestLogAppendAndSince(t *testing.T) {
	log := NewLog(100)

	log.Append(models.EventStatusChange, map[string]any{"news_id": "a", "status": models.StatusDone})
	log.Append(models.EventContentGenerated, map[string]any{"news_id": "b", "has_ai_content": true})

	events, cursor := log.Since(0)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), cursor)
	assert.Equal(t, models.EventStatusChange, events[0].Type)
	assert.Equal(t, models.EventContentGenerated, events[1].Type)
	assert.Equal(t, "a", events[0].Data["news_id"])
	assert.False(t, events[0].Timestamp.IsZero())

	// Nothing new past the returned cursor.
	events, cursor = log.Since(cursor)
	assert.Empty(t, events)
	assert.Equal(t, uint64(2), cursor)
}

func TestLogCapacityEviction(t *testing.T) {
	log := NewLog(100)

	for i := 0; i < 101; i++ {
		log.Append(models.EventStatusChange, map[string]any{"news_id": strconv.Itoa(i)})
	}

	assert.Equal(t, 100, log.Len())
	assert.Equal(t, uint64(101), log.Cursor())

	// A reader from before the eviction point gets the retained 100
	// events, not an error; the oldest entry was evicted.
	events, cursor := log.Since(0)
	require.Len(t, events, 100)
	assert.Equal(t, uint64(101), cursor)
	assert.Equal(t, "1", events[0].Data["news_id"])
	assert.Equal(t, "100", events[99].Data["news_id"])
}

func TestLogSincePartialDrain(t *testing.T) {
	log := NewLog(100)

	for i := 0; i < 5; i++ {
		log.Append(models.EventStatusChange, map[string]any{"news_id": strconv.Itoa(i)})
	}

	events, cursor := log.Since(3)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(5), cursor)
	assert.Equal(t, "3", events[0].Data["news_id"])
	assert.Equal(t, "4", events[1].Data["news_id"])
}

func TestLogOrderingPreserved(t *testing.T) {
	log := NewLog(100)

	for i := 0; i < 50; i++ {
		log.Append(models.EventStatusChange, map[string]any{"news_id": strconv.Itoa(i)})
	}

	events, _ := log.Since(0)
	require.Len(t, events, 50)
	for i, event := range events {
		assert.Equal(t, strconv.Itoa(i), event.Data["news_id"])
	}
}

func TestLogZeroCapacityFallsBack(t *testing.T) {
	log := NewLog(0)

	for i := 0; i < DefaultCapacity+10; i++ {
		log.Append(models.EventStatusChange, nil)
	}

	assert.Equal(t, DefaultCapacity, log.Len())
}
