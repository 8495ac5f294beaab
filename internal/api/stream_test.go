package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1282saa/work-con/internal/models"
)

// readFrames collects SSE data frames from the live stream until count
// events have arrived or the deadline passes.
func readFrames(t *testing.T, resp *http.Response, count int) []models.UpdateEvent {
	t.Helper()

	var collected []models.UpdateEvent
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var event models.UpdateEvent
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		collected = append(collected, event)
		if len(collected) == count {
			return collected
		}
	}

	t.Fatalf("stream ended after %d of %d events", len(collected), count)
	return nil
}

func TestStreamDeliversBacklogAndLiveEvents(t *testing.T) {
	env := newTestEnv(t, &stubNews{}, nil)

	// One event appended before the client connects: backlog replay.
	env.events.Append(models.EventStatusChange, map[string]any{"news_id": "before", "status": models.StatusDone})

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// Appended while the stream is open: live delivery on the next poll.
	env.events.Append(models.EventContentGenerated, map[string]any{"news_id": "after", "has_ai_content": true})

	frames := readFrames(t, resp, 2)
	assert.Equal(t, models.EventStatusChange, frames[0].Type)
	assert.Equal(t, "before", frames[0].Data["news_id"])
	assert.Equal(t, models.EventContentGenerated, frames[1].Type)
	assert.Equal(t, "after", frames[1].Data["news_id"])
}

func TestStreamPreservesAppendOrder(t *testing.T) {
	env := newTestEnv(t, &stubNews{}, nil)

	statuses := []string{models.StatusInProgress, models.StatusDone, models.StatusNotStarted}
	for _, status := range statuses {
		env.events.Append(models.EventStatusChange, map[string]any{"news_id": "a", "status": status})
	}

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	frames := readFrames(t, resp, len(statuses))
	for i, status := range statuses {
		assert.Equal(t, status, frames[i].Data["status"])
	}
}

func TestStreamEndsOnClientDisconnect(t *testing.T) {
	env := newTestEnv(t, &stubNews{}, nil)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	// Dropping the connection is the only way a stream terminates; the
	// handler must notice and return rather than leak forever.
	cancel()
	resp.Body.Close()

	// Give the poll loop a few ticks to observe the disconnect.
	time.Sleep(100 * time.Millisecond)
}
