package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1282saa/work-con/internal/assets"
	"github.com/1282saa/work-con/internal/events"
	"github.com/1282saa/work-con/internal/models"
	"github.com/1282saa/work-con/internal/store"
	"github.com/1282saa/work-con/internal/utils"
)

const (
	defaultNewsLimit = 1000
	maxNewsLimit     = 10000

	// Bucket for articles whose publish timestamp is missing or unparsable.
	unknownHourBucket = "unknown"
)

// NewsSearcher fetches articles for a query and a single-day date window.
type NewsSearcher interface {
	Search(ctx context.Context, query, from, until string, limit int) ([]models.Article, error)
}

// ContentGenerator produces promotional text for an article. A nil
// ContentGenerator means generation is disabled (no credential configured).
type ContentGenerator interface {
	GenerateInstagramContent(ctx context.Context, title, content, category string) (string, error)
	GenerateHashtags(ctx context.Context, title, category string) ([]string, error)
}

// Handler orchestrates the upstream clients, the status store and the event
// log behind the HTTP endpoints. One instance is constructed at startup and
// shared by every request worker.
type Handler struct {
	store        store.Store
	events       *events.Log
	news         NewsSearcher
	generator    ContentGenerator
	resolver     *assets.Resolver
	logger       *utils.Logger
	pollInterval time.Duration
}

func NewHandler(st store.Store, log *events.Log, news NewsSearcher, generator ContentGenerator, resolver *assets.Resolver, logger *utils.Logger, pollInterval time.Duration) *Handler {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Handler{
		store:        st,
		events:       log,
		news:         news,
		generator:    generator,
		resolver:     resolver,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

// searchParams resolves the shared query/date/limit parameters. The date
// defaults to today in the server's local time zone; the window upper bound
// is the exclusive next calendar day.
func searchParams(c *gin.Context) (query, from, until string, limit int, err error) {
	query = c.Query("query")

	limit, convErr := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNewsLimit)))
	if convErr != nil {
		limit = defaultNewsLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxNewsLimit {
		limit = maxNewsLimit
	}

	from = c.Query("date")
	if from == "" {
		from = time.Now().Format("2006-01-02")
	}

	start, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return "", "", "", 0, err
	}
	until = start.AddDate(0, 0, 1).Format("2006-01-02")

	return query, from, until, limit, nil
}

// decorate attaches the workflow status to every article, lazily creating
// store entries, then persists the store once for the whole batch. The save
// happens even when nothing changed; a harmless rewrite the frontend's
// timing expectations depend on.
func (h *Handler) decorate(articles []models.Article) {
	for i := range articles {
		entry := h.store.Ensure(articles[i].NewsID)
		articles[i].Status = entry.Status
		articles[i].AIContent = entry.AIContent
	}

	if err := h.store.Save(); err != nil {
		h.logger.LogError("Failed to persist status store after fetch: %v", err)
	}
}

// GetNews handles GET /api/news.
func (h *Handler) GetNews(c *gin.Context) {
	query, from, until, limit, err := searchParams(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	articles, err := h.news.Search(c.Request.Context(), query, from, until, limit)
	if err != nil {
		h.logger.LogError("News search failed: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}

	h.decorate(articles)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            articles,
		"total":           len(articles),
		"requested_limit": limit,
		"actual_count":    len(articles),
	})
}

// GetNewsByHours handles GET /api/news/hours, returning the same decorated
// articles grouped into hour-of-day buckets.
func (h *Handler) GetNewsByHours(c *gin.Context) {
	query, from, until, limit, err := searchParams(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	articles, err := h.news.Search(c.Request.Context(), query, from, until, limit)
	if err != nil {
		h.logger.LogError("News search failed: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.decorate(articles)

	hourly := make(map[string][]models.Article)
	for _, article := range articles {
		key := hourBucket(article.Dateline, article.PublishedAt)
		hourly[key] = append(hourly[key], article)
	}

	hours := make([]string, 0, len(hourly))
	for key := range hourly {
		hours = append(hours, key)
	}
	sort.Slice(hours, func(i, j int) bool {
		return hourSortKey(hours[i]) < hourSortKey(hours[j])
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"search_date":         from,
			"total":               len(articles),
			"hourly_articles":     hourly,
			"hours_with_articles": hours,
		},
	})
}

// hourBucket extracts the hour of day from the article's dateline, falling
// back to its published_at value. Anything unparsable lands in the catch-all
// bucket.
func hourBucket(dateline, publishedAt string) string {
	ts := dateline
	if ts == "" {
		ts = publishedAt
	}
	if ts == "" {
		return unknownHourBucket
	}

	parsed, err := parseNewsTime(ts)
	if err != nil {
		return unknownHourBucket
	}
	return strconv.Itoa(parsed.Hour())
}

// parseNewsTime handles the timestamp shapes the news API has been seen to
// emit.
func parseNewsTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// hourSortKey orders numeric buckets 0-23 ahead of the catch-all.
func hourSortKey(bucket string) int {
	hour, err := strconv.Atoi(bucket)
	if err != nil {
		return 999
	}
	return hour
}

type statusUpdateRequest struct {
	NewsID string `json:"news_id"`
	Status string `json:"status"`
}

// UpdateStatus handles POST /api/news/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.NewsID == "" || req.Status == "" {
		respondError(c, http.StatusBadRequest, "news_id and status are required")
		return
	}

	if _, err := h.store.SetStatus(req.NewsID, req.Status); err != nil {
		if errors.Is(err, models.ErrInvalidStatus) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.events.Append(models.EventStatusChange, map[string]any{
		"news_id": req.NewsID,
		"status":  req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"news_id": req.NewsID,
			"status":  req.Status,
		},
	})
}

// StatusSummary handles GET /api/news/status/summary.
func (h *Handler) StatusSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.store.Summary(),
	})
}

type generateRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	NewsID   string `json:"news_id"`
}

// GenerateInstagram handles POST /api/generate/instagram. Repeated calls for
// an article that already has stored content return the cached text without
// touching the upstream generator.
func (h *Handler) GenerateInstagram(c *gin.Context) {
	if h.generator == nil {
		respondError(c, http.StatusInternalServerError, models.ErrGeneratorUnavailable.Error())
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}

	if req.NewsID != "" {
		if entry, ok := h.store.Get(req.NewsID); ok && entry.AIContent != "" {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": gin.H{
					"content":      entry.AIContent,
					"raw_response": entry.AIContent,
					"cached":       true,
				},
			})
			return
		}
	}

	content, err := h.generator.GenerateInstagramContent(c.Request.Context(), req.Title, req.Content, req.Category)
	if err != nil {
		h.logger.LogError("Content generation failed for %s: %v", req.NewsID, err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if req.NewsID != "" {
		if _, err := h.store.SetGeneratedContent(req.NewsID, content); err != nil {
			h.logger.LogError("Failed to store generated content for %s: %v", req.NewsID, err)
		}

		h.events.Append(models.EventContentGenerated, map[string]any{
			"news_id":        req.NewsID,
			"has_ai_content": true,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"content":      content,
			"raw_response": content,
			"cached":       false,
		},
	})
}

type hashtagRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// GenerateHashtags handles POST /api/generate/hashtags.
func (h *Handler) GenerateHashtags(c *gin.Context) {
	if h.generator == nil {
		respondError(c, http.StatusInternalServerError, models.ErrGeneratorUnavailable.Error())
		return
	}

	var req hashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}

	hashtags, err := h.generator.GenerateHashtags(c.Request.Context(), req.Title, req.Category)
	if err != nil {
		h.logger.LogError("Hashtag generation failed: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if hashtags == nil {
		hashtags = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"hashtags": hashtags},
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// DebugStructure handles GET /api/debug/structure, a diagnostics endpoint
// exposed outside production for inspecting what the server can actually
// serve.
func (h *Handler) DebugStructure(c *gin.Context) {
	cwd, _ := os.Getwd()

	c.JSON(http.StatusOK, gin.H{
		"current_directory": cwd,
		"environment": gin.H{
			"DEPLOYMENT_MODE": os.Getenv("DEPLOYMENT_MODE"),
		},
		"static_paths":           h.resolver.Roots(),
		"available_static_files": h.resolver.ListFiles(),
	})
}
