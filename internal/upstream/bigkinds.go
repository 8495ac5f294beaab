package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/1282saa/work-con/internal/models"
)

const defaultNewsAPIURL = "https://tools.kinds.or.kr/search/news"

// NewsClient talks to the BigKinds news search API.
type NewsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewNewsClient returns a client authenticated with apiKey.
func NewNewsClient(apiKey string) *NewsClient {
	return &NewsClient{
		apiKey:  apiKey,
		baseURL: defaultNewsAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewNewsClientWithURL is like NewNewsClient but targets baseURL, for tests.
func NewNewsClientWithURL(apiKey, baseURL string) *NewsClient {
	c := NewNewsClient(apiKey)
	c.baseURL = baseURL
	return c
}

type searchArgument struct {
	NewsIDs         []string          `json:"news_ids"`
	Query           string            `json:"query"`
	PublishedAt     searchDateRange   `json:"published_at"`
	Provider        []string          `json:"provider"`
	Category        []string          `json:"category"`
	CategoryIncident []string         `json:"category_incident"`
	ProviderSubject []string          `json:"provider_subject"`
	SubjectInfo     []string          `json:"subject_info"`
	Sort            map[string]string `json:"sort"`
	ReturnFrom      int               `json:"return_from"`
	ReturnSize      int               `json:"return_size"`
	Fields          []string          `json:"fields"`
}

type searchDateRange struct {
	From  string `json:"from"`
	Until string `json:"until"`
}

type searchRequest struct {
	AccessKey string         `json:"access_key"`
	Argument  searchArgument `json:"argument"`
}

// searchResponse covers the two envelope shapes the API is known to return:
// a legacy flat {"result": [...]} and the current
// {"return_object": {"documents": [...]}}. Anything else normalizes to an
// empty list.
type searchResponse struct {
	Result       json.RawMessage `json:"result"`
	ReturnObject *struct {
		Documents []models.Article `json:"documents"`
	} `json:"return_object"`
}

// Search fetches articles matching query published within [from, until).
// Dates are YYYY-MM-DD strings; until is exclusive.
func (c *NewsClient) Search(ctx context.Context, query, from, until string, limit int) ([]models.Article, error) {
	payload := searchRequest{
		AccessKey: c.apiKey,
		Argument: searchArgument{
			NewsIDs:          []string{},
			Query:            query,
			PublishedAt:      searchDateRange{From: from, Until: until},
			Provider:         []string{},
			Category:         []string{},
			CategoryIncident: []string{},
			ProviderSubject:  []string{},
			SubjectInfo:      []string{},
			Sort:             map[string]string{"date": "desc"},
			ReturnFrom:       0,
			ReturnSize:       limit,
			Fields: []string{
				"title", "news_id", "published_at", "content", "provider",
				"byline", "provider_link_page", "dateline", "enveloped_at", "hilight",
				"category", "category_incident", "provider_subject", "subject_info",
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read news API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return parseSearchResponse(respBody)
}

func parseSearchResponse(body []byte) ([]models.Article, error) {
	var envelope searchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse news API response: %w", err)
	}

	// Legacy shape first, matching the order the upstream documented it.
	if len(envelope.Result) > 0 {
		var articles []models.Article
		if err := json.Unmarshal(envelope.Result, &articles); err == nil {
			return articles, nil
		}
	}

	if envelope.ReturnObject != nil {
		return envelope.ReturnObject.Documents, nil
	}

	return []models.Article{}, nil
}
