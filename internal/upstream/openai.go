package upstream

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const generationModel = openai.GPT4oMini

// Generator produces Instagram-style promotional text and hashtags for a
// news article via the OpenAI chat completions API.
type Generator struct {
	client *openai.Client
}

// NewGenerator returns nil when apiKey is empty; callers treat a nil
// generator as the disabled state and fail the generation endpoints with a
// clear message instead of refusing to start.
func NewGenerator(apiKey string) *Generator {
	if apiKey == "" {
		return nil
	}
	return &Generator{client: openai.NewClient(apiKey)}
}

// NewGeneratorWithConfig builds a generator against a custom API base URL,
// for tests.
func NewGeneratorWithConfig(apiKey, baseURL string) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Generator{client: openai.NewClientWithConfig(cfg)}
}

// GenerateInstagramContent writes a full promotional post for the article.
// The body is truncated to its first 1000 characters before prompting.
func (g *Generator) GenerateInstagramContent(ctx context.Context, title, content, category string) (string, error) {
	body := []rune(content)
	if len(body) > 1000 {
		body = body[:1000]
	}

	categoryInfo := ""
	if category != "" {
		categoryInfo = fmt.Sprintf("\nCategory: %s", category)
	}

	prompt := fmt.Sprintf(`Write an engaging Instagram post for the following news article.

Title: %s
Body: %s...%s

Output format (exactly this shape):
[the headline, rewritten to grab attention]

1. [first key point title]
[one or two sentences explaining the first point]
2. [second key point title]
[one or two sentences explaining the second point]
3. [third key point title]
[one or two sentences explaining the third point]

#keyword1 #keyword2 #keyword3 #keyword4 #news

Writing guide:
- use impactful emoji such as fire, lightbulb, chart and lightning
- keep a young, energetic tone
- emphasize numbers and data for impact
- exactly 5 hashtags, the last one must be #news
- use line breaks generously for readability`, title, string(body), categoryInfo)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: generationModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a social media marketing expert who turns news articles into compelling Instagram content.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("content generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("content generation returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateHashtags produces up to ten hashtags from the title alone.
func (g *Generator) GenerateHashtags(ctx context.Context, title, category string) ([]string, error) {
	categoryInfo := ""
	if category != "" {
		categoryInfo = fmt.Sprintf(" (category: %s)", category)
	}

	prompt := fmt.Sprintf(`Generate 10 Instagram hashtags for this news headline:

Title: %s%s

Requirements:
- mix of Korean and English hashtags
- reflect current trends
- highly relevant to the story

Response format: #tag1 #tag2 #tag3 ...`, title, categoryInfo)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: generationModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a hashtag specialist. Produce only concise, effective hashtags.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("hashtag generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("hashtag generation returned no choices")
	}

	var tags []string
	for _, tag := range strings.Split(resp.Choices[0].Message.Content, "#") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}
