package openai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the API answers without choices
var ErrEmptyResponse = errors.New("no response from OpenAI API")

// Client represents an OpenAI API client
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a new OpenAI client. Every call is bounded by timeout.
func New(apiKey, apiBase, model string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		config.BaseURL = apiBase
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		logger:  logger.New("openai"),
	}
}

func (c *Client) complete(ctx context.Context, temperature float32, messages ...openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("OpenAI response (first 100 chars): %s", truncateString(content, 100))
	return content, nil
}

// SuggestMenus asks for count dishes that can be cooked mostly from items
func (c *Client) SuggestMenus(ctx context.Context, items []models.InventoryItem, count int) ([]models.Menu, error) {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s%s", it.Name, strconv.FormatFloat(it.Quantity, 'f', -1, 64), it.Unit))
	}

	prompt := fmt.Sprintf(`
Suggest %d home-cooked dishes that use mainly the ingredients below.

Available ingredients:
%s

Return the suggestions in the following JSON format:
[
  {
    "title": "Dish name",
    "description": "One sentence description",
    "ingredients": [{"name": "ingredient", "quantity": "150", "unit": "ml"}],
    "steps": ["step1", "step2"]
  }
]
Use ml, g or 個 as units where possible. Only return the JSON array, no other text.
`, count, strings.Join(lines, "\n"))

	c.logger.Info("Requesting %d menu suggestions based on %d items", count, len(lines))

	content, err := c.complete(ctx, 0.7,
		openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a home cooking expert who plans meals from what is already in the fridge.",
		},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt},
	)
	if err != nil {
		return nil, err
	}

	var raw []menuJSON
	if err := decodeLenient(content, &raw); err != nil {
		c.logger.Error("Failed to parse response: %v, Content: %s", err, truncateString(content, 500))
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	menus := make([]models.Menu, 0, len(raw))
	for _, m := range raw {
		if menu, ok := m.toModel(); ok {
			menus = append(menus, menu)
		}
	}
	if len(menus) == 0 {
		return nil, fmt.Errorf("OpenAI response contained no usable menus")
	}

	c.logger.Info("Successfully generated %d menu suggestions", len(menus))
	return menus, nil
}

// ParseItemsFromText extracts food items with amounts ("牛乳 1L") from free-form text
func (c *Client) ParseItemsFromText(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`
Extract all food items from the following text, keeping any amount that was given.
Return only a JSON array of strings of the form "name amount", no other text.
For example: ["牛乳 1L", "卵 6個", "tomatoes 3"]

Text: %s
`, text)

	c.logger.Info("Parsing items from text")
	c.logger.Debug("Text to parse (first 100 chars): %s", truncateString(text, 100))

	content, err := c.complete(ctx, 0.2, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})
	if err != nil {
		return nil, err
	}

	var items []string
	if err := decodeLenient(content, &items); err != nil {
		c.logger.Error("Failed to parse response: %v, Content: %s", err, truncateString(content, 500))
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	return items, nil
}

// ExtractItemsFromPhoto lists the food visible in a photo of a fridge, pantry or receipt
func (c *Client) ExtractItemsFromPhoto(ctx context.Context, photoURL string) ([]string, error) {
	prompt := `You are a computer vision expert. Look at the image of a fridge, pantry or grocery receipt and list all food items.
Include an amount when you can estimate one.
Return only a JSON array of strings of the form "name amount", no other text.
For example: ["牛乳 1L", "卵 6個", "chicken breast 300g"]
`

	c.logger.Info("Extracting items from photo")
	c.logger.Debug("Photo URL (truncated): %s", truncateString(photoURL, 50))

	content, err := c.complete(ctx, 0.2,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt},
		openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: "What food items do you see in this image? List all of them in a JSON array.",
				},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: photoURL},
				},
			},
		},
	)
	if err != nil {
		c.logger.Error("OpenAI API error: %v", err)
		return nil, err
	}

	var items []string
	if err := decodeLenient(content, &items); err != nil {
		c.logger.Error("Failed to parse response: %v, Content: %s", err, truncateString(content, 500))

		// Try a more lenient approach
		if extracted := extractItemsFromText(content); len(extracted) > 0 {
			c.logger.Info("Extracted %d items using fallback method", len(extracted))
			return extracted, nil
		}
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	c.logger.Info("Successfully extracted %d items from photo", len(items))
	return items, nil
}
