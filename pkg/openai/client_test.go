package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korjavin/fridgechef/pkg/models"
)

// fakeChatServer answers every chat completion with content
func fakeChatServer(t *testing.T, content string, delay time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL+"/v1", "test-model", time.Second)
}

func TestSuggestMenus(t *testing.T) {
	content := "```json\n" + `[
		{"title": "親子丼", "description": "Chicken and egg rice bowl",
		 "ingredients": [{"name": "卵", "quantity": 2, "unit": "個"}, {"name": "鶏肉", "quantity": "200", "unit": "g"}, {"name": ""}],
		 "steps": ["Simmer", "Serve"]},
		{"name": "味噌汁", "ingredients": [{"name": "豆腐", "quantity": "1/2", "unit": "丁"}]},
		{"description": "no title"}
	]` + "\n```"
	c := fakeChatServer(t, content, 0)

	menus, err := c.SuggestMenus(context.Background(), []models.InventoryItem{{Name: "卵", Quantity: 6, Unit: "個"}}, 2)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	assert.Equal(t, "親子丼", menus[0].Title)
	assert.Equal(t, []models.MenuIngredient{
		{Name: "卵", Quantity: "2", Unit: "個"},
		{Name: "鶏肉", Quantity: "200", Unit: "g"},
	}, menus[0].Ingredients)
	assert.Equal(t, []string{"Simmer", "Serve"}, menus[0].Steps)
	assert.Equal(t, "味噌汁", menus[1].Title)
}

func TestSuggestMenusProseAroundJSON(t *testing.T) {
	c := fakeChatServer(t, `Sure! Here you go: [{"title": "Omelette [classic]", "ingredients": [{"name": "egg", "quantity": 3}]}] Enjoy!`, 0)

	menus, err := c.SuggestMenus(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Omelette [classic]", menus[0].Title)
}

func TestSuggestMenusUnparseable(t *testing.T) {
	c := fakeChatServer(t, "I cannot help with that.", 0)

	_, err := c.SuggestMenus(context.Background(), nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse OpenAI response")
}

func TestSuggestMenusTimeout(t *testing.T) {
	c := fakeChatServer(t, "[]", 500*time.Millisecond)
	c.timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := c.SuggestMenus(context.Background(), nil, 1)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestParseItemsFromText(t *testing.T) {
	c := fakeChatServer(t, `["牛乳 1L", "卵 6個"]`, 0)

	items, err := c.ParseItemsFromText(context.Background(), "bought milk and eggs")
	require.NoError(t, err)
	assert.Equal(t, []string{"牛乳 1L", "卵 6個"}, items)
}

func TestExtractItemsFromPhotoFallback(t *testing.T) {
	c := fakeChatServer(t, "I can see:\n- 牛乳\n- tomatoes\n- 3 apples", 0)

	items, err := c.ExtractItemsFromPhoto(context.Background(), "https://example.com/fridge.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"I can see:", "牛乳", "tomatoes"}, items)
}

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `["a"]`, cleanJSONResponse("```json\n[\"a\"]\n```"))
	assert.Equal(t, `["a"]`, cleanJSONResponse("  [\"a\"]  "))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```\n{\"a\":1}```"))
}

func TestExtractJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":"}"}`, extractJSONBlock(`text {"a":"}"} more`))
	assert.Equal(t, `[1,[2]]`, extractJSONBlock(`x [1,[2]] y [3]`))
	assert.Equal(t, "", extractJSONBlock(`no json`))
	assert.Equal(t, "", extractJSONBlock(`[unterminated`))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "牛乳...", truncateString("牛乳パック", 2))
}
