package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korjavin/fridgechef/pkg/reconcile"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DATA_DIR", "BOT_TOKEN", "OPENAI_API_KEY", "AI_TIMEOUT", "MENU_COUNT", "LIQUID_KEYWORDS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 20*time.Second, cfg.AITimeout)
	assert.Equal(t, 3, cfg.MenuCount)
	assert.Equal(t, reconcile.DefaultLiquidKeywords, cfg.LiquidKeywords)
	assert.Empty(t, cfg.BotToken)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("MENU_COUNT", "5")
	t.Setenv("LIQUID_KEYWORDS", "牛乳, soy milk ,,出汁")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 5, cfg.MenuCount)
	assert.Equal(t, []string{"牛乳", "soy milk", "出汁"}, cfg.LiquidKeywords)
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "soon")
	_, err := LoadFromEnv()
	require.Error(t, err)

	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("MENU_COUNT", "-1")
	_, err = LoadFromEnv()
	require.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{BotToken: "1234567890:abcdef", OpenAIAPIKey: "short"}
	r := cfg.Redacted()

	assert.Equal(t, "12345678...REDACTED...", r.BotToken)
	assert.Equal(t, "short", r.OpenAIAPIKey)
	assert.Equal(t, "1234567890:abcdef", cfg.BotToken)
}
