package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/craftshare")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AGE_RESTRICTED_CONTENT_AGE", "18")
	t.Setenv("IMAGE_EXTENSIONS", ".PNG, jpg,,")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("MINIO_ENDPOINT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost:5432/craftshare", cfg.Database.URL)
	assert.Equal(t, 18, cfg.Content.AgeRestrictedContentAge)
	assert.Equal(t, 13, cfg.Content.AccountMinAge)
	assert.Equal(t, []string{"png", "jpg"}, cfg.Content.ImageExtensions)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.False(t, cfg.Storage.UseMinIO())
	assert.False(t, cfg.Google.Enabled())

	rules := cfg.Content.Policy()
	assert.Equal(t, 18, rules.AgeRestrictedContentAge)
	assert.Equal(t, 13, rules.AccountMinAge)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	t.Setenv(key, "a, b ,c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList(key, nil))

	t.Setenv(key, " , ")
	assert.Equal(t, []string{"x"}, getEnvList(key, []string{"x"}))
}
