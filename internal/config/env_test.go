package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("UNI_TEST_INT", "not-a-number")
	t.Setenv("UNI_TEST_DUR", "-5s")
	t.Setenv("UNI_TEST_LIST", " a , ,b ")

	assert.Equal(t, 7, getEnvInt("UNI_TEST_INT", 7))
	assert.Equal(t, 3, getEnvInt("UNI_TEST_MISSING", 3))
	assert.Equal(t, time.Minute, getEnvDuration("UNI_TEST_DUR", time.Minute))
	assert.Equal(t, []string{"a", "b"}, getEnvList("UNI_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("UNI_TEST_MISSING", []string{"x"}))
}

func TestLoadConfigMemoryDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("AWS_ACCESS_KEY", "")
	t.Setenv("AWS_SECRET_KEY", "")

	cfg := LoadConfig()

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.HasS3Credentials())
}
