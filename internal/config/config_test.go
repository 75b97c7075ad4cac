package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "JWT_SECRET", "JWT_EXPIRES_DAYS", "GRID_MAX_MISTAKES"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.Empty(t, c.DBPath)
	assert.Equal(t, "dev_secret_change_me", c.JWTSecret)
	assert.Equal(t, 14*24*time.Hour, c.JWTExpires)
	assert.Equal(t, 3, c.GridMaxMistakes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "./data/app.db")
	t.Setenv("JWT_EXPIRES_DAYS", "2")
	t.Setenv("GRID_MAX_MISTAKES", "nope")
	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "./data/app.db", c.DBPath)
	assert.Equal(t, 48*time.Hour, c.JWTExpires)
	assert.Equal(t, 3, c.GridMaxMistakes, "invalid values fall back")
}
