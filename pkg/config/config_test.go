package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "Admin", cfg.Catalog.DefaultActor)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.False(t, cfg.Ledger.VerifyReferences)
	assert.True(t, cfg.Selections.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Selections.TTL)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("CATALOG_DEFAULT_ACTOR", "  ")
	v.Set("CATALOG_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("LEDGER_VERIFY_REFERENCES", true)

	cfg := fromViper(v)
	assert.Equal(t, "Admin", cfg.Catalog.DefaultActor)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Ledger.VerifyReferences)
}
