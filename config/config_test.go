package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, NERProse, cfg.NERProvider)
	assert.Equal(t, GeocoderNominatim, cfg.GeocoderProvider)
	assert.Equal(t, 3, cfg.GeocodeLimit)
	assert.Equal(t, time.Hour, cfg.GeocodeCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.ImageFetchTimeout)
	assert.Equal(t, "@every 5m", cfg.HealthCheckSchedule)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("GEOCODE_LIMIT", "5")
	t.Setenv("GEOCODE_CACHE_TTL", "90s")
	t.Setenv("NER_PROVIDER", "openai")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 5, cfg.GeocodeLimit)
	assert.Equal(t, 90*time.Second, cfg.GeocodeCacheTTL)
	assert.Equal(t, NEROpenAI, cfg.NERProvider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAIBaseURL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("GEOCODER_PROVIDER", "bing")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER_PROVIDER")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			NERProvider:        NERProse,
			GeocoderProvider:   GeocoderNominatim,
			NominatimUserAgent: "test/1.0",
			NominatimRate:      1,
			GeocodeLimit:       3,
			ImageMaxBytes:      1024,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown ner", mutate: func(c *Config) { c.NERProvider = "spacy" }, wantErr: "NER_PROVIDER"},
		{name: "openai without key or url", mutate: func(c *Config) { c.NERProvider = NEROpenAI }, wantErr: "OPENAI_API_KEY"},
		{name: "google ner without credentials", mutate: func(c *Config) { c.NERProvider = NERGoogle }},
		{name: "openai with key", mutate: func(c *Config) { c.NERProvider = NEROpenAI; c.OpenAIAPIKey = "sk-test" }},
		{name: "google geocoder without key", mutate: func(c *Config) { c.GeocoderProvider = GeocoderGoogle }, wantErr: "MAPS_CREDENTIALS"},
		{name: "empty user agent", mutate: func(c *Config) { c.NominatimUserAgent = "" }, wantErr: "NOMINATIM_USER_AGENT"},
		{name: "zero rate", mutate: func(c *Config) { c.NominatimRate = 0 }, wantErr: "NOMINATIM_RATE"},
		{name: "limit too large", mutate: func(c *Config) { c.GeocodeLimit = 51 }, wantErr: "GEOCODE_LIMIT"},
		{name: "limit zero", mutate: func(c *Config) { c.GeocodeLimit = 0 }, wantErr: "GEOCODE_LIMIT"},
		{name: "no image budget", mutate: func(c *Config) { c.ImageMaxBytes = 0 }, wantErr: "IMAGE_MAX_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
