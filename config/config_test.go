package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("VISUAL_SEARCH_PROVIDER_URL", "")
	t.Setenv("STOREFRONT_URL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SIMILAR_CACHE_TTL", "")
	t.Setenv("SESSION_IDLE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, defaultProviderBaseURL, cfg.ProviderBaseURL)
	require.Equal(t, defaultStorefrontURL, cfg.StorefrontURL)
	require.Equal(t, defaultHTTPAddr, cfg.HTTPAddr)
	require.Equal(t, defaultSimilarCacheTTL, cfg.SimilarCacheTTL)
	require.Equal(t, defaultSessionIdleTTL, cfg.SessionIdleTTL)
	require.Empty(t, cfg.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VISUAL_SEARCH_PROVIDER_URL", "http://vs.local/imageservice/")
	t.Setenv("STOREFRONT_URL", "https://shop.example/")
	t.Setenv("SIMILAR_CACHE_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://vs.local/imageservice", cfg.ProviderBaseURL)
	require.Equal(t, "https://shop.example", cfg.StorefrontURL)
	require.Equal(t, 90*time.Minute, cfg.SimilarCacheTTL)
}

func TestLoad_BadTTL(t *testing.T) {
	t.Setenv("SIMILAR_CACHE_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_SessionIdleTTL(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "10m")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, cfg.SessionIdleTTL)

	t.Setenv("SESSION_IDLE_TTL", "0s")
	_, err = Load()
	require.Error(t, err)
}
