package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/umercadal/trippier/backend/internal/config"
)

func TestLoadAPIDefaults(t *testing.T) {
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("PLACES_BACKEND", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("WIKI_LANGS", "")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Equal(t, config.BackendGoogle, cfg.PlacesBackend)
	require.Empty(t, cfg.GoogleAPIKey)
	require.Equal(t, "https://maps.googleapis.com/maps/api/place", cfg.GooglePlaces)
	require.Equal(t, 15, cfg.MaxResults)
	require.Equal(t, 50.0, cfg.RadiusCapKM)
	require.Equal(t, 100*time.Millisecond, cfg.Throttle)
	require.Equal(t, []string{"fr", "en"}, cfg.WikiLanguages)
	require.Equal(t, 5.0, cfg.WikiThreshold)
	require.Equal(t, 1000, cfg.WikiGeoRadius)
	require.Equal(t, 5000, cfg.GuideGeoRadius)
}

func TestLoadAPIOverrides(t *testing.T) {
	t.Setenv("API_BIND_ADDR", ":9090")
	t.Setenv("PLACES_BACKEND", "elastic")
	t.Setenv("GOOGLE_MAPS_API_KEY", "secret")
	t.Setenv("ELASTICSEARCH_ADDR", "http://localhost:9999")
	t.Setenv("ELASTICSEARCH_INDEX", "custom")
	t.Setenv("DISCOVER_MAX_RESULTS", "5")
	t.Setenv("DISCOVER_RADIUS_CAP_KM", "25")
	t.Setenv("DISCOVER_THROTTLE", "50ms")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")
	t.Setenv("WIKI_LANGS", "en, de")
	t.Setenv("WIKI_MATCH_THRESHOLD", "7.5")
	t.Setenv("WIKI_GEO_RADIUS_M", "1500")
	t.Setenv("WIKI_GUIDE_RADIUS_M", "8000")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, config.BackendElastic, cfg.PlacesBackend)
	require.Equal(t, "secret", cfg.GoogleAPIKey)
	require.Equal(t, "http://localhost:9999", cfg.ElasticAddr)
	require.Equal(t, "custom", cfg.ElasticIndex)
	require.Equal(t, 5, cfg.MaxResults)
	require.Equal(t, 25.0, cfg.RadiusCapKM)
	require.Equal(t, 50*time.Millisecond, cfg.Throttle)
	require.Equal(t, 3*time.Second, cfg.ClientTimeout)
	require.Equal(t, []string{"en", "de"}, cfg.WikiLanguages)
	require.Equal(t, 7.5, cfg.WikiThreshold)
	require.Equal(t, 1500, cfg.WikiGeoRadius)
	require.Equal(t, 8000, cfg.GuideGeoRadius)
}

func TestLoadAPIRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PLACES_BACKEND", "mysql")

	_, err := config.LoadAPI()
	require.Error(t, err)
}

func TestLoadAPIRejectsInvalidValues(t *testing.T) {
	t.Setenv("PLACES_BACKEND", "")
	t.Setenv("DISCOVER_MAX_RESULTS", "-1")

	_, err := config.LoadAPI()
	require.Error(t, err)

	t.Setenv("DISCOVER_MAX_RESULTS", "")
	t.Setenv("WIKI_LANGS", " , ")

	_, err = config.LoadAPI()
	require.Error(t, err)
}
