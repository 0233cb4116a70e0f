package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Place-search backends understood by the API service.
const (
	BackendGoogle  = "google"
	BackendElastic = "elastic"
)

// API describes the discovery API service configuration.
type API struct {
	BindAddr string

	PlacesBackend string

	GoogleAPIKey   string
	GooglePlaces   string // base URL of the Places API
	ClientTimeout  time.Duration
	ElasticAddr    string
	ElasticIndex   string
	MaxResults     int
	RadiusCapKM    float64
	Throttle       time.Duration
	WikiLanguages  []string
	WikiThreshold  float64
	WikiGeoRadius  int
	GuideGeoRadius int
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		BindAddr:       getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		PlacesBackend:  strings.ToLower(getEnv("PLACES_BACKEND", BackendGoogle)),
		GoogleAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		GooglePlaces:   getEnv("GOOGLE_PLACES_URL", "https://maps.googleapis.com/maps/api/place"),
		ClientTimeout:  getDuration("HTTP_CLIENT_TIMEOUT", "10s"),
		ElasticAddr:    getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticIndex:   getEnv("ELASTICSEARCH_INDEX", "places"),
		MaxResults:     getInt("DISCOVER_MAX_RESULTS", 15),
		RadiusCapKM:    getFloat("DISCOVER_RADIUS_CAP_KM", 50),
		Throttle:       getDuration("DISCOVER_THROTTLE", "100ms"),
		WikiLanguages:  splitAndTrim(getEnv("WIKI_LANGS", "fr,en")),
		WikiThreshold:  getFloat("WIKI_MATCH_THRESHOLD", 5),
		WikiGeoRadius:  getInt("WIKI_GEO_RADIUS_M", 1000),
		GuideGeoRadius: getInt("WIKI_GUIDE_RADIUS_M", 5000),
	}

	if c.PlacesBackend != BackendGoogle && c.PlacesBackend != BackendElastic {
		return nil, fmt.Errorf("PLACES_BACKEND must be %q or %q", BackendGoogle, BackendElastic)
	}
	if c.MaxResults <= 0 {
		return nil, fmt.Errorf("DISCOVER_MAX_RESULTS must be positive")
	}
	if c.RadiusCapKM <= 0 {
		return nil, fmt.Errorf("DISCOVER_RADIUS_CAP_KM must be positive")
	}
	if c.Throttle < 0 {
		return nil, fmt.Errorf("DISCOVER_THROTTLE cannot be negative")
	}
	if c.ClientTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_CLIENT_TIMEOUT must be positive")
	}
	if len(c.WikiLanguages) == 0 {
		return nil, fmt.Errorf("WIKI_LANGS must contain at least one language code")
	}
	if c.WikiGeoRadius <= 0 {
		return nil, fmt.Errorf("WIKI_GEO_RADIUS_M must be positive")
	}
	if c.GuideGeoRadius <= 0 {
		return nil, fmt.Errorf("WIKI_GUIDE_RADIUS_M must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
