package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/umercadal/trippier/backend/internal/config"
	"github.com/umercadal/trippier/backend/internal/discover"
	"github.com/umercadal/trippier/backend/internal/enrich"
	"github.com/umercadal/trippier/backend/internal/logger"
	"github.com/umercadal/trippier/backend/internal/models"
	"github.com/umercadal/trippier/backend/internal/places"
	"github.com/umercadal/trippier/backend/internal/wiki"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	svc, err := buildService(cfg, log)
	if err != nil {
		log.Error("init discovery service", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{log: log, discover: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/discover/nearby", srv.handleNearby)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

func buildService(cfg *config.API, log *slog.Logger) (*discover.Service, error) {
	httpc := &http.Client{Timeout: cfg.ClientTimeout}

	var search discover.Searcher
	var details discover.DetailFetcher
	switch cfg.PlacesBackend {
	case config.BackendElastic:
		es, err := places.NewElastic(cfg.ElasticAddr, cfg.ElasticIndex, log)
		if err != nil {
			return nil, fmt.Errorf("init elastic places: %w", err)
		}
		search, details = es, es
	default:
		google := places.NewGoogle(cfg.GooglePlaces, cfg.GoogleAPIKey, httpc, log)
		search, details = google, google
	}

	opts := wiki.DefaultMatcherOptions()
	opts.GeoRadius = cfg.WikiGeoRadius
	opts.GuideRadius = cfg.GuideGeoRadius
	opts.Threshold = cfg.WikiThreshold

	primary := make([]discover.ArticleMatcher, 0, len(cfg.WikiLanguages))
	for _, lang := range cfg.WikiLanguages {
		client := wiki.NewClient(fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang), httpc, log)
		primary = append(primary, wiki.NewMatcher(client, opts, log))
	}

	guideClient := wiki.NewClient("https://en.wikivoyage.org/w/api.php", httpc, log)
	guide := wiki.NewMatcher(guideClient, opts, log)

	return discover.New(log, search, details, primary, guide, enrich.NewCache(), discover.Options{
		MaxResults:  cfg.MaxResults,
		RadiusCapKM: cfg.RadiusCapKM,
		Throttle:    cfg.Throttle,
	}), nil
}

type poiFinder interface {
	FindPOIs(ctx context.Context, lat, lng, radiusKm float64, query string) ([]models.POI, error)
}

type server struct {
	log      *slog.Logger
	discover poiFinder
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleNearby(w http.ResponseWriter, r *http.Request) {
	lat, err := parseFloat(r.URL.Query().Get("lat"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid lat"})
		return
	}
	lng, err := parseFloat(r.URL.Query().Get("lng"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid lng"})
		return
	}

	var radius float64
	if raw := strings.TrimSpace(r.URL.Query().Get("radius")); raw != "" {
		radius, err = parseFloat(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid radius"})
			return
		}
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	pois, err := s.discover.FindPOIs(r.Context(), lat, lng, radius, query)
	if err != nil {
		if errors.Is(err, places.ErrNoAPIKey) {
			s.log.Error("discovery misconfigured", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "places API key not configured"})
			return
		}
		s.log.Warn("discovery failed", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch data"})
		return
	}

	writeJSON(w, http.StatusOK, pois)
}

func parseFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty value")
	}
	return strconv.ParseFloat(raw, 64)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
