package discover

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/umercadal/trippier/backend/internal/enrich"
	"github.com/umercadal/trippier/backend/internal/geo"
	"github.com/umercadal/trippier/backend/internal/models"
	"github.com/umercadal/trippier/backend/internal/places"
	"github.com/umercadal/trippier/backend/internal/wiki"
)

const poiCategory = "Tourist Attraction"

// Searcher finds places and derives photo thumbnails.
type Searcher interface {
	Search(ctx context.Context, p places.SearchParams) ([]models.Place, error)
	PhotoURL(ref string) string
}

// DetailFetcher looks up contact details for a place.
type DetailFetcher interface {
	Details(ctx context.Context, placeID string) (*models.PlaceDetails, error)
}

// ArticleMatcher resolves encyclopedia articles for a place.
type ArticleMatcher interface {
	Match(ctx context.Context, name string, lat, lng float64) *wiki.Article
	MatchNearest(ctx context.Context, lat, lng float64) *wiki.Article
}

// Options tune the aggregation.
type Options struct {
	// MaxResults caps how many top-ranked places get enriched per request.
	MaxResults int
	// RadiusCapKM clamps the requested search radius.
	RadiusCapKM float64
	// DefaultRadiusKM applies when the caller omits a radius.
	DefaultRadiusKM float64
	// Throttle spaces out cache-miss enrichments to respect upstream rate
	// limits. Zero disables the throttle.
	Throttle time.Duration
}

// Service is the end-to-end "find POIs near X" operation: place search,
// popularity ranking, per-place enrichment through the matchers and the
// detail fetcher, fused behind the cache.
type Service struct {
	log     *slog.Logger
	search  Searcher
	details DetailFetcher
	primary []ArticleMatcher // encyclopedia editions, preference order
	guide   ArticleMatcher   // travel-guide provider, single-pass mode
	cache   *enrich.Cache
	limiter *rate.Limiter
	opts    Options
}

// New assembles the discovery service.
func New(log *slog.Logger, search Searcher, details DetailFetcher, primary []ArticleMatcher, guide ArticleMatcher, cache *enrich.Cache, opts Options) *Service {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 15
	}
	if opts.RadiusCapKM <= 0 {
		opts.RadiusCapKM = 50
	}
	if opts.DefaultRadiusKM <= 0 {
		opts.DefaultRadiusKM = 5
	}

	limit := rate.Inf
	if opts.Throttle > 0 {
		limit = rate.Every(opts.Throttle)
	}

	return &Service{
		log:     log,
		search:  search,
		details: details,
		primary: primary,
		guide:   guide,
		cache:   cache,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
	}
}

// FindPOIs searches for places around a coordinate (or matching a free-text
// query), enriches the most popular ones, and returns them in popularity
// order. Per-place enrichment failures degrade to absent fields; only a
// missing credential or a failed place search abort the request.
func (s *Service) FindPOIs(ctx context.Context, lat, lng, radiusKm float64, query string) ([]models.POI, error) {
	if radiusKm <= 0 {
		radiusKm = s.opts.DefaultRadiusKM
	}
	if radiusKm > s.opts.RadiusCapKM {
		radiusKm = s.opts.RadiusCapKM
	}

	results, err := s.search.Search(ctx, places.SearchParams{
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: int(radiusKm * 1000),
		Query:        query,
		Category:     "tourist_attraction",
	})
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}

	// Rating count is the popularity proxy; unrated places sort last.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UserRatingsTotal > results[j].UserRatingsTotal
	})
	if len(results) > s.opts.MaxResults {
		results = results[:s.opts.MaxResults]
	}

	pois := make([]models.POI, 0, len(results))
	for _, place := range results {
		if place.ID == "" {
			// No stable provider identifier; still needs a cache key.
			place.ID = uuid.NewString()
		}

		data, ok := s.cache.Get(place.ID)
		if !ok {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("throttle wait: %w", err)
			}
			data = s.enrichPlace(ctx, place)
			s.cache.Set(place.ID, data)
		}

		pois = append(pois, s.assemble(place, data, lat, lng))
	}

	return pois, nil
}

// enrichPlace fans out the per-place sub-fetches concurrently, joins them
// all, and fuses the results. Sub-fetch failures are absorbed here.
func (s *Service) enrichPlace(ctx context.Context, place models.Place) models.EnrichedData {
	articles := make([]*wiki.Article, len(s.primary))
	var guide *wiki.Article
	var contact *models.PlaceDetails

	var wg sync.WaitGroup
	for i, m := range s.primary {
		wg.Add(1)
		go func(i int, m ArticleMatcher) {
			defer wg.Done()
			articles[i] = m.Match(ctx, place.Name, place.Lat, place.Lng)
		}(i, m)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		guide = s.guide.MatchNearest(ctx, place.Lat, place.Lng)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		d, err := s.details.Details(ctx, place.ID)
		if err != nil {
			s.log.Debug("place details failed", slog.String("place_id", place.ID), slog.Any("err", err))
			return
		}
		contact = d
	}()

	wg.Wait()

	// Fusion: the travel-guide summary wins, then the editions in preference
	// order; contact fields are independently optional.
	var data models.EnrichedData
	if guide != nil {
		data.Description = guide.Summary
		data.WikivoyageURL = guide.URL
	}
	for _, a := range articles {
		if a == nil {
			continue
		}
		if data.Description == "" {
			data.Description = a.Summary
		}
		if data.WikipediaURL == "" {
			data.WikipediaURL = a.URL
		}
	}
	if contact != nil {
		data.Website = contact.Website
		data.PhoneNumber = contact.Phone()
	}

	return data
}

func (s *Service) assemble(place models.Place, data models.EnrichedData, originLat, originLng float64) models.POI {
	poi := models.POI{
		PlaceID:          place.ID,
		Name:             place.Name,
		Type:             poiCategory,
		Rating:           place.Rating,
		UserRatingsTotal: place.UserRatingsTotal,
		Distance:         geo.Distance(originLat, originLng, place.Lat, place.Lng),
		Lat:              place.Lat,
		Lng:              place.Lng,
		Address:          place.Address(),
		WikipediaURL:     data.WikipediaURL,
		WikivoyageURL:    data.WikivoyageURL,
		OfficialWebsite:  data.Website,
		PhoneNumber:      data.PhoneNumber,
		Description:      data.Description,
	}

	if len(place.PhotoRefs) > 0 {
		poi.Thumbnail = s.search.PhotoURL(place.PhotoRefs[0])
	}

	return poi
}
