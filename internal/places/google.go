package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/umercadal/trippier/backend/internal/models"
)

// ErrNoAPIKey signals that no provider credential is configured. It is the
// one configuration failure the discovery pipeline surfaces to callers.
var ErrNoAPIKey = errors.New("places: no API key configured")

// StatusError is returned when the provider answers with a non-success
// status other than an explicit zero-results.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("places: status %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("places: status %s", e.Status)
}

// SearchParams narrow a place search. Query switches the provider into
// free-text mode; otherwise proximity search around the coordinate is used.
type SearchParams struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Query        string
	Category     string
}

// Google is a thin adapter over the Google Places web service.
type Google struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *slog.Logger
}

// NewGoogle builds the adapter. baseURL is the API prefix up to the method
// segment (".../maps/api/place"); an empty apiKey is allowed and reported as
// ErrNoAPIKey on first use.
func NewGoogle(baseURL, apiKey string, httpc *http.Client, log *slog.Logger) *Google {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Google{baseURL: baseURL, apiKey: apiKey, httpc: httpc, log: log}
}

type googlePlace struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Vicinity         string `json:"vicinity"`
	FormattedAddress string `json:"formatted_address"`
	Photos           []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

type searchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []googlePlace `json:"results"`
}

// Search runs a nearby or text search. A ZERO_RESULTS status yields an empty
// slice and no error; any other non-OK status is a *StatusError.
func (g *Google) Search(ctx context.Context, p SearchParams) ([]models.Place, error) {
	if g.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	method := "nearbysearch"
	if p.Query != "" {
		method = "textsearch"
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", p.Lat, p.Lng))
	q.Set("radius", strconv.Itoa(p.RadiusMeters))
	if p.Query != "" {
		q.Set("query", p.Query)
		q.Set("keyword", p.Query)
	}
	if p.Category != "" {
		q.Set("type", p.Category)
	}
	q.Set("key", g.apiKey)

	var parsed searchResponse
	if err := g.getJSON(ctx, g.baseURL+"/"+method+"/json?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	if parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		return nil, &StatusError{Status: parsed.Status, Message: parsed.ErrorMessage}
	}

	out := make([]models.Place, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		place := models.Place{
			ID:               item.PlaceID,
			Name:             item.Name,
			Lat:              item.Geometry.Location.Lat,
			Lng:              item.Geometry.Location.Lng,
			Rating:           item.Rating,
			UserRatingsTotal: item.UserRatingsTotal,
			Vicinity:         item.Vicinity,
			FormattedAddress: item.FormattedAddress,
		}
		for _, photo := range item.Photos {
			place.PhotoRefs = append(place.PhotoRefs, photo.PhotoReference)
		}
		out = append(out, place)
	}

	return out, nil
}

// Details fetches the contact fields for a place.
func (g *Google) Details(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	if g.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "website,formatted_phone_number,international_phone_number")
	q.Set("key", g.apiKey)

	var parsed struct {
		Result models.PlaceDetails `json:"result"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/details/json?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	return &parsed.Result, nil
}

// PhotoURL derives a thumbnail URL from a photo reference.
func (g *Google) PhotoURL(ref string) string {
	if ref == "" || g.apiKey == "" {
		return ""
	}
	return fmt.Sprintf("%s/photo?maxwidth=800&photoreference=%s&key=%s", g.baseURL, url.QueryEscape(ref), url.QueryEscape(g.apiKey))
}

func (g *Google) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	res, err := g.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("places request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("places request failed: %s: %s", res.Status, string(body))
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}

	return nil
}
