package places

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	json "github.com/goccy/go-json"

	"github.com/umercadal/trippier/backend/internal/models"
)

// Elastic serves place searches from a self-hosted Elasticsearch index
// instead of the Google web service. Documents carry the models.Place shape
// plus a geo_point "location" field. The index has no contact details or
// photos, so Details and PhotoURL degrade to empty results.
type Elastic struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// NewElastic instantiates the Elasticsearch-backed searcher.
func NewElastic(addr, index string, log *slog.Logger) (*Elastic, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Elastic{es: es, index: index, log: log}, nil
}

// Search returns places sorted by proximity to the requested coordinate.
// Free-text queries match on the name field; otherwise every document within
// sort range is a candidate, nearest first.
func (e *Elastic) Search(ctx context.Context, p SearchParams) ([]models.Place, error) {
	query := map[string]any{"match_all": map[string]any{}}
	if p.Query != "" {
		query = map[string]any{
			"match": map[string]any{
				"name": p.Query,
			},
		}
	}

	body := map[string]any{
		"size":  60,
		"query": query,
		"sort": []map[string]any{
			{
				"_geo_distance": map[string]any{
					"location":        map[string]any{"lat": p.Lat, "lon": p.Lng},
					"order":           "asc",
					"unit":            "km",
					"distance_type":   "arc",
					"ignore_unmapped": true,
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search places failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Place `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.Place, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source)
	}

	return out, nil
}

// Details has nothing to serve from the local index.
func (e *Elastic) Details(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	return &models.PlaceDetails{}, nil
}

// PhotoURL has no photo service behind it.
func (e *Elastic) PhotoURL(ref string) string {
	return ""
}
