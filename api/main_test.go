package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/umercadal/trippier/backend/internal/models"
	"github.com/umercadal/trippier/backend/internal/places"
)

type stubFinder struct {
	pois []models.POI
	err  error

	lat, lng, radius float64
	query            string
}

func (s *stubFinder) FindPOIs(_ context.Context, lat, lng, radiusKm float64, query string) ([]models.POI, error) {
	s.lat, s.lng, s.radius, s.query = lat, lng, radiusKm, query
	return s.pois, s.err
}

func newServer(finder poiFinder) *server {
	return &server{
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		discover: finder,
	}
}

func TestHandleNearbyOK(t *testing.T) {
	finder := &stubFinder{pois: []models.POI{{PlaceID: "p1", Name: "Eiffel Tower"}}}
	srv := newServer(finder)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/discover/nearby?lat=48.8584&lng=2.2945&radius=10&q=tower", nil)
	srv.handleNearby(rec, req)

	require.Equal(t, 200, rec.Code)
	require.InDelta(t, 48.8584, finder.lat, 1e-9)
	require.InDelta(t, 2.2945, finder.lng, 1e-9)
	require.Equal(t, 10.0, finder.radius)
	require.Equal(t, "tower", finder.query)

	var got []models.POI
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Eiffel Tower", got[0].Name)
}

func TestHandleNearbyEmptyListIsOK(t *testing.T) {
	srv := newServer(&stubFinder{pois: []models.POI{}})

	rec := httptest.NewRecorder()
	srv.handleNearby(rec, httptest.NewRequest("GET", "/discover/nearby?lat=1&lng=2", nil))

	require.Equal(t, 200, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleNearbyRequiresCoordinates(t *testing.T) {
	srv := newServer(&stubFinder{})

	rec := httptest.NewRecorder()
	srv.handleNearby(rec, httptest.NewRequest("GET", "/discover/nearby?lng=2", nil))
	require.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleNearby(rec, httptest.NewRequest("GET", "/discover/nearby?lat=abc&lng=2", nil))
	require.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleNearby(rec, httptest.NewRequest("GET", "/discover/nearby?lat=1&lng=2&radius=zzz", nil))
	require.Equal(t, 400, rec.Code)
}

func TestHandleNearbyErrorMapping(t *testing.T) {
	srv := newServer(&stubFinder{err: places.ErrNoAPIKey})

	rec := httptest.NewRecorder()
	srv.handleNearby(rec, httptest.NewRequest("GET", "/discover/nearby?lat=1&lng=2", nil))
	require.Equal(t, 500, rec.Code)

	srv = newServer(&stubFinder{err: errors.New("upstream exploded")})
	rec = httptest.NewRecorder()
	srv.handleNearby(rec, httptest.NewRequest("GET", "/discover/nearby?lat=1&lng=2", nil))
	require.Equal(t, 502, rec.Code)
}
