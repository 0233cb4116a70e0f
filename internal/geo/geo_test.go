package geo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umercadal/trippier/backend/internal/geo"
)

func TestDistanceZeroOnSamePoint(t *testing.T) {
	require.Zero(t, geo.Distance(48.8584, 2.2945, 48.8584, 2.2945))
}

func TestDistanceSymmetric(t *testing.T) {
	ab := geo.Distance(48.8584, 2.2945, 51.5074, -0.1278)
	ba := geo.Distance(51.5074, -0.1278, 48.8584, 2.2945)
	require.InDelta(t, ab, ba, 1e-9)
	require.Positive(t, ab)
}

func TestDistanceKnownValue(t *testing.T) {
	// Eiffel Tower to Notre-Dame, roughly 4.1 km.
	d := geo.Distance(48.8584, 2.2945, 48.8530, 2.3499)
	require.InDelta(t, 4.1, d, 0.2)
}

func TestDistanceNonNegative(t *testing.T) {
	points := [][4]float64{
		{0, 0, 0, 0},
		{90, 0, -90, 0},
		{-33.8688, 151.2093, 40.7128, -74.0060},
		{0.0001, 0.0001, -0.0001, -0.0001},
	}
	for _, p := range points {
		require.GreaterOrEqual(t, geo.Distance(p[0], p[1], p[2], p[3]), 0.0)
	}
}
