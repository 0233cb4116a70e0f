package enrich_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/umercadal/trippier/backend/internal/enrich"
	"github.com/umercadal/trippier/backend/internal/models"
)

func TestCacheGetSet(t *testing.T) {
	cache := enrich.NewCache()

	_, ok := cache.Get("alpha")
	require.False(t, ok)

	data := models.EnrichedData{Description: "A tower.", WikipediaURL: "https://example.org"}
	cache.Set("alpha", data)

	got, ok := cache.Get("alpha")
	require.True(t, ok)
	require.Equal(t, data, got)
	require.Equal(t, 1, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := enrich.NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Set("shared", models.EnrichedData{Description: "same inputs"})
			_, _ = cache.Get("shared")
		}()
	}
	wg.Wait()

	got, ok := cache.Get("shared")
	require.True(t, ok)
	require.Equal(t, "same inputs", got.Description)
	require.Equal(t, 1, cache.Len())
}
