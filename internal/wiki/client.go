package wiki

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const userAgent = "TrippierBot/1.0"

// GeoHit is one geosearch result: an article near a coordinate.
type GeoHit struct {
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

// Page is the outcome of a detail fetch.
type Page struct {
	URL     string
	Extract string
	Missing bool
}

// Client talks to one MediaWiki-compatible API endpoint (a Wikipedia
// language edition or Wikivoyage). All calls go through a circuit breaker so
// a dead endpoint fails fast instead of stalling every enrichment.
type Client struct {
	apiURL string
	httpc  *http.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
	log    *slog.Logger
}

// NewClient builds a client for a full API URL such as
// "https://en.wikipedia.org/w/api.php".
func NewClient(apiURL string, httpc *http.Client, log *slog.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:     apiURL,
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("wiki breaker state change",
				slog.String("endpoint", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{apiURL: apiURL, httpc: httpc, cb: cb, log: log}
}

// GeoSearch returns up to limit articles within radiusMeters of a coordinate,
// nearest first.
func (c *Client) GeoSearch(ctx context.Context, lat, lng float64, radiusMeters, limit int) ([]GeoHit, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "geosearch")
	q.Set("gscoord", fmt.Sprintf("%f|%f", lat, lng))
	q.Set("gsradius", strconv.Itoa(radiusMeters))
	q.Set("gslimit", strconv.Itoa(limit))
	q.Set("format", "json")

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Query struct {
			GeoSearch []GeoHit `json:"geosearch"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode geosearch response: %w", err)
	}

	return parsed.Query.GeoSearch, nil
}

// TitleSearch returns up to limit article titles ordered by textual
// similarity to the query, via the opensearch endpoint.
func (c *Client) TitleSearch(ctx context.Context, query string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("action", "opensearch")
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("namespace", "0")
	q.Set("format", "json")

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	// Opensearch answers a positional array: [query, titles, descriptions, urls].
	var parsed []json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode opensearch response: %w", err)
	}
	if len(parsed) < 2 {
		return nil, nil
	}

	var titles []string
	if err := json.Unmarshal(parsed[1], &titles); err != nil {
		return nil, fmt.Errorf("decode opensearch titles: %w", err)
	}

	return titles, nil
}

// Detail fetches the canonical URL and introductory plain-text extract of a
// page, addressed by pageID when known and by title otherwise. A missing
// page is reported through Page.Missing, not an error.
func (c *Client) Detail(ctx context.Context, pageID int, title string) (*Page, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("prop", "extracts|info")
	q.Set("exintro", "1")
	q.Set("explaintext", "1")
	q.Set("inprop", "url")
	q.Set("format", "json")
	if pageID > 0 {
		q.Set("pageids", strconv.Itoa(pageID))
	} else {
		q.Set("titles", title)
	}

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Query struct {
			Pages map[string]struct {
				FullURL string  `json:"fullurl"`
				Extract string  `json:"extract"`
				Missing *string `json:"missing"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode detail response: %w", err)
	}

	for _, page := range parsed.Query.Pages {
		return &Page{URL: page.FullURL, Extract: page.Extract, Missing: page.Missing != nil}, nil
	}

	return &Page{Missing: true}, nil
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	return c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		res, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("wiki request: %w", err)
		}
		defer res.Body.Close()

		if res.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("wiki request failed: %s", res.Status)
		}

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("read wiki response: %w", err)
		}

		return body, nil
	})
}
