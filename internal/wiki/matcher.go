package wiki

import (
	"context"
	"log/slog"
	"strings"
)

// Searcher is the slice of the wiki client the matcher needs.
type Searcher interface {
	GeoSearch(ctx context.Context, lat, lng float64, radiusMeters, limit int) ([]GeoHit, error)
	TitleSearch(ctx context.Context, query string, limit int) ([]string, error)
	Detail(ctx context.Context, pageID int, title string) (*Page, error)
}

// Article is an accepted match: canonical URL plus the lead line of the
// introductory extract.
type Article struct {
	URL     string
	Summary string
}

// MatcherOptions tune candidate scoring. The threshold is an empirical
// cutoff, not derived from provider semantics; keep it configurable.
type MatcherOptions struct {
	// MaxCandidates caps both search calls and anchors the positional score:
	// the first result of a list scores MaxCandidates, the last scores 1.
	MaxCandidates int
	// GeoRadius is the geosearch radius in meters for Match.
	GeoRadius int
	// GuideRadius is the wider geosearch radius in meters for MatchNearest,
	// since travel-guide articles cover whole districts or cities.
	GuideRadius int
	// CorroborationBonus is added when a title appears in both the geo and
	// the title result sets.
	CorroborationBonus float64
	// ExactBonus rewards a case-insensitive exact title match with the place
	// name. It is the largest single bonus.
	ExactBonus float64
	// PartialBonus rewards substring containment in either direction.
	PartialBonus float64
	// Threshold is the minimum score an accepted candidate must reach.
	Threshold float64
}

// DefaultMatcherOptions returns the tuning used in production. The default
// threshold equals the positional score of a lone nearest geo hit, so a
// single uncorroborated geosearch result still matches.
func DefaultMatcherOptions() MatcherOptions {
	return MatcherOptions{
		MaxCandidates:      5,
		GeoRadius:          1000,
		GuideRadius:        5000,
		CorroborationBonus: 10,
		ExactBonus:         25,
		PartialBonus:       10,
		Threshold:          5,
	}
}

// Matcher resolves the best-matching article of one encyclopedia provider
// for a named place near a coordinate.
type Matcher struct {
	client Searcher
	opts   MatcherOptions
	log    *slog.Logger
}

// NewMatcher builds a matcher; zero option fields fall back to defaults.
func NewMatcher(client Searcher, opts MatcherOptions, log *slog.Logger) *Matcher {
	def := DefaultMatcherOptions()
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = def.MaxCandidates
	}
	if opts.GeoRadius <= 0 {
		opts.GeoRadius = def.GeoRadius
	}
	if opts.GuideRadius <= 0 {
		opts.GuideRadius = def.GuideRadius
	}
	if opts.CorroborationBonus <= 0 {
		opts.CorroborationBonus = def.CorroborationBonus
	}
	if opts.ExactBonus <= 0 {
		opts.ExactBonus = def.ExactBonus
	}
	if opts.PartialBonus <= 0 {
		opts.PartialBonus = def.PartialBonus
	}
	if opts.Threshold <= 0 {
		opts.Threshold = def.Threshold
	}
	return &Matcher{client: client, opts: opts, log: log}
}

type candidate struct {
	title  string
	pageID int
	score  float64
}

// Match runs a geo search and a title search, scores the merged candidate
// set, and resolves the winner's detail page. It never fails: provider
// errors and the no-match case both come back as nil.
func (m *Matcher) Match(ctx context.Context, name string, lat, lng float64) *Article {
	geoHits, err := m.client.GeoSearch(ctx, lat, lng, m.opts.GeoRadius, m.opts.MaxCandidates)
	if err != nil {
		m.log.Debug("geosearch failed", slog.String("name", name), slog.Any("err", err))
		geoHits = nil
	}

	titles, err := m.client.TitleSearch(ctx, name, m.opts.MaxCandidates)
	if err != nil {
		m.log.Debug("title search failed", slog.String("name", name), slog.Any("err", err))
		titles = nil
	}

	best := m.pickBest(name, geoHits, titles)
	if best == nil {
		return nil
	}

	return m.resolve(ctx, best)
}

// MatchNearest is the single-pass travel-guide mode: take the nearest
// geosearch hit within the wider guide radius and fetch its detail directly,
// with no scoring.
func (m *Matcher) MatchNearest(ctx context.Context, lat, lng float64) *Article {
	hits, err := m.client.GeoSearch(ctx, lat, lng, m.opts.GuideRadius, 1)
	if err != nil {
		m.log.Debug("guide geosearch failed", slog.Any("err", err))
		return nil
	}
	if len(hits) == 0 {
		return nil
	}

	return m.resolve(ctx, &candidate{title: hits[0].Title, pageID: hits[0].PageID})
}

// pickBest merges both result lists into one scored candidate set keyed by
// title and returns the winner, or nil when no candidate clears the
// threshold. Scoring signals, strongest textual signal first: exact title
// equality, appearing in both result sets, substring containment, list
// position.
func (m *Matcher) pickBest(name string, geoHits []GeoHit, titles []string) *candidate {
	byTitle := make(map[string]*candidate)
	var order []*candidate

	add := func(title string) *candidate {
		key := strings.ToLower(title)
		if c, ok := byTitle[key]; ok {
			return c
		}
		c := &candidate{title: title}
		byTitle[key] = c
		order = append(order, c)
		return c
	}

	for i, hit := range geoHits {
		c := add(hit.Title)
		c.pageID = hit.PageID
		c.score += m.positional(i)
	}

	for i, title := range titles {
		_, seen := byTitle[strings.ToLower(title)]
		c := add(title)
		c.score += m.positional(i)
		if seen {
			c.score += m.opts.CorroborationBonus
		}
	}

	target := strings.ToLower(name)
	for _, c := range order {
		title := strings.ToLower(c.title)
		switch {
		case title == target:
			c.score += m.opts.ExactBonus
		case strings.Contains(title, target) || strings.Contains(target, title):
			c.score += m.opts.PartialBonus
		}
	}

	var best *candidate
	for _, c := range order {
		if best == nil || c.score > best.score {
			best = c
		}
	}

	if best == nil || best.score < m.opts.Threshold {
		return nil
	}
	return best
}

func (m *Matcher) positional(rank int) float64 {
	score := float64(m.opts.MaxCandidates - rank)
	if score < 1 {
		return 1
	}
	return score
}

func (m *Matcher) resolve(ctx context.Context, best *candidate) *Article {
	page, err := m.client.Detail(ctx, best.pageID, best.title)
	if err != nil {
		m.log.Debug("detail fetch failed", slog.String("title", best.title), slog.Any("err", err))
		return nil
	}
	if page.Missing {
		return nil
	}

	return &Article{URL: page.URL, Summary: leadLine(page.Extract)}
}

// leadLine surfaces only the first line of a potentially multi-paragraph
// extract.
func leadLine(extract string) string {
	if i := strings.IndexByte(extract, '\n'); i >= 0 {
		return extract[:i]
	}
	return extract
}
