package models

// Place is a raw search hit from the place-search provider.
type Place struct {
	ID               string   `json:"place_id"`
	Name             string   `json:"name"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	Vicinity         string   `json:"vicinity,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	PhotoRefs        []string `json:"photo_refs,omitempty"`
}

// Address prefers the full formatted address over the short vicinity line.
func (p Place) Address() string {
	if p.FormattedAddress != "" {
		return p.FormattedAddress
	}
	return p.Vicinity
}

// PlaceDetails carries the contact fields from a place-detail lookup.
type PlaceDetails struct {
	Website                  string `json:"website,omitempty"`
	FormattedPhoneNumber     string `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string `json:"international_phone_number,omitempty"`
}

// Phone prefers the locally formatted number.
func (d PlaceDetails) Phone() string {
	if d.FormattedPhoneNumber != "" {
		return d.FormattedPhoneNumber
	}
	return d.InternationalPhoneNumber
}

// EnrichedData is the fused per-place enrichment record. Once computed for a
// place identifier it is cached for the lifetime of the process and never
// mutated; empty strings mean the field could not be resolved.
type EnrichedData struct {
	Description   string `json:"description,omitempty"`
	WikipediaURL  string `json:"wikipediaUrl,omitempty"`
	WikivoyageURL string `json:"wikivoyageUrl,omitempty"`
	Website       string `json:"website,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
}

// POI is one entry of the discovery response: basic place info merged with
// enrichment data. Field names match the Trippier web and mobile clients.
type POI struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Rating           float64 `json:"rating,omitempty"`
	UserRatingsTotal int     `json:"user_ratings_total,omitempty"`
	Distance         float64 `json:"distance"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Address          string  `json:"address,omitempty"`
	Thumbnail        string  `json:"thumbnail,omitempty"`
	WikipediaURL     string  `json:"wikipediaUrl,omitempty"`
	WikivoyageURL    string  `json:"wikivoyageUrl,omitempty"`
	OfficialWebsite  string  `json:"officialWebsite,omitempty"`
	PhoneNumber      string  `json:"phoneNumber,omitempty"`
	Description      string  `json:"description,omitempty"`
}
