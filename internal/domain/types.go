// Package domain holds the canonical shapes shared by every provider
// adapter and the aggregator: a performance Event, a supporting
// SourceLink, the search parameters, and the aggregate result.
package domain

// Sentinel values used in place of absent fields. Downstream code
// (deduplication keys, display) relies on these exact strings, so
// adapters must never emit an empty string for any of the four.
const (
	UnknownDate    = "Date unknown"
	UnknownVenue   = "Venue unknown"
	UnknownCity    = "City unknown"
	UnknownCountry = "Country unknown"
)

// Confidence expresses how much we trust a provider's event record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// LinkKind classifies a supporting reference.
type LinkKind string

const (
	LinkOfficial LinkKind = "official"
	LinkNews     LinkKind = "news"
	LinkMusicDB  LinkKind = "musicdb"
	LinkSocial   LinkKind = "social"
	LinkOther    LinkKind = "other"
)

// Event is one canonical performance record. Date, Venue, City and
// Country are never empty; absence is the matching Unknown* sentinel.
// Events are constructed once by an adapter and never mutated.
type Event struct {
	Date       string     `json:"date"`
	Venue      string     `json:"venue"`
	City       string     `json:"city"`
	Country    string     `json:"country"`
	Source     string     `json:"source"`
	SourceURL  string     `json:"sourceUrl"`
	Confidence Confidence `json:"confidence"`
	Setlist    []string   `json:"setlist,omitempty"`
	Capacity   int        `json:"capacity,omitempty"`
}

// SourceLink is a supporting reference (article, wiki page), not a
// performance record.
type SourceLink struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Kind          LinkKind `json:"type"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Snippet       string   `json:"snippet,omitempty"`
}

// SearchParams carries the caller's query. Artist is required; Country
// may be a full name, a demonym or an ISO-3166 alpha-2 code. City and
// the date range are accepted but not every provider honors them.
type SearchParams struct {
	Artist   string `json:"artist"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

// PerformanceResult is the aggregate answer for one (artist, country)
// query. Performed is true iff at least one deduplicated event
// survived. TotalAvailable is an upper-bound estimate: the maximum of
// the providers' self-reported totals, not a deduplicated count.
type PerformanceResult struct {
	Artist         string       `json:"artist"`
	Location       string       `json:"location"`
	Performed      bool         `json:"performed"`
	Events         []Event      `json:"events"`
	Sources        []SourceLink `json:"sources"`
	Message        string       `json:"message,omitempty"`
	ArtistImage    string       `json:"artistImage,omitempty"`
	TotalAvailable int          `json:"totalAvailable,omitempty"`
	Cached         bool         `json:"cached"`
}
