package models

import "time"

// DateLayout is the timestamp format used in the flat-file stores and the
// feed path.
const DateLayout = "2006-01-02 15:04:05"

// Ad is a candidate listing scraped from the search page, normalized and
// price-filtered but not yet checked against the store. The struct is
// comparable so a batch can be deduplicated by value.
type Ad struct {
	ExternalID string
	Title      string
	Price      float64
	URL        string
	AuthorID   string
	Created    time.Time
}

// NewAd is the outbound notification record built for an ad the moment it
// is first persisted. It is never stored on its own.
type NewAd struct {
	Title   string
	Price   float64
	URL     string
	Author  string
	Contact string
	Created time.Time
}

// BaseAd is the minimal record kept in the flat-file store for feed
// rendering.
type BaseAd struct {
	ID              string
	Tag             string
	Title           string
	PublicationDate string
	ParseDate       string
	URL             string
}

// DetailedAd extends BaseAd with the description and image gallery shown
// in the detailed feed.
type DetailedAd struct {
	BaseAd
	Description string
	ImageURLs   []string
}

// FullAd carries everything DetailedAd has plus the landlord fields.
// Only the debug feed uses it.
type FullAd struct {
	DetailedAd
	ExternalID string
	Name       string
	Phone      string
}
