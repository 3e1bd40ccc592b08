package storage

import "olx-notifier/models"

// AdStore is the relational dedup store the pipeline filters against.
type AdStore interface {
	ExistingIDs(ids []string) (map[string]struct{}, error)
	Insert(ad models.Ad) (int64, error)
	Close() error
}

// BaseAdSink receives the per-run snapshot of fetched ads that feeds the
// basic RSS rendering.
type BaseAdSink interface {
	SaveBase(ads []models.BaseAd) error
}

// FeedStore is the read side of the flat-file stores backing the RSS feed.
type FeedStore interface {
	LoadBase() ([]models.BaseAd, error)
	LoadDetailed() ([]models.DetailedAd, error)
	BaseByID(id string) (models.BaseAd, error)
}
