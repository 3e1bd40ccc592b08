package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"olx-notifier/models"
	"olx-notifier/storage"
	"olx-notifier/utils"
)

// Fetcher produces one batch of candidate ads.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Ad, error)
}

// Notifier delivers notification records to the configured chats.
// Delivery is best-effort; failures stay inside the implementation.
type Notifier interface {
	Notify(chatIDs []int64, ads []models.NewAd)
}

// Pipeline runs one fetch → dedupe → persist → notify cycle. Every step
// is sequential: the existence check happens before any insert, and all
// inserts happen before the first notification.
type Pipeline struct {
	fetcher  Fetcher
	store    storage.AdStore
	sink     storage.BaseAdSink
	notifier Notifier
	chatIDs  []int64
	tag      string
	logger   *utils.Logger
}

// NewPipeline wires the fetch, store and notify stages together. sink may
// be nil when the run should not refresh the feed snapshot; tag is the
// category tag stamped on snapshot records.
func NewPipeline(fetcher Fetcher, store storage.AdStore, sink storage.BaseAdSink,
	notifier Notifier, chatIDs []int64, tag string, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		store:    store,
		sink:     sink,
		notifier: notifier,
		chatIDs:  chatIDs,
		tag:      tag,
		logger:   logger,
	}
}

// FilterNew persists the ads whose external id is not yet in the store and
// returns their notification records in batch order. A storage failure
// aborts the batch; already-committed rows stay committed.
func (p *Pipeline) FilterNew(ads []models.Ad) ([]models.NewAd, error) {
	ids := make([]string, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ExternalID)
	}
	sort.Strings(ids)

	existing, err := p.store.ExistingIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("pipeline: check existing ads: %w", err)
	}

	newAds := make([]models.NewAd, 0, len(ads))
	for _, ad := range ads {
		if _, ok := existing[ad.ExternalID]; ok {
			continue
		}

		ad.Created = time.Now()
		if _, err := p.store.Insert(ad); err != nil {
			return nil, fmt.Errorf("pipeline: persist ad %s: %w", ad.ExternalID, err)
		}

		newAds = append(newAds, models.NewAd{
			Title:   ad.Title,
			Price:   ad.Price,
			URL:     ad.URL,
			Author:  ad.ExternalID,
			Contact: ad.AuthorID,
			Created: ad.Created,
		})
	}

	if len(newAds) == 0 {
		p.logger.Info("[pipeline] New ads not found")
	}
	return newAds, nil
}

// Run executes one full cycle. A notification lost between insert and
// send is accepted: the insert commits first and there is no retry.
func (p *Pipeline) Run(ctx context.Context) error {
	ads, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(ads) == 0 {
		p.logger.Info("[pipeline] Fetch returned no ads")
		return nil
	}

	// The feed snapshot is best-effort: a failed write must not block
	// dedupe or delivery.
	if p.sink != nil {
		if err := p.sink.SaveBase(p.snapshot(ads)); err != nil {
			p.logger.Error("[pipeline] Feed snapshot write failed: %v", err)
		}
	}

	newAds, err := p.FilterNew(ads)
	if err != nil {
		return err
	}
	if len(newAds) == 0 {
		return nil
	}

	p.logger.Info("[pipeline] Notifying %d chats about %d new ads",
		len(p.chatIDs), len(newAds))
	p.notifier.Notify(p.chatIDs, newAds)
	return nil
}

// snapshot converts the fetched batch into the flat-store records the
// basic feed renders, replacing the previous run's snapshot.
func (p *Pipeline) snapshot(ads []models.Ad) []models.BaseAd {
	now := time.Now().Format(models.DateLayout)
	out := make([]models.BaseAd, 0, len(ads))
	for _, ad := range ads {
		out = append(out, models.BaseAd{
			ID:              ad.ExternalID,
			Tag:             p.tag,
			Title:           ad.Title,
			PublicationDate: ad.AuthorID,
			ParseDate:       now,
			URL:             ad.URL,
		})
	}
	return out
}
