package olx

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"olx-notifier/config"
	"olx-notifier/models"
	"olx-notifier/utils"
)

// Card selectors for the OLX search results page.
const (
	cardSelector     = `div[data-cy="l-card"]`
	titleSelector    = `h6, h4`
	priceSelector    = `p[data-testid="ad-price"]`
	linkSelector     = `a`
	locationSelector = `p[data-testid="location-date"]`
)

// externalIDSpace bounds the hash-derived id to 8 decimal digits.
var externalIDSpace = big.NewInt(100_000_000)

// Scraper fetches the OLX search page and turns result cards into Ads.
type Scraper struct {
	cfg    *config.Config
	client *http.Client
	logger *utils.Logger
}

// New creates a ready-to-use OLX Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Fetch downloads the search page and returns the parsed, price-filtered,
// deduplicated batch of ads. A non-200 response is fatal for the run.
func (s *Scraper) Fetch(ctx context.Context) ([]models.Ad, error) {
	searchURL := s.cfg.SearchURL()
	s.logger.Info("[olx] Starting fetch — %s", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("olx: build request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("olx: get %s: %w", searchURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("olx: unexpected status %d for %s", resp.StatusCode, searchURL)
	}

	return s.Parse(resp.Body)
}

// Parse extracts ads from the search page HTML. Cards whose price fails to
// parse are logged and skipped; cards outside the configured price band are
// dropped; the result is deduplicated by value.
func (s *Scraper) Parse(r io.Reader) ([]models.Ad, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("olx: parse page: %w", err)
	}

	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("olx: bad base url %q: %w", s.cfg.BaseURL, err)
	}

	cards := doc.Find(cardSelector)
	s.logger.Info("[olx] Start processing %d ads", cards.Length())

	seen := make(map[models.Ad]struct{})
	ads := make([]models.Ad, 0, cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(titleSelector).First().Text())
		href, ok := card.Find(linkSelector).First().Attr("href")
		if title == "" || !ok {
			s.logger.Warn("[olx] Skipping card without title or link")
			return
		}
		adURL := resolveURL(base, href)

		price, err := ParsePrice(card.Find(priceSelector).First().Text())
		if err != nil {
			s.logger.Warn("[olx] Error during parsing a price for %q: %v", title, err)
			return
		}

		if price < s.cfg.MinPrice || price > s.cfg.MaxPrice {
			s.logger.Debug("[olx] Price %.0f out of band [%.0f, %.0f]: %s",
				price, s.cfg.MinPrice, s.cfg.MaxPrice, adURL)
			return
		}

		ad := models.Ad{
			ExternalID: ExternalID(adURL),
			Title:      title,
			Price:      price,
			URL:        adURL,
			AuthorID:   strings.TrimSpace(card.Find(locationSelector).First().Text()),
		}

		if _, dup := seen[ad]; dup {
			return
		}
		seen[ad] = struct{}{}
		ads = append(ads, ad)
	})

	s.logger.Info("[olx] Found %d ads after filtering", len(ads))
	return ads, nil
}

// ParsePrice converts a raw price label like "7 500 грн." into a number.
// The currency suffix is cut off and space-class thousands separators
// (including NBSP) are removed.
func ParsePrice(raw string) (float64, error) {
	if i := strings.Index(raw, "грн"); i >= 0 {
		raw = raw[:i]
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price in %q", raw)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed price %q", raw)
	}
	return price, nil
}

// ExternalID derives the stable dedup key for an ad from its URL: SHA-1 of
// the absolute URL reduced to 8 decimal digits. Not globally unique;
// collisions are accepted.
func ExternalID(adURL string) string {
	sum := sha1.Sum([]byte(adURL))
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, externalIDSpace).String()
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
