package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"olx-notifier/models"
)

// ErrNotFound is returned when a flat-store lookup misses.
var ErrNotFound = errors.New("storage: ad not found")

const (
	baseFileName   = ".base-ads.csv"
	detailFileName = ".detail-ads.csv"
	fullFileName   = ".full-ads.csv"
)

var (
	baseHeader = []string{"id", "tag", "title", "publication_date", "parse_date", "url"}
	detailHeader = []string{"id", "tag", "title", "publication_date", "parse_date", "url",
		"description", "image_urls"}
	fullHeader = []string{"id", "tag", "title", "publication_date", "parse_date", "url",
		"description", "image_urls", "external_id", "name", "phone"}
)

// CSVStore keeps the feed-path ad records in three delimited files
// (basic, detailed, full) under one directory, header row first.
type CSVStore struct {
	dir string
}

// NewCSVStore creates a store rooted at dir, creating any missing file
// with its header row. Re-running the initialization is a no-op.
func NewCSVStore(dir string) (*CSVStore, error) {
	s := &CSVStore{dir: dir}

	for path, header := range map[string][]string{
		s.path(baseFileName):   baseHeader,
		s.path(detailFileName): detailHeader,
		s.path(fullFileName):   fullHeader,
	} {
		if err := initFile(path, header); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func initFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("csv: stat %q: %w", path, err)
	}
	return writeAll(path, header, nil)
}

func writeAll(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func readAll(path string, want int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = want
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// SaveBase replaces the whole basic-ad file with the given collection.
func (s *CSVStore) SaveBase(ads []models.BaseAd) error {
	rows := make([][]string, 0, len(ads))
	for _, ad := range ads {
		rows = append(rows, baseRow(ad))
	}
	return writeAll(s.path(baseFileName), baseHeader, rows)
}

// LoadBase returns every stored basic ad.
func (s *CSVStore) LoadBase() ([]models.BaseAd, error) {
	records, err := readAll(s.path(baseFileName), len(baseHeader))
	if err != nil {
		return nil, err
	}
	ads := make([]models.BaseAd, 0, len(records))
	for _, rec := range records {
		ads = append(ads, baseFromRow(rec))
	}
	return ads, nil
}

// SaveDetailed stores one detailed ad, replacing any previous record with
// the same id.
func (s *CSVStore) SaveDetailed(ad models.DetailedAd) error {
	saved, err := s.LoadDetailed()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(saved)+1)
	for _, old := range saved {
		if old.ID == ad.ID {
			continue
		}
		rows = append(rows, detailRow(old))
	}
	rows = append(rows, detailRow(ad))

	return writeAll(s.path(detailFileName), detailHeader, rows)
}

// LoadDetailed returns every stored detailed ad.
func (s *CSVStore) LoadDetailed() ([]models.DetailedAd, error) {
	records, err := readAll(s.path(detailFileName), len(detailHeader))
	if err != nil {
		return nil, err
	}
	ads := make([]models.DetailedAd, 0, len(records))
	for _, rec := range records {
		ads = append(ads, detailFromRow(rec))
	}
	return ads, nil
}

// SaveFull stores one full ad, replacing any previous record with the
// same id.
func (s *CSVStore) SaveFull(ad models.FullAd) error {
	saved, err := s.LoadFull()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(saved)+1)
	for _, old := range saved {
		if old.ID == ad.ID {
			continue
		}
		rows = append(rows, fullRow(old))
	}
	rows = append(rows, fullRow(ad))

	return writeAll(s.path(fullFileName), fullHeader, rows)
}

// LoadFull returns every stored full ad.
func (s *CSVStore) LoadFull() ([]models.FullAd, error) {
	records, err := readAll(s.path(fullFileName), len(fullHeader))
	if err != nil {
		return nil, err
	}
	ads := make([]models.FullAd, 0, len(records))
	for _, rec := range records {
		ads = append(ads, fullFromRow(rec))
	}
	return ads, nil
}

// BaseByID looks up a basic ad; ErrNotFound when the id is absent.
func (s *CSVStore) BaseByID(id string) (models.BaseAd, error) {
	ads, err := s.LoadBase()
	if err != nil {
		return models.BaseAd{}, err
	}
	for _, ad := range ads {
		if ad.ID == id {
			return ad, nil
		}
	}
	return models.BaseAd{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func baseRow(ad models.BaseAd) []string {
	return []string{ad.ID, ad.Tag, ad.Title, ad.PublicationDate, ad.ParseDate, ad.URL}
}

func baseFromRow(rec []string) models.BaseAd {
	return models.BaseAd{
		ID:              rec[0],
		Tag:             rec[1],
		Title:           rec[2],
		PublicationDate: rec[3],
		ParseDate:       rec[4],
		URL:             rec[5],
	}
}

func detailRow(ad models.DetailedAd) []string {
	return append(baseRow(ad.BaseAd), ad.Description, SerializeURLs(ad.ImageURLs))
}

func detailFromRow(rec []string) models.DetailedAd {
	return models.DetailedAd{
		BaseAd:      baseFromRow(rec),
		Description: rec[6],
		ImageURLs:   DeserializeURLs(rec[7]),
	}
}

func fullRow(ad models.FullAd) []string {
	return append(detailRow(ad.DetailedAd), ad.ExternalID, ad.Name, ad.Phone)
}

func fullFromRow(rec []string) models.FullAd {
	return models.FullAd{
		DetailedAd: detailFromRow(rec),
		ExternalID: rec[8],
		Name:       rec[9],
		Phone:      rec[10],
	}
}

// SerializeURLs flattens an image-URL list into one comma-joined field.
// The delimiter is assumed to never occur inside a URL.
func SerializeURLs(urls []string) string {
	return strings.Join(urls, ",")
}

// DeserializeURLs splits a comma-joined field back into the URL list. An
// empty field yields an empty list.
func DeserializeURLs(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
