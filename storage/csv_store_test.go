package storage

import (
	"errors"
	"reflect"
	"testing"

	"olx-notifier/models"
)

func baseAd(id string) models.BaseAd {
	return models.BaseAd{
		ID:              id,
		Tag:             "arenda-uzhgorod",
		Title:           "Сдам квартиру " + id,
		PublicationDate: "2021-11-04 12:58:45",
		ParseDate:       "2021-11-04 13:00:00",
		URL:             "https://www.olx.ua/d/obyavlenie/" + id + ".html",
	}
}

func TestCSVStoreInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := s.SaveBase([]models.BaseAd{baseAd("1")}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Second init must not recreate existing files.
	s2, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("re-init failed: %v", err)
	}
	ads, err := s2.LoadBase()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ads) != 1 {
		t.Fatalf("expected 1 ad to survive re-init, got %d", len(ads))
	}
}

func TestBaseRoundTrip(t *testing.T) {
	s, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	want := []models.BaseAd{baseAd("1"), baseAd("2")}
	if err := s.SaveBase(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.LoadBase()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveDetailedReplacesByID(t *testing.T) {
	s, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ad := models.DetailedAd{
		BaseAd:      baseAd("1"),
		Description: "6 этаж 9-и этажного дома",
		ImageURLs: []string{
			"https://ireland.apollo.olxcdn.com/v1/files/aaa-UA/image",
			"https://ireland.apollo.olxcdn.com/v1/files/bbb-UA/image",
		},
	}
	if err := s.SaveDetailed(ad); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	ad.Description = "обновлённое описание"
	if err := s.SaveDetailed(ad); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	ads, err := s.LoadDetailed()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ads) != 1 {
		t.Fatalf("expected the record to be replaced, got %d rows", len(ads))
	}
	if ads[0].Description != "обновлённое описание" {
		t.Errorf("stale description %q", ads[0].Description)
	}
	if !reflect.DeepEqual(ads[0].ImageURLs, ad.ImageURLs) {
		t.Errorf("image urls mismatch: %v", ads[0].ImageURLs)
	}
}

func TestFullRoundTrip(t *testing.T) {
	s, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ad := models.FullAd{
		DetailedAd: models.DetailedAd{
			BaseAd:      baseAd("1"),
			Description: "тёплая, есть лоджия",
			ImageURLs:   []string{"https://ireland.apollo.olxcdn.com/v1/files/ccc-UA/image"},
		},
		ExternalID: "725276749",
		Name:       "Феликс",
		Phone:      "+380995437751",
	}
	if err := s.SaveFull(ad); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	ads, err := s.LoadFull()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ads) != 1 || !reflect.DeepEqual(ads[0], ad) {
		t.Fatalf("round trip mismatch: %+v", ads)
	}
}

func TestBaseByID(t *testing.T) {
	s, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := s.SaveBase([]models.BaseAd{baseAd("1")}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := s.BaseByID("1"); err != nil {
		t.Errorf("expected hit for id 1, got %v", err)
	}

	_, err = s.BaseByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestURLListSerialization(t *testing.T) {
	tests := []struct {
		urls []string
	}{
		{nil},
		{[]string{"https://a.example/1"}},
		{[]string{"https://a.example/1", "https://a.example/2", "https://a.example/3"}},
	}

	for _, tt := range tests {
		got := DeserializeURLs(SerializeURLs(tt.urls))
		if !reflect.DeepEqual(got, tt.urls) {
			t.Errorf("round trip of %v = %v", tt.urls, got)
		}
	}
}
