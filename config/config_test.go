package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.MinPrice != 1000 || cfg.MaxPrice != 10000 {
		t.Errorf("unexpected default price band [%.0f, %.0f]", cfg.MinPrice, cfg.MaxPrice)
	}
	if cfg.SendDelayMs != 250 {
		t.Errorf("unexpected default send delay %d", cfg.SendDelayMs)
	}
	if cfg.FeedTitle != "rss from olx" {
		t.Errorf("unexpected default feed title %q", cfg.FeedTitle)
	}
}

func TestLoadChatIDs(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_IDS", "-1001234567890, 42,oops, 7")

	cfg := Load()

	want := []int64{-1001234567890, 42, 7}
	if len(cfg.TelegramChatIDs) != len(want) {
		t.Fatalf("expected %d chat ids, got %v", len(want), cfg.TelegramChatIDs)
	}
	for i, id := range want {
		if cfg.TelegramChatIDs[i] != id {
			t.Errorf("chat id %d = %d; want %d", i, cfg.TelegramChatIDs[i], id)
		}
	}
}

func TestSearchURL(t *testing.T) {
	t.Setenv("BASE_URL", "https://www.olx.ua")
	t.Setenv("SEARCH_PATH", "/d/nedvizhimost/kvartiry/")

	cfg := Load()

	want := "https://www.olx.ua/d/nedvizhimost/kvartiry/"
	if got := cfg.SearchURL(); got != want {
		t.Errorf("SearchURL() = %q; want %q", got, want)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MIN_PRICE", "2500")
	t.Setenv("MAX_PRICE", "not-a-number")

	cfg := Load()

	if cfg.MinPrice != 2500 {
		t.Errorf("MIN_PRICE override ignored: %.0f", cfg.MinPrice)
	}
	if cfg.MaxPrice != 10000 {
		t.Errorf("malformed MAX_PRICE should fall back to default, got %.0f", cfg.MaxPrice)
	}
}
