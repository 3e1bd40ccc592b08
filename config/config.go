package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL    string
	SearchPath string
	UserAgent  string

	MinPrice float64
	MaxPrice float64

	DBName  string
	DataDir string

	TelegramBotKey  string
	TelegramChatIDs []int64
	SendDelayMs     int

	FeedBindAddr string
	FeedLink     string
	FeedLanguage string
	FeedTitle    string
	FeedAuthor   string
	FeedTag      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:    getEnv("BASE_URL", "https://www.olx.ua"),
		SearchPath: getEnv("SEARCH_PATH", "/d/nedvizhimost/kvartiry/dolgosrochnaya-arenda-kvartir/uzhgorod/"),
		UserAgent: getEnv("DEFAULT_USER_AGENT",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		MinPrice: getEnvFloat("MIN_PRICE", 1000),
		MaxPrice: getEnvFloat("MAX_PRICE", 10000),

		DBName:  getEnv("DB_NAME", "ads.db"),
		DataDir: getEnv("DATA_DIR", "."),

		TelegramBotKey:  getEnv("TELEGRAM_BOT_KEY", ""),
		TelegramChatIDs: getEnvInt64List("TELEGRAM_CHAT_IDS"),
		SendDelayMs:     getEnvInt("SEND_DELAY_MS", 250),

		FeedBindAddr: getEnv("FEED_BIND_ADDR", "127.0.0.1:8080"),
		FeedLink:     getEnv("FEED_LINK", "http://127.0.0.1/rss"),
		FeedLanguage: getEnv("FEED_LANGUAGE", "ru-Ru"),
		FeedTitle:    getEnv("FEED_TITLE", "rss from olx"),
		FeedAuthor:   getEnv("FEED_AUTHOR", "olx-notifier"),
		FeedTag:      getEnv("FEED_TAG", "arenda-uzhgorod"),
	}
}

// SearchURL returns the absolute URL of the listings search page.
func (c *Config) SearchURL() string {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL + c.SearchPath
	}
	ref, err := url.Parse(c.SearchPath)
	if err != nil {
		return c.BaseURL + c.SearchPath
	}
	return base.ResolveReference(ref).String()
}

// SendDelay returns the pause inserted between consecutive Telegram sends.
func (c *Config) SendDelay() time.Duration {
	return time.Duration(c.SendDelayMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt64List(key string) []int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			log.Printf("[config] Skipping malformed chat id %q", trimmed)
			continue
		}
		out = append(out, id)
	}
	return out
}
