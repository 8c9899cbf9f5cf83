// Load envs from .env
// Provide documented defaults
// No process-wide singletons: Load() is called once in main

package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	//AI backend
	GeminiAPIKey string
	GeminiModel  string

	//Flags
	Debug           bool
	HeadlessBrowser bool

	//Storage
	DBPath    string
	CachePath string

	//Site registry overlay (optional YAML file)
	SitesPath string

	//Search parameters for the assistant run
	Sites    []string
	Query    string
	Location string

	//Notifications (optional)
	TelegramToken  string
	TelegramChatID int64

	//User agents rotated per browser session
	UserAgents []string
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		Debug:           parseBool(os.Getenv("DEBUG"), false),
		HeadlessBrowser: parseBool(os.Getenv("HEADLESS_BROWSER"), true),
		DBPath:          getEnv("DB_PATH", "./data/jobtracker.db"),
		CachePath:       getEnv("CACHE_DIR", "./.cache"),
		SitesPath:       os.Getenv("SITES_CONFIG"),
		Query:           getEnv("JOB_QUERY", "software engineer"),
		Location:        os.Getenv("JOB_LOCATION"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		UserAgents:      defaultUserAgents,
	}

	//comma-separated site keys, e.g. "indeed,linkedin"
	if sites := os.Getenv("JOB_SITES"); sites != "" {
		for _, s := range strings.Split(sites, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Sites = append(cfg.Sites, s)
			}
		}
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Printf("⚠️ Invalid TELEGRAM_CHAT_ID %q: %v. Notifications disabled.", chatID, err)
		} else {
			cfg.TelegramChatID = id
		}
	}

	//missing AI credential is not fatal: AI operations degrade to error results
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️ GEMINI_API_KEY not set. AI processing will be limited.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBool accepts "true"/"1"/"t" in any case
func parseBool(v string, fallback bool) bool {
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "true", "1", "t":
		return true
	default:
		return false
	}
}
