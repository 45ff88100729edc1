package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL    string
	ListingURL string

	Headless  bool
	UserAgent string
	ChromeBin string

	WaitTimeoutSec int
	SettleDelayMs  int
	RateLimitMs    int

	MaxPages  int
	NearbyCap int

	ListingCSVPath  string
	ListingJSONPath string
	DetailCSVPath   string
	DetailJSONPath  string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	base := getEnv("MICHELIN_BASE_URL", "https://guide.michelin.com")

	return &Config{
		BaseURL:    base,
		ListingURL: getEnv("MICHELIN_LISTING_URL", base+"/th/en/selection/thailand/restaurants"),

		Headless: getEnvBool("HEADLESS", true),
		UserAgent: getEnv("USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
				"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		ChromeBin: getEnv("CHROME_BIN", ""),

		WaitTimeoutSec: getEnvInt("WAIT_TIMEOUT_SEC", 15),
		SettleDelayMs:  getEnvInt("SETTLE_DELAY_MS", 2000),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),

		MaxPages:  getEnvInt("MAX_PAGES", 20),
		NearbyCap: getEnvInt("NEARBY_CAP", 10),

		ListingCSVPath:  getEnv("LISTING_CSV_PATH", "./output/michelin_thailand.csv"),
		ListingJSONPath: getEnv("LISTING_JSON_PATH", "./output/michelin_thailand.json"),
		DetailCSVPath:   getEnv("DETAIL_CSV_PATH", "./output/michelin_thailand_details.csv"),
		DetailJSONPath:  getEnv("DETAIL_JSON_PATH", "./output/michelin_thailand_details.json"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "michelin_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
