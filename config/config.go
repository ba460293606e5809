package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. Defaults come from the
// environment (optionally a .env file); the CLI overrides individual
// fields with flags.
type Config struct {
	MaxResults    int
	Headless      bool
	ScrapePhotos  bool
	ScrapeReviews bool
	PhotoFormat   string // jpg | webp | png
	MaxPhotos     int
	Browser       string // chrome | firefox | edge | safari
	BrowserBin    string

	OutputDir string
	LogFile   string
	Verbose   bool

	PostgresExport   bool
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

	return &Config{
		MaxResults:    getEnvInt("MAX_RESULTS", 10),
		Headless:      getEnvBool("HEADLESS", false),
		ScrapePhotos:  getEnvBool("SCRAPE_PHOTOS", true),
		ScrapeReviews: getEnvBool("SCRAPE_REVIEWS", true),
		PhotoFormat:   getEnv("PHOTO_FORMAT", "jpg"),
		MaxPhotos:     getEnvInt("MAX_PHOTOS", 5),
		Browser:       getEnv("BROWSER", "chrome"),
		BrowserBin:    getEnv("BROWSER_BIN", ""),

		OutputDir: getEnv("OUTPUT_DIR", "output_data"),
		LogFile:   getEnv("LOG_FILE", "scraper.log"),
		Verbose:   getEnvBool("VERBOSE", false),

		PostgresExport:   getEnvBool("POSTGRES_EXPORT", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "places_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// Validate checks field ranges and enum values.
func (c *Config) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("config: max results must be positive, got %d", c.MaxResults)
	}
	if c.MaxPhotos <= 0 {
		return fmt.Errorf("config: max photos must be positive, got %d", c.MaxPhotos)
	}
	switch c.PhotoFormat {
	case "jpg", "webp", "png":
	default:
		return fmt.Errorf("config: unsupported photo format %q (want jpg, webp or png)", c.PhotoFormat)
	}
	switch c.Browser {
	case "chrome", "firefox", "edge", "safari":
	default:
		return fmt.Errorf("config: unsupported browser %q (want chrome, firefox, edge or safari)", c.Browser)
	}
	return nil
}

// DSN returns the PostgreSQL connection string for the optional export.
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
