package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"cn-data/internal/fetch"
	"cn-data/internal/model"
)

// Config holds application configuration from env
type Config struct {
	DataDir        string        `validate:"required"`
	SaveFormat     string        `validate:"oneof=csv parquet json"`
	LogLevel       string        // debug | info | warn | error
	BufferCapacity int           `validate:"gt=0"`
	FetchTimeout   time.Duration `validate:"gt=0"`
	FetchRate      float64       `validate:"gte=0"`
	UserAgent      string        `validate:"required"`
	ProxyURL       string
	Venues         []model.Venue `validate:"min=1"`
	CrawlDays      int           `validate:"gt=0"`
	CrawlWorkers   int           `validate:"gt=0,lte=64"`
	CrawlRunHour   int           `validate:"gte=0,lte=23"`
	CrawlRunMinute int           `validate:"gte=0,lte=59"`
}

var validate = validator.New()

// LoadConfig reads config from environment and validates it
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DataDir:        getEnv("DATA_DIR", "data"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		UserAgent:      getEnv("USER_AGENT", "cn-data-fetch/1.0"),
		ProxyURL:       os.Getenv("PROXY_URL"),
		BufferCapacity: fetch.DefaultCapacity,
		FetchTimeout:   fetch.DefaultTimeout,
		CrawlDays:      7,
		CrawlWorkers:   4,
		CrawlRunHour:   9,
		CrawlRunMinute: 30,
	}
	cfg.SaveFormat = strings.ToLower(strings.TrimSpace(getSaveFormat()))

	if v := os.Getenv("BUFFER_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("BUFFER_CAPACITY: %w", err)
		}
		cfg.BufferCapacity = n
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if v := os.Getenv("FETCH_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("FETCH_RATE: %w", err)
		}
		cfg.FetchRate = r
	}
	if v := os.Getenv("CRAWL_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CRAWL_DAYS: %w", err)
		}
		cfg.CrawlDays = n
	}
	if v := os.Getenv("CRAWL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CRAWL_WORKERS: %w", err)
		}
		cfg.CrawlWorkers = n
	}
	if v := os.Getenv("CRAWL_RUN_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CRAWL_RUN_HOUR: %w", err)
		}
		cfg.CrawlRunHour = n
	}
	if v := os.Getenv("CRAWL_RUN_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CRAWL_RUN_MINUTE: %w", err)
		}
		cfg.CrawlRunMinute = n
	}

	venues, err := parseVenues()
	if err != nil {
		return nil, err
	}
	cfg.Venues = venues

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getSaveFormat() string {
	if v := os.Getenv("SAVE_FORMAT"); v != "" {
		return v
	}
	switch os.Getenv("PROFILE") {
	case "dev", "development":
		return "csv"
	case "prod", "production", "":
		return "parquet"
	default:
		return "parquet"
	}
}

func parseVenues() ([]model.Venue, error) {
	s := getEnv("VENUES", "SHFE,CFFEX,CZCE,DCE")
	var venues []model.Venue
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := model.ParseVenue(part)
		if err != nil {
			return nil, fmt.Errorf("VENUES: %w", err)
		}
		venues = append(venues, v)
	}
	return venues, nil
}

// SaveBaseDir returns data/daily
func (c *Config) SaveBaseDir() string {
	return filepath.Join(c.DataDir, "daily")
}

// ProgressPath returns path to .lastday.json
func (c *Config) ProgressPath() string {
	return filepath.Join(c.SaveBaseDir(), ".lastday.json")
}
