package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adukes40/de-school-closings/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Closings feed.
	FeedURL      string
	FeedTTL      time.Duration
	FeedMaxStale time.Duration
	StatusScheme domain.Scheme

	// ArcGIS catalog layers, one query URL per catalog type.
	DistrictsURL string
	VotechURL    string
	ChartersURL  string

	// Upstream HTTP client.
	UpstreamTimeout time.Duration
	UpstreamRetries int

	// Kafka snapshot publishing. Disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether snapshot publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

const firstMapBase = "https://enterprise.firstmap.delaware.gov/arcgis/rest/services/Society"

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	feedTTL, err := envDuration("FEED_TTL", 3*time.Minute)
	if err != nil {
		return nil, err
	}
	feedMaxStale, err := envDuration("FEED_MAX_STALE", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := envDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	scheme, err := domain.ParseScheme(envOrDefault("STATUS_SCHEME", "strict"))
	if err != nil {
		return nil, err
	}

	retries, err := envInt("HTTP_RETRY_MAX", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedURL:      envOrDefault("FEED_URL", "https://www.wgmd.com/feed/closings"),
		FeedTTL:      feedTTL,
		FeedMaxStale: feedMaxStale,
		StatusScheme: scheme,

		DistrictsURL: envOrDefault("ARCGIS_DISTRICTS_URL",
			firstMapBase+"/DE_SchoolDistricts/FeatureServer/0/query?where=1%3D1&outFields=NAME&returnGeometry=false&f=json"),
		VotechURL: envOrDefault("ARCGIS_VOTECH_URL",
			firstMapBase+"/DE_VotechDistricts/FeatureServer/0/query?where=1%3D1&outFields=CODE&returnGeometry=false&f=json"),
		ChartersURL: envOrDefault("ARCGIS_CHARTERS_URL",
			firstMapBase+"/DE_CharterSchools/FeatureServer/0/query?where=1%3D1&outFields=NAME&returnGeometry=false&f=json"),

		UpstreamTimeout: upstreamTimeout,
		UpstreamRetries: retries,

		KafkaBrokers: splitBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "school-closings"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.DistrictsURL == "" || cfg.VotechURL == "" || cfg.ChartersURL == "" {
		return nil, errors.New("all three ARCGIS_*_URL values are required")
	}
	if cfg.FeedMaxStale < cfg.FeedTTL {
		return nil, errors.New("FEED_MAX_STALE must be at least FEED_TTL")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
