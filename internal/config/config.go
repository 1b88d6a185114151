package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all merge settings, populated from environment variables.
type Config struct {
	ShardDir       string
	ReferencePath  string
	OutputPath     string
	ReportPath     string
	ExpectedCities int

	ShardTimezone       *time.Location
	TempMinC            float64
	TempMaxC            float64
	DropOutliers        bool
	RequireFullCoverage bool
	MergeWorkers        int

	// MergeInterval > 0 runs the merge as a long-lived service.
	MergeInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional report sinks. Empty values disable them.
	KafkaBrokers     []string
	KafkaReportTopic string
	PushgatewayURL   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	tzName := sharedcfg.EnvOrDefault("SHARD_TIMEZONE", "Europe/Istanbul")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SHARD_TIMEZONE %q: %w", tzName, err)
	}

	expected, err := parsePositiveInt("EXPECTED_CITIES", 81)
	if err != nil {
		return nil, err
	}
	workers, err := parsePositiveInt("MERGE_WORKERS", 1)
	if err != nil {
		return nil, err
	}
	minTemp, err := parseFloat("TEMP_MIN_C", -50)
	if err != nil {
		return nil, err
	}
	maxTemp, err := parseFloat("TEMP_MAX_C", 60)
	if err != nil {
		return nil, err
	}
	dropOutliers, err := parseBool("DROP_OUTLIERS")
	if err != nil {
		return nil, err
	}
	fullCoverage, err := parseBool("REQUIRE_FULL_COVERAGE")
	if err != nil {
		return nil, err
	}

	interval, err := time.ParseDuration(sharedcfg.EnvOrDefault("MERGE_INTERVAL", "0s"))
	if err != nil || interval < 0 {
		return nil, errors.New("invalid MERGE_INTERVAL")
	}

	cfg := &Config{
		ShardDir:            sharedcfg.EnvOrDefault("SHARD_DIR", "data/city_weather_data"),
		ReferencePath:       sharedcfg.EnvOrDefault("REFERENCE_PATH", "data/locations.csv"),
		OutputPath:          sharedcfg.EnvOrDefault("OUTPUT_PATH", "data/turkey_weather_master.csv"),
		ReportPath:          os.Getenv("REPORT_PATH"),
		ExpectedCities:      expected,
		ShardTimezone:       tz,
		TempMinC:            minTemp,
		TempMaxC:            maxTemp,
		DropOutliers:        dropOutliers,
		RequireFullCoverage: fullCoverage,
		MergeWorkers:        workers,
		MergeInterval:       interval,
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		KafkaReportTopic:    sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "weather-master-runs"),
		PushgatewayURL:      os.Getenv("PUSHGATEWAY_URL"),
	}
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(raw)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that flags may have changed after Load.
func (c *Config) Validate() error {
	if c.ShardDir == "" {
		return errors.New("SHARD_DIR is required")
	}
	if c.ReferencePath == "" {
		return errors.New("REFERENCE_PATH is required")
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}
	if within(c.ShardDir, c.OutputPath) {
		return fmt.Errorf("OUTPUT_PATH %q must not be inside SHARD_DIR %q", c.OutputPath, c.ShardDir)
	}
	if c.TempMinC >= c.TempMaxC {
		return fmt.Errorf("TEMP_MIN_C (%g) must be below TEMP_MAX_C (%g)", c.TempMinC, c.TempMaxC)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaReportTopic == "" {
		return errors.New("KAFKA_REPORT_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// within reports whether path lies in dir or one of its subdirectories.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return f, nil
}

func parseBool(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return b, nil
}
