package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/matchday/internal/domain/league"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"
	CacheBackendRedis  = "redis"
)

// Config stores runtime configuration for the dashboard data layer.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	APIFootballBaseURL         string
	APIFootballKey             string
	APIFootballTimeout         time.Duration
	APIFootballRatePerMinute   int
	APIFootballTimezone        string
	APIFootballCircuitEnabled  bool
	APIFootballCircuitFailures int
	APIFootballCircuitOpenFor  time.Duration
	APIFootballCircuitHalfOpen int

	CacheBackend       string
	CacheDir           string
	CacheRedisURL      string
	CacheMaxBytes      int64
	CacheEviction      cache.EvictionPolicy
	CacheSchemaVersion string

	FeedPollInterval time.Duration
	FeedDaysBefore   int
	FeedDaysAfter    int
	FeedLeagues      league.Set
	FeedLocation     *time.Location

	SeasonFallbackMax int
	WorkerPoolSize    int
	DefaultLocale     locale.Locale

	UptraceEnabled bool
	UptraceDSN     string
	MetricsEnabled bool
	MetricsAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load reads the environment, after applying a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	apiTimeout, err := time.ParseDuration(getEnv("APIFOOTBALL_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_TIMEOUT: %w", err)
	}
	if apiTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_TIMEOUT must be > 0")
	}
	ratePerMinute, err := getEnvAsInt("APIFOOTBALL_RATE_PER_MINUTE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_RATE_PER_MINUTE: %w", err)
	}
	if ratePerMinute == 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_RATE_PER_MINUTE must not be 0, use a negative value to disable limiting")
	}
	timezone := strings.TrimSpace(getEnv("APIFOOTBALL_TIMEZONE", "Asia/Tokyo"))
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_TIMEZONE: %w", err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("APIFOOTBALL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailures, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailures <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_FAILURE_COUNT must be > 0")
	}
	circuitOpenFor, err := time.ParseDuration(getEnv("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenFor <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	circuitHalfOpen, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpen <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0")
	}

	cacheBackend, err := parseCacheBackend(getEnv("CACHE_BACKEND", CacheBackendMemory))
	if err != nil {
		return Config{}, err
	}
	cacheDir := strings.TrimSpace(getEnv("CACHE_DIR", ".matchday-cache"))
	if cacheBackend == CacheBackendBadger && cacheDir == "" {
		return Config{}, fmt.Errorf("CACHE_DIR is required when CACHE_BACKEND=badger")
	}
	cacheRedisURL := strings.TrimSpace(getEnv("CACHE_REDIS_URL", ""))
	if cacheBackend == CacheBackendRedis && cacheRedisURL == "" {
		return Config{}, fmt.Errorf("CACHE_REDIS_URL is required when CACHE_BACKEND=redis")
	}
	cacheMaxBytes, err := strconv.ParseInt(getEnv("CACHE_MAX_BYTES", strconv.Itoa(5<<20)), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_MAX_BYTES: %w", err)
	}
	if cacheMaxBytes < 0 {
		return Config{}, fmt.Errorf("CACHE_MAX_BYTES must be >= 0")
	}
	cacheEviction, err := parseEviction(getEnv("CACHE_EVICTION", string(cache.EvictOldest)))
	if err != nil {
		return Config{}, err
	}

	pollInterval, err := time.ParseDuration(getEnv("FEED_POLL_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_POLL_INTERVAL: %w", err)
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("FEED_POLL_INTERVAL must be > 0")
	}
	daysBefore, err := getEnvAsInt("FEED_DAYS_BEFORE", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_DAYS_BEFORE: %w", err)
	}
	daysAfter, err := getEnvAsInt("FEED_DAYS_AFTER", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_DAYS_AFTER: %w", err)
	}
	if daysBefore < 0 || daysAfter < 0 {
		return Config{}, fmt.Errorf("FEED_DAYS_BEFORE and FEED_DAYS_AFTER must be >= 0")
	}
	leagues, err := league.ParseSet(getEnv("FEED_LEAGUES", "active"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_LEAGUES: %w", err)
	}

	fallbackMax, err := getEnvAsInt("SEASON_FALLBACK_MAX", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_FALLBACK_MAX: %w", err)
	}
	if fallbackMax < 0 {
		return Config{}, fmt.Errorf("SEASON_FALLBACK_MAX must be >= 0")
	}
	poolSize, err := getEnvAsInt("WORKER_POOL_SIZE", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse WORKER_POOL_SIZE: %w", err)
	}
	if poolSize <= 0 {
		return Config{}, fmt.Errorf("WORKER_POOL_SIZE must be > 0")
	}
	rawLocale := getEnv("DEFAULT_LOCALE", string(locale.Default))
	defaultLocale, ok := locale.Parse(rawLocale)
	if !ok {
		return Config{}, fmt.Errorf("invalid DEFAULT_LOCALE %q", rawLocale)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	metricsAddr := strings.TrimSpace(getEnv("METRICS_ADDR", ":9464"))

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	serviceName := strings.TrimSpace(getEnv("APP_SERVICE_NAME", "matchday"))

	return Config{
		AppEnv:                     appEnv,
		ServiceName:                serviceName,
		ServiceVersion:             strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		APIFootballBaseURL:         strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		APIFootballKey:             strings.TrimSpace(getEnv("APIFOOTBALL_KEY", "")),
		APIFootballTimeout:         apiTimeout,
		APIFootballRatePerMinute:   ratePerMinute,
		APIFootballTimezone:        timezone,
		APIFootballCircuitEnabled:  circuitEnabled,
		APIFootballCircuitFailures: circuitFailures,
		APIFootballCircuitOpenFor:  circuitOpenFor,
		APIFootballCircuitHalfOpen: circuitHalfOpen,
		CacheBackend:               cacheBackend,
		CacheDir:                   cacheDir,
		CacheRedisURL:              cacheRedisURL,
		CacheMaxBytes:              cacheMaxBytes,
		CacheEviction:              cacheEviction,
		CacheSchemaVersion:         strings.TrimSpace(getEnv("CACHE_SCHEMA_VERSION", "1")),
		FeedPollInterval:           pollInterval,
		FeedDaysBefore:             daysBefore,
		FeedDaysAfter:              daysAfter,
		FeedLeagues:                leagues,
		FeedLocation:               location,
		SeasonFallbackMax:          fallbackMax,
		WorkerPoolSize:             poolSize,
		DefaultLocale:              defaultLocale,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		MetricsEnabled:             metricsEnabled,
		MetricsAddr:                metricsAddr,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

func parseLogLevel(v string) logging.Level {
	return logging.ParseLevel(v)
}

func parseCacheBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case CacheBackendMemory, CacheBackendBadger, CacheBackendRedis:
		return value, nil
	default:
		return "", fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s, %s", v, CacheBackendMemory, CacheBackendBadger, CacheBackendRedis)
	}
}

func parseEviction(v string) (cache.EvictionPolicy, error) {
	value := cache.EvictionPolicy(strings.ToLower(strings.TrimSpace(v)))
	switch value {
	case cache.EvictOldest, cache.EvictAll:
		return value, nil
	default:
		return "", fmt.Errorf("invalid CACHE_EVICTION %q: valid values are %s, %s", v, cache.EvictOldest, cache.EvictAll)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
