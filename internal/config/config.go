package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nfaconnect/matchday/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	CacheTTL                time.Duration
	LogLevel                logging.Level

	WebhookSecret    string
	InternalJobToken string

	GenerationEnabled        bool
	NewsroomInterval         time.Duration
	StandingsRefreshInterval time.Duration
	TaskWorkers              int
	TaskTimeout              time.Duration

	NewswireEnabled               bool
	NewswireBaseURL               string
	NewswireToken                 string
	NewswireTimeout               time.Duration
	NewswireCircuitEnabled        bool
	NewswireCircuitFailureCount   int
	NewswireCircuitOpenTimeout    time.Duration
	NewswireCircuitHalfOpenMaxReq int

	ImageFinderEnabled               bool
	ImageFinderBaseURL               string
	ImageFinderTimeout               time.Duration
	ImageFinderCircuitEnabled        bool
	ImageFinderCircuitFailureCount   int
	ImageFinderCircuitOpenTimeout    time.Duration
	ImageFinderCircuitHalfOpenMaxReq int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	webhookSecret := strings.TrimSpace(getEnv("WEBHOOK_SECRET", ""))
	if webhookSecret == "" {
		return Config{}, fmt.Errorf("WEBHOOK_SECRET is required")
	}

	generationEnabled, err := strconv.ParseBool(getEnv("GENERATION_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GENERATION_ENABLED: %w", err)
	}

	newsroomInterval, err := time.ParseDuration(getEnv("NEWSROOM_INTERVAL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSROOM_INTERVAL: %w", err)
	}
	if newsroomInterval <= 0 {
		return Config{}, fmt.Errorf("NEWSROOM_INTERVAL must be > 0")
	}

	standingsRefreshInterval, err := time.ParseDuration(getEnv("STANDINGS_REFRESH_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_REFRESH_INTERVAL: %w", err)
	}
	if standingsRefreshInterval <= 0 {
		return Config{}, fmt.Errorf("STANDINGS_REFRESH_INTERVAL must be > 0")
	}

	taskWorkers, err := getEnvAsInt("TASK_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse TASK_WORKERS: %w", err)
	}
	if taskWorkers < 1 {
		return Config{}, fmt.Errorf("TASK_WORKERS must be >= 1")
	}
	taskTimeout, err := time.ParseDuration(getEnv("TASK_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TASK_TIMEOUT: %w", err)
	}
	if taskTimeout <= 0 {
		return Config{}, fmt.Errorf("TASK_TIMEOUT must be > 0")
	}

	newswireEnabled, err := strconv.ParseBool(getEnv("NEWSWIRE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSWIRE_ENABLED: %w", err)
	}
	newswireBaseURL := strings.TrimSpace(getEnv("NEWSWIRE_BASE_URL", ""))
	newswireToken := strings.TrimSpace(getEnv("NEWSWIRE_TOKEN", ""))
	if newswireEnabled {
		if newswireBaseURL == "" {
			return Config{}, fmt.Errorf("NEWSWIRE_BASE_URL is required when NEWSWIRE_ENABLED=true")
		}
		if newswireToken == "" {
			return Config{}, fmt.Errorf("NEWSWIRE_TOKEN is required when NEWSWIRE_ENABLED=true")
		}
	}
	newswireTimeout, err := time.ParseDuration(getEnv("NEWSWIRE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSWIRE_TIMEOUT: %w", err)
	}
	if newswireTimeout <= 0 {
		return Config{}, fmt.Errorf("NEWSWIRE_TIMEOUT must be > 0")
	}
	newswireCircuitEnabled, err := strconv.ParseBool(getEnv("NEWSWIRE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSWIRE_CIRCUIT_ENABLED: %w", err)
	}
	newswireCircuitFailureCount, err := getEnvAsInt("NEWSWIRE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSWIRE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if newswireCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NEWSWIRE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	newswireCircuitOpenTimeout, err := time.ParseDuration(getEnv("NEWSWIRE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSWIRE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if newswireCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NEWSWIRE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	newswireCircuitHalfOpenMaxReq, err := getEnvAsInt("NEWSWIRE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWSWIRE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if newswireCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NEWSWIRE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	imageFinderEnabled, err := strconv.ParseBool(getEnv("IMAGE_FINDER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IMAGE_FINDER_ENABLED: %w", err)
	}
	imageFinderBaseURL := strings.TrimSpace(getEnv("IMAGE_FINDER_BASE_URL", ""))
	if imageFinderEnabled && imageFinderBaseURL == "" {
		return Config{}, fmt.Errorf("IMAGE_FINDER_BASE_URL is required when IMAGE_FINDER_ENABLED=true")
	}
	imageFinderTimeout, err := time.ParseDuration(getEnv("IMAGE_FINDER_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IMAGE_FINDER_TIMEOUT: %w", err)
	}
	if imageFinderTimeout <= 0 {
		return Config{}, fmt.Errorf("IMAGE_FINDER_TIMEOUT must be > 0")
	}
	imageFinderCircuitEnabled, err := strconv.ParseBool(getEnv("IMAGE_FINDER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IMAGE_FINDER_CIRCUIT_ENABLED: %w", err)
	}
	imageFinderCircuitFailureCount, err := getEnvAsInt("IMAGE_FINDER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMAGE_FINDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if imageFinderCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("IMAGE_FINDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	imageFinderCircuitOpenTimeout, err := time.ParseDuration(getEnv("IMAGE_FINDER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IMAGE_FINDER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if imageFinderCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("IMAGE_FINDER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	imageFinderCircuitHalfOpenMaxReq, err := getEnvAsInt("IMAGE_FINDER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMAGE_FINDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if imageFinderCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("IMAGE_FINDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

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

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                           appEnv,
		ServiceName:                      getEnv("APP_SERVICE_NAME", "matchday-api"),
		ServiceVersion:                   getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                         getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                            strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:          dbDisablePreparedBinary,
		CORSAllowedOrigins:               splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                      readTimeout,
		WriteTimeout:                     writeTimeout,
		CacheTTL:                         cacheTTL,
		LogLevel:                         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		WebhookSecret:                    webhookSecret,
		InternalJobToken:                 strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		GenerationEnabled:                generationEnabled,
		NewsroomInterval:                 newsroomInterval,
		StandingsRefreshInterval:         standingsRefreshInterval,
		TaskWorkers:                      taskWorkers,
		TaskTimeout:                      taskTimeout,
		NewswireEnabled:                  newswireEnabled,
		NewswireBaseURL:                  newswireBaseURL,
		NewswireToken:                    newswireToken,
		NewswireTimeout:                  newswireTimeout,
		NewswireCircuitEnabled:           newswireCircuitEnabled,
		NewswireCircuitFailureCount:      newswireCircuitFailureCount,
		NewswireCircuitOpenTimeout:       newswireCircuitOpenTimeout,
		NewswireCircuitHalfOpenMaxReq:    newswireCircuitHalfOpenMaxReq,
		ImageFinderEnabled:               imageFinderEnabled,
		ImageFinderBaseURL:               imageFinderBaseURL,
		ImageFinderTimeout:               imageFinderTimeout,
		ImageFinderCircuitEnabled:        imageFinderCircuitEnabled,
		ImageFinderCircuitFailureCount:   imageFinderCircuitFailureCount,
		ImageFinderCircuitOpenTimeout:    imageFinderCircuitOpenTimeout,
		ImageFinderCircuitHalfOpenMaxReq: imageFinderCircuitHalfOpenMaxReq,
		UptraceEnabled:                   uptraceEnabled,
		UptraceDSN:                       uptraceDSN,
		PyroscopeEnabled:                 pyroscopeEnabled,
		PyroscopeServerAddress:           pyroscopeServerAddress,
		PyroscopeAuthToken:               strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:           strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:              pyroscopeUploadRate,
		PprofEnabled:                     pprofEnabled,
		PprofAddr:                        pprofAddr,
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
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
