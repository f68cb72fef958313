package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Chat      ChatConfig
	RateLimit RateLimitConfig
	Profile   ProfileConfig
	Advisor   AdvisorConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// RedisConfig with an empty Addr selects the in-memory cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ChatConfig struct {
	SessionTTL time.Duration
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// ProfileConfig stands in for a borrower profile lookup.
type ProfileConfig struct {
	CreditScore  float64
	DebtToIncome float64
}

type AdvisorConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (c AdvisorConfig) Enabled() bool {
	return c.APIKey != ""
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment and an optional .env file.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return cfg, err
	}
	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return cfg, err
	}
	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Addr:           getEnv("SERVER_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		AllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	redisDB, err := parseNonNegativeIntEnv("REDIS_DB", 0)
	if err != nil {
		return cfg, err
	}
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	sessionTTL, err := parseDurationEnv("CHAT_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return cfg, err
	}
	cfg.Chat = ChatConfig{SessionTTL: sessionTTL}

	perMinute, err := parseIntEnv("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return cfg, err
	}
	burst, err := parseIntEnv("RATE_LIMIT_BURST", 10)
	if err != nil {
		return cfg, err
	}
	cfg.RateLimit = RateLimitConfig{PerMinute: perMinute, Burst: burst}

	creditScore, err := parseFloatEnv("PROFILE_CREDIT_SCORE", 720)
	if err != nil {
		return cfg, err
	}
	dti, err := parseFloatEnv("PROFILE_DTI", 35)
	if err != nil {
		return cfg, err
	}
	cfg.Profile = ProfileConfig{CreditScore: creditScore, DebtToIncome: dti}

	advisorTimeout, err := parseDurationEnv("ADVISOR_TIMEOUT", 20*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.Advisor = AdvisorConfig{
		APIKey:  getEnv("OPENAI_API_KEY", ""),
		Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout: advisorTimeout,
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}

	if c.Profile.CreditScore < 300 || c.Profile.CreditScore > 850 {
		return fmt.Errorf("PROFILE_CREDIT_SCORE must be between 300 and 850")
	}

	if c.Profile.DebtToIncome < 0 {
		return fmt.Errorf("PROFILE_DTI must not be negative")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseNonNegativeIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseCSVEnv(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
