package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	App      AppConfig
	CORS     CORSConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

const (
	LedgerModeDemo     = "demo"
	LedgerModeRecorded = "recorded"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// PayrollConfig holds the deduction rates and payslip history settings.
type PayrollConfig struct {
	LedgerMode          string
	CacheBackend        string
	CacheTTL            time.Duration
	HistoryMonths       int
	StandardWorkingDays int
	WarmupInterval      time.Duration
	WarmupConcurrency   int

	SocialInsuranceRate       decimal.Decimal
	HealthInsuranceRate       decimal.Decimal
	UnemploymentInsuranceRate decimal.Decimal
	IncomeTaxRate             decimal.Decimal
	FamilyAllowance           decimal.Decimal
	DependentAllowance        decimal.Decimal
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrm_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisPort, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     redisPort,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "hrm-payroll"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	payroll, err := loadPayrollConfig()
	if err != nil {
		return nil, err
	}
	config.Payroll = payroll

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayrollConfig() (PayrollConfig, error) {
	var (
		cfg PayrollConfig
		err error
	)

	cfg.LedgerMode = strings.ToLower(getEnv("PAYROLL_LEDGER_MODE", LedgerModeDemo))
	cfg.CacheBackend = strings.ToLower(getEnv("PAYSLIP_CACHE_BACKEND", CacheBackendMemory))

	if cfg.CacheTTL, err = getEnvDuration("PAYSLIP_CACHE_TTL", 0); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.WarmupInterval, err = getEnvDuration("PAYROLL_WARMUP_INTERVAL", 0); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.HistoryMonths, err = getEnvInt("PAYSLIP_HISTORY_MONTHS", 6); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.StandardWorkingDays, err = getEnvInt("PAYROLL_STANDARD_WORKING_DAYS", 22); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.WarmupConcurrency, err = getEnvInt("PAYROLL_WARMUP_CONCURRENCY", 4); err != nil {
		return PayrollConfig{}, err
	}

	rates := []struct {
		key      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"PAYROLL_SOCIAL_INSURANCE_RATE", "0.08", &cfg.SocialInsuranceRate},
		{"PAYROLL_HEALTH_INSURANCE_RATE", "0.015", &cfg.HealthInsuranceRate},
		{"PAYROLL_UNEMPLOYMENT_INSURANCE_RATE", "0.01", &cfg.UnemploymentInsuranceRate},
		{"PAYROLL_INCOME_TAX_RATE", "0.05", &cfg.IncomeTaxRate},
		{"PAYROLL_FAMILY_ALLOWANCE", "11000000", &cfg.FamilyAllowance},
		{"PAYROLL_DEPENDENT_ALLOWANCE", "4400000", &cfg.DependentAllowance},
	}
	for _, r := range rates {
		if *r.dst, err = getEnvDecimal(r.key, r.fallback); err != nil {
			return PayrollConfig{}, err
		}
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Payroll.LedgerMode != LedgerModeDemo && c.Payroll.LedgerMode != LedgerModeRecorded {
		return fmt.Errorf("PAYROLL_LEDGER_MODE must be %q or %q", LedgerModeDemo, LedgerModeRecorded)
	}
	if c.Payroll.CacheBackend != CacheBackendMemory && c.Payroll.CacheBackend != CacheBackendRedis {
		return fmt.Errorf("PAYSLIP_CACHE_BACKEND must be %q or %q", CacheBackendMemory, CacheBackendRedis)
	}
	if c.Payroll.HistoryMonths < 1 || c.Payroll.HistoryMonths > 36 {
		return fmt.Errorf("PAYSLIP_HISTORY_MONTHS must be between 1 and 36")
	}
	if c.Payroll.StandardWorkingDays < 1 || c.Payroll.StandardWorkingDays > 31 {
		return fmt.Errorf("PAYROLL_STANDARD_WORKING_DAYS must be between 1 and 31")
	}
	if c.Payroll.WarmupConcurrency < 1 {
		return fmt.Errorf("PAYROLL_WARMUP_CONCURRENCY must be positive")
	}
	if c.Payroll.CacheTTL < 0 {
		return fmt.Errorf("PAYSLIP_CACHE_TTL must not be negative")
	}
	return nil
}

// Warnings lists settings that are valid but change payslip durability.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Payroll.CacheBackend == CacheBackendRedis && c.Payroll.CacheTTL > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"PAYSLIP_CACHE_TTL=%s: cached payslip histories expire and are regenerated on next access; set 0 to keep them until explicitly regenerated",
			c.Payroll.CacheTTL))
	}
	return warnings
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// SlogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: must be non-negative", key)
	}
	return d, nil
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
