package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"seacrew/internal/validator/crewdoc"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Store        StoreConfig
	JWT          JWTConfig
	S3           S3Config
	Log          LogConfig
	Extractor    ExtractorConfig
	Verification VerificationConfig
	CORS         CORSConfig
}

// CORSConfig holds the origins of the review UI.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// ExtractorProviderConfig holds settings for a single OCR/vision provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	// Languages is only read by the tesseract provider (e.g. "eng").
	Languages []string `mapstructure:"languages"`
}

// ExtractorConfig holds the ordered extraction provider chain.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
	// MinConfidence is the OCR confidence below which the next provider is also tried.
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// Chain returns the configured providers in fallback order, skipping empty slots.
func (e *ExtractorConfig) Chain() []*ExtractorProviderConfig {
	var out []*ExtractorProviderConfig
	for _, p := range []*ExtractorProviderConfig{&e.Primary, &e.Secondary, &e.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// VerificationConfig holds the thresholds of the verification engine.
type VerificationConfig struct {
	NameMatchThreshold   int    `mapstructure:"name_match_threshold"`
	NameWarningThreshold int    `mapstructure:"name_warning_threshold"`
	LowScoreThreshold    int    `mapstructure:"low_score_threshold"`
	ExpirySentinelYear   int    `mapstructure:"expiry_sentinel_year"`
	SupersedeMaxRetries  int    `mapstructure:"supersede_max_retries"`
	RulesFile            string `mapstructure:"rules_file"`
}

// Thresholds returns the name-matcher tiers.
func (v *VerificationConfig) Thresholds() crewdoc.NameThresholds {
	return crewdoc.NameThresholds{Match: v.NameMatchThreshold, Warning: v.NameWarningThreshold}
}

// Validate rejects inconsistent thresholds.
func (v *VerificationConfig) Validate() error {
	if v.NameMatchThreshold < 0 || v.NameMatchThreshold > 100 || v.NameWarningThreshold < 0 {
		return fmt.Errorf("verification: name thresholds must lie in 0..100")
	}
	if v.NameWarningThreshold > v.NameMatchThreshold {
		return fmt.Errorf("verification: name_warning_threshold %d exceeds name_match_threshold %d",
			v.NameWarningThreshold, v.NameMatchThreshold)
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify bearer tokens.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Expiry time.Duration `mapstructure:"expiry"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SEACREW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SEACREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 20)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "seacrew")
	v.SetDefault("db.password", "seacrew_secret")
	v.SetDefault("db.name", "seacrew_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("store.driver", StoreDriverPostgres)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "seacrew")
	v.SetDefault("jwt.expiry", "12h")

	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "seacrew-scans")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 900)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("extractor.primary.provider", "claude")
	v.SetDefault("extractor.primary.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.languages", "eng")
	v.SetDefault("extractor.min_confidence", 0.5)

	v.SetDefault("verification.name_match_threshold", 85)
	v.SetDefault("verification.name_warning_threshold", 70)
	v.SetDefault("verification.low_score_threshold", 80)
	v.SetDefault("verification.expiry_sentinel_year", 1900)
	v.SetDefault("verification.supersede_max_retries", 3)
	v.SetDefault("verification.rules_file", "")

	envBindings := map[string]string{
		"server.port":                         "SEACREW_SERVER_PORT",
		"server.read_timeout":                 "SEACREW_SERVER_READ_TIMEOUT",
		"server.write_timeout":                "SEACREW_SERVER_WRITE_TIMEOUT",
		"server.environment":                  "SEACREW_SERVER_ENVIRONMENT",
		"server.max_upload_mb":                "SEACREW_SERVER_MAX_UPLOAD_MB",
		"db.host":                             "SEACREW_DB_HOST",
		"db.port":                             "SEACREW_DB_PORT",
		"db.user":                             "SEACREW_DB_USER",
		"db.password":                         "SEACREW_DB_PASSWORD",
		"db.name":                             "SEACREW_DB_NAME",
		"db.sslmode":                          "SEACREW_DB_SSLMODE",
		"db.max_open":                         "SEACREW_DB_MAX_OPEN",
		"db.max_idle":                         "SEACREW_DB_MAX_IDLE",
		"store.driver":                        "SEACREW_STORE_DRIVER",
		"jwt.secret":                          "SEACREW_JWT_SECRET",
		"jwt.issuer":                          "SEACREW_JWT_ISSUER",
		"jwt.expiry":                          "SEACREW_JWT_EXPIRY",
		"s3.region":                           "SEACREW_S3_REGION",
		"s3.bucket":                           "SEACREW_S3_BUCKET",
		"s3.endpoint":                         "SEACREW_S3_ENDPOINT",
		"s3.access_key":                       "SEACREW_S3_ACCESS_KEY",
		"s3.secret_key":                       "SEACREW_S3_SECRET_KEY",
		"s3.presign_expiry":                   "SEACREW_S3_PRESIGN_EXPIRY",
		"log.level":                           "SEACREW_LOG_LEVEL",
		"log.format":                          "SEACREW_LOG_FORMAT",
		"cors.allowed_origins":                "SEACREW_CORS_ALLOWED_ORIGINS",
		"extractor.min_confidence":            "SEACREW_EXTRACTOR_MIN_CONFIDENCE",
		"verification.name_match_threshold":   "SEACREW_VERIFICATION_NAME_MATCH_THRESHOLD",
		"verification.name_warning_threshold": "SEACREW_VERIFICATION_NAME_WARNING_THRESHOLD",
		"verification.low_score_threshold":    "SEACREW_VERIFICATION_LOW_SCORE_THRESHOLD",
		"verification.expiry_sentinel_year":   "SEACREW_VERIFICATION_EXPIRY_SENTINEL_YEAR",
		"verification.supersede_max_retries":  "SEACREW_VERIFICATION_SUPERSEDE_MAX_RETRIES",
		"verification.rules_file":             "SEACREW_VERIFICATION_RULES_FILE",
	}
	for _, slot := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "base_url", "timeout_secs", "languages"} {
			key := "extractor." + slot + "." + field
			envBindings[key] = "SEACREW_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if SEACREW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SEACREW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Store = StoreConfig{Driver: strings.ToLower(v.GetString("store.driver"))}
	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("store.driver: unknown driver %q", cfg.Store.Driver)
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
		Expiry: v.GetDuration("jwt.expiry"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}
	cfg.Extractor = ExtractorConfig{
		Primary:       providerConfig(v, "primary"),
		Secondary:     providerConfig(v, "secondary"),
		Tertiary:      providerConfig(v, "tertiary"),
		MinConfidence: v.GetFloat64("extractor.min_confidence"),
	}
	cfg.Verification = VerificationConfig{
		NameMatchThreshold:   v.GetInt("verification.name_match_threshold"),
		NameWarningThreshold: v.GetInt("verification.name_warning_threshold"),
		LowScoreThreshold:    v.GetInt("verification.low_score_threshold"),
		ExpirySentinelYear:   v.GetInt("verification.expiry_sentinel_year"),
		SupersedeMaxRetries:  v.GetInt("verification.supersede_max_retries"),
		RulesFile:            v.GetString("verification.rules_file"),
	}
	if err := cfg.Verification.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, slot string) ExtractorProviderConfig {
	prefix := "extractor." + slot + "."
	return ExtractorProviderConfig{
		Provider:     strings.ToLower(v.GetString(prefix + "provider")),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		BaseURL:      v.GetString(prefix + "base_url"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		Languages:    splitList(v.GetString(prefix + "languages")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
