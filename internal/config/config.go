package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Airtable  AirtableConfig
	Anthropic AnthropicConfig
	Connect   ConnectConfig
	Dropbox   DropboxConfig
	Archive   ArchiveConfig
	Hub       HubConfig
	Digest    DigestConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig covers both token paths: Entra-issued bearer tokens from Brain
// (verified via JWKS) and the HMAC shared secret fallback.
type AuthConfig struct {
	EntraTenantID string
	EntraClientID string
	SharedSecret  string
}

type RateLimitConfig struct {
	UpdatePerMin int
	SetupPerMin  int
	FilePerMin   int
	WipPerHour   int
}

type AirtableConfig struct {
	APIKey string
	BaseID string
}

type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ConnectConfig holds the Power Automate webhook endpoints the workers
// report through.
type ConnectConfig struct {
	PostmanURL  string // outbound email
	TeamsbotURL string // channel posts
	SetupbotURL string // channel provisioning
}

type DropboxConfig struct {
	AppKey       string
	AppSecret    string
	RefreshToken string
}

// ArchiveConfig is the S3-compatible bucket raw source messages are
// archived to. Optional; filing works without it.
type ArchiveConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

type HubConfig struct {
	URL             string
	TokenSecret     string
	TokenExpiryDays int
}

type DigestConfig struct {
	Recipient string
	FirstName string
	DailyCron string // asynq scheduler spec for the TO DO digest
	Enabled   bool
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("AIRTABLE_API_KEY")
	readSecret("ANTHROPIC_API_KEY")
	readSecret("DROPBOX_APP_SECRET")
	readSecret("DROPBOX_REFRESH_TOKEN")
	readSecret("ARCHIVE_ACCESS_KEY_ID")
	readSecret("ARCHIVE_SECRET_ACCESS_KEY")
	readSecret("AUTH_SHARED_SECRET")
	readSecret("TOKEN_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("auth.entra_tenant_id", "ENTRA_TENANT_ID")
	_ = viper.BindEnv("auth.entra_client_id", "ENTRA_CLIENT_ID")
	_ = viper.BindEnv("auth.shared_secret", "AUTH_SHARED_SECRET")
	_ = viper.BindEnv("airtable.api_key", "AIRTABLE_API_KEY")
	_ = viper.BindEnv("airtable.base_id", "AIRTABLE_BASE_ID")
	_ = viper.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = viper.BindEnv("anthropic.base_url", "ANTHROPIC_BASE_URL")
	_ = viper.BindEnv("anthropic.model", "ANTHROPIC_MODEL")
	_ = viper.BindEnv("connect.postman_url", "PA_POSTMAN_URL")
	_ = viper.BindEnv("connect.teamsbot_url", "PA_TEAMSBOT_URL")
	_ = viper.BindEnv("connect.setupbot_url", "PA_SETUPBOT_URL")
	_ = viper.BindEnv("dropbox.app_key", "DROPBOX_APP_KEY")
	_ = viper.BindEnv("dropbox.app_secret", "DROPBOX_APP_SECRET")
	_ = viper.BindEnv("dropbox.refresh_token", "DROPBOX_REFRESH_TOKEN")
	_ = viper.BindEnv("archive.account_id", "ARCHIVE_ACCOUNT_ID")
	_ = viper.BindEnv("archive.access_key_id", "ARCHIVE_ACCESS_KEY_ID")
	_ = viper.BindEnv("archive.secret_access_key", "ARCHIVE_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("archive.bucket_name", "ARCHIVE_BUCKET_NAME")
	_ = viper.BindEnv("archive.public_url", "ARCHIVE_PUBLIC_URL")
	_ = viper.BindEnv("hub.url", "HUB_URL")
	_ = viper.BindEnv("hub.token_secret", "TOKEN_SECRET")
	_ = viper.BindEnv("hub.token_expiry_days", "TOKEN_EXPIRY_DAYS")
	_ = viper.BindEnv("digest.recipient", "TODO_RECIPIENT")
	_ = viper.BindEnv("digest.first_name", "TODO_FIRST_NAME")
	_ = viper.BindEnv("digest.daily_cron", "TODO_CRON")
	_ = viper.BindEnv("digest.enabled", "TODO_ENABLED")

	// Defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("ratelimit.update_per_min", 30)
	viper.SetDefault("ratelimit.setup_per_min", 10)
	viper.SetDefault("ratelimit.file_per_min", 30)
	viper.SetDefault("ratelimit.wip_per_hour", 20)

	// Anthropic defaults
	viper.SetDefault("anthropic.base_url", "https://api.anthropic.com/v1")
	viper.SetDefault("anthropic.model", "claude-sonnet-4-20250514")

	// Hub defaults
	viper.SetDefault("hub.url", "https://dot.hunch.co.nz")
	viper.SetDefault("hub.token_expiry_days", 7)

	// Digest defaults: 7am weekdays, Pacific/Auckland handled by the host TZ
	viper.SetDefault("digest.daily_cron", "0 7 * * 1-5")
	viper.SetDefault("digest.enabled", false)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			EntraTenantID: viper.GetString("auth.entra_tenant_id"),
			EntraClientID: viper.GetString("auth.entra_client_id"),
			SharedSecret:  viper.GetString("auth.shared_secret"),
		},
		RateLimit: RateLimitConfig{
			UpdatePerMin: viper.GetInt("ratelimit.update_per_min"),
			SetupPerMin:  viper.GetInt("ratelimit.setup_per_min"),
			FilePerMin:   viper.GetInt("ratelimit.file_per_min"),
			WipPerHour:   viper.GetInt("ratelimit.wip_per_hour"),
		},
		Airtable: AirtableConfig{
			APIKey: viper.GetString("airtable.api_key"),
			BaseID: viper.GetString("airtable.base_id"),
		},
		Anthropic: AnthropicConfig{
			APIKey:  viper.GetString("anthropic.api_key"),
			BaseURL: viper.GetString("anthropic.base_url"),
			Model:   viper.GetString("anthropic.model"),
		},
		Connect: ConnectConfig{
			PostmanURL:  viper.GetString("connect.postman_url"),
			TeamsbotURL: viper.GetString("connect.teamsbot_url"),
			SetupbotURL: viper.GetString("connect.setupbot_url"),
		},
		Dropbox: DropboxConfig{
			AppKey:       viper.GetString("dropbox.app_key"),
			AppSecret:    viper.GetString("dropbox.app_secret"),
			RefreshToken: viper.GetString("dropbox.refresh_token"),
		},
		Archive: ArchiveConfig{
			AccountID:       viper.GetString("archive.account_id"),
			AccessKeyID:     viper.GetString("archive.access_key_id"),
			SecretAccessKey: viper.GetString("archive.secret_access_key"),
			BucketName:      viper.GetString("archive.bucket_name"),
			PublicURL:       viper.GetString("archive.public_url"),
		},
		Hub: HubConfig{
			URL:             viper.GetString("hub.url"),
			TokenSecret:     viper.GetString("hub.token_secret"),
			TokenExpiryDays: viper.GetInt("hub.token_expiry_days"),
		},
		Digest: DigestConfig{
			Recipient: viper.GetString("digest.recipient"),
			FirstName: viper.GetString("digest.first_name"),
			DailyCron: viper.GetString("digest.daily_cron"),
			Enabled:   viper.GetBool("digest.enabled"),
		},
	}

	return cfg, nil
}
