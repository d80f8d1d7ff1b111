package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
	AutoMigrate     bool
}

type AuthConfig struct {
	AccessSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type ReferenceConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Driver            string
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

type ExportConfig struct {
	MaxRows     int
	PDFFontPath string
}

type TelemetryConfig struct {
	Enabled       bool
	Endpoint      string
	Insecure      bool
	SamplingRatio float64
	ServiceName   string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Reference   ReferenceConfig
	Storage     StorageConfig
	Export      ExportConfig
	Telemetry   TelemetryConfig
}

const (
	StorageDriverS3     = "s3"
	StorageDriverMemory = "memory"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:               v.GetString("HTTP_HOST"),
			Port:               v.GetInt("HTTP_PORT"),
			CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetString("DB_AUTO_MIGRATE") == "" || v.GetBool("DB_AUTO_MIGRATE"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Reference: ReferenceConfig{
			BaseURL: strings.TrimRight(v.GetString("REFERENCE_URL"), "/"),
			Timeout: v.GetDuration("REFERENCE_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver:            strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Endpoint:          v.GetString("S3_ENDPOINT"),
			Region:            v.GetString("S3_REGION"),
			Bucket:            v.GetString("S3_BUCKET"),
			AccessKey:         v.GetString("S3_ACCESS_KEY"),
			SecretKey:         v.GetString("S3_SECRET_KEY"),
			UseSSL:            v.GetBool("S3_USE_SSL"),
			UsePathStyle:      v.GetString("S3_USE_PATH_STYLE") == "" || v.GetBool("S3_USE_PATH_STYLE"),
			PresignExpiration: v.GetDuration("S3_PRESIGN_TTL"),
		},
		Export: ExportConfig{
			MaxRows:     v.GetInt("EXPORT_MAX_ROWS"),
			PDFFontPath: v.GetString("EXPORT_PDF_FONT_PATH"),
		},
		Telemetry: TelemetryConfig{
			Enabled:       v.GetBool("OTEL_ENABLED"),
			Endpoint:      v.GetString("OTEL_ENDPOINT"),
			Insecure:      v.GetBool("OTEL_INSECURE"),
			SamplingRatio: v.GetFloat64("OTEL_SAMPLING_RATIO"),
			ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSAllowedOrigins) == 0 {
		cfg.HTTP.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Reference.Timeout <= 0 {
		cfg.Reference.Timeout = 10 * time.Second
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverS3
	}
	if cfg.Storage.PresignExpiration <= 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Export.MaxRows <= 0 {
		cfg.Export.MaxRows = 5000
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "contracts-service"
	}
	if cfg.Telemetry.SamplingRatio <= 0 {
		cfg.Telemetry.SamplingRatio = 1
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Reference.BaseURL == "" {
		return fmt.Errorf("REFERENCE_URL is required")
	}
	switch cfg.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverS3:
		if cfg.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
		if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("OTEL_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
