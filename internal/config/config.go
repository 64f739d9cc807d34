package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 存储驱动
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr   string
	Port         string
	DatabasePath string
	DBLogLevel   string
	GinMode      string

	SessionSecret string
	AdminUsername string
	AdminPassword string

	LogEnv   string
	LogLevel string

	StorageDriver string
	UploadDir     string
	UploadURLPath string
	SigningSecret string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3Prefix        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	MaxUploadBytes int64
	SignedURLTTL   time.Duration
}

// LoadDotEnv 依次加载存在的 .env 文件，已设置的环境变量不会被覆盖。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	port := env("PORT", "8080")

	cfg := AppConfig{
		ListenAddr:   env("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:         port,
		DatabasePath: env("DATABASE_PATH", "lensfolio.db"),
		DBLogLevel:   env("DB_LOG_LEVEL", "warn"),
		GinMode:      env("GIN_MODE", "release"),

		SessionSecret: env("SESSION_SECRET", "lensfolio-dev-secret"),
		AdminUsername: env("ADMIN_USERNAME", ""),
		AdminPassword: env("ADMIN_PASSWORD", ""),

		LogEnv:   env("LOG_ENV", "prod"),
		LogLevel: env("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(env("STORAGE_DRIVER", StorageDisk)),
		UploadDir:     env("UPLOAD_DIR", "data/media"),
		UploadURLPath: env("UPLOAD_URL_PATH", "/media"),
		SigningSecret: env("SIGNING_SECRET", ""),

		S3Bucket:        env("S3_BUCKET", ""),
		S3Region:        env("S3_REGION", "us-east-1"),
		S3Endpoint:      env("S3_ENDPOINT", ""),
		S3Prefix:        env("S3_PREFIX", ""),
		S3AccessKey:     env("S3_ACCESS_KEY", ""),
		S3SecretKey:     env("S3_SECRET_KEY", ""),
		S3PublicBaseURL: env("S3_PUBLIC_BASE_URL", ""),
	}

	maxUpload, err := strconv.ParseInt(env("MAX_UPLOAD_BYTES", "26214400"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return cfg, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}
	cfg.MaxUploadBytes = maxUpload

	ttl, err := time.ParseDuration(env("SIGNED_URL_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return cfg, fmt.Errorf("SIGNED_URL_TTL must be a positive duration")
	}
	cfg.SignedURLTTL = ttl

	switch cfg.StorageDriver {
	case StorageDisk:
		if cfg.SigningSecret == "" {
			// 本地开发可以不配置密钥，但生产环境必须提供
			if cfg.LogEnv == "prod" {
				return cfg, errors.New("SIGNING_SECRET is required for disk storage in prod")
			}
			cfg.SigningSecret = "lensfolio-dev-secret"
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			return cfg, errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
