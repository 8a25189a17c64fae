package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxUploadSizeMB là trần cứng cho mọi storage provider
const MaxUploadSizeMB = 100

const defaultJWTSecret = "your-secret-key-change-in-production"

// Provider names accepted by STORAGE_GIRLS / STORAGE_POSTS / STORAGE_USERS
const (
	ProviderS3         = "s3"
	ProviderCloudinary = "cloudinary"
	ProviderMega       = "mega"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	S3         S3Config
	Cloudinary CloudinaryConfig
	Mega       MegaConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Auth       AuthConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// UploadLimits is shared by every storage adapter
type UploadLimits struct {
	AllowedFormats []string // lowercase extensions without dot
	MaxFileSizeMB  int
}

type S3Config struct {
	Endpoint            string // s3.amazonaws.com hoặc localhost:9000 (MinIO)
	Region              string
	AccessKey           string
	SecretKey           string
	Bucket              string
	UseSSL              bool
	PublicBaseURL       string // optional CDN/base override for public URLs
	DefaultFolder       string
	SignedURLExpiration time.Duration
	Limits              UploadLimits
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Limits    UploadLimits
}

type MegaConfig struct {
	Email    string
	Password string
	Folder   string
	Limits   UploadLimits
}

// StorageConfig chọn provider cho từng domain
type StorageConfig struct {
	Girls string
	Posts string
	Users string

	ImageMaxDimension int // ảnh lớn hơn sẽ được thu nhỏ, 0 = giữ nguyên
}

type CacheConfig struct {
	GirlTTL time.Duration
}

// AuthConfig controls the failed-login throttle
type AuthConfig struct {
	MaxLoginAttempts int
	LoginLockout     time.Duration
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Gallery API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "gallery"),
			MaxPoolSize:    uint64(getEnvInt("MONGO_MAX_POOL_SIZE", 50)),
			MinPoolSize:    uint64(getEnvInt("MONGO_MIN_POOL_SIZE", 5)),
			MaxRetries:     getEnvInt("MONGO_MAX_RETRIES", 5),
			RetryDelay:     getEnvDuration("MONGO_RETRY_DELAY", time.Second),
			ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_EXPIRY_MINUTES", 7*24*60),
		},
		S3: S3Config{
			Endpoint:            getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			Region:              getEnv("S3_REGION", "us-east-1"),
			AccessKey:           getEnv("S3_ACCESS_KEY", ""),
			SecretKey:           getEnv("S3_SECRET_KEY", ""),
			Bucket:              getEnv("S3_BUCKET", "gallery"),
			UseSSL:              getEnvBool("S3_USE_SSL", true),
			PublicBaseURL:       getEnv("S3_PUBLIC_BASE_URL", ""),
			DefaultFolder:       getEnv("S3_DEFAULT_FOLDER", "uploads"),
			SignedURLExpiration: getEnvDuration("S3_SIGNED_URL_EXPIRATION", time.Hour),
			Limits: UploadLimits{
				AllowedFormats: getEnvList("S3_ALLOWED_FORMATS", []string{"jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "webm"}),
				MaxFileSizeMB:  getEnvInt("S3_MAX_FILE_SIZE_MB", 50),
			},
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "gallery"),
			Limits: UploadLimits{
				AllowedFormats: getEnvList("CLOUDINARY_ALLOWED_FORMATS", []string{"jpg", "jpeg", "png", "gif", "webp"}),
				MaxFileSizeMB:  getEnvInt("CLOUDINARY_MAX_FILE_SIZE_MB", 10),
			},
		},
		Mega: MegaConfig{
			Email:    getEnv("MEGA_EMAIL", ""),
			Password: getEnv("MEGA_PASSWORD", ""),
			Folder:   getEnv("MEGA_FOLDER", "gallery"),
			Limits: UploadLimits{
				AllowedFormats: getEnvList("MEGA_ALLOWED_FORMATS", []string{"jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "webm", "mp3"}),
				MaxFileSizeMB:  getEnvInt("MEGA_MAX_FILE_SIZE_MB", 100),
			},
		},
		Storage: StorageConfig{
			Girls: strings.ToLower(getEnv("STORAGE_GIRLS", ProviderS3)),
			Posts: strings.ToLower(getEnv("STORAGE_POSTS", ProviderS3)),
			Users: strings.ToLower(getEnv("STORAGE_USERS", ProviderCloudinary)),

			ImageMaxDimension: getEnvInt("STORAGE_IMAGE_MAX_DIMENSION", 2560),
		},
		Cache: CacheConfig{
			GirlTTL: getEnvDuration("CACHE_GIRL_TTL", 10*time.Minute),
		},
		Auth: AuthConfig{
			MaxLoginAttempts: getEnvInt("AUTH_MAX_LOGIN_ATTEMPTS", 5),
			LoginLockout:     getEnvDuration("AUTH_LOGIN_LOCKOUT", 15*time.Minute),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	// Production environment phải có JWT secret
	if c.App.Environment == "production" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	limits := map[string]UploadLimits{
		ProviderS3:         c.S3.Limits,
		ProviderCloudinary: c.Cloudinary.Limits,
		ProviderMega:       c.Mega.Limits,
	}
	for name, l := range limits {
		if l.MaxFileSizeMB <= 0 || l.MaxFileSizeMB > MaxUploadSizeMB {
			return fmt.Errorf("%s max file size must be between 1 and %dMB, got %d", name, MaxUploadSizeMB, l.MaxFileSizeMB)
		}
		if len(l.AllowedFormats) == 0 {
			return fmt.Errorf("%s allowed formats must not be empty", name)
		}
	}

	for domain, provider := range map[string]string{"girls": c.Storage.Girls, "posts": c.Storage.Posts, "users": c.Storage.Users} {
		switch provider {
		case ProviderS3, ProviderCloudinary, ProviderMega:
		default:
			return fmt.Errorf("unknown storage provider %q for %s", provider, domain)
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList parses a comma separated list, lowercased, empty items dropped
func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		item = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(item), "."))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
