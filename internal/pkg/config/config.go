package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	HTTP  HTTPConfig
	Mongo MongoConfig
	Media MediaConfig
}

type HTTPConfig struct {
	CORSOrigin string `env:"CORS_ORIGIN,     default=*"`
	// BodyLimit caps JSON and urlencoded bodies; multipart bodies are capped by
	// MultipartBodyLimit.
	BodyLimit     string `env:"BODY_LIMIT,      default=16K"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE, default=10485760"`
	UploadTempDir string `env:"UPLOAD_TEMP_DIR, default=./public/temp"`
	StaticDir     string `env:"STATIC_DIR,      default=public"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=videotube"`
}

type MediaConfig struct {
	Bucket          string `env:"MEDIA_BUCKET,            default=videotube-media"`
	Region          string `env:"MEDIA_REGION,            default=us-east-1"`
	Endpoint        string `env:"MEDIA_ENDPOINT"`
	AccessKeyID     string `env:"MEDIA_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"MEDIA_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"MEDIA_USE_PATH_STYLE,    default=false"`
	PublicBaseURL   string `env:"MEDIA_PUBLIC_BASE_URL"`
	KeyPrefix       string `env:"MEDIA_KEY_PREFIX,        default=users"`
	EnsureBucket    bool   `env:"MEDIA_ENSURE_BUCKET,     default=true"`
}

// MultipartBodyLimit bounds a whole multipart request: two files at
// MaxUploadSize plus room for the text fields.
func (h HTTPConfig) MultipartBodyLimit() int64 {
	if h.MaxUploadSize <= 0 {
		return 0
	}
	return h.MaxUploadSize*2 + 16*1024
}

// IsDevelopment reports whether pretty logging and other local defaults apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file (or the file named by ENV_FILE) is loaded first when present;
// variables already set in the environment win.
func Load() *Config {
	cfg, err := LoadContext(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadContext is Load with an explicit context and error return.
func LoadContext(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
