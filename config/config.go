// Package config loads runtime configuration from the environment.
//
// Values come from FAQRAG_* environment variables, optionally seeded from a
// .env file. Variables already set in the process environment win over the
// file. GOOGLE_API_KEY is honoured when FAQRAG_GEMINI_API_KEY is unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/growbot/faqrag/codec"
	"github.com/growbot/faqrag/internal/compress"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "FAQRAG"

// Storage selects and configures the blob store holding artifacts.
type Storage struct {
	Backend     string `envconfig:"BACKEND" default:"local"`
	Bucket      string `envconfig:"BUCKET"`
	Prefix      string `envconfig:"PREFIX"`
	Region      string `envconfig:"REGION"`
	Endpoint    string `envconfig:"ENDPOINT"`
	DynamoTable string `envconfig:"DYNAMO_TABLE"`
	AccessKey   string `envconfig:"ACCESS_KEY"`
	SecretKey   string `envconfig:"SECRET_KEY"`
	Secure      bool   `envconfig:"SECURE" default:"true"`
	CacheBytes  int64  `envconfig:"CACHE_BYTES" default:"67108864"`
}

// Embedder configures the text embedding model.
type Embedder struct {
	Kind        string  `envconfig:"KIND" default:"hashing"`
	Dim         int     `envconfig:"DIM" default:"384"`
	OllamaURL   string  `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel string  `envconfig:"OLLAMA_MODEL" default:"nomic-embed-text"`
	CacheBytes  int64   `envconfig:"CACHE_BYTES" default:"8388608"`
	RateLimit   float64 `envconfig:"RATE_LIMIT"`
	RateBurst   int     `envconfig:"RATE_BURST" default:"1"`
}

// Gemini configures the generative model.
type Gemini struct {
	APIKey  string `envconfig:"API_KEY"`
	Model   string `envconfig:"MODEL" default:"gemini-1.5-flash"`
	BaseURL string `envconfig:"BASE_URL"`
}

// HTTP configures the chat server.
type HTTP struct {
	Addr           string        `envconfig:"ADDR" default:":5000"`
	RateLimit      float64       `envconfig:"RATE_LIMIT" default:"2"`
	RateBurst      int           `envconfig:"RATE_BURST" default:"10"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB"`
	RedisLimit     int           `envconfig:"REDIS_LIMIT" default:"60"`
	RedisWindow    time.Duration `envconfig:"REDIS_WINDOW" default:"1m"`
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// Build configures artifact creation.
type Build struct {
	Compression string `envconfig:"COMPRESSION" default:"lz4"`
	Codec       string `envconfig:"CODEC" default:"go-json"`
	Workers     int64  `envconfig:"WORKERS" default:"4"`
	IOLimit     int64  `envconfig:"IO_LIMIT"`
	Prune       bool   `envconfig:"PRUNE"`
}

// Log configures logging.
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// Config is the complete runtime configuration.
type Config struct {
	DataDir  string   `envconfig:"DATA_DIR" default:".data"`
	TopK     int      `envconfig:"TOP_K" default:"1"`
	Storage  Storage  `envconfig:"STORAGE"`
	Embedder Embedder `envconfig:"EMBEDDER"`
	Gemini   Gemini   `envconfig:"GEMINI"`
	HTTP     HTTP     `envconfig:"HTTP"`
	Build    Build    `envconfig:"BUILD"`
	Log      Log      `envconfig:"LOG"`
}

// Load reads envFiles (default ".env") into the process environment, then
// decodes FAQRAG_* variables. Missing env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case "local", "memory":
	case "s3", "minio":
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("storage backend %s requires a bucket", c.Storage.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	switch c.Embedder.Kind {
	case "hashing", "ollama":
	default:
		errs = append(errs, fmt.Errorf("unknown embedder %q", c.Embedder.Kind))
	}
	if c.Embedder.Dim <= 0 {
		errs = append(errs, fmt.Errorf("embedder dimension must be positive, got %d", c.Embedder.Dim))
	}
	if c.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top k must be positive, got %d", c.TopK))
	}
	if _, err := compress.ParseType(c.Build.Compression); err != nil {
		errs = append(errs, err)
	}
	if _, ok := codec.ByName(c.Build.Codec); !ok {
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Build.Codec))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return l, nil
}

// Compression returns the parsed build compression.
func (c *Config) Compression() compress.Type {
	t, _ := compress.ParseType(c.Build.Compression)
	return t
}

// Codec returns the build record codec.
func (c *Config) Codec() codec.Codec {
	if cd, ok := codec.ByName(c.Build.Codec); ok {
		return cd
	}
	return codec.Default
}
