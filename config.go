package benang

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for a benang site.
type Config struct {
	Name        string // Site name (default "Benang")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr string // Listen address (default ":3000")

	DBDriver string // "postgres" or "sqlite" (default "sqlite")
	DBDSN    string // connection string / file path (default "data/benang.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	Storage StorageConfig

	ContentCacheTTL time.Duration // published-article cache TTL (default 5min)
	ReadTimeout     time.Duration // deadline for public read handlers (default 5s)
	MaxUploadSize   int64         // image upload limit in bytes (default 10MB)
}

// StorageConfig points at the S3-compatible object storage that holds
// uploaded images and e-book files. Leave Endpoint empty to disable uploads.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL the stored objects are served from
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Benang"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.DBDSN == "" {
		c.DBDSN = "data/benang.db"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "content"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 5 * time.Second
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 10 << 20
	}
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	return Config{
		Name:          getEnv("SITE_NAME", ""),
		URL:           getEnv("SITE_URL", ""),
		Description:   getEnv("SITE_DESCRIPTION", ""),
		Addr:          getEnv("LISTEN_ADDR", ""),
		DBDriver:      getEnv("DB_DRIVER", ""),
		DBDSN:         getEnv("DB_DSN", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", ""),
			UseSSL:    getEnvBool("STORAGE_USE_SSL", false),
			PublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
		},
		ContentCacheTTL: getEnvDuration("CONTENT_CACHE_TTL", 0),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 0),
		MaxUploadSize:   getEnvInt64("MAX_UPLOAD_SIZE", 0),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the gateway and background tasks.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
