package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Vectorizer VectorizerConfig `mapstructure:"vectorizer"`
	Artifacts  ArtifactsConfig  `mapstructure:"artifacts"`
	Refresh    RefreshConfig    `mapstructure:"refresh"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// CatalogConfig selects the catalog backend. Driver is one of csv, sqlite,
// postgres; Path is the CSV file or SQLite database path; DSN is used by
// postgres only.
type CatalogConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// VectorizerConfig controls the vectorization strategy. Strategy is auto,
// tfidf, or embedding; auto resolves to embedding when Embedding.Enabled.
type VectorizerConfig struct {
	Strategy    string          `mapstructure:"strategy"`
	MaxFeatures int             `mapstructure:"max_features"`
	Embedding   EmbeddingConfig `mapstructure:"embedding"`
}

type EmbeddingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	Dimensions int    `mapstructure:"dimensions"`
	BatchSize  int    `mapstructure:"batch_size"`
}

// ArtifactsConfig selects the advisory artifact store holding cached
// similarity matrices and fitted vectorizer state.
type ArtifactsConfig struct {
	Type      string `mapstructure:"type"` // local, s3
	Dir       string `mapstructure:"dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"` // 0 disables periodic refresh
}

type ScraperConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	MovieCount int    `mapstructure:"movie_count"`
	Workers    int    `mapstructure:"workers"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("catalog.driver", "csv")
	v.SetDefault("catalog.path", "./data/movies.csv")
	v.SetDefault("catalog.max_idle_conns", 2)
	v.SetDefault("catalog.max_open_conns", 10)
	v.SetDefault("catalog.conn_max_lifetime", time.Hour)
	v.SetDefault("vectorizer.strategy", "auto")
	v.SetDefault("vectorizer.max_features", 20000)
	v.SetDefault("vectorizer.embedding.enabled", false)
	v.SetDefault("vectorizer.embedding.base_url", "https://api.jina.ai/v1")
	v.SetDefault("vectorizer.embedding.model", "jina-embeddings-v3")
	v.SetDefault("vectorizer.embedding.dimensions", 1024)
	v.SetDefault("vectorizer.embedding.batch_size", 64)
	v.SetDefault("artifacts.type", "local")
	v.SetDefault("artifacts.dir", "./data/cache")
	v.SetDefault("artifacts.use_ssl", true)
	v.SetDefault("artifacts.bucket", "reelmind-artifacts")
	v.SetDefault("refresh.interval", 5*time.Minute)
	v.SetDefault("scraper.enabled", false)
	v.SetDefault("scraper.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("scraper.movie_count", 400)
	v.SetDefault("scraper.workers", 4)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("vectorizer.embedding.enabled", "USE_EMBEDDINGS")
	v.BindEnv("vectorizer.embedding.api_key", "EMBEDDING_API_KEY")
	v.BindEnv("vectorizer.embedding.model", "EMBEDDING_MODEL")
	v.BindEnv("scraper.api_key", "TMDB_API_KEY")
	v.BindEnv("artifacts.access_key", "ARTIFACTS_ACCESS_KEY")
	v.BindEnv("artifacts.secret_key", "ARTIFACTS_SECRET_KEY")
	v.BindEnv("refresh.interval", "REFRESH_INTERVAL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
