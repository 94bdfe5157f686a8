package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Match   MatchConfig   `yaml:"match" mapstructure:"match"`
	Filter  FilterConfig  `yaml:"filter" mapstructure:"filter"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Refresh RefreshConfig `yaml:"refresh" mapstructure:"refresh"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the file-based data set. Relative file names are
// resolved against Dir.
type DataConfig struct {
	Dir                  string `yaml:"dir" mapstructure:"dir"`
	CompaniesFile        string `yaml:"companies_file" mapstructure:"companies_file"`
	JobsFile             string `yaml:"jobs_file" mapstructure:"jobs_file"`
	CompanyBlacklistFile string `yaml:"company_blacklist_file" mapstructure:"company_blacklist_file"`
	JobBlacklistFile     string `yaml:"job_blacklist_file" mapstructure:"job_blacklist_file"`
	JobsCSV              string `yaml:"jobs_csv" mapstructure:"jobs_csv"`
}

// Path resolves name against Dir unless it is absolute.
func (d DataConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// MatchConfig configures fuzzy company matching.
type MatchConfig struct {
	Threshold           float64 `yaml:"threshold" mapstructure:"threshold"`
	TopN                int     `yaml:"top_n" mapstructure:"top_n"`
	UseAlternativeNames bool    `yaml:"use_alternative_names" mapstructure:"use_alternative_names"`
}

// FilterConfig configures the default reconciliation filters.
type FilterConfig struct {
	MinRating float64 `yaml:"min_rating" mapstructure:"min_rating"`
}

// ScrapeConfig configures the rating site client.
type ScrapeConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Country           string  `yaml:"country" mapstructure:"country"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// RefreshConfig configures rating refresh batches.
type RefreshConfig struct {
	Concurrency          int  `yaml:"concurrency" mapstructure:"concurrency"`
	OnlyAlternativeNames bool `yaml:"only_alternative_names" mapstructure:"only_alternative_names"`
	Limit                int  `yaml:"limit" mapstructure:"limit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("JOBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.companies_file", "companies.jsonl")
	v.SetDefault("data.jobs_file", "jobs.jsonl")
	v.SetDefault("data.company_blacklist_file", "company_blacklist.txt")
	v.SetDefault("data.job_blacklist_file", "job_blacklist.txt")
	v.SetDefault("data.jobs_csv", "jobs.csv")
	v.SetDefault("store.driver", "jsonl")
	v.SetDefault("store.database_url", "")
	v.SetDefault("match.threshold", 0.6)
	v.SetDefault("match.top_n", 3)
	v.SetDefault("match.use_alternative_names", false)
	v.SetDefault("filter.min_rating", 0.0)
	v.SetDefault("scrape.base_url", "https://www.kununu.com")
	v.SetDefault("scrape.country", "de")
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.requests_per_second", 0.5)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; jobscout/1.0)")
	v.SetDefault("refresh.concurrency", 2)
	v.SetDefault("refresh.only_alternative_names", false)
	v.SetDefault("refresh.limit", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		errs = append(errs, "match.threshold must be between 0 and 1")
	}
	if c.Match.TopN < 1 {
		errs = append(errs, "match.top_n must be >= 1")
	}
	if c.Filter.MinRating < 0 {
		errs = append(errs, "filter.min_rating must be >= 0")
	}

	switch c.Store.Driver {
	case "jsonl", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	default:
		errs = append(errs, "store.driver must be one of jsonl, sqlite, postgres")
	}

	switch mode {
	case "reconcile", "sync", "match", "import", "blacklist", "export":
	case "refresh":
		if c.Refresh.Concurrency < 1 || c.Refresh.Concurrency > 16 {
			errs = append(errs, "refresh.concurrency must be between 1 and 16")
		}
		if c.Refresh.Limit < 0 {
			errs = append(errs, "refresh.limit must be >= 0")
		}
		if c.Scrape.BaseURL == "" {
			errs = append(errs, "scrape.base_url is required")
		}
		if c.Scrape.RequestsPerSecond <= 0 {
			errs = append(errs, "scrape.requests_per_second must be > 0")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
