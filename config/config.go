// config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "mysql" or "sqlite"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Path     string `yaml:"path"` // sqlite only
}

// FetchConfig controls the HTTP fetcher and its response cache.
type FetchConfig struct {
	TimeoutStr string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
	UserAgent  string        `yaml:"user_agent"`
	SavedDir   string        `yaml:"saved_dir"`
	Save       bool          `yaml:"save"`
	UseSaved   bool          `yaml:"use_saved"`
}

type StateConfig struct {
	DefaultWatermarkStr string    `yaml:"default_watermark"`
	DefaultWatermark    time.Time `yaml:"-"`
	RollbackOnFailure   *bool     `yaml:"rollback_on_failure"`
}

// Rollback reports whether watermarks of unpublished countries are restored.
// It defaults to true.
func (s StateConfig) Rollback() bool {
	return s.RollbackOnFailure == nil || *s.RollbackOnFailure
}

// DatasetStaticConfig holds the catalog fields that are the same for every
// country.
type DatasetStaticConfig struct {
	LicenseID           string `yaml:"license_id"`
	Maintainer          string `yaml:"maintainer"`
	OwnerOrg            string `yaml:"owner_org"`
	DataUpdateFrequency int    `yaml:"data_update_frequency"`
	Caveats             string `yaml:"caveats"`
	PackageCreator      string `yaml:"package_creator"`
	Private             bool   `yaml:"private"`
	TagVocabularyID     string `yaml:"tag_vocabulary_id"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type Config struct {
	BaseURL          string              `yaml:"base_url"`
	Headers          []string            `yaml:"headers"`
	LocationFields   []string            `yaml:"location_fields"`
	Description      string              `yaml:"description"`
	VisualizationURL string              `yaml:"visualization_url"`
	DatasetStatic    DatasetStaticConfig `yaml:"dataset_static"`
	Fetch            FetchConfig         `yaml:"fetch"`
	Database         DatabaseConfig      `yaml:"database"`
	State            StateConfig         `yaml:"state"`
	OutputDir        string              `yaml:"output_dir"`
	Metrics          MetricsConfig       `yaml:"metrics"`
	Server           ServerConfig        `yaml:"server"`
	LogLevel         string              `yaml:"log_level"`

	// CountryNames overrides registry display names by ISO3 code.
	CountryNames map[string]string `yaml:"country_names"`
}

var defaultPaths = []string{
	"config.yaml",
	"config/config.yaml",
	"../config/config.yaml",
}

// LoadConfig reads the YAML file at configPath (or the first default path
// that exists), applies .env and CLEARGLOBAL_* environment overrides, and
// fills defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("config.yaml not found in standard locations")
		}
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(file, filepath.Dir(configPath))
}

// Parse decodes raw YAML. A .env file in dir, if any, is loaded before the
// environment overrides are applied.
func Parse(raw []byte, dir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"CLEARGLOBAL_BASE_URL":    &c.BaseURL,
		"CLEARGLOBAL_OUTPUT_DIR":  &c.OutputDir,
		"CLEARGLOBAL_DB_DRIVER":   &c.Database.Driver,
		"CLEARGLOBAL_DB_HOST":     &c.Database.Host,
		"CLEARGLOBAL_DB_PORT":     &c.Database.Port,
		"CLEARGLOBAL_DB_USER":     &c.Database.User,
		"CLEARGLOBAL_DB_PASSWORD": &c.Database.Password,
		"CLEARGLOBAL_DB_NAME":     &c.Database.DBName,
		"CLEARGLOBAL_DB_PATH":     &c.Database.Path,
		"CLEARGLOBAL_LOG_LEVEL":   &c.LogLevel,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
}

func (c *Config) finalize() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if len(c.Headers) == 0 {
		return fmt.Errorf("headers must list at least one field")
	}
	if len(c.LocationFields) == 0 {
		c.LocationFields = []string{"location_code", "date_creation"}
	}

	var err error
	if c.Fetch.TimeoutStr != "" {
		c.Fetch.Timeout, err = time.ParseDuration(c.Fetch.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse fetch timeout: %w", err)
		}
	} else {
		c.Fetch.Timeout = 60 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "hdx-scraper-clearglobal"
	}

	if c.State.DefaultWatermarkStr != "" {
		c.State.DefaultWatermark, err = time.Parse("2006-01-02", c.State.DefaultWatermarkStr)
		if err != nil {
			return fmt.Errorf("failed to parse default_watermark: %w", err)
		}
	} else {
		c.State.DefaultWatermark = time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "state.db"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}
