package config

import (
	"os"

	"github.com/gear6io/hivebridge/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the connector configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Metastore MetastoreConfig `yaml:"metastore"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	HDFS      HDFSConfig      `yaml:"hdfs"`
	Pushdown  PushdownConfig  `yaml:"pushdown"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	MaxAge     int    `yaml:"max_age"`     // Max age in days
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// MetastoreConfig locates the sqlite-backed table catalog
type MetastoreConfig struct {
	Path            string `yaml:"path"`
	DefaultDatabase string `yaml:"default_database"`
}

// CatalogConfig selects the backend used for name resolution
type CatalogConfig struct {
	Type string `yaml:"type"` // "metastore" or "iceberg"
	URI  string `yaml:"uri"`  // REST endpoint, iceberg only
}

// HDFSConfig is used to enumerate partition data files
type HDFSConfig struct {
	NameNodes []string `yaml:"name_nodes"`
	User      string   `yaml:"user"`
}

// PushdownConfig toggles filter pushdown
type PushdownConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   DEFAULT_LOG_PATH,
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			MaxAge:     7, // 7 days
		},
		Metastore: MetastoreConfig{
			Path:            DEFAULT_METASTORE_PATH,
			DefaultDatabase: DEFAULT_DATABASE,
		},
		Catalog: CatalogConfig{
			Type: CatalogTypeMetastore,
		},
		HDFS: HDFSConfig{
			User: DEFAULT_HDFS_USER,
		},
		Pushdown: PushdownConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from a file. Keys missing from the file
// keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err).AddContext("path", filename)
	}

	config := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err).AddContext("path", filename)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}

	if c.Catalog.Type == CatalogTypeMetastore && c.Metastore.Path == "" {
		return errors.New(ErrMetastorePathRequired, "metastore path is required for the metastore catalog", nil)
	}

	return nil
}

// Validate validates the catalog configuration
func (c *CatalogConfig) Validate() error {
	switch c.Type {
	case "":
		return errors.New(ErrCatalogTypeRequired, "catalog type is required", nil)
	case CatalogTypeMetastore:
		return nil
	case CatalogTypeIceberg:
		if c.URI == "" {
			return errors.New(ErrCatalogURIRequired, "catalog uri is required for the iceberg catalog", nil)
		}
		return nil
	default:
		return errors.New(ErrCatalogTypeUnknown, "unknown catalog type", nil).AddContext("catalog_type", c.Type)
	}
}

// GetCatalogType returns the catalog type
func (c *Config) GetCatalogType() string {
	return c.Catalog.Type
}

// GetDefaultDatabase returns the database used for unqualified table names
func (c *Config) GetDefaultDatabase() string {
	if c.Metastore.DefaultDatabase == "" {
		return DEFAULT_DATABASE
	}
	return c.Metastore.DefaultDatabase
}
