package gen

import (
	"fmt"
	"go/token"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied by NewConfig and LoadConfig.
const (
	DefaultOutputDir       = "generated-sources/sql"
	DefaultCreateFile      = "create.sql"
	DefaultDropFile        = "drop.sql"
	DefaultDelimiter       = ";"
	DefaultManifestPackage = "schema"
)

// Config holds the settings of one export run. It can be built with
// functional options or read from a YAML file.
type Config struct {
	// Namespace is the import path prefix scanned for entities.
	Namespace string `yaml:"namespace"`
	// Dialect identifies the target SQL dialect, e.g. "postgres" or "MySQLDialect".
	Dialect   string `yaml:"dialect"`
	OutputDir string `yaml:"output_directory"`
	// CreateFile and DropFile name the scripts inside OutputDir.
	// An empty name skips the script.
	CreateFile string   `yaml:"create_filename"`
	DropFile   string   `yaml:"drop_filename"`
	Classpath  []string `yaml:"classpath"`
	BuildFlags []string `yaml:"build_flags"`
	// Naming selects how type and field names become table and column names.
	Naming    string `yaml:"naming"`
	Delimiter string `yaml:"delimiter"`
	Format    bool   `yaml:"format"`
	// ManifestFile, when set, names a generated Go file listing the entities.
	ManifestFile    string `yaml:"manifest_filename"`
	ManifestPackage string `yaml:"manifest_package"`
	// VerifyDSN, when set, is a scratch database the scripts are executed on
	// before they are written.
	VerifyDSN string `yaml:"verify_dsn"`

	Logger *slog.Logger `yaml:"-"`
}

func defaultConfig() *Config {
	return &Config{
		OutputDir:       DefaultOutputDir,
		CreateFile:      DefaultCreateFile,
		DropFile:        DefaultDropFile,
		Naming:          NamingExact,
		Delimiter:       DefaultDelimiter,
		Format:          true,
		ManifestPackage: DefaultManifestPackage,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// defaults. The result is not validated, since flags may still complete it.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, NewConfigError("Config", nil, "config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigError("Config", path, fmt.Sprintf("parse config: %v", err))
	}
	return cfg, nil
}

// Validate checks that the settings required for a run are present.
func (c *Config) Validate() error {
	switch {
	case c.Namespace == "":
		return NewConfigError("Namespace", nil, "namespace is required")
	case c.Dialect == "":
		return NewConfigError("Dialect", nil, "dialect is required")
	case c.OutputDir == "":
		return NewConfigError("OutputDir", nil, "output directory is required")
	case c.Delimiter == "":
		return NewConfigError("Delimiter", nil, "statement delimiter cannot be empty")
	}
	if _, err := NamingStrategyOf(c.Naming); err != nil {
		return err
	}
	if c.ManifestFile != "" && !token.IsIdentifier(c.ManifestPackage) {
		return NewConfigError("ManifestPackage", c.ManifestPackage, "manifest package must be a Go identifier")
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
