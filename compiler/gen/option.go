package gen

import (
	"errors"
	"log/slog"
)

// Option configures an export run.
type Option func(*Config) error

// WithNamespace sets the import path prefix scanned for entities.
func WithNamespace(ns string) Option {
	return func(c *Config) error {
		if ns == "" {
			return NewConfigError("Namespace", nil, "namespace cannot be empty")
		}
		c.Namespace = ns
		return nil
	}
}

// WithDialect sets the dialect identifier. It is resolved only when scripts are generated.
func WithDialect(id string) Option {
	return func(c *Config) error {
		if id == "" {
			return NewConfigError("Dialect", nil, "dialect cannot be empty")
		}
		c.Dialect = id
		return nil
	}
}

// WithOutputDir sets the directory the scripts are written to.
func WithOutputDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("OutputDir", nil, "output directory cannot be empty")
		}
		c.OutputDir = dir
		return nil
	}
}

// WithCreateFile sets the name of the create script. An empty name skips it.
func WithCreateFile(name string) Option {
	return func(c *Config) error {
		c.CreateFile = name
		return nil
	}
}

// WithDropFile sets the name of the drop script. An empty name skips it.
func WithDropFile(name string) Option {
	return func(c *Config) error {
		c.DropFile = name
		return nil
	}
}

// WithClasspath sets the locations searched for the namespace packages.
func WithClasspath(elements ...string) Option {
	return func(c *Config) error {
		c.Classpath = append(c.Classpath, elements...)
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading entity packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithNaming selects the naming strategy: "exact", "snake" or "snake_plural".
func WithNaming(name string) Option {
	return func(c *Config) error {
		if _, err := NamingStrategyOf(name); err != nil {
			return err
		}
		c.Naming = name
		return nil
	}
}

// WithDelimiter sets the statement terminator.
func WithDelimiter(d string) Option {
	return func(c *Config) error {
		if d == "" {
			return NewConfigError("Delimiter", nil, "delimiter cannot be empty")
		}
		c.Delimiter = d
		return nil
	}
}

// WithFormat enables or disables pretty printing of statements.
func WithFormat(format bool) Option {
	return func(c *Config) error {
		c.Format = format
		return nil
	}
}

// WithManifest enables the entity manifest, written as filename inside the
// output directory with the given package clause.
func WithManifest(filename, pkg string) Option {
	return func(c *Config) error {
		c.ManifestFile = filename
		if pkg != "" {
			c.ManifestPackage = pkg
		}
		return nil
	}
}

// WithVerify enables script verification on the database at dsn.
func WithVerify(dsn string) Option {
	return func(c *Config) error {
		c.VerifyDSN = dsn
		return nil
	}
}

// WithLogger sets the logger used during the run.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}
