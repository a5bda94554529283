package gen

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Version is the generator version stamped into module headers.
const Version = "v0.3.0"

// Config holds the configuration of a module generation.
type Config struct {
	// Header is an optional comment placed under the provenance header.
	Header string
	// Logger receives the progress of the generation.
	Logger *zap.Logger
	// EmbedPassword writes the connection password into the module.
	// By default generated modules read it from NEO4J_PASSWORD.
	EmbedPassword bool
	// Features enabled for the generation.
	Features []Feature
	// SnapshotFormat is the encoding of the schema snapshot feature.
	SnapshotFormat string
	// RunID identifies the generation run in the module header.
	RunID string
	// Now returns the generation time.
	Now func() time.Time
	// Version is the generator version in the module header.
	Version string
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets an additional header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithLogger sets the logger of the generation.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithEmbedPassword controls whether the connection password is written
// into the generated module.
func WithEmbedPassword(embed bool) Option {
	return func(c *Config) error {
		c.EmbedPassword = embed
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithSnapshotFormat sets the encoding of the schema snapshot.
// Supported formats: "yaml", "msgpack".
func WithSnapshotFormat(format string) Option {
	return func(c *Config) error {
		switch format {
		case SnapshotYAML, SnapshotMsgpack:
			c.SnapshotFormat = format
			return nil
		default:
			return NewConfigError("SnapshotFormat", format, "unsupported format; use yaml or msgpack")
		}
	}
}

// WithRunID sets the run identifier written into the header.
func WithRunID(id string) Option {
	return func(c *Config) error {
		if id == "" {
			return NewConfigError("RunID", nil, "run id cannot be empty")
		}
		c.RunID = id
		return nil
	}
}

// WithClock sets the clock used for the generation time.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Now", nil, "clock cannot be nil")
		}
		c.Now = now
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

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	for _, f := range AllFeatures {
		if name == f.Name {
			for _, e := range c.Features {
				if e.Name == f.Name {
					return true, nil
				}
			}
			return f.Default, nil
		}
	}
	return false, NewConfigError("Features", name, "unexpected feature name")
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Logger:         zap.NewNop(),
		SnapshotFormat: SnapshotYAML,
		RunID:          uuid.NewString(),
		Now:            time.Now,
		Version:        Version,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
