// Package config loads the graphgen.yaml file of the command line tool.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/syssam/graphgen/dialect/cypher"
	"github.com/syssam/graphgen/dialect/neo4j"
)

// FileName is the name of the configuration file, without extension.
const FileName = "graphgen"

// EnvPrefix prefixes the environment variables overriding the file.
const EnvPrefix = "GRAPHGEN"

// Config represents the graphgen configuration.
type Config struct {
	// Output is the directory modules are written to.
	Output string `mapstructure:"output"`
	// Snapshot is the schema snapshot format: yaml, msgpack or empty for none.
	Snapshot string `mapstructure:"snapshot"`
	// SampleLimit is the number of entities sampled per kind.
	SampleLimit int `mapstructure:"sample_limit"`
	// Probe is the property type probe: apoc or cypher.
	Probe string `mapstructure:"probe"`
	// Workers bounds the number of profiles generated at once.
	Workers int `mapstructure:"workers"`
	// Profiles are the named connection profiles.
	Profiles map[string]Profile `mapstructure:"profiles"`

	// File is the configuration file read, if any.
	File string `mapstructure:"-"`
}

// Profile is a named connection profile and the module generated from it.
type Profile struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Module   string `mapstructure:"module"`
}

// Conn returns the connection of the profile. Unset fields are filled in
// with neo4j.DefaultConfig when the connection is opened.
func (p Profile) Conn() neo4j.Config {
	return neo4j.Config{
		URI:      p.URI,
		Database: p.Database,
		Username: p.Username,
		Password: p.Password,
	}
}

// ModuleName returns the module generated for the profile called name: the
// configured module, else the profile name.
func (p Profile) ModuleName(name string) string {
	if p.Module != "" {
		return p.Module
	}
	return name
}

// Load reads the configuration file at path. With an empty path, graphgen.yaml
// is looked up in the working directory and a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("output", ".")
	v.SetDefault("snapshot", "")
	v.SetDefault("sample_limit", 1000)
	v.SetDefault("probe", "apoc")
	v.SetDefault("workers", 4)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Snapshot {
	case "", "yaml", "msgpack":
	default:
		return fmt.Errorf("snapshot must be yaml or msgpack, got: %s", c.Snapshot)
	}
	if _, err := cypher.ParseProbe(c.Probe); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got: %d", c.Workers)
	}
	modules := make(map[string]string, len(c.Profiles))
	for _, name := range c.ProfileNames() {
		p := c.Profiles[name]
		module := p.ModuleName(name)
		if !token.IsIdentifier(module) || token.IsKeyword(module) {
			if p.Module == "" {
				return fmt.Errorf("profile %s: module defaults to the profile name and must be a Go identifier; set module", name)
			}
			return fmt.Errorf("profile %s: module must be a Go identifier, got: %s", name, module)
		}
		if other, ok := modules[module]; ok {
			return fmt.Errorf("profiles %s and %s both generate module %s", other, name, module)
		}
		modules[module] = name
	}
	return nil
}

// ProfileNames returns the profile names in lexicographic order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile returns the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}
