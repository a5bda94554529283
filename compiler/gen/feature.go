package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/syssam/graphgen/compiler/load"
)

// Snapshot encodings.
const (
	SnapshotYAML    = "yaml"
	SnapshotMsgpack = "msgpack"
)

var (
	// FeatureSnapshot writes the collected schema next to the module, so
	// schema changes between runs show up in code review.
	FeatureSnapshot = Feature{
		Name:        "schema/snapshot",
		Stage:       Experimental,
		Default:     false,
		Description: "Schema snapshot stores the collected schema next to the generated module",
		after:       writeSnapshot,
		cleanup:     removeSnapshots,
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureSnapshot,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished, but
	// we expect breaking-changes to their APIs.
	Alpha

	// Beta features are Alpha features that no longer expect breaking-changes.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// A Feature of the graphgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// after runs once the module was written.
	after func(c *Config, md *load.Metadata, modulePath string) error

	// cleanup removes the output of a previous run when the feature is off.
	cleanup func(c *Config, modulePath string) error
}

// runFeatures runs the after hook of every enabled feature and the cleanup
// of every disabled one.
func runFeatures(c *Config, md *load.Metadata, modulePath string) error {
	for _, f := range AllFeatures {
		enabled, err := c.FeatureEnabled(f.Name)
		if err != nil {
			return err
		}
		switch {
		case enabled && f.after != nil:
			if err := f.after(c, md, modulePath); err != nil {
				return fmt.Errorf("feature %s: %w", f.Name, err)
			}
		case !enabled && f.cleanup != nil:
			if err := f.cleanup(c, modulePath); err != nil {
				return fmt.Errorf("cleanup feature %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

// SnapshotPath returns the snapshot file of a module in the given format.
func SnapshotPath(modulePath, format string) string {
	return strings.TrimSuffix(modulePath, ".go") + ".schema." + format
}

func writeSnapshot(c *Config, md *load.Metadata, modulePath string) error {
	var (
		buf    []byte
		err    error
		format = c.SnapshotFormat
	)
	switch format {
	case SnapshotMsgpack:
		buf, err = msgpack.Marshal(md)
	default:
		format = SnapshotYAML
		buf, err = yaml.Marshal(md)
	}
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := SnapshotPath(modulePath, format)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	c.logger().Info("schema snapshot written", zap.String("path", path))
	return nil
}

// ReadSnapshot decodes a snapshot written by the schema/snapshot feature.
// The format is taken from the file extension.
func ReadSnapshot(path string) (*load.Metadata, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	md := load.NewMetadata()
	switch filepath.Ext(path) {
	case "." + SnapshotMsgpack:
		err = msgpack.Unmarshal(buf, md)
	case "." + SnapshotYAML:
		err = yaml.Unmarshal(buf, md)
	default:
		return nil, fmt.Errorf("graphgen: unknown snapshot format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("graphgen: decode snapshot: %w", err)
	}
	return md, nil
}

func removeSnapshots(_ *Config, modulePath string) error {
	for _, format := range []string{SnapshotYAML, SnapshotMsgpack} {
		if err := os.Remove(SnapshotPath(modulePath, format)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
