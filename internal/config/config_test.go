package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Output)
	assert.Equal(t, "", cfg.Snapshot)
	assert.Equal(t, 1000, cfg.SampleLimit)
	assert.Equal(t, "apoc", cfg.Probe)
	assert.Equal(t, 4, cfg.Workers)
	assert.Empty(t, cfg.Profiles)
	assert.Empty(t, cfg.File)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
output: gen
snapshot: msgpack
probe: cypher
profiles:
  hr:
    uri: bolt://hr.internal:7687
    database: hr
    module: hr
  crm:
    uri: neo4j+s://crm.example.com
    username: reader
    password: secret
    module: crm
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "gen", cfg.Output)
	assert.Equal(t, "msgpack", cfg.Snapshot)
	assert.Equal(t, "cypher", cfg.Probe)
	assert.Equal(t, []string{"crm", "hr"}, cfg.ProfileNames())

	hr, err := cfg.Profile("hr")
	require.NoError(t, err)
	assert.Equal(t, "bolt://hr.internal:7687", hr.URI)
	conn := hr.Conn()
	assert.Equal(t, "hr", conn.Database)
	assert.Empty(t, conn.Username)

	crm, err := cfg.Profile("crm")
	require.NoError(t, err)
	assert.Equal(t, "secret", crm.Conn().Password)

	_, err = cfg.Profile("billing")
	assert.Error(t, err)
}

func TestLoadWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graphgen.yaml"), []byte("output: models\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "models", cfg.Output)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GRAPHGEN_OUTPUT", "from-env")
	t.Setenv("GRAPHGEN_WORKERS", "8")
	cfg, err := Load(writeConfig(t, "output: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"snapshot", "snapshot: json\n", "snapshot must be yaml or msgpack"},
		{"probe", "probe: magic\n", "unknown type probe"},
		{"workers", "workers: 0\n", "workers must be positive"},
		{"module name", "profiles:\n  hr:\n    module: my-hr\n", "module must be a Go identifier"},
		{"keyword module", "profiles:\n  hr:\n    module: func\n", "module must be a Go identifier"},
		{"duplicate module", "profiles:\n  a:\n    module: hr\n  b:\n    module: hr\n", "profiles a and b both generate module hr"},
		{"profile name as module", "profiles:\n  my-db:\n    database: db\n", "profile my-db: module defaults to the profile name"},
		{"profile name clashes with module", "profiles:\n  hr:\n    database: hr\n  people:\n    module: hr\n", "profiles hr and people both generate module hr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProfileModuleName(t *testing.T) {
	assert.Equal(t, "hr", Profile{}.ModuleName("hr"))
	assert.Equal(t, "people", Profile{Module: "people"}.ModuleName("hr"))
}

func TestValidateRenamedProfile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "profiles:\n  my-db:\n    module: mydb\n"))
	require.NoError(t, err)
	assert.Equal(t, "mydb", cfg.Profiles["my-db"].ModuleName("my-db"))
}
