package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/errs"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "noaa-wcsd-pds", cfg.Archive.Bucket)
	assert.Equal(t, "s3.amazonaws.com", cfg.Archive.Endpoint)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Minute, cfg.Converter.Timeout)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
cache:
  endpoint: minio.internal:9000
  access_key: ak
  secret_key: sk
  bucket: aa-cache
registry:
  driver: postgres
  dsn: postgres://u:p@localhost:5432/meta
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "aa-cache", cfg.Cache.Bucket)
	assert.Equal(t, "postgres", cfg.Registry.Driver)
	// Defaults survive partial overrides.
	assert.Equal(t, "noaa-wcsd-pds", cfg.Archive.Bucket)
}

func TestParse_BadRegistryDriver(t *testing.T) {
	_, err := Parse([]byte(`
registry:
  driver: bigquery
  dsn: something
`))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(":\nnot yaml: ["))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echofetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staging:\n  dir: /tmp/stage\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stage", cfg.Staging.Dir)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
