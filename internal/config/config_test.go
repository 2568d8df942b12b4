package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "pebble", cfg.StorageBackend)
	assert.Equal(t, "lz4", cfg.Compression)
	assert.Equal(t, uint64(10), cfg.BaseFee)
	assert.Equal(t, DefaultPlatformAccount, cfg.PlatformAccount)
	assert.Equal(t, 128, cfg.PoolCacheSize)

	id, err := cfg.PlatformAccountID()
	require.NoError(t, err)
	assert.Equal(t, byte(1), id[19])
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curved.toml")
	content := `
data_dir = "/var/lib/curved"
storage_backend = "leveldb"
compression = "none"
base_fee = 25
pool_cache_size = 64
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/curved", cfg.DataDir)
	assert.Equal(t, "leveldb", cfg.StorageBackend)
	assert.Equal(t, "none", cfg.Compression)
	assert.Equal(t, uint64(25), cfg.BaseFee)
	assert.Equal(t, 64, cfg.PoolCacheSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.toml")
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			DataDir:         "data",
			StorageBackend:  "pebble",
			Compression:     "lz4",
			BaseFee:         10,
			PlatformAccount: DefaultPlatformAccount,
			PoolCacheSize:   16,
		}
	}
	require.NoError(t, Validate(base()))

	cfg := base()
	cfg.StorageBackend = "rocksdb"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Compression = "zstd"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.BaseFee = 0
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.PlatformAccount = "nothex"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.DataDir = ""
	assert.Error(t, Validate(cfg))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CURVED_STORAGE_BACKEND", "leveldb")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "leveldb", cfg.StorageBackend)
}
