// Package config loads and validates the node configuration.
package config

import (
	"fmt"

	"github.com/curvefoundry/curved/internal/core/tx"
)

// Config is the complete curved configuration.
type Config struct {
	// DataDir is where the key-value store and trade history live.
	DataDir string `toml:"data_dir" mapstructure:"data_dir"`

	// StorageBackend selects the key-value store: "pebble" or "leveldb".
	StorageBackend string `toml:"storage_backend" mapstructure:"storage_backend"`

	// Compression selects the entry codec: "lz4" or "none".
	Compression string `toml:"compression" mapstructure:"compression"`

	// BaseFee is the minimum transaction fee in quote units.
	BaseFee uint64 `toml:"base_fee" mapstructure:"base_fee"`

	// PlatformAccount receives creation and trading fees, hex encoded.
	PlatformAccount string `toml:"platform_account" mapstructure:"platform_account"`

	// TradeHistoryPath is the sqlite file for executed trades.
	// Empty disables recording.
	TradeHistoryPath string `toml:"trade_history_path" mapstructure:"trade_history_path"`

	// PoolCacheSize bounds the pool-info cache, entries.
	PoolCacheSize int `toml:"pool_cache_size" mapstructure:"pool_cache_size"`

	// GraduationTarget is the quote reserve at which pools graduate.
	GraduationTarget uint64 `toml:"graduation_target" mapstructure:"graduation_target"`
}

// PlatformAccountID decodes the configured platform account.
func (c *Config) PlatformAccountID() (tx.AccountID, error) {
	return tx.DecodeAccountID(c.PlatformAccount)
}

// Validate checks the loaded configuration.
func Validate(c *Config) error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	switch c.StorageBackend {
	case "pebble", "leveldb":
	default:
		return fmt.Errorf("storage_backend must be pebble or leveldb, got %q", c.StorageBackend)
	}
	switch c.Compression {
	case "lz4", "none":
	default:
		return fmt.Errorf("compression must be lz4 or none, got %q", c.Compression)
	}
	if c.BaseFee == 0 {
		return fmt.Errorf("base_fee must be positive")
	}
	if _, err := c.PlatformAccountID(); err != nil {
		return fmt.Errorf("platform_account: %w", err)
	}
	if c.PoolCacheSize <= 0 {
		return fmt.Errorf("pool_cache_size must be positive")
	}
	return nil
}
