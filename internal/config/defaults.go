package config

import "github.com/spf13/viper"

// DefaultPlatformAccount is the burn-style fee sink used when no
// platform account is configured.
const DefaultPlatformAccount = "0000000000000000000000000000000000000001"

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("storage_backend", "pebble")
	v.SetDefault("compression", "lz4")
	v.SetDefault("base_fee", uint64(10))
	v.SetDefault("platform_account", DefaultPlatformAccount)
	v.SetDefault("trade_history_path", "")
	v.SetDefault("pool_cache_size", 128)
	v.SetDefault("graduation_target", uint64(85_000_000))
}
