package config

// StoresConfig configures the public store lookups.
type StoresConfig struct {
	GooglePlay GooglePlayConfig `yaml:"google_play" toml:"google_play"`
	AppStore   AppStoreConfig   `yaml:"app_store" toml:"app_store"`
	Timeout    string           `yaml:"timeout" toml:"timeout"`
	// CacheDir holds the last successfully fetched store versions.
	CacheDir string `yaml:"cache_dir" toml:"cache_dir"`
}

// GooglePlayConfig configures the Google Play listing lookup.
type GooglePlayConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	PackageID string `yaml:"package_id" toml:"package_id"` // detected from applicationId when empty
	BaseURL   string `yaml:"base_url" toml:"base_url"`
}

// AppStoreConfig configures the iTunes lookup.
type AppStoreConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	BundleID string `yaml:"bundle_id" toml:"bundle_id"` // detected from the Xcode project when empty
	Country  string `yaml:"country" toml:"country"`
	BaseURL  string `yaml:"base_url" toml:"base_url"`
}
