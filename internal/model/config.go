package model

import "time"

// Config holds the complete claimlens configuration
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Cache     CacheConfig     `yaml:"cache"`
	Output    OutputConfig    `yaml:"output"`
}

// StoreConfig configures the claims/document record store
type StoreConfig struct {
	// Path to the SQLite database file
	Path string `yaml:"path"`
}

// EmbeddingConfig configures the embedding service client
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai" or "" (disabled)
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	// Timeout bounds a single embedding call; long-running upstream work
	// is capped at 5 minutes regardless.
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
}

// IndexConfig configures claim index construction and lifecycle
type IndexConfig struct {
	// ChunkSize/ChunkOverlap are fixed for reproducibility: the same
	// document must always produce the same chunks.
	ChunkSize    int           `yaml:"chunk_size"`
	ChunkOverlap int           `yaml:"chunk_overlap"`
	TTL          time.Duration `yaml:"ttl"`
	// Workers bounds concurrent chunk embedding during index build
	Workers int `yaml:"workers"`
}

// CacheConfig configures embedding caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "claims.db",
		},
		Embedding: EmbeddingConfig{
			Provider:          "openai",
			Model:             "text-embedding-3-small",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Index: IndexConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TTL:          24 * time.Hour,
			Workers:      4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
			JSON:    false,
		},
	}
}
