package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ppiankov/claimlens/internal/cache"
	"github.com/ppiankov/claimlens/internal/embed"
	"github.com/ppiankov/claimlens/internal/extract"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/ragindex"
	"github.com/ppiankov/claimlens/internal/simindex"
	"github.com/ppiankov/claimlens/internal/store"
)

// loadConfig merges defaults, the config file, environment, and flags.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if path := viper.GetString("store.path"); path != "" {
		cfg.Store.Path = path
	}
	if name := viper.GetString("embedding.model"); name != "" {
		cfg.Embedding.Model = name
	}
	if viper.IsSet("embedding.provider") {
		cfg.Embedding.Provider = viper.GetString("embedding.provider")
	}
	if viper.IsSet("index.ttl") {
		cfg.Index.TTL = viper.GetDuration("index.ttl")
	}
	if viper.IsSet("index.workers") {
		cfg.Index.Workers = viper.GetInt("index.workers")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if dir := viper.GetString("cache.dir"); dir != "" {
		cfg.Cache.Dir = dir
	}

	cfg.Output.Verbose = verbose
	cfg.Output.JSON = asJSON
	return cfg
}

// openStore opens the configured claims database. Callers own Close.
func openStore(cfg *model.Config) (*store.SQLiteStore, error) {
	s, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open claims store: %w", err)
	}
	return s, nil
}

// buildEmbedder assembles the embedding client. With an OpenAI key the
// real service is used behind the rate limiter and cache; otherwise the
// deterministic offline embedder keeps local runs working.
func buildEmbedder(cfg *model.Config) (embed.Embedder, error) {
	var inner embed.Embedder

	apiKey := cfg.Embedding.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if cfg.Embedding.Provider == "openai" && apiKey != "" {
		embCfg := cfg.Embedding
		embCfg.APIKey = apiKey
		client, err := embed.NewOpenAIEmbedder(embCfg)
		if err != nil {
			return nil, fmt.Errorf("embedding client: %w", err)
		}
		inner = client
	} else {
		if verbose {
			fmt.Fprintln(os.Stderr, "No embedding API key; using offline embedder")
		}
		inner = embed.NewHashEmbedder(256)
	}

	if !cfg.Cache.Enabled {
		return inner, nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return inner, nil
		}
		dir = filepath.Join(home, ".claimlens", "cache")
	}
	layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	return embed.NewCached(inner, layered, cfg.Cache.DiskTTL), nil
}

// buildRegistry assembles the index registry over the store and the
// configured collaborators.
func buildRegistry(cfg *model.Config, s *store.SQLiteStore, docRoot string) (*ragindex.Registry, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	extractor := extract.NewFileExtractor(docRoot)
	return ragindex.NewRegistry(s, extractor, embedder, simindex.NewMemoryIndex(), cfg.Index), nil
}
