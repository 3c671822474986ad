// Package config loads ctx3d's runtime configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds every tunable named across the encode/serialize/retrieve
// pipeline. mapstructure tags mirror viper's env/YAML key names.
type Config struct {
	// Encoder
	Preset         string        `mapstructure:"PRESET"`
	Hyphenation    string        `mapstructure:"HYPHENATION"` // "merge" or "preserve"
	CellBudget     int           `mapstructure:"CELL_BUDGET"` // 0 = unbounded
	DedupWindow    int           `mapstructure:"DEDUP_WINDOW"`
	DropFooters    bool          `mapstructure:"DROP_FOOTERS"`
	TolerancePx    int           `mapstructure:"TOLERANCE_PX"`
	ForceOCR       bool          `mapstructure:"FORCE_OCR"`
	WorkerPoolSize int           `mapstructure:"WORKER_POOL_SIZE"` // 0 = NumCPU
	TokenizerName  string        `mapstructure:"TOKENIZER_NAME"`

	// Serializer
	MaxPreviewChars int    `mapstructure:"MAX_PREVIEW_CHARS"`
	TableMode       string `mapstructure:"TABLE_MODE"` // dims|csv|auto
	FramingEnabled  bool   `mapstructure:"FRAMING_ENABLED"`
	CodesetLabel    string `mapstructure:"CODESET_LABEL"`
	GrammarHint     string `mapstructure:"GRAMMAR_HINT"`

	// Chunker
	ChunkMode          string `mapstructure:"CHUNK_MODE"` // cells|tokens|headings|tablerows
	ChunkCells         int    `mapstructure:"CHUNK_CELLS"`
	ChunkOverlapCells  int    `mapstructure:"CHUNK_OVERLAP_CELLS"`
	ChunkMaxTokens     int    `mapstructure:"CHUNK_MAX_TOKENS"`
	ChunkOverlapTokens int    `mapstructure:"CHUNK_OVERLAP_TOKENS"`

	// Embedding / LLM external calls
	EmbeddingHost     string        `mapstructure:"EMBEDDING_HOST"`
	EmbeddingKind     string        `mapstructure:"EMBEDDING_KIND"` // hash|remote_a|remote_b
	EmbeddingCacheCap int           `mapstructure:"EMBEDDING_CACHE_CAP"`
	EmbeddingCacheFile string       `mapstructure:"EMBEDDING_CACHE_FILE"`
	HTTPTimeout       time.Duration `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	MaxRetries        int           `mapstructure:"MAX_RETRIES"`
	RetryBaseDelay    time.Duration `mapstructure:"RETRY_BASE_DELAY_SECONDS"`

	// Retrieval store
	StorePath          string  `mapstructure:"STORE_PATH"`
	SensitivityMax     string  `mapstructure:"SENSITIVITY_MAX"` // public|internal|confidential|restricted
	RetrievalPolicy    string  `mapstructure:"RETRIEVAL_POLICY"` // external|internal
	IdentityFile       string  `mapstructure:"IDENTITY_FILE"`
	DefaultTopK        int     `mapstructure:"DEFAULT_TOP_K"`
	HybridCosineWeight float64 `mapstructure:"HYBRID_COSINE_WEIGHT"`
	HybridBM25Weight   float64 `mapstructure:"HYBRID_BM25_WEIGHT"`

	// NumGuard
	NumGuardStrict bool `mapstructure:"NUMGUARD_STRICT"`

	// Benchmark
	BenchCERCeiling float64 `mapstructure:"BENCH_CER_CEILING"`
	BenchWERCeiling float64 `mapstructure:"BENCH_WER_CEILING"`
}

// Load reads ctx3d.{yaml,json,...} from the working directory (or ./config),
// layers environment variables on top, and fills in defaults for anything
// left unset. A missing config file is not fatal — env/defaults carry the
// run, matching the teacher's "warn and continue" bootstrap behavior.
func Load(logger *zap.Logger) *Config {
	var cfg Config
	viper.SetConfigName("ctx3d")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("PRESET", "reports")
	viper.SetDefault("HYPHENATION", "merge")
	viper.SetDefault("CELL_BUDGET", 0)
	viper.SetDefault("DEDUP_WINDOW", 0)
	viper.SetDefault("DROP_FOOTERS", false)
	viper.SetDefault("TOLERANCE_PX", 0)
	viper.SetDefault("FORCE_OCR", false)
	viper.SetDefault("WORKER_POOL_SIZE", 0)
	viper.SetDefault("TOKENIZER_NAME", "cl100k")

	viper.SetDefault("MAX_PREVIEW_CHARS", 120)
	viper.SetDefault("TABLE_MODE", "auto")
	viper.SetDefault("FRAMING_ENABLED", true)
	viper.SetDefault("CODESET_LABEL", "ctx3d-v1")
	viper.SetDefault("GRAMMAR_HINT", "")

	viper.SetDefault("CHUNK_MODE", "cells")
	viper.SetDefault("CHUNK_CELLS", 40)
	viper.SetDefault("CHUNK_OVERLAP_CELLS", 4)
	viper.SetDefault("CHUNK_MAX_TOKENS", 512)
	viper.SetDefault("CHUNK_OVERLAP_TOKENS", 64)

	viper.SetDefault("EMBEDDING_HOST", "")
	viper.SetDefault("EMBEDDING_KIND", "hash")
	viper.SetDefault("EMBEDDING_CACHE_CAP", 4096)
	viper.SetDefault("EMBEDDING_CACHE_FILE", "")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("MAX_RETRIES", 5)
	viper.SetDefault("RETRY_BASE_DELAY_SECONDS", 1)

	viper.SetDefault("STORE_PATH", "ctx3d.db")
	viper.SetDefault("SENSITIVITY_MAX", "public")
	viper.SetDefault("RETRIEVAL_POLICY", "external")
	viper.SetDefault("IDENTITY_FILE", "")
	viper.SetDefault("DEFAULT_TOP_K", 10)
	viper.SetDefault("HYBRID_COSINE_WEIGHT", 0.7)
	viper.SetDefault("HYBRID_BM25_WEIGHT", 0.3)

	viper.SetDefault("NUMGUARD_STRICT", false)

	viper.SetDefault("BENCH_CER_CEILING", 1.0)
	viper.SetDefault("BENCH_WER_CEILING", 1.0)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		if logger != nil {
			logger.Fatal("unable to decode config into struct", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Preset = strings.ToLower(strings.TrimSpace(cfg.Preset))
	cfg.Hyphenation = strings.ToLower(strings.TrimSpace(cfg.Hyphenation))
	cfg.TableMode = strings.ToLower(strings.TrimSpace(cfg.TableMode))
	cfg.ChunkMode = strings.ToLower(strings.TrimSpace(cfg.ChunkMode))
	cfg.EmbeddingKind = strings.ToLower(strings.TrimSpace(cfg.EmbeddingKind))
	cfg.SensitivityMax = strings.ToLower(strings.TrimSpace(cfg.SensitivityMax))
	cfg.RetrievalPolicy = strings.ToLower(strings.TrimSpace(cfg.RetrievalPolicy))

	// Raw values above are seconds; convert to time.Duration the way the
	// teacher's Load() does for its own *_SECONDS fields.
	cfg.HTTPTimeout = cfg.HTTPTimeout * time.Second
	cfg.RetryBaseDelay = cfg.RetryBaseDelay * time.Second

	return &cfg
}
