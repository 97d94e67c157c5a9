// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for a reconciliation run and for the image
// compression tool. Every remote endpoint, credential, and ledger literal
// is explicit here; nothing reads configuration implicitly.
type Config struct {
	// Debug switches the catalog and ledger sources to cached snapshot
	// files instead of the remote APIs.
	Debug bool `json:"debug"`

	// YouTubeAPIKey authenticates catalog listing requests.
	YouTubeAPIKey string `json:"youtube_api_key"`
	// ChannelID is the channel whose catalog is reconciled.
	ChannelID string `json:"channel_id"`
	// CatalogSnapshotFile is a cached raw search response used when Debug is set.
	CatalogSnapshotFile string `json:"catalog_snapshot_file"`
	// MaxResults is the page size requested from the search endpoint.
	MaxResults int `json:"max_results"`

	// SheetAPIKey authenticates ledger reads.
	SheetAPIKey string `json:"sheet_api_key"`
	// SpreadsheetID identifies the ledger spreadsheet.
	SpreadsheetID string `json:"spreadsheet_id"`
	// CredentialsFile is the service account key used for ledger appends.
	CredentialsFile string `json:"credentials_file"`
	// LedgerSnapshotFile is a cached values response used when Debug is set.
	LedgerSnapshotFile string `json:"ledger_snapshot_file"`
	// SheetName and SheetRange select the ledger tab and cell range.
	SheetName  string `json:"sheet_name"`
	SheetRange string `json:"sheet_range"`

	// DownloadDir is where clips and covers are written.
	DownloadDir string `json:"download_dir"`

	// TitleSuffix is the literal channel suffix stripped from catalog
	// titles before matching.
	TitleSuffix string `json:"title_suffix"`
	// DatePrefixPattern matches the leading date prefix stripped from a
	// title when deriving file names.
	DatePrefixPattern string `json:"date_prefix_pattern"`
	// YesToken and NoToken are the ledger's flag literals. A flag is true
	// only when the cell equals YesToken exactly.
	YesToken string `json:"yes_token"`
	NoToken  string `json:"no_token"`

	// YtdlpPath is the path to the yt-dlp executable.
	YtdlpPath string `json:"ytdlp_path"`
	// YtdlpTimeout is the maximum time for one clip download.
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`

	// MaxRetries is the maximum number of retries for network fetches.
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries.
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries.
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1).
	BackoffMultiplier float64 `json:"backoff_multiplier"`

	// CompressInputDir and CompressOutputDir are the image tool's folders.
	CompressInputDir  string `json:"compress_input_dir"`
	CompressOutputDir string `json:"compress_output_dir"`
	// TinyPNGAPIURL is the compression endpoint.
	TinyPNGAPIURL string `json:"tinypng_api_url"`
	// TinyPNGAPIKey authenticates compression requests.
	TinyPNGAPIKey string `json:"tinypng_api_key"`
	// CompressWorkers bounds concurrent compression uploads.
	CompressWorkers int `json:"compress_workers"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxResults:        50,
		SheetRange:        "A1:G",
		TitleSuffix:       " - Luterana Biguaçu",
		DatePrefixPattern: `^Mensagem \d{2}/\d{2} - `,
		YesToken:          "Sim",
		NoToken:           "Não",
		YtdlpPath:         "yt-dlp",
		YtdlpTimeout:      10 * time.Minute,
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		TinyPNGAPIURL:     "https://api.tinify.com/shrink",
		CompressWorkers:   4,
	}
}

// Load loads configuration from environment variables, config file, and
// applies defaults. Priority: env vars > config file > defaults.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Optional; missing .env is not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytpod.json in the current
// directory or under ~/.config/ytpod/.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytpod.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytpod", "ytpod.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("YOUTUBE_CHANNEL_ID"); v != "" {
		c.ChannelID = v
	}
	if v := os.Getenv("YOUTUBE_CACHE_FILE"); v != "" {
		c.CatalogSnapshotFile = v
	}
	if v := os.Getenv("YTPOD_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResults = n
		}
	}
	if v := os.Getenv("SPREADSHEET_API_KEY"); v != "" {
		c.SheetAPIKey = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
	if v := os.Getenv("SPREADSHEET_CREDENTIALS_FILE"); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv("SPREADSHEET_CACHE_FILE"); v != "" {
		c.LedgerSnapshotFile = v
	}
	if v := os.Getenv("SPREADSHEET_SHEET_NAME"); v != "" {
		c.SheetName = v
	}
	if v := os.Getenv("SPREADSHEET_SHEET_RANGE"); v != "" {
		c.SheetRange = v
	}
	if v := os.Getenv("DOWNLOAD_FOLDER"); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv("CHANNEL_TITLE_SUFFIX"); v != "" {
		c.TitleSuffix = v
	}
	if v := os.Getenv("TITLE_DATE_PREFIX"); v != "" {
		c.DatePrefixPattern = v
	}
	if v := os.Getenv("SHEET_YES_TOKEN"); v != "" {
		c.YesToken = v
	}
	if v := os.Getenv("SHEET_NO_TOKEN"); v != "" {
		c.NoToken = v
	}
	if v := os.Getenv("YTPOD_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTPOD_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YTPOD_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTPOD_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTPOD_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
	if v := os.Getenv("YTPOD_BACKOFF_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.BackoffMultiplier = f
		}
	}
	if v := os.Getenv("INPUT_COMPRESS_FOLDER"); v != "" {
		c.CompressInputDir = v
	}
	if v := os.Getenv("OUTPUT_COMPRESS_FOLDER"); v != "" {
		c.CompressOutputDir = v
	}
	if v := os.Getenv("TINYPNG_API_URL"); v != "" {
		c.TinyPNGAPIURL = v
	}
	if v := os.Getenv("TINYPNG_API_KEY"); v != "" {
		c.TinyPNGAPIKey = v
	}
	if v := os.Getenv("YTPOD_COMPRESS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CompressWorkers = n
		}
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	if c.YesToken == "" || c.NoToken == "" {
		return fmt.Errorf("yes_token and no_token must be set")
	}
	if c.YesToken == c.NoToken {
		return fmt.Errorf("yes_token and no_token must differ")
	}
	if _, err := regexp.Compile(c.DatePrefixPattern); err != nil {
		return fmt.Errorf("date_prefix_pattern: %w", err)
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	if c.CompressWorkers <= 0 {
		return fmt.Errorf("compress_workers must be positive")
	}
	return nil
}
