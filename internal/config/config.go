// Package config loads the tunable limits for capture, retention and the
// screenshot codec. Every value has a default matching the observed behavior
// of the original recorder; a YAML file and WEBTRAIL_* environment variables
// can override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Limits bundles every tunable threshold in one place so the capture agent,
// store and codec share a single source of truth.
type Limits struct {
	// Dedup windows (§ dedup policy): near-duplicate suppression on append.
	DedupWindowMS int `yaml:"dedup_window_ms" env:"WEBTRAIL_DEDUP_WINDOW_MS" env-default:"100"`
	ClickWindowMS int `yaml:"click_window_ms" env:"WEBTRAIL_CLICK_WINDOW_MS" env-default:"25"`

	// Step log retention.
	MaxSteps    int   `yaml:"max_steps" env:"WEBTRAIL_MAX_STEPS" env-default:"1000"`
	MaxLogBytes int64 `yaml:"max_log_bytes" env:"WEBTRAIL_MAX_LOG_BYTES" env-default:"52428800"`

	// Screenshot gallery retention.
	MaxScreenshots int `yaml:"max_screenshots" env:"WEBTRAIL_MAX_SCREENSHOTS" env-default:"20"`

	// Input debounce: one step per contiguous typing burst.
	InputDebounceMS int `yaml:"input_debounce_ms" env:"WEBTRAIL_INPUT_DEBOUNCE_MS" env-default:"800"`

	// Tab URL resolution cache.
	URLCacheTTLMS int `yaml:"url_cache_ttl_ms" env:"WEBTRAIL_URL_CACHE_TTL_MS" env-default:"500"`

	// Screenshot codec ceilings.
	MaxDecodedBytes  int64 `yaml:"max_decoded_bytes" env:"WEBTRAIL_MAX_DECODED_BYTES" env-default:"52428800"`
	MaxImageWidth    int   `yaml:"max_image_width" env:"WEBTRAIL_MAX_IMAGE_WIDTH" env-default:"1000"`
	MaxImageHeight   int   `yaml:"max_image_height" env:"WEBTRAIL_MAX_IMAGE_HEIGHT" env-default:"800"`
	MaxImagePixels   int   `yaml:"max_image_pixels" env:"WEBTRAIL_MAX_IMAGE_PIXELS" env-default:"800000"`
	LowQualityPixels int   `yaml:"low_quality_pixels" env:"WEBTRAIL_LOW_QUALITY_PIXELS" env-default:"500000"`
	JPEGQuality      int   `yaml:"jpeg_quality" env:"WEBTRAIL_JPEG_QUALITY" env-default:"80"`
	LowJPEGQuality   int   `yaml:"low_jpeg_quality" env:"WEBTRAIL_LOW_JPEG_QUALITY" env-default:"50"`

	// StateDir is where the step log, gallery and recording state live.
	// Empty means ~/.webtrail.
	StateDir string `yaml:"state_dir" env:"WEBTRAIL_STATE_DIR" env-default:""`
}

// Load reads limits from the optional YAML file at path, then applies
// environment overrides. An empty path loads defaults + environment only.
func Load(path string) (Limits, error) {
	var l Limits
	if path != "" {
		if err := cleanenv.ReadConfig(path, &l); err != nil {
			return l, fmt.Errorf("read config %s: %w", path, err)
		}
		return l, nil
	}
	if err := cleanenv.ReadEnv(&l); err != nil {
		return l, fmt.Errorf("read env config: %w", err)
	}
	return l, nil
}

// Default returns the built-in limits with no file or environment applied.
func Default() Limits {
	return Limits{
		DedupWindowMS:    100,
		ClickWindowMS:    25,
		MaxSteps:         1000,
		MaxLogBytes:      50 * 1024 * 1024,
		MaxScreenshots:   20,
		InputDebounceMS:  800,
		URLCacheTTLMS:    500,
		MaxDecodedBytes:  50 * 1024 * 1024,
		MaxImageWidth:    1000,
		MaxImageHeight:   800,
		MaxImagePixels:   800000,
		LowQualityPixels: 500000,
		JPEGQuality:      80,
		LowJPEGQuality:   50,
	}
}

// ResolveStateDir expands the configured state directory, defaulting to
// ~/.webtrail when unset.
func (l Limits) ResolveStateDir() (string, error) {
	if l.StateDir != "" {
		return l.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".webtrail"), nil
}
