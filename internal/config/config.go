package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/planner"
	"github.com/alexanderramin/repforge/internal/service"
)

// Config holds process configuration for the repforge binary.
type Config struct {
	DBPath      string
	CatalogPath string
	LogUseCases bool
	MetricsAddr string
	Engine      service.EngineConfig
}

// Default returns a Config with an empty DB path; Load fills it from the
// home directory when REPFORGE_DB is unset.
func Default() Config {
	return Config{Engine: service.DefaultEngineConfig()}
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or malformed values.
func Load() (Config, error) {
	cfg := Default()

	cfg.DBPath = os.Getenv("REPFORGE_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".repforge", "repforge.db")
	}
	cfg.CatalogPath = os.Getenv("REPFORGE_CATALOG")
	cfg.MetricsAddr = os.Getenv("REPFORGE_METRICS_ADDR")
	if v := os.Getenv("REPFORGE_LOG_USECASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}

	applyScoreEnv(&cfg.Engine.Thresholds.High, "REPFORGE_CONFIDENCE_HIGH")
	applyScoreEnv(&cfg.Engine.Thresholds.Medium, "REPFORGE_CONFIDENCE_MEDIUM")
	applyScoreEnv(&cfg.Engine.Thresholds.Low, "REPFORGE_CONFIDENCE_LOW")
	t := cfg.Engine.Thresholds
	if !(t.High > t.Medium && t.Medium > t.Low) {
		return Config{}, fmt.Errorf("confidence thresholds must be strictly decreasing, got %.0f/%.0f/%.0f", t.High, t.Medium, t.Low)
	}

	applyPositiveIntEnv(&cfg.Engine.UnlockReps, "REPFORGE_UNLOCK_REPS")
	if v := os.Getenv("REPFORGE_PREVENTIVE_REDUCTION_PCT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 100 {
			cfg.Engine.PreventiveReductionPct = n
		}
	}
	return cfg, nil
}

// Catalog loads the override file when one is configured, else the
// embedded catalog.
func (c Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(c.CatalogPath)
}

// Thresholds is shorthand for the substitution bands.
func (c Config) Thresholds() planner.Thresholds {
	return c.Engine.Thresholds
}

func applyScoreEnv(dst *float64, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 100 {
		return
	}
	*dst = f
}

func applyPositiveIntEnv(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}
