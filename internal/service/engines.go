package service

import (
	"log/slog"

	"github.com/alexanderramin/repforge/internal/adaptation"
	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/planner"
)

// EngineConfig holds the tunables exposed through configuration.
type EngineConfig struct {
	Thresholds             planner.Thresholds
	UnlockReps             int
	PreventiveReductionPct int
}

func DefaultEngineConfig() EngineConfig {
	pc := planner.DefaultPrescriberConfig()
	return EngineConfig{
		Thresholds:             planner.DefaultThresholds(),
		UnlockReps:             pc.UnlockReps,
		PreventiveReductionPct: pc.PreventiveReductionPct,
	}
}

// Engines are the pure decision components shared by the services.
type Engines struct {
	Catalog    *catalog.Catalog
	Planner    *planner.Engine
	Resolver   *planner.BaselineResolver
	AutoReg    adaptation.AutoRegulationEngine
	Pain       *adaptation.PainAdaptationEngine
	Volume     *adaptation.VolumeTracker
	UnlockReps int
}

func NewEngines(c *catalog.Catalog, cfg EngineConfig, logger *slog.Logger) *Engines {
	pc := planner.PrescriberConfig{UnlockReps: cfg.UnlockReps, PreventiveReductionPct: cfg.PreventiveReductionPct}
	eng := planner.NewEngine(c, cfg.Thresholds, pc, logger)
	return &Engines{
		Catalog:    c,
		Planner:    eng,
		Resolver:   planner.NewBaselineResolver(c, cfg.UnlockReps),
		Pain:       adaptation.NewPainAdaptationEngine(c),
		Volume:     adaptation.NewVolumeTracker(c, nil),
		UnlockReps: eng.Prescriber.UnlockReps(),
	}
}
