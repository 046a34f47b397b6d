package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/repforge/internal/adaptation"
	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/repository"
)

const defaultVolumeLookback = 4

type volumeService struct {
	repos    repository.Repos
	engines  *Engines
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewVolumeService(repos repository.Repos, engines *Engines, logger *slog.Logger, observers ...UseCaseObserver) VolumeService {
	return &volumeService{
		repos:    repos,
		engines:  engines,
		logger:   discardIfNil(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Report zones one week's sets per muscle group and recommends the next
// cycle's volume from that week and the weeks before it.
func (s *volumeService) Report(ctx context.Context, req app.VolumeReportRequest) (resp *app.VolumeReportResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID}
	defer func() { observe(ctx, s.observer, "volume-report", startedAt, fields, err) }()

	if req.UserID == "" {
		return nil, app.ValidationErrors{{Field: "user_id", Code: app.ValidationMissingField, Message: "user id is required"}}
	}
	lookback := req.Lookback
	if lookback <= 0 {
		lookback = defaultVolumeLookback
	}
	week := domain.WeekStart(nowOr(req.Week))
	fields["week"] = week.Format(time.DateOnly)

	var history []map[domain.MuscleGroup]int
	for _, w := range previousWeeks(week, lookback) {
		totals, err := s.repos.Volume.GetWeeklyVolume(ctx, req.UserID, w)
		if err != nil {
			return nil, fmt.Errorf("loading weekly volume: %w", err)
		}
		// Untrained weeks stay in the series as empty totals.
		history = append(history, totals)
	}
	current, err := s.repos.Volume.GetWeeklyVolume(ctx, req.UserID, week)
	if err != nil {
		return nil, fmt.Errorf("loading weekly volume: %w", err)
	}
	if len(current) > 0 {
		history = append(history, current)
	}

	memory, _, err := loadPainMemory(ctx, s.repos.PainMemory, req.UserID, s.logger)
	if err != nil {
		return nil, err
	}
	recs := s.engines.Volume.Recommend(history, adaptation.PainGroups(s.engines.Catalog, memory))
	return &app.VolumeReportResponse{
		WeekStart:       week,
		Summary:         s.engines.Volume.Summarize(req.UserID, week, current),
		Recommendations: recs,
	}, nil
}
