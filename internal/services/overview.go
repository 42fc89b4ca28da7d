package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
)

// OverviewService builds the dashboard overview. The sub-reports run
// concurrently and the overview fails as a whole when any of them fails.
// Nothing is cached between calls.
type OverviewService struct {
	store *store.Store
	topN  int
	now   func() time.Time
}

func NewOverviewService(st *store.Store, topN int) *OverviewService {
	return &OverviewService{store: st, topN: topN, now: time.Now}
}

func (s *OverviewService) Overview(ctx context.Context, tenant string) (*models.DashboardOverview, error) {
	devices := s.store.Devices()
	out := &models.DashboardOverview{}

	var sos, lowBattery, offline []models.Row

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.KPIs.Uptime, err = devices.Uptime(gctx, tenant)
		return err
	})
	g.Go(func() (err error) {
		out.KPIs.GPSSuccess, err = devices.GPSSuccess(gctx, tenant)
		return err
	})
	g.Go(func() (err error) {
		out.KPIs.BatteryHealth, err = devices.BatteryHealth(gctx, tenant)
		return err
	})
	g.Go(func() (err error) {
		out.KPIs.AccuracyDistribution, err = devices.AccuracyDistribution(gctx, tenant)
		return err
	})
	g.Go(func() (err error) {
		sos, err = devices.ActiveSOS(gctx, tenant)
		return err
	})
	g.Go(func() (err error) {
		lowBattery, err = devices.LowBattery(gctx, tenant)
		return err
	})
	g.Go(func() (err error) {
		offline, err = devices.Offline(gctx, tenant)
		return err
	})

	if err := g.Wait(); err != nil {
		zap.S().Named("overview_service").Warnw("dashboard overview failed", "tenant", tenant, "error", err)
		return nil, err
	}

	out.Alerts = models.OverviewAlerts{
		ActiveSOSCount:    len(sos),
		ActiveSOSList:     nonNil(sos),
		LowBatteryCount:   len(lowBattery),
		LowBatteryDevices: s.head(lowBattery),
		OfflineCount:      len(offline),
		OfflineDevices:    s.head(offline),
	}
	if out.KPIs.AccuracyDistribution == nil {
		out.KPIs.AccuracyDistribution = []models.Row{}
	}
	out.GeneratedAt = s.now().UTC()

	return out, nil
}

func (s *OverviewService) head(rows []models.Row) []models.Row {
	if len(rows) > s.topN {
		rows = rows[:s.topN]
	}
	return nonNil(rows)
}

func nonNil(rows []models.Row) []models.Row {
	if rows == nil {
		return []models.Row{}
	}
	return rows
}
