package services

import (
	"context"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
	"github.com/xfinder/reporting-api/pkg/query"
)

var (
	geofenceLimits      = query.SortPolicy{DefaultLimit: 100, MaxLimit: 1000}
	configHistoryLimits = query.SortPolicy{DefaultLimit: 5, MaxLimit: 100}
)

// DeviceService serves the fixed device reports of a company.
type DeviceService struct {
	store *store.Store
}

func NewDeviceService(st *store.Store) *DeviceService {
	return &DeviceService{store: st}
}

func (s *DeviceService) Position(ctx context.Context, tenant, devEui string) (*models.Row, error) {
	return s.store.Devices().Position(ctx, tenant, devEui)
}

func (s *DeviceService) Route(ctx context.Context, tenant, devEui string) ([]models.Row, error) {
	return s.store.Devices().Route24h(ctx, tenant, devEui)
}

func (s *DeviceService) MotionStates(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().MotionStates(ctx, tenant)
}

func (s *DeviceService) LowBattery(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().LowBattery(ctx, tenant)
}

func (s *DeviceService) Offline(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().Offline(ctx, tenant)
}

func (s *DeviceService) GatewayQuality(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().GatewayQuality(ctx, tenant)
}

func (s *DeviceService) CustomerActivity(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().CustomerActivity(ctx, tenant)
}

func (s *DeviceService) ActiveSOS(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().ActiveSOS(ctx, tenant)
}

func (s *DeviceService) SOSEvents(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().SOSEvents24h(ctx, tenant)
}

func (s *DeviceService) MotionTransitions(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().MotionTransitionsToday(ctx, tenant)
}

func (s *DeviceService) DuplicateEvents(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().DuplicateEventRate(ctx, tenant)
}

func (s *DeviceService) EventTypes(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().EventTypes(ctx, tenant)
}

// GeofenceViolations reads limit like a page size: 100 when missing, at most 1000.
func (s *DeviceService) GeofenceViolations(ctx context.Context, tenant, limit string) ([]models.Row, error) {
	page := query.Resolve(query.PageRequest{Limit: limit}, geofenceLimits)
	return s.store.Devices().GeofenceViolations(ctx, tenant, page.Limit)
}

func (s *DeviceService) CurrentConfig(ctx context.Context, tenant, devEui string) (*models.Row, error) {
	return s.store.Devices().CurrentConfig(ctx, tenant, devEui)
}

// ConfigHistory reads limit like a page size: 5 when missing, at most 100.
func (s *DeviceService) ConfigHistory(ctx context.Context, tenant, devEui, limit string) ([]models.Row, error) {
	page := query.Resolve(query.PageRequest{Limit: limit}, configHistoryLimits)
	return s.store.Devices().ConfigHistory(ctx, tenant, devEui, page.Limit)
}

func (s *DeviceService) TrackingModes(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().TrackingModes(ctx, tenant)
}

func (s *DeviceService) Uptime(ctx context.Context, tenant string) (*models.Row, error) {
	return s.store.Devices().Uptime(ctx, tenant)
}

func (s *DeviceService) GPSSuccess(ctx context.Context, tenant string) (*models.Row, error) {
	return s.store.Devices().GPSSuccess(ctx, tenant)
}

func (s *DeviceService) BatteryHealth(ctx context.Context, tenant string) (*models.Row, error) {
	return s.store.Devices().BatteryHealth(ctx, tenant)
}

func (s *DeviceService) AccuracyDistribution(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Devices().AccuracyDistribution(ctx, tenant)
}

func (s *DeviceService) DeviceList(ctx context.Context, tenant string) ([]string, error) {
	return s.store.Devices().DeviceList(ctx, tenant)
}
