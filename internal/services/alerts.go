package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

const defaultHistoryHours = 24

// AlertService serves the people sensor alert reports.
type AlertService struct {
	store *store.Store
}

func NewAlertService(st *store.Store) *AlertService {
	return &AlertService{store: st}
}

func (s *AlertService) Summary(ctx context.Context, tenant string) (*models.Row, error) {
	return s.store.Alerts().Summary(ctx, tenant)
}

func (s *AlertService) Alarm2Active(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().Alarm2Active(ctx, tenant)
}

func (s *AlertService) Button2Pressed(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().Button2Pressed(ctx, tenant)
}

func (s *AlertService) ButtonComparison(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().ButtonComparison(ctx, tenant)
}

func (s *AlertService) AlarmComparison(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().AlarmComparison(ctx, tenant)
}

func (s *AlertService) AllActive(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().AllActive(ctx, tenant)
}

// History lists alert changes within the last hours. An empty value means
// 24 hours; anything but a positive integer is rejected.
func (s *AlertService) History(ctx context.Context, tenant, hours string) ([]models.Row, error) {
	h := defaultHistoryHours
	if raw := strings.TrimSpace(hours); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, srvErrors.NewValidationError("hours must be a positive integer")
		}
		h = n
	}
	return s.store.Alerts().History(ctx, tenant, h)
}

func (s *AlertService) ByDepartment(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().ByDepartment(ctx, tenant)
}

func (s *AlertService) ByZone(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().ByZone(ctx, tenant)
}

func (s *AlertService) Multiple(ctx context.Context, tenant string) ([]models.Row, error) {
	return s.store.Alerts().Multiple(ctx, tenant)
}

// Filtered lists the people matching f. Export uses the same call.
func (s *AlertService) Filtered(ctx context.Context, tenant string, f models.AlertFilter) ([]models.Row, error) {
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, srvErrors.NewValidationError("invalid priority %q: must be HIGHLY_CRITICAL, CRITICAL or ALERT", f.Priority)
	}
	return s.store.Alerts().Filtered(ctx, tenant, f)
}
