package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/services"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

type DatasetService interface {
	Query(ctx context.Context, req services.DatasetRequest) (*models.QueryResult, error)
	Export(ctx context.Context, tenant, dataset string, params url.Values) (*services.ExportResult, error)
	GPSStats(ctx context.Context, tenant string, params url.Values) (*models.Row, error)
}

type DeviceService interface {
	Position(ctx context.Context, tenant, devEui string) (*models.Row, error)
	Route(ctx context.Context, tenant, devEui string) ([]models.Row, error)
	MotionStates(ctx context.Context, tenant string) ([]models.Row, error)
	LowBattery(ctx context.Context, tenant string) ([]models.Row, error)
	Offline(ctx context.Context, tenant string) ([]models.Row, error)
	GatewayQuality(ctx context.Context, tenant string) ([]models.Row, error)
	CustomerActivity(ctx context.Context, tenant string) ([]models.Row, error)
	ActiveSOS(ctx context.Context, tenant string) ([]models.Row, error)
	SOSEvents(ctx context.Context, tenant string) ([]models.Row, error)
	MotionTransitions(ctx context.Context, tenant string) ([]models.Row, error)
	DuplicateEvents(ctx context.Context, tenant string) ([]models.Row, error)
	EventTypes(ctx context.Context, tenant string) ([]models.Row, error)
	GeofenceViolations(ctx context.Context, tenant, limit string) ([]models.Row, error)
	CurrentConfig(ctx context.Context, tenant, devEui string) (*models.Row, error)
	ConfigHistory(ctx context.Context, tenant, devEui, limit string) ([]models.Row, error)
	TrackingModes(ctx context.Context, tenant string) ([]models.Row, error)
	Uptime(ctx context.Context, tenant string) (*models.Row, error)
	GPSSuccess(ctx context.Context, tenant string) (*models.Row, error)
	BatteryHealth(ctx context.Context, tenant string) (*models.Row, error)
	AccuracyDistribution(ctx context.Context, tenant string) ([]models.Row, error)
	DeviceList(ctx context.Context, tenant string) ([]string, error)
}

type AlertService interface {
	Summary(ctx context.Context, tenant string) (*models.Row, error)
	Alarm2Active(ctx context.Context, tenant string) ([]models.Row, error)
	Button2Pressed(ctx context.Context, tenant string) ([]models.Row, error)
	ButtonComparison(ctx context.Context, tenant string) ([]models.Row, error)
	AlarmComparison(ctx context.Context, tenant string) ([]models.Row, error)
	AllActive(ctx context.Context, tenant string) ([]models.Row, error)
	History(ctx context.Context, tenant, hours string) ([]models.Row, error)
	ByDepartment(ctx context.Context, tenant string) ([]models.Row, error)
	ByZone(ctx context.Context, tenant string) ([]models.Row, error)
	Multiple(ctx context.Context, tenant string) ([]models.Row, error)
	Filtered(ctx context.Context, tenant string, f models.AlertFilter) ([]models.Row, error)
}

type CertificateService interface {
	Analytics(ctx context.Context, companyID int64) (*models.CertificateAnalytics, error)
	StatusCounts(ctx context.Context, companyID int64) ([]models.Row, error)
	TopBrands(ctx context.Context, companyID int64) ([]models.Row, error)
}

type GeoService interface {
	Metrics(ctx context.Context, companyID int64) (*models.GeoLocationMetrics, error)
}

type OverviewService interface {
	Overview(ctx context.Context, tenant string) (*models.DashboardOverview, error)
}

type Handler struct {
	datasetSrv     DatasetService
	deviceSrv      DeviceService
	alertSrv       AlertService
	certificateSrv CertificateService
	geoSrv         GeoService
	overviewSrv    OverviewService
}

func New(
	datasetSrv DatasetService,
	deviceSrv DeviceService,
	alertSrv AlertService,
	certificateSrv CertificateService,
	geoSrv GeoService,
	overviewSrv OverviewService,
) *Handler {
	return &Handler{
		datasetSrv:     datasetSrv,
		deviceSrv:      deviceSrv,
		alertSrv:       alertSrv,
		certificateSrv: certificateSrv,
		geoSrv:         geoSrv,
		overviewSrv:    overviewSrv,
	}
}

// respondError maps err to its status code. Validation and not found errors
// are returned as is; anything else is logged and reported as a 500 with
// what failed.
func respondError(c *gin.Context, logger string, what string, err error) {
	switch {
	case srvErrors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		zap.S().Named(logger).Errorw("request failed", "what", what, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to fetch " + what,
			"message": err.Error(),
		})
	}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
