package services

import (
	"context"
	"strconv"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

const (
	geoRowLimit = 100

	alertActive        = "ALERT_ACTIVE"
	activityOffline    = "OFFLINE"
	movementStationary = "STATIONARY"
	unknownZone        = "UNKNOWN"
)

// GeoService groups the latest item positions of a company by zone.
type GeoService struct {
	store *store.Store
}

func NewGeoService(st *store.Store) *GeoService {
	return &GeoService{store: st}
}

// Metrics returns the zones of the company with their items and analytics.
// A company without rows is reported as not found.
func (s *GeoService) Metrics(ctx context.Context, companyID int64) (*models.GeoLocationMetrics, error) {
	records, err := s.store.Geo().Latest(ctx, companyID, geoRowLimit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, srvErrors.NewResourceNotFoundError("geo location metrics", strconv.FormatInt(companyID, 10))
	}
	return groupByZone(records), nil
}

func groupByZone(records []models.GeoLocationRecord) *models.GeoLocationMetrics {
	out := &models.GeoLocationMetrics{}
	out.Company.ID = records[0].CompanyID
	out.Company.Name = records[0].CompanyName
	out.Site.Code = records[0].SiteCode
	out.Site.Name = records[0].SiteName

	a := &out.Analytics
	var stationary, moving int
	var distance float64

	index := map[string]int{}
	zones := []models.GeoZone{}
	for _, r := range records {
		key := r.ZoneCode
		if key == "" {
			key = unknownZone
		}
		i, ok := index[key]
		if !ok {
			i = len(zones)
			index[key] = i
			zones = append(zones, models.GeoZone{ZoneCode: r.ZoneCode, ZoneName: r.ZoneName, Items: []models.GeoItem{}})
		}

		item := models.GeoItem{
			ID:   r.ItemID,
			Name: r.ItemName,
			Type: r.ItemType,
			Location: models.GeoItemLocation{
				Lat:                r.Latitude,
				Lng:                r.Longitude,
				DistanceMovedM:     r.DistanceMoved,
				MovementCategory:   r.MovementCategory,
				LastSeen:           r.LastSeen,
				HoursSinceLastSeen: r.HoursSinceLastSeen,
			},
			Alerts: models.GeoItemAlerts{
				Active:         r.AlertStatus == alertActive,
				SeverityScore:  r.AlertSeverityScore,
				GeofenceStatus: r.GeofenceStatus,
			},
		}
		item.Metrics.ActivityStatus = r.ActivityStatus
		zones[i].Items = append(zones[i].Items, item)

		if item.Alerts.Active {
			a.ActiveAlerts++
		}
		if r.ActivityStatus == activityOffline {
			a.OfflineItems++
		}
		if r.MovementCategory == movementStationary {
			stationary++
		} else {
			moving++
		}
		distance += r.DistanceMoved
	}

	a.TotalItems = len(records)
	a.AvgDistanceMoved = distance / float64(len(records))
	a.MovementDistribution = map[string]int{"stationary": stationary, "moving": moving}
	a.AlertsByZone = make([]models.GeoZoneAlerts, 0, len(zones))
	for _, z := range zones {
		n := 0
		for _, item := range z.Items {
			if item.Alerts.Active {
				n++
			}
		}
		a.AlertsByZone = append(a.AlertsByZone, models.GeoZoneAlerts{ZoneName: z.ZoneName, AlertCount: n})
	}

	out.Site.Zones = zones
	return out
}
