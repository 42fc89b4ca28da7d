package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/xfinder/reporting-api/internal/models"
)

const TableGeoMetrics = "superview_geo_location_metrics"

// GeoStore reads the latest item positions of the geo location view.
type GeoStore struct {
	db *queryInterceptor
}

func NewGeoStore(db *queryInterceptor) *GeoStore {
	return &GeoStore{db: db}
}

// Latest returns the newest limit rows of the company.
func (s *GeoStore) Latest(ctx context.Context, companyID int64, limit uint64) ([]models.GeoLocationRecord, error) {
	where, err := scopeID(companyID)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"zone_code",
		"zone_name",
		"item_id",
		"item_name",
		"item_type",
		"latitude",
		"longitude",
		"distance_moved",
		"movement_category",
		"geofence_status",
		"alert_status",
		"alert_severity_score",
		"activity_status",
		"last_seen_timestamp",
		"hours_since_last_seen",
		"company_id",
		"company_name",
		"site_code",
		"site_name",
	).From(TableGeoMetrics).
		Where(where).
		OrderBy("event_timestamp DESC").
		Limit(limit)

	records := []models.GeoLocationRecord{}
	err = s.db.each(ctx, "geo_metrics", builder, func(rows *sql.Rows) error {
		var (
			zoneCode, zoneName, itemID, itemName, itemType   sql.NullString
			movement, geofence, alertStatus, activity        sql.NullString
			companyName, siteCode, siteName                  sql.NullString
			lat, lng, distance, severity, hoursSinceLastSeen sql.NullFloat64
			lastSeen                                         sql.NullTime
			company                                          sql.NullInt64
		)
		if err := rows.Scan(&zoneCode, &zoneName, &itemID, &itemName, &itemType,
			&lat, &lng, &distance, &movement, &geofence, &alertStatus, &severity,
			&activity, &lastSeen, &hoursSinceLastSeen, &company, &companyName,
			&siteCode, &siteName); err != nil {
			return err
		}

		r := models.GeoLocationRecord{
			ZoneCode:           zoneCode.String,
			ZoneName:           zoneName.String,
			ItemID:             itemID.String,
			ItemName:           itemName.String,
			ItemType:           itemType.String,
			Latitude:           lat.Float64,
			Longitude:          lng.Float64,
			DistanceMoved:      distance.Float64,
			MovementCategory:   movement.String,
			GeofenceStatus:     geofence.String,
			AlertStatus:        alertStatus.String,
			AlertSeverityScore: severity.Float64,
			ActivityStatus:     activity.String,
			HoursSinceLastSeen: hoursSinceLastSeen.Float64,
			CompanyID:          company.Int64,
			CompanyName:        companyName.String,
			SiteCode:           siteCode.String,
			SiteName:           siteName.String,
		}
		if lastSeen.Valid {
			t := lastSeen.Time
			r.LastSeen = &t
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
