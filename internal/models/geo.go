package models

import "time"

// GeoLocationRecord is one row of superview_geo_location_metrics.
type GeoLocationRecord struct {
	ZoneCode           string
	ZoneName           string
	ItemID             string
	ItemName           string
	ItemType           string
	Latitude           float64
	Longitude          float64
	DistanceMoved      float64
	MovementCategory   string
	GeofenceStatus     string
	AlertStatus        string
	AlertSeverityScore float64
	ActivityStatus     string
	LastSeen           *time.Time
	HoursSinceLastSeen float64
	CompanyID          int64
	CompanyName        string
	SiteCode           string
	SiteName           string
}

type GeoItemLocation struct {
	Lat                float64    `json:"lat"`
	Lng                float64    `json:"lng"`
	DistanceMovedM     float64    `json:"distance_moved_m"`
	MovementCategory   string     `json:"movement_category"`
	LastSeen           *time.Time `json:"last_seen"`
	HoursSinceLastSeen float64    `json:"hours_since_last_seen"`
}

type GeoItemAlerts struct {
	Active         bool    `json:"active"`
	SeverityScore  float64 `json:"severity_score"`
	GeofenceStatus string  `json:"geofence_status"`
}

type GeoItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Location GeoItemLocation `json:"location"`
	Alerts   GeoItemAlerts   `json:"alerts"`
	Metrics  struct {
		ActivityStatus string `json:"activity_status"`
	} `json:"metrics"`
}

type GeoZone struct {
	ZoneCode string    `json:"zone_code"`
	ZoneName string    `json:"zone_name"`
	Items    []GeoItem `json:"items"`
}

type GeoZoneAlerts struct {
	ZoneName   string `json:"zone_name"`
	AlertCount int    `json:"alert_count"`
}

type GeoAnalytics struct {
	TotalItems           int             `json:"total_items"`
	ActiveAlerts         int             `json:"active_alerts"`
	OfflineItems         int             `json:"offline_items"`
	AvgDistanceMoved     float64         `json:"avg_distance_moved"`
	MovementDistribution map[string]int  `json:"movement_distribution"`
	AlertsByZone         []GeoZoneAlerts `json:"alerts_by_zone"`
}

// GeoLocationMetrics groups the latest item positions of a company by zone.
type GeoLocationMetrics struct {
	Company struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"company"`
	Site struct {
		Code  string    `json:"code"`
		Name  string    `json:"name"`
		Zones []GeoZone `json:"zones"`
	} `json:"site"`
	Analytics GeoAnalytics `json:"analytics"`
}
