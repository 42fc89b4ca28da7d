package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
	"github.com/xfinder/reporting-api/pkg/query"
)

var (
	positionColumns   = []string{"dev_eui", "gps_latitude", "gps_longitude", "gps_accuracy", "timestamp", "battery_level"}
	routeColumns      = []string{"timestamp", "gps_latitude", "gps_longitude", "gps_accuracy", "speed", "heading", "distance_from_last_position_m"}
	motionColumns     = []string{"dev_eui", "customer_name", "dynamic_motion_state", "timestamp", "battery_level"}
	lowBatteryColumns = []string{"dev_eui", "customer_name", "domain_name", "timestamp", "battery_level", "battery_status", "gps_latitude", "gps_longitude"}
	configColumns     = []string{"dev_eui", "customer_name", "config_timestamp", "tracking_mode", "tracking_ul_period", "loralive_period", "periodic_position_interval", "gps_scan_mode", "battery_level", "temperature"}
	configHistColumns = []string{"config_timestamp", "tracking_mode", "tracking_ul_period", "periodic_position_interval", "battery_level", "misc_data_tag"}
)

// LowBatteryThreshold is the battery level below which a device is reported.
const LowBatteryThreshold = 20

// DeviceStore runs the fixed device reports. Every statement is scoped to
// one company.
type DeviceStore struct {
	db      *queryInterceptor
	dialect Dialect
}

func NewDeviceStore(db *queryInterceptor, dialect Dialect) *DeviceStore {
	return &DeviceStore{db: db, dialect: dialect}
}

// scope returns the tenant predicate every report starts from.
func scope(tenant string) (query.Predicate, error) {
	p, err := query.ForTenant(datasets.CompanyColumn, tenant)
	if err != nil {
		return query.Predicate{}, srvErrors.NewMissingTenantError()
	}
	return p, nil
}

// latestPerDevice keeps the newest row of each device among the rows of
// table matching where.
func latestPerDevice(table query.Table, ts string, cols []string, where sq.Sqlizer) sq.SelectBuilder {
	inner := make([]string, 0, len(cols)+1)
	inner = append(inner, cols...)
	inner = append(inner, fmt.Sprintf("ROW_NUMBER() OVER (PARTITION BY dev_eui ORDER BY %s DESC) AS row_num", ts))

	return sq.Select(cols...).
		FromSelect(sq.Select(inner...).From(table.String()).Where(where), "ranked").
		Where("row_num = 1")
}

// Position returns the latest fix of one device.
func (s *DeviceStore) Position(ctx context.Context, tenant, devEui string) (*models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := latestPerDevice(datasets.TableGPSReports, "timestamp", positionColumns, where.And(sq.Eq{"dev_eui": devEui}))
	row, err := s.db.selectOne(ctx, "device_position", builder)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, srvErrors.NewResourceNotFoundError("device position", devEui)
	}
	return row, nil
}

// Route24h returns the valid fixes of one device over the last 24 hours, oldest first.
func (s *DeviceStore) Route24h(ctx context.Context, tenant, devEui string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(routeColumns...).
		From(datasets.TableGPSReports.String()).
		Where(where.And(
			sq.Eq{"dev_eui": devEui},
			sq.Expr("timestamp >= "+s.dialect.HoursAgo(24)),
			sq.Eq{"is_valid_gps": true},
		)).
		OrderBy("timestamp ASC")
	return s.db.selectRows(ctx, "device_route", builder)
}

// MotionStates returns the latest motion state of every device.
func (s *DeviceStore) MotionStates(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := latestPerDevice(datasets.TableGPSReports, "timestamp", motionColumns, where).
		OrderBy("dynamic_motion_state", "customer_name")
	return s.db.selectRows(ctx, "motion_states", builder)
}

// LowBattery returns devices whose latest battery level is below LowBatteryThreshold.
func (s *DeviceStore) LowBattery(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := latestPerDevice(datasets.TableGPSReports, "timestamp", lowBatteryColumns, where).
		Where(sq.Lt{"battery_level": LowBatteryThreshold}).
		OrderBy("battery_level ASC")
	return s.db.selectRows(ctx, "low_battery", builder)
}

// Offline returns devices whose latest fix is older than 24 hours.
func (s *DeviceStore) Offline(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	inner := latestPerDevice(datasets.TableGPSReports, "timestamp", []string{"dev_eui", "customer_name", "timestamp", "battery_level"}, where).
		Where("timestamp < " + s.dialect.HoursAgo(24))
	builder := sq.Select(
		"dev_eui",
		"customer_name",
		"timestamp AS last_position",
		s.dialect.HoursSince("timestamp")+" AS hours_offline",
		"battery_level",
	).FromSelect(inner, "offline").OrderBy("last_position ASC")
	return s.db.selectRows(ctx, "offline_devices", builder)
}

// GatewayQuality aggregates the signal of every gateway over 24 hours.
func (s *DeviceStore) GatewayQuality(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"gateway_name",
		"COUNT(*) AS report_count",
		"AVG(lora_rssi) AS avg_rssi",
		"AVG(lora_snr) AS avg_snr",
		"MIN(lora_rssi) AS min_rssi",
		"MAX(lora_rssi) AS max_rssi",
	).From(datasets.TableGPSReports.String()).
		Where(where.And(
			sq.Expr("timestamp >= "+s.dialect.HoursAgo(24)),
			sq.NotEq{"gateway_name": nil},
		)).
		GroupBy("gateway_name").
		OrderBy("report_count DESC")
	return s.db.selectRows(ctx, "gateway_quality", builder)
}

// CustomerActivity aggregates reports per customer over 24 hours.
func (s *DeviceStore) CustomerActivity(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"customer_name",
		"domain_name",
		"COUNT(DISTINCT dev_eui) AS total_devices",
		"COUNT(*) AS total_reports",
		"AVG(battery_level) AS avg_battery",
		"MAX(timestamp) AS last_activity",
	).From(datasets.TableGPSReports.String()).
		Where(where.And(sq.Expr("timestamp >= "+s.dialect.HoursAgo(24)))).
		GroupBy("customer_name", "domain_name").
		OrderBy("total_devices DESC")
	return s.db.selectRows(ctx, "customer_activity", builder)
}

// ActiveSOS returns SOS_MODE_START events with no later SOS_MODE_END for the same device.
func (s *DeviceStore) ActiveSOS(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"a.dev_eui",
		"a.customer_name",
		"a.event_timestamp AS sos_start_time",
		"a.gps_latitude",
		"a.gps_longitude",
		"a.battery_level",
		s.dialect.MinutesSince("a.event_timestamp")+" AS minutes_elapsed",
	).From(datasets.TableEvents.String()+" a").
		Where(where.And(
			sq.Eq{"a.event_type": "SOS_MODE_START"},
			sq.Eq{"a.is_valid_event": true},
			sq.Expr(`NOT EXISTS (
				SELECT 1 FROM `+datasets.TableEvents.String()+` b
				WHERE b.dev_eui = a.dev_eui
				  AND b.company_id = a.company_id
				  AND b.event_type = 'SOS_MODE_END'
				  AND b.event_timestamp > a.event_timestamp
				  AND b.is_valid_event = ?
			)`, true),
		)).
		OrderBy("a.event_timestamp DESC")
	return s.db.selectRows(ctx, "active_sos", builder)
}

// SOSEvents24h counts SOS start and end events over 24 hours.
func (s *DeviceStore) SOSEvents24h(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"COUNT(*) AS total_sos_events",
		"COUNT(DISTINCT dev_eui) AS unique_devices",
		"event_type",
	).From(datasets.TableEvents.String()).
		Where(where.And(
			sq.Eq{"event_type": []string{"SOS_MODE_START", "SOS_MODE_END"}},
			sq.Expr("event_timestamp >= "+s.dialect.HoursAgo(24)),
			sq.Eq{"is_valid_event": true},
		)).
		GroupBy("event_type").
		OrderBy("event_type")
	return s.db.selectRows(ctx, "sos_events", builder)
}

// MotionTransitionsToday returns MOTION_END events since the start of the day.
func (s *DeviceStore) MotionTransitionsToday(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"dev_eui",
		"customer_name",
		"event_timestamp",
		"dynamic_motion_state",
		"battery_level",
		"temperature",
	).From(datasets.TableEvents.String()).
		Where(where.And(
			sq.Eq{"event_type": "MOTION_END"},
			sq.Expr("event_timestamp >= "+s.dialect.StartOfToday()),
			sq.Eq{"is_valid_event": true},
		)).
		OrderBy("event_timestamp DESC")
	return s.db.selectRows(ctx, "motion_transitions", builder)
}

// DuplicateEventRate returns, per device, the share of invalid events over 24 hours.
// Devices without invalid events are left out.
func (s *DeviceStore) DuplicateEventRate(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	const duplicates = "SUM(CASE WHEN is_valid_event THEN 0 ELSE 1 END)"
	builder := sq.Select(
		"dev_eui",
		"customer_name",
		"COUNT(*) AS total_events",
		duplicates+" AS duplicates",
		"ROUND("+duplicates+" * 100.0 / COUNT(*), 2) AS duplicate_rate_percent",
	).From(datasets.TableEvents.String()).
		Where(where.And(sq.Expr("event_timestamp >= "+s.dialect.HoursAgo(24)))).
		GroupBy("dev_eui", "customer_name").
		Having(duplicates + " > 0").
		OrderBy("duplicate_rate_percent DESC")
	return s.db.selectRows(ctx, "duplicate_events", builder)
}

// EventTypes counts events per type over 24 hours.
func (s *DeviceStore) EventTypes(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"event_type",
		"COUNT(*) AS total",
		"SUM(CASE WHEN is_valid_event THEN 1 ELSE 0 END) AS valid_events",
		"SUM(CASE WHEN is_valid_event THEN 0 ELSE 1 END) AS duplicate_events",
		"COUNT(DISTINCT dev_eui) AS unique_devices",
	).From(datasets.TableEvents.String()).
		Where(where.And(sq.Expr("event_timestamp >= "+s.dialect.HoursAgo(24)))).
		GroupBy("event_type").
		OrderBy("total DESC")
	return s.db.selectRows(ctx, "event_types", builder)
}

// GeofenceViolations returns the latest geofence entries and exits.
func (s *DeviceStore) GeofenceViolations(ctx context.Context, tenant string, limit uint64) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"dev_eui",
		"customer_name",
		"event_type",
		"event_timestamp",
		"trigger_parameters",
		"gps_latitude",
		"gps_longitude",
	).From(datasets.TableEvents.String()).
		Where(where.And(
			sq.Eq{"event_type": []string{"GEOFENCE_ENTRY", "GEOFENCE_EXIT"}},
			sq.Eq{"is_valid_event": true},
		)).
		OrderBy("event_timestamp DESC").
		Limit(limit)
	return s.db.selectRows(ctx, "geofence_violations", builder)
}

// CurrentConfig returns the latest configuration of one device.
func (s *DeviceStore) CurrentConfig(ctx context.Context, tenant, devEui string) (*models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(configColumns...).
		From(datasets.TableConfiguration.String()).
		Where(where.And(sq.Eq{"dev_eui": devEui})).
		OrderBy("config_timestamp DESC").
		Limit(1)
	row, err := s.db.selectOne(ctx, "device_config", builder)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, srvErrors.NewResourceNotFoundError("device configuration", devEui)
	}
	return row, nil
}

// ConfigHistory returns the last limit configurations of one device.
func (s *DeviceStore) ConfigHistory(ctx context.Context, tenant, devEui string, limit uint64) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(configHistColumns...).
		From(datasets.TableConfiguration.String()).
		Where(where.And(sq.Eq{"dev_eui": devEui})).
		OrderBy("config_timestamp DESC").
		Limit(limit)
	return s.db.selectRows(ctx, "device_config_history", builder)
}

// TrackingModes groups the latest configuration of every device by tracking mode.
func (s *DeviceStore) TrackingModes(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	latest := latestPerDevice(datasets.TableConfiguration, "config_timestamp",
		[]string{"dev_eui", "tracking_mode", "battery_level", "temperature"}, where)
	builder := sq.Select(
		"tracking_mode",
		"COUNT(DISTINCT dev_eui) AS total_devices",
		"AVG(battery_level) AS avg_battery",
		"AVG(temperature) AS avg_temperature",
	).FromSelect(latest, "latest_config").
		GroupBy("tracking_mode").
		OrderBy("total_devices DESC")
	return s.db.selectRows(ctx, "tracking_modes", builder)
}

// Uptime compares devices seen within the last hour with devices seen within 24 hours.
func (s *DeviceStore) Uptime(ctx context.Context, tenant string) (*models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	online := "COUNT(DISTINCT CASE WHEN timestamp >= " + s.dialect.HoursAgo(1) + " THEN dev_eui END)"
	builder := sq.Select(
		online+" AS devices_online",
		"COUNT(DISTINCT dev_eui) AS total_devices",
		"ROUND("+online+" * 100.0 / NULLIF(COUNT(DISTINCT dev_eui), 0), 2) AS uptime_percentage",
	).From(datasets.TableGPSReports.String()).
		Where(where.And(sq.Expr("timestamp >= " + s.dialect.HoursAgo(24))))
	return s.db.selectOne(ctx, "kpi_uptime", builder)
}

// GPSSuccess is the share of valid fixes over 24 hours.
func (s *DeviceStore) GPSSuccess(ctx context.Context, tenant string) (*models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	const valid = "SUM(CASE WHEN is_valid_gps THEN 1 ELSE 0 END)"
	builder := sq.Select(
		"COUNT(*) AS total_reports",
		valid+" AS valid_gps_reports",
		"ROUND("+valid+" * 100.0 / NULLIF(COUNT(*), 0), 2) AS success_rate_percent",
	).From(datasets.TableGPSReports.String()).
		Where(where.And(sq.Expr("timestamp >= " + s.dialect.HoursAgo(24))))
	return s.db.selectOne(ctx, "kpi_gps_success", builder)
}

// BatteryHealth classifies the latest battery level of every device.
func (s *DeviceStore) BatteryHealth(ctx context.Context, tenant string) (*models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	const healthy = "SUM(CASE WHEN battery_level >= 30 THEN 1 ELSE 0 END)"
	latest := latestPerDevice(datasets.TableGPSReports, "timestamp", []string{"dev_eui", "battery_level"},
		where.And(sq.NotEq{"battery_level": nil}))
	builder := sq.Select(
		"COUNT(DISTINCT dev_eui) AS total_devices",
		healthy+" AS healthy_devices",
		"SUM(CASE WHEN battery_level BETWEEN 20 AND 29 THEN 1 ELSE 0 END) AS warning_devices",
		"SUM(CASE WHEN battery_level < 20 THEN 1 ELSE 0 END) AS critical_devices",
		"ROUND("+healthy+" * 100.0 / NULLIF(COUNT(DISTINCT dev_eui), 0), 2) AS health_percentage",
	).FromSelect(latest, "latest_battery")
	return s.db.selectOne(ctx, "kpi_battery_health", builder)
}

// AccuracyDistribution buckets the fixes of the last 24 hours by accuracy.
func (s *DeviceStore) AccuracyDistribution(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		`CASE
			WHEN gps_accuracy <= 10 THEN 'Excellent (<10m)'
			WHEN gps_accuracy <= 30 THEN 'Good (10-30m)'
			WHEN gps_accuracy <= 50 THEN 'Fair (30-50m)'
			ELSE 'Poor (>50m)'
		END AS accuracy_range`,
		"COUNT(*) AS report_count",
		"ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2) AS percentage",
	).From(datasets.TableGPSReports.String()).
		Where(where.And(
			sq.Expr("timestamp >= "+s.dialect.HoursAgo(24)),
			sq.NotEq{"gps_accuracy": nil},
		)).
		GroupBy("accuracy_range").
		OrderBy("MIN(gps_accuracy)")
	return s.db.selectRows(ctx, "kpi_accuracy", builder)
}

// GPSStats summarizes the fixes matching where.
func (s *DeviceStore) GPSStats(ctx context.Context, where query.Predicate) (*models.Row, error) {
	builder := sq.Select(
		"COUNT(*) AS total_reports",
		"SUM(CASE WHEN is_valid_gps THEN 1 ELSE 0 END) AS valid_reports",
		"COUNT(DISTINCT dev_eui) AS unique_devices",
		"ROUND(AVG(gps_accuracy), 2) AS avg_accuracy",
		"MIN(timestamp) AS first_report",
		"MAX(timestamp) AS last_report",
	).From(datasets.TableGPSReports.String()).Where(where)
	return s.db.selectOne(ctx, "gps_stats", builder)
}

// DeviceList returns the distinct devices that reported a fix, in ascending order.
func (s *DeviceStore) DeviceList(ctx context.Context, tenant string) ([]string, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select("dev_eui").Distinct().
		From(datasets.TableGPSReports.String()).
		Where(where.And(sq.NotEq{"dev_eui": nil})).
		OrderBy("dev_eui ASC")

	devices := []string{}
	err = s.db.each(ctx, "device_list", builder, func(rows *sql.Rows) error {
		var dev string
		if err := rows.Scan(&dev); err != nil {
			return err
		}
		devices = append(devices, dev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}
