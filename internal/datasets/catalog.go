package datasets

import (
	"sort"

	"github.com/xfinder/reporting-api/pkg/query"
)

const (
	GPSReports     = "gps-reports"
	Events         = "events"
	Scanning       = "scanning"
	Configuration  = "configuration"
	GPSErrors      = "gps-errors"
	Heartbeats     = "heartbeats"
	ScannedBeacons = "scanned-beacons"
	GPSRoute       = "gps-route"
	GPSData        = "gps-data"
)

const (
	TableGPSReports     query.Table = "device_gps_report_monitoring"
	TableEvents         query.Table = "device_events_management"
	TableScanning       query.Table = "device_scanning_monitoring"
	TableConfiguration  query.Table = "device_configuration_management"
	TableGPSErrors      query.Table = "device_gps_error_management"
	TableHeartbeats     query.Table = "device_heartbeat"
	TableScannedBeacons query.Table = "device_scanned_beacons_list"
)

// unboundedLimit is the ceiling of datasets consumed by reporting tools that
// page through whole periods at once.
const unboundedLimit uint64 = 999999

// Catalog indexes descriptors by name and, for exportable datasets, by table.
type Catalog struct {
	byName  map[string]*Descriptor
	byTable map[query.Table]*Descriptor
}

func NewCatalog(descriptors ...*Descriptor) *Catalog {
	c := &Catalog{
		byName:  make(map[string]*Descriptor, len(descriptors)),
		byTable: make(map[query.Table]*Descriptor),
	}
	for _, d := range descriptors {
		c.byName[d.Name] = d
		if d.Exportable {
			c.byTable[d.Table] = d
		}
	}
	return c
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (*Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// LookupExport resolves an exportable dataset by dataset name or table name.
func (c *Catalog) LookupExport(nameOrTable string) (*Descriptor, bool) {
	if d, ok := c.byName[nameOrTable]; ok && d.Exportable {
		return d, true
	}
	d, ok := c.byTable[query.Table(nameOrTable)]
	return d, ok
}

// Names returns the registered dataset names in order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns the catalog of the device telemetry datasets.
func Default() *Catalog {
	return NewCatalog(
		&Descriptor{
			Name:      GPSReports,
			Table:     TableGPSReports,
			Timestamp: "timestamp",
			Schema: schema(append(commonFields("timestamp"),
				query.NumericBetween("battery_level_min", "", "battery_level"),
				query.Equal("dynamic_motion_state", "dynamic_motion_state"),
			)...),
			Sort: query.SortPolicy{
				Columns: sortColumns("timestamp", "dev_eui", "customer_name", "battery_level", "gps_accuracy"),
				Default: "timestamp",
			},
			Exportable: true,
		},
		&Descriptor{
			Name:      Events,
			Table:     TableEvents,
			Timestamp: "event_timestamp",
			Schema: withColumnFilters(schema(
				query.OneOf("dev_eui", "dev_eui"),
				query.Equal("event_type", "event_type"),
				query.Contains("customer_name", "customer_name"),
				query.Flag("is_valid_event", "is_valid_event"),
				query.Between("start_date", "end_date", "event_timestamp"),
			), "id", "event_timestamp", "event_type", "dev_eui", "customer_name", "battery_level",
				"is_valid_event", "temperature", "dynamic_motion_state", "gps_latitude", "gps_longitude",
				"gps_accuracy", "speed"),
			Sort: query.SortPolicy{
				Columns: sortColumns("id", "event_timestamp", "event_type", "dev_eui", "customer_name"),
				Default: "id",
			},
			Exportable: true,
		},
		&Descriptor{
			Name:      Scanning,
			Table:     TableScanning,
			Timestamp: "timestamp",
			Schema:    schema(commonFields("timestamp")...),
			Sort: query.SortPolicy{
				Columns: sortColumns("id", "timestamp", "dev_eui", "customer_name"),
				Default: "timestamp",
			},
			Exportable: true,
		},
		&Descriptor{
			Name:      Configuration,
			Table:     TableConfiguration,
			Timestamp: "config_timestamp",
			Schema: schema(append(commonFields("config_timestamp"),
				query.Equal("tracking_mode", "tracking_mode"),
			)...),
			Sort: query.SortPolicy{
				Columns: sortColumns("id", "dev_eui", "config_timestamp", "customer_name", "tracking_mode",
					"gateway_name", "battery_level", "temperature"),
				Default: "config_timestamp",
			},
			Exportable: true,
		},
		&Descriptor{
			Name:      GPSErrors,
			Table:     TableGPSErrors,
			Timestamp: "created_at",
			Schema: schema(append(commonFields("created_at"),
				query.Equal("error_type", "failure_type"),
			)...),
			Sort: query.SortPolicy{
				Columns: sortColumns("id", "dev_eui", "failure_type", "message_type", "created_at", "latitude", "longitude"),
				Default: "created_at",
			},
			Exportable: true,
		},
		&Descriptor{
			Name:      Heartbeats,
			Table:     TableHeartbeats,
			Timestamp: "received_at",
			Schema: withColumnFilters(schema(commonFields("received_at")...),
				"id", "dev_eui", "customer_name", "received_at", "battery_level", "gateway_name"),
			Sort: query.SortPolicy{
				Columns: sortColumns("id", "dev_eui", "customer_name", "received_at", "battery_level"),
				Default: "received_at",
			},
		},
		&Descriptor{
			Name:      ScannedBeacons,
			Table:     TableScannedBeacons,
			Timestamp: "timestamp",
			Schema: withColumnFilters(schema(append(commonFields("timestamp"),
				query.Equal("beacon_id", "beacon_id"),
			)...), "id", "dev_eui", "customer_name", "beacon_id", "timestamp", "rssi"),
			Sort: query.SortPolicy{
				Columns: sortColumns("id", "dev_eui", "customer_name", "beacon_id", "timestamp", "rssi"),
				Default: "timestamp",
			},
		},
		&Descriptor{
			Name:      GPSRoute,
			Table:     TableGPSReports,
			Timestamp: "timestamp",
			Schema: withColumnFilters(schema(append(commonFields("timestamp"),
				query.Toggle("valid_gps_only", "is_valid_gps"),
				query.NumericBetween("", "max_accuracy", "gps_accuracy"),
			)...), "dev_eui", "customer_name", "timestamp", "gps_accuracy", "dynamic_motion_state"),
			Sort: query.SortPolicy{
				Columns:  sortColumns("timestamp", "dev_eui", "customer_name", "gps_accuracy", "speed"),
				Default:  "timestamp",
				MaxLimit: unboundedLimit,
			},
		},
		&Descriptor{
			Name:      GPSData,
			Table:     TableGPSReports,
			Timestamp: "timestamp",
			Schema: schema(
				query.OneOf("dev_eui", "dev_eui"),
				query.Between("start_date", "end_date", "timestamp"),
				query.Toggle("valid_gps_only", "is_valid_gps"),
				query.NumericBetween("min_accuracy", "max_accuracy", "gps_accuracy"),
			),
			Sort: query.SortPolicy{
				Columns: sortColumns("timestamp", "dev_eui", "gps_accuracy", "battery_level"),
				Default: "timestamp",
			},
			Partition: "dev_eui",
		},
	)
}

func withColumnFilters(s query.Schema, cols ...query.Column) query.Schema {
	s.ColumnFilters = sortColumns(cols...)
	return s
}

// StatsSchema filters the fixes summarized by the gps-stats report.
func StatsSchema() query.Schema {
	return schema(
		query.OneOf("dev_eui", "dev_eui"),
		query.Between("start_date", "end_date", "timestamp"),
	)
}
