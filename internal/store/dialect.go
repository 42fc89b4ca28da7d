package store

import (
	"fmt"

	"github.com/xfinder/reporting-api/internal/config"
)

// Dialect renders the handful of time expressions that differ between the
// production MySQL schema and the embedded DuckDB used for development.
// Every value it formats is an integer chosen by the caller, never request text.
type Dialect interface {
	Name() string
	// Now is the database's current local timestamp.
	Now() string
	// HoursAgo is Now minus the given number of hours.
	HoursAgo(hours int) string
	// StartOfToday is midnight of the database's current day.
	StartOfToday() string
	MinutesSince(col string) string
	HoursSince(col string) string
}

func DialectFor(driver string) Dialect {
	if driver == config.DriverDuckDB {
		return duckDBDialect{}
	}
	return mysqlDialect{}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return config.DriverMySQL }

func (mysqlDialect) Now() string { return "NOW()" }

func (mysqlDialect) HoursAgo(hours int) string {
	return fmt.Sprintf("DATE_SUB(NOW(), INTERVAL %d HOUR)", hours)
}

func (mysqlDialect) StartOfToday() string { return "CAST(CURDATE() AS DATETIME)" }

func (mysqlDialect) MinutesSince(col string) string {
	return fmt.Sprintf("TIMESTAMPDIFF(MINUTE, %s, NOW())", col)
}

func (mysqlDialect) HoursSince(col string) string {
	return fmt.Sprintf("TIMESTAMPDIFF(HOUR, %s, NOW())", col)
}

type duckDBDialect struct{}

func (duckDBDialect) Name() string { return config.DriverDuckDB }

func (duckDBDialect) Now() string { return "CAST(now() AS TIMESTAMP)" }

func (d duckDBDialect) HoursAgo(hours int) string {
	return fmt.Sprintf("(%s - INTERVAL %d HOUR)", d.Now(), hours)
}

func (duckDBDialect) StartOfToday() string { return "CAST(current_date AS TIMESTAMP)" }

func (d duckDBDialect) MinutesSince(col string) string {
	return fmt.Sprintf("date_diff('minute', %s, %s)", col, d.Now())
}

func (d duckDBDialect) HoursSince(col string) string {
	return fmt.Sprintf("date_diff('hour', %s, %s)", col, d.Now())
}
