package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/xfinder/reporting-api/internal/models"
)

const TablePeopleSensors = "echart_people_sensor_monitoring"

var personAlertColumns = []string{
	"person_code",
	"person_name",
	"dev_uid",
	"department_name",
	"role_name",
	"current_zone_description",
	"alarm1_status",
	"alarm1_minutes_ago",
	"alarm2_status",
	"alarm2_minutes_ago",
	"button1_status",
	"button1_minutes_ago",
	"button2_status",
	"button2_minutes_ago",
	"mandown_alert_status",
	"mandown_alert_last_updated",
	"alert_priority",
	"alert_score",
	"status_name",
	"battery_level",
	"last_report_datetime",
	"minutes_since_report",
}

// signals are the alert flags of a person, in report order.
var signals = []struct {
	status string
	tag    string
}{
	{"alarm1_status", "ALARM1"},
	{"alarm2_status", "ALARM2"},
	{"button1_status", "BUTTON1"},
	{"button2_status", "BUTTON2"},
	{"mandown_alert_status", "MANDOWN"},
}

func countOn(col string) string {
	return fmt.Sprintf("SUM(CASE WHEN %s = 'ON' THEN 1 ELSE 0 END)", col)
}

// AlertStore runs the people sensor alert reports.
type AlertStore struct {
	db      *queryInterceptor
	dialect Dialect
}

func NewAlertStore(db *queryInterceptor, dialect Dialect) *AlertStore {
	return &AlertStore{db: db, dialect: dialect}
}

// Summary counts active alarms, buttons and priorities of a company.
func (s *AlertStore) Summary(ctx context.Context, tenant string) (*models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"COUNT(*) AS total_people",
		countOn("alarm1_status")+" AS alarm1_active",
		countOn("alarm2_status")+" AS alarm2_active",
		"SUM(CASE WHEN alarm1_status = 'ON' OR alarm2_status = 'ON' THEN 1 ELSE 0 END) AS any_alarm_active",
		countOn("button1_status")+" AS button1_pressed",
		countOn("button2_status")+" AS button2_pressed",
		"SUM(CASE WHEN button1_status = 'ON' OR button2_status = 'ON' THEN 1 ELSE 0 END) AS any_button_pressed",
		countOn("mandown_alert_status")+" AS mandown_alerts",
		"SUM(has_any_alert) AS people_with_alerts",
		"SUM(CASE WHEN alert_priority = 'HIGHLY_CRITICAL' THEN 1 ELSE 0 END) AS highly_critical",
		"SUM(CASE WHEN alert_priority = 'CRITICAL' THEN 1 ELSE 0 END) AS critical",
		"SUM(CASE WHEN alert_priority = 'ALERT' THEN 1 ELSE 0 END) AS alerts",
	).From(TablePeopleSensors).Where(where)
	return s.db.selectOne(ctx, "alert_summary", builder)
}

// Alarm2Active lists people with alarm 2 on, most recent first.
func (s *AlertStore) Alarm2Active(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"person_code",
		"person_name",
		"dev_uid",
		"department_name",
		"current_zone_description",
		"alarm2_status",
		"alarm2_last_updated",
		"alarm2_minutes_ago",
		"status_name",
		"battery_level",
		"last_report_datetime",
		"alert_priority",
		"alert_score",
	).From(TablePeopleSensors).
		Where(where.And(sq.Eq{"alarm2_status": "ON"})).
		OrderBy("alarm2_minutes_ago ASC")
	return s.db.selectRows(ctx, "alarm2_active", builder)
}

// Button2Pressed lists people with button 2 pressed, most recent first.
func (s *AlertStore) Button2Pressed(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"person_code",
		"person_name",
		"dev_uid",
		"department_name",
		"current_zone_description",
		"button2_status",
		"button2_last_updated",
		"button2_minutes_ago",
		"status_name",
		"battery_level",
		"last_report_datetime",
	).From(TablePeopleSensors).
		Where(where.And(sq.Eq{"button2_status": "ON"})).
		OrderBy("button2_minutes_ago ASC")
	return s.db.selectRows(ctx, "button2_pressed", builder)
}

// ButtonComparison returns one pressed/not pressed row per button.
func (s *AlertStore) ButtonComparison(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	arms := make([]sq.SelectBuilder, 0, 2)
	for _, b := range []struct{ label, prefix string }{{"Button 1", "button1"}, {"Button 2", "button2"}} {
		arms = append(arms, sq.Select(
			fmt.Sprintf("'%s' AS button_type", b.label),
			countOn(b.prefix+"_status")+" AS pressed",
			fmt.Sprintf("SUM(CASE WHEN %s_status = 'OFF' THEN 1 ELSE 0 END) AS not_pressed", b.prefix),
			fmt.Sprintf("ROUND(AVG(CASE WHEN %[1]s_status = 'ON' THEN %[1]s_minutes_ago END), 1) AS avg_minutes_since_press", b.prefix),
		).From(TablePeopleSensors).Where(where))
	}
	return s.db.selectRows(ctx, "button_comparison", unionAll(arms...))
}

// AlarmComparison returns one active/inactive row per alarm and for man-down.
func (s *AlertStore) AlarmComparison(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	alarms := []struct{ label, status, minutes string }{
		{"Alarm 1", "alarm1_status", "alarm1_minutes_ago"},
		{"Alarm 2", "alarm2_status", "alarm2_minutes_ago"},
		{"Man-Down", "mandown_alert_status", "mandown_alert_last_updated"},
	}
	arms := make([]sq.SelectBuilder, 0, len(alarms))
	for _, a := range alarms {
		arms = append(arms, sq.Select(
			fmt.Sprintf("'%s' AS alarm_type", a.label),
			countOn(a.status)+" AS active",
			fmt.Sprintf("SUM(CASE WHEN %s = 'OFF' THEN 1 ELSE 0 END) AS inactive", a.status),
			fmt.Sprintf("ROUND(AVG(CASE WHEN %s = 'ON' THEN %s END), 1) AS avg_minutes_active", a.status, a.minutes),
		).From(TablePeopleSensors).Where(where))
	}
	return s.db.selectRows(ctx, "alarm_comparison", unionAll(arms...))
}

// AllActive lists every person with at least one active alert.
func (s *AlertStore) AllActive(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(personAlertColumns...).
		From(TablePeopleSensors).
		Where(where.And(sq.Eq{"has_any_alert": 1})).
		OrderBy("alert_score DESC", "minutes_since_report ASC")
	return s.db.selectRows(ctx, "active_alerts", builder)
}

// History lists people whose alarms or buttons changed within the last hours.
func (s *AlertStore) History(ctx context.Context, tenant string, hours int) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	since := s.dialect.HoursAgo(hours)
	columns := []string{"person_code", "person_name"}
	changed := make(sq.Or, 0, 4)
	latest := make([]string, 0, 4)
	for _, p := range []string{"alarm1", "alarm2", "button1", "button2"} {
		col := p + "_last_changed"
		columns = append(columns,
			p+"_status",
			col+" AS "+p+"_changed_at",
			s.dialect.MinutesSince(col)+" AS "+p+"_changed_minutes_ago",
		)
		changed = append(changed, sq.Expr(col+" >= "+since))
		latest = append(latest, fmt.Sprintf("COALESCE(%s, TIMESTAMP '1970-01-01 00:00:00')", col))
	}
	columns = append(columns, "current_zone_description")

	builder := sq.Select(columns...).
		From(TablePeopleSensors).
		Where(where.And(changed)).
		OrderBy("GREATEST(" + strings.Join(latest, ", ") + ") DESC")
	return s.db.selectRows(ctx, "alert_history", builder)
}

// ByDepartment aggregates alerts per non-empty department.
func (s *AlertStore) ByDepartment(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"department_name",
		"COUNT(*) AS total_people",
		countOn("alarm1_status")+" AS alarm1_count",
		countOn("alarm2_status")+" AS alarm2_count",
		countOn("button1_status")+" AS button1_count",
		countOn("button2_status")+" AS button2_count",
		countOn("mandown_alert_status")+" AS mandown_count",
		"SUM(has_any_alert) AS total_alerts",
		"ROUND(SUM(has_any_alert) * 100.0 / COUNT(*), 2) AS alert_percentage",
	).From(TablePeopleSensors).
		Where(where.And(sq.NotEq{"department_name": ""})).
		GroupBy("department_name").
		OrderBy("total_alerts DESC")
	return s.db.selectRows(ctx, "alerts_by_department", builder)
}

// ByZone aggregates alerts per zone, densest first.
func (s *AlertStore) ByZone(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"current_zone_description AS zone",
		"COUNT(*) AS total_people",
		countOn("alarm1_status")+" AS alarm1",
		countOn("alarm2_status")+" AS alarm2",
		countOn("button1_status")+" AS button1",
		countOn("button2_status")+" AS button2",
		countOn("mandown_alert_status")+" AS mandown",
		"SUM(has_any_alert) AS total_alerts",
		"ROUND(SUM(has_any_alert) * 100.0 / COUNT(*), 1) AS alert_density",
		"ROUND(AVG(alert_score), 1) AS avg_alert_score",
	).From(TablePeopleSensors).
		Where(where.And(sq.NotEq{"current_zone_description": nil})).
		GroupBy("current_zone_description").
		OrderBy("alert_density DESC", "total_alerts DESC")
	return s.db.selectRows(ctx, "alerts_by_zone", builder)
}

// Multiple lists people with more than one active alert at once.
func (s *AlertStore) Multiple(ctx context.Context, tenant string) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	const activeCount = `(COALESCE(alarm1_numeric, 0) + COALESCE(alarm2_numeric, 0) +
		COALESCE(button1_numeric, 0) + COALESCE(button2_numeric, 0) +
		COALESCE(mandown_alert_numeric, 0))`

	tags := make([]string, 0, len(signals))
	for _, sig := range signals {
		tags = append(tags, fmt.Sprintf("CASE WHEN %s = 'ON' THEN '%s' END", sig.status, sig.tag))
	}

	builder := sq.Select(
		"person_code",
		"person_name",
		"dev_uid",
		"department_name",
		"current_zone_description",
		activeCount+" AS active_alerts_count",
		"CONCAT_WS(', ', "+strings.Join(tags, ", ")+") AS active_alerts_list",
		"alert_priority",
		"alert_score",
		"battery_level",
		"last_report_datetime",
	).From(TablePeopleSensors).
		Where(where.And(
			sq.Eq{"has_any_alert": 1},
			sq.Expr(activeCount+" > 1"),
		)).
		OrderBy("active_alerts_count DESC", "alert_score DESC")
	return s.db.selectRows(ctx, "multiple_alerts", builder)
}

// Filtered lists people matching f. Alert flags are ORed together, the other
// fields narrow the result.
func (s *AlertStore) Filtered(ctx context.Context, tenant string, f models.AlertFilter) ([]models.Row, error) {
	where, err := scope(tenant)
	if err != nil {
		return nil, err
	}

	flags := sq.Or{}
	for i, on := range []bool{f.Alarm1, f.Alarm2, f.Button1, f.Button2, f.Mandown} {
		if on {
			flags = append(flags, sq.Eq{signals[i].status: "ON"})
		}
	}
	if len(flags) > 0 {
		where = where.And(flags)
	}
	if f.Department != "" {
		where = where.And(sq.Eq{"department_name": f.Department})
	}
	if f.Zone != "" {
		where = where.And(sq.Eq{"current_zone_description": f.Zone})
	}
	if f.Priority != "" {
		where = where.And(sq.Eq{"alert_priority": string(f.Priority)})
	}

	builder := sq.Select(personAlertColumns...).
		From(TablePeopleSensors).
		Where(where).
		OrderBy("alert_score DESC", "minutes_since_report ASC")
	return s.db.selectRows(ctx, "filtered_alerts", builder)
}

type union []sq.SelectBuilder

func unionAll(arms ...sq.SelectBuilder) sq.Sqlizer {
	return union(arms)
}

// ToSql joins the arms with UNION ALL, keeping each arm's arguments in order.
func (u union) ToSql() (string, []any, error) {
	parts := make([]string, 0, len(u))
	var args []any
	for _, arm := range u {
		sql, armArgs, err := arm.ToSql()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, armArgs...)
	}
	return strings.Join(parts, " UNION ALL "), args, nil
}
