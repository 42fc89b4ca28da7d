package models

import "time"

type OverviewKPIs struct {
	Uptime               *Row  `json:"uptime"`
	GPSSuccess           *Row  `json:"gps_success"`
	BatteryHealth        *Row  `json:"battery_health"`
	AccuracyDistribution []Row `json:"accuracy_distribution"`
}

type OverviewAlerts struct {
	ActiveSOSCount    int   `json:"active_sos_count"`
	ActiveSOSList     []Row `json:"active_sos_list"`
	LowBatteryCount   int   `json:"low_battery_count"`
	LowBatteryDevices []Row `json:"low_battery_devices"`
	OfflineCount      int   `json:"offline_count"`
	OfflineDevices    []Row `json:"offline_devices"`
}

// DashboardOverview aggregates the fleet KPIs and alert lists of one company.
type DashboardOverview struct {
	KPIs        OverviewKPIs   `json:"kpis"`
	Alerts      OverviewAlerts `json:"alerts"`
	GeneratedAt time.Time      `json:"generated_at"`
}
