package handlers

import "github.com/gin-gonic/gin"

// Register mounts every endpoint under router.
func (h *Handler) Register(router *gin.RouterGroup) {
	devices := router.Group("/devices/:companyId")
	{
		devices.GET("/raw/:dataset", h.GetRawDataset)
		devices.GET("/export/:table/:format", h.ExportDataset)
		devices.GET("/gps-data", h.GetGPSData)
		devices.GET("/gps-stats", h.GetGPSStats)
		devices.GET("/device/list", h.GetDeviceList)

		devices.GET("/position/:devEui", h.GetPosition)
		devices.GET("/route/:devEui", h.GetRoute)
		devices.GET("/motion-state", h.GetMotionStates)
		devices.GET("/low-battery", h.GetLowBattery)
		devices.GET("/offline", h.GetOffline)
		devices.GET("/gateway-quality", h.GetGatewayQuality)
		devices.GET("/customer-stats", h.GetCustomerStats)

		devices.GET("/sos/active", h.GetActiveSOS)
		devices.GET("/sos/events", h.GetSOSEvents)
		devices.GET("/motion/transitions", h.GetMotionTransitions)
		devices.GET("/events/duplicates", h.GetDuplicateEvents)
		devices.GET("/events/types", h.GetEventTypes)
		devices.GET("/geofence/violations", h.GetGeofenceViolations)

		devices.GET("/config/tracking-modes", h.GetTrackingModes)
		devices.GET("/config/:devEui", h.GetCurrentConfig)
		devices.GET("/config/:devEui/history", h.GetConfigHistory)

		devices.GET("/kpi/uptime", h.GetUptime)
		devices.GET("/kpi/gps-success", h.GetGPSSuccess)
		devices.GET("/kpi/battery-health", h.GetBatteryHealth)
		devices.GET("/kpi/accuracy", h.GetAccuracyDistribution)

		devices.GET("/dashboard/overview", h.GetDashboardOverview)
	}

	alerts := router.Group("/alerts/:companyId")
	{
		alerts.GET("/summary", h.GetAlertSummary)
		alerts.GET("/alarm2/active", h.GetAlarm2Active)
		alerts.GET("/button2/pressed", h.GetButton2Pressed)
		alerts.GET("/buttons/comparison", h.GetButtonComparison)
		alerts.GET("/alarms/comparison", h.GetAlarmComparison)
		alerts.GET("/active/all", h.GetAllActiveAlerts)
		alerts.GET("/history/24h", h.GetAlertHistory24h)
		alerts.GET("/history/custom", h.GetAlertHistory)
		alerts.GET("/by-department", h.GetAlertsByDepartment)
		alerts.GET("/by-zone", h.GetAlertsByZone)
		alerts.GET("/multiple", h.GetMultipleAlerts)
		alerts.GET("/filter", h.GetFilteredAlerts)
		alerts.GET("/export", h.ExportAlerts)
	}

	certificates := router.Group("/dashboard/certificates/:companyId")
	{
		certificates.GET("", h.GetCertificateAnalytics)
		certificates.GET("/status", h.GetCertificateStatus)
		certificates.GET("/top-brands", h.GetTopBrands)
	}

	router.GET("/geo/:companyId/metrics", h.GetGeoMetrics)
}
