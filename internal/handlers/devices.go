package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xfinder/reporting-api/internal/models"
)

const deviceLogger = "device_handler"

type (
	listReport   func(ctx context.Context, tenant string) ([]models.Row, error)
	singleReport func(ctx context.Context, tenant string) (*models.Row, error)
)

func (h *Handler) writeList(c *gin.Context, what string, report listReport) {
	rows, err := report(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respondError(c, deviceLogger, what, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(rows))
}

func (h *Handler) writeSingle(c *gin.Context, what string, report singleReport) {
	row, err := report(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respondError(c, deviceLogger, what, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// GetPosition returns the latest position of one device
// (GET /devices/:companyId/position/:devEui)
func (h *Handler) GetPosition(c *gin.Context) {
	h.writeSingle(c, "device position", func(ctx context.Context, tenant string) (*models.Row, error) {
		return h.deviceSrv.Position(ctx, tenant, c.Param("devEui"))
	})
}

// GetRoute returns the valid fixes of one device over the last 24 hours
// (GET /devices/:companyId/route/:devEui)
func (h *Handler) GetRoute(c *gin.Context) {
	h.writeList(c, "device route", func(ctx context.Context, tenant string) ([]models.Row, error) {
		return h.deviceSrv.Route(ctx, tenant, c.Param("devEui"))
	})
}

// (GET /devices/:companyId/motion-state)
func (h *Handler) GetMotionStates(c *gin.Context) {
	h.writeList(c, "motion states", h.deviceSrv.MotionStates)
}

// (GET /devices/:companyId/low-battery)
func (h *Handler) GetLowBattery(c *gin.Context) {
	h.writeList(c, "low battery devices", h.deviceSrv.LowBattery)
}

// (GET /devices/:companyId/offline)
func (h *Handler) GetOffline(c *gin.Context) {
	h.writeList(c, "offline devices", h.deviceSrv.Offline)
}

// (GET /devices/:companyId/gateway-quality)
func (h *Handler) GetGatewayQuality(c *gin.Context) {
	h.writeList(c, "gateway quality", h.deviceSrv.GatewayQuality)
}

// (GET /devices/:companyId/customer-stats)
func (h *Handler) GetCustomerStats(c *gin.Context) {
	h.writeList(c, "customer statistics", h.deviceSrv.CustomerActivity)
}

// (GET /devices/:companyId/sos/active)
func (h *Handler) GetActiveSOS(c *gin.Context) {
	h.writeList(c, "active sos", h.deviceSrv.ActiveSOS)
}

// (GET /devices/:companyId/sos/events)
func (h *Handler) GetSOSEvents(c *gin.Context) {
	h.writeList(c, "sos events", h.deviceSrv.SOSEvents)
}

// (GET /devices/:companyId/motion/transitions)
func (h *Handler) GetMotionTransitions(c *gin.Context) {
	h.writeList(c, "motion transitions", h.deviceSrv.MotionTransitions)
}

// (GET /devices/:companyId/events/duplicates)
func (h *Handler) GetDuplicateEvents(c *gin.Context) {
	h.writeList(c, "duplicate events", h.deviceSrv.DuplicateEvents)
}

// (GET /devices/:companyId/events/types)
func (h *Handler) GetEventTypes(c *gin.Context) {
	h.writeList(c, "event types", h.deviceSrv.EventTypes)
}

// GetGeofenceViolations returns the latest geofence events, limit defaults to 100
// (GET /devices/:companyId/geofence/violations)
func (h *Handler) GetGeofenceViolations(c *gin.Context) {
	h.writeList(c, "geofence violations", func(ctx context.Context, tenant string) ([]models.Row, error) {
		return h.deviceSrv.GeofenceViolations(ctx, tenant, c.Query("limit"))
	})
}

// (GET /devices/:companyId/config/:devEui)
func (h *Handler) GetCurrentConfig(c *gin.Context) {
	h.writeSingle(c, "device configuration", func(ctx context.Context, tenant string) (*models.Row, error) {
		return h.deviceSrv.CurrentConfig(ctx, tenant, c.Param("devEui"))
	})
}

// GetConfigHistory returns the configuration changes of one device, limit defaults to 5
// (GET /devices/:companyId/config/:devEui/history)
func (h *Handler) GetConfigHistory(c *gin.Context) {
	h.writeList(c, "configuration history", func(ctx context.Context, tenant string) ([]models.Row, error) {
		return h.deviceSrv.ConfigHistory(ctx, tenant, c.Param("devEui"), c.Query("limit"))
	})
}

// (GET /devices/:companyId/config/tracking-modes)
func (h *Handler) GetTrackingModes(c *gin.Context) {
	h.writeList(c, "tracking modes", h.deviceSrv.TrackingModes)
}

// (GET /devices/:companyId/kpi/uptime)
func (h *Handler) GetUptime(c *gin.Context) {
	h.writeSingle(c, "uptime", h.deviceSrv.Uptime)
}

// (GET /devices/:companyId/kpi/gps-success)
func (h *Handler) GetGPSSuccess(c *gin.Context) {
	h.writeSingle(c, "gps success rate", h.deviceSrv.GPSSuccess)
}

// (GET /devices/:companyId/kpi/battery-health)
func (h *Handler) GetBatteryHealth(c *gin.Context) {
	h.writeSingle(c, "battery health", h.deviceSrv.BatteryHealth)
}

// (GET /devices/:companyId/kpi/accuracy)
func (h *Handler) GetAccuracyDistribution(c *gin.Context) {
	h.writeList(c, "accuracy distribution", h.deviceSrv.AccuracyDistribution)
}

// GetDeviceList returns the devices that reported a fix
// (GET /devices/:companyId/device/list)
func (h *Handler) GetDeviceList(c *gin.Context) {
	devices, err := h.deviceSrv.DeviceList(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respondError(c, deviceLogger, "device list", err)
		return
	}
	devices = nonNil(devices)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": devices, "total": len(devices)})
}
