package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/pkg/export"
)

const alertLogger = "alert_handler"

// writeAlerts writes rows in the {success,data,total} envelope.
func (h *Handler) writeAlerts(c *gin.Context, what string, report listReport) {
	rows, err := report(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respondError(c, alertLogger, what, err)
		return
	}
	c.JSON(http.StatusOK, export.NewCollection(rows))
}

// GetAlertSummary returns the alert counters of a company
// (GET /alerts/:companyId/summary)
func (h *Handler) GetAlertSummary(c *gin.Context) {
	summary, err := h.alertSrv.Summary(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respondError(c, alertLogger, "alert summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// (GET /alerts/:companyId/alarm2/active)
func (h *Handler) GetAlarm2Active(c *gin.Context) {
	h.writeAlerts(c, "alarm2 alerts", h.alertSrv.Alarm2Active)
}

// (GET /alerts/:companyId/button2/pressed)
func (h *Handler) GetButton2Pressed(c *gin.Context) {
	h.writeAlerts(c, "button2 alerts", h.alertSrv.Button2Pressed)
}

// (GET /alerts/:companyId/buttons/comparison)
func (h *Handler) GetButtonComparison(c *gin.Context) {
	h.writeAlerts(c, "button comparison", h.alertSrv.ButtonComparison)
}

// (GET /alerts/:companyId/alarms/comparison)
func (h *Handler) GetAlarmComparison(c *gin.Context) {
	h.writeAlerts(c, "alarm comparison", h.alertSrv.AlarmComparison)
}

// (GET /alerts/:companyId/active/all)
func (h *Handler) GetAllActiveAlerts(c *gin.Context) {
	h.writeAlerts(c, "active alerts", h.alertSrv.AllActive)
}

// (GET /alerts/:companyId/history/24h)
func (h *Handler) GetAlertHistory24h(c *gin.Context) {
	h.writeAlerts(c, "alert history", func(ctx context.Context, tenant string) ([]models.Row, error) {
		return h.alertSrv.History(ctx, tenant, "")
	})
}

// GetAlertHistory lists alert changes of the last hours, 24 when missing
// (GET /alerts/:companyId/history/custom)
func (h *Handler) GetAlertHistory(c *gin.Context) {
	h.writeAlerts(c, "alert history", func(ctx context.Context, tenant string) ([]models.Row, error) {
		return h.alertSrv.History(ctx, tenant, c.Query("hours"))
	})
}

// (GET /alerts/:companyId/by-department)
func (h *Handler) GetAlertsByDepartment(c *gin.Context) {
	h.writeAlerts(c, "alerts by department", h.alertSrv.ByDepartment)
}

// (GET /alerts/:companyId/by-zone)
func (h *Handler) GetAlertsByZone(c *gin.Context) {
	h.writeAlerts(c, "alerts by zone", h.alertSrv.ByZone)
}

// (GET /alerts/:companyId/multiple)
func (h *Handler) GetMultipleAlerts(c *gin.Context) {
	h.writeAlerts(c, "multiple alerts", h.alertSrv.Multiple)
}

// GetFilteredAlerts lists the people matching the alert flags, department,
// zone and priority
// (GET /alerts/:companyId/filter)
func (h *Handler) GetFilteredAlerts(c *gin.Context) {
	filter := alertFilter(c)
	h.writeAlerts(c, "filtered alerts", func(ctx context.Context, tenant string) ([]models.Row, error) {
		return h.alertSrv.Filtered(ctx, tenant, filter)
	})
}

// ExportAlerts writes the filtered alerts as json, csv or xlsx
// (GET /alerts/:companyId/export)
func (h *Handler) ExportAlerts(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatJSON)))
	if err != nil {
		respondError(c, alertLogger, "alert export", err)
		return
	}

	tenant := c.Param("companyId")
	rows, err := h.alertSrv.Filtered(c.Request.Context(), tenant, alertFilter(c))
	if err != nil {
		respondError(c, alertLogger, "alert export", err)
		return
	}

	writeExport(c, format, fmt.Sprintf("alerts_%s_%d", tenant, time.Now().UnixMilli()), rows)
}

func alertFilter(c *gin.Context) models.AlertFilter {
	return models.AlertFilter{
		Alarm1:     c.Query("alarm1") == "true",
		Alarm2:     c.Query("alarm2") == "true",
		Button1:    c.Query("button1") == "true",
		Button2:    c.Query("button2") == "true",
		Mandown:    c.Query("mandown") == "true",
		Department: c.Query("department"),
		Zone:       c.Query("zone"),
		Priority:   models.AlertPriority(c.Query("priority")),
	}
}
