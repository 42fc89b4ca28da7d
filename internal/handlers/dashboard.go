package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

const dashboardLogger = "dashboard_handler"

// companyID reads the numeric company id of the certificate and geo tables.
func companyID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("companyId")), 10, 64)
	if err != nil || id <= 0 {
		return 0, srvErrors.NewValidationError("company id must be a positive integer")
	}
	return id, nil
}

// GetCertificateAnalytics returns the certificate dashboard of a company
// (GET /dashboard/certificates/:companyId)
func (h *Handler) GetCertificateAnalytics(c *gin.Context) {
	id, err := companyID(c)
	if err != nil {
		respondError(c, dashboardLogger, "certificate analytics", err)
		return
	}

	analytics, err := h.certificateSrv.Analytics(c.Request.Context(), id)
	if err != nil {
		respondError(c, dashboardLogger, "certificate analytics", err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// (GET /dashboard/certificates/:companyId/status)
func (h *Handler) GetCertificateStatus(c *gin.Context) {
	id, err := companyID(c)
	if err != nil {
		respondError(c, dashboardLogger, "certificate status", err)
		return
	}

	rows, err := h.certificateSrv.StatusCounts(c.Request.Context(), id)
	if err != nil {
		respondError(c, dashboardLogger, "certificate status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": nonNil(rows)})
}

// (GET /dashboard/certificates/:companyId/top-brands)
func (h *Handler) GetTopBrands(c *gin.Context) {
	id, err := companyID(c)
	if err != nil {
		respondError(c, dashboardLogger, "top brands", err)
		return
	}

	rows, err := h.certificateSrv.TopBrands(c.Request.Context(), id)
	if err != nil {
		respondError(c, dashboardLogger, "top brands", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": nonNil(rows)})
}

// GetGeoMetrics returns the items of a company grouped by zone
// (GET /geo/:companyId/metrics)
func (h *Handler) GetGeoMetrics(c *gin.Context) {
	id, err := companyID(c)
	if err != nil {
		respondError(c, dashboardLogger, "geolocation metrics", err)
		return
	}

	metrics, err := h.geoSrv.Metrics(c.Request.Context(), id)
	if err != nil {
		respondError(c, dashboardLogger, "geolocation metrics", err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetDashboardOverview returns the fleet KPIs and alert lists in one call
// (GET /devices/:companyId/dashboard/overview)
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.overviewSrv.Overview(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respondError(c, dashboardLogger, "dashboard overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
