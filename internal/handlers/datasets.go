package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/services"
	"github.com/xfinder/reporting-api/pkg/export"
	"github.com/xfinder/reporting-api/pkg/query"
)

const datasetLogger = "dataset_handler"

// GetRawDataset returns one page of a raw dataset
// (GET /devices/:companyId/raw/:dataset)
func (h *Handler) GetRawDataset(c *gin.Context) {
	result, err := h.datasetSrv.Query(c.Request.Context(), services.DatasetRequest{
		Dataset: c.Param("dataset"),
		Tenant:  c.Param("companyId"),
		Params:  c.Request.URL.Query(),
		Page:    pageRequest(c),
	})
	if err != nil {
		respondError(c, datasetLogger, c.Param("dataset"), err)
		return
	}
	c.JSON(http.StatusOK, export.NewPage(result))
}

// GetGPSData returns one page of fixes, optionally only the latest fix of
// every device
// (GET /devices/:companyId/gps-data)
func (h *Handler) GetGPSData(c *gin.Context) {
	mode := datasets.History
	if latest, _ := strconv.ParseBool(c.Query("latest_only")); latest {
		mode = datasets.LatestPerDevice
	}

	result, err := h.datasetSrv.Query(c.Request.Context(), services.DatasetRequest{
		Dataset: datasets.GPSData,
		Tenant:  c.Param("companyId"),
		Params:  c.Request.URL.Query(),
		Page:    pageRequest(c),
		Mode:    mode,
	})
	if err != nil {
		respondError(c, datasetLogger, "gps data", err)
		return
	}

	page := export.NewPage(result)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       page.Data,
		"pagination": page.Pagination,
	})
}

// GetGPSStats summarizes the fixes matching dev_eui and the date range
// (GET /devices/:companyId/gps-stats)
func (h *Handler) GetGPSStats(c *gin.Context) {
	stats, err := h.datasetSrv.GPSStats(c.Request.Context(), c.Param("companyId"), c.Request.URL.Query())
	if err != nil {
		respondError(c, datasetLogger, "gps statistics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// ExportDataset writes the rows of an exportable dataset as json, csv or xlsx
// (GET /devices/:companyId/export/:table/:format)
func (h *Handler) ExportDataset(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respondError(c, datasetLogger, "export", err)
		return
	}

	result, err := h.datasetSrv.Export(c.Request.Context(), c.Param("companyId"), c.Param("table"), c.Request.URL.Query())
	if err != nil {
		respondError(c, datasetLogger, "export", err)
		return
	}

	writeExport(c, format, result.Table+"_export", result.Rows)
}

func pageRequest(c *gin.Context) query.PageRequest {
	return query.PageRequest{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// writeExport encodes rows in format. CSV and XLSX are sent as an attachment
// named <name>.<format>.
func writeExport(c *gin.Context, format export.Format, name string, rows []models.Row) {
	switch format {
	case export.FormatCSV:
		c.Header("Content-Disposition", format.Attachment(name))
		c.Data(http.StatusOK, format.ContentType(), []byte(export.CSV(rows)))
	case export.FormatXLSX:
		data, err := export.XLSX(rows)
		if err != nil {
			respondError(c, datasetLogger, "export", err)
			return
		}
		c.Header("Content-Disposition", format.Attachment(name))
		c.Data(http.StatusOK, format.ContentType(), data)
	default:
		c.JSON(http.StatusOK, export.NewCollection(rows))
	}
}
