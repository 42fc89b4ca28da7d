package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/handlers"
	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

var _ = Describe("Dashboard Handlers", func() {
	var (
		mockCerts    *MockCertificateService
		mockGeo      *MockGeoService
		mockOverview *MockOverviewService
		router       *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockCerts = &MockCertificateService{}
		mockGeo = &MockGeoService{}
		mockOverview = &MockOverviewService{}
		handler := handlers.New(&MockDatasetService{}, &MockDeviceService{}, &MockAlertService{},
			mockCerts, mockGeo, mockOverview)
		router = gin.New()
		handler.Register(router.Group("/api/v1"))
	})

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	Describe("GetCertificateAnalytics", func() {
		It("should return the analytics payload", func() {
			mockCerts.Result = &models.CertificateAnalytics{
				Analytics: models.CertificateTotals{TotalCertificates: 2, ExpiredCertificates: 1},
			}

			w := serve("/api/v1/dashboard/certificates/12")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockCerts.LastID).To(BeEquivalentTo(12))

			var response map[string]map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response["analytics"]["totalCertificates"]).To(BeEquivalentTo(2))
			Expect(response["analytics"]["expiredCertificates"]).To(BeEquivalentTo(1))
		})

		DescribeTable("should reject invalid company ids",
			func(id string) {
				w := serve("/api/v1/dashboard/certificates/" + id)

				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(w.Body.String()).To(MatchJSON(`{"error": "company id must be a positive integer"}`))
				Expect(mockCerts.LastID).To(BeZero())
			},
			Entry("zero", "0"),
			Entry("negative", "-1"),
			Entry("not a number", "acme"),
		)
	})

	It("should wrap the certificate status counts", func() {
		mockCerts.Rows = []models.Row{row([]string{"status_name", "count"}, "APPROVED", 1)}

		w := serve("/api/v1/dashboard/certificates/1/status")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"data": [{"status_name": "APPROVED", "count": 1}]}`))
	})

	It("should wrap the top brands", func() {
		w := serve("/api/v1/dashboard/certificates/1/top-brands")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"data": []}`))
	})

	Describe("GetGeoMetrics", func() {
		It("should return the zones", func() {
			metrics := &models.GeoLocationMetrics{}
			metrics.Company.ID = 3
			mockGeo.Result = metrics

			w := serve("/api/v1/geo/3/metrics")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockGeo.LastID).To(BeEquivalentTo(3))
			Expect(w.Body.String()).To(ContainSubstring(`"id":3`))
		})

		It("should return 404 when the company has no rows", func() {
			mockGeo.Err = srvErrors.NewResourceNotFoundError("geo location metrics", "3")

			w := serve("/api/v1/geo/3/metrics")

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GetDashboardOverview", func() {
		It("should return the overview", func() {
			mockOverview.Result = &models.DashboardOverview{
				Alerts:      models.OverviewAlerts{ActiveSOSCount: 1},
				GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			}

			w := serve("/api/v1/devices/1/dashboard/overview")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"active_sos_count":1`))
			Expect(w.Body.String()).To(ContainSubstring(`"generated_at":"2026-01-02T03:04:05Z"`))
		})

		It("should fail as a whole when a sub report fails", func() {
			mockOverview.Err = srvErrors.NewQueryFailureError("kpi_uptime", errors.New("boom"))

			w := serve("/api/v1/devices/1/dashboard/overview")

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(ContainSubstring("failed to fetch dashboard overview"))
		})
	})
})
