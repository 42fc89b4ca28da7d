package handlers_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/handlers"
	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

var _ = Describe("Alert Handlers", func() {
	var (
		mockAlerts *MockAlertService
		router     *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockAlerts = &MockAlertService{}
		handler := handlers.New(&MockDatasetService{}, &MockDeviceService{}, mockAlerts,
			&MockCertificateService{}, &MockGeoService{}, &MockOverviewService{})
		router = gin.New()
		handler.Register(router.Group("/api/v1"))
	})

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	DescribeTable("list reports use the success envelope",
		func(path string) {
			mockAlerts.Rows = []models.Row{row([]string{"person_code"}, "P-001")}

			w := serve("/api/v1/alerts/1" + path)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success": true, "data": [{"person_code": "P-001"}], "total": 1}`))
		},
		Entry("alarm2", "/alarm2/active"),
		Entry("button2", "/button2/pressed"),
		Entry("buttons comparison", "/buttons/comparison"),
		Entry("alarms comparison", "/alarms/comparison"),
		Entry("active", "/active/all"),
		Entry("history 24h", "/history/24h"),
		Entry("history custom", "/history/custom?hours=6"),
		Entry("by department", "/by-department"),
		Entry("by zone", "/by-zone"),
		Entry("multiple", "/multiple"),
		Entry("filter", "/filter"),
	)

	It("should wrap the summary", func() {
		summary := row([]string{"total_people"}, 2)
		mockAlerts.Row = &summary

		w := serve("/api/v1/alerts/1/summary")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"success": true, "data": {"total_people": 2}}`))
	})

	It("should pass the custom hours through", func() {
		serve("/api/v1/alerts/1/history/custom?hours=6")
		Expect(mockAlerts.LastHours).To(Equal("6"))

		serve("/api/v1/alerts/1/history/24h")
		Expect(mockAlerts.LastHours).To(BeEmpty())
	})

	It("should return 400 for invalid hours", func() {
		mockAlerts.Err = srvErrors.NewValidationError("hours must be a positive integer")

		w := serve("/api/v1/alerts/1/history/custom?hours=0")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(MatchJSON(`{"error": "hours must be a positive integer"}`))
	})

	It("should parse the filter parameters", func() {
		serve("/api/v1/alerts/1/filter?alarm1=true&button2=true&mandown=yes&department=Ops&zone=Yard&priority=CRITICAL")

		Expect(mockAlerts.LastFilter).To(Equal(models.AlertFilter{
			Alarm1:     true,
			Button2:    true,
			Department: "Ops",
			Zone:       "Yard",
			Priority:   models.AlertPriorityCritical,
		}))
	})

	Describe("ExportAlerts", func() {
		BeforeEach(func() {
			mockAlerts.Rows = []models.Row{row([]string{"person_code", "department"}, "P-001", "Ops")}
		})

		It("should default to json", func() {
			w := serve("/api/v1/alerts/1/export")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success": true, "data": [{"person_code": "P-001", "department": "Ops"}], "total": 1}`))
		})

		It("should send csv as an attachment", func() {
			w := serve("/api/v1/alerts/7/export?format=csv&alarm2=true")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(MatchRegexp(`^attachment; filename=alerts_7_\d+\.csv$`))
			Expect(w.Body.String()).To(Equal("person_code,department\nP-001,Ops"))
			Expect(mockAlerts.LastFilter.Alarm2).To(BeTrue())
		})

		It("should reject other formats", func() {
			w := serve("/api/v1/alerts/1/export?format=pdf")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
