package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/handlers"
	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

var _ = Describe("Device Handlers", func() {
	var (
		mockDevices *MockDeviceService
		router      *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockDevices = &MockDeviceService{}
		handler := handlers.New(&MockDatasetService{}, mockDevices, &MockAlertService{},
			&MockCertificateService{}, &MockGeoService{}, &MockOverviewService{})
		router = gin.New()
		handler.Register(router.Group("/api/v1"))
	})

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	DescribeTable("list reports",
		func(path string) {
			mockDevices.Rows = []models.Row{row([]string{"dev_eui"}, "A81758FFFE000001")}

			w := serve("/api/v1/devices/42" + path)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`[{"dev_eui": "A81758FFFE000001"}]`))
			Expect(mockDevices.LastTenant).To(Equal("42"))
		},
		Entry("motion state", "/motion-state"),
		Entry("low battery", "/low-battery"),
		Entry("offline", "/offline"),
		Entry("gateway quality", "/gateway-quality"),
		Entry("customer stats", "/customer-stats"),
		Entry("active sos", "/sos/active"),
		Entry("sos events", "/sos/events"),
		Entry("motion transitions", "/motion/transitions"),
		Entry("duplicate events", "/events/duplicates"),
		Entry("event types", "/events/types"),
		Entry("geofence violations", "/geofence/violations"),
		Entry("tracking modes", "/config/tracking-modes"),
		Entry("accuracy", "/kpi/accuracy"),
		Entry("route", "/route/A81758FFFE000001"),
		Entry("config history", "/config/A81758FFFE000001/history"),
	)

	DescribeTable("single reports",
		func(path string) {
			r := row([]string{"total_devices"}, 3)
			mockDevices.Row = &r

			w := serve("/api/v1/devices/42" + path)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"total_devices": 3}`))
		},
		Entry("uptime", "/kpi/uptime"),
		Entry("gps success", "/kpi/gps-success"),
		Entry("battery health", "/kpi/battery-health"),
		Entry("position", "/position/A81758FFFE000001"),
		Entry("configuration", "/config/A81758FFFE000001"),
	)

	It("should return an empty array when a report has no rows", func() {
		w := serve("/api/v1/devices/1/offline")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("should pass the device and limit through", func() {
		serve("/api/v1/devices/1/config/A81758FFFE000002/history?limit=3")

		Expect(mockDevices.LastDevEui).To(Equal("A81758FFFE000002"))
		Expect(mockDevices.LastLimit).To(Equal("3"))
	})

	It("should return 404 for an unknown device", func() {
		mockDevices.Err = srvErrors.NewResourceNotFoundError("device position", "X")

		w := serve("/api/v1/devices/1/position/X")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("not found"))
	})

	It("should return 500 when the report fails", func() {
		mockDevices.Err = srvErrors.NewQueryFailureError("low_battery", errors.New("timeout"))

		w := serve("/api/v1/devices/1/low-battery")

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("failed to fetch low battery devices"))
	})

	Describe("GetDeviceList", func() {
		It("should wrap the devices with their total", func() {
			mockDevices.Devices = []string{"A", "B"}

			w := serve("/api/v1/devices/1/device/list")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success": true, "data": ["A", "B"], "total": 2}`))
		})
	})
})
