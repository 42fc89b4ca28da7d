package services_test

import (
	"context"
	"database/sql"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/services"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
	"github.com/xfinder/reporting-api/pkg/query"
)

var _ = Describe("DatasetService", func() {
	var (
		ctx context.Context
		db  *sql.DB
		st  *store.Store
		srv *services.DatasetService
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, st = newSeededStore(ctx)
		srv = services.NewDatasetService(st, datasets.Default(), 3)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("Query", func() {
		It("should return a filtered page with its metadata", func() {
			result, err := srv.Query(ctx, services.DatasetRequest{
				Dataset: datasets.GPSReports,
				Tenant:  "1",
				Params:  url.Values{"dev_eui": {"A81758FFFE000001"}},
				Page:    query.PageRequest{Limit: "1", SortBy: "timestamp", SortOrder: "asc"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Pagination.TotalRecords).To(BeEquivalentTo(2))
			Expect(result.Pagination.TotalPages).To(BeEquivalentTo(2))
			Expect(result.Pagination.PerPage).To(BeEquivalentTo(1))
			Expect(result.Data).To(HaveLen(1))
			// oldest fix first
			Expect(value(result.Data[0], "id")).To(BeEquivalentTo(2))
		})

		It("should clamp the limit to the dataset maximum", func() {
			result, err := srv.Query(ctx, services.DatasetRequest{
				Dataset: datasets.GPSReports,
				Tenant:  "1",
				Page:    query.PageRequest{Limit: "5000"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Pagination.PerPage).To(BeEquivalentTo(query.DefaultMax))
		})

		It("should keep one row per device in latest mode", func() {
			result, err := srv.Query(ctx, services.DatasetRequest{
				Dataset: datasets.GPSData,
				Tenant:  "1",
				Mode:    datasets.LatestPerDevice,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Pagination.TotalRecords).To(BeEquivalentTo(3))
			Expect(result.Data).To(HaveLen(3))
		})

		It("should only narrow to valid fixes when valid_gps_only is true", func() {
			valid, err := srv.Query(ctx, services.DatasetRequest{
				Dataset: datasets.GPSData,
				Tenant:  "1",
				Params:  url.Values{"valid_gps_only": {"true"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(valid.Pagination.TotalRecords).To(BeEquivalentTo(3))

			all, err := srv.Query(ctx, services.DatasetRequest{
				Dataset: datasets.GPSData,
				Tenant:  "1",
				Params:  url.Values{"valid_gps_only": {"false"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(all.Pagination.TotalRecords).To(BeEquivalentTo(4))
		})

		It("should reject an unknown dataset", func() {
			_, err := srv.Query(ctx, services.DatasetRequest{Dataset: "nope", Tenant: "1"})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})

		It("should reject latest mode on a dataset without a device partition", func() {
			_, err := srv.Query(ctx, services.DatasetRequest{
				Dataset: datasets.Events,
				Tenant:  "1",
				Mode:    datasets.LatestPerDevice,
			})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})

		It("should reject a request without tenant", func() {
			_, err := srv.Query(ctx, services.DatasetRequest{Dataset: datasets.GPSReports})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})

		// Given column filters on numeric, boolean and timestamp columns
		// When the events dataset is queried
		// Then the values are matched as text instead of failing the request
		DescribeTable("should match column filters on non-text columns",
			func(filters string, expected int) {
				result, err := srv.Query(ctx, services.DatasetRequest{
					Dataset: datasets.Events,
					Tenant:  "1",
					Params:  url.Values{query.ColumnFiltersParam: {filters}},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Pagination.TotalRecords).To(BeEquivalentTo(expected))
				Expect(result.Data).To(HaveLen(expected))
			},
			Entry("integer", `{"battery_level":"8"}`, 3),
			Entry("integer as a JSON number", `{"battery_level":15}`, 1),
			Entry("boolean", `{"is_valid_event":"false"}`, 1),
			Entry("double", `{"gps_latitude":"-23.55"}`, 3),
			Entry("bigint id", `{"id":"3"}`, 1),
			Entry("timestamp", `{"event_timestamp":":"}`, 4),
		)

		It("should accept column filters on every dataset that allows them", func() {
			for dataset, filters := range map[string]string{
				datasets.Heartbeats:     `{"battery_level":"9","received_at":"2"}`,
				datasets.ScannedBeacons: `{"rssi":"-7","timestamp":"2"}`,
				datasets.GPSRoute:       `{"gps_accuracy":"8","timestamp":"2"}`,
			} {
				_, err := srv.Query(ctx, services.DatasetRequest{
					Dataset: dataset,
					Tenant:  "1",
					Params:  url.Values{query.ColumnFiltersParam: {filters}},
				})
				Expect(err).NotTo(HaveOccurred(), dataset)
			}
		})

		It("should return an empty page for another tenant", func() {
			result, err := srv.Query(ctx, services.DatasetRequest{Dataset: datasets.Events, Tenant: "2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data).To(BeEmpty())
			Expect(result.Pagination.TotalRecords).To(BeZero())
		})
	})

	Describe("Export", func() {
		It("should resolve the dataset by table name", func() {
			result, err := srv.Export(ctx, "1", string(datasets.TableEvents), url.Values{"event_type": {"GEOFENCE_EXIT"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Table).To(Equal("device_events_management"))
			Expect(result.Rows).To(HaveLen(2))
		})

		It("should resolve the dataset by name and cap the rows", func() {
			result, err := srv.Export(ctx, "1", datasets.GPSReports, url.Values{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Table).To(Equal("device_gps_report_monitoring"))
			Expect(result.Rows).To(HaveLen(3))
		})

		It("should refuse datasets that are not exportable", func() {
			_, err := srv.Export(ctx, "1", datasets.Heartbeats, url.Values{})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("invalid table name"))
		})

		It("should refuse arbitrary table names", func() {
			_, err := srv.Export(ctx, "1", "users; DROP TABLE users", url.Values{})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})

	Describe("GPSStats", func() {
		It("should summarize the fixes of the selected devices", func() {
			row, err := srv.GPSStats(ctx, "1", url.Values{"dev_eui": {"A81758FFFE000001,A81758FFFE000002"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(value(*row, "total_reports")).To(BeEquivalentTo(3))
			Expect(value(*row, "unique_devices")).To(BeEquivalentTo(2))
			Expect(value(*row, "valid_reports")).To(BeEquivalentTo(2))
		})

		It("should require a tenant", func() {
			_, err := srv.GPSStats(ctx, "", url.Values{})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})
})
