package services_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/services"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

var _ = Describe("DeviceService", func() {
	var (
		ctx context.Context
		db  *sql.DB
		srv *services.DeviceService
	)

	BeforeEach(func() {
		ctx = context.Background()
		var st *store.Store
		db, st = newSeededStore(ctx)
		srv = services.NewDeviceService(st)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("GeofenceViolations", func() {
		It("should fall back to the default limit when limit is not a number", func() {
			rows, err := srv.GeofenceViolations(ctx, "1", "many")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
		})
	})

	Describe("ConfigHistory", func() {
		It("should honour the requested limit", func() {
			rows, err := srv.ConfigHistory(ctx, "1", "A81758FFFE000001", "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(value(rows[0], "tracking_mode")).To(Equal("MOTION"))
		})

		It("should return the whole history under the default limit", func() {
			rows, err := srv.ConfigHistory(ctx, "1", "A81758FFFE000001", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})
	})

	Describe("Position", func() {
		It("should report unknown devices as not found", func() {
			_, err := srv.Position(ctx, "1", "FFFFFFFFFFFFFFFF")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Describe("DeviceList", func() {
		It("should list the devices of the tenant only", func() {
			devices, err := srv.DeviceList(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(devices).To(Equal([]string{"A81758FFFE000001", "A81758FFFE000002", "A81758FFFE000003"}))

			devices, err = srv.DeviceList(ctx, "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(devices).To(BeEmpty())
		})

		It("should refuse an empty tenant", func() {
			_, err := srv.DeviceList(ctx, "")
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})
})
