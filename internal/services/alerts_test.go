package services_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/services"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

var _ = Describe("AlertService", func() {
	var (
		ctx context.Context
		db  *sql.DB
		srv *services.AlertService
	)

	BeforeEach(func() {
		ctx = context.Background()
		var st *store.Store
		db, st = newSeededStore(ctx)
		srv = services.NewAlertService(st)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("History", func() {
		It("should default to the last 24 hours", func() {
			rows, err := srv.History(ctx, "1", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("should accept a positive number of hours", func() {
			rows, err := srv.History(ctx, "1", " 1 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		DescribeTable("should reject invalid hours",
			func(hours string) {
				_, err := srv.History(ctx, "1", hours)
				Expect(srvErrors.IsValidationError(err)).To(BeTrue())
			},
			Entry("zero", "0"),
			Entry("negative", "-4"),
			Entry("not a number", "yesterday"),
		)
	})

	Describe("Filtered", func() {
		It("should filter by priority", func() {
			rows, err := srv.Filtered(ctx, "1", models.AlertFilter{Priority: models.AlertPriorityAlert})
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-002"}))
		})

		It("should reject an unknown priority", func() {
			_, err := srv.Filtered(ctx, "1", models.AlertFilter{Priority: "URGENT"})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})

	Describe("Summary", func() {
		It("should refuse an empty tenant", func() {
			_, err := srv.Summary(ctx, "")
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})
})
