package store_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

var _ = Describe("AlertStore", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, s = newSeededStore(ctx)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	It("should reject an empty company id", func() {
		_, err := s.Alerts().Summary(ctx, "")
		Expect(srvErrors.IsValidationError(err)).To(BeTrue())
	})

	Describe("Summary", func() {
		It("should count active signals", func() {
			row, err := s.Alerts().Summary(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(value(*row, "total_people")).To(BeEquivalentTo(2))
			Expect(value(*row, "alarm1_active")).To(BeEquivalentTo(1))
			Expect(value(*row, "any_alarm_active")).To(BeEquivalentTo(1))
			Expect(value(*row, "button2_pressed")).To(BeEquivalentTo(1))
			Expect(value(*row, "highly_critical")).To(BeEquivalentTo(1))
		})
	})

	Describe("active lists", func() {
		It("should list alarm 2", func() {
			rows, err := s.Alerts().Alarm2Active(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-001"}))
		})

		It("should list button 2", func() {
			rows, err := s.Alerts().Button2Pressed(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-002"}))
		})

		// Given two people with alerts of different scores
		// When every active alert is listed
		// Then the most critical comes first
		It("should rank every active alert by score", func() {
			rows, err := s.Alerts().AllActive(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-001", "P-002"}))
		})

		It("should list people with more than one alert", func() {
			rows, err := s.Alerts().Multiple(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(value(rows[0], "active_alerts_count")).To(BeEquivalentTo(2))
			Expect(value(rows[0], "active_alerts_list")).To(Equal("ALARM1, ALARM2"))
		})
	})

	Describe("comparisons", func() {
		It("should return one row per button", func() {
			rows, err := s.Alerts().ButtonComparison(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "button_type")).To(ConsistOf("Button 1", "Button 2"))
			Expect(column(rows, "pressed")).To(ConsistOf(BeEquivalentTo(0), BeEquivalentTo(1)))
		})

		It("should return one row per alarm and man-down", func() {
			rows, err := s.Alerts().AlarmComparison(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "alarm_type")).To(ConsistOf("Alarm 1", "Alarm 2", "Man-Down"))
		})
	})

	Describe("History", func() {
		It("should list changes within the window", func() {
			rows, err := s.Alerts().History(ctx, "1", 24)
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-001", "P-002"}))
		})
	})

	Describe("groupings", func() {
		It("should group by department", func() {
			rows, err := s.Alerts().ByDepartment(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "department_name")).To(ConsistOf("Operations", "Maintenance"))
		})

		It("should group by zone", func() {
			rows, err := s.Alerts().ByZone(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "zone")).To(ConsistOf("Warehouse A", "Yard"))
		})
	})

	Describe("Filtered", func() {
		It("should OR the alert flags", func() {
			rows, err := s.Alerts().Filtered(ctx, "1", models.AlertFilter{Alarm1: true, Button2: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("should AND the other fields", func() {
			rows, err := s.Alerts().Filtered(ctx, "1", models.AlertFilter{
				Alarm1:   true,
				Button2:  true,
				Priority: models.AlertPriorityAlert,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-002"}))
		})

		It("should filter by department only", func() {
			rows, err := s.Alerts().Filtered(ctx, "1", models.AlertFilter{Department: "Operations"})
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "person_code")).To(Equal([]any{"P-001"}))
		})
	})
})
