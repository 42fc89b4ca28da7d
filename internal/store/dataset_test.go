package store_test

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/internal/config"
	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/store"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
	"github.com/xfinder/reporting-api/pkg/query"
)

var _ = Describe("DatasetStore", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.Store
		all query.Predicate
	)

	history := store.Source{Table: datasets.TableGPSReports, Timestamp: "timestamp"}
	latest := store.Source{Table: datasets.TableGPSReports, Timestamp: "timestamp", Latest: true, Partition: "dev_eui"}

	BeforeEach(func() {
		ctx = context.Background()
		db, s = newSeededStore(ctx)

		var err error
		all, err = query.ForTenant(datasets.CompanyColumn, "1")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("Count", func() {
		It("should count every row of the tenant", func() {
			total, err := s.Datasets().Count(ctx, history, all)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(uint64(4)))
		})

		It("should apply the compiled conditions", func() {
			where := all.And(sq.Eq{"dev_eui": []string{"A81758FFFE000001", "A81758FFFE000003"}})

			total, err := s.Datasets().Count(ctx, history, where)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(uint64(3)))
		})

		It("should not see rows of another tenant", func() {
			other, err := query.ForTenant(datasets.CompanyColumn, "2")
			Expect(err).NotTo(HaveOccurred())

			total, err := s.Datasets().Count(ctx, history, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())
		})

		It("should count one row per device in latest mode", func() {
			total, err := s.Datasets().Count(ctx, latest, all)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(uint64(3)))
		})

		// Given a predicate that was never scoped to a tenant
		// When it is used to count
		// Then the statement is refused before reaching the database
		It("should refuse an unscoped predicate", func() {
			_, err := s.Datasets().Count(ctx, history, query.Predicate{})
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsQueryFailureError(err)).To(BeTrue())
		})
	})

	Describe("Page", func() {
		It("should return the page and its metadata", func() {
			page := query.Page{Number: 2, Limit: 3, Offset: 3, SortBy: "id", Order: query.Asc}

			result, err := s.Datasets().Page(ctx, history, all, page)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Data).To(HaveLen(1))
			Expect(value(result.Data[0], "id")).To(BeEquivalentTo(4))
			Expect(result.Pagination.CurrentPage).To(Equal(uint64(2)))
			Expect(result.Pagination.PerPage).To(Equal(uint64(3)))
			Expect(result.Pagination.TotalRecords).To(Equal(uint64(4)))
			Expect(result.Pagination.TotalPages).To(Equal(uint64(2)))
		})

		It("should keep the table column order", func() {
			page := query.Page{Number: 1, Limit: 1, SortBy: "id", Order: query.Asc}

			result, err := s.Datasets().Page(ctx, history, all, page)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data[0].Columns[:3]).To(Equal([]string{"id", "company_id", "dev_eui"}))
		})

		It("should return the newest row of each device without the rank column", func() {
			page := query.Page{Number: 1, Limit: 10, SortBy: "dev_eui", Order: query.Asc}

			result, err := s.Datasets().Page(ctx, latest, all, page)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Data).To(HaveLen(3))
			Expect(result.Data[0].Columns).NotTo(ContainElement("row_num"))
			Expect(column(result.Data, "id")).To(Equal([]any{int64(1), int64(3), int64(4)}))
			Expect(result.Pagination.TotalRecords).To(Equal(uint64(3)))
		})

		It("should return an empty page past the end", func() {
			page := query.Page{Number: 5, Limit: 10, Offset: 40, SortBy: "timestamp", Order: query.Desc}

			result, err := s.Datasets().Page(ctx, history, all, page)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data).To(BeEmpty())
			Expect(result.Pagination.TotalRecords).To(Equal(uint64(4)))
		})
	})

	Describe("WithPage", func() {
		It("should bind only the conditions and render the window from the resolved page", func() {
			page := query.Page{Number: 5, Limit: 10, Offset: 40, SortBy: "timestamp", Order: query.Desc}

			_, whereArgs, err := all.ToSql()
			Expect(err).NotTo(HaveOccurred())

			stmt, args, err := store.WithPage(page)(sq.Select("*").From(string(datasets.TableGPSReports)).Where(all)).ToSql()
			Expect(err).NotTo(HaveOccurred())
			Expect(stmt).To(HaveSuffix("ORDER BY timestamp DESC LIMIT 10 OFFSET 40"))
			Expect(args).To(Equal(whereArgs))
		})
	})

	Describe("Export", func() {
		It("should return the newest rows up to the limit", func() {
			rows, err := s.Datasets().Export(ctx, history, all, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(column(rows, "id")).To(Equal([]any{int64(1), int64(2)}))
		})
	})

	Describe("query timeout", func() {
		It("should fail statements once the caller context is done", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := s.Datasets().Count(cancelled, history, all)
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsQueryFailureError(err)).To(BeTrue())
		})

		It("should bound every statement by the store timeout", func() {
			short := store.NewStore(db, store.DialectFor(config.DriverDuckDB), time.Nanosecond)

			_, err := short.Datasets().Count(ctx, history, all)
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsQueryFailureError(err)).To(BeTrue())
		})
	})
})
