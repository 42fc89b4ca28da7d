package export_test

import (
	"bytes"
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
	"github.com/xfinder/reporting-api/pkg/export"
)

var _ = Describe("Export", func() {
	Context("CSV", func() {
		// Given a row with a comma, a quoted phrase and a null
		// When it is rendered as CSV
		// Then strings are quoted with doubled quotes and null is empty
		It("quotes special strings", func() {
			rows := []models.Row{
				models.NewRow([]string{"a", "b", "c"}, []any{"x,y", `he said "hi"`, nil}),
			}
			Expect(export.CSV(rows)).To(Equal("a,b,c\n\"x,y\",\"he said \"\"hi\"\"\","))
		})

		It("returns an empty string for no rows", func() {
			Expect(export.CSV(nil)).To(Equal(""))
		})

		It("quotes newlines and leaves other values alone", func() {
			ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
			rows := []models.Row{
				models.NewRow([]string{"id", "note", "level", "valid", "at"}, []any{int64(1), "line1\nline2", 12.5, true, ts}),
				models.NewRow([]string{"id", "note", "level", "valid", "at"}, []any{int64(2), " plain ", nil, false, nil}),
			}
			Expect(export.CSV(rows)).To(Equal(
				"id,note,level,valid,at\n" +
					"1,\"line1\nline2\",12.5,true,2025-01-02T03:04:05Z\n" +
					"2, plain ,,false,"))
		})

		It("takes the header from the first row only", func() {
			rows := []models.Row{
				models.NewRow([]string{"a"}, []any{"1"}),
				models.NewRow([]string{"b"}, []any{"2"}),
			}
			Expect(export.CSV(rows)).To(Equal("a\n1\n2"))
		})
	})

	Context("JSON", func() {
		It("passes rows through unchanged", func() {
			rows := []models.Row{
				models.NewRow([]string{"dev_eui", "battery_level", "customer_name"}, []any{"A1", float64(12), nil}),
			}

			data, err := json.Marshal(export.NewCollection(rows))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"success":true,"data":[{"dev_eui":"A1","battery_level":12,"customer_name":null}],"total":1}`))

			var decoded struct {
				Data []map[string]any `json:"data"`
			}
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded.Data).To(Equal([]map[string]any{rows[0].Map()}))
		})

		It("serializes an empty collection as an empty list", func() {
			data, err := json.Marshal(export.NewCollection(nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"success":true,"data":[],"total":0}`))
		})

		It("exposes pagination next to data", func() {
			page := export.NewPage(&models.QueryResult{
				Pagination: models.PageInfo{CurrentPage: 3, PerPage: 50, TotalRecords: 105, TotalPages: 3},
			})
			data, err := json.Marshal(page)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"data":[],"pagination":{"current_page":3,"per_page":50,"total_records":105,"total_pages":3}}`))
		})
	})

	Context("XLSX", func() {
		It("writes a header and one line per row", func() {
			rows := []models.Row{
				models.NewRow([]string{"dev_eui", "battery_level"}, []any{"A1", int64(80)}),
				models.NewRow([]string{"dev_eui", "battery_level"}, []any{"B2", nil}),
			}

			data, err := export.XLSX(rows)
			Expect(err).NotTo(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(data))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			lines, err := f.GetRows("Sheet1")
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([][]string{
				{"dev_eui", "battery_level"},
				{"A1", "80"},
				{"B2"},
			}))
		})
	})

	Context("ParseFormat", func() {
		It("accepts known formats in any case", func() {
			f, err := export.ParseFormat("CSV")
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(export.FormatCSV))
			Expect(f.ContentType()).To(Equal("text/csv"))
			Expect(f.Attachment("device_events_management_export")).
				To(Equal("attachment; filename=device_events_management_export.csv"))
		})

		It("rejects unknown formats as validation errors", func() {
			_, err := export.ParseFormat("pdf")
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})
})
