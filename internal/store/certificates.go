package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/models"
	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
	"github.com/xfinder/reporting-api/pkg/query"
)

const TableCertificates = "predictive_certificate_analysis"

// CertificateStore reads the predictive certificate analysis of a company.
type CertificateStore struct {
	db *queryInterceptor
}

func NewCertificateStore(db *queryInterceptor) *CertificateStore {
	return &CertificateStore{db: db}
}

func scopeID(companyID int64) (query.Predicate, error) {
	p, err := query.ForTenantID(datasets.CompanyColumn, companyID)
	if err != nil {
		return query.Predicate{}, srvErrors.NewValidationError("company id must be a positive integer")
	}
	return p, nil
}

// Records returns every certificate of the company.
func (s *CertificateStore) Records(ctx context.Context, companyID int64) ([]models.CertificateRecord, error) {
	where, err := scopeID(companyID)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(
		"expiration_date",
		"certificate_status_name",
		"combined_risk_score",
		"department_name",
		"certificate_type",
		"CAST(financial_risk_value AS DOUBLE) AS financial_risk_value",
		"renewal_probability_score",
		"issue_date",
		"brand",
		"expiration_risk_score",
		"days_until_expiration",
		"validity_status",
	).From(TableCertificates).
		Where(where).
		OrderBy("expiration_date DESC")

	records := []models.CertificateRecord{}
	err = s.db.each(ctx, "certificate_records", builder, func(rows *sql.Rows) error {
		var (
			expiration, status, department, certType sql.NullString
			issue, brand, validity                   sql.NullString
			risk, financial, renewal, expRisk        sql.NullFloat64
			days                                     sql.NullInt64
		)
		if err := rows.Scan(&expiration, &status, &risk, &department, &certType, &financial,
			&renewal, &issue, &brand, &expRisk, &days, &validity); err != nil {
			return err
		}

		records = append(records, models.CertificateRecord{
			ExpirationDate:      parseDate(expiration.String),
			StatusName:          status.String,
			CombinedRiskScore:   risk.Float64,
			DepartmentName:      department.String,
			CertificateType:     certType.String,
			FinancialRiskValue:  financial.Float64,
			RenewalProbability:  renewal.Float64,
			IssueDate:           parseDate(issue.String),
			Brand:               brand.String,
			ExpirationRiskScore: expRisk.Float64,
			DaysUntilExpiration: int(days.Int64),
			ValidityStatus:      validity.String,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// StatusCounts counts the certificates of the company per status.
func (s *CertificateStore) StatusCounts(ctx context.Context, companyID int64) ([]models.Row, error) {
	where, err := scopeID(companyID)
	if err != nil {
		return nil, err
	}

	builder := sq.Select("certificate_status_name AS status", "COUNT(*) AS total").
		From(TableCertificates).
		Where(where).
		GroupBy("certificate_status_name").
		OrderBy("total DESC", "status ASC")
	return s.db.selectRows(ctx, "certificate_status", builder)
}

// TopBrands returns the limit brands with the most certificates.
func (s *CertificateStore) TopBrands(ctx context.Context, companyID int64, limit uint64) ([]models.Row, error) {
	where, err := scopeID(companyID)
	if err != nil {
		return nil, err
	}

	builder := sq.Select("brand", "COUNT(*) AS certificates").
		From(TableCertificates).
		Where(where.And(sq.NotEq{"brand": nil})).
		GroupBy("brand").
		OrderBy("certificates DESC", "brand ASC").
		Limit(limit)
	return s.db.selectRows(ctx, "certificate_top_brands", builder)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate reads the date columns of the certificate view, which hold either
// a date, a datetime or epoch milliseconds depending on the source system.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms <= 0 {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
