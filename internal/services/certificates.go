package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xfinder/reporting-api/internal/models"
	"github.com/xfinder/reporting-api/internal/store"
)

const (
	statusApproved = "APPROVED"
	statusExpired  = "EXPIRED"

	topCertificateGroups = 5
	renewalTrendWeeks    = 6

	colorApproved     = "#10b981"
	colorExpired      = "#ef4444"
	colorExpiringSoon = "#f97316"
	colorExpiring90   = "#fbbf24"
)

// CertificateService builds the certificate dashboard of a company. The
// analytics are computed in process from the rows of the analysis view.
type CertificateService struct {
	store *store.Store
	now   func() time.Time
}

func NewCertificateService(st *store.Store) *CertificateService {
	return &CertificateService{store: st, now: time.Now}
}

// WithClock replaces the clock used for event ids.
func (s *CertificateService) WithClock(now func() time.Time) *CertificateService {
	s.now = now
	return s
}

func (s *CertificateService) StatusCounts(ctx context.Context, companyID int64) ([]models.Row, error) {
	return s.store.Certificates().StatusCounts(ctx, companyID)
}

func (s *CertificateService) TopBrands(ctx context.Context, companyID int64) ([]models.Row, error) {
	return s.store.Certificates().TopBrands(ctx, companyID, topCertificateGroups)
}

func (s *CertificateService) Analytics(ctx context.Context, companyID int64) (*models.CertificateAnalytics, error) {
	records, err := s.store.Certificates().Records(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return analyzeCertificates(records, s.now()), nil
}

func analyzeCertificates(records []models.CertificateRecord, now time.Time) *models.CertificateAnalytics {
	out := &models.CertificateAnalytics{
		StatusData:        []models.NamedCount{},
		RiskData:          []models.NamedCount{},
		BrandsData:        []models.NamedCount{},
		TrendsData:        []models.MonthlyIssued{},
		ExpirationByMonth: map[int]models.ExpirationBucket{},
		Departments:       []models.GroupCount{},
		CertificateTypes:  []models.GroupCount{},
		RenewalTrend:      models.RenewalTrend{Urgent: []int{}, Planned: []int{}, Future: []int{}},
		CalendarEvents:    []models.CalendarEvent{},
	}
	if len(records) == 0 {
		return out
	}

	t := &out.Analytics
	var renewalSum float64
	brands := newCounter()
	departments := newCounter()
	types := newCounter()
	issued := map[string]int{}

	for _, r := range records {
		t.TotalCertificates++
		expired := r.StatusName == statusExpired
		days := r.DaysUntilExpiration

		switch r.StatusName {
		case statusApproved:
			t.ValidCertificates++
		case statusExpired:
			t.ExpiredCertificates++
		}
		if days > 0 && days <= 30 {
			t.ExpiringSoon++
		}
		if days > 0 && days <= 90 {
			t.Expiring90Days++
		}

		switch {
		case r.CombinedRiskScore >= 60:
			t.HighRisk++
		case r.CombinedRiskScore >= 30:
			t.MediumRisk++
		default:
			t.LowRisk++
		}

		renewalSum += r.RenewalProbability
		t.TotalFinancialRisk += r.FinancialRiskValue

		brands.add(r.Brand, false)
		departments.add(r.DepartmentName, expired)
		types.add(r.CertificateType, expired)

		if r.IssueDate != nil {
			issued[r.IssueDate.UTC().Format("2006-01")]++
		}
		if r.ExpirationDate != nil {
			month := int(r.ExpirationDate.UTC().Month()) - 1
			b := out.ExpirationByMonth[month]
			switch {
			case expired:
				b.Expired++
			case days > 0 && days <= 30:
				b.Expiring0To30++
			case days > 30 && days <= 90:
				b.Expiring31To90++
			case days > 90:
				b.Valid++
			}
			out.ExpirationByMonth[month] = b
		}

		addDayRange(&out.DaysToExpirationRanges, days)
	}

	t.AverageRenewalScore = round2(renewalSum / float64(t.TotalCertificates))
	t.TotalFinancialRisk = round2(t.TotalFinancialRisk)

	out.StatusData = []models.NamedCount{
		{Name: "Expired", Value: t.ExpiredCertificates},
		{Name: "Approved", Value: t.ValidCertificates},
		{Name: "Expiring Soon", Value: t.ExpiringSoon},
	}
	out.RiskData = []models.NamedCount{
		{Name: "Low", Value: t.LowRisk},
		{Name: "Medium", Value: t.MediumRisk},
		{Name: "High", Value: t.HighRisk},
	}

	for _, g := range brands.top(topCertificateGroups) {
		out.BrandsData = append(out.BrandsData, models.NamedCount{Name: g.Name, Value: g.Count})
	}
	out.Departments = departments.top(topCertificateGroups)
	out.CertificateTypes = types.top(topCertificateGroups)

	for month, n := range issued {
		out.TrendsData = append(out.TrendsData, models.MonthlyIssued{Month: month, Issued: n})
	}
	sort.Slice(out.TrendsData, func(i, j int) bool { return out.TrendsData[i].Month < out.TrendsData[j].Month })

	out.RenewalTrend = renewalTrend(records)
	out.CalendarEvents = calendarEvents(records, now)

	return out
}

func addDayRange(r *models.DaysToExpirationRanges, days int) {
	switch {
	case days < -200:
		r.UnderMinus200++
	case days < -100:
		r.Minus200ToMinus100++
	case days < -50:
		r.Minus100ToMinus50++
	case days < 0:
		r.Minus50To0++
	case days < 50:
		r.ZeroTo50++
	case days < 100:
		r.Range50To100++
	default:
		r.Over100++
	}
}

// renewalTrend counts, for each of the next weeks, the expired certificates
// due by the end of that week, and the planned (31 to 90 days) and future
// (over 90 days) renewals.
func renewalTrend(records []models.CertificateRecord) models.RenewalTrend {
	var planned, future int
	for _, r := range records {
		switch d := r.DaysUntilExpiration; {
		case d > 30 && d <= 90:
			planned++
		case d > 90:
			future++
		}
	}

	trend := models.RenewalTrend{
		Urgent:  make([]int, 0, renewalTrendWeeks),
		Planned: make([]int, 0, renewalTrendWeeks),
		Future:  make([]int, 0, renewalTrendWeeks),
	}
	for week := 1; week <= renewalTrendWeeks; week++ {
		urgent := 0
		for _, r := range records {
			if r.StatusName == statusExpired && r.DaysUntilExpiration <= week*7 {
				urgent++
			}
		}
		trend.Urgent = append(trend.Urgent, urgent)
		trend.Planned = append(trend.Planned, planned)
		trend.Future = append(trend.Future, future)
	}
	return trend
}

// calendarEvents places every certificate with an expiration date on the
// calendar, colored by urgency.
func calendarEvents(records []models.CertificateRecord, now time.Time) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(records))
	for i, r := range records {
		if r.ExpirationDate == nil {
			continue
		}

		title := orDefault(r.CertificateType, "Certificate") + " - " + orDefault(r.DepartmentName, "N/A")
		ev := models.CalendarEvent{
			ID:    fmt.Sprintf("cert-%d-%d", i, now.UnixMilli()),
			Title: title,
			Start: r.ExpirationDate.UTC().Format(time.DateOnly),
			Color: calendarColor(r),
			ExtendedProps: models.CalendarEventProps{
				Status:           r.StatusName,
				Department:       r.DepartmentName,
				Brand:            r.Brand,
				DaysToExpiration: r.DaysUntilExpiration,
				RiskScore:        r.CombinedRiskScore,
			},
		}
		if r.IssueDate != nil {
			issue := r.IssueDate.UTC().Format(time.DateOnly)
			ev.ExtendedProps.IssueDate = &issue
		}
		events = append(events, ev)
	}
	return events
}

func calendarColor(r models.CertificateRecord) string {
	d := r.DaysUntilExpiration
	switch {
	case r.StatusName == statusExpired:
		return colorExpired
	case d > 0 && d <= 30:
		return colorExpiringSoon
	case d > 30 && d <= 90:
		return colorExpiring90
	default:
		return colorApproved
	}
}

// counter counts named groups and keeps the order they were first seen in,
// so ties rank by first appearance.
type counter struct {
	order []string
	stats map[string]*models.GroupCount
}

func newCounter() *counter {
	return &counter{stats: map[string]*models.GroupCount{}}
}

// add counts name once. Empty names are not counted.
func (c *counter) add(name string, expired bool) {
	if name == "" {
		return
	}
	g, ok := c.stats[name]
	if !ok {
		g = &models.GroupCount{Name: name}
		c.stats[name] = g
		c.order = append(c.order, name)
	}
	g.Count++
	if expired {
		g.Expired++
	}
}

func (c *counter) top(n int) []models.GroupCount {
	groups := make([]models.GroupCount, 0, len(c.order))
	for _, name := range c.order {
		groups = append(groups, *c.stats[name])
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
