package models

import "time"

// CertificateRecord is one row of predictive_certificate_analysis.
type CertificateRecord struct {
	ExpirationDate      *time.Time
	StatusName          string
	CombinedRiskScore   float64
	DepartmentName      string
	CertificateType     string
	FinancialRiskValue  float64
	RenewalProbability  float64
	IssueDate           *time.Time
	Brand               string
	ExpirationRiskScore float64
	DaysUntilExpiration int
	ValidityStatus      string
}

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type GroupCount struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Expired int    `json:"expired"`
}

type MonthlyIssued struct {
	Month  string `json:"month"`
	Issued int    `json:"issued"`
}

type ExpirationBucket struct {
	Expired        int `json:"expired"`
	Expiring0To30  int `json:"expiring_0_30"`
	Expiring31To90 int `json:"expiring_31_90"`
	Valid          int `json:"valid"`
}

type DaysToExpirationRanges struct {
	UnderMinus200      int `json:"under_minus_200"`
	Minus200ToMinus100 int `json:"minus_200_to_minus_100"`
	Minus100ToMinus50  int `json:"minus_100_to_minus_50"`
	Minus50To0         int `json:"minus_50_to_0"`
	ZeroTo50           int `json:"zero_to_50"`
	Range50To100       int `json:"range_50_to_100"`
	Over100            int `json:"over_100"`
}

type RenewalTrend struct {
	Urgent  []int `json:"urgent"`
	Planned []int `json:"planned"`
	Future  []int `json:"future"`
}

type CalendarEventProps struct {
	Status           string  `json:"status"`
	Department       string  `json:"department"`
	Brand            string  `json:"brand"`
	DaysToExpiration int     `json:"daysToExpiration"`
	RiskScore        float64 `json:"riskScore"`
	IssueDate        *string `json:"issueDate"`
}

type CalendarEvent struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Start         string             `json:"start"`
	Color         string             `json:"color"`
	ExtendedProps CalendarEventProps `json:"extendedProps"`
}

type CertificateTotals struct {
	TotalCertificates   int     `json:"totalCertificates"`
	ValidCertificates   int     `json:"validCertificates"`
	ExpiredCertificates int     `json:"expiredCertificates"`
	ExpiringSoon        int     `json:"expiringSoon"`
	Expiring90Days      int     `json:"expiring90Days"`
	AverageRenewalScore float64 `json:"averageRenewalScore"`
	HighRisk            int     `json:"highRisk"`
	MediumRisk          int     `json:"mediumRisk"`
	LowRisk             int     `json:"lowRisk"`
	TotalFinancialRisk  float64 `json:"totalFinancialRisk"`
}

// CertificateAnalytics is the dashboard payload computed from the
// certificate records of one company.
type CertificateAnalytics struct {
	Analytics              CertificateTotals        `json:"analytics"`
	StatusData             []NamedCount             `json:"statusData"`
	RiskData               []NamedCount             `json:"riskData"`
	BrandsData             []NamedCount             `json:"brandsData"`
	TrendsData             []MonthlyIssued          `json:"trendsData"`
	ExpirationByMonth      map[int]ExpirationBucket `json:"expirationByMonth"`
	Departments            []GroupCount             `json:"departments"`
	CertificateTypes       []GroupCount             `json:"certificateTypes"`
	DaysToExpirationRanges DaysToExpirationRanges   `json:"daysToExpirationRanges"`
	RenewalTrend           RenewalTrend             `json:"renewalTrend"`
	CalendarEvents         []CalendarEvent          `json:"calendarEvents"`
}
