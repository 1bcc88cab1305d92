package dto

import (
	"time"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// AsOfReportParams are the query parameters of point-in-time reports.
type AsOfReportParams struct {
	EntityID string `form:"entityId"`
	AsOf     string `form:"asOf"`
}

// AsOfDate returns the requested date, defaulting to today in UTC.
func (p AsOfReportParams) AsOfDate(now time.Time) (domain.Date, error) {
	d, err := parseOptionalDate("asOf", p.AsOf)
	if err != nil {
		return domain.Date{}, err
	}
	if d.IsZero() {
		return domain.DateOf(now.UTC()), nil
	}
	return d, nil
}

// PeriodReportParams are the query parameters of period reports.
type PeriodReportParams struct {
	EntityID string `form:"entityId"`
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

// Period parses and validates the requested period.
func (p PeriodReportParams) Period() (domain.ReportPeriod, error) {
	from, err := parseOptionalDate("fromDate", p.FromDate)
	if err != nil {
		return domain.ReportPeriod{}, err
	}
	to, err := parseOptionalDate("toDate", p.ToDate)
	if err != nil {
		return domain.ReportPeriod{}, err
	}
	period := domain.ReportPeriod{From: from, To: to}
	if err := period.Validate(); err != nil {
		return domain.ReportPeriod{}, err
	}
	return period, nil
}
