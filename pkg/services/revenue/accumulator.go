package revenue

import (
	"database/sql"
	"sort"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

// Accumulator folds detail rows into per-date and grand totals. Sums are kept
// as decimals so the grand total always equals the sum of the daily buckets.
// Adding the same rows twice counts them twice.
type Accumulator struct {
	totals map[string]decimal.Decimal
	total  decimal.Decimal
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		totals: make(map[string]decimal.Decimal),
	}
}

// OtcRevenue is PaidAmount, or Cost when PaidAmount is absent.
func OtcRevenue(row store.OtcDetailRow) float64 {
	if row.PaidAmount.Valid {
		return ParseMoney(row.PaidAmount)
	}
	return ParseMoney(row.Cost)
}

// PatientRevenue is the consultation COST.
func PatientRevenue(row store.PatientDetailRow) float64 {
	return ParseMoney(row.Cost)
}

func (a *Accumulator) AddOtc(rows []store.OtcDetailRow) {
	for _, row := range rows {
		a.Add(row.Date, OtcRevenue(row))
	}
}

func (a *Accumulator) AddPatient(rows []store.PatientDetailRow) {
	for _, row := range rows {
		a.Add(row.Date, PatientRevenue(row))
	}
}

// AddRows dispatches to the revenue field of the given source.
func (a *Accumulator) AddRows(source domain.Source, details domain.RevenueDetails) {
	switch source {
	case domain.SourceOTC:
		a.AddOtc(details.OtcRows)
	case domain.SourcePatient:
		a.AddPatient(details.PatientRows)
	}
}

// Add skips rows without a date and rows whose revenue is exactly zero, so a
// zero row never creates a bucket on its own.
func (a *Accumulator) Add(date sql.NullString, amount float64) {
	if !date.Valid || date.String == "" {
		return
	}
	if amount == 0 {
		return
	}
	value := decimal.NewFromFloat(amount)
	a.totals[date.String] = a.totals[date.String].Add(value)
	a.total = a.total.Add(value)
}

// Merge folds another accumulator's buckets into a.
func (a *Accumulator) Merge(other *Accumulator) {
	for date, value := range other.totals {
		a.totals[date] = a.totals[date].Add(value)
	}
	a.total = a.total.Add(other.total)
}

func (a *Accumulator) Total() float64 {
	return a.total.InexactFloat64()
}

// TotalsByDate returns a copy of the per-date buckets.
func (a *Accumulator) TotalsByDate() map[string]float64 {
	out := make(map[string]float64, len(a.totals))
	for date, value := range a.totals {
		out[date] = value.InexactFloat64()
	}
	return out
}

// Daily returns the buckets ordered by date. Lexicographic order is
// chronological for YYYY-MM-DD keys.
func (a *Accumulator) Daily() []domain.DailyTotal {
	dates := make([]string, 0, len(a.totals))
	for date := range a.totals {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	daily := make([]domain.DailyTotal, 0, len(dates))
	for _, date := range dates {
		daily = append(daily, domain.DailyTotal{
			Date:         date,
			TotalRevenue: a.totals[date].InexactFloat64(),
		})
	}
	return daily
}
