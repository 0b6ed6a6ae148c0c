package domain

import (
	"time"

	"github.com/de-tools/revenue-atlas/pkg/models/store"
)

// DateLayout is the calendar date format used for request boundaries and daily buckets.
const DateLayout = "2006-01-02"

// RevenueType selects which revenue sources a request covers.
type RevenueType string

const (
	RevenueTypeOTC      RevenueType = "otc"
	RevenueTypePatient  RevenueType = "patient"
	RevenueTypeCombined RevenueType = "combined"
)

// Source tags the origin of detail rows during accumulation.
type Source string

const (
	SourceOTC     Source = "otc"
	SourcePatient Source = "patient"
)

var SupportedRevenueTypes = []RevenueType{
	RevenueTypeOTC,
	RevenueTypePatient,
	RevenueTypeCombined,
}

func (t RevenueType) Valid() bool {
	for _, supported := range SupportedRevenueTypes {
		if t == supported {
			return true
		}
	}
	return false
}

// Includes reports whether the revenue type pulls rows from the given source.
func (t RevenueType) Includes(source Source) bool {
	switch source {
	case SourceOTC:
		return t == RevenueTypeOTC || t == RevenueTypeCombined
	case SourcePatient:
		return t == RevenueTypePatient || t == RevenueTypeCombined
	}
	return false
}

// DateRange is an inclusive range of YYYY-MM-DD boundaries. Boundaries are kept
// as strings because the queries compare them against CreatedDate textually.
type DateRange struct {
	From string
	To   string
}

// RevenueRequest is a validated request; construct it with NewRevenueRequest.
type RevenueRequest struct {
	Range DateRange
	Type  RevenueType
}

// NewRevenueRequest validates raw request fields. Missing fields are reported
// before malformed ones so that an empty body always yields "missing".
func NewRevenueRequest(from, to, revenueType string) (RevenueRequest, error) {
	switch {
	case from == "":
		return RevenueRequest{}, &ValidationError{Field: "from", Reason: ReasonMissing}
	case to == "":
		return RevenueRequest{}, &ValidationError{Field: "to", Reason: ReasonMissing}
	case revenueType == "":
		return RevenueRequest{}, &ValidationError{Field: "type", Reason: ReasonMissing}
	}

	t := RevenueType(revenueType)
	if !t.Valid() {
		return RevenueRequest{}, &ValidationError{Field: "type", Reason: "unsupported revenue type " + revenueType}
	}

	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return RevenueRequest{}, &ValidationError{Field: "from", Reason: "from must be a YYYY-MM-DD date"}
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return RevenueRequest{}, &ValidationError{Field: "to", Reason: "to must be a YYYY-MM-DD date"}
	}
	if end.Before(start) {
		return RevenueRequest{}, &ValidationError{Field: "to", Reason: "from must not be after to"}
	}

	return RevenueRequest{
		Range: DateRange{From: from, To: to},
		Type:  t,
	}, nil
}

// ExportFilename is the suggested attachment name for the spreadsheet export.
func (r RevenueRequest) ExportFilename() string {
	return "revenue_" + string(r.Type) + "_" + r.Range.From + "_" + r.Range.To + ".xlsx"
}

type DailyTotal struct {
	Date         string
	TotalRevenue float64
}

// RevenueDetails holds the raw detail rows of whichever queries ran.
type RevenueDetails struct {
	OtcRows     []store.OtcDetailRow
	PatientRows []store.PatientDetailRow
}

type RevenueReport struct {
	Type         RevenueType
	Range        DateRange
	TotalRevenue float64
	DailyRevenue []DailyTotal
	Details      RevenueDetails
}

// DailyBreakdown holds the per-day aggregate rows of whichever queries ran.
type DailyBreakdown struct {
	Type         RevenueType
	Range        DateRange
	OtcDaily     []store.OtcDailyRow
	PatientDaily []store.PatientDailyRow
}
