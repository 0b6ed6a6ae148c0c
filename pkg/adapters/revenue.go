package adapters

import (
	"github.com/de-tools/revenue-atlas/pkg/models/api"
	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/models/store"
	"github.com/de-tools/revenue-atlas/pkg/services/revenue"
)

func MapDomainReportToAPI(report *domain.RevenueReport) api.RevenueResponse {
	daily := make([]api.DailyRevenue, 0, len(report.DailyRevenue))
	for _, d := range report.DailyRevenue {
		daily = append(daily, api.DailyRevenue{
			Date:         d.Date,
			TotalRevenue: d.TotalRevenue,
		})
	}

	return api.RevenueResponse{
		Type:         string(report.Type),
		From:         report.Range.From,
		To:           report.Range.To,
		TotalRevenue: report.TotalRevenue,
		DailyRevenue: daily,
		OtcRows:      MapOtcRowsToAPI(report.Details.OtcRows),
		PatientRows:  MapPatientRowsToAPI(report.Details.PatientRows),
	}
}

func MapOtcRowsToAPI(rows []store.OtcDetailRow) []api.DetailRow {
	out := make([]api.DetailRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, api.DetailRow{Columns: store.OtcColumns, Values: row.Values()})
	}
	return out
}

func MapPatientRowsToAPI(rows []store.PatientDetailRow) []api.DetailRow {
	out := make([]api.DetailRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, api.DetailRow{Columns: store.PatientColumns, Values: row.Values()})
	}
	return out
}

func MapDomainBreakdownToAPI(breakdown *domain.DailyBreakdown) api.BreakdownResponse {
	otc := make([]api.OtcDaily, 0, len(breakdown.OtcDaily))
	for _, row := range breakdown.OtcDaily {
		otc = append(otc, api.OtcDaily{
			Date:            row.Date,
			TotalCost:       revenue.ParseMoney(row.TotalCost),
			PaidAmount:      revenue.ParseMoney(row.PaidAmount),
			Discount:        revenue.ParseMoney(row.Discount),
			NonPayment:      revenue.ParseMoney(row.NonPayment),
			Others:          revenue.ParseMoney(row.Others),
			MedicineRevenue: revenue.ParseMoney(row.MedicineRevenue),
			TestRevenue:     revenue.ParseMoney(row.TestRevenue),
		})
	}

	patient := make([]api.PatientDaily, 0, len(breakdown.PatientDaily))
	for _, row := range breakdown.PatientDaily {
		patient = append(patient, api.PatientDaily{
			Date:              row.Date,
			ConsultationCost:  revenue.ParseMoney(row.ConsultationCost),
			MedicineRevenue:   revenue.ParseMoney(row.MedicineRevenue),
			ManualFees:        revenue.ParseMoney(row.ManualFees),
			Adjustment:        revenue.ParseMoney(row.Adjustment),
			DoctorRevenue:     revenue.ParseMoney(row.DoctorRevenue),
			OtherServices:     revenue.ParseMoney(row.OtherServices),
			ReconcileMedicine: revenue.ParseMoney(row.ReconcileMedicine),
		})
	}

	return api.BreakdownResponse{
		Type:         string(breakdown.Type),
		From:         breakdown.Range.From,
		To:           breakdown.Range.To,
		OtcDaily:     otc,
		PatientDaily: patient,
	}
}
