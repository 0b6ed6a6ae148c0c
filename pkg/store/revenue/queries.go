package revenue

import (
	"strings"

	"github.com/de-tools/revenue-atlas/pkg/models/store"
)

// ExcludedDivisionID is left out of patient revenue.
const ExcludedDivisionID = 5

var otcDetailExprs = map[string]string{
	"PatientId":  "patient.PatientId",
	"OtcId":      "otc_history.OtcId",
	"DATE":       "SUBSTR(otc_history.CreatedDate, 1, 10)",
	"Village":    "chw.Village",
	"Cost":       "otc_history.Cost",
	"MedicineKP": "a.MedicineKP",
	"PaidAmount": "otc_history.PaidAmount",
	"Others":     "otc_history.Injection",
	"Discount":   "otc_history.Discount",
	"NonPayment": "otc_history.NonPayment",
	"TestKP":     "d.TestKP",
	"Name":       "division.Name",
}

var patientDetailExprs = map[string]string{
	"PatientId":         "patient_history.PatientId",
	"HistoryId":         "patient_history.HistoryId",
	"DATE":              "SUBSTR(patient_history.CreatedDate, 1, 10)",
	"Village":           "chw.Village",
	"COST":              "patient_history.COST",
	"Medicine":          "(pp.MedicineKP + pp.CorporateKP + pp.MarginKP + pp.MedicineFacilitationKP)",
	"ManualFees":        "pp.ManualFees",
	"Adjustment":        "pp.Adjustment",
	"Doctor":            "pp.DoctorKP",
	"Others":            "(pp.TestKP + pp.InjectionKP + pp.DripKP + pp.NebulizeKP + pp.DressingKP + pp.FacilityKP)",
	"reconcilemedicine": "b.reconcilemedicine",
	"Name":              "division.Name",
}

// OtcDetailQuery returns one row per otc_history transaction in
// CreatedDate BETWEEN ? AND ?, aliased to store.OtcColumns.
var OtcDetailQuery = `
		SELECT
			` + selectList(store.OtcColumns, otcDetailExprs) + `
		FROM otc_history
		LEFT JOIN (
			SELECT OtcId, SUM(Cost) AS MedicineKP
			FROM prescription
			GROUP BY OtcId
		) a ON a.OtcId = otc_history.OtcId
		JOIN patient ON patient.PatientId = otc_history.PatientId
		LEFT JOIN (
			SELECT OtcId, SUM(Cost) AS TestKP
			FROM diagnostic
			GROUP BY OtcId
		) d ON d.OtcId = otc_history.OtcId
		JOIN chw ON chw.ID = patient.Centre
		JOIN division ON division.Id = chw.DivisionId
		WHERE otc_history.CreatedDate BETWEEN ? AND ?
		ORDER BY otc_history.CreatedDate ASC
	`

// PatientDetailQuery returns one row per patient_history consultation in
// CreatedDate BETWEEN ? AND ? outside the excluded division, aliased to
// store.PatientColumns. reconcilemedicine prices dispensed rather than
// prescribed quantities when a reconciliation exists.
var PatientDetailQuery = `
		SELECT
			` + selectList(store.PatientColumns, patientDetailExprs) + `
		FROM patient_history
		LEFT JOIN prescription_pricing pp
			ON pp.HistoryId = patient_history.HistoryId
		LEFT JOIN (
			SELECT
				HistoryId,
				ROUND(
					SUM(
						CASE
							WHEN ReconciledQuantity IS NULL THEN Cost
							ELSE CAST(ReconciledQuantity * Cost AS DECIMAL) / Quantity
						END
					)
				) AS reconcilemedicine
			FROM prescription
			GROUP BY HistoryId
		) b ON b.HistoryId = patient_history.HistoryId
		LEFT JOIN patient ON patient.PatientId = patient_history.PatientId
		LEFT JOIN chw ON chw.ID = patient.Centre
		JOIN division ON division.Id = chw.DivisionId
		WHERE patient_history.CreatedDate BETWEEN ? AND ?
			AND division.Id != ?
		ORDER BY patient_history.CreatedDate ASC
	`

// OtcDailyQuery aggregates otc_history per calendar day. The range is bound
// three times: both sub-aggregates are restricted to the same window.
const OtcDailyQuery = `
		SELECT
			DATE(o.CreatedDate) AS date,
			SUM(o.Cost) AS total_cost,
			SUM(o.PaidAmount) AS paid_amount,
			SUM(o.Discount) AS discount,
			SUM(o.NonPayment) AS non_payment,
			SUM(o.Injection) AS others,
			SUM(IFNULL(m.MedicineKP, 0)) AS medicine_revenue,
			SUM(IFNULL(t.TestKP, 0)) AS test_revenue
		FROM otc_history o
		LEFT JOIN (
			SELECT pr.OtcId, SUM(pr.Cost) AS MedicineKP
			FROM prescription pr
			JOIN otc_history o2 ON o2.OtcId = pr.OtcId
			WHERE o2.CreatedDate BETWEEN ? AND ?
			GROUP BY pr.OtcId
		) m ON m.OtcId = o.OtcId
		LEFT JOIN (
			SELECT dg.OtcId, SUM(dg.Cost) AS TestKP
			FROM diagnostic dg
			JOIN otc_history o3 ON o3.OtcId = dg.OtcId
			WHERE o3.CreatedDate BETWEEN ? AND ?
			GROUP BY dg.OtcId
		) t ON t.OtcId = o.OtcId
		JOIN patient p ON p.PatientId = o.PatientId
		JOIN chw c ON c.ID = p.Centre
		JOIN division d ON d.Id = c.DivisionId
		WHERE o.CreatedDate BETWEEN ? AND ?
		GROUP BY DATE(o.CreatedDate)
		ORDER BY date
	`

const PatientDailyQuery = `
		SELECT
			DATE(ph.CreatedDate) AS date,
			SUM(ph.COST) AS consultation_cost,
			SUM(
				IFNULL(pp.MedicineKP, 0) +
				IFNULL(pp.CorporateKP, 0) +
				IFNULL(pp.MarginKP, 0) +
				IFNULL(pp.MedicineFacilitationKP, 0)
			) AS medicine_revenue,
			SUM(IFNULL(pp.ManualFees, 0)) AS manual_fees,
			SUM(IFNULL(pp.Adjustment, 0)) AS adjustment,
			SUM(IFNULL(pp.DoctorKP, 0)) AS doctor_revenue,
			SUM(
				IFNULL(pp.TestKP, 0) +
				IFNULL(pp.InjectionKP, 0) +
				IFNULL(pp.DripKP, 0) +
				IFNULL(pp.NebulizeKP, 0) +
				IFNULL(pp.DressingKP, 0) +
				IFNULL(pp.FacilityKP, 0)
			) AS other_services,
			SUM(IFNULL(r.reconcilemedicine, 0)) AS reconcile_medicine
		FROM patient_history ph
		LEFT JOIN prescription_pricing pp ON pp.HistoryId = ph.HistoryId
		LEFT JOIN (
			SELECT
				HistoryId,
				ROUND(
					SUM(
						CASE
							WHEN ReconciledQuantity IS NULL THEN Cost
							ELSE (ReconciledQuantity * Cost) / Quantity
						END
					)
				) AS reconcilemedicine
			FROM prescription
			GROUP BY HistoryId
		) r ON r.HistoryId = ph.HistoryId
		JOIN patient p ON p.PatientId = ph.PatientId
		JOIN chw c ON c.ID = p.Centre
		JOIN division d ON d.Id = c.DivisionId
		WHERE ph.CreatedDate BETWEEN ? AND ?
			AND d.Id != ?
		GROUP BY DATE(ph.CreatedDate)
		ORDER BY date
	`

func selectList(columns []store.Column, exprs map[string]string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, exprs[col.Key]+" AS "+col.Key)
	}
	return strings.Join(parts, ",\n\t\t\t")
}
