package store

import "database/sql"

type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnMoney
)

// Column describes one detail column. The same definitions drive the SQL
// aliases, the JSON detail rows, the terminal output and the spreadsheet sheets.
type Column struct {
	Key  string
	Kind ColumnKind
}

var OtcColumns = []Column{
	{Key: "PatientId", Kind: ColumnText},
	{Key: "OtcId", Kind: ColumnText},
	{Key: "DATE", Kind: ColumnText},
	{Key: "Village", Kind: ColumnText},
	{Key: "Cost", Kind: ColumnMoney},
	{Key: "MedicineKP", Kind: ColumnMoney},
	{Key: "PaidAmount", Kind: ColumnMoney},
	{Key: "Others", Kind: ColumnMoney},
	{Key: "Discount", Kind: ColumnMoney},
	{Key: "NonPayment", Kind: ColumnMoney},
	{Key: "TestKP", Kind: ColumnMoney},
	{Key: "Name", Kind: ColumnText},
}

var PatientColumns = []Column{
	{Key: "PatientId", Kind: ColumnText},
	{Key: "HistoryId", Kind: ColumnText},
	{Key: "DATE", Kind: ColumnText},
	{Key: "Village", Kind: ColumnText},
	{Key: "COST", Kind: ColumnMoney},
	{Key: "Medicine", Kind: ColumnMoney},
	{Key: "ManualFees", Kind: ColumnMoney},
	{Key: "Adjustment", Kind: ColumnMoney},
	{Key: "Doctor", Kind: ColumnMoney},
	{Key: "Others", Kind: ColumnMoney},
	{Key: "reconcilemedicine", Kind: ColumnMoney},
	{Key: "Name", Kind: ColumnText},
}

// OtcDetailRow is one otc_history transaction. Money columns are kept as the
// raw database text; MedicineKP and TestKP come from left-joined sub-aggregates.
type OtcDetailRow struct {
	PatientID  string         `db:"PatientId"`
	OtcID      string         `db:"OtcId"`
	Date       sql.NullString `db:"DATE"`
	Village    sql.NullString `db:"Village"`
	Cost       sql.NullString `db:"Cost"`
	MedicineKP sql.NullString `db:"MedicineKP"`
	PaidAmount sql.NullString `db:"PaidAmount"`
	Others     sql.NullString `db:"Others"`
	Discount   sql.NullString `db:"Discount"`
	NonPayment sql.NullString `db:"NonPayment"`
	TestKP     sql.NullString `db:"TestKP"`
	Name       string         `db:"Name"`
}

// Values returns the row in OtcColumns order.
func (r OtcDetailRow) Values() []sql.NullString {
	return []sql.NullString{
		present(r.PatientID),
		present(r.OtcID),
		r.Date,
		r.Village,
		r.Cost,
		r.MedicineKP,
		r.PaidAmount,
		r.Others,
		r.Discount,
		r.NonPayment,
		r.TestKP,
		present(r.Name),
	}
}

// PatientDetailRow is one patient_history consultation. Pricing columns come
// from a left join on prescription_pricing and may be absent.
type PatientDetailRow struct {
	PatientID         string         `db:"PatientId"`
	HistoryID         string         `db:"HistoryId"`
	Date              sql.NullString `db:"DATE"`
	Village           sql.NullString `db:"Village"`
	Cost              sql.NullString `db:"COST"`
	Medicine          sql.NullString `db:"Medicine"`
	ManualFees        sql.NullString `db:"ManualFees"`
	Adjustment        sql.NullString `db:"Adjustment"`
	Doctor            sql.NullString `db:"Doctor"`
	Others            sql.NullString `db:"Others"`
	ReconcileMedicine sql.NullString `db:"reconcilemedicine"`
	Name              string         `db:"Name"`
}

// Values returns the row in PatientColumns order.
func (r PatientDetailRow) Values() []sql.NullString {
	return []sql.NullString{
		present(r.PatientID),
		present(r.HistoryID),
		r.Date,
		r.Village,
		r.Cost,
		r.Medicine,
		r.ManualFees,
		r.Adjustment,
		r.Doctor,
		r.Others,
		r.ReconcileMedicine,
		present(r.Name),
	}
}

type OtcDailyRow struct {
	Date            string         `db:"date"`
	TotalCost       sql.NullString `db:"total_cost"`
	PaidAmount      sql.NullString `db:"paid_amount"`
	Discount        sql.NullString `db:"discount"`
	NonPayment      sql.NullString `db:"non_payment"`
	Others          sql.NullString `db:"others"`
	MedicineRevenue sql.NullString `db:"medicine_revenue"`
	TestRevenue     sql.NullString `db:"test_revenue"`
}

type PatientDailyRow struct {
	Date              string         `db:"date"`
	ConsultationCost  sql.NullString `db:"consultation_cost"`
	MedicineRevenue   sql.NullString `db:"medicine_revenue"`
	ManualFees        sql.NullString `db:"manual_fees"`
	Adjustment        sql.NullString `db:"adjustment"`
	DoctorRevenue     sql.NullString `db:"doctor_revenue"`
	OtherServices     sql.NullString `db:"other_services"`
	ReconcileMedicine sql.NullString `db:"reconcile_medicine"`
}

func present(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}
