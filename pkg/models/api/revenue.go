package api

import (
	"bytes"
	"database/sql"
	"encoding/json"

	"github.com/de-tools/revenue-atlas/pkg/models/store"
)

type RevenueRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type DailyRevenue struct {
	Date         string  `json:"date"`
	TotalRevenue float64 `json:"total_revenue"`
}

type RevenueResponse struct {
	Type         string         `json:"type"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	TotalRevenue float64        `json:"totalRevenue"`
	DailyRevenue []DailyRevenue `json:"dailyRevenue"`
	OtcRows      []DetailRow    `json:"otcRows"`
	PatientRows  []DetailRow    `json:"patientRows"`
}

// DetailRow is a database row rendered as a JSON object whose keys follow the
// column order of its schema. Absent values are encoded as null.
type DetailRow struct {
	Columns []store.Column
	Values  []sql.NullString
}

func (r DetailRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if i >= len(r.Values) || !r.Values[i].Valid {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(r.Values[i].String)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type OtcDaily struct {
	Date            string  `json:"date"`
	TotalCost       float64 `json:"total_cost"`
	PaidAmount      float64 `json:"paid_amount"`
	Discount        float64 `json:"discount"`
	NonPayment      float64 `json:"non_payment"`
	Others          float64 `json:"others"`
	MedicineRevenue float64 `json:"medicine_revenue"`
	TestRevenue     float64 `json:"test_revenue"`
}

type PatientDaily struct {
	Date              string  `json:"date"`
	ConsultationCost  float64 `json:"consultation_cost"`
	MedicineRevenue   float64 `json:"medicine_revenue"`
	ManualFees        float64 `json:"manual_fees"`
	Adjustment        float64 `json:"adjustment"`
	DoctorRevenue     float64 `json:"doctor_revenue"`
	OtherServices     float64 `json:"other_services"`
	ReconcileMedicine float64 `json:"reconcile_medicine"`
}

type BreakdownResponse struct {
	Type         string         `json:"type"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	OtcDaily     []OtcDaily     `json:"otcDaily"`
	PatientDaily []PatientDaily `json:"patientDaily"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db,omitempty"`
	DBError string `json:"dbError,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
