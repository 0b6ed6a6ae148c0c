package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/models/store"
	"github.com/de-tools/revenue-atlas/pkg/store/archive"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	OtcSheet     = "otc_history"
	PatientSheet = "patient_history"
)

type Workbook struct {
	Filename string
	Data     []byte
}

// DetailsFetcher runs the detail queries for a request.
type DetailsFetcher interface {
	GetDetails(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueDetails, error)
}

// Encoder renders the raw detail rows of a request as a two-sheet workbook.
type Encoder interface {
	Encode(ctx context.Context, req domain.RevenueRequest) (*Workbook, error)
}

type encoder struct {
	details DetailsFetcher
	archive archive.Archive
}

// NewEncoder creates an encoder; archive may be nil.
func NewEncoder(details DetailsFetcher, archive archive.Archive) Encoder {
	return &encoder{
		details: details,
		archive: archive,
	}
}

func (e *encoder) Encode(ctx context.Context, req domain.RevenueRequest) (*Workbook, error) {
	logger := zerolog.Ctx(ctx)

	details, err := e.details.GetDetails(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := BuildWorkbook(*details)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{
		Filename: req.ExportFilename(),
		Data:     data,
	}

	if e.archive != nil {
		key, err := e.archive.Put(ctx, wb.Filename, ContentType, wb.Data)
		if err != nil {
			logger.Warn().Err(err).Str("filename", wb.Filename).Msg("failed to archive workbook")
		} else {
			logger.Info().Str("key", key).Msg("workbook archived")
		}
	}

	return wb, nil
}

// BuildWorkbook always creates both sheets with their header row, so an empty
// request yields header-only sheets.
func BuildWorkbook(details domain.RevenueDetails) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OtcSheet); err != nil {
		return nil, &domain.ExportError{Op: "rename otc sheet", Err: err}
	}
	if _, err := f.NewSheet(PatientSheet); err != nil {
		return nil, &domain.ExportError{Op: "create patient sheet", Err: err}
	}

	otcRows := make([][]sql.NullString, 0, len(details.OtcRows))
	for _, row := range details.OtcRows {
		otcRows = append(otcRows, row.Values())
	}
	if err := writeSheet(f, OtcSheet, store.OtcColumns, otcRows); err != nil {
		return nil, err
	}

	patientRows := make([][]sql.NullString, 0, len(details.PatientRows))
	for _, row := range details.PatientRows {
		patientRows = append(patientRows, row.Values())
	}
	if err := writeSheet(f, PatientSheet, store.PatientColumns, patientRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &domain.ExportError{Op: "write workbook", Err: err}
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, columns []store.Column, rows [][]sql.NullString) error {
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.Key
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return &domain.ExportError{Op: fmt.Sprintf("write %s header", sheet), Err: err}
	}

	for i, row := range rows {
		cells := make([]any, len(columns))
		for j, col := range columns {
			if j < len(row) {
				cells[j] = cellValue(col, row[j])
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return &domain.ExportError{Op: fmt.Sprintf("address %s row %d", sheet, i+2), Err: err}
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return &domain.ExportError{Op: fmt.Sprintf("write %s row %d", sheet, i+2), Err: err}
		}
	}
	return nil
}

// cellValue leaves absent values empty. Money columns become numbers when
// they parse; anything else is kept as text.
func cellValue(col store.Column, value sql.NullString) any {
	if !value.Valid {
		return nil
	}
	if col.Kind == store.ColumnMoney {
		cleaned := strings.TrimSpace(strings.ReplaceAll(value.String, ",", ""))
		if d, err := decimal.NewFromString(cleaned); err == nil {
			return d.InexactFloat64()
		}
	}
	return value.String
}
