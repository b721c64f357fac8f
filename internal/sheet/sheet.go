// Package sheet reads and writes dealer collections as XLSX workbooks.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Dealers"

const (
	colSerial      = "S No"
	colDealerName  = "Dealer Name"
	colAddress     = "Address"
	colEmail       = "Email"
	colPhone       = "Phone"
	colHours       = "Operating Hours"
	colStartTime   = "Start Time"
	colStartPeriod = "Start Period"
	colEndTime     = "End Time"
	colEndPeriod   = "End Period"
)

// ExportHeader is the table columns followed by the raw time fields, so an
// exported workbook can be imported again.
var ExportHeader = []string{
	colSerial, colDealerName, colAddress, colEmail, colPhone, colHours,
	colStartTime, colStartPeriod, colEndTime, colEndPeriod,
}

// ImportColumns must all be present in the header row of an imported sheet.
var ImportColumns = []string{
	colDealerName, colAddress, colEmail, colPhone,
	colStartTime, colStartPeriod, colEndTime, colEndPeriod,
}

// WriteDealers writes dealers in collection order with 1-based serials.
func WriteDealers(w io.Writer, dealers []model.Dealer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", toRow(ExportHeader)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, d := range dealers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			i + 1, d.DealerName, d.Address, d.Email, d.Phone, d.Hours,
			d.StartTime, string(d.StartPeriod), d.EndTime, string(d.EndPeriod),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadDealerForms reads the first sheet of the workbook. Columns are located
// by header name; blank rows are skipped. Each form keeps its 1-based sheet
// row number. Values are returned as written, validation happens at import.
func ReadDealerForms(r io.Reader) ([]model.DealerImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range ImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	forms := make([]model.DealerImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		forms = append(forms, model.DealerImportRow{
			Row: i + 2, // header is row 1
			Form: model.DealerFormValues{
				DealerName:  cell(row, colDealerName),
				Address:     cell(row, colAddress),
				Email:       cell(row, colEmail),
				Phone:       cell(row, colPhone),
				StartTime:   cell(row, colStartTime),
				StartPeriod: model.Period(cell(row, colStartPeriod)),
				EndTime:     cell(row, colEndTime),
				EndPeriod:   model.Period(cell(row, colEndPeriod)),
			},
		})
	}
	return forms, nil
}

func toRow(values []string) *[]interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &row
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
