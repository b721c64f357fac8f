package sheet

import (
	"bytes"
	"testing"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteThenRead(t *testing.T) {
	forms := []model.DealerFormValues{
		{DealerName: "Apex Motors", Address: "12 Market St", Email: "a@apex.in", Phone: "111",
			StartTime: "09:00", StartPeriod: model.PeriodAM, EndTime: "06:00", EndPeriod: model.PeriodPM},
		{DealerName: "Blue Ridge", Address: "48 Lake Rd", Email: "b@ridge.in", Phone: "222",
			StartTime: "10:30", StartPeriod: model.PeriodAM, EndTime: "07:15", EndPeriod: model.PeriodPM},
	}
	dealers := []model.Dealer{model.NewDealer(1, forms[0]), model.NewDealer(2, forms[1])}

	var buf bytes.Buffer
	require.NoError(t, WriteDealers(&buf, dealers))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ExportHeader, rows[0])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "10:30 AM - 07:15 PM", rows[2][5])
	require.NoError(t, f.Close())

	read, err := ReadDealerForms(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []model.DealerImportRow{
		{Row: 2, Form: forms[0]},
		{Row: 3, Form: forms[1]},
	}, read)
}

func TestReadDealerForms_HeaderOrderAndBlankRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Phone", "Dealer Name", "Email", "Address", "End Period", "End Time", "Start Period", "Start Time"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	row := []interface{}{"333", "Citywheel", "c@city.in", "7 Station Ln", "PM", "05:30", "AM", "08:30"}
	require.NoError(t, f.SetSheetRow(sheet, "A3", &row))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	forms, err := ReadDealerForms(&buf)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	// row 2 is blank, so the data keeps its sheet row number 3
	assert.Equal(t, 3, forms[0].Row)
	assert.Equal(t, "Citywheel", forms[0].Form.DealerName)
	assert.Equal(t, "08:30", forms[0].Form.StartTime)
	assert.Equal(t, model.PeriodPM, forms[0].Form.EndPeriod)
}

func TestReadDealerForms_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	header := []interface{}{"Dealer Name", "Address"}
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &header))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadDealerForms(&buf)
	assert.ErrorContains(t, err, "missing column")
}
