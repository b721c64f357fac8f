package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "09:00 AM - 06:00 PM", FormatHours("09:00", PeriodAM, "06:00", PeriodPM))
	assert.Equal(t, "12:30 PM - 11:45 PM", FormatHours("12:30", PeriodPM, "11:45", PeriodPM))
}

func TestDealer_ApplyRecomputesHours(t *testing.T) {
	d := Dealer{ID: 7, Hours: "stale"}
	d.Apply(DealerFormValues{
		DealerName: "Apex", StartTime: "10:00", StartPeriod: PeriodAM, EndTime: "05:00", EndPeriod: PeriodPM,
	})

	assert.Equal(t, int64(7), d.ID)
	assert.Equal(t, "Apex", d.DealerName)
	assert.Equal(t, "10:00 AM - 05:00 PM", d.Hours)
}

func TestDealerFormValues_Normalize(t *testing.T) {
	f := DealerFormValues{DealerName: "  Apex ", StartPeriod: " pm", EndPeriod: "Am"}.Normalize()

	assert.Equal(t, "Apex", f.DealerName)
	assert.Equal(t, PeriodPM, f.StartPeriod)
	assert.Equal(t, PeriodAM, f.EndPeriod)
	assert.True(t, f.StartPeriod.Valid())
	assert.False(t, Period("XM").Valid())
}
