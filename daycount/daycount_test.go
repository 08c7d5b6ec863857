package daycount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/daycount"
)

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		conv daycount.Convention
		want float64
	}{
		{daycount.Act360, 182.0 / 360.0},
		{daycount.Act365F, 182.0 / 365.0},
		{daycount.ActActISDA, 182.0 / 366.0},
		{daycount.Thirty360, 180.0 / 360.0},
		{daycount.Thirty360E, 180.0 / 360.0},
	}
	for _, tc := range cases {
		t.Run(tc.conv.String(), func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.conv.YearFraction(start, end), 1e-14)
		})
	}
}

func TestThirty360Variants(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	// US basis keeps the 31st when the start day is below 30.
	assert.Equal(t, 33, daycount.Thirty360.DayCount(start, end))
	assert.Equal(t, 32, daycount.Thirty360E.DayCount(start, end))
}

func TestActActAcrossYears(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	want := 184.0/365.0 + 182.0/366.0
	assert.InDelta(t, want, daycount.ActActISDA.YearFraction(start, end), 1e-14)
	assert.InDelta(t, -want, daycount.ActActISDA.YearFraction(end, start), 1e-14)
}

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := daycount.Parse("act/365")
	require.NoError(t, err)
	assert.Equal(t, daycount.Act365F, c)

	c, err = daycount.Parse("30E/360")
	require.NoError(t, err)
	assert.Equal(t, daycount.Thirty360E, c)

	_, err = daycount.Parse("BUS/252")
	assert.Error(t, err)
}
