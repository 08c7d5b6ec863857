package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_BackwardSemiAnnual(t *testing.T) {
	t.Parallel()

	s, err := schedule.New(schedule.Params{
		Effective:   date(2025, time.March, 12),
		Termination: date(2030, time.March, 12),
		Tenor:       calendar.SixMonths,
		Calendar:    calendar.TARGET,
		Convention:  calendar.ModifiedFollowing,
	})
	require.NoError(t, err)

	want := []time.Time{
		date(2025, time.March, 12),
		date(2025, time.September, 12),
		date(2026, time.March, 12),
		date(2026, time.September, 14),
		date(2027, time.March, 12),
		date(2027, time.September, 13),
		date(2028, time.March, 13),
		date(2028, time.September, 12),
		date(2029, time.March, 12),
		date(2029, time.September, 12),
		date(2030, time.March, 12),
	}
	assert.Equal(t, want, s.Dates())
	assert.Equal(t, 11, s.Len())
	assert.Equal(t, want[0], s.StartDate())
	assert.Equal(t, want[10], s.EndDate())
	assert.Equal(t, calendar.ModifiedFollowing, s.BusinessDayConvention())
	assert.Equal(t, schedule.Backward, s.Rule())
}

func TestNew_Stubs(t *testing.T) {
	t.Parallel()

	base := schedule.Params{
		Effective:   date(2025, time.March, 12),
		Termination: date(2026, time.May, 12),
		Tenor:       calendar.SixMonths,
		Calendar:    calendar.TARGET,
	}

	tests := []struct {
		name string
		rule schedule.Rule
		want []time.Time
	}{
		{
			name: "forward puts the stub at the back",
			rule: schedule.Forward,
			want: []time.Time{
				date(2025, time.March, 12), date(2025, time.September, 12),
				date(2026, time.March, 12), date(2026, time.May, 12),
			},
		},
		{
			name: "backward puts the stub at the front",
			rule: schedule.Backward,
			want: []time.Time{
				date(2025, time.March, 12), date(2025, time.May, 12),
				date(2025, time.November, 12), date(2026, time.May, 12),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Rule = tt.rule
			s, err := schedule.New(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Dates())
		})
	}
}

func TestNew_ShortStubMerged(t *testing.T) {
	t.Parallel()

	s, err := schedule.New(schedule.Params{
		Effective:   date(2025, time.March, 7),
		Termination: date(2026, time.March, 12),
		Tenor:       calendar.SixMonths,
		Calendar:    calendar.TARGET,
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.March, 7), date(2025, time.September, 12), date(2026, time.March, 12),
	}, s.Dates())
}

func TestNew_EndOfMonth(t *testing.T) {
	t.Parallel()

	p := schedule.Params{
		Effective:   date(2025, time.February, 28),
		Termination: date(2025, time.May, 31),
		Tenor:       calendar.OneMonth,
		Calendar:    calendar.TARGET,
		Rule:        schedule.Forward,
	}

	s, err := schedule.New(p)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.February, 28), date(2025, time.March, 28),
		date(2025, time.April, 28), date(2025, time.May, 30),
	}, s.Dates())
	assert.False(t, s.EndOfMonth())

	p.EndOfMonth = true
	s, err = schedule.New(p)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, time.February, 28), date(2025, time.March, 31),
		date(2025, time.April, 30), date(2025, time.May, 30),
	}, s.Dates())
	assert.True(t, s.EndOfMonth())
}

func TestNew_ZeroTenor(t *testing.T) {
	t.Parallel()

	s, err := schedule.New(schedule.Params{
		Effective:   date(2025, time.March, 12),
		Termination: date(2026, time.March, 12),
		Calendar:    calendar.TARGET,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := schedule.New(schedule.Params{
		Effective:   date(2026, time.March, 12),
		Termination: date(2025, time.March, 12),
		Tenor:       calendar.SixMonths,
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)

	_, err = schedule.New(schedule.Params{Termination: date(2025, time.March, 12)})
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)

	_, err = schedule.New(schedule.Params{
		Effective:   date(2025, time.March, 12),
		Termination: date(2026, time.March, 12),
		Tenor:       calendar.SixMonths,
		Rule:        "SIDEWAYS",
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)
}

func TestFromDates(t *testing.T) {
	t.Parallel()

	dates := []time.Time{date(2025, time.January, 2), date(2025, time.July, 2), date(2026, time.January, 2)}
	s, err := schedule.FromDates(dates, calendar.TARGET, "")
	require.NoError(t, err)
	assert.Equal(t, dates, s.Dates())
	assert.Equal(t, calendar.Unadjusted, s.BusinessDayConvention())

	_, err = schedule.FromDates(dates[:1], calendar.TARGET, calendar.Following)
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)

	_, err = schedule.FromDates([]time.Time{dates[1], dates[0]}, calendar.TARGET, calendar.Following)
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)
}
