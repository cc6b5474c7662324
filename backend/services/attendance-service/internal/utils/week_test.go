package utils

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	cases := map[string]string{
		"2026-03-02": "2026-03-02", // Monday
		"2026-03-04": "2026-03-02",
		"2026-03-08": "2026-03-02", // Sunday belongs to the week before
		"2026-01-01": "2025-12-29",
	}
	for in, want := range cases {
		d, err := time.ParseInLocation(dateLayout, in, paris)
		require.NoError(t, err)
		got := StartOfWeek(d.Add(15 * time.Hour))
		assert.Equal(t, want, got.Format(dateLayout), in)
		assert.Equal(t, time.Monday, got.Weekday())
		assert.Equal(t, paris, got.Location())
	}
}

func TestWeekOfOffsets(t *testing.T) {
	ref := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	w := WeekOf(ref, 0)
	assert.Equal(t, "2026-03-02", w.Start)
	assert.Equal(t, "2026-03-08", w.End)
	require.Len(t, w.Days, 7)
	assert.Equal(t, "lundi", w.Days[0].Weekday)
	assert.Equal(t, "dimanche", w.Days[6].Weekday)
	assert.True(t, w.Days[5].IsWeekend)
	assert.False(t, w.Days[5].IsWorkday)
	assert.True(t, w.Days[0].IsWorkday)

	next := WeekOf(ref, 1)
	assert.Equal(t, "2026-03-09", next.Start)
	assert.Equal(t, 1, next.Offset)

	prev := WeekOf(ref, -2)
	assert.Equal(t, "2026-02-16", prev.Start)
}

func TestWeekOfFlagsFrenchHolidays(t *testing.T) {
	// Week of 14 July 2026 (a Tuesday).
	w := WeekOf(time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), 0)

	require.Equal(t, "2026-07-14", w.Days[1].Date)
	assert.True(t, w.Days[1].IsHoliday)
	assert.NotEmpty(t, w.Days[1].HolidayName)
	assert.False(t, w.Days[1].IsWorkday)
	assert.False(t, w.Days[0].IsHoliday)

	assert.True(t, IsFrenchHoliday(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsFrenchHoliday(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsFrenchHoliday(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)))
}
