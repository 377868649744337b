package service

import (
	"context"
	"testing"
	"time"

	"peopleops/internal/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayLookupNormalizesTime(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	calendar, err := f.holidays.CreateCalendar(ctx, CreateCalendarRequest{Name: "IN 2026", Region: "IN"})
	require.NoError(t, err)

	_, err = f.holidays.AddHoliday(ctx, calendar.ID.String(), AddHolidayRequest{
		Date: date(2026, time.March, 3),
		Name: "Holi",
	})
	require.NoError(t, err)

	// Any timestamp on the day matches.
	noon := time.Date(2026, time.March, 3, 12, 30, 0, 0, time.UTC)
	holiday, err := f.holidays.IsHoliday(ctx, calendar.ID, noon)
	require.NoError(t, err)
	assert.True(t, holiday)

	holiday, err = f.holidays.IsHoliday(ctx, calendar.ID, date(2026, time.March, 4))
	require.NoError(t, err)
	assert.False(t, holiday)

	// A different calendar never sees the day.
	holiday, err = f.holidays.IsHoliday(ctx, uuid.New(), date(2026, time.March, 3))
	require.NoError(t, err)
	assert.False(t, holiday)
}

func TestAddHolidayGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	calendar, err := f.holidays.CreateCalendar(ctx, CreateCalendarRequest{Name: "IN 2026"})
	require.NoError(t, err)

	req := AddHolidayRequest{Date: date(2026, time.March, 3), Name: "Holi"}
	_, err = f.holidays.AddHoliday(ctx, calendar.ID.String(), req)
	require.NoError(t, err)

	_, err = f.holidays.AddHoliday(ctx, calendar.ID.String(), req)
	assert.True(t, apperr.IsConflict(err), "duplicate day on one calendar")

	_, err = f.holidays.AddHoliday(ctx, uuid.NewString(), req)
	assert.True(t, apperr.IsNotFound(err))
}

func TestListHolidaysRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	calendar, err := f.holidays.CreateCalendar(ctx, CreateCalendarRequest{Name: "IN 2026"})
	require.NoError(t, err)

	for _, d := range []time.Time{
		date(2026, time.January, 26),
		date(2026, time.March, 3),
		date(2026, time.December, 25),
	} {
		_, err := f.holidays.AddHoliday(ctx, calendar.ID.String(), AddHolidayRequest{Date: d, Name: "Holiday"})
		require.NoError(t, err)
	}

	days, err := f.holidays.ListHolidays(ctx, calendar.ID, date(2026, time.February, 1), date(2026, time.June, 30))
	require.NoError(t, err)
	assert.Len(t, days, 1)

	_, err = f.holidays.ListHolidays(ctx, calendar.ID, date(2026, time.June, 30), date(2026, time.February, 1))
	assert.True(t, apperr.IsInvalid(err))
}

func TestRemoveHoliday(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	calendar, err := f.holidays.CreateCalendar(ctx, CreateCalendarRequest{Name: "IN 2026"})
	require.NoError(t, err)
	day, err := f.holidays.AddHoliday(ctx, calendar.ID.String(), AddHolidayRequest{
		Date: date(2026, time.March, 3),
		Name: "Holi",
	})
	require.NoError(t, err)

	require.NoError(t, f.holidays.RemoveHoliday(ctx, calendar.ID.String(), day.ID.String()))

	holiday, err := f.holidays.IsHoliday(ctx, calendar.ID, date(2026, time.March, 3))
	require.NoError(t, err)
	assert.False(t, holiday)

	err = f.holidays.RemoveHoliday(ctx, uuid.NewString(), day.ID.String())
	assert.True(t, apperr.IsNotFound(err))
}
