package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func boundaryAt(t *testing.T, instant string) *Boundary {
	t.Helper()
	now, err := time.Parse(time.RFC3339Nano, instant)
	assert.NoError(t, err)
	return NewBoundary(clockwork.NewFakeClockAt(now))
}

func TestNowUTC_IsUTC(t *testing.T) {
	b := boundaryAt(t, "2025-01-27T10:00:00+05:00")
	now := b.NowUTC()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, "2025-01-27T05:00:00Z", now.Format(time.RFC3339Nano))
}

func TestParseToUTC(t *testing.T) {
	b := NewBoundary(nil)

	parsed, err := b.ParseToUTC("2025-01-27T10:00:00+05:00")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T05:00:00Z", parsed.Format(time.RFC3339Nano))

	parsed, err = b.ParseToUTC("2025-01-27T10:00:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T10:00:00Z", parsed.Format(time.RFC3339Nano))
}

func TestParseToUTC_EmptyYieldsNil(t *testing.T) {
	b := NewBoundary(nil)
	parsed, err := b.ParseToUTC("")
	assert.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseToUTC_Malformed(t *testing.T) {
	b := NewBoundary(nil)
	for _, input := range []string{"not a time", "2025-01-27", "27/01/2025 10:00"} {
		parsed, err := b.ParseToUTC(input)
		assert.Nil(t, parsed)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestFormatUTC_NilYieldsNil(t *testing.T) {
	b := NewBoundary(nil)
	assert.Nil(t, b.FormatUTC(nil))
}

func TestFormatUTC_RoundTripStable(t *testing.T) {
	b := NewBoundary(nil)

	instants := []time.Time{
		time.Date(2025, 1, 27, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 27, 10, 0, 1, 999999000, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
	}
	for _, i := range instants {
		first := b.FormatUTC(&i)
		parsed, err := b.ParseToUTC(*first)
		assert.NoError(t, err)
		second := b.FormatUTC(parsed)
		assert.Equal(t, *first, *second)
	}
}

func TestDayBoundaries_DateOnlyAnchorsInUTC(t *testing.T) {
	// A date-only string names a UTC calendar day regardless of any other
	// zone, including the process-local one.
	b := boundaryAt(t, "2025-06-15T12:00:00Z")

	start, err := b.StartOfDayUTC(OnDate("2025-01-27"))
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T00:00:00Z", start.Format(time.RFC3339Nano))

	end, err := b.EndOfDayUTC(OnDate("2025-01-27"))
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T23:59:59.999999Z", end.Format(time.RFC3339Nano))
}

func TestDayBoundaries_InvalidDate(t *testing.T) {
	b := NewBoundary(nil)
	_, err := b.StartOfDayUTC(OnDate("27-01-2025"))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDayBoundaries_InstantConvertsToUTCFirst(t *testing.T) {
	b := NewBoundary(nil)

	// 23:30 on the 27th at -02:00 is already the 28th in UTC.
	instant := time.Date(2025, 1, 27, 23, 30, 0, 0, time.FixedZone("-02:00", -2*3600))
	start, err := b.StartOfDayUTC(AtInstant(instant))
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-28T00:00:00Z", start.Format(time.RFC3339Nano))
}

func TestDayBoundaries_Today(t *testing.T) {
	b := boundaryAt(t, "2025-01-27T20:30:00Z")

	start, err := b.StartOfDayUTC(Today())
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T00:00:00Z", start.Format(time.RFC3339Nano))

	end, err := b.EndOfDayUTC(Today())
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T23:59:59.999999Z", end.Format(time.RFC3339Nano))
}

func TestWeekBoundaries_MondayAnchor(t *testing.T) {
	// Wednesday
	b := boundaryAt(t, "2025-01-29T12:00:00Z")
	assert.Equal(t, "2025-01-27T00:00:00Z", b.StartOfWeekUTC().Format(time.RFC3339Nano))
	assert.Equal(t, "2025-02-02T23:59:59.999999Z", b.EndOfWeekUTC().Format(time.RFC3339Nano))

	// Sunday still belongs to the week that started the previous Monday.
	b = boundaryAt(t, "2025-02-02T00:30:00Z")
	assert.Equal(t, "2025-01-27T00:00:00Z", b.StartOfWeekUTC().Format(time.RFC3339Nano))

	// Monday starts its own week.
	b = boundaryAt(t, "2025-01-27T00:00:00Z")
	assert.Equal(t, "2025-01-27T00:00:00Z", b.StartOfWeekUTC().Format(time.RFC3339Nano))
}

func TestMonthBoundaries(t *testing.T) {
	b := boundaryAt(t, "2025-01-15T08:00:00Z")
	assert.Equal(t, "2025-01-01T00:00:00Z", b.StartOfMonthUTC().Format(time.RFC3339Nano))
	assert.Equal(t, "2025-01-31T23:59:59.999999Z", b.EndOfMonthUTC().Format(time.RFC3339Nano))

	// February of a non-leap year.
	b = boundaryAt(t, "2025-02-10T08:00:00Z")
	assert.Equal(t, "2025-02-28T23:59:59.999999Z", b.EndOfMonthUTC().Format(time.RFC3339Nano))
}

func TestDayBoundariesForTimezone_Tashkent(t *testing.T) {
	// 20:30 UTC is already 01:30 next day in Tashkent (+05:00), so the local
	// calendar day is the 28th.
	b := boundaryAt(t, "2025-01-27T20:30:00Z")

	start, end, err := b.DayBoundariesForTimezone("Asia/Tashkent")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T19:00:00Z", start.Format(time.RFC3339Nano))
	assert.Equal(t, "2025-01-28T18:59:59.999999Z", end.Format(time.RFC3339Nano))
}

func TestDayBoundariesForTimezone_FixedOffset(t *testing.T) {
	b := boundaryAt(t, "2025-01-27T20:30:00Z")

	start, end, err := b.DayBoundariesForTimezone("+05:00")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T19:00:00Z", start.Format(time.RFC3339Nano))
	assert.Equal(t, "2025-01-28T18:59:59.999999Z", end.Format(time.RFC3339Nano))

	start, _, err = b.DayBoundariesForTimezone("-03:30")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-27T03:30:00Z", start.Format(time.RFC3339Nano))
}

func TestDayBoundariesForTimezone_Unknown(t *testing.T) {
	b := NewBoundary(nil)
	_, _, err := b.DayBoundariesForTimezone("Nowhere/Special")
	var tzErr *InvalidTimezoneError
	assert.ErrorAs(t, err, &tzErr)
	assert.True(t, errors.As(err, &tzErr))
}

func TestIsDeadlinePassed(t *testing.T) {
	b := boundaryAt(t, "2025-01-27T10:00:00Z")

	assert.False(t, b.IsDeadlinePassed(nil))

	past := time.Date(2025, 1, 27, 9, 59, 59, 0, time.UTC)
	assert.True(t, b.IsDeadlinePassed(&past))

	// Strictly-less-than: an exactly-now deadline has not passed.
	exact := time.Date(2025, 1, 27, 10, 0, 0, 0, time.UTC)
	assert.False(t, b.IsDeadlinePassed(&exact))

	future := time.Date(2025, 1, 27, 10, 0, 1, 0, time.UTC)
	assert.False(t, b.IsDeadlinePassed(&future))
}
