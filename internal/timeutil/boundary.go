package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
)

const dateOnlyLayout = "2006-01-02"

// lastOfDay is the offset from a day's start to its last representable
// instant at microsecond precision (23:59:59.999999).
const lastOfDay = 24*time.Hour - time.Microsecond

// ParseError reports a malformed time string. It is never silently coerced.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable time %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidTimezoneError reports an unrecognized timezone identifier.
type InvalidTimezoneError struct {
	Name string
	Err  error
}

func (e *InvalidTimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q: %v", e.Name, e.Err)
}

func (e *InvalidTimezoneError) Unwrap() error { return e.Err }

// Boundary centralizes all timezone arithmetic. Every other package consumes
// and produces UTC-only instants; nothing outside this package reasons about
// local time. The clock is injected so tests can pin "now".
type Boundary struct {
	clock clockwork.Clock
}

func NewBoundary(clock clockwork.Clock) *Boundary {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Boundary{clock: clock}
}

// NowUTC returns the current instant in UTC.
func (b *Boundary) NowUTC() time.Time {
	return b.clock.Now().UTC()
}

// ParseToUTC parses an RFC 3339 timestamp carrying its own offset and converts
// it to UTC. Empty input yields nil without error.
func (b *Boundary) ParseToUTC(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, &ParseError{Input: s, Err: err}
	}
	u := t.UTC()
	return &u, nil
}

// FormatUTC formats an instant as RFC 3339 with an explicit Z designator.
// Nil input yields nil output, not an error.
func (b *Boundary) FormatUTC(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

type dayInputKind int

const (
	dayInputNow dayInputKind = iota
	dayInputDate
	dayInputInstant
)

// DayInput selects the calendar day a boundary is computed for. The three
// variants carry the interpretation rule in the type instead of sniffing
// string shapes:
//
//   - Today: the current UTC instant's day.
//   - OnDate: a YYYY-MM-DD string anchored directly in UTC, never converted
//     from another zone.
//   - AtInstant: an offset-aware instant converted to UTC first.
type DayInput struct {
	kind dayInputKind
	date string
	at   time.Time
}

func Today() DayInput { return DayInput{kind: dayInputNow} }

func OnDate(date string) DayInput { return DayInput{kind: dayInputDate, date: date} }

func AtInstant(t time.Time) DayInput { return DayInput{kind: dayInputInstant, at: t} }

func (b *Boundary) dayAnchor(in DayInput) (time.Time, error) {
	switch in.kind {
	case dayInputDate:
		t, err := time.ParseInLocation(dateOnlyLayout, in.date, time.UTC)
		if err != nil {
			return time.Time{}, &ParseError{Input: in.date, Err: err}
		}
		return t, nil
	case dayInputInstant:
		return in.at.UTC(), nil
	default:
		return b.NowUTC(), nil
	}
}

// StartOfDayUTC returns midnight of the selected UTC calendar day.
func (b *Boundary) StartOfDayUTC(in DayInput) (time.Time, error) {
	anchor, err := b.dayAnchor(in)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := anchor.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// EndOfDayUTC returns the last representable instant (microsecond precision)
// of the selected UTC calendar day.
func (b *Boundary) EndOfDayUTC(in DayInput) (time.Time, error) {
	start, err := b.StartOfDayUTC(in)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(lastOfDay), nil
}

// StartOfWeekUTC returns midnight of the current UTC week's Monday.
func (b *Boundary) StartOfWeekUTC() time.Time {
	now := b.NowUTC()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(now.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -sinceMonday)
}

// EndOfWeekUTC returns the last instant of the current UTC week's Sunday.
func (b *Boundary) EndOfWeekUTC() time.Time {
	return b.StartOfWeekUTC().AddDate(0, 0, 6).Add(lastOfDay)
}

// StartOfMonthUTC returns midnight of the first day of the current UTC month.
func (b *Boundary) StartOfMonthUTC() time.Time {
	now := b.NowUTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonthUTC returns the last instant of the current UTC month.
func (b *Boundary) EndOfMonthUTC() time.Time {
	return b.StartOfMonthUTC().AddDate(0, 1, 0).Add(-time.Microsecond)
}

var fixedOffsetRe = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

func loadLocation(tz string) (*time.Location, error) {
	if m := fixedOffsetRe.FindStringSubmatch(tz); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(tz, offset), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &InvalidTimezoneError{Name: tz, Err: err}
	}
	return loc, nil
}

// DayBoundariesForTimezone computes "today" by the given zone's current wall
// clock, takes that zone's day boundaries and converts both to UTC. The zone
// may be an IANA name or a fixed offset like "+05:00".
func (b *Boundary) DayBoundariesForTimezone(tz string) (start, end time.Time, err error) {
	loc, err := loadLocation(tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	local := b.clock.Now().In(loc)
	y, m, d := local.Date()
	localStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	// AddDate instead of a flat 24h so DST transition days keep the real
	// local day length.
	localEnd := localStart.AddDate(0, 0, 1).Add(-time.Microsecond)
	return localStart.UTC(), localEnd.UTC(), nil
}

// IsDeadlinePassed reports whether the deadline lies strictly before the
// current instant. A nil deadline never counts as passed.
func (b *Boundary) IsDeadlinePassed(deadline *time.Time) bool {
	if deadline == nil {
		return false
	}
	return deadline.Before(b.NowUTC())
}
