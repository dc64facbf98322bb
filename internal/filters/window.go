package filters

import "time"

// Window resolves the date filter to an inclusive time range relative to now.
// Explicit dateFrom/dateTo take precedence over the named bucket. Either bound
// may be nil.
func (p Params) Window(now time.Time) (from, to *time.Time) {
	if p.DateFrom != nil || p.DateTo != nil {
		if p.DateFrom != nil {
			f := *p.DateFrom
			from = &f
		}
		if p.DateTo != nil {
			t := endOfDay(*p.DateTo)
			to = &t
		}
		return from, to
	}

	day := startOfDay(now)

	var f, t time.Time
	switch p.Date {
	case DateToday:
		f, t = now, endOfDay(day)
	case DateTomorrow:
		f = day.AddDate(0, 0, 1)
		t = endOfDay(f)
	case DateWeekend:
		f, t = weekend(now)
	case DateWeek:
		f, t = now, endOfDay(day.AddDate(0, 0, 6))
	case DateMonth:
		f, t = now, endOfDay(day.AddDate(0, 0, 29))
	default:
		return nil, nil
	}

	return &f, &t
}

// weekend is the coming Saturday and Sunday; on a weekend day it starts now.
func weekend(now time.Time) (time.Time, time.Time) {
	day := startOfDay(now)

	switch now.Weekday() {
	case time.Saturday:
		return now, endOfDay(day.AddDate(0, 0, 1))
	case time.Sunday:
		return now, endOfDay(day)
	}

	untilSaturday := int(time.Saturday - now.Weekday())
	sat := day.AddDate(0, 0, untilSaturday)
	return sat, endOfDay(sat.AddDate(0, 0, 1))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
