package xl

import (
	"math"
	"time"
)

// DateTime is a calendar date and time of day without a location. A zero
// Year denotes a time-only value.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

// DateTimeOf returns the wall clock fields of t.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

// Serial converts d to an Excel serial date: whole days since the epoch
// plus the time of day as a fraction. The 1900 system reproduces Excel's
// phantom 1900-02-29. Values outside Excel's range are still computed.
func (d DateTime) Serial(date1904 bool) float64 {
	year, month, day := d.Year, d.Month, d.Day
	epoch, offset := 1900, 0
	if date1904 {
		epoch, offset = 1904, 4
	}

	if year == 0 {
		if date1904 {
			year, month, day = 1904, 1, 1
		} else {
			year, month, day = 1899, 12, 31
		}
	}

	seconds := (float64(d.Hour*60*60+d.Minute*60) + d.Second) / (24 * 60 * 60.0)

	if !date1904 {
		if year == 1899 && month == 12 && day == 31 {
			return seconds
		}
		if year == 1900 && month == 1 && day == 0 {
			return seconds
		}
		if year == 1900 && month == 2 && day == 29 {
			return 60 + seconds
		}
	}

	mdays := [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	leap := 0
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		leap = 1
		mdays[2] = 29
	}

	span := year - epoch
	days := 0
	for i := 0; i < month && i < len(mdays); i++ {
		days += mdays[i]
	}
	days += day
	days += span * 365
	days += span / 4
	days -= (span + offset) / 100
	days += (span + offset + 300) / 400
	days -= leap

	if !date1904 && days > 59 {
		days++
	}

	return float64(days) + seconds
}

// TimeToSerial converts the wall clock of t to an Excel serial date.
func TimeToSerial(t time.Time, date1904 bool) float64 {
	return DateTimeOf(t).Serial(date1904)
}

// SerialToTime is the inverse of TimeToSerial, rounded to the millisecond.
// The result is in UTC. The 1900 system serial 60 (the nonexistent
// 1900-02-29) maps to 1900-02-28.
func SerialToTime(serial float64, date1904 bool) time.Time {
	const msPerDay = 24 * 60 * 60 * 1000
	ms := int64(math.Round(serial * msPerDay))
	days := ms / msPerDay
	ms -= days * msPerDay
	if ms < 0 {
		days--
		ms += msPerDay
	}

	var base time.Time
	switch {
	case date1904:
		base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	case days >= 61:
		base = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	case days == 60:
		base, days = time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC), 0
	default:
		base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	}

	return base.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond)
}
