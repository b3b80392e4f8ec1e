package reservation

import (
	"math"
	"time"
)

// CancellationWindowDays is how many days ahead of the visit a client may
// still cancel.
const CancellationWindowDays = 10

const day = 24 * time.Hour

// StartOfDay strips the time of day from t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// VisitStart anchors a stored park day, kept at UTC midnight, to midnight
// in loc.
func VisitStart(parkDay time.Time, loc *time.Location) time.Time {
	y, m, d := parkDay.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from one date to another, each read in
// its own location. Both dates are rebuilt at UTC midnight so daylight saving
// changes never add or remove a day. Past dates give negative values.
func DaysBetween(from, to time.Time) int {
	return int(math.Ceil(float64(utcMidnight(to).Sub(utcMidnight(from))) / float64(day)))
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CancellationInfo is attached to every reservation read. It depends on
// today, so it is never stored.
type CancellationInfo struct {
	CanCancel            bool      `json:"can_cancel"`
	DaysUntilVisit       int       `json:"days_until_visit"`
	CancellationDeadline time.Time `json:"cancellation_deadline"`
}

func cancellationInfo(now, parkDay time.Time, loc *time.Location, admin bool) CancellationInfo {
	visit := VisitStart(parkDay, loc)
	days := DaysBetween(StartOfDay(now, loc), visit)
	return CancellationInfo{
		CanCancel:            admin || days >= CancellationWindowDays,
		DaysUntilVisit:       days,
		CancellationDeadline: visit.AddDate(0, 0, -CancellationWindowDays),
	}
}
