package models

import "time"

const DayLayout = "2006-01-02"

// ParkDate is one operating day of the park calendar. Day is stored as the
// calendar date at UTC midnight and never changes once created.
type ParkDate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Day       time.Time `gorm:"uniqueIndex;not null" json:"day"`
	IsOpen    bool      `gorm:"not null" json:"is_open"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// DateOf truncates t to its calendar date, expressed at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}
