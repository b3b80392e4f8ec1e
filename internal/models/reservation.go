package models

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	st := ReservationStatus(s)
	return st, st.Valid()
}

type Reservation struct {
	Base
	ReservationNumber string            `gorm:"uniqueIndex;size:40;not null" json:"reservation_number"`
	UserID            uint              `gorm:"not null;index" json:"user_id"`
	User              *User             `json:"user,omitempty"`
	DateID            uint              `gorm:"not null;index" json:"date_id"`
	Date              *ParkDate         `json:"date,omitempty"`
	PriceID           uint              `gorm:"not null;index" json:"price_id"`
	Price             *Price            `json:"price,omitempty"`
	TicketsCount      int               `gorm:"not null" json:"tickets_count"`
	TotalAmount       Money             `gorm:"column:total_amount_cents;not null" json:"total_amount"`
	Status            ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
}
