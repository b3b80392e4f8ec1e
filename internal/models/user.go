package models

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

type User struct {
	Base
	Email        string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName  string        `gorm:"uniqueIndex;size:20;not null" json:"display_name"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Role         Role          `gorm:"type:varchar(10);not null;default:'CLIENT'" json:"role"`
	IsActive     bool          `gorm:"not null" json:"is_active"`
	Reservations []Reservation `json:"-"`
}
