package models

type PriceType string

const (
	PriceEtudiant PriceType = "ETUDIANT"
	PriceAdulte   PriceType = "ADULTE"
	PriceGroupe   PriceType = "GROUPE"
	PricePass2J   PriceType = "PASS_2J"
)

var PriceTypes = []PriceType{PriceEtudiant, PriceAdulte, PriceGroupe, PricePass2J}

func (t PriceType) Valid() bool {
	for _, known := range PriceTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Price struct {
	Base
	Label        string    `gorm:"size:100;not null" json:"label"`
	Type         PriceType `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount       Money     `gorm:"column:amount_cents;not null" json:"amount"`
	DurationDays int       `gorm:"not null;default:1" json:"duration_days"`
}
