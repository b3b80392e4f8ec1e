package models

type Category struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `json:"description"`
}

type Attraction struct {
	Base
	Name        string            `gorm:"size:150;not null" json:"name"`
	Description string            `json:"description"`
	CategoryID  uint              `gorm:"not null;index" json:"category_id"`
	Category    *Category         `json:"category,omitempty"`
	Images      []AttractionImage `json:"images,omitempty"`
	Activities  []Activity        `json:"activities,omitempty"`
}

type AttractionImage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	AttractionID uint   `gorm:"not null;index" json:"attraction_id"`
	URL          string `gorm:"not null" json:"url"`
	AltText      string `json:"alt_text"`
}

type Activity struct {
	Base
	Name         string      `gorm:"size:150;not null" json:"name"`
	Description  string      `json:"description"`
	CategoryID   uint        `gorm:"not null;index" json:"category_id"`
	Category     *Category   `json:"category,omitempty"`
	AttractionID *uint       `gorm:"index" json:"attraction_id"`
	Attraction   *Attraction `json:"attraction,omitempty"`
}
