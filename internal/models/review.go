package models

import "time"

// Review categories. Anything else is rejected before persistence.
const (
	CategoryMovie = "movie"
	CategoryGame  = "game"
)

type Review struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     string     `json:"user_id" gorm:"type:uuid;not null;index"`
	Title      string     `json:"title" gorm:"size:200;not null"`
	ReviewText string     `json:"review_text" gorm:"type:text;not null"`
	Rating     int        `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Category   string     `json:"category" gorm:"size:10;not null;check:category IN ('movie','game')"`
	ReviewDate time.Time  `json:"review_date" gorm:"not null;index"`
	// GORM auto-stamps any field named UpdatedAt on create unless told not
	// to; tracking is off so the column stays NULL until the first edit
	// writes it explicitly.
	UpdatedAt *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`

	// association
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (Review) TableName() string {
	return "reviews"
}
