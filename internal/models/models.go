package models

import "time"

// Card is a tracked catalog entry. ID is the md5 hex of the canonical
// card name, so re-discovering the same name maps to the same row.
type Card struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Listing is one observed marketplace offer for a card. ID is the
// marketplace-assigned listing id; re-ingesting the same listing
// replaces the row in place.
type Listing struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	CardID        string    `json:"card_id" gorm:"index;not null"`
	Title         string    `json:"title" gorm:"not null"`
	ConditionText string    `json:"condition_text"`
	Price         float64   `json:"price" gorm:"not null"`
	Currency      string    `json:"currency" gorm:"default:'USD'"`
	ListingDate   time.Time `json:"listing_date" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`
}
