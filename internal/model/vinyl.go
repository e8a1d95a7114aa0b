package model

import "time"

// Vinyl represents a record in the catalogue.
type Vinyl struct {
	ID        string    `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Title     string    `json:"title" db:"title"`
	Artist    string    `json:"artist" db:"artist"`
	Price     float64   `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	CoverPath string    `json:"coverPath" db:"cover_path"`
	Gallery   []string  `json:"gallery" db:"gallery"`
	Featured  bool      `json:"featured" db:"featured"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
