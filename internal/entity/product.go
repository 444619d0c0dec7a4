package entity

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	Brand       string
	PriceCents  int64
	Stock       int
	CategoryID  string
	ImageURL    string
	Featured    bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID          string
	Name        string
	Type        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
