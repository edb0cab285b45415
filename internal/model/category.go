package model

import "time"

// Category groups products. Name is unique.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ProductsCount is filled by queries that select it; it has no column.
	ProductsCount int64 `json:"products_count" gorm:"->;-:migration"`
}
