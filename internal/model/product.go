package model

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is a catalog item belonging to exactly one category.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Description  string          `json:"description" gorm:"size:200;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0" swaggertype:"string" example:"1199.99"`
	ValidityDate *datatypes.Date `json:"validity_date" swaggertype:"string" example:"2030-12-31T00:00:00Z"`
	Image        string          `json:"image" gorm:"size:255"`
	ImageURL     string          `json:"image_url" gorm:"size:2048"`
	CategoryID   uint            `json:"category_id" gorm:"not null;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

// SetImageURL stores raw as the image URL and derives Image from the last
// segment of its path.
func (p *Product) SetImageURL(raw string) {
	p.ImageURL = raw
	p.Image = ImageName(raw)
}

// ImageName returns the file name at the end of an image URL's path.
// Query strings and fragments are ignored.
func ImageName(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
