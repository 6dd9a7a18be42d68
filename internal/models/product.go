package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryLaptops     Category = "Laptops"
	CategoryPhones      Category = "Phones"
	CategoryTablets     Category = "Tablets"
	CategoryAccessories Category = "Accessories"
	CategoryWearables   Category = "Wearables"
)

var Categories = []Category{CategoryLaptops, CategoryPhones, CategoryTablets, CategoryAccessories, CategoryWearables}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"                     json:"id"`
	Name          string           `gorm:"size:200;not null"                        json:"name"`
	Description   string           `gorm:"type:text;not null"                       json:"description"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"              json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(10,2)"                       json:"original_price,omitempty"`
	Category      Category         `gorm:"size:32;not null;index"                   json:"category"`
	Brand         string           `gorm:"size:100;not null;index"                  json:"brand"`
	Image         string           `gorm:"size:500"                                 json:"image"`
	Images        []string         `gorm:"serializer:json"                          json:"images"`
	Specs         []Spec           `gorm:"serializer:json"                          json:"specs"`
	Rating        float64          `gorm:"type:decimal(2,1);not null;default:0"     json:"rating"`
	ReviewCount   int              `gorm:"not null;default:0"                       json:"review_count"`
	Stock         int              `gorm:"not null;default:0;check:stock >= 0"      json:"stock"`
	SKU           string           `gorm:"size:32;uniqueIndex;not null"             json:"sku"`
	IsActive      bool             `gorm:"not null;index"                           json:"is_active"`
	Discount      int              `gorm:"not null;default:0;check:discount BETWEEN 0 AND 100" json:"discount"`
	Tags          []string         `gorm:"serializer:json"                          json:"tags"`
	Features      []string         `gorm:"serializer:json"                          json:"features"`
	CreatedAt     time.Time        `gorm:"index"                                    json:"created_at"`
	UpdatedAt     time.Time        `                                                json:"updated_at"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
