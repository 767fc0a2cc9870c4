package models

import (
	"github.com/shopspring/decimal"
)

// Category tags a food item
type Category string

const (
	CategoryPizza   Category = "pizza"
	CategoryBurger  Category = "burger"
	CategoryIndian  Category = "indian"
	CategoryChinese Category = "chinese"
	CategoryDessert Category = "dessert"
)

// FoodItem is a catalog entry
type FoodItem struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImagePath   string          `json:"image_path,omitempty" db:"image"`
	Category    Category        `json:"category" db:"category"`
	Rating      float64         `json:"rating" db:"rating"`
	Available   bool            `json:"available" db:"available"`
}
