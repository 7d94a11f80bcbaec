package models

import (
	"time"
)

// LocalizedText is an Arabic/English string pair used across the catalog.
type LocalizedText struct {
	Ar string `json:"ar"`
	En string `json:"en"`
}

// Supplier represents an inventory-holding entity tracked by piece count.
// WeightPerPiece, PricePerPiece and TotalPrice are derived from the declared
// weight, piece count and price per kilo before every write.
type Supplier struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	NameAr     string `gorm:"not null;index" json:"nameAr"`
	NameEn     string `gorm:"not null" json:"nameEn"`
	WeightUnit string `gorm:"not null" json:"weightUnit"` // kilo, gram, ton, pound, ounce, carton

	TotalWeight float64 `gorm:"not null" json:"totalWeight"`
	PieceCount  int     `gorm:"not null" json:"pieceCount"`

	// Carton composite fields, only meaningful when WeightUnit is "carton".
	UnitCount     int     `json:"unitCount,omitempty"`
	PiecesPerUnit int     `json:"piecesPerUnit,omitempty"`
	CartonWeight  float64 `json:"cartonWeight,omitempty"` // declared weight of one carton, in kilograms

	Stock        float64 `gorm:"default:0" json:"stock"` // remaining pieces
	PricePerKilo float64 `gorm:"not null" json:"pricePerKilo"`

	// Derived fields.
	WeightPerPiece float64 `json:"weightPerPiece"`
	PricePerPiece  float64 `json:"pricePerPiece"`
	TotalPrice     float64 `json:"totalPrice"`

	TypeOfFood  LocalizedText `gorm:"embedded;embeddedPrefix:type_of_food_" json:"typeOfFood"`
	Description LocalizedText `gorm:"embedded;embeddedPrefix:description_" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}
