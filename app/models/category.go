package models

import (
	"time"
)

// Category groups products. Products have no existence outside their
// category; deleting a category cascades to them.
type Category struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Image     string        `gorm:"type:text" json:"category_image"` // Base64 or URL
	Products  []Product     `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"products"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Product is a sellable menu item inside a category.
type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CategoryID  uint          `gorm:"not null;index" json:"categoryId"`
	Name        LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description LocalizedText `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	Image       string        `gorm:"type:text" json:"product_image"`

	Discount           bool    `gorm:"default:false" json:"discount"`
	DiscountPercentage float64 `gorm:"default:0" json:"discountPercentage"` // 0-100, > 0 when Discount is set

	Ingredients []ProductIngredient `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"ingredients"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductIngredient is the recipe line: how many pieces of a supplier's stock
// one sold unit of the product consumes. The supplier is referenced, never
// owned.
type ProductIngredient struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ProductID  uint    `gorm:"not null;index" json:"productId"`
	SupplierID uint    `gorm:"not null;index" json:"supplierId"`
	Quantity   float64 `gorm:"not null" json:"quantity"` // pieces per unit sold
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// TableName specifies the table name for ProductIngredient
func (ProductIngredient) TableName() string {
	return "product_ingredients"
}
