package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatuses lists every status accepted on the wire.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	for _, v := range ValidOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed out of s.
// Delivered orders cannot be cancelled; a cancelled order stays cancelled.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Scan implements sql.Scanner for OrderStatus
func (s *OrderStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}

// Value implements driver.Valuer for OrderStatus
func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Order is the immutable record of a completed sale. Buyer and product data
// are copied in at sale time so later catalog edits never rewrite history.
type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"uniqueIndex;not null" json:"orderNumber"`

	BuyerName     string `json:"buyerName"`
	BuyerUsername string `gorm:"index" json:"buyerUsername"`
	BuyerEmail    string `json:"buyerEmail"`
	BuyerPhone    string `json:"buyerPhone"`
	BuyerImage    string `gorm:"type:text" json:"buyerImage"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	OrderMethod      string        `gorm:"not null" json:"orderMethod"` // delivery or pickup
	DeliveryLocation LocalizedText `gorm:"embedded;embeddedPrefix:delivery_location_" json:"deliveryLocation"`
	DeliveryDate     string        `json:"deliveryDate"`
	DeliveryHour     string        `json:"deliveryHour"`
	DeliveryOption   string        `json:"deliveryOption"` // asap or later
	PaymentMethod    string        `gorm:"not null" json:"paymentMethod"`

	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	DeliveryFee float64 `gorm:"default:0" json:"deliveryFee"`
	Total       float64 `gorm:"not null" json:"total"`

	Status OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderItem snapshots one sold product line.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"orderId"`

	ProductID          uint          `json:"productId"`
	Name               LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description        LocalizedText `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	Price              float64       `json:"price"`
	Image              string        `gorm:"type:text" json:"image"`
	Discount           bool          `json:"discount"`
	DiscountPercentage float64       `json:"discountPercentage"`

	Quantity   int     `gorm:"not null" json:"quantity"`
	FinalPrice float64 `gorm:"not null" json:"finalPrice"`

	Ingredients []OrderItemIngredient `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Additions   []OrderItemAddition   `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"additions"`
}

// OrderItemIngredient records what a sale consumed from one supplier.
// PiecesUsed drives the compensating restore on cancellation.
type OrderItemIngredient struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	OrderItemID uint `gorm:"not null;index" json:"orderItemId"`

	SupplierID   uint    `json:"supplierId"`
	SupplierName string  `json:"supplierName"`
	Quantity     float64 `json:"quantity"` // pieces per unit sold
	PiecesUsed   float64 `json:"piecesUsed"`
	WeightUsed   float64 `json:"weightUsed"` // in the supplier's weight unit
	WeightUnit   string  `json:"weightUnit"`
	TotalCost    float64 `json:"totalCost"`
}

// OrderItemAddition is an extra charged on top of the item price.
type OrderItemAddition struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderItemID uint    `gorm:"not null;index" json:"orderItemId"`
	Name        string  `gorm:"not null" json:"name"`
	Price       float64 `gorm:"not null" json:"price"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// TableName specifies the table name for OrderItemIngredient
func (OrderItemIngredient) TableName() string {
	return "order_item_ingredients"
}

// TableName specifies the table name for OrderItemAddition
func (OrderItemAddition) TableName() string {
	return "order_item_additions"
}
