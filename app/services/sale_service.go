package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"StoreApp/app/models"
	"StoreApp/app/pricing"
	"StoreApp/app/units"
)

// SaleService coordinates a sale: stock validation and deduction, pricing,
// and the order snapshot, all inside one transaction. Events go out only
// after commit.
type SaleService struct {
	db          *gorm.DB
	suppliers   *SupplierService
	notifier    Notifier
	deliveryFee float64
}

// NewSaleService creates a new sale service. deliveryFee is charged on
// delivery orders only.
func NewSaleService(db *gorm.DB, suppliers *SupplierService, notifier Notifier, deliveryFee float64) *SaleService {
	return &SaleService{db: db, suppliers: suppliers, notifier: notifier, deliveryFee: deliveryFee}
}

// BuyerData is the buyer snapshot the client sends with a sale.
type BuyerData struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	PhotoURL    string `json:"photoURL"`
}

// AdditionInput is an extra charged on top of the item price.
type AdditionInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SaleRequest is the sale payload.
type SaleRequest struct {
	QuantitySold   int                  `json:"quantitySold"`
	Buyer          BuyerData            `json:"userData"`
	OrderMethod    string               `json:"orderMethod"` // delivery or pickup
	SelectedDetail models.LocalizedText `json:"selectedDetail"`
	SelectedDate   string               `json:"selectedDate"`
	SelectedHour   string               `json:"selectedHour"`
	SelectedOption string               `json:"selectedOption"` // asap or later
	PaymentMethod  string               `json:"paymentMethod"`
	Additions      []AdditionInput      `json:"additions"`
}

// SaleDetails is the price breakdown in the sale response, formatted with two
// decimals the way the dashboard expects.
type SaleDetails struct {
	ProductName         string `json:"productName"`
	QuantitySold        int    `json:"quantitySold"`
	OriginalPrice       string `json:"originalPrice"`
	DiscountedPrice     string `json:"discountedPrice"`
	TotalIngredientCost string `json:"totalIngredientCost"`
	TotalProfit         string `json:"totalProfit"`
	DiscountApplied     bool   `json:"discountApplied"`
	AdditionsTotal      string `json:"additionsTotal"`
	FinalPrice          string `json:"finalPrice"`
}

// IngredientDetail is one consumed-supplier row in the sale response.
type IngredientDetail struct {
	SupplierID   uint    `json:"supplierId"`
	SupplierName string  `json:"supplierName"`
	Quantity     float64 `json:"quantity"`
	PiecesUsed   float64 `json:"piecesUsed"`
	WeightUsed   float64 `json:"weightUsed"`
	WeightUnit   string  `json:"weightUnit"`
	TotalCost    float64 `json:"totalCost"`
	SaleShare    float64 `json:"saleShare"`
	Profit       float64 `json:"profit"`
}

// SaleResult is the full sale response.
type SaleResult struct {
	Message           string             `json:"message"`
	SaleDetails       SaleDetails        `json:"saleDetails"`
	IngredientDetails []IngredientDetail `json:"ingredientDetails"`
	OrderID           uint               `json:"orderId"`
}

// Sell processes one sale of a product. Everything up to the commit runs in a
// single transaction; a failure at any step leaves stock untouched.
func (s *SaleService) Sell(ctx context.Context, categoryID, productID uint, req SaleRequest) (*SaleResult, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, InvalidArgumentf("sale requires an authenticated caller")
	}

	var (
		result *SaleResult
		order  *models.Order
		events []pendingEvent
	)

	err := withRetry(s.db, func(tx *gorm.DB) error {
		result, order = nil, nil
		events = events[:0]

		var category models.Category
		if err := tx.WithContext(ctx).First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("category %d", categoryID)
			}
			return fmt.Errorf("loading category %d: %w", categoryID, err)
		}

		var product models.Product
		err := tx.Preload("Ingredients").
			Where("id = ? AND category_id = ?", productID, categoryID).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("product %d in category %d", productID, categoryID)
			}
			return fmt.Errorf("loading product %d: %w", productID, err)
		}

		if req.QuantitySold <= 0 {
			return InvalidArgumentf("quantity sold must be positive, got %d", req.QuantitySold)
		}

		if len(product.Ingredients) == 0 {
			return InvalidStatef("product %s has no ingredients", product.Name.En)
		}

		// A recipe may reference the same supplier more than once; the
		// stock check must cover the summed demand. Lock in ascending
		// id order so concurrent sales cannot deadlock.
		needed := make(map[uint]float64)
		for _, ing := range product.Ingredients {
			needed[ing.SupplierID] += ing.Quantity * float64(req.QuantitySold)
		}
		supplierIDs := make([]uint, 0, len(needed))
		for id := range needed {
			supplierIDs = append(supplierIDs, id)
		}
		sort.Slice(supplierIDs, func(i, j int) bool { return supplierIDs[i] < supplierIDs[j] })

		locked := make(map[uint]*models.Supplier, len(supplierIDs))
		for _, id := range supplierIDs {
			supplier, err := s.suppliers.CheckStock(tx, id, needed[id])
			if err != nil {
				return err
			}
			locked[id] = supplier
		}

		// Snapshot consumption per recipe row before deducting, using
		// the pre-sale supplier fields.
		snapshots := make([]models.OrderItemIngredient, len(product.Ingredients))
		costs := make([]float64, len(product.Ingredients))
		for i, ing := range product.Ingredients {
			supplier := locked[ing.SupplierID]
			pieces := ing.Quantity * float64(req.QuantitySold)
			cost := units.PiecesToCost(pieces, supplier.PricePerPiece)
			snapshots[i] = models.OrderItemIngredient{
				SupplierID:   supplier.ID,
				SupplierName: supplier.NameEn,
				Quantity:     ing.Quantity,
				PiecesUsed:   pieces,
				WeightUsed:   units.Round3(units.PiecesToWeight(pieces, supplier.WeightPerPiece)),
				WeightUnit:   supplier.WeightUnit,
				TotalCost:    units.Round2(cost),
			}
			costs[i] = cost
		}

		for _, id := range supplierIDs {
			if err := s.suppliers.Deduct(tx, locked[id], needed[id]); err != nil {
				return err
			}
			events = append(events, pendingEvent{EventSupplierUpdate, map[string]interface{}{
				"action":   "update-stock",
				"supplier": locked[id],
			}})
		}

		additions := make([]pricing.Addition, len(req.Additions))
		for i, a := range req.Additions {
			additions[i] = pricing.Addition{Name: a.Name, Price: a.Price}
		}
		quote := pricing.Compute(product.Price, req.QuantitySold, product.Discount, product.DiscountPercentage, additions)
		shares, totalProfit := pricing.Apportion(quote.DiscountedPrice, costs)

		totalCost := 0.0
		details := make([]IngredientDetail, len(snapshots))
		for i, snap := range snapshots {
			totalCost += costs[i]
			details[i] = IngredientDetail{
				SupplierID:   snap.SupplierID,
				SupplierName: snap.SupplierName,
				Quantity:     snap.Quantity,
				PiecesUsed:   snap.PiecesUsed,
				WeightUsed:   snap.WeightUsed,
				WeightUnit:   snap.WeightUnit,
				TotalCost:    snap.TotalCost,
				SaleShare:    units.Round2(shares[i].SaleShare),
				Profit:       units.Round2(shares[i].Profit),
			}
		}

		deliveryFee := 0.0
		if req.OrderMethod == "delivery" {
			deliveryFee = s.deliveryFee
		}

		item := models.OrderItem{
			ProductID:          product.ID,
			Name:               product.Name,
			Description:        product.Description,
			Price:              product.Price,
			Image:              product.Image,
			Discount:           product.Discount,
			DiscountPercentage: product.DiscountPercentage,
			Quantity:           req.QuantitySold,
			FinalPrice:         quote.FinalPrice,
			Ingredients:        snapshots,
		}
		for _, a := range req.Additions {
			item.Additions = append(item.Additions, models.OrderItemAddition{Name: a.Name, Price: a.Price})
		}

		order = &models.Order{
			Number:           newOrderNumber(),
			BuyerName:        req.Buyer.DisplayName,
			BuyerUsername:    caller.Username,
			BuyerEmail:       req.Buyer.Email,
			BuyerPhone:       req.Buyer.PhoneNumber,
			BuyerImage:       req.Buyer.PhotoURL,
			Items:            []models.OrderItem{item},
			OrderMethod:      req.OrderMethod,
			DeliveryLocation: req.SelectedDetail,
			DeliveryDate:     req.SelectedDate,
			DeliveryHour:     req.SelectedHour,
			DeliveryOption:   req.SelectedOption,
			PaymentMethod:    req.PaymentMethod,
			Subtotal:         quote.FinalPrice,
			DeliveryFee:      deliveryFee,
			Total:            quote.FinalPrice + deliveryFee,
			Status:           models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		result = &SaleResult{
			Message: "Sale processed successfully",
			SaleDetails: SaleDetails{
				ProductName:         product.Name.En,
				QuantitySold:        req.QuantitySold,
				OriginalPrice:       units.Money2(quote.OriginalPrice),
				DiscountedPrice:     units.Money2(quote.DiscountedPrice),
				TotalIngredientCost: units.Money2(totalCost),
				TotalProfit:         units.Money2(totalProfit),
				DiscountApplied:     quote.DiscountApplied,
				AdditionsTotal:      units.Money2(quote.AdditionsTotal),
				FinalPrice:          units.Money2(quote.FinalPrice),
			},
			IngredientDetails: details,
			OrderID:           order.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		s.notifier.Emit(e.event, e.payload)
	}
	s.notifier.Emit(EventUpdate, map[string]interface{}{
		"action":     "sell",
		"categoryId": categoryID,
		"productId":  productID,
	})
	s.notifier.Emit(EventOrderAdded, map[string]interface{}{
		"order": order,
	})

	log.Printf("Sale processed: order %s, product %d x%d", order.Number, productID, req.QuantitySold)
	return result, nil
}

type pendingEvent struct {
	event   string
	payload interface{}
}

// newOrderNumber builds a unique human-scannable order number.
func newOrderNumber() string {
	short := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), short)
}
