package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StoreApp/app/models"
)

func newSaleFixture(t *testing.T) (*SaleService, *SupplierService, *CategoryService, *OrderService, *eventRecorder) {
	t.Helper()

	db := newTestDB(t)
	rec := &eventRecorder{}
	suppliers := NewSupplierService(db, rec)
	categories := NewCategoryService(db, rec)
	sales := NewSaleService(db, suppliers, rec, 1.0)
	orders := NewOrderService(db, suppliers, rec)
	return sales, suppliers, categories, orders, rec
}

func callerCtx() context.Context {
	return ContextWithCaller(context.Background(), Caller{UserID: 1, Username: "admin"})
}

func TestSellHappyPath(t *testing.T) {
	sales, suppliers, categories, _, rec := newSaleFixture(t)

	supplier := seedSupplier(t, suppliers, 10) // pieces cost 2 each
	categoryID, productID := seedProduct(t, categories, supplier.ID, 50, 10, 3)
	rec.reset()

	result, err := sales.Sell(callerCtx(), categoryID, productID, SaleRequest{
		QuantitySold:  2,
		Buyer:         BuyerData{DisplayName: "Sam", Email: "sam@example.com"},
		OrderMethod:   "pickup",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, "100.00", result.SaleDetails.OriginalPrice)
	assert.Equal(t, "90.00", result.SaleDetails.DiscountedPrice)
	assert.Equal(t, "12.00", result.SaleDetails.TotalIngredientCost)
	assert.Equal(t, "78.00", result.SaleDetails.TotalProfit)
	assert.Equal(t, "90.00", result.SaleDetails.FinalPrice)
	assert.True(t, result.SaleDetails.DiscountApplied)

	require.Len(t, result.IngredientDetails, 1)
	detail := result.IngredientDetails[0]
	assert.Equal(t, supplier.ID, detail.SupplierID)
	assert.InDelta(t, 6, detail.PiecesUsed, 1e-9)
	assert.InDelta(t, 3, detail.WeightUsed, 1e-9) // 6 half-kilo pieces
	assert.InDelta(t, 12, detail.TotalCost, 1e-9)
	assert.InDelta(t, 90, detail.SaleShare, 1e-9)
	assert.InDelta(t, 78, detail.Profit, 1e-9)

	reloaded, err := suppliers.Get(supplier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4, reloaded.Stock, 1e-9)

	// One stock event per supplier, then the sell and order events.
	assert.Len(t, rec.byEvent(EventSupplierUpdate), 1)
	assert.Len(t, rec.byEvent(EventUpdate), 1)
	assert.Len(t, rec.byEvent(EventOrderAdded), 1)
}

func TestSellInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	sales, suppliers, categories, orders, rec := newSaleFixture(t)

	supplier := seedSupplier(t, suppliers, 5)
	categoryID, productID := seedProduct(t, categories, supplier.ID, 50, 0, 3)
	rec.reset()

	_, err := sales.Sell(callerCtx(), categoryID, productID, SaleRequest{QuantitySold: 2})

	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Chicken", insufficient.SupplierName)
	assert.InDelta(t, 6, insufficient.Required, 1e-9)
	assert.InDelta(t, 5, insufficient.Available, 1e-9)

	reloaded, err := suppliers.Get(supplier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5, reloaded.Stock, 1e-9)

	list, err := orders.List()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, rec.events)
}

func TestSellValidation(t *testing.T) {
	sales, suppliers, categories, _, _ := newSaleFixture(t)

	supplier := seedSupplier(t, suppliers, 10)
	categoryID, productID := seedProduct(t, categories, supplier.ID, 50, 0, 3)

	_, err := sales.Sell(context.Background(), categoryID, productID, SaleRequest{QuantitySold: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument, "unauthenticated caller")

	_, err = sales.Sell(callerCtx(), categoryID, productID, SaleRequest{QuantitySold: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument, "zero quantity")

	_, err = sales.Sell(callerCtx(), 9999, productID, SaleRequest{QuantitySold: 1})
	assert.ErrorIs(t, err, ErrNotFound, "unknown category")

	_, err = sales.Sell(callerCtx(), categoryID, 9999, SaleRequest{QuantitySold: 1})
	assert.ErrorIs(t, err, ErrNotFound, "unknown product")

	// Resolution precedes the quantity check: a bad quantity against a
	// missing category still reports the missing category.
	_, err = sales.Sell(callerCtx(), 9999, productID, SaleRequest{QuantitySold: 0})
	assert.ErrorIs(t, err, ErrNotFound, "unknown category outranks bad quantity")
}

func TestSellProductWithoutIngredients(t *testing.T) {
	sales, _, categories, _, _ := newSaleFixture(t)

	category, err := categories.CreateCategory(CategoryInput{
		Name: models.LocalizedText{Ar: "مشروبات", En: "Drinks"},
	})
	require.NoError(t, err)
	product, err := categories.AddProduct(category.ID, ProductInput{
		Name:  models.LocalizedText{Ar: "ماء", En: "Water"},
		Price: 2,
	})
	require.NoError(t, err)

	_, err = sales.Sell(callerCtx(), category.ID, product.ID, SaleRequest{QuantitySold: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSellDeliveryFeeAndAdditions(t *testing.T) {
	sales, suppliers, categories, orders, _ := newSaleFixture(t)

	supplier := seedSupplier(t, suppliers, 10)
	categoryID, productID := seedProduct(t, categories, supplier.ID, 50, 10, 3)

	result, err := sales.Sell(callerCtx(), categoryID, productID, SaleRequest{
		QuantitySold:   2,
		OrderMethod:    "delivery",
		SelectedDetail: models.LocalizedText{Ar: "وسط المدينة", En: "Downtown"},
		SelectedOption: "asap",
		PaymentMethod:  "card",
		Additions:      []AdditionInput{{Name: "extra cheese", Price: 3}, {Name: "sauce", Price: 1.5}},
	})
	require.NoError(t, err)

	assert.Equal(t, "4.50", result.SaleDetails.AdditionsTotal)
	assert.Equal(t, "94.50", result.SaleDetails.FinalPrice)

	order, err := orders.Get(result.OrderID)
	require.NoError(t, err)
	assert.InDelta(t, 94.5, order.Subtotal, 1e-9)
	assert.InDelta(t, 1.0, order.DeliveryFee, 1e-9)
	assert.InDelta(t, 95.5, order.Total, 1e-9)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "admin", order.BuyerUsername)
	require.Len(t, order.Items, 1)
	assert.Len(t, order.Items[0].Additions, 2)
	require.Len(t, order.Items[0].Ingredients, 1)
	assert.InDelta(t, 6, order.Items[0].Ingredients[0].PiecesUsed, 1e-9)
}

func TestSellAggregatesRepeatedSupplier(t *testing.T) {
	sales, suppliers, categories, _, _ := newSaleFixture(t)

	supplier := seedSupplier(t, suppliers, 10)

	category, err := categories.CreateCategory(CategoryInput{
		Name: models.LocalizedText{Ar: "وجبات", En: "Meals"},
	})
	require.NoError(t, err)
	product, err := categories.AddProduct(category.ID, ProductInput{
		Name:  models.LocalizedText{Ar: "مشكل", En: "Mixed"},
		Price: 20,
		Ingredients: []IngredientInput{
			{SupplierID: supplier.ID, Quantity: 4},
			{SupplierID: supplier.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 7 pieces per unit; two units need 14 but only 10 are held. The
	// per-row checks would each pass; the summed demand must not.
	_, err = sales.Sell(callerCtx(), category.ID, product.ID, SaleRequest{QuantitySold: 2})
	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.InDelta(t, 14, insufficient.Required, 1e-9)

	reloaded, err := suppliers.Get(supplier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10, reloaded.Stock, 1e-9)

	// One unit fits and deducts the sum of both recipe rows.
	result, err := sales.Sell(callerCtx(), category.ID, product.ID, SaleRequest{QuantitySold: 1})
	require.NoError(t, err)
	require.Len(t, result.IngredientDetails, 2)

	reloaded, err = suppliers.Get(supplier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3, reloaded.Stock, 1e-9)
}
