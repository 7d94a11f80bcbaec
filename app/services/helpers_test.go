package services

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"StoreApp/app/database"
	"StoreApp/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type recordedEvent struct {
	Event   string
	Payload map[string]interface{}
}

// eventRecorder captures emitted events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Emit(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := payload.(map[string]interface{})
	r.events = append(r.events, recordedEvent{Event: event, Payload: m})
}

func (r *eventRecorder) byEvent(event string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// seedSupplier creates a supplier with half-kilo pieces at 4 per kilo, so
// each piece costs 2.
func seedSupplier(t *testing.T, svc *SupplierService, stock float64) *models.Supplier {
	t.Helper()

	supplier, err := svc.Create(SupplierInput{
		NameAr:       "دجاج",
		NameEn:       "Chicken",
		WeightUnit:   "kilo",
		TotalWeight:  5,
		PieceCount:   10,
		Stock:        stock,
		PricePerKilo: 4,
	})
	require.NoError(t, err)
	return supplier
}

// seedProduct creates a category with one discounted product consuming
// ingredientQty pieces of the supplier per unit sold.
func seedProduct(t *testing.T, svc *CategoryService, supplierID uint, price, discountPct, ingredientQty float64) (categoryID, productID uint) {
	t.Helper()

	category, err := svc.CreateCategory(CategoryInput{
		Name: models.LocalizedText{Ar: "وجبات", En: "Meals"},
	})
	require.NoError(t, err)

	product, err := svc.AddProduct(category.ID, ProductInput{
		Name:               models.LocalizedText{Ar: "شاورما", En: "Shawarma"},
		Price:              price,
		Discount:           discountPct > 0,
		DiscountPercentage: discountPct,
		Ingredients: []IngredientInput{
			{SupplierID: supplierID, Quantity: ingredientQty},
		},
	})
	require.NoError(t, err)
	return category.ID, product.ID
}
