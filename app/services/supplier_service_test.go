package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"StoreApp/app/models"
)

func TestSupplierCreateDerivesFields(t *testing.T) {
	db := newTestDB(t)
	rec := &eventRecorder{}
	svc := NewSupplierService(db, rec)

	supplier, err := svc.Create(SupplierInput{
		NameAr:       "لحم",
		NameEn:       "Beef",
		WeightUnit:   "gram",
		TotalWeight:  2000, // grams
		PieceCount:   10,
		Stock:        4,
		PricePerKilo: 8,
	})
	require.NoError(t, err)

	// 200 g pieces at 8 per kilo.
	assert.InDelta(t, 200, supplier.WeightPerPiece, 1e-9)
	assert.InDelta(t, 1.6, supplier.PricePerPiece, 1e-9)
	assert.InDelta(t, 6.4, supplier.TotalPrice, 1e-9)

	created := rec.byEvent(EventSupplierUpdate)
	require.Len(t, created, 1)
	assert.Equal(t, "create", created[0].Payload["action"])
}

func TestSupplierCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupplierService(db, NopNotifier{})

	tests := []struct {
		name  string
		input SupplierInput
	}{
		{"missing name", SupplierInput{WeightUnit: "kilo", TotalWeight: 1, PieceCount: 1, PricePerKilo: 1}},
		{"unknown unit", SupplierInput{NameAr: "أ", NameEn: "A", WeightUnit: "stone", TotalWeight: 1, PieceCount: 1, PricePerKilo: 1}},
		{"zero weight", SupplierInput{NameAr: "أ", NameEn: "A", WeightUnit: "kilo", TotalWeight: 0, PieceCount: 1, PricePerKilo: 1}},
		{"zero pieces", SupplierInput{NameAr: "أ", NameEn: "A", WeightUnit: "kilo", TotalWeight: 1, PieceCount: 0, PricePerKilo: 1}},
		{"negative stock", SupplierInput{NameAr: "أ", NameEn: "A", WeightUnit: "kilo", TotalWeight: 1, PieceCount: 1, Stock: -1, PricePerKilo: 1}},
		{"carton mismatch", SupplierInput{NameAr: "أ", NameEn: "A", WeightUnit: "carton", TotalWeight: 12, PieceCount: 23, UnitCount: 4, PiecesPerUnit: 6, PricePerKilo: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.input)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestSupplierCartonComposite(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupplierService(db, NopNotifier{})

	supplier, err := svc.Create(SupplierInput{
		NameAr:        "علب",
		NameEn:        "Cans",
		WeightUnit:    "carton",
		TotalWeight:   12,
		PieceCount:    24,
		UnitCount:     4,
		PiecesPerUnit: 6,
		Stock:         24,
		PricePerKilo:  2,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, supplier.WeightPerPiece, 1e-9)
	assert.InDelta(t, 1, supplier.PricePerPiece, 1e-9)
	assert.InDelta(t, 24, supplier.TotalPrice, 1e-9)
	assert.InDelta(t, 12, supplier.CartonWeight, 1e-9)
}

func TestSupplierUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	rec := &eventRecorder{}
	svc := NewSupplierService(db, rec)

	supplier := seedSupplier(t, svc, 10)
	rec.reset()

	updated, err := svc.Update(supplier.ID, SupplierInput{
		NameAr:       "دجاج",
		NameEn:       "Chicken",
		WeightUnit:   "kilo",
		TotalWeight:  30,
		PieceCount:   10,
		Stock:        10,
		PricePerKilo: 2,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3, updated.WeightPerPiece, 1e-9)
	assert.InDelta(t, 6, updated.PricePerPiece, 1e-9)
	assert.InDelta(t, 60, updated.TotalPrice, 1e-9)

	require.NoError(t, svc.Delete(supplier.ID))
	_, err = svc.Get(supplier.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(supplier.ID), ErrNotFound)

	actions := []string{}
	for _, e := range rec.byEvent(EventSupplierUpdate) {
		actions = append(actions, e.Payload["action"].(string))
	}
	assert.Equal(t, []string{"update", "delete"}, actions)
}

func TestCheckStockInsufficient(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupplierService(db, NopNotifier{})
	supplier := seedSupplier(t, svc, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.CheckStock(tx, supplier.ID, 6)
		return err
	})

	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Chicken", insufficient.SupplierName)
	assert.InDelta(t, 6, insufficient.Required, 1e-9)
	assert.InDelta(t, 5, insufficient.Available, 1e-9)
}

func TestDeductAndRestore(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupplierService(db, NopNotifier{})
	supplier := seedSupplier(t, svc, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := svc.CheckStock(tx, supplier.ID, 6)
		if err != nil {
			return err
		}
		return svc.Deduct(tx, locked, 6)
	})
	require.NoError(t, err)

	reloaded, err := svc.Get(supplier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4, reloaded.Stock, 1e-9)
	assert.InDelta(t, 8, reloaded.TotalPrice, 1e-9) // 4 pieces at 2 each

	err = db.Transaction(func(tx *gorm.DB) error {
		var locked models.Supplier
		if err := tx.First(&locked, supplier.ID).Error; err != nil {
			return err
		}
		return svc.Restore(tx, &locked, 6)
	})
	require.NoError(t, err)

	reloaded, err = svc.Get(supplier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10, reloaded.Stock, 1e-9)
	assert.InDelta(t, 20, reloaded.TotalPrice, 1e-9)
}

func TestDirectStockAdjustments(t *testing.T) {
	db := newTestDB(t)
	rec := &eventRecorder{}
	svc := NewSupplierService(db, rec)
	supplier := seedSupplier(t, svc, 10)
	rec.reset()

	after, err := svc.DeductStock(supplier.ID, 4)
	require.NoError(t, err)
	assert.InDelta(t, 6, after.Stock, 1e-9)

	after, err = svc.AddStock(supplier.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, 8, after.Stock, 1e-9)

	_, err = svc.DeductStock(supplier.ID, 100)
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))

	_, err = svc.DeductStock(supplier.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	actions := []string{}
	for _, e := range rec.byEvent(EventSupplierUpdate) {
		actions = append(actions, e.Payload["action"].(string))
	}
	assert.Equal(t, []string{"update-stock", "add-stock"}, actions)
}
