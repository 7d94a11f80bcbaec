package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"StoreApp/app/models"
	"StoreApp/app/units"
)

// SupplierService manages supplier records and is the stock ledger: every
// stock mutation in the system goes through its Check/Deduct/Restore
// primitives inside the caller's transaction.
type SupplierService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewSupplierService creates a new supplier service.
func NewSupplierService(db *gorm.DB, notifier Notifier) *SupplierService {
	return &SupplierService{db: db, notifier: notifier}
}

// SupplierInput is the write shape for create and update.
type SupplierInput struct {
	NameAr        string               `json:"nameAr"`
	NameEn        string               `json:"nameEn"`
	WeightUnit    string               `json:"weightUnit"`
	TotalWeight   float64              `json:"totalWeight"`
	PieceCount    int                  `json:"pieceCount"`
	UnitCount     int                  `json:"unitCount"`
	PiecesPerUnit int                  `json:"piecesPerUnit"`
	Stock         float64              `json:"stock"`
	PricePerKilo  float64              `json:"pricePerKilo"`
	TypeOfFood    models.LocalizedText `json:"typeOfFood"`
	Description   models.LocalizedText `json:"description"`
}

func (in *SupplierInput) validate() error {
	if in.NameAr == "" || in.NameEn == "" {
		return InvalidArgumentf("supplier name is required in both languages")
	}
	if !units.IsValidUnit(in.WeightUnit) {
		return InvalidArgumentf("unknown weight unit %q", in.WeightUnit)
	}
	if in.TotalWeight <= 0 {
		return InvalidArgumentf("total weight must be positive")
	}
	if in.PieceCount <= 0 {
		return InvalidArgumentf("piece count must be positive")
	}
	if in.PricePerKilo <= 0 {
		return InvalidArgumentf("price per kilo must be positive")
	}
	if in.Stock < 0 {
		return InvalidArgumentf("stock cannot be negative")
	}
	if in.WeightUnit == units.UnitCarton {
		if err := units.ValidateCarton(in.PieceCount, in.UnitCount, in.PiecesPerUnit); err != nil {
			return fmt.Errorf("%v: %w", err, ErrInvalidArgument)
		}
	}
	return nil
}

// apply copies the input onto the supplier and recomputes the derived fields.
func (in *SupplierInput) apply(s *models.Supplier) error {
	if err := in.validate(); err != nil {
		return err
	}

	s.NameAr = in.NameAr
	s.NameEn = in.NameEn
	s.WeightUnit = in.WeightUnit
	s.TotalWeight = in.TotalWeight
	s.PieceCount = in.PieceCount
	s.UnitCount = in.UnitCount
	s.PiecesPerUnit = in.PiecesPerUnit
	s.Stock = in.Stock
	s.PricePerKilo = in.PricePerKilo
	s.TypeOfFood = in.TypeOfFood
	s.Description = in.Description
	if in.WeightUnit == units.UnitCarton {
		s.CartonWeight = in.TotalWeight
	} else {
		s.CartonWeight = 0
	}

	return deriveSupplierFields(s)
}

// deriveSupplierFields refreshes weightPerPiece, pricePerPiece and totalPrice
// from the declared fields and the current stock.
func deriveSupplierFields(s *models.Supplier) error {
	wpp, err := units.WeightPerPiece(s.TotalWeight, s.PieceCount)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}
	ppp, err := units.PricePerPiece(s.PricePerKilo, s.WeightUnit, wpp)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}
	s.WeightPerPiece = wpp
	s.PricePerPiece = ppp
	s.TotalPrice = units.PiecesToCost(s.Stock, ppp)
	return nil
}

// Create inserts a supplier and broadcasts the creation.
func (s *SupplierService) Create(in SupplierInput) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := in.apply(&supplier); err != nil {
		return nil, err
	}

	if err := s.db.Create(&supplier).Error; err != nil {
		return nil, fmt.Errorf("creating supplier: %w", err)
	}

	log.Printf("Supplier created: %s (id %d)", supplier.NameEn, supplier.ID)
	s.notifier.Emit(EventSupplierUpdate, map[string]interface{}{
		"action":   "create",
		"supplier": supplier,
	})
	return &supplier, nil
}

// List returns all suppliers ordered by name.
func (s *SupplierService) List() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.Order("name_en asc").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return suppliers, nil
}

// Get returns one supplier by id.
func (s *SupplierService) Get(id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("supplier %d", id)
		}
		return nil, fmt.Errorf("loading supplier %d: %w", id, err)
	}
	return &supplier, nil
}

// Update overwrites a supplier's declared fields, recomputes derivations and
// broadcasts the update.
func (s *SupplierService) Update(id uint, in SupplierInput) (*models.Supplier, error) {
	supplier, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(supplier); err != nil {
		return nil, err
	}

	if err := s.db.Save(supplier).Error; err != nil {
		return nil, fmt.Errorf("updating supplier %d: %w", id, err)
	}

	s.notifier.Emit(EventSupplierUpdate, map[string]interface{}{
		"action":   "update",
		"supplier": supplier,
	})
	return supplier, nil
}

// Delete removes a supplier and broadcasts the deletion.
func (s *SupplierService) Delete(id uint) error {
	res := s.db.Delete(&models.Supplier{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting supplier %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("supplier %d", id)
	}

	s.notifier.Emit(EventSupplierUpdate, map[string]interface{}{
		"action": "delete",
		"id":     id,
	})
	return nil
}

// DeductStock removes pieces from a supplier outside any sale, for spoilage
// or manual correction.
func (s *SupplierService) DeductStock(id uint, pieces float64) (*models.Supplier, error) {
	if pieces <= 0 {
		return nil, InvalidArgumentf("pieces to deduct must be positive")
	}

	var supplier *models.Supplier
	err := withRetry(s.db, func(tx *gorm.DB) error {
		locked, err := s.CheckStock(tx, id, pieces)
		if err != nil {
			return err
		}
		if err := s.Deduct(tx, locked, pieces); err != nil {
			return err
		}
		supplier = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(EventSupplierUpdate, map[string]interface{}{
		"action":   "update-stock",
		"supplier": supplier,
	})
	return supplier, nil
}

// AddStock adds pieces to a supplier.
func (s *SupplierService) AddStock(id uint, pieces float64) (*models.Supplier, error) {
	if pieces <= 0 {
		return nil, InvalidArgumentf("pieces to add must be positive")
	}

	var supplier *models.Supplier
	err := withRetry(s.db, func(tx *gorm.DB) error {
		locked, err := s.lock(tx, id)
		if err != nil {
			return err
		}
		if err := s.Restore(tx, locked, pieces); err != nil {
			return err
		}
		supplier = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(EventSupplierUpdate, map[string]interface{}{
		"action":   "add-stock",
		"supplier": supplier,
	})
	return supplier, nil
}

// lock loads a supplier row FOR UPDATE inside tx.
func (s *SupplierService) lock(tx *gorm.DB, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := forUpdate(tx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("supplier %d", id)
		}
		return nil, fmt.Errorf("locking supplier %d: %w", id, err)
	}
	return &supplier, nil
}

// CheckStock locks the supplier row and verifies it can cover piecesNeeded.
// Must run inside the transaction that will deduct; the lock holds until
// commit, so the check cannot go stale.
func (s *SupplierService) CheckStock(tx *gorm.DB, supplierID uint, piecesNeeded float64) (*models.Supplier, error) {
	supplier, err := s.lock(tx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Stock < piecesNeeded {
		return nil, &InsufficientStockError{
			SupplierName: supplier.NameEn,
			Required:     piecesNeeded,
			Available:    supplier.Stock,
		}
	}
	return supplier, nil
}

// Deduct removes pieces from a locked supplier row. Only valid after a
// successful CheckStock in the same transaction.
func (s *SupplierService) Deduct(tx *gorm.DB, supplier *models.Supplier, pieces float64) error {
	if supplier.Stock < pieces {
		return &InsufficientStockError{
			SupplierName: supplier.NameEn,
			Required:     pieces,
			Available:    supplier.Stock,
		}
	}
	supplier.Stock -= pieces
	supplier.TotalPrice = units.PiecesToCost(supplier.Stock, supplier.PricePerPiece)
	if err := tx.Save(supplier).Error; err != nil {
		return fmt.Errorf("deducting %v pieces from supplier %d: %w", pieces, supplier.ID, err)
	}
	return nil
}

// Restore returns pieces to a locked supplier row.
func (s *SupplierService) Restore(tx *gorm.DB, supplier *models.Supplier, pieces float64) error {
	supplier.Stock += pieces
	supplier.TotalPrice = units.PiecesToCost(supplier.Stock, supplier.PricePerPiece)
	if err := tx.Save(supplier).Error; err != nil {
		return fmt.Errorf("restoring %v pieces to supplier %d: %w", pieces, supplier.ID, err)
	}
	return nil
}
