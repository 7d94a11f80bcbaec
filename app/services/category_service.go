package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"StoreApp/app/models"
)

// CategoryService manages the catalog: categories, their products and the
// product recipes that reference supplier stock.
type CategoryService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewCategoryService creates a new category service.
func NewCategoryService(db *gorm.DB, notifier Notifier) *CategoryService {
	return &CategoryService{db: db, notifier: notifier}
}

// IngredientInput references a supplier and the pieces one sold unit consumes.
type IngredientInput struct {
	SupplierID uint    `json:"supplierId"`
	Quantity   float64 `json:"quantity"`
}

// ProductInput is the write shape for products.
type ProductInput struct {
	Name               models.LocalizedText `json:"name"`
	Description        models.LocalizedText `json:"description"`
	Price              float64              `json:"price"`
	Image              string               `json:"product_image"`
	Discount           bool                 `json:"discount"`
	DiscountPercentage float64              `json:"discountPercentage"`
	Ingredients        []IngredientInput    `json:"ingredients"`
}

// CategoryInput is the write shape for categories.
type CategoryInput struct {
	Name  models.LocalizedText `json:"name"`
	Image string               `json:"category_image"`
}

// CategoryStats summarizes the catalog.
type CategoryStats struct {
	TotalCategories    int64            `json:"totalCategories"`
	TotalProducts      int64            `json:"totalProducts"`
	ProductsByCategory map[string]int64 `json:"productsByCategory"`
}

// List returns every category with products and recipes preloaded.
func (s *CategoryService) List() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Preload("Products.Ingredients").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Stats counts categories and products, grouped by category name.
func (s *CategoryService) Stats() (*CategoryStats, error) {
	stats := &CategoryStats{ProductsByCategory: make(map[string]int64)}

	if err := s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	var rows []struct {
		NameEn string
		Count  int64
	}
	err := s.db.Model(&models.Category{}).
		Select("categories.name_en as name_en, count(products.id) as count").
		Joins("left join products on products.category_id = categories.id").
		Group("categories.id, categories.name_en").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("grouping products by category: %w", err)
	}
	for _, r := range rows {
		stats.ProductsByCategory[r.NameEn] = r.Count
	}
	return stats, nil
}

// CreateCategory inserts a category and broadcasts the addition.
func (s *CategoryService) CreateCategory(in CategoryInput) (*models.Category, error) {
	if in.Name.Ar == "" || in.Name.En == "" {
		return nil, InvalidArgumentf("category name is required in both languages")
	}

	category := models.Category{Name: in.Name, Image: in.Image}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	log.Printf("Category created: %s (id %d)", category.Name.En, category.ID)
	s.notifier.Emit(EventUpdate, map[string]interface{}{
		"action":     "add",
		"categoryId": category.ID,
	})
	return &category, nil
}

// GetCategory returns one category with products preloaded.
func (s *CategoryService) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Preload("Products.Ingredients").First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("category %d", id)
		}
		return nil, fmt.Errorf("loading category %d: %w", id, err)
	}
	return &category, nil
}

// validateProduct checks pricing and every ingredient reference. Referenced
// suppliers must exist, have a positive weight per piece, and hold at least
// the per-unit quantity in stock. Nothing is deducted here.
func (s *CategoryService) validateProduct(in *ProductInput) error {
	if in.Name.Ar == "" || in.Name.En == "" {
		return InvalidArgumentf("product name is required in both languages")
	}
	if in.Price <= 0 {
		return InvalidArgumentf("product price must be positive")
	}
	if in.Discount && (in.DiscountPercentage <= 0 || in.DiscountPercentage > 100) {
		return InvalidArgumentf("discount percentage must be in (0, 100], got %v", in.DiscountPercentage)
	}

	for _, ing := range in.Ingredients {
		if ing.Quantity <= 0 {
			return InvalidArgumentf("ingredient quantity must be positive for supplier %d", ing.SupplierID)
		}
		var supplier models.Supplier
		if err := s.db.First(&supplier, ing.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("ingredient supplier %d", ing.SupplierID)
			}
			return fmt.Errorf("loading ingredient supplier %d: %w", ing.SupplierID, err)
		}
		if supplier.WeightPerPiece <= 0 {
			return InvalidStatef("supplier %s has no piece weight", supplier.NameEn)
		}
		if supplier.Stock < ing.Quantity {
			return &InsufficientStockError{
				SupplierName: supplier.NameEn,
				Required:     ing.Quantity,
				Available:    supplier.Stock,
			}
		}
	}
	return nil
}

// AddProduct inserts a product with its recipe into a category.
func (s *CategoryService) AddProduct(categoryID uint, in ProductInput) (*models.Product, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}
	if err := s.validateProduct(&in); err != nil {
		return nil, err
	}

	product := models.Product{
		CategoryID:         categoryID,
		Name:               in.Name,
		Description:        in.Description,
		Price:              in.Price,
		Image:              in.Image,
		Discount:           in.Discount,
		DiscountPercentage: in.DiscountPercentage,
	}
	for _, ing := range in.Ingredients {
		product.Ingredients = append(product.Ingredients, models.ProductIngredient{
			SupplierID: ing.SupplierID,
			Quantity:   ing.Quantity,
		})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("creating product in category %d: %w", categoryID, err)
	}

	s.notifier.Emit(EventUpdate, map[string]interface{}{
		"action":     "add",
		"categoryId": categoryID,
		"productId":  product.ID,
		"product":    product,
	})
	return &product, nil
}

// UpdateProduct overwrites a product and replaces its recipe.
func (s *CategoryService) UpdateProduct(categoryID, productID uint, in ProductInput) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("id = ? AND category_id = ?", productID, categoryID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("product %d in category %d", productID, categoryID)
		}
		return nil, fmt.Errorf("loading product %d: %w", productID, err)
	}
	if err := s.validateProduct(&in); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		product.Name = in.Name
		product.Description = in.Description
		product.Price = in.Price
		product.Image = in.Image
		product.Discount = in.Discount
		product.DiscountPercentage = in.DiscountPercentage

		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("updating product %d: %w", productID, err)
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductIngredient{}).Error; err != nil {
			return fmt.Errorf("clearing recipe of product %d: %w", productID, err)
		}
		for _, ing := range in.Ingredients {
			row := models.ProductIngredient{
				ProductID:  productID,
				SupplierID: ing.SupplierID,
				Quantity:   ing.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("writing recipe of product %d: %w", productID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Ingredients").First(&product, productID).Error; err != nil {
		return nil, fmt.Errorf("reloading product %d: %w", productID, err)
	}

	s.notifier.Emit(EventUpdate, map[string]interface{}{
		"action":     "update",
		"categoryId": categoryID,
		"productId":  product.ID,
		"product":    product,
	})
	return &product, nil
}

// DeleteProduct removes a product and its recipe.
func (s *CategoryService) DeleteProduct(categoryID, productID uint) error {
	res := s.db.Where("id = ? AND category_id = ?", productID, categoryID).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("deleting product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("product %d in category %d", productID, categoryID)
	}

	s.notifier.Emit(EventUpdate, map[string]interface{}{
		"action":     "delete",
		"categoryId": categoryID,
		"productId":  productID,
	})
	return nil
}
