package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"StoreApp/app/models"
)

// OrderService runs the order status workflow. Cancellation returns every
// consumed piece to its supplier, once.
type OrderService struct {
	db        *gorm.DB
	suppliers *SupplierService
	notifier  Notifier
}

// NewOrderService creates a new order service.
func NewOrderService(db *gorm.DB, suppliers *SupplierService, notifier Notifier) *OrderService {
	return &OrderService{db: db, suppliers: suppliers, notifier: notifier}
}

// List returns all orders, newest first, with items preloaded.
func (s *OrderService) List() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Ingredients").Preload("Items.Additions").
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// Get returns one order with items preloaded.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Ingredients").Preload("Items.Additions").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("order %d", id)
		}
		return nil, fmt.Errorf("loading order %d: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus moves an order to a new status. The first transition to
// cancelled restores the consumed stock in the same transaction; cancelling
// an already-cancelled order is a no-op and never restocks twice. Delivered
// orders are final.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, InvalidArgumentf("unknown order status %q", status)
	}

	var (
		order  *models.Order
		events []pendingEvent
	)

	err := withRetry(s.db, func(tx *gorm.DB) error {
		order = nil
		events = events[:0]

		var current models.Order
		err := forUpdate(tx).Preload("Items.Ingredients").First(&current, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("order %d", orderID)
			}
			return fmt.Errorf("loading order %d: %w", orderID, err)
		}

		if current.Status == models.OrderStatusCancelled && status == models.OrderStatusCancelled {
			order = &current
			return nil
		}
		if current.Status.IsTerminal() {
			return InvalidStatef("order %d is %s", orderID, current.Status)
		}

		if status == models.OrderStatusCancelled {
			// Aggregate per supplier so a recipe that used the same
			// supplier twice restores in one locked write.
			restore := make(map[uint]float64)
			for _, item := range current.Items {
				for _, ing := range item.Ingredients {
					restore[ing.SupplierID] += ing.PiecesUsed
				}
			}
			for supplierID, pieces := range restore {
				supplier, err := s.suppliers.lock(tx, supplierID)
				if err != nil {
					if errors.Is(err, ErrNotFound) {
						// Supplier deleted since the sale; nothing to restore to.
						log.Printf("Order %d cancel: supplier %d no longer exists", orderID, supplierID)
						continue
					}
					return err
				}
				if err := s.suppliers.Restore(tx, supplier, pieces); err != nil {
					return err
				}
				events = append(events, pendingEvent{EventSupplierUpdate, map[string]interface{}{
					"action":   "update-stock",
					"supplier": supplier,
				}})
			}
		}

		if err := tx.Model(&current).Update("status", status).Error; err != nil {
			return fmt.Errorf("updating order %d status: %w", orderID, err)
		}
		current.Status = status
		order = &current
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		s.notifier.Emit(e.event, e.payload)
	}
	s.notifier.Emit(EventOrderStatusUpdated, map[string]interface{}{
		"orderId": order.ID,
		"status":  order.Status,
		"order":   order,
	})

	log.Printf("Order %d status set to %s", orderID, status)
	return order, nil
}
