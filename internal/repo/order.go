package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
)

var (
	ErrNotCancellable = errors.New("order cannot be cancelled")
	ErrOrderClosed    = errors.New("order is closed")
)

type StockChange struct {
	ProductID uuid.UUID
	Quantity  int
}

// StockShortageError reports the product state that made a conditional
// decrement miss.
type StockShortageError struct {
	ProductID uuid.UUID
	Name      string
	Available int
	Exists    bool
	Active    bool
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock shortage for product %s", e.ProductID)
}

// PlaceOrder decrements stock for every change and inserts the order in one
// transaction. A decrement that cannot be satisfied rolls everything back.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, changes []StockChange) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND is_active = ? AND stock >= ?", ch.ProductID, true, ch.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", ch.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return shortage(tx, ch.ProductID)
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func shortage(tx *gorm.DB, id uuid.UUID) error {
	var p models.Product
	err := tx.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StockShortageError{ProductID: id}
	}
	if err != nil {
		return err
	}
	return &StockShortageError{ProductID: id, Name: p.Name, Available: p.Stock, Exists: true, Active: p.IsActive}
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetUserOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("order_number = ?", number).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// UpdateOrder applies admin updates. A status change on a cancelled or
// refunded order is rejected with ErrOrderClosed.
func (r *GormRepo) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Order{}).Where("id = ?", id)
		if _, ok := updates["status"]; ok {
			q = q.Where("status NOT IN ?", models.ClosedStatuses())
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		var n int64
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrOrderClosed
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, id)
}

// CancelOrder restores the recorded quantities and moves the order to
// cancelled in one transaction. Only pending and confirmed orders qualify.
func (r *GormRepo) CancelOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
			return err
		}
		if !order.Status.Cancellable() {
			return ErrNotCancellable
		}

		payment := models.PaymentCancelled
		if order.PaymentStatus == models.PaymentPaid {
			payment = models.PaymentRefunded
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", id, []models.OrderStatus{models.OrderPending, models.OrderConfirmed}).
			Updates(map[string]any{"status": models.OrderCancelled, "payment_status": payment})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotCancellable
		}

		for _, it := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", it.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
				return err
			}
		}

		order.Status = models.OrderCancelled
		order.PaymentStatus = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ClaimGuestOrder attaches a guest order to a user account.
func (r *GormRepo) ClaimGuestOrder(ctx context.Context, id, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND is_guest_order = ?", id, true).
		Updates(map[string]any{"user_id": userID, "is_guest_order": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
