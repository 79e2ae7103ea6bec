package repositories

import (
	"context"
	"fmt"
	"time"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"

	"gorm.io/gorm"
)

// orderRepository implements OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order ledger repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithReservation books the listing and records the order in one transaction.
// The listing is reserved with a conditional update so only one concurrent caller wins.
func (r *orderRepository) CreateWithReservation(ctx context.Context, order *models.Order, actor domain.Actor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ?", order.ListingID, domain.ListingAvailable).
			Update("status", domain.ListingBooked)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: listing %d was taken", domain.ErrListingUnavailable, order.ListingID)
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusLog{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
		}).Error
	})
}

// GetByID gets an order with listing, buyer and seller resolved
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Buyer").
		Preload("Seller").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves order from its loaded status to `to`.
// A concurrent writer that changed the status first makes this fail with ErrInvalidTransition.
// Rejection puts the listing back on sale in the same transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *models.Order, to domain.OrderStatus, actor domain.Actor) error {
	from := order.Status
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(map[string]any{"status": to, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d is no longer %s", domain.ErrInvalidTransition, order.ID, from)
		}

		if to == domain.StatusRejected {
			err := tx.Model(&models.Listing{}).
				Where("id = ?", order.ListingID).
				Update("status", domain.ListingAvailable).Error
			if err != nil {
				return err
			}
		}

		return tx.Create(&models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: &from,
			ToStatus:   to,
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
		}).Error
	})
	if err != nil {
		return err
	}

	order.Status = to
	order.UpdatedAt = now
	if to == domain.StatusRejected && order.Listing != nil {
		order.Listing.Status = domain.ListingAvailable
	}
	return nil
}

// List lists orders matching filter, newest first
func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.BuyerID != 0 {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Branch != "" {
		query = query.Where("branch = ?", filter.Branch)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Listing").
		Preload("Buyer").
		Preload("Seller").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// History returns the status log of an order, oldest first
func (r *orderRepository) History(ctx context.Context, orderID uint) ([]*models.OrderStatusLog, error) {
	var logs []*models.OrderStatusLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

// BranchSummary aggregates completed orders per branch
func (r *orderRepository) BranchSummary(ctx context.Context) ([]*models.BranchSummary, error) {
	var rows []*models.BranchSummary
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("branch, COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS total").
		Where("status = ?", domain.StatusCompleted).
		Group("branch").
		Order("branch ASC").
		Scan(&rows).Error
	return rows, err
}
