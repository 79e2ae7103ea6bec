package repositories

import (
	"context"
	"fmt"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"

	"gorm.io/gorm"
)

// listingRepository implements ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create creates a new listing
func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// GetByID gets a listing with its seller
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).Preload("Seller").First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// List lists listings matching filter, newest first
func (r *listingRepository) List(ctx context.Context, filter ListingFilter, offset, limit int) ([]*models.Listing, int64, error) {
	var listings []*models.Listing
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Listing{})
	if filter.Branch != "" {
		query = query.Where("branch_origin = ?", filter.Branch)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Seller").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// SetStatus overwrites listing status. A listing still held by an order that was not
// rejected cannot be put back on sale; that fails with ErrListingUnavailable.
func (r *listingRepository) SetStatus(ctx context.Context, id uint, status domain.ListingStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Select("id").First(&listing, id).Error; err != nil {
			return err
		}

		if status == domain.ListingAvailable {
			var held int64
			err := tx.Model(&models.Order{}).
				Where("listing_id = ? AND status <> ?", id, domain.StatusRejected).
				Count(&held).Error
			if err != nil {
				return err
			}
			if held > 0 {
				return fmt.Errorf("%w: listing %d is held by an order", domain.ErrListingUnavailable, id)
			}
		}

		return tx.Model(&models.Listing{}).Where("id = ?", id).Update("status", status).Error
	})
}

// Count returns the number of listings
func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Count(&count).Error
	return count, err
}
