package repositories

import (
	"context"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	MarkVerified(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ListingFilter narrows catalog queries. Empty fields do not filter.
type ListingFilter struct {
	Branch   string
	Status   domain.ListingStatus
	Category domain.Category
	SellerID uint
}

// ListingRepository defines catalog repository interface
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter, offset, limit int) ([]*models.Listing, int64, error)
	SetStatus(ctx context.Context, id uint, status domain.ListingStatus) error
	Count(ctx context.Context) (int64, error)
}

// OrderFilter narrows ledger queries. Zero values do not filter.
type OrderFilter struct {
	BuyerID  uint
	SellerID uint
	Branch   string
	Status   domain.OrderStatus
	Method   domain.FulfillmentMethod
}

// OrderRepository defines the order ledger interface.
// Writes that depend on current state are compare-and-set.
type OrderRepository interface {
	CreateWithReservation(ctx context.Context, order *models.Order, actor domain.Actor) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order, to domain.OrderStatus, actor domain.Actor) error
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]*models.Order, int64, error)
	History(ctx context.Context, orderID uint) ([]*models.OrderStatusLog, error)
	BranchSummary(ctx context.Context) ([]*models.BranchSummary, error)
}
