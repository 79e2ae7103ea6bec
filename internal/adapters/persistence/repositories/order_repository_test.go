package repositories

import (
	"context"
	"testing"
	"time"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrder(listing *models.Listing, buyer *models.User, method domain.FulfillmentMethod) *models.Order {
	price := domain.PriceFor(method, listing.Price)
	return &models.Order{
		Reference:  uuid.NewString(),
		ListingID:  listing.ID,
		BuyerID:    buyer.ID,
		SellerID:   listing.SellerID,
		Method:     method,
		BasePrice:  price.BasePrice,
		AgentFee:   price.AgentFee,
		TotalPrice: price.TotalPrice,
		Branch:     listing.BranchOrigin,
		Status:     domain.StatusPending,
	}
}

func listingStatus(t *testing.T, db *gorm.DB, id uint) domain.ListingStatus {
	t.Helper()
	var l models.Listing
	require.NoError(t, db.First(&l, id).Error)
	return l.Status
}

func TestCreateWithReservation(t *testing.T) {
	db := testdb.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seller := testdb.User(t, db, "seller@x.com", domain.RoleCustomer, domain.BranchBandung)
	buyer := testdb.User(t, db, "buyer@x.com", domain.RoleCustomer, domain.BranchJakarta)
	listing := testdb.Listing(t, db, seller, 10_000_000)

	order := newOrder(listing, buyer, domain.MethodCODAgent)
	require.NoError(t, repo.CreateWithReservation(ctx, order, buyer.Actor()))
	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.ListingBooked, listingStatus(t, db, listing.ID))

	second := newOrder(listing, buyer, domain.MethodCODMandiri)
	err := repo.CreateWithReservation(ctx, second, buyer.Actor())
	assert.ErrorIs(t, err, domain.ErrListingUnavailable)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count, "losing reservation must not leave an order behind")

	history, err := repo.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, domain.StatusPending, history[0].ToStatus)
	assert.Equal(t, buyer.ID, history[0].ActorID)
}

func TestUpdateStatus_CompareAndSet(t *testing.T) {
	db := testdb.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seller := testdb.User(t, db, "seller@x.com", domain.RoleCustomer, domain.BranchBandung)
	buyer := testdb.User(t, db, "buyer@x.com", domain.RoleCustomer, domain.BranchJakarta)
	admin := testdb.User(t, db, "admin@x.com", domain.RoleBranchAdmin, domain.BranchBandung)
	listing := testdb.Listing(t, db, seller, 1_000_000)

	order := newOrder(listing, buyer, domain.MethodCODAgent)
	require.NoError(t, repo.CreateWithReservation(ctx, order, buyer.Actor()))

	// two readers load the same Pending order
	first, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	stale, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, first, domain.StatusAssigned, admin.Actor()))
	assert.Equal(t, domain.StatusAssigned, first.Status)

	err = repo.UpdateStatus(ctx, stale, domain.StatusRejected, admin.Actor())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, stale.Status)
	assert.Equal(t, domain.ListingBooked, listingStatus(t, db, listing.ID), "stale rejection must not release the listing")

	current, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, current.Status)
}

func TestUpdateStatus_RefreshesUpdatedAt(t *testing.T) {
	db := testdb.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seller := testdb.User(t, db, "seller@x.com", domain.RoleCustomer, domain.BranchBandung)
	buyer := testdb.User(t, db, "buyer@x.com", domain.RoleCustomer, domain.BranchJakarta)
	admin := testdb.User(t, db, "admin@x.com", domain.RoleBranchAdmin, domain.BranchBandung)
	listing := testdb.Listing(t, db, seller, 1_000_000)

	order := newOrder(listing, buyer, domain.MethodCODAgent)
	require.NoError(t, repo.CreateWithReservation(ctx, order, buyer.Actor()))

	hourAgo := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).UpdateColumn("updated_at", hourAgo).Error)

	loaded, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.WithinDuration(t, hourAgo, loaded.UpdatedAt, time.Second)

	require.NoError(t, repo.UpdateStatus(ctx, loaded, domain.StatusAssigned, admin.Actor()))
	assert.WithinDuration(t, time.Now(), loaded.UpdatedAt, 5*time.Second)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, loaded.UpdatedAt, stored.UpdatedAt, time.Second)
}

func TestUpdateStatus_RejectReleasesListing(t *testing.T) {
	db := testdb.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seller := testdb.User(t, db, "seller@x.com", domain.RoleCustomer, domain.BranchJakarta)
	buyer := testdb.User(t, db, "buyer@x.com", domain.RoleCustomer, domain.BranchJakarta)
	listing := testdb.Listing(t, db, seller, 2_000_000)

	order := newOrder(listing, buyer, domain.MethodCODMandiri)
	require.NoError(t, repo.CreateWithReservation(ctx, order, buyer.Actor()))

	loaded, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Listing)
	require.NotNil(t, loaded.Buyer)
	assert.Equal(t, "buyer@x.com", loaded.Buyer.Email)

	require.NoError(t, repo.UpdateStatus(ctx, loaded, domain.StatusRejected, seller.Actor()))
	assert.Equal(t, domain.ListingAvailable, listingStatus(t, db, listing.ID))
	assert.Equal(t, domain.ListingAvailable, loaded.Listing.Status)

	history, err := repo.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[1].FromStatus)
	assert.Equal(t, domain.StatusPending, *history[1].FromStatus)
	assert.Equal(t, domain.StatusRejected, history[1].ToStatus)
	assert.Equal(t, domain.RoleCustomer, history[1].ActorRole)
}

func TestListAndBranchSummary(t *testing.T) {
	db := testdb.New(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seller := testdb.User(t, db, "seller@x.com", domain.RoleCustomer, domain.BranchBandung)
	buyer := testdb.User(t, db, "buyer@x.com", domain.RoleCustomer, domain.BranchJakarta)
	other := testdb.User(t, db, "other@x.com", domain.RoleCustomer, domain.BranchSurabaya)

	a := newOrder(testdb.Listing(t, db, seller, 10_000_000), buyer, domain.MethodCODAgent)
	b := newOrder(testdb.Listing(t, db, seller, 3_000_000), buyer, domain.MethodCODMandiri)
	c := newOrder(testdb.Listing(t, db, other, 5_000_000), buyer, domain.MethodCODMandiri)
	for _, o := range []*models.Order{a, b, c} {
		require.NoError(t, repo.CreateWithReservation(ctx, o, buyer.Actor()))
	}

	// completed orders only
	require.NoError(t, db.Model(&models.Order{}).Where("id IN ?", []uint{a.ID, c.ID}).Update("status", domain.StatusCompleted).Error)

	orders, total, err := repo.List(ctx, OrderFilter{BuyerID: buyer.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 3)

	orders, total, err = repo.List(ctx, OrderFilter{SellerID: seller.ID, Branch: domain.BranchBandung}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 1)

	summary, err := repo.BranchSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, models.BranchSummary{Branch: domain.BranchBandung, Orders: 1, Total: 10_500_000}, *summary[0])
	assert.Equal(t, models.BranchSummary{Branch: domain.BranchSurabaya, Orders: 1, Total: 5_000_000}, *summary[1])
}
