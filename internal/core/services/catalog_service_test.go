package services

import (
	"context"
	"testing"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/pagination"
	"gadgethub-api/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreateAndList(t *testing.T) {
	db := testdb.New(t)
	svc := NewCatalogService(repositories.NewListingRepository(db), repositories.NewUserRepository(db))
	ctx := context.Background()

	sby := testdb.User(t, db, "sby@x.com", domain.RoleCustomer, domain.BranchSurabaya)
	jkt := testdb.User(t, db, "jkt@x.com", domain.RoleCustomer, domain.BranchJakarta)

	no := false
	listing, err := svc.Create(ctx, sby.ID, &CreateListingInput{
		Title: " Samsung S22 ", Price: 5_000_000, Category: "Android", Brand: "Samsung", Negotiable: &no,
	})
	require.NoError(t, err)
	assert.Equal(t, "Samsung S22", listing.Title)
	assert.Equal(t, domain.BranchSurabaya, listing.BranchOrigin)
	assert.Equal(t, sby.ID, listing.SellerID)
	assert.Equal(t, domain.ListingAvailable, listing.Status)
	assert.False(t, listing.Negotiable)

	_, err = svc.Create(ctx, jkt.ID, &CreateListingInput{Title: "iPhone 12", Price: 4_000_000, Category: "iPhone"})
	require.NoError(t, err)
	booked, err := svc.Create(ctx, jkt.ID, &CreateListingInput{Title: "iPhone 13", Price: 6_000_000, Category: "iPhone"})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, booked.ID, domain.ListingBooked))

	page := pagination.New(1, 20)
	tests := []struct {
		name  string
		input ListListingsInput
		want  int64
	}{
		{"default shows available everywhere", ListListingsInput{}, 2},
		{"semua means every branch", ListListingsInput{Branch: "Semua"}, 2},
		{"all statuses", ListListingsInput{Status: "all"}, 3},
		{"booked only", ListListingsInput{Status: "Booked"}, 1},
		{"branch filter", ListListingsInput{Branch: "Jakarta"}, 1},
		{"category filter", ListListingsInput{Category: "Android"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.List(ctx, &tt.input, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Meta.Total)
			assert.Len(t, res.Data, int(tt.want))
		})
	}

	_, err = svc.List(ctx, &ListListingsInput{Category: "Nokia"}, page)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.List(ctx, &ListListingsInput{Status: "Sold"}, page)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_CreateValidation(t *testing.T) {
	db := testdb.New(t)
	svc := NewCatalogService(repositories.NewListingRepository(db), repositories.NewUserRepository(db))
	ctx := context.Background()

	seller := testdb.User(t, db, "s@x.com", domain.RoleCustomer, domain.BranchJakarta)

	tests := []struct {
		name  string
		input CreateListingInput
	}{
		{"zero price", CreateListingInput{Title: "x", Price: 0, Category: "iPhone"}},
		{"negative price", CreateListingInput{Title: "x", Price: -5, Category: "iPhone"}},
		{"bad category", CreateListingInput{Title: "x", Price: 10, Category: "Tablet"}},
		{"no title", CreateListingInput{Title: "  ", Price: 10, Category: "iPhone"}},
		{"line break in title", CreateListingInput{Title: "iPhone\r\nBcc: victim@evil.test", Price: 10, Category: "iPhone"}},
		{"line break in brand", CreateListingInput{Title: "iPhone 12", Brand: "Apple\nX-Spam: yes", Price: 10, Category: "iPhone"}},
		{"tab in title", CreateListingInput{Title: "iPhone\t12", Price: 10, Category: "iPhone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, seller.ID, &tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := svc.Get(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.SetStatus(ctx, 404, domain.ListingBooked), domain.ErrNotFound)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", seller.ID).Update("verified", false).Error)
	_, err = svc.Create(ctx, seller.ID, &CreateListingInput{Title: "x", Price: 10, Category: "iPhone"})
	assert.ErrorIs(t, err, domain.ErrAccountNotVerified)
}
