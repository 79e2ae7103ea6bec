package config

import (
	"testing"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/password"
	"gadgethub-api/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_RunIsIdempotent(t *testing.T) {
	db := testdb.New(t)

	require.NoError(t, NewSeeder(db).Run())
	require.NoError(t, NewSeeder(db).Run())

	var users, listings int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Listing{}).Count(&listings)
	assert.Equal(t, int64(len(seedUsers)), users)
	assert.Equal(t, int64(len(seedListings)), listings)

	var seller models.User
	require.NoError(t, db.Where("email = ?", DemoSellerEmail).First(&seller).Error)
	assert.True(t, seller.Verified)
	assert.True(t, password.Verify(DemoPassword, seller.Password))

	var perBranch []struct {
		BranchOrigin string
		N            int64
	}
	require.NoError(t, db.Model(&models.Listing{}).
		Select("branch_origin, COUNT(*) AS n").
		Where("status = ?", domain.ListingAvailable).
		Group("branch_origin").
		Scan(&perBranch).Error)
	assert.Len(t, perBranch, 3)
}
