package services

import (
	"context"
	"testing"
	"time"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronService_PurgeExpiredTokens(t *testing.T) {
	db := testdb.New(t)
	tokens := repositories.NewRefreshTokenRepository(db)
	svc := NewCronService(tokens, repositories.NewOrderRepository(db), config.CronConfig{})

	u := testdb.User(t, db, "u@x.com", domain.RoleCustomer, domain.BranchJakarta)
	ctx := context.Background()
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "a", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "b", ExpiresAt: time.Now().Add(time.Hour)}))

	svc.PurgeExpiredTokens()
	svc.LogBranchSummary()

	var count int64
	db.Model(&models.RefreshToken{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCronService_StartRejectsBadSchedule(t *testing.T) {
	db := testdb.New(t)
	svc := NewCronService(
		repositories.NewRefreshTokenRepository(db),
		repositories.NewOrderRepository(db),
		config.CronConfig{TokenCleanup: "every tuesday", BranchSummary: "55 23 * * *"},
	)
	assert.Error(t, svc.Start())

	ok := NewCronService(
		repositories.NewRefreshTokenRepository(db),
		repositories.NewOrderRepository(db),
		config.CronConfig{TokenCleanup: "0 * * * *", BranchSummary: "55 23 * * *"},
	)
	require.NoError(t, ok.Start())
	ok.Stop()
}
