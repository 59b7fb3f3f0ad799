package database

import (
	"context"
	"testing"
	"time"

	"inbound-wms-api-server/config"
	"inbound-wms-api-server/internal/auth"
	"inbound-wms-api-server/internal/models"
	"inbound-wms-api-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedInboundRequests_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository(time.Now)

	require.NoError(t, SeedInboundRequests(ctx, repo, zap.NewNop()))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, r := range all {
		assert.Equal(t, models.StatusPendingApproval, r.ApprovalStatus)
		assert.NotEmpty(t, r.Items)
	}
	assert.Equal(t, "PO-2024-0001", all[0].PONumber)

	require.NoError(t, SeedInboundRequests(ctx, repo, zap.NewNop()))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSeedInboundRequests_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewSQLiteRepository(db, time.Now)
	require.NoError(t, SeedInboundRequests(ctx, repo, zap.NewNop()))
	require.NoError(t, SeedInboundRequests(ctx, repo, zap.NewNop()))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSeedSuperAdmin(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	cfg := config.AdminConfig{Email: "Root@Example.com", Name: "Root", Password: "pw-123456"}

	require.NoError(t, SeedSuperAdmin(ctx, users, cfg, zap.NewNop()))
	require.NoError(t, SeedSuperAdmin(ctx, users, cfg, zap.NewNop()))

	u, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, u.Role)
	assert.True(t, auth.CheckPasswordHash("pw-123456", u.PasswordHash))

	empty := repository.NewMemoryUserRepository()
	require.NoError(t, SeedSuperAdmin(ctx, empty, config.AdminConfig{}, zap.NewNop()))
	_, err = empty.GetByEmail(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
