// server/internal/database/seeder.go
package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"inbound-wms-api-server/config"
	"inbound-wms-api-server/internal/auth"
	"inbound-wms-api-server/internal/models"
	"inbound-wms-api-server/internal/repository"

	"go.uber.org/zap"
)

// SampleInboundRequests là ba yêu cầu mẫu dùng để khởi tạo dữ liệu demo.
func SampleInboundRequests() []models.InboundRequest {
	return []models.InboundRequest{
		{
			PONumber:     "PO-2024-0001",
			SupplierName: "Hanoi Fresh Foods",
			Items: []models.LineItem{
				{SKUCode: "SKU-BEEF-001", ProductName: "Beef brisket 1kg", Quantity: 120, Unit: "BOX"},
				{SKUCode: "SKU-PORK-004", ProductName: "Pork belly 500g", Quantity: 80, Unit: "BOX"},
			},
			Memo: "Cold chain delivery",
		},
		{
			PONumber:     "PO-2024-0002",
			SupplierName: "Seoul Packaging Co.",
			Items: []models.LineItem{
				{SKUCode: "SKU-PKG-010", ProductName: "Insulated box (L)", Quantity: 500, Unit: "EA"},
			},
		},
		{
			PONumber:     "PO-2024-0003",
			SupplierName: "Da Nang Seafood",
			Items: []models.LineItem{
				{SKUCode: "SKU-SHRIMP-02", ProductName: "Frozen shrimp 1kg", Quantity: 60, Unit: "BOX"},
				{SKUCode: "SKU-SQUID-01", ProductName: "Squid 500g", Quantity: 40, Unit: "BOX"},
				{SKUCode: "SKU-ICE-PACK", ProductName: "Ice pack", Quantity: 200, Unit: "EA"},
			},
			Memo: "Partial delivery allowed",
		},
	}
}

// SeedInboundRequests chèn dữ liệu mẫu nếu kho đang trống.
func SeedInboundRequests(ctx context.Context, repo repository.InboundRequestRepository, logger *zap.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Inbound requests already exist. Seeding skipped.", zap.Int("count", count))
		return nil
	}

	for _, sample := range SampleInboundRequests() {
		sample := sample
		if _, err := repo.Create(ctx, &sample); err != nil {
			return err
		}
	}
	logger.Info("Inbound requests seeded successfully.", zap.Int("count", len(SampleInboundRequests())))
	return nil
}

// SeedSuperAdmin tạo tài khoản superadmin nếu chưa có.
func SeedSuperAdmin(ctx context.Context, users repository.UserRepository, cfg config.AdminConfig, logger *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("Admin credentials not configured. Seeding skipped.")
		return nil
	}

	_, err := users.GetByEmail(ctx, cfg.Email)
	if err == nil {
		logger.Info("Super admin already exists. Seeding skipped.")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	superAdmin := &models.User{
		Email:        strings.ToLower(cfg.Email),
		Name:         cfg.Name,
		PasswordHash: hashedPassword,
		Role:         auth.RoleSuperAdmin,
		Status:       "active",
		CreatedAt:    time.Now(),
	}
	if err := users.Create(ctx, superAdmin); err != nil && !errors.Is(err, repository.ErrUserExists) {
		return err
	}

	logger.Info("Super admin seeded successfully.", zap.String("email", superAdmin.Email))
	return nil
}
