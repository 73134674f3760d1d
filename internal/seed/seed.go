package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/internal/users"
	"github.com/smartinv/inventory-backend/pkg/config"
	"github.com/smartinv/inventory-backend/pkg/db"
	"github.com/smartinv/inventory-backend/pkg/db/models"
	"github.com/smartinv/inventory-backend/pkg/enums"
	"github.com/smartinv/inventory-backend/pkg/logger"
	"github.com/smartinv/inventory-backend/pkg/security"
)

// SuperAdminID is the fixed identity of the bootstrap account, stable across
// environments so existing tokens and references survive a reseed.
var SuperAdminID = uuid.MustParse("c636003c-ee51-4740-a35d-ba13ebf99105")

const (
	superAdminUsername = "superadmin"
	superAdminPassword = "superadmin123"
	superAdminEmail    = "admin@system.com"
	superAdminName     = "Super Admin"
)

// Seeder provisions the bootstrap account and demo catalog.
type Seeder struct {
	dbClient    *db.Client
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// New builds a seeder.
func New(dbClient *db.Client, passwordCfg config.PasswordConfig, logg *logger.Logger) (*Seeder, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Seeder{
		dbClient:    dbClient,
		passwordCfg: passwordCfg,
		logg:        logg,
	}, nil
}

// Run seeds the super admin and two demo products. The presence of the seed
// user makes the whole run a no-op, so startup can call this unconditionally.
func (s *Seeder) Run(ctx context.Context) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByID(ctx, SuperAdminID); err == nil {
			s.logg.Debug(ctx, "seed user present, skipping seed")
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check seed user: %w", err)
		}

		passwordHash, err := security.HashPassword(superAdminPassword, s.passwordCfg)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		email := superAdminEmail
		if _, err := userRepo.Create(ctx, users.CreateUserDTO{
			ID:           SuperAdminID,
			Username:     superAdminUsername,
			Email:        &email,
			PasswordHash: passwordHash,
			Name:         superAdminName,
			Role:         enums.UserRoleSuperAdmin,
		}); err != nil {
			return fmt.Errorf("create seed user: %w", err)
		}

		for _, product := range seedProducts() {
			if err := tx.WithContext(ctx).Create(product).Error; err != nil {
				return fmt.Errorf("create seed product %s: %w", product.SKU, err)
			}
		}

		s.logg.Info(ctx, "seeded super admin and demo products")
		return nil
	})
}

func seedProducts() []*models.Product {
	return []*models.Product{
		{
			SKU:      "LAP-001",
			Name:     "MacBook Pro M3 14\"",
			Category: "Electronics",
			Price:    decimal.NewFromInt(1999),
			Stock:    12,
			MinStock: 10,
		},
		{
			SKU:      "PHN-001",
			Name:     "iPhone 15 Pro Max",
			Category: "Electronics",
			Price:    decimal.NewFromInt(1199),
			Stock:    5,
			MinStock: 8,
		},
	}
}
