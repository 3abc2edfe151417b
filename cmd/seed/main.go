// Package main provides a CLI tool for seeding the database with initial data.
//
// It applies migrations, ensures the administrator, and with SEED_DEMO_DATA=true
// adds a demo catalog and client. Running it twice is harmless.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"airsolutions/internal/config"
	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/auth"
	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/infrastructure/storage/postgres"
	"airsolutions/internal/infrastructure/storage/postgres/auth_repo"
	"airsolutions/internal/infrastructure/storage/postgres/catalog_repo"
	"airsolutions/internal/infrastructure/storage/postgres/migrations"
	"airsolutions/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	// A local .env never overrides variables already set.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := context.Background()

	if err := migrations.Run(ctx, cfg.Database.URL); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Key:            cfg.JWT.Key,
		Issuer:         cfg.JWT.Issuer,
		Audience:       cfg.JWT.Audience,
		ExpiresMinutes: cfg.JWT.ExpiresMinutes,
	})
	if err != nil {
		log.Fatalw("invalid jwt configuration", "error", err)
	}
	authService := auth.NewService(auth_repo.NewUserRepo(txManager), jwtService, txManager)
	if err := authService.Bootstrap(ctx, auth.BootstrapConfig{
		Username: cfg.Bootstrap.AdminUsername,
		Password: cfg.Bootstrap.AdminPassword,
		FullName: cfg.Bootstrap.AdminFullName,
		Role:     cfg.Bootstrap.AdminRole,
	}); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}
	log.Infow("admin user ensured", "username", cfg.Bootstrap.AdminUsername)

	vouchers := fiscalvoucher.NewService(catalog_repo.NewFiscalVoucherRepo(txManager))
	if err := seedVouchers(ctx, vouchers, log); err != nil {
		log.Fatalw("failed to seed fiscal vouchers", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		items := catalogitem.NewService(catalog_repo.NewCatalogItemRepo(txManager), txManager)
		clients := client.NewService(catalog_repo.NewClientRepo(txManager), txManager)
		if err := seedDemoData(ctx, items, clients, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedVouchers(ctx context.Context, svc *fiscalvoucher.Service, log *logger.Logger) error {
	created := 0
	for _, number := range fiscalvoucher.SeedNumbers() {
		_, err := svc.Create(ctx, number, types.StringPtr(fiscalvoucher.DefaultType))
		if apperror.IsConflict(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("voucher %s: %w", number, err)
		}
		created++
	}
	log.Infow("fiscal vouchers seeded", "created", created)
	return nil
}

func seedDemoData(ctx context.Context, items *catalogitem.Service, clients *client.Service, log *logger.Logger) error {
	log.Info("seeding demo data...")

	existing, err := items.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing.Items) > 0 {
		log.Info("catalog already has items, skipping demo data")
		return nil
	}

	demoItems := []*catalogitem.CatalogItem{
		{
			Name:      "Mantenimiento de aire acondicionado",
			ItemType:  catalogitem.TypeService,
			Nivel:     types.StringPtr("Basico"),
			Unit:      types.StringPtr("unidad"),
			BasePrice: types.SomeMoney(types.MustMoney("2500")),
			IsTaxable: true,
		},
		{
			Name:      "Instalacion de split",
			ItemType:  catalogitem.TypeService,
			Nivel:     types.StringPtr("Estandar"),
			Unit:      types.StringPtr("unidad"),
			BasePrice: types.SomeMoney(types.MustMoney("6500")),
			IsTaxable: true,
		},
		{
			Name:      "Rejilla de difusion",
			ItemType:  catalogitem.TypeMaterial,
			Unit:      types.StringPtr("pieza"),
			BasePrice: types.SomeMoney(types.MustMoney("850")),
			Cost:      types.SomeMoney(types.MustMoney("500")),
			IsTaxable: true,
		},
		{
			Name:      "Tuberia de cobre 1/4",
			ItemType:  catalogitem.TypeMaterial,
			Unit:      types.StringPtr("pie"),
			BasePrice: types.SomeMoney(types.MustMoney("120")),
			Cost:      types.SomeMoney(types.MustMoney("80")),
			IsTaxable: true,
		},
	}
	for _, it := range demoItems {
		it.IsActive = true
		if _, err := items.Create(ctx, it); err != nil {
			return fmt.Errorf("catalog item %q: %w", it.Name, err)
		}
	}

	demoClient := &client.Client{
		ClientType: client.TypeIndividual,
		FirstName:  "Juan",
		LastName:   types.StringPtr("Perez"),
		Phone:      "809-555-0101",
		Address:    types.StringPtr("Santo Domingo"),
		IsActive:   true,
	}
	if _, err := clients.Create(ctx, demoClient); err != nil {
		return fmt.Errorf("demo client: %w", err)
	}

	log.Infow("demo data seeded", "catalog_items", len(demoItems), "clients", 1)
	return nil
}
