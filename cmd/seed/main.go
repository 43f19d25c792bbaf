// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"psi/internal/config"
	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/id"
	"psi/internal/domain/auth"
	"psi/internal/domain/catalogs/product"
	"psi/internal/domain/catalogs/supplier"
	"psi/internal/domain/enums"
	"psi/internal/domain/purchasing"
	"psi/internal/domain/receiving"
	"psi/internal/domain/reports"
	"psi/internal/infrastructure/storage/postgres"
	"psi/internal/infrastructure/storage/postgres/auth_repo"
	"psi/internal/infrastructure/storage/postgres/catalog_repo"
	"psi/internal/infrastructure/storage/postgres/dbutil"
	"psi/internal/infrastructure/storage/postgres/document_repo"
	"psi/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedStatuses(ctx, pool); err != nil {
		log.Fatalw("failed to seed receiving statuses", "error", err)
	}
	log.Info("receiving statuses seeded")

	admin, err := seedAdminUser(ctx, txManager)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, admin, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

var receivingStatuses = []struct {
	code    string
	display string
}{
	{enums.ReceivingDraft, "Draft"},
	{enums.ReceivingComplete, "Complete"},
	{enums.ReceivingCanceled, "Canceled"},
}

func seedStatuses(ctx context.Context, pool *postgres.Pool) error {
	for _, s := range receivingStatuses {
		_, err := pool.Exec(ctx, `
			INSERT INTO enum_values (id, type, code, display)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (type, code) DO NOTHING
		`, id.New(), enums.TypeReceivingStatus, s.code, s.display)
		if err != nil {
			return fmt.Errorf("insert status %s: %w", s.code, err)
		}
	}
	return nil
}

// seedAdminUser creates the admin account, or returns the existing one.
func seedAdminUser(ctx context.Context, txManager *postgres.TxManager) (*auth.User, error) {
	login := getEnv("ADMIN_LOGIN", "admin")
	password := getEnv("ADMIN_PASSWORD", "Admin123!")

	userRepo := auth_repo.NewUserRepo(txManager)
	existing, err := userRepo.GetByLogin(ctx, login)
	if err == nil {
		logger.Info(ctx, "admin user already exists", "login", login, "user_id", existing.ID.String())
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check admin exists: %w", err)
	}

	orgID := id.New()
	if raw := os.Getenv("ADMIN_ORGANIZATION_ID"); raw != "" {
		if orgID, err = id.Parse(raw); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ORGANIZATION_ID: %w", err)
		}
	}

	svc := auth.NewService(userRepo, txManager, nil, auth.DefaultServiceConfig())
	return svc.CreateUser(ctx, auth.NewUserRequest{
		Login:          login,
		Password:       password,
		OrganizationID: orgID,
		Roles:          []string{reports.SalesReportRole},
		IsAdmin:        true,
	})
}

// seedDemoData creates a supplier with two products, a purchase order and a
// draft receiving, all owned by the admin's organization.
func seedDemoData(ctx context.Context, txManager *postgres.TxManager, admin *auth.User, log *logger.Logger) error {
	log.Info("seeding demo data...")

	ctx = appctx.WithUser(ctx, &appctx.UserContext{
		UserID:         admin.ID.String(),
		Login:          admin.Login,
		OrganizationID: admin.OrganizationID,
		Roles:          admin.Roles,
		IsAdmin:        admin.IsAdmin,
	})

	store := dbutil.New(txManager)
	suppliers := supplier.NewService(catalog_repo.NewSupplierRepo(store), txManager, store)
	products := product.NewService(catalog_repo.NewProductRepo(store), txManager, store, store)
	statuses := enums.NewService(catalog_repo.NewEnumValueRepo(txManager))
	orders := purchasing.NewService(document_repo.NewPurchaseOrderRepo(store), store, store, txManager, nil)
	receivings := receiving.NewService(receiving.ServiceConfig{
		Repo:      document_repo.NewReceivingRepo(store),
		Store:     store,
		Orders:    orders,
		Statuses:  statuses,
		TxManager: txManager,
	})

	const supplierName = "Demo Supplier"
	if _, found, err := suppliers.FindByName(ctx, supplierName); err != nil {
		return err
	} else if found {
		log.Infow("demo data already present", "supplier", supplierName)
		return nil
	}

	sup := supplier.NewSupplier("", supplierName)
	sup.Mnemonic = "DEMO"
	if err := suppliers.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	demoProducts := []struct {
		name     string
		purchase string
		retail   string
	}{
		{"Office paper A4", "3.20", "4.99"},
		{"Ballpoint pen", "0.35", "0.90"},
	}

	po := purchasing.NewPurchaseOrder(admin.OrganizationID, sup.ID)
	for _, p := range demoProducts {
		prod := product.NewProduct("", p.name)
		prod.SupplierID = &sup.ID
		prod.PurchasePrice = decimal.RequireFromString(p.purchase)
		prod.RetailPrice = decimal.RequireFromString(p.retail)
		if err := products.Create(ctx, prod); err != nil {
			return fmt.Errorf("create product %q: %w", p.name, err)
		}
		po.AddLine(prod.ID, decimal.NewFromInt(10), prod.PurchasePrice)
	}

	if err := orders.Create(ctx, po); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}

	draft, err := findStatus(ctx, statuses, enums.ReceivingDraft)
	if err != nil {
		return err
	}

	rec := receiving.NewReceiving(po.ID, draft)
	for _, line := range po.Lines {
		rec.AddLine(line.ID, decimal.NewNullDecimal(line.Quantity), line.UnitPrice)
	}
	if err := receivings.Create(ctx, rec); err != nil {
		return fmt.Errorf("create receiving: %w", err)
	}

	log.Infow("demo data seeded", "supplier", sup.Code, "purchase_order", po.Code, "receiving", rec.ID.String())
	return nil
}

func findStatus(ctx context.Context, statuses *enums.Service, code string) (id.ID, error) {
	values, err := statuses.ReceivingStatuses(ctx)
	if err != nil {
		return id.Nil(), fmt.Errorf("list receiving statuses: %w", err)
	}
	for _, v := range values {
		if v.Code == code {
			return v.ID, nil
		}
	}
	return id.Nil(), fmt.Errorf("receiving status %s not found", code)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
