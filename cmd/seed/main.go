// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/catalogs/product"
	"onmuhasebe/internal/domain/invoice"
	"onmuhasebe/internal/domain/registers/cash"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
	"onmuhasebe/internal/infrastructure/storage/postgres"
	"onmuhasebe/internal/infrastructure/storage/postgres/catalog_repo"
	"onmuhasebe/internal/infrastructure/storage/postgres/invoice_repo"
	"onmuhasebe/internal/infrastructure/storage/postgres/register_repo"
	"onmuhasebe/pkg/logger"
	"onmuhasebe/pkg/numerator"
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

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	num := numerator.New(pool)

	counterpartyService := counterparty.NewService(catalog_repo.NewCounterpartyRepo(txManager), num)
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), num)
	cashService := cash.NewService(register_repo.NewCashRepo(txManager))

	invoiceService := invoice.NewService(
		invoice_repo.NewRepo(txManager),
		catalog_repo.NewCounterpartyRepo(txManager),
		catalog_repo.NewProductRepo(txManager),
		stock.NewService(register_repo.NewStockRepo(txManager)),
		cashService,
		ledger.NewService(register_repo.NewLedgerRepo(txManager)),
		cashflow.NewService(register_repo.NewCashflowRepo(txManager)),
		num,
		txManager,
	)

	// The walk-in customer for retail sales
	retail := counterparty.New("Perakende Musteri", counterparty.TypeRetail)
	if err := counterpartyService.Create(ctx, retail); err != nil {
		log.Fatalw("failed to seed retail counterparty", "error", err)
	}
	log.Infow("retail counterparty created", "code", retail.Code)

	mainCash := cash.NewAccount("Ana Kasa")
	if err := cashService.Create(ctx, mainCash); err != nil {
		log.Fatalw("failed to seed cash account", "error", err)
	}
	log.Infow("cash account created", "id", mainCash.ID)

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, log, counterpartyService, productService, invoiceService, mainCash); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedDemoData creates a supplier, two products and an opening purchase
// invoice so the fresh database has stock and balances to play with.
func seedDemoData(
	ctx context.Context,
	log *logger.Logger,
	counterparties *counterparty.Service,
	products *product.Service,
	invoices *invoice.Service,
	account *cash.Account,
) error {
	supplier := counterparty.New("Demo Tedarik A.S.", counterparty.TypeSupplier)
	supplier.TaxNumber = "1234567890"
	if err := counterparties.Create(ctx, supplier); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	widget := product.New("Demo Urun")
	widget.PurchasePrice = types.MustMoney("60")
	widget.SalePrice = types.MustMoney("100")
	widget.VATRate = types.MustMoney("18")
	if err := products.Create(ctx, widget); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	gadget := product.New("Demo Urun 2")
	gadget.PurchasePrice = types.MustMoney("25")
	gadget.SalePrice = types.MustMoney("40")
	gadget.VATRate = types.MustMoney("8")
	if err := products.Create(ctx, gadget); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	// Purchase stock on open account
	inv := invoice.New(invoice.TypePurchase, supplier.ID)
	inv.AddLine(widget.ID, types.MustMoney("50"), widget.PurchasePrice, widget.VATRate)
	inv.AddLine(gadget.ID, types.MustMoney("100"), gadget.PurchasePrice, gadget.VATRate)
	if err := invoices.Create(ctx, inv); err != nil {
		return fmt.Errorf("create purchase invoice: %w", err)
	}

	log.Infow("demo data created",
		"supplier", supplier.Code,
		"products", 2,
		"purchase_invoice", inv.Number,
		"cash_account", account.Name,
	)

	return nil
}
