// Package main is the entry point for the onmuhasebe API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/catalogs/product"
	"onmuhasebe/internal/domain/invoice"
	"onmuhasebe/internal/domain/orders"
	"onmuhasebe/internal/domain/registers/cash"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
	v1 "onmuhasebe/internal/infrastructure/http/v1"
	"onmuhasebe/internal/infrastructure/storage/postgres"
	"onmuhasebe/internal/infrastructure/storage/postgres/catalog_repo"
	"onmuhasebe/internal/infrastructure/storage/postgres/invoice_repo"
	"onmuhasebe/internal/infrastructure/storage/postgres/order_repo"
	"onmuhasebe/internal/infrastructure/storage/postgres/register_repo"
	"onmuhasebe/pkg/logger"
	"onmuhasebe/pkg/numerator"
)

// Config holds server configuration, read from the environment.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        string `envconfig:"PORT" default:"8080"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"DEVELOPMENT" default:"false"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("app", &cfg); err != nil {
		fmt.Printf("failed to read configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting onmuhasebe server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(pool)

	// --- Repositories ---
	invoiceRepo := invoice_repo.NewRepo(txManager)
	orderRepo := order_repo.NewRepo(txManager)
	counterpartyRepo := catalog_repo.NewCounterpartyRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	cashRepo := register_repo.NewCashRepo(txManager)
	ledgerRepo := register_repo.NewLedgerRepo(txManager)
	cashflowRepo := register_repo.NewCashflowRepo(txManager)

	// --- Services ---
	counterpartyService := counterparty.NewService(counterpartyRepo, numeratorService)
	productService := product.NewService(productRepo, numeratorService)
	stockService := stock.NewService(stockRepo)
	cashService := cash.NewService(cashRepo)
	ledgerService := ledger.NewService(ledgerRepo)
	cashflowService := cashflow.NewService(cashflowRepo)

	invoiceService := invoice.NewService(
		invoiceRepo,
		counterpartyRepo,
		productRepo,
		stockService,
		cashService,
		ledgerService,
		cashflowService,
		numeratorService,
		txManager,
	)

	// Registers itself as the invoice service's order resetter.
	orderService := orders.NewService(orderRepo, invoiceService, numeratorService, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		Invoices:       invoiceService,
		Orders:         orderService,
		Counterparties: counterpartyService,
		Products:       productService,
		CashAccounts:   cashService,
		Stock:          stockService,
		Ledger:         ledgerService,
		Cashflow:       cashflowService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}
