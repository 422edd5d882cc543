package main

import (
	"fmt"
	"log"

	"invparser/internal/config"
	"invparser/internal/extractor"
	_ "invparser/internal/extractor/oci"
	_ "invparser/internal/extractor/stub"
	"invparser/internal/handler"
	"invparser/internal/repository/sqldb"
	"invparser/internal/router"
	"invparser/internal/service"
	"invparser/internal/storage/noop"
	s3storage "invparser/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqldb.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := sqldb.NewInvoiceRepo(db)

	// Initialize storage; without a bucket the raw uploads are discarded
	storage := noop.NewNoopStorage()
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize the extraction provider
	invExtractor, err := extractor.NewExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Initialize services
	invoiceSvc := service.NewInvoiceService(invoiceRepo, invExtractor, storage, &cfg.Extractor, &cfg.S3)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(db, cfg.DB.Backend)

	// Setup router
	r := router.Setup(invoiceH, healthH)

	log.Printf("Server starting on %s (db backend: %s, extractor: %s)",
		cfg.Server.Port, cfg.DB.Backend, cfg.Extractor.Provider)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
