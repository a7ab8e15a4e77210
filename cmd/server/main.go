package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selectmedia/invoicing/internal/application/invoicing"
	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/infrastructure/cache"
	"github.com/selectmedia/invoicing/internal/infrastructure/config"
	"github.com/selectmedia/invoicing/internal/infrastructure/logger"
	"github.com/selectmedia/invoicing/internal/infrastructure/printing"
	"github.com/selectmedia/invoicing/internal/interfaces/http/handler"
	"github.com/selectmedia/invoicing/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := printing.NewTemplateEngine()
	if err != nil {
		log.Fatal("failed to initialize template engine", zap.Error(err))
	}

	pdfRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Chrome.RenderTimeout,
		RemoteURL:      cfg.Chrome.RemoteURL,
		NoSandbox:      cfg.Chrome.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Warn("failed to close PDF renderer", zap.Error(err))
		}
	}()

	store, err := cache.NewInvoiceStore(cfg.Store, cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to initialize invoice store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close invoice store", zap.Error(err))
		}
	}()

	company := companyProfile(cfg.Company)

	invoiceService := invoicing.NewInvoiceService(
		store,
		engine,
		pdfRenderer,
		company,
		cfg.Assets.LogoPath,
		log,
	)

	invoiceHandler := handler.NewInvoiceHandler(invoiceService, engine, company)

	r := router.New(log, invoiceHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("store_backend", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// companyProfile merges configured letterhead fields over the built-in
// profile; blank config fields keep the defaults
func companyProfile(cfg config.CompanyConfig) invoice.CompanyProfile {
	company := invoice.DefaultCompanyProfile()
	if cfg.Name != "" {
		company.Name = cfg.Name
	}
	if cfg.GSTIN != "" {
		company.GSTIN = cfg.GSTIN
	}
	if cfg.Address != "" {
		company.Address = cfg.Address
	}
	if cfg.Phone != "" {
		company.Phone = cfg.Phone
	}
	if cfg.BankDetails != "" {
		company.BankDetails = cfg.BankDetails
	}
	return company
}
