package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vastra-wear/vastra/internal/config"
	"github.com/vastra-wear/vastra/internal/es"
	"github.com/vastra-wear/vastra/internal/events"
	"github.com/vastra-wear/vastra/internal/handlers"
	"github.com/vastra-wear/vastra/internal/logging"
	mwauth "github.com/vastra-wear/vastra/internal/middleware/auth"
	loggingmw "github.com/vastra-wear/vastra/internal/middleware/logging"
	"github.com/vastra-wear/vastra/internal/pricing"
	httpserver "github.com/vastra-wear/vastra/internal/transport/http"
	"github.com/vastra-wear/vastra/pkg/db"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel)

	gdb, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	esClient, err := es.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch init: %v", err)
	}

	policy := pricing.Policy{
		TaxRate:         cfg.TaxRate,
		ShippingFee:     cfg.ShippingFee,
		FreeShippingMin: cfg.FreeShippingMin,
	}

	tokens := &mwauth.TokenService{JWTSecret: cfg.JWTSecret}

	deps := &httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			DB:        gdb,
			JWTSecret: cfg.JWTSecret,
			Producer:  producer,
		},
		ProductHandler: &handlers.ProductHandler{
			DB:       gdb,
			Producer: producer,
			ES:       esClient,
			ESIndex:  cfg.ESIndex,
		},
		CategoryHandler: &handlers.CategoryHandler{DB: gdb},
		OrderHandler: &handlers.OrderHandler{
			DB:       gdb,
			Producer: producer,
			Policy:   policy,
		},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex},
		Tokens:        tokens,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Validator = httpserver.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
