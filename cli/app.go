package cli

import (
	"context"
	"errors"

	"github.com/feraszen/keytop-fresh/cart"
	"github.com/feraszen/keytop-fresh/checkout"
	"github.com/feraszen/keytop-fresh/config"
	"github.com/feraszen/keytop-fresh/controllers"
	"github.com/feraszen/keytop-fresh/database"
	"github.com/feraszen/keytop-fresh/events"
	"github.com/feraszen/keytop-fresh/invoice"
	"github.com/feraszen/keytop-fresh/logger"
	"github.com/feraszen/keytop-fresh/menu"
	"github.com/feraszen/keytop-fresh/metrics"
	"github.com/feraszen/keytop-fresh/pricing"
	"github.com/feraszen/keytop-fresh/reviews"
	"github.com/feraszen/keytop-fresh/routes"
	"github.com/feraszen/keytop-fresh/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// app is the wired dependency graph shared by the commands.
type app struct {
	cfg       config.Config
	log       *zap.Logger
	store     *store.Store
	menu      *menu.Menu
	engine    *cart.Engine
	finalizer *checkout.Finalizer
	rotator   *reviews.Rotator
	publisher events.Publisher
	metrics   metrics.Recorder
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	m, err := menu.Load(cfg.MenuPath)
	if err != nil {
		return nil, err
	}
	rot, err := reviews.NewRotator(reviews.Default, log)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	pub, err := events.Open(ctx, cfg, log)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	rec := metrics.Open(ctx, cfg, log)

	notify := cart.NotifierFunc(func(ctx context.Context, message string) {
		logger.For(ctx, log).Info("notify", zap.String("message", message))
	})
	finOpts := []checkout.Option{
		checkout.WithPublisher(pub),
		checkout.WithNotifier(notify),
		checkout.WithMetrics(rec),
	}
	if cfg.InvoiceBucket != "" {
		awsCfg, err := database.LoadAWSConfig(ctx, log)
		if err != nil {
			_ = pub.Close()
			_ = s.Close()
			return nil, err
		}
		finOpts = append(finOpts, checkout.WithArchiver(invoice.NewS3Archiver(awsCfg, cfg.InvoiceBucket, cfg.InvoicePrefix, log)))
	}

	engine := cart.NewEngine(s, notify, log)
	fin := checkout.NewFinalizer(engine, s, pricing.NewCalculator(cfg.TaxRate), log, finOpts...)

	return &app{
		cfg:       cfg,
		log:       log,
		store:     s,
		menu:      m,
		engine:    engine,
		finalizer: fin,
		rotator:   rot,
		publisher: pub,
		metrics:   rec,
	}, nil
}

func (a *app) router() *gin.Engine {
	if a.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return routes.NewRouter(routes.Controllers{
		Cart:     controllers.NewCartController(a.engine, pricing.NewCalculator(a.cfg.TaxRate), a.menu),
		Checkout: controllers.NewCheckoutController(a.finalizer),
		Catalog:  controllers.NewCatalogController(a.menu, a.rotator),
	}, routes.Options{
		Metrics:            a.metrics,
		AllowedOrigins:     a.cfg.AllowedOrigins,
		RateLimitPerMinute: a.cfg.RateLimitPerMinute,
		RateLimitBurst:     a.cfg.RateLimitBurst,
	}, a.log)
}

func (a *app) Close() error {
	return errors.Join(a.publisher.Close(), a.store.Close())
}
