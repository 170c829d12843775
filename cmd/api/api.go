package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/storage"
	"github.com/SameerRifat/e-commerce-sub001/internal/ratelimiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// cacheInvalidator drops cached catalog reads after admin writes.
type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type application struct {
	config       config
	store        *storage.Container
	logger       *zap.SugaredLogger
	rateLimiter  ratelimiter.Limiter
	catalogCache cacheInvalidator
}

type config struct {
	addr              string
	env               string
	logLevel          string
	db                dbConfig
	redis             redisConfig
	auth              authConfig
	rateLimiter       ratelimiter.Config
	orderNumberSecret string
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type redisConfig struct {
	addr     string
	password string
	db       int
	cacheTTL time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cartTokenHeader},
		ExposedHeaders:   []string{"Link", cartTokenHeader},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	if app.config.rateLimiter.Enabled {
		r.Use(app.RateLimiterMiddleware)
	}

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/store", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", app.listProductsHandler)
				r.Get("/filters", app.filterOptionsHandler)
				r.Route("/{productID}", func(r chi.Router) {
					r.Get("/", app.getProductHandler)
					r.Get("/selection", app.resolveSelectionHandler)
					r.Get("/reviews", app.listReviewsHandler)
				})
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", app.getCartHandler)
				r.Delete("/", app.clearCartHandler)
				r.Post("/items", app.addCartItemHandler)
				r.Patch("/items/{itemID}", app.updateCartItemQtyHandler)
				r.Delete("/items/{itemID}", app.removeCartItemHandler)
			})

			r.Post("/checkout", app.checkoutHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())

			r.Route("/dictionaries/{kind}", func(r chi.Router) {
				r.Get("/", app.adminListDictionaryHandler)
				r.Post("/", app.adminCreateDictionaryHandler)
				r.Delete("/{entryID}", app.adminDeleteDictionaryHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", app.adminListOrdersHandler)
				r.Patch("/status", app.adminBulkUpdateOrderStatusHandler)
				r.Get("/{orderID}", app.adminGetOrderHandler)
				r.Patch("/{orderID}/status", app.adminUpdateOrderStatusHandler)
			})

			r.Post("/cache/invalidate", app.adminInvalidateCatalogHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
