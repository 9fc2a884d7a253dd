package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/backend"
	"storefront/internal/cache"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/logging"
	"storefront/internal/repository"
	"storefront/internal/routes"
)

var (
	envFile string
	port    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront presentation server",
	Long: `Serves the cart, blog, contact and about pages of the store.
Product, content and business data come from the store backend (BACKEND_URL).`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "path to an env file")
	rootCmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.LoadConfig(envFile, log)
	if port != "" {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		// pages backed by the API answer 503 until this is fixed
		log.Warn("configuration incomplete", zap.Error(err))
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	responses := cache.New(cfg.CacheTTL, 5*time.Minute)
	defer responses.Close()
	api := backend.New(cfg.BackendURL, cfg.BackendTimeout, responses, log)

	var carts repository.CartRepository
	if cfg.MongoURI != "" {
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn("mongo disconnect", zap.Error(err))
			}
		}()
		carts = repository.NewMongoCarts(client.Database(cfg.MongoDB).Collection("carts"))
		log.Info("carts stored in mongo", zap.String("db", cfg.MongoDB))
	} else {
		carts = repository.NewMemoryCarts()
		log.Info("carts kept in memory (MONGO_URI not set)")
	}

	shop := cart.NewService(carts, api, cfg.DeliveryFee, log)
	h := handlers.New(api, shop, cfg.MapsAPIKey, log)
	router := routes.NewRouter(h, cfg.CORSOrigins, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	return nil
}
