package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storesearch/internal/apps"
	"storesearch/internal/auth"
	"storesearch/internal/lookup"
	"storesearch/internal/metrics"
	"storesearch/pkg/database"
	"storesearch/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	lookupCfg := utils.LoadLookupConfig()
	appStore := lookup.NewAppStoreClient(lookupCfg.AppStoreLookupURL)
	appStore.Username = lookupCfg.Username
	appStore.Password = lookupCfg.Password
	appStore.Tries = lookupCfg.Tries
	appStore.Timeout = lookupCfg.AttemptTimeout
	appStore.Backoff = lookupCfg.RetryBackoff
	playStore := lookup.NewPlayStoreClient(lookupCfg.PlayStoreURL)
	router := lookup.NewRouter(appStore, playStore)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	engine := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = engine.SetTrustedProxies([]string{"127.0.0.1"})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	engine.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokens := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokens)
	authHandler.RegisterRoutes(engine.Group("/auth"))

	// Lookups (protected)
	api := engine.Group("/api/v1")
	api.Use(auth.Middleware(tokens))
	apps.NewHandler(router, m).RegisterRoutes(api)

	srvCfg := utils.LoadServerConfig()
	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
