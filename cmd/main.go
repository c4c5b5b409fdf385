// jobrec-search-service
//
// Location-aware job search and recommendation backend.
// Exposes a REST API used by the web frontend to implement:
//   - /search         - geo-targeted job search with keyword enrichment
//   - /recommendation - listings matched to the user's favorite keywords
//   - /history        - favorite / unfavorite listings, list favorites
//   - /register, /login, /logout - account lifecycle
//
// Search results are cached in Redis; listings, keywords and favorite edges
// are persisted in PostgreSQL. A cron job keeps a service-wide trending
// keyword ranking warm for users without favorites.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobrec/search-service/internal/account"
	"jobrec/search-service/internal/cache"
	"jobrec/search-service/internal/config"
	"jobrec/search-service/internal/db"
	"jobrec/search-service/internal/external"
	"jobrec/search-service/internal/geo"
	"jobrec/search-service/internal/history"
	"jobrec/search-service/internal/search"
	"jobrec/search-service/internal/session"
	"jobrec/search-service/internal/store"
	"jobrec/search-service/internal/trend"
)

const version = "1.0.0"

func main() {
	// .env is a local-dev convenience; absence is fine in prod.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[search-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[search-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[search-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[search-service] PostgreSQL connected ✓")

	log.Println("[search-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[search-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[search-service] Redis connected ✓")

	st := store.New(pool)
	if err := st.Init(ctx); err != nil {
		log.Fatalf("[search-service] Schema init: %v", err)
	}

	resultCache := cache.New(rdb, cfg.CacheTTL)
	sessions := session.NewManager(rdb, cfg.SessionTTL, cfg.IsProduction())

	extractor := external.NewEdenClient(cfg.EdenAIKey)
	searcher := external.NewSerpClient(cfg.SerpAPIKey, cfg.DefaultKeyword, cfg.ResultsLimit,
		geo.NewUULEConverter(), extractor)

	trends := trend.New(pool, rdb, cfg.TrendIntervalMinutes)
	if err := trends.Start(ctx); err != nil {
		log.Fatalf("[search-service] Trend scheduler: %v", err)
	}
	defer trends.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	search.NewHandler(searcher, resultCache, st, sessions, trends, cfg.ResultsLimit).RegisterRoutes(mux)
	account.NewHandler(st, sessions).RegisterRoutes(mux)
	history.NewHandler(st, resultCache, sessions).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second, // search fans out to external APIs
	}

	go func() {
		log.Printf("[search-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[search-service] HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[search-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[search-service] Shutdown error: %v", err)
	}
	log.Println("[search-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "search-service",
		"version": version,
	})
}
