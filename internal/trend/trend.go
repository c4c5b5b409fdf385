// Package trend maintains a service-wide popularity ranking of listing
// keywords, aggregated from every user's favorites. The ranking seeds
// recommendations for users that have no favorites of their own yet.
package trend

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

const (
	trendKey  = "trend:keywords"
	rankDepth = 50
)

// Scheduler wraps robfig/cron and periodically refreshes the keyword ranking
// in Redis from the relational favorites data.
type Scheduler struct {
	cron *cron.Cron
	pool *pgxpool.Pool
	rdb  *redis.Client
	spec string // cron spec, e.g. "@every 1h"
}

// New creates a Scheduler that refreshes the ranking every intervalMinutes.
func New(pool *pgxpool.Pool, rdb *redis.Client, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool: pool,
		rdb:  rdb,
		spec: fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the refresh job and starts the scheduler. Also refreshes
// once immediately so the ranking is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[trend] Cron started, spec: %s", s.spec)

	go s.refresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[trend] Cron stopped")
}

// Top returns the n most favorited keywords, highest count first. When the
// Redis ranking is empty or unreachable it falls back to aggregating directly
// from storage.
func (s *Scheduler) Top(ctx context.Context, n int) []string {
	keywords, err := s.rdb.ZRevRange(ctx, trendKey, 0, int64(n-1)).Result()
	if err == nil && len(keywords) > 0 {
		return keywords
	}
	if err != nil {
		log.Printf("[trend] ranking read failed, falling back to storage: %v", err)
	}

	keywords, err = s.aggregate(ctx, n)
	if err != nil {
		log.Printf("[trend] storage fallback failed: %v", err)
		return nil
	}
	return keywords
}

// refresh recomputes the ranking and replaces the Redis sorted set.
func (s *Scheduler) refresh(ctx context.Context) {
	log.Println("[trend] Refresh cycle started")

	rows, err := s.pool.Query(ctx, `
		SELECT k.keyword, COUNT(*) AS favorited
		FROM keywords k
		JOIN favorites f ON f.listing_id = k.listing_id
		GROUP BY k.keyword
		ORDER BY favorited DESC, k.keyword
		LIMIT $1`,
		rankDepth,
	)
	if err != nil {
		log.Printf("[trend] aggregate query error: %v", err)
		return
	}
	defer rows.Close()

	var members []redis.Z
	for rows.Next() {
		var keyword string
		var count int64
		if err := rows.Scan(&keyword, &count); err != nil {
			log.Printf("[trend] scan error: %v", err)
			return
		}
		members = append(members, redis.Z{Score: float64(count), Member: keyword})
	}
	if err := rows.Err(); err != nil {
		log.Printf("[trend] aggregate rows error: %v", err)
		return
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, trendKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, trendKey, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[trend] ranking write error: %v", err)
		return
	}

	log.Printf("[trend] Refresh cycle complete, %d keyword(s) ranked", len(members))
}

// aggregate computes the top n keywords straight from storage.
func (s *Scheduler) aggregate(ctx context.Context, n int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT k.keyword
		FROM keywords k
		JOIN favorites f ON f.listing_id = k.listing_id
		GROUP BY k.keyword
		ORDER BY COUNT(*) DESC, k.keyword
		LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var keyword string
		if err := rows.Scan(&keyword); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, keyword)
	}
	return keywords, rows.Err()
}
