package store

import (
	"context"
	"fmt"
	"time"

	chx "osmwatch/internal/platform/store/ch"
	"osmwatch/internal/platform/store/pg"
)

// openPG opens the pool, waits for it to answer, then wraps it in the
// traced adapter. Pinging the raw pool keeps trace lines out of startup
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	if err := waitForPG(ctx, p, cfg.PG); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// waitForPG pings with doubling backoff until postgres answers.
// Compose startup usually wins the race against the database, so be patient
func waitForPG(ctx context.Context, p *pg.PG, cfg PGConfig) error {
	const ceiling = 2 * time.Second

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var lastErr error
	wait := 150 * time.Millisecond
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		time.Sleep(wait)
		if wait *= 2; wait > ceiling {
			wait = ceiling
		}
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

// openCH dials clickhouse and wraps it in the seam adapter
func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
