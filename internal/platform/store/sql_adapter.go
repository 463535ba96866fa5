package store

import (
	"context"
	"errors"
	"time"

	"osmwatch/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is the querying surface pgxpool.Pool and pgx.Tx have in common.
// Pool statements and in-tx statements run through the same traced path
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced implements RowQuerier over one pgx surface and reports every
// statement to the configured tracer with wall time attached
type traced struct {
	conn   pgxConn
	tracer pg.QueryTracer
	slowUS int64
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.conn.Exec(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	return cmdTag{ct}, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.conn.Query(ctx, sql, args...)
	// timing covers the open, not the scans that follow
	t.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs: rs}, nil
}

func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	// the event fires after Scan so it carries the scan error and covers
	// the full round trip
	return pgxRow{
		r: t.conn.QueryRow(ctx, sql, args...),
		scanned: func(scanErr error) {
			t.emit(ctx, sql, args, start, scanErr)
		},
	}
}

func (t traced) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	reqID, _ := RequestID(ctx)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ReqID:     reqID,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      t.slowUS >= 0 && elapsedUS >= t.slowUS,
	})
}

// pgAdapter exposes pg.PG through the store seams: RowQuerier via the
// embedded traced querier, plus Ping, Close and Tx
type pgAdapter struct {
	p *pg.PG
	traced
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		p:      p,
		traced: traced{conn: p.Pool, tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx runs fn inside a transaction, handing it a querier with the same
// tracer wiring as the pool path. fn returning an error rolls back
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	q := traced{conn: tx, tracer: a.tracer, slowUS: a.slowUS}
	if err := fn(q); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// thin pgx wrappers onto the store Row/Rows/CommandTag seams

type pgxRow struct {
	r       pgx.Row
	scanned func(error)
}

func (x pgxRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.scanned != nil {
		x.scanned(err)
	}
	return err
}

type pgxRows struct{ rs pgx.Rows }

func (x pgxRows) Next() bool            { return x.rs.Next() }
func (x pgxRows) Scan(dst ...any) error { return x.rs.Scan(dst...) }
func (x pgxRows) Err() error            { return x.rs.Err() }
func (x pgxRows) Close()                { x.rs.Close() }

func (x pgxRows) Columns() []string {
	fields := x.rs.FieldDescriptions()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f.Name)
	}
	return out
}

type cmdTag struct{ t pgconn.CommandTag }

func (t cmdTag) String() string      { return t.t.String() }
func (t cmdTag) RowsAffected() int64 { return t.t.RowsAffected() }
