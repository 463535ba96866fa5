package store

import (
	"context"
	"fmt"

	chx "osmwatch/internal/platform/store/ch"
)

// chAdapter maps the ch client onto the store Clickhouse seam
type chAdapter struct {
	inner *chx.CH
}

func newCHAdapter(inner *chx.CH) *chAdapter { return &chAdapter{inner: inner} }

// Insert narrows the payload to row tuples and batches them in
func (a *chAdapter) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("ch insert into %s: unsupported payload %T", table, data)
	}
	return a.inner.Insert(ctx, table, rows)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := a.inner.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r: rs}, nil
}

func (a *chAdapter) Ping(ctx context.Context) error { return a.inner.Ping(ctx) }

func (a *chAdapter) Close() error { return a.inner.Close() }

// chRows narrows ch rows to the store Rows contract
type chRows struct{ r chx.Rows }

func (x chRows) Next() bool            { return x.r.Next() }
func (x chRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x chRows) Err() error            { return x.r.Err() }
func (x chRows) Close()                { _ = x.r.Close() }
func (x chRows) Columns() []string     { return x.r.Columns() }
