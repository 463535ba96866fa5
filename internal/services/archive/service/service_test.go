package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/modkit/repokit"
	perr "osmwatch/internal/platform/errors"
	"osmwatch/internal/platform/store"
	"osmwatch/internal/services/archive/domain"
)

type fakeRepo struct {
	order     []string
	upserted  []changeset.Changeset
	upsertErr error
	run       domain.Run
	runErr    error
	last      domain.Run
	lastErr   error
	total     int64
	totalErr  error
}

func (f *fakeRepo) EnsureSchema(ctx context.Context) error {
	f.order = append(f.order, "schema")
	return nil
}

func (f *fakeRepo) UpsertChangesets(ctx context.Context, cs []changeset.Changeset) (int, error) {
	f.order = append(f.order, "upsert")
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.upserted = cs
	return len(cs), nil
}

func (f *fakeRepo) InsertRun(ctx context.Context, run domain.Run) error {
	f.order = append(f.order, "run")
	f.run = run
	return f.runErr
}

func (f *fakeRepo) LastRun(ctx context.Context, source string) (domain.Run, error) {
	f.order = append(f.order, "last:"+source)
	if f.lastErr != nil {
		return domain.Run{}, f.lastErr
	}
	return f.last, nil
}

func (f *fakeRepo) CountChangesets(ctx context.Context) (int64, error) {
	f.order = append(f.order, "count")
	return f.total, f.totalErr
}

type fakeBinder struct{ repo *fakeRepo }

func (b fakeBinder) Bind(q repokit.Queryer) domain.StorageRepo { return b.repo }

type fakeTx struct {
	txCalls  int
	txErr    error
	failOnce error
	lastCtx  context.Context
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	return nil, nil
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (repokit.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) repokit.Row { return nil }

func (f *fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	f.txCalls++
	f.lastCtx = ctx
	if f.failOnce != nil {
		err := f.failOnce
		f.failOnce = nil
		return err
	}
	if f.txErr != nil {
		return f.txErr
	}
	return fn(f)
}

func newTestService(repo *fakeRepo, tx *fakeTx) *Service {
	return New(tx, fakeBinder{repo: repo})
}

func TestArchiveRun_AssignsIDAndDefaults(t *testing.T) {
	repo := &fakeRepo{}
	tx := &fakeTx{}
	svc := newTestService(repo, tx)

	cs := []changeset.Changeset{
		{ID: 1, User: "haycam", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, User: "haycam", CreatedAt: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)},
	}
	run := domain.Run{
		Source:    domain.SourceRest,
		StartedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Users:     32,
	}

	id, err := svc.ArchiveRun(context.Background(), run, cs)
	if err != nil {
		t.Fatalf("ArchiveRun: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("run id not assigned")
	}
	if repo.run.ID != id {
		t.Fatalf("ledger id %s, returned %s", repo.run.ID, id)
	}
	if repo.run.Status != domain.StatusOK {
		t.Fatalf("status = %q, want ok default", repo.run.Status)
	}
	if repo.run.FinishedAt.IsZero() {
		t.Fatal("finished_at not defaulted")
	}
	if repo.run.Changesets != 2 {
		t.Fatalf("changesets = %d, want 2", repo.run.Changesets)
	}
	if len(repo.upserted) != 2 {
		t.Fatalf("upserted %d rows, want 2", len(repo.upserted))
	}
	if tx.txCalls != 1 {
		t.Fatalf("tx calls = %d, want 1", tx.txCalls)
	}
	if len(repo.order) != 3 || repo.order[0] != "upsert" || repo.order[1] != "run" || repo.order[2] != "count" {
		t.Fatalf("call order = %v", repo.order)
	}

	// a second run gets its own id
	id2, err := svc.ArchiveRun(context.Background(), run, cs)
	if err != nil {
		t.Fatalf("ArchiveRun second: %v", err)
	}
	if id2 == id {
		t.Fatal("second run reused the first id")
	}
}

func TestArchiveRun_StampsRunIDOnContext(t *testing.T) {
	repo := &fakeRepo{}
	tx := &fakeTx{}
	svc := newTestService(repo, tx)

	id, err := svc.ArchiveRun(context.Background(), domain.Run{Source: domain.SourceRest}, nil)
	if err != nil {
		t.Fatalf("ArchiveRun: %v", err)
	}

	// the transaction context carries the run id for the SQL tracer
	got, ok := store.RequestID(tx.lastCtx)
	if !ok || got != id.String() {
		t.Fatalf("tx context id = %q, %v, want %q", got, ok, id.String())
	}
}

func TestArchiveRun_KeepsCallerFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeTx{})

	done := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	run := domain.Run{
		Source:     domain.SourcePlanet,
		StartedAt:  done.Add(-time.Hour),
		FinishedAt: done,
		Users:      32,
		Changesets: 7, // REST totals count boxless rows the archive never stores
		Status:     domain.StatusError,
		Error:      "osm transient server error",
	}

	if _, err := svc.ArchiveRun(context.Background(), run, nil); err != nil {
		t.Fatalf("ArchiveRun: %v", err)
	}
	if repo.run.Status != domain.StatusError || repo.run.Error != "osm transient server error" {
		t.Fatalf("status fields clobbered: %+v", repo.run)
	}
	if repo.run.Changesets != 7 {
		t.Fatalf("changesets = %d, want caller's 7", repo.run.Changesets)
	}
	if !repo.run.FinishedAt.Equal(done) {
		t.Fatalf("finished_at = %v, want %v", repo.run.FinishedAt, done)
	}
}

func TestArchiveRun_UpsertFailureSkipsLedger(t *testing.T) {
	boom := errors.New("conn reset")
	repo := &fakeRepo{upsertErr: boom}
	svc := newTestService(repo, &fakeTx{})

	id, err := svc.ArchiveRun(context.Background(), domain.Run{Source: domain.SourceRest}, []changeset.Changeset{{ID: 1}})
	if !errors.Is(err, boom) {
		t.Fatalf("want upsert error, got %v", err)
	}
	if id != uuid.Nil {
		t.Fatalf("id = %s, want nil on failure", id)
	}
	for _, step := range repo.order {
		if step == "run" {
			t.Fatal("ledger written after failed upsert")
		}
	}
}

func TestArchiveRun_TxFailureSurfaces(t *testing.T) {
	boom := errors.New("begin failed")
	tx := &fakeTx{txErr: boom}
	svc := newTestService(&fakeRepo{}, tx)

	id, err := svc.ArchiveRun(context.Background(), domain.Run{Source: domain.SourceRest}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want tx error, got %v", err)
	}
	if id != uuid.Nil {
		t.Fatalf("id = %s, want nil on failure", id)
	}
	if tx.txCalls != 1 {
		t.Fatalf("tx calls = %d, want 1 (plain errors are not retried)", tx.txCalls)
	}
}

func TestArchiveRun_RetriesOnceOnSerialization(t *testing.T) {
	serial := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}

	// first attempt fails retryably, second succeeds
	repo := &fakeRepo{}
	tx := &fakeTx{failOnce: serial}
	svc := newTestService(repo, tx)

	id, err := svc.ArchiveRun(context.Background(), domain.Run{Source: domain.SourceRest},
		[]changeset.Changeset{{ID: 7, User: "haycam"}})
	if err != nil {
		t.Fatalf("want success after retry, got %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("want a run id after successful retry")
	}
	if tx.txCalls != 2 {
		t.Fatalf("tx calls = %d, want 2", tx.txCalls)
	}

	// a persistent retryable error stops after the single retry
	tx2 := &fakeTx{txErr: serial}
	svc2 := newTestService(&fakeRepo{}, tx2)
	if _, err := svc2.ArchiveRun(context.Background(), domain.Run{Source: domain.SourceRest}, nil); err == nil {
		t.Fatal("want error when every attempt fails")
	}
	if tx2.txCalls != 2 {
		t.Fatalf("tx calls = %d, want 2 (one retry only)", tx2.txCalls)
	}
}

func TestArchiveRun_CountFailureRollsBack(t *testing.T) {
	boom := errors.New("count query lost")
	repo := &fakeRepo{totalErr: boom}
	svc := newTestService(repo, &fakeTx{})

	id, err := svc.ArchiveRun(context.Background(), domain.Run{Source: domain.SourceRest}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want count error, got %v", err)
	}
	if id != uuid.Nil {
		t.Fatalf("id = %s, want nil on failure", id)
	}
}

func TestLastRun_ReportsFoundFlag(t *testing.T) {
	want := domain.Run{ID: uuid.New(), Source: domain.SourcePlanet, Changesets: 4096, Status: domain.StatusOK}
	repo := &fakeRepo{last: want}
	svc := newTestService(repo, &fakeTx{})

	got, ok, err := svc.LastRun(context.Background(), domain.SourcePlanet)
	if err != nil || !ok {
		t.Fatalf("LastRun: ok=%v err=%v", ok, err)
	}
	if got.ID != want.ID || got.Changesets != 4096 {
		t.Fatalf("run = %+v", got)
	}
	if len(repo.order) != 1 || repo.order[0] != "last:planet" {
		t.Fatalf("call order = %v", repo.order)
	}
}

func TestLastRun_EmptyLedgerIsNotAnError(t *testing.T) {
	repo := &fakeRepo{lastErr: perr.ErrNotFound}
	svc := newTestService(repo, &fakeTx{})

	if _, ok, err := svc.LastRun(context.Background(), domain.SourceRest); err != nil || ok {
		t.Fatalf("empty ledger: ok=%v err=%v", ok, err)
	}

	boom := errors.New("conn reset")
	svc2 := newTestService(&fakeRepo{lastErr: boom}, &fakeTx{})
	if _, ok, err := svc2.LastRun(context.Background(), domain.SourceRest); !errors.Is(err, boom) || ok {
		t.Fatalf("want surfaced error, got ok=%v err=%v", ok, err)
	}
}

func TestEnsureSchema_RunsInTx(t *testing.T) {
	repo := &fakeRepo{}
	tx := &fakeTx{}
	svc := newTestService(repo, tx)

	if err := svc.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if tx.txCalls != 1 {
		t.Fatalf("tx calls = %d, want 1", tx.txCalls)
	}
	if len(repo.order) != 1 || repo.order[0] != "schema" {
		t.Fatalf("call order = %v", repo.order)
	}
}
