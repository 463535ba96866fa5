package ch

import (
	"context"
	"strings"
	"testing"
)

// TestOpen_BadDSN fails fast on an unparseable DSN without dialing
func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://not-a-dsn"})
	if err == nil {
		t.Fatalf("Open expected error for bad DSN, got nil")
	}
}

// TestPing_NilClient errors instead of panicking
func TestPing_NilClient(t *testing.T) {
	t.Parallel()

	var cl *CH
	if err := cl.Ping(context.Background()); err == nil {
		t.Fatalf("Ping on nil client expected error, got nil")
	}

	empty := &CH{}
	if err := empty.Ping(context.Background()); err == nil {
		t.Fatalf("Ping on empty client expected error, got nil")
	}
}

// TestInsert_NoRows is a no op and never touches the connection
func TestInsert_NoRows(t *testing.T) {
	t.Parallel()

	cl := &CH{}
	if err := cl.Insert(context.Background(), "changesets", nil); err != nil {
		t.Fatalf("Insert with no rows returned error: %v", err)
	}
	if err := cl.Insert(context.Background(), "changesets", [][]any{}); err != nil {
		t.Fatalf("Insert with empty rows returned error: %v", err)
	}
}

// TestClose_NilSafe tolerates nil and zero clients
func TestClose_NilSafe(t *testing.T) {
	t.Parallel()

	var cl *CH
	if err := cl.Close(); err != nil {
		t.Fatalf("Close on nil client returned error: %v", err)
	}
	if err := (&CH{}).Close(); err != nil {
		t.Fatalf("Close on empty client returned error: %v", err)
	}
}

// TestBuildClientInfo tags products with the role suffix
func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("planet", "1.2.3")
	if len(ci.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(ci.Products))
	}
	if ci.Products[0].Name != "osmwatch-planet" {
		t.Fatalf("product name = %q", ci.Products[0].Name)
	}
	if ci.Products[0].Version != "1.2.3" {
		t.Fatalf("product version = %q", ci.Products[0].Version)
	}

	bare := BuildClientInfo("", "")
	if bare.Products[0].Name != "osmwatch" {
		t.Fatalf("bare product name = %q", bare.Products[0].Name)
	}
	if bare.Products[0].Version == "" {
		t.Fatalf("bare product version empty")
	}
	if strings.Contains(bare.Products[0].Name, "-") {
		t.Fatalf("bare product name should carry no role suffix: %q", bare.Products[0].Name)
	}
}
