package backend

import (
	"context"
	"path/filepath"
	"testing"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/store/memstore"
	"sales-dashboard/internal/store/sqlstore"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Backend: "memory"}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(context.Background())

	if _, ok := s.(*memstore.Store); !ok {
		t.Errorf("Open(memory) returned %T", s)
	}
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.StoreConfig{
		Backend:    "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "tx.db"),
		BatchSize:  100,
	}
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close(context.Background())

	if _, ok := s.(*sqlstore.Store); !ok {
		t.Errorf("Open(sqlite) returned %T", s)
	}
}

func TestOpen_Unsupported(t *testing.T) {
	if _, err := Open(context.Background(), config.StoreConfig{Backend: "redis"}, nil); err == nil {
		t.Error("Open(redis) should fail")
	}
}
