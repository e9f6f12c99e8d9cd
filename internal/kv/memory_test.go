package kv

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if value, err := store.Get(ctx, "missing"); err != nil || value != nil {
		t.Fatalf("expected nil for missing key, got %q err=%v", value, err)
	}

	if err := store.Set(ctx, "teacher:1", []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("set error: %v", err)
	}
	value, err := store.Get(ctx, "teacher:1")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if string(value) != `{"id":"1"}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Delete(ctx, "teacher:1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if value, _ := store.Get(ctx, "teacher:1"); value != nil {
		t.Fatalf("expected key to be deleted")
	}
}

func TestMemoryStorePrefixScan(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.Set(ctx, "student:b", []byte(`2`))
	_ = store.Set(ctx, "student:a", []byte(`1`))
	_ = store.Set(ctx, "teacher:c", []byte(`3`))

	entries, err := store.GetByPrefix(ctx, "student:")
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Scan results are ordered by key.
	if entries[0].Key != "student:a" || entries[1].Key != "student:b" {
		t.Fatalf("unexpected order: %s, %s", entries[0].Key, entries[1].Key)
	}
}
