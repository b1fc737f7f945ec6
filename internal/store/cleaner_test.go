package store

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"draftvault/internal/kv"
	"draftvault/internal/models"
)

func TestStartTrashRetentionCleaner_PurgesOldEntries(t *testing.T) {
	tm, err := NewTrashManager(kv.NewMemoryStore(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewTrashManager failed: %v", err)
	}

	old := time.Now().Add(-48 * time.Hour)
	tm.now = func() time.Time { return old }
	if err := tm.Add(models.Draft{ID: "stale", Content: models.SectionContent{}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	tm.now = time.Now
	if err := tm.Add(models.Draft{ID: "fresh", Content: models.SectionContent{}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartTrashRetentionCleaner(ctx, tm, 10*time.Millisecond, 24*time.Hour, zap.NewNop())

	time.Sleep(200 * time.Millisecond)
	cancel()

	entries := tm.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d; want 1", len(entries))
	}
	if entries[0].Draft.ID != "fresh" {
		t.Errorf("kept entry = %q; want fresh", entries[0].Draft.ID)
	}
}

func TestStartTrashRetentionCleaner_StopsOnCancel(t *testing.T) {
	tm, err := NewTrashManager(kv.NewMemoryStore(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewTrashManager failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	StartTrashRetentionCleaner(ctx, tm, 10*time.Millisecond, time.Hour, zap.NewNop())
	cancel()

	// Entries added after cancellation are never purged.
	old := time.Now().Add(-48 * time.Hour)
	tm.now = func() time.Time { return old }
	if err := tm.Add(models.Draft{ID: "stale", Content: models.SectionContent{}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if len(tm.Entries()) != 1 {
		t.Errorf("cleaner kept running after cancel")
	}
}
