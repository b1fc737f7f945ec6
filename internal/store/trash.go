package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"draftvault/internal/kv"
	"draftvault/internal/models"
)

// TrashKey is the kv key holding the trash record.
const TrashKey = "trash"

type trashRecord struct {
	Entries []models.TrashEntry `json:"entries"`
}

// TrashManager holds soft-deleted drafts until they are restored or purged.
// Entries keep the full draft snapshot, frozen history included.
type TrashManager struct {
	mu  sync.Mutex
	kv  kv.Store
	log *zap.Logger

	entries []models.TrashEntry

	now func() time.Time
}

// NewTrashManager loads any previously persisted trash record.
func NewTrashManager(store kv.Store, log *zap.Logger) (*TrashManager, error) {
	tm := &TrashManager{kv: store, log: log, now: time.Now}

	data, ok, err := store.Get(TrashKey)
	if err != nil {
		return nil, fmt.Errorf("load trash: %w", err)
	}
	if ok {
		var rec trashRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode trash: %w", err)
		}
		tm.entries = rec.Entries
	}

	return tm, nil
}

// Add files a deleted draft with the current time and persists.
func (tm *TrashManager) Add(d models.Draft) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.entries = append(tm.entries, models.TrashEntry{
		Draft:     d.Clone(),
		DeletedAt: tm.now().UnixMilli(),
	})
	return tm.persistLocked()
}

// Take removes the entry for id and returns its draft unchanged, for
// reinsertion into the version store.
func (tm *TrashManager) Take(id string) (models.Draft, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for i, e := range tm.entries {
		if e.Draft.ID == id {
			d := e.Draft.Clone()
			tm.entries = append(tm.entries[:i], tm.entries[i+1:]...)
			return d, tm.persistLocked()
		}
	}
	return models.Draft{}, &NotFoundError{ID: id}
}

// Purge permanently erases the entry for id. Irreversible.
func (tm *TrashManager) Purge(id string) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for i, e := range tm.entries {
		if e.Draft.ID == id {
			tm.entries = append(tm.entries[:i], tm.entries[i+1:]...)
			tm.log.Info("draft purged", zap.String("id", id))
			return tm.persistLocked()
		}
	}
	return &NotFoundError{ID: id}
}

// Entries returns copies of all trash entries, oldest first.
func (tm *TrashManager) Entries() []models.TrashEntry {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	out := make([]models.TrashEntry, len(tm.entries))
	for i, e := range tm.entries {
		out[i] = models.TrashEntry{Draft: e.Draft.Clone(), DeletedAt: e.DeletedAt}
	}
	return out
}

// purgeExpired removes every entry deleted before cutoff and returns how
// many were dropped.
func (tm *TrashManager) purgeExpired(cutoff time.Time) (int, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	kept := tm.entries[:0]
	removed := 0
	for _, e := range tm.entries {
		if e.DeletedAt < cutoff.UnixMilli() {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	tm.entries = kept
	return removed, tm.persistLocked()
}

func (tm *TrashManager) persistLocked() error {
	rec := trashRecord{Entries: tm.entries}
	if rec.Entries == nil {
		rec.Entries = []models.TrashEntry{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if err := tm.kv.Set(TrashKey, data); err != nil {
		tm.log.Error("failed to persist trash", zap.Error(err))
		return &PersistenceError{Err: err}
	}
	return nil
}
