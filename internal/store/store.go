// Package store implements the draft version store, the undo engine and the
// trash manager. All three persist through the kv package, one whole record
// per write, so a crash between steps never leaves the active id dangling.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"draftvault/internal/kv"
	"draftvault/internal/models"
)

// VersionsKey is the kv key holding the {versions, activeVersionId} record.
const VersionsKey = "versions"

// record is the persisted shape of the version store.
type record struct {
	Versions        []models.Draft `json:"versions"`
	ActiveVersionID string         `json:"activeVersionId"`
}

// VersionStore owns the set of live drafts and which one is active. Every
// committed mutation rewrites the whole record as a single kv write.
type VersionStore struct {
	mu  sync.Mutex
	kv  kv.Store
	log *zap.Logger

	drafts   map[string]models.Draft
	activeID string

	// maxHistory caps per-draft undo depth; 0 means unbounded.
	maxHistory int

	now func() time.Time
}

// NewVersionStore loads any previously persisted record from the given
// store and returns a VersionStore over it.
func NewVersionStore(store kv.Store, log *zap.Logger, maxHistory int) (*VersionStore, error) {
	vs := &VersionStore{
		kv:         store,
		log:        log,
		drafts:     make(map[string]models.Draft),
		maxHistory: maxHistory,
		now:        time.Now,
	}

	data, ok, err := store.Get(VersionsKey)
	if err != nil {
		return nil, fmt.Errorf("load versions: %w", err)
	}
	if ok {
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode versions: %w", err)
		}
		for _, d := range rec.Versions {
			vs.drafts[d.ID] = d
		}
		vs.activeID = rec.ActiveVersionID
		// Repair a dangling active id left by older data.
		if _, ok := vs.drafts[vs.activeID]; !ok && len(vs.drafts) > 0 {
			vs.activeID = vs.mostRecentLocked()
			log.Warn("active draft missing, reassigned", zap.String("id", vs.activeID))
		}
	}

	return vs, nil
}

// CreateDraft allocates a new empty draft, makes it active and persists.
// An empty name gets a generated "Draft N" label.
func (vs *VersionStore) CreateDraft(name string) (models.Draft, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = vs.generatedNameLocked()
	}

	now := vs.now()
	d := models.Draft{
		ID:        uuid.New().String(),
		Name:      name,
		Content:   models.SectionContent{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	vs.drafts[d.ID] = d
	vs.activeID = d.ID

	vs.log.Info("draft created", zap.String("id", d.ID), zap.String("name", name))
	return d.Clone(), vs.persistLocked()
}

// RenameDraft updates the human label of a draft.
func (vs *VersionStore) RenameDraft(id, name string) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	d, ok := vs.drafts[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	d.Name = strings.TrimSpace(name)
	d.UpdatedAt = vs.now()
	vs.drafts[id] = d
	return vs.persistLocked()
}

// SetActive switches which draft receives edits.
func (vs *VersionStore) SetActive(id string) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if _, ok := vs.drafts[id]; !ok {
		return &NotFoundError{ID: id}
	}
	vs.activeID = id
	return vs.persistLocked()
}

// UpdateContent replaces a draft's content and bumps its update time. It
// does not push an undo snapshot; that is the autosave pipeline's job.
func (vs *VersionStore) UpdateContent(id string, content models.SectionContent) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	d, ok := vs.drafts[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	d.Content = content.Clone()
	d.UpdatedAt = vs.now()
	vs.drafts[id] = d
	return vs.persistLocked()
}

// Remove takes a draft out of the live set for soft deletion and returns
// its full snapshot, history included. Removing the last live draft is
// rejected. When the active draft is removed, the most recently updated
// remaining draft becomes active.
func (vs *VersionStore) Remove(id string) (models.Draft, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	d, ok := vs.drafts[id]
	if !ok {
		return models.Draft{}, &NotFoundError{ID: id}
	}
	if len(vs.drafts) == 1 {
		return models.Draft{}, &InvariantViolation{Reason: "cannot delete the last remaining draft"}
	}

	delete(vs.drafts, id)
	if vs.activeID == id {
		vs.activeID = vs.mostRecentLocked()
	}

	vs.log.Info("draft removed", zap.String("id", id), zap.String("active", vs.activeID))
	return d.Clone(), vs.persistLocked()
}

// Insert puts a draft back into the live set unchanged, id preserved. The
// active draft is not switched.
func (vs *VersionStore) Insert(d models.Draft) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if _, ok := vs.drafts[d.ID]; ok {
		return &InvariantViolation{Reason: fmt.Sprintf("draft already exists: %s", d.ID)}
	}

	vs.drafts[d.ID] = d.Clone()
	if vs.activeID == "" {
		vs.activeID = d.ID
	}
	return vs.persistLocked()
}

// Draft returns a copy of the draft with the given id.
func (vs *VersionStore) Draft(id string) (models.Draft, bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	d, ok := vs.drafts[id]
	if !ok {
		return models.Draft{}, false
	}
	return d.Clone(), true
}

// Active returns a copy of the active draft, if any exists.
func (vs *VersionStore) Active() (models.Draft, bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	d, ok := vs.drafts[vs.activeID]
	if !ok {
		return models.Draft{}, false
	}
	return d.Clone(), true
}

// ActiveID returns the id of the active draft, or "" when none exists.
func (vs *VersionStore) ActiveID() string {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.activeID
}

// Drafts returns copies of all live drafts ordered by creation time.
func (vs *VersionStore) Drafts() []models.Draft {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.sortedLocked()
}

// Count returns the number of live drafts.
func (vs *VersionStore) Count() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.drafts)
}

// pushHistory appends prev to a draft's undo history, dropping the oldest
// snapshot when the cap is reached. Memory-only; the following
// UpdateContent call persists history and content in one write.
func (vs *VersionStore) pushHistory(id string, prev models.SectionContent) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	d, ok := vs.drafts[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	d.History = append(d.History, prev.Clone())
	if vs.maxHistory > 0 && len(d.History) > vs.maxHistory {
		d.History = d.History[len(d.History)-vs.maxHistory:]
	}
	vs.drafts[id] = d
	return nil
}

// popHistory removes the newest snapshot, commits it as the draft's current
// content and persists. The second return is false when the history is
// empty; nothing changes in that case.
func (vs *VersionStore) popHistory(id string) (models.SectionContent, bool, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	d, ok := vs.drafts[id]
	if !ok {
		return nil, false, &NotFoundError{ID: id}
	}
	if len(d.History) == 0 {
		return nil, false, nil
	}

	last := d.History[len(d.History)-1]
	d.History = d.History[:len(d.History)-1]
	d.Content = last.Clone()
	d.UpdatedAt = vs.now()
	vs.drafts[id] = d
	return last.Clone(), true, vs.persistLocked()
}

func (vs *VersionStore) generatedNameLocked() string {
	n := len(vs.drafts) + 1
	for {
		name := fmt.Sprintf("Draft %d", n)
		taken := false
		for _, d := range vs.drafts {
			if d.Name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
		n++
	}
}

// mostRecentLocked returns the id of the most recently updated draft.
// Ties on the update time break by id, same as sortedLocked, so the choice
// never depends on map iteration order.
func (vs *VersionStore) mostRecentLocked() string {
	var best string
	var bestAt time.Time
	for id, d := range vs.drafts {
		switch {
		case best == "", d.UpdatedAt.After(bestAt):
			best = id
			bestAt = d.UpdatedAt
		case d.UpdatedAt.Equal(bestAt) && id < best:
			best = id
		}
	}
	return best
}

func (vs *VersionStore) sortedLocked() []models.Draft {
	out := make([]models.Draft, 0, len(vs.drafts))
	for _, d := range vs.drafts {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// persistLocked writes the whole record as one kv Set. On failure the
// in-memory state is kept so the user does not lose text; the caller sees
// a PersistenceError and the next commit retries.
func (vs *VersionStore) persistLocked() error {
	rec := record{
		Versions:        vs.sortedLocked(),
		ActiveVersionID: vs.activeID,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if err := vs.kv.Set(VersionsKey, data); err != nil {
		vs.log.Error("failed to persist versions", zap.Error(err))
		return &PersistenceError{Err: err}
	}
	return nil
}
