// Package service wires the version store, undo engine, trash manager,
// autosave pipeline and completeness scorer into the command facade the
// presentation layer talks to. Subscribers receive a fresh state snapshot
// synchronously after every committed change.
package service

import (
	"sync"

	"go.uber.org/zap"

	"draftvault/internal/autosave"
	"draftvault/internal/models"
	"draftvault/internal/score"
	"draftvault/internal/store"
)

// Snapshot is the read model delivered to subscribers and returned by State.
type Snapshot struct {
	ActiveDraft  *models.Draft       `json:"activeDraft"`
	Drafts       []models.Draft      `json:"drafts"`
	SaveStatus   models.SaveStatus   `json:"saveStatus"`
	Score        int                 `json:"score"`
	WeakSections []string            `json:"weakSections"`
	TrashEntries []models.TrashEntry `json:"trashEntries"`
}

// Editor exposes the draft commands and the subscription feed.
type Editor struct {
	store    *store.VersionStore
	trash    *store.TrashManager
	undo     *store.UndoEngine
	pipeline *autosave.Pipeline
	scorer   *score.Scorer
	log      *zap.Logger

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewEditor builds the facade and points the autosave pipeline at whatever
// draft was active in the loaded store.
func NewEditor(
	vs *store.VersionStore,
	tm *store.TrashManager,
	undo *store.UndoEngine,
	pipeline *autosave.Pipeline,
	scorer *score.Scorer,
	log *zap.Logger,
) *Editor {
	e := &Editor{
		store:    vs,
		trash:    tm,
		undo:     undo,
		pipeline: pipeline,
		scorer:   scorer,
		log:      log,
		subs:     make(map[int]func(Snapshot)),
	}

	if id := vs.ActiveID(); id != "" {
		_ = pipeline.SetActive(id)
	}
	pipeline.SetOnChange(e.notify)
	return e
}

// Subscribe registers a callback invoked synchronously after every committed
// state change. The returned function unsubscribes it.
func (e *Editor) Subscribe(fn func(Snapshot)) func() {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

// State returns the current snapshot.
func (e *Editor) State() Snapshot {
	return e.snapshot()
}

// CreateDraft allocates a new empty draft and makes it active. A pending
// edit to the previously active draft is flushed first.
func (e *Editor) CreateDraft(name string) (models.Draft, error) {
	d, err := e.store.CreateDraft(name)
	if err != nil {
		return d, err
	}
	if err := e.pipeline.SetActive(d.ID); err != nil {
		e.log.Error("flush on create failed", zap.Error(err))
	}
	e.notify()
	return d, nil
}

// RenameDraft relabels a draft.
func (e *Editor) RenameDraft(id, name string) error {
	if err := e.store.RenameDraft(id, name); err != nil {
		return err
	}
	e.notify()
	return nil
}

// SetActive switches edits to another draft. Flush-on-switch: a pending
// edit is committed to the draft that was active when it arrived, before
// activation changes.
func (e *Editor) SetActive(id string) error {
	if _, ok := e.store.Draft(id); !ok {
		return &store.NotFoundError{ID: id}
	}
	if err := e.pipeline.SetActive(id); err != nil {
		e.log.Error("flush on switch failed", zap.Error(err))
	}
	if err := e.store.SetActive(id); err != nil {
		return err
	}
	e.notify()
	return nil
}

// EditContent routes a partial content change through the autosave
// pipeline. The commit happens after the debounce window settles.
func (e *Editor) EditContent(partial models.SectionContent) error {
	return e.pipeline.Edit(partial)
}

// SaveNow commits any pending edit immediately, bypassing the timer.
func (e *Editor) SaveNow() error {
	return e.pipeline.SaveNow()
}

// Undo pops the newest snapshot of the active draft and makes it current.
// A pending edit is flushed first so undo always targets the latest
// committed state. Returns ok == false when there is nothing to undo.
func (e *Editor) Undo() (models.SectionContent, bool, error) {
	id := e.store.ActiveID()
	if id == "" {
		return nil, false, &store.NotFoundError{ID: id}
	}
	if err := e.pipeline.Flush(); err != nil {
		return nil, false, err
	}

	content, ok, err := e.undo.Undo(id)
	if err != nil || !ok {
		return nil, ok, err
	}
	e.notify()
	return content, true, nil
}

// DeleteDraft soft-deletes a draft into the trash. Deleting the last
// remaining draft is rejected. When the active draft is deleted, the most
// recently updated remaining draft becomes active.
func (e *Editor) DeleteDraft(id string) error {
	wasActive := id == e.store.ActiveID()
	if wasActive {
		if err := e.pipeline.Flush(); err != nil {
			return err
		}
	}

	removed, err := e.store.Remove(id)
	if err != nil {
		return err
	}
	if err := e.trash.Add(removed); err != nil {
		e.log.Error("failed to file deleted draft in trash", zap.Error(err))
	}
	if wasActive {
		if err := e.pipeline.SetActive(e.store.ActiveID()); err != nil {
			e.log.Error("failed to repoint autosave", zap.Error(err))
		}
	}
	e.notify()
	return nil
}

// RestoreDraft moves a draft out of the trash back into the live set,
// unchanged and with its history intact. The active draft is not switched.
func (e *Editor) RestoreDraft(id string) (models.Draft, error) {
	d, err := e.trash.Take(id)
	if err != nil {
		return models.Draft{}, err
	}
	if err := e.store.Insert(d); err != nil {
		// Put the draft back rather than lose it.
		if addErr := e.trash.Add(d); addErr != nil {
			e.log.Error("failed to refile draft after rejected restore", zap.Error(addErr))
		}
		return models.Draft{}, err
	}
	e.notify()
	return d, nil
}

// PurgeDraft permanently erases a trash entry. Irreversible.
func (e *Editor) PurgeDraft(id string) error {
	if err := e.trash.Purge(id); err != nil {
		return err
	}
	e.notify()
	return nil
}

func (e *Editor) snapshot() Snapshot {
	snap := Snapshot{
		Drafts:       e.store.Drafts(),
		SaveStatus:   e.pipeline.Status(),
		TrashEntries: e.trash.Entries(),
		WeakSections: []string{},
	}
	if active, ok := e.store.Active(); ok {
		snap.ActiveDraft = &active
		res := e.scorer.Score(active.Content)
		snap.Score = res.Total
		snap.WeakSections = res.WeakSections
	}
	return snap
}

func (e *Editor) notify() {
	snap := e.snapshot()

	e.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
