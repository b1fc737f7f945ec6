// Package autosave debounces content edits and commits them to the version
// store after a quiet period, exposing the save-status state machine
// idle -> dirty -> saving -> saved, with saving -> error on a persistence
// failure and error -> dirty on the next edit.
package autosave

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"draftvault/internal/models"
	"draftvault/internal/store"
)

// DefaultWindow is the debounce quiet period used when none is configured.
// The exact duration is a tunable, not a correctness invariant.
const DefaultWindow = 800 * time.Millisecond

// Store is the subset of the version store the pipeline commits through.
type Store interface {
	Draft(id string) (models.Draft, bool)
	UpdateContent(id string, content models.SectionContent) error
}

// Snapshotter pushes the pre-change content onto the undo history.
type Snapshotter interface {
	Snapshot(id string, prev models.SectionContent) error
}

// Pipeline coalesces rapid edits into one commit per quiet period. Edits
// are associated with the draft that was active when they arrived; switching
// the active draft flushes any pending edit to the old draft first.
type Pipeline struct {
	mu    sync.Mutex
	store Store
	undo  Snapshotter
	log   *zap.Logger

	window time.Duration

	activeID string
	status   models.SaveStatus
	savedAt  time.Time

	// base is the content before the pending run of edits; it becomes the
	// undo snapshot. pending is base with the edits merged on top. Both
	// survive a failed commit so an explicit save can retry the write.
	base    models.SectionContent
	pending models.SectionContent
	// snapped marks that the undo snapshot for the pending run was already
	// pushed, so a retried commit does not push a duplicate.
	snapped bool

	timer *time.Timer
	// gen invalidates stale timer callbacks; arming bumps it.
	gen int

	onChange func()
}

// NewPipeline builds a pipeline committing through store and undo. A zero
// window falls back to DefaultWindow.
func NewPipeline(store Store, undo Snapshotter, window time.Duration, log *zap.Logger) *Pipeline {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Pipeline{
		store:  store,
		undo:   undo,
		log:    log,
		window: window,
		status: models.StatusIdle,
	}
}

// SetOnChange registers a callback invoked after every status transition.
// It is called without the pipeline lock held.
func (p *Pipeline) SetOnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// SetActive flushes any pending edit for the previously active draft, then
// points the pipeline at id and resets the status to idle.
func (p *Pipeline) SetActive(id string) error {
	if err := p.Flush(); err != nil {
		return err
	}

	p.mu.Lock()
	p.activeID = id
	p.status = models.StatusIdle
	p.base = nil
	p.pending = nil
	p.snapped = false
	p.mu.Unlock()

	p.notify()
	return nil
}

// Edit merges a partial content change into the pending edit, marks the
// status dirty and re-arms the debounce timer. Arming always cancels the
// previous timer, so at most one commit happens per quiet period.
func (p *Pipeline) Edit(partial models.SectionContent) error {
	p.mu.Lock()
	if p.activeID == "" {
		p.mu.Unlock()
		return &store.NotFoundError{ID: ""}
	}

	if p.pending == nil {
		d, ok := p.store.Draft(p.activeID)
		if !ok {
			id := p.activeID
			p.mu.Unlock()
			return &store.NotFoundError{ID: id}
		}
		p.base = d.Content.Clone()
		if p.base == nil {
			p.base = models.SectionContent{}
		}
		p.pending = p.base.Clone()
		p.snapped = false
	}
	p.pending = p.pending.Merge(partial)
	p.status = models.StatusDirty

	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.window, func() { p.fire(gen) })
	p.mu.Unlock()

	p.notify()
	return nil
}

// SaveNow cancels any pending debounce timer and commits synchronously.
func (p *Pipeline) SaveNow() error {
	return p.Flush()
}

// Flush commits any pending edit immediately. A timer that fires after the
// flush finds its generation stale and does nothing.
func (p *Pipeline) Flush() error {
	p.mu.Lock()
	if p.pending == nil {
		p.mu.Unlock()
		return nil
	}
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	return p.commit()
}

// Close flushes any pending edit and cancels the timer. The pipeline must
// not be used afterwards.
func (p *Pipeline) Close() error {
	err := p.Flush()
	p.mu.Lock()
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	return err
}

// Status returns the current save status.
func (p *Pipeline) Status() models.SaveStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SavedAt returns when the last successful commit happened.
func (p *Pipeline) SavedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savedAt
}

// fire runs on the timer goroutine when the quiet period passes uncanceled.
func (p *Pipeline) fire(gen int) {
	p.mu.Lock()
	if gen != p.gen || p.pending == nil {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if err := p.commit(); err != nil {
		p.log.Error("autosave commit failed", zap.Error(err))
	}
}

// commit snapshots the pre-edit content, writes the merged content to the
// store and publishes the saving -> saved (or error) transition. The
// snapshot and the write happen under the pipeline lock, so an edit
// arriving mid-commit waits and then re-bases from the committed content
// instead of reverting it. On failure the pending edit is kept so the next
// edit or an explicit save retries the write; the snapshot is pushed only
// once per pending run.
func (p *Pipeline) commit() error {
	p.mu.Lock()
	if p.pending == nil {
		p.mu.Unlock()
		return nil
	}
	p.status = models.StatusSaving
	p.mu.Unlock()

	p.notify()

	p.mu.Lock()
	if p.pending == nil {
		// A concurrent flush committed this run already.
		p.mu.Unlock()
		return nil
	}

	var err error
	if !p.snapped {
		if err = p.undo.Snapshot(p.activeID, p.base); err == nil {
			p.snapped = true
		}
	}
	if err == nil {
		err = p.store.UpdateContent(p.activeID, p.pending)
	}

	if err != nil {
		p.status = models.StatusError
	} else {
		p.status = models.StatusSaved
		p.savedAt = time.Now()
		p.base = nil
		p.pending = nil
		p.snapped = false
	}
	p.mu.Unlock()

	p.notify()
	return err
}

func (p *Pipeline) notify() {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}
