package store

import "draftvault/internal/models"

// UndoEngine manages the per-draft snapshot stack. Snapshots are pushed by
// the autosave pipeline right before each committed content change and
// popped by Undo, LIFO. There is no redo stack.
type UndoEngine struct {
	vs *VersionStore
}

// NewUndoEngine returns an undo engine over the given version store.
func NewUndoEngine(vs *VersionStore) *UndoEngine {
	return &UndoEngine{vs: vs}
}

// Snapshot appends the pre-change content to the draft's history. It must
// be called exactly once per committed content change, with the content as
// it was before the change.
func (u *UndoEngine) Snapshot(id string, prev models.SectionContent) error {
	return u.vs.pushHistory(id, prev)
}

// Undo pops the newest snapshot and commits it as the draft's current
// content. The commit does not push a snapshot of its own, so undoing
// never grows the stack. Returns ok == false when there is nothing to
// undo; the store is untouched in that case.
func (u *UndoEngine) Undo(id string) (models.SectionContent, bool, error) {
	return u.vs.popHistory(id)
}
