// Package models defines the core data structures for drafts, trash entries
// and the autosave status.
package models

import "time"

// SectionContent maps a section key to its text. It is the unit of content
// edited, snapshotted for undo and scored for completeness.
type SectionContent map[string]string

// Section keys tracked by the completeness scorer.
const (
	SectionSummary    = "summary"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionProjects   = "projects"
	SectionSkills     = "skills"
)

// SectionOrder is the canonical ordering of tracked sections. Weak-section
// hints are always reported in this order.
var SectionOrder = []string{
	SectionSummary,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
}

// Draft represents one named, independently editable document variant
// (called "version" in the UI).
type Draft struct {
	// ID is the unique identifier for the draft, assigned at creation.
	ID string `json:"id"`
	// Name is the human label; non-empty after trimming.
	Name string `json:"name"`
	// Content holds the current section texts.
	Content SectionContent `json:"data"`
	// History holds prior content snapshots, most-recent-last. It is
	// consumed only by the undo engine.
	History []SectionContent `json:"history"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is bumped on every committed mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the draft, history included.
func (d Draft) Clone() Draft {
	out := d
	out.Content = d.Content.Clone()
	if d.History != nil {
		out.History = make([]SectionContent, len(d.History))
		for i, h := range d.History {
			out.History[i] = h.Clone()
		}
	}
	return out
}

// Clone returns a copy of the content map. A nil receiver yields nil.
func (c SectionContent) Clone() SectionContent {
	if c == nil {
		return nil
	}
	out := make(SectionContent, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a copy of c with the entries of partial applied on top.
func (c SectionContent) Merge(partial SectionContent) SectionContent {
	out := c.Clone()
	if out == nil {
		out = make(SectionContent, len(partial))
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// TrashEntry holds a soft-deleted draft together with its deletion time.
type TrashEntry struct {
	// Draft is the full snapshot captured at the moment of deletion,
	// history included.
	Draft Draft `json:"draft"`
	// DeletedAt is the deletion timestamp in epoch milliseconds.
	DeletedAt int64 `json:"deletedAt"`
}

// SaveStatus describes where the autosave pipeline is in its cycle.
type SaveStatus string

const (
	// StatusIdle means no edit is pending and nothing has been saved yet.
	StatusIdle SaveStatus = "idle"
	// StatusDirty means an edit is waiting for the debounce window to pass.
	StatusDirty SaveStatus = "dirty"
	// StatusSaving means a commit is in flight.
	StatusSaving SaveStatus = "saving"
	// StatusSaved means the last commit persisted successfully.
	StatusSaved SaveStatus = "saved"
	// StatusError means the last commit failed to persist; the edit is
	// kept in memory and the next edit or an explicit save retries.
	StatusError SaveStatus = "error"
)
