package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"draftvault/internal/kv"
	"draftvault/internal/models"
)

// failingKV wraps a kv.Store and fails writes on demand.
type failingKV struct {
	kv.Store
	failSet bool
}

func (f *failingKV) Set(key string, value []byte) error {
	if f.failSet {
		return fmt.Errorf("disk full")
	}
	return f.Store.Set(key, value)
}

func newTestStore(t *testing.T) *VersionStore {
	t.Helper()
	vs, err := NewVersionStore(kv.NewMemoryStore(), zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewVersionStore failed: %v", err)
	}
	return vs
}

func TestCreateDraft_BecomesActive(t *testing.T) {
	vs := newTestStore(t)

	before := vs.Count()
	d, err := vs.CreateDraft("v1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	if vs.Count() != before+1 {
		t.Errorf("count = %d; want %d", vs.Count(), before+1)
	}
	if vs.ActiveID() != d.ID {
		t.Errorf("active = %q; want %q", vs.ActiveID(), d.ID)
	}
	if d.Name != "v1" {
		t.Errorf("name = %q; want v1", d.Name)
	}
	if len(d.Content) != 0 {
		t.Errorf("new draft content not empty: %v", d.Content)
	}
}

func TestCreateDraft_GeneratedName(t *testing.T) {
	vs := newTestStore(t)

	d1, _ := vs.CreateDraft("")
	d2, _ := vs.CreateDraft("   ")

	if d1.Name != "Draft 1" {
		t.Errorf("first name = %q; want Draft 1", d1.Name)
	}
	if d2.Name != "Draft 2" {
		t.Errorf("second name = %q; want Draft 2", d2.Name)
	}
}

func TestRenameDraft(t *testing.T) {
	vs := newTestStore(t)
	d, _ := vs.CreateDraft("v1")

	tests := []struct {
		name    string
		id      string
		newName string
		wantErr any
	}{
		{name: "whitespace only", id: d.ID, newName: "   ", wantErr: &ValidationError{}},
		{name: "unknown id", id: "nope", newName: "x", wantErr: &NotFoundError{}},
		{name: "success", id: d.ID, newName: "  final ", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vs.RenameDraft(tt.id, tt.newName)
			switch want := tt.wantErr.(type) {
			case *ValidationError:
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("err = %v; want ValidationError", err)
				}
				got, _ := vs.Draft(d.ID)
				if got.Name != "v1" {
					t.Errorf("name changed on rejected rename: %q", got.Name)
				}
			case *NotFoundError:
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("err = %v; want NotFoundError", err)
				}
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got, _ := vs.Draft(d.ID)
				if got.Name != "final" {
					t.Errorf("name = %q; want final (trimmed)", got.Name)
				}
			default:
				t.Fatalf("bad test case: %v", want)
			}
		})
	}
}

func TestSetActive_Unknown(t *testing.T) {
	vs := newTestStore(t)
	vs.CreateDraft("v1")

	var nf *NotFoundError
	if err := vs.SetActive("missing"); !errors.As(err, &nf) {
		t.Fatalf("err = %v; want NotFoundError", err)
	}
}

func TestRemove_LastDraftRejected(t *testing.T) {
	vs := newTestStore(t)
	d, _ := vs.CreateDraft("only")

	_, err := vs.Remove(d.ID)
	var iv *InvariantViolation
	if !errors.As(err, &iv) {
		t.Fatalf("err = %v; want InvariantViolation", err)
	}
	if vs.Count() != 1 {
		t.Errorf("count = %d; want 1", vs.Count())
	}
	if vs.ActiveID() != d.ID {
		t.Errorf("active changed on rejected delete")
	}
}

func TestRemove_ReassignsActiveToMostRecent(t *testing.T) {
	vs := newTestStore(t)
	clock := time.Now()
	vs.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	a, _ := vs.CreateDraft("a")
	b, _ := vs.CreateDraft("b")
	c, _ := vs.CreateDraft("c")

	// Touch b last so it is the most recently updated.
	if err := vs.UpdateContent(b.ID, models.SectionContent{"summary": "x"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	if err := vs.SetActive(c.ID); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	removed, err := vs.Remove(c.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed.ID != c.ID {
		t.Errorf("removed id = %q; want %q", removed.ID, c.ID)
	}
	if vs.ActiveID() != b.ID {
		t.Errorf("active = %q; want most recently updated %q", vs.ActiveID(), b.ID)
	}
	_ = a
}

func TestRemove_TieOnUpdateTimeBreaksByID(t *testing.T) {
	vs := newTestStore(t)
	frozen := time.Now()
	vs.now = func() time.Time { return frozen }

	a, _ := vs.CreateDraft("a")
	b, _ := vs.CreateDraft("b")
	c, _ := vs.CreateDraft("c")

	// All drafts share one update time; the reassignment must not depend
	// on map iteration order.
	want := a.ID
	if b.ID < want {
		want = b.ID
	}

	if _, err := vs.Remove(c.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if vs.ActiveID() != want {
		t.Errorf("active = %q; want lowest id %q", vs.ActiveID(), want)
	}
}

func TestRemove_NonActiveKeepsActive(t *testing.T) {
	vs := newTestStore(t)
	a, _ := vs.CreateDraft("a")
	b, _ := vs.CreateDraft("b")

	if _, err := vs.Remove(a.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if vs.ActiveID() != b.ID {
		t.Errorf("active = %q; want %q", vs.ActiveID(), b.ID)
	}
}

func TestInsert_DuplicateRejected(t *testing.T) {
	vs := newTestStore(t)
	d, _ := vs.CreateDraft("v1")

	var iv *InvariantViolation
	if err := vs.Insert(d); !errors.As(err, &iv) {
		t.Fatalf("err = %v; want InvariantViolation", err)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	mem := kv.NewMemoryStore()
	vs, err := NewVersionStore(mem, zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewVersionStore failed: %v", err)
	}

	d, _ := vs.CreateDraft("v1")
	if err := vs.UpdateContent(d.ID, models.SectionContent{"summary": "hello"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}

	// A fresh store over the same kv sees the committed state.
	reloaded, err := NewVersionStore(mem, zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.ActiveID() != d.ID {
		t.Errorf("reloaded active = %q; want %q", reloaded.ActiveID(), d.ID)
	}
	got, ok := reloaded.Draft(d.ID)
	if !ok {
		t.Fatalf("draft missing after reload")
	}
	if got.Content["summary"] != "hello" {
		t.Errorf("content = %v", got.Content)
	}
}

func TestPersistenceError_StateKept(t *testing.T) {
	fkv := &failingKV{Store: kv.NewMemoryStore()}
	vs, err := NewVersionStore(fkv, zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewVersionStore failed: %v", err)
	}
	d, _ := vs.CreateDraft("v1")

	fkv.failSet = true
	err = vs.UpdateContent(d.ID, models.SectionContent{"summary": "kept"})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v; want PersistenceError", err)
	}

	// The edit stays in memory so the user does not lose text.
	got, _ := vs.Draft(d.ID)
	if got.Content["summary"] != "kept" {
		t.Errorf("content rolled back: %v", got.Content)
	}

	// Next write is the retry path.
	fkv.failSet = false
	if err := vs.UpdateContent(d.ID, models.SectionContent{"summary": "kept"}); err != nil {
		t.Errorf("retry failed: %v", err)
	}
}
