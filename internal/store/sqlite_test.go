package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/treelab/arbor/pkg/canvas"
)

func newTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "tree.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteCreateAndFetch(t *testing.T) {
	s := newTestDB(t)

	id, err := s.CreatePerson(PersonDraft{
		Name:        "Alice",
		Gender:      "female",
		DateOfBirth: "1950-03-02",
		Notes:       "keeps the photo albums",
		X:           10,
		Y:           20,
	})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	res, err := s.FetchTree()
	if err != nil {
		t.Fatalf("FetchTree: %v", err)
	}
	p := res.Tree.Person(id)
	if p == nil {
		t.Fatal("person not found after insert")
	}
	if p.Name != "Alice" || string(p.Gender) != "female" || p.X != 10 || p.Y != 20 {
		t.Errorf("unexpected person %+v", p)
	}
	if p.Notes != "keeps the photo albums" {
		t.Errorf("notes lost: %q", p.Notes)
	}
}

func TestSQLiteUpdatePersonKeepsUnsetFields(t *testing.T) {
	s := newTestDB(t)
	id, _ := s.CreatePerson(PersonDraft{Name: "Alice", Gender: "female"})

	// empty name and gender keep the stored values
	if err := s.UpdatePerson(id, PersonDraft{Notes: "updated"}); err != nil {
		t.Fatalf("UpdatePerson: %v", err)
	}

	res, _ := s.FetchTree()
	p := res.Tree.Person(id)
	if p.Name != "Alice" || string(p.Gender) != "female" {
		t.Errorf("identity fields clobbered: %+v", p)
	}
	if p.Notes != "updated" {
		t.Errorf("notes not written: %q", p.Notes)
	}
}

func TestSQLiteCascadesAndOrder(t *testing.T) {
	s := newTestDB(t)
	dad, _ := s.CreatePerson(PersonDraft{Name: "Dad"})
	mom, _ := s.CreatePerson(PersonDraft{Name: "Mom"})
	aunt, _ := s.CreatePerson(PersonDraft{Name: "Aunt"})
	kid, _ := s.CreatePerson(PersonDraft{Name: "Kid"})

	m1, err := s.CreateMarriage(dad, mom, "1980-01-01")
	if err != nil {
		t.Fatalf("CreateMarriage: %v", err)
	}
	m2, err := s.CreateMarriage(dad, aunt, "")
	if err != nil {
		t.Fatalf("CreateMarriage: %v", err)
	}
	if err := s.CreateParentChild(dad, kid, m1); err != nil {
		t.Fatalf("CreateParentChild: %v", err)
	}
	if err := s.CreateParentChild(dad, kid, m1); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate edge: expected ErrExists, got %v", err)
	}

	res, _ := s.FetchTree()
	if res.Tree.Marriage(m1).Order != 1 || res.Tree.Marriage(m2).Order != 2 {
		t.Errorf("marriage orders = %d, %d; want 1, 2",
			res.Tree.Marriage(m1).Order, res.Tree.Marriage(m2).Order)
	}

	if err := s.DeleteMarriage(m1); err != nil {
		t.Fatalf("DeleteMarriage: %v", err)
	}
	res, _ = s.FetchTree()
	if len(res.Tree.ParentChild) != 0 {
		t.Errorf("expected edges cascaded with marriage, got %v", res.Tree.ParentChild)
	}

	if err := s.DeletePerson(dad); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	res, _ = s.FetchTree()
	if res.Tree.Marriage(m2) != nil {
		t.Error("marriage involving deleted person survived")
	}
}

func TestSQLiteUndoRedo(t *testing.T) {
	s := newTestDB(t)
	id, _ := s.CreatePerson(PersonDraft{Name: "Alice"})

	applied, err := s.Undo()
	if err != nil || !applied {
		t.Fatalf("Undo = (%v, %v)", applied, err)
	}
	res, _ := s.FetchTree()
	if res.Tree.Person(id) != nil {
		t.Error("person still present after undo")
	}

	applied, err = s.Redo()
	if err != nil || !applied {
		t.Fatalf("Redo = (%v, %v)", applied, err)
	}
	res, _ = s.FetchTree()
	if p := res.Tree.Person(id); p == nil || p.Name != "Alice" {
		t.Errorf("person missing after redo: %+v", p)
	}
}

func TestSQLiteRemoveParentChildNotFound(t *testing.T) {
	s := newTestDB(t)
	a, _ := s.CreatePerson(PersonDraft{Name: "A"})

	if err := s.RemoveParentChild(a, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// a failed remove must not leave a bogus undo step
	if applied, _ := s.Undo(); !applied {
		t.Fatal("expected the create to be undoable")
	}
	if applied, _ := s.Undo(); applied {
		t.Error("failed remove left an undo step behind")
	}
}

func TestSQLiteUpdatePositionsAtomic(t *testing.T) {
	s := newTestDB(t)
	a, _ := s.CreatePerson(PersonDraft{Name: "A"})

	err := s.UpdatePositions([]canvas.PositionUpdate{
		{ID: a, X: 100, Y: 200},
		{ID: "ghost", X: 1, Y: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// the whole batch rolls back
	res, _ := s.FetchTree()
	if p := res.Tree.Person(a); p.X != 0 || p.Y != 0 {
		t.Errorf("partial batch applied: (%f, %f)", p.X, p.Y)
	}

	if err := s.UpdatePositions([]canvas.PositionUpdate{{ID: a, X: 100, Y: 200}}); err != nil {
		t.Fatalf("UpdatePositions: %v", err)
	}
	res, _ = s.FetchTree()
	if p := res.Tree.Person(a); p.X != 100 || p.Y != 200 {
		t.Errorf("positions not applied: (%f, %f)", p.X, p.Y)
	}
}

func TestSQLiteReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	id, _ := s.CreatePerson(PersonDraft{Name: "Alice"})
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	res, _ := s2.FetchTree()
	if res.Tree.Person(id) == nil {
		t.Error("person lost across reopen")
	}
	if res.CanUndo {
		t.Error("undo history must not survive reopen")
	}
}
