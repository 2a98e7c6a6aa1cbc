package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/debug"
	"github.com/treelab/arbor/pkg/model"
)

// maxHistory bounds the undo stack; the oldest snapshot is dropped beyond
// this.
const maxHistory = 50

type historyEntry struct {
	action string
	tree   *model.Tree
}

// MemoryStore keeps the tree in memory with snapshot-based undo/redo and a
// best-effort JSON autosave. Autosave failures are swallowed so the store
// keeps working on read-only filesystems.
type MemoryStore struct {
	mu        sync.Mutex
	tree      *model.Tree
	undoStack []historyEntry
	redoStack []historyEntry
	path      string // autosave path; empty disables persistence
}

// NewMemoryStore creates a store, loading the autosave file at path if it
// exists. An empty path runs fully stateless.
func NewMemoryStore(path string) (*MemoryStore, error) {
	s := &MemoryStore{tree: model.NewTree(), path: path}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading autosave: %w", err)
	}
	t := model.NewTree()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parsing autosave: %w", err)
	}
	if t.Persons == nil {
		t.Persons = make(map[string]*model.Person)
	}
	if t.Marriages == nil {
		t.Marriages = make(map[string]*model.Marriage)
	}
	s.tree = t
	debug.Log("loaded autosave from %s (%d persons)", path, len(t.Persons))
	return s, nil
}

// FetchTree returns a deep copy so the canvas can mutate its scene model in
// place without aliasing store state.
func (s *MemoryStore) FetchTree() (FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FetchResult{
		Tree:    s.tree.Clone(),
		CanUndo: len(s.undoStack) > 0,
		CanRedo: len(s.redoStack) > 0,
	}, nil
}

func (s *MemoryStore) CreatePerson(draft PersonDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft.Name == "" {
		return "", fmt.Errorf("%w: person name is required", ErrInvalid)
	}
	s.saveState("create_person")
	p := &model.Person{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Gender:      model.ParseGender(draft.Gender),
		DateOfBirth: draft.DateOfBirth,
		DateOfDeath: draft.DateOfDeath,
		PhotoRef:    draft.PhotoRef,
		Notes:       draft.Notes,
		X:           model.SanitizeCoord(draft.X, 0),
		Y:           model.SanitizeCoord(draft.Y, 0),
	}
	s.tree.Persons[p.ID] = p
	s.autosave()
	return p.ID, nil
}

func (s *MemoryStore) UpdatePerson(id string, draft PersonDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.tree.Person(id)
	if p == nil {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	s.saveState("update_person")
	if draft.Name != "" {
		p.Name = draft.Name
	}
	if draft.Gender != "" {
		p.Gender = model.ParseGender(draft.Gender)
	}
	p.DateOfBirth = draft.DateOfBirth
	p.DateOfDeath = draft.DateOfDeath
	p.PhotoRef = draft.PhotoRef
	p.Notes = draft.Notes
	s.autosave()
	return nil
}

// DeletePerson removes the person and cascades: marriages involving them and
// parent-child edges touching them go too.
func (s *MemoryStore) DeletePerson(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree.Person(id) == nil {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	s.saveState("delete_person")
	delete(s.tree.Persons, id)
	for mid, m := range s.tree.Marriages {
		if m.Involves(id) {
			delete(s.tree.Marriages, mid)
		}
	}
	kept := s.tree.ParentChild[:0]
	for _, pc := range s.tree.ParentChild {
		if pc.ParentID != id && pc.ChildID != id {
			kept = append(kept, pc)
		}
	}
	s.tree.ParentChild = kept
	s.autosave()
	return nil
}

func (s *MemoryStore) CreateMarriage(spouse1ID, spouse2ID, date string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spouse1ID == spouse2ID {
		return "", fmt.Errorf("%w: spouses must be distinct", ErrInvalid)
	}
	if s.tree.Person(spouse1ID) == nil {
		return "", fmt.Errorf("%w: spouse %s", ErrNotFound, spouse1ID)
	}
	if s.tree.Person(spouse2ID) == nil {
		return "", fmt.Errorf("%w: spouse %s", ErrNotFound, spouse2ID)
	}
	s.saveState("create_marriage")
	m := &model.Marriage{
		ID:           uuid.NewString(),
		Spouse1ID:    spouse1ID,
		Spouse2ID:    spouse2ID,
		MarriageDate: date,
		Order:        marriageOrder(s.tree, spouse1ID, spouse2ID),
	}
	s.tree.Marriages[m.ID] = m
	s.autosave()
	return m.ID, nil
}

// DeleteMarriage removes the marriage and any parent-child edges recorded
// under it.
func (s *MemoryStore) DeleteMarriage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree.Marriage(id) == nil {
		return fmt.Errorf("%w: marriage %s", ErrNotFound, id)
	}
	s.saveState("delete_marriage")
	delete(s.tree.Marriages, id)
	kept := s.tree.ParentChild[:0]
	for _, pc := range s.tree.ParentChild {
		if pc.MarriageID != id {
			kept = append(kept, pc)
		}
	}
	s.tree.ParentChild = kept
	s.autosave()
	return nil
}

func (s *MemoryStore) CreateParentChild(parentID, childID, marriageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree.Person(parentID) == nil {
		return fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
	}
	if s.tree.Person(childID) == nil {
		return fmt.Errorf("%w: child %s", ErrNotFound, childID)
	}
	if marriageID != "" && s.tree.Marriage(marriageID) == nil {
		return fmt.Errorf("%w: marriage %s", ErrNotFound, marriageID)
	}
	if s.tree.HasParentChild(parentID, childID) {
		return fmt.Errorf("%w: %s -> %s", ErrExists, parentID, childID)
	}
	s.saveState("add_child")
	s.tree.ParentChild = append(s.tree.ParentChild, model.ParentChildEdge{
		ParentID:   parentID,
		ChildID:    childID,
		MarriageID: marriageID,
	})
	s.autosave()
	return nil
}

func (s *MemoryStore) RemoveParentChild(parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tree.HasParentChild(parentID, childID) {
		return fmt.Errorf("%w: %s -> %s", ErrNotFound, parentID, childID)
	}
	s.saveState("remove_child")
	kept := s.tree.ParentChild[:0]
	for _, pc := range s.tree.ParentChild {
		if !(pc.ParentID == parentID && pc.ChildID == childID) {
			kept = append(kept, pc)
		}
	}
	s.tree.ParentChild = kept
	s.autosave()
	return nil
}

// UpdatePositions writes a position batch. Positions are not undo steps (a
// drag should not pollute the history), but they are persisted.
func (s *MemoryStore) UpdatePositions(updates []canvas.PositionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validate the whole batch first; an unknown id fails it without moving
	// anyone.
	for _, up := range updates {
		if s.tree.Person(up.ID) == nil {
			return fmt.Errorf("%w: person %s", ErrNotFound, up.ID)
		}
	}
	for _, up := range updates {
		p := s.tree.Person(up.ID)
		p.X = model.SanitizeCoord(up.X, p.X)
		p.Y = model.SanitizeCoord(up.Y, p.Y)
	}
	s.autosave()
	return nil
}

func (s *MemoryStore) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return false, nil
	}
	top := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.redoStack = append(s.redoStack, historyEntry{action: top.action, tree: s.tree})
	s.tree = top.tree
	s.autosave()
	debug.Log("undo %s", top.action)
	return true, nil
}

func (s *MemoryStore) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return false, nil
	}
	top := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.undoStack = append(s.undoStack, historyEntry{action: top.action, tree: s.tree})
	s.tree = top.tree
	s.autosave()
	debug.Log("redo %s", top.action)
	return true, nil
}

// AutoLayout recomputes positions for the subtree under opts.RootID and
// applies them as a single undoable step.
func (s *MemoryStore) AutoLayout(opts LayoutOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.RootID == "" {
		opts.RootID = DefaultLayoutRoot(s.tree)
	}
	if s.tree.Person(opts.RootID) == nil {
		return fmt.Errorf("%w: person %s", ErrNotFound, opts.RootID)
	}
	positions := ComputeLayout(s.tree, opts)
	if len(positions) == 0 {
		return nil
	}
	s.saveState("auto_layout")
	for id, pt := range positions {
		if p := s.tree.Person(id); p != nil {
			p.X = model.SanitizeCoord(pt.X, p.X)
			p.Y = model.SanitizeCoord(pt.Y, p.Y)
		}
	}
	s.autosave()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// saveState pushes a snapshot for undo and clears the redo stack. Call with
// the mutex held, before applying the mutation.
func (s *MemoryStore) saveState(action string) {
	s.undoStack = append(s.undoStack, historyEntry{action: action, tree: s.tree.Clone()})
	if len(s.undoStack) > maxHistory {
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = nil
}

// autosave persists the tree best-effort. Failures are logged and ignored so
// a read-only data dir degrades to stateless operation.
func (s *MemoryStore) autosave() {
	if s.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		debug.Log("autosave skipped: %v", err)
		return
	}
	data, err := json.MarshalIndent(s.tree, "", "  ")
	if err != nil {
		debug.Log("autosave marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		debug.Log("autosave write failed: %v", err)
	}
}

// marriageOrder counts existing marriages touching either spouse, matching
// how the order field is assigned on creation.
func marriageOrder(t *model.Tree, spouse1ID, spouse2ID string) int {
	n := 0
	for _, m := range t.Marriages {
		if m.Involves(spouse1ID) || m.Involves(spouse2ID) {
			n++
		}
	}
	return n + 1
}
