package canvas

import "github.com/treelab/arbor/pkg/model"

// Selection tracks the ordered set of selected person ids plus the single
// primary id used for detail display and as the anchor for relationship
// actions.
type Selection struct {
	ids     []string
	present map[string]bool
	primary string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{present: make(map[string]bool)}
}

// IDs returns the selected ids in selection order. The returned slice is a
// copy.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Primary returns the primary selection id, or "" when nothing is selected.
func (s *Selection) Primary() string {
	return s.primary
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return s.present[id]
}

// Click applies node-click semantics: with additive (modifier held) the id's
// membership toggles; otherwise an unselected id replaces the whole set. The
// clicked id always becomes primary, even when an additive click just
// removed it from the set.
func (s *Selection) Click(id string, additive bool) {
	if additive {
		if s.present[id] {
			s.remove(id)
		} else {
			s.add(id)
		}
	} else if !s.present[id] {
		s.Clear()
		s.add(id)
	}
	s.primary = id
}

// ClearBackground applies a background click without modifier: everything is
// deselected.
func (s *Selection) ClearBackground() {
	s.Clear()
}

// Clear removes all ids and the primary.
func (s *Selection) Clear() {
	s.ids = s.ids[:0]
	s.present = make(map[string]bool)
	s.primary = ""
}

// Replace sets the selection to exactly ids, keeping primary untouched only
// if the caller restores it afterwards.
func (s *Selection) Replace(ids []string) {
	s.Clear()
	for _, id := range ids {
		s.add(id)
	}
}

// SelectBranch replaces the selection with the branch rooted at rootID:
// the root, all of its descendants, and every spouse of a member. Spouses
// are included but not expanded. The visited check makes the traversal
// terminate even on malformed data containing parent-child cycles. Primary
// is left at the root.
func (s *Selection) SelectBranch(rootID string, tree *model.Tree) {
	if tree == nil || tree.Person(rootID) == nil {
		return
	}

	visited := make(map[string]bool)
	var ordered []string

	add := func(id string) {
		if !visited[id] && tree.Person(id) != nil {
			visited[id] = true
			ordered = append(ordered, id)
		}
	}

	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		add(id)
		for _, sp := range tree.SpousesOf(id) {
			add(sp.ID)
		}
		for _, childID := range tree.ChildrenOf(id) {
			if !visited[childID] {
				queue = append(queue, childID)
			}
		}
	}

	s.Replace(ordered)
	s.primary = rootID
}

func (s *Selection) add(id string) {
	if s.present[id] {
		return
	}
	s.present[id] = true
	s.ids = append(s.ids, id)
}

func (s *Selection) remove(id string) {
	if !s.present[id] {
		return
	}
	delete(s.present, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}
