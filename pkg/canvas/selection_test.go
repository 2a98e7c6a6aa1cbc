package canvas

import (
	"reflect"
	"sort"
	"testing"

	"github.com/treelab/arbor/pkg/model"
)

func addPerson(t *model.Tree, id string, x, y float64) {
	t.Persons[id] = &model.Person{ID: id, Name: id, X: x, Y: y}
}

func addMarriage(t *model.Tree, id, s1, s2 string) {
	t.Marriages[id] = &model.Marriage{ID: id, Spouse1ID: s1, Spouse2ID: s2, Order: 1}
}

func addChild(t *model.Tree, parent, child, marriage string) {
	t.ParentChild = append(t.ParentChild, model.ParentChildEdge{
		ParentID: parent, ChildID: child, MarriageID: marriage,
	})
}

func TestClickReplacesSelection(t *testing.T) {
	s := NewSelection()
	s.Click("a", false)
	s.Click("b", false)

	if s.Len() != 1 || !s.Contains("b") {
		t.Errorf("expected only b selected, got %v", s.IDs())
	}
	if s.Primary() != "b" {
		t.Errorf("expected primary b, got %q", s.Primary())
	}
}

func TestClickOnSelectedKeepsSet(t *testing.T) {
	s := NewSelection()
	s.Click("a", false)
	s.Click("b", true)

	// Plain click on an already selected node must not collapse the set.
	s.Click("a", false)
	if s.Len() != 2 {
		t.Errorf("expected 2 selected, got %v", s.IDs())
	}
	if s.Primary() != "a" {
		t.Errorf("expected primary a, got %q", s.Primary())
	}
}

func TestAdditiveClickToggles(t *testing.T) {
	s := NewSelection()
	s.Click("a", false)
	s.Click("b", true)
	if s.Len() != 2 {
		t.Fatalf("expected 2 selected, got %v", s.IDs())
	}

	s.Click("b", true)
	if s.Contains("b") {
		t.Error("expected b toggled off")
	}
	// The clicked id stays primary even when it was just deselected.
	if s.Primary() != "b" {
		t.Errorf("expected primary b after toggle off, got %q", s.Primary())
	}
}

func TestClearBackground(t *testing.T) {
	s := NewSelection()
	s.Click("a", false)
	s.Click("b", true)
	s.ClearBackground()

	if s.Len() != 0 || s.Primary() != "" {
		t.Errorf("expected empty selection, got %v primary %q", s.IDs(), s.Primary())
	}
}

func TestSelectBranch(t *testing.T) {
	tree := model.NewTree()
	for _, id := range []string{"root", "wife", "kid1", "kid2", "kid1wife", "grandkid", "stepkid"} {
		addPerson(tree, id, 0, 0)
	}
	addMarriage(tree, "m1", "root", "wife")
	addMarriage(tree, "m2", "kid1", "kid1wife")
	addChild(tree, "root", "kid1", "m1")
	addChild(tree, "root", "kid2", "m1")
	addChild(tree, "kid1", "grandkid", "m2")
	// stepkid hangs off kid1wife only: spouses are included but never
	// expanded, so the branch must not pick it up.
	addChild(tree, "kid1wife", "stepkid", "")

	s := NewSelection()
	s.SelectBranch("root", tree)

	got := s.IDs()
	sort.Strings(got)
	want := []string{"grandkid", "kid1", "kid1wife", "kid2", "root", "wife"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("branch selection = %v, want %v", got, want)
	}
	if s.Primary() != "root" {
		t.Errorf("expected primary root, got %q", s.Primary())
	}
}

func TestSelectBranchCycleTerminates(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "a", 0, 0)
	addPerson(tree, "b", 0, 0)
	addChild(tree, "a", "b", "")
	addChild(tree, "b", "a", "")

	s := NewSelection()
	s.SelectBranch("a", tree)

	if s.Len() != 2 {
		t.Errorf("expected both nodes selected once, got %v", s.IDs())
	}
}

func TestSelectBranchUnknownRoot(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "a", 0, 0)

	s := NewSelection()
	s.Click("a", false)
	s.SelectBranch("ghost", tree)

	if !s.Contains("a") {
		t.Error("selection changed for unknown root")
	}
}
