package canvas

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/treelab/arbor/pkg/model"
)

const testNodeWidth = 120.0

func TestPlaceSpouseNextToAnchor(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "p", 0, 0)

	pl, ok := PlaceSpouse(tree, "p", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.X != testNodeWidth+HorizontalGap || pl.Y != 0 {
		t.Errorf("expected (%f, 0), got (%f, %f)", testNodeWidth+HorizontalGap, pl.X, pl.Y)
	}
	if len(pl.Shifts) != 0 {
		t.Errorf("expected no shifts on an empty row, got %v", pl.Shifts)
	}
}

func TestPlaceSpouseAfterRightmostSpouse(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "p", 0, 0)
	addPerson(tree, "s1", 160, 0)
	addMarriage(tree, "m1", "p", "s1")

	pl, ok := PlaceSpouse(tree, "p", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.X != 320 {
		t.Errorf("expected x 320 (right of existing spouse), got %f", pl.X)
	}
}

func TestPlaceSpouseShiftsConflictingNodes(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "p", 0, 0)
	// q occupies the insertion slot and sits within the generation band
	addPerson(tree, "q", 160, -20)
	// r is on the slot column but well above the band; it must not move
	addPerson(tree, "r", 160, -100)
	// s is left of the slot; it must not move
	addPerson(tree, "s", 100, 0)

	pl, ok := PlaceSpouse(tree, "p", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if len(pl.Shifts) != 1 {
		t.Fatalf("expected exactly one shift, got %v", pl.Shifts)
	}
	got := pl.Shifts[0]
	if got.ID != "q" || got.X != 320 || got.Y != -20 {
		t.Errorf("expected q shifted to (320, -20), got %+v", got)
	}
}

func TestPlaceFirstChildUnderMarriageMidpoint(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "dad", 0, 0)
	addPerson(tree, "mom", 160, 0)
	addMarriage(tree, "m1", "dad", "mom")

	pl, ok := PlaceChild(tree, "dad", "m1", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.X != 80 || pl.Y != GenerationGap {
		t.Errorf("expected (80, %f), got (%f, %f)", GenerationGap, pl.X, pl.Y)
	}
}

func TestPlaceSiblingRightOfRow(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "dad", 0, 0)
	addPerson(tree, "mom", 160, 0)
	addPerson(tree, "kid1", 80, 150)
	addMarriage(tree, "m1", "dad", "mom")
	addChild(tree, "dad", "kid1", "m1")

	pl, ok := PlaceChild(tree, "dad", "m1", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.X != 80+testNodeWidth+HorizontalGap {
		t.Errorf("expected x %f, got %f", 80+testNodeWidth+HorizontalGap, pl.X)
	}
	// siblings land on the first sibling's row, whatever the reference says
	if pl.Y != 150 {
		t.Errorf("expected y 150, got %f", pl.Y)
	}
}

func TestPlaceChildSequentialInsertions(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "dad", 0, 0)
	addPerson(tree, "mom", 160, 0)
	addMarriage(tree, "m1", "dad", "mom")

	spacing := testNodeWidth + HorizontalGap
	prevX := math.Inf(-1)
	for i := 0; i < 5; i++ {
		pl, ok := PlaceChild(tree, "dad", "m1", testNodeWidth)
		if !ok {
			t.Fatalf("child %d: expected placement", i)
		}
		if pl.Y != GenerationGap {
			t.Errorf("child %d left the sibling row: y = %g", i, pl.Y)
		}
		if i == 0 {
			if pl.X != 80 {
				t.Fatalf("first child at x %g, want midpoint 80", pl.X)
			}
		} else if pl.X != prevX+spacing {
			t.Errorf("child %d at x %g, want %g (constant spacing)", i, pl.X, prevX+spacing)
		}
		if pl.X <= prevX {
			t.Errorf("child %d x %g not strictly right of %g", i, pl.X, prevX)
		}
		prevX = pl.X

		id := fmt.Sprintf("kid%d", i)
		addPerson(tree, id, pl.X, pl.Y)
		addChild(tree, "dad", id, "m1")
	}
}

func TestPlacementDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := model.NewTree()
		ax := rapid.Float64Range(-1e6, 1e6).Draw(t, "ax")
		ay := rapid.Float64Range(-1e6, 1e6).Draw(t, "ay")
		addPerson(tree, "anchor", ax, ay)

		n := rapid.IntRange(0, 6).Draw(t, "n")
		for i := 0; i < n; i++ {
			addPerson(tree, fmt.Sprintf("p%d", i),
				rapid.Float64Range(-1e6, 1e6).Draw(t, "px"),
				rapid.Float64Range(-1e6, 1e6).Draw(t, "py"))
		}

		sp1, ok := PlaceSpouse(tree, "anchor", testNodeWidth)
		if !ok {
			t.Fatal("expected spouse placement")
		}
		sp2, _ := PlaceSpouse(tree, "anchor", testNodeWidth)
		if !reflect.DeepEqual(sp1, sp2) {
			t.Fatalf("spouse placement not deterministic: %+v vs %+v", sp1, sp2)
		}
		if sp1.X <= ax {
			t.Fatalf("spouse at x %g not right of anchor %g", sp1.X, ax)
		}
		for i := 1; i < len(sp1.Shifts); i++ {
			if sp1.Shifts[i-1].ID >= sp1.Shifts[i].ID {
				t.Fatalf("shifts not in sorted id order: %+v", sp1.Shifts)
			}
		}

		ch1, ok := PlaceChild(tree, "anchor", "", testNodeWidth)
		if !ok {
			t.Fatal("expected child placement")
		}
		ch2, _ := PlaceChild(tree, "anchor", "", testNodeWidth)
		if !reflect.DeepEqual(ch1, ch2) {
			t.Fatalf("child placement not deterministic: %+v vs %+v", ch1, ch2)
		}
	})
}

func TestPlaceChildWithoutMarriageUsesParent(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "solo", 300, 450)

	pl, ok := PlaceChild(tree, "solo", "", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.X != 300 || pl.Y != 450+GenerationGap {
		t.Errorf("expected (300, %f), got (%f, %f)", 450+GenerationGap, pl.X, pl.Y)
	}
}

func TestPlaceChildSanitizesNonFinite(t *testing.T) {
	tree := model.NewTree()
	addPerson(tree, "dad", 0, 0)
	addPerson(tree, "kid1", math.Inf(1), 150)
	addChild(tree, "dad", "kid1", "")

	pl, ok := PlaceChild(tree, "dad", "", testNodeWidth)
	if !ok {
		t.Fatal("expected placement")
	}
	if math.IsInf(pl.X, 0) || math.IsNaN(pl.X) {
		t.Errorf("expected finite x, got %f", pl.X)
	}
	// fallback is the reference x
	if pl.X != 0 {
		t.Errorf("expected fallback x 0, got %f", pl.X)
	}
}

func TestPlaceSpouseUnknownAnchor(t *testing.T) {
	tree := model.NewTree()
	if _, ok := PlaceSpouse(tree, "ghost", testNodeWidth); ok {
		t.Error("expected no placement for unknown anchor")
	}
	if _, ok := PlaceChild(tree, "ghost", "", testNodeWidth); ok {
		t.Error("expected no placement for unknown parent")
	}
}
