package ui

import (
	"strings"
	"testing"

	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/model"
)

func renderTree() *model.Tree {
	tree := model.NewTree()
	tree.Persons["a"] = &model.Person{ID: "a", Name: "Alice", Gender: model.GenderFemale, X: 0, Y: 0}
	tree.Persons["b"] = &model.Person{ID: "b", Name: "Bob", Gender: model.GenderMale, X: 160, Y: 0}
	tree.Persons["c"] = &model.Person{ID: "c", Name: "Cleo", X: 80, Y: 150}
	tree.Marriages["m1"] = &model.Marriage{ID: "m1", Spouse1ID: "a", Spouse2ID: "b", Order: 1}
	tree.ParentChild = []model.ParentChildEdge{{ParentID: "a", ChildID: "c", MarriageID: "m1"}}
	return tree
}

func renderDefault(tree *model.Tree, vp *canvas.Viewport, sel *canvas.Selection) Frame {
	return RenderScene(tree, vp, sel, DefaultTheme(), 120, 60, 18, 100, 30)
}

func TestRenderSceneHitBoxes(t *testing.T) {
	tree := renderTree()
	vp := canvas.NewViewport()
	sel := canvas.NewSelection()

	frame := renderDefault(tree, vp, sel)

	if len(frame.Boxes) != 3 {
		t.Fatalf("expected 3 hit boxes, got %d", len(frame.Boxes))
	}

	// person a sits at scene (0,0) = cell (0,0) with an identity viewport
	if got := frame.NodeAt(0, 0); got != "a" {
		t.Errorf("NodeAt(0,0) = %q, want a", got)
	}
	// 120 scene units wide = 15 cells
	if got := frame.NodeAt(14, 1); got != "a" {
		t.Errorf("NodeAt(14,1) = %q, want a", got)
	}
	if got := frame.NodeAt(15, 1); got == "a" {
		t.Error("hit box extends past the node width")
	}
	// b starts at scene x=160 = cell 20
	if got := frame.NodeAt(20, 0); got != "b" {
		t.Errorf("NodeAt(20,0) = %q, want b", got)
	}
	if got := frame.NodeAt(90, 25); got != "" {
		t.Errorf("empty space hit %q", got)
	}
}

func TestRenderSceneOverlapTopmostWins(t *testing.T) {
	tree := model.NewTree()
	tree.Persons["a"] = &model.Person{ID: "a", Name: "Under", X: 0, Y: 0}
	tree.Persons["b"] = &model.Person{ID: "b", Name: "Over", X: 20, Y: 10}
	vp := canvas.NewViewport()
	sel := canvas.NewSelection()

	frame := renderDefault(tree, vp, sel)

	// b draws after a (sorted id order), so it wins where they overlap
	if got := frame.NodeAt(3, 1); got != "b" {
		t.Errorf("NodeAt in overlap = %q, want b", got)
	}
}

func TestRenderScenePanMovesNodes(t *testing.T) {
	tree := renderTree()
	vp := canvas.NewViewport()
	sel := canvas.NewSelection()

	vp.Pan(8*CellPxW, 2*CellPxH)
	frame := renderDefault(tree, vp, sel)

	if got := frame.NodeAt(0, 0); got != "" {
		t.Errorf("node still at origin after pan: %q", got)
	}
	if got := frame.NodeAt(8, 2); got != "a" {
		t.Errorf("NodeAt(8,2) = %q, want a", got)
	}
}

func TestRenderSceneViewDimensions(t *testing.T) {
	tree := renderTree()
	frame := renderDefault(tree, canvas.NewViewport(), canvas.NewSelection())

	if len(frame.Lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(frame.Lines))
	}
	view := frame.View()
	if strings.Count(view, "\n") != 29 {
		t.Errorf("expected 29 newlines, got %d", strings.Count(view, "\n"))
	}
	if !strings.Contains(view, "Alice") {
		t.Error("node name missing from rendered view")
	}
}

func TestRenderSceneEmpty(t *testing.T) {
	frame := RenderScene(model.NewTree(), canvas.NewViewport(), canvas.NewSelection(),
		DefaultTheme(), 120, 60, 18, 0, 0)
	if len(frame.Lines) != 0 || len(frame.Boxes) != 0 {
		t.Errorf("expected empty frame, got %d lines %d boxes", len(frame.Lines), len(frame.Boxes))
	}
}
