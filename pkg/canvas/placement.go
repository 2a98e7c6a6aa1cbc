package canvas

import (
	"math"

	"github.com/treelab/arbor/pkg/model"
)

// Placement geometry constants. HorizontalGap is added to the node width to
// get the spacing between adjacent nodes in a row; GenerationGap is the
// vertical distance between a parent row and its children.
const (
	HorizontalGap = 40.0
	GenerationGap = 150.0

	// shiftBandX is the tolerance to the left of the insertion point within
	// which nodes still count as conflicting.
	shiftBandX = 10.0
	// shiftBandY is the tolerance above the anchor's row within which nodes
	// still count as "same generation or below" for spousal shifting.
	shiftBandY = 50.0
)

// Placement is the outcome of a placement computation: the coordinate for
// the new node plus the position adjustments required for existing nodes.
// The caller applies and persists it; nothing here mutates the tree.
type Placement struct {
	X      float64
	Y      float64
	Shifts []PositionUpdate
}

// PlaceSpouse computes where a new spouse of anchor goes and which existing
// nodes must move aside (insert-and-shift). The new slot opens directly
// right of the rightmost member of the anchor's existing marriages; every
// node at or right of the slot that sits on the anchor's generation row or
// below is pushed right by one full spacing so the slot never overlaps a
// sibling subtree.
//
// Deterministic: shift entries come out in sorted id order.
func PlaceSpouse(tree *model.Tree, anchorID string, nodeWidth float64) (Placement, bool) {
	anchor := tree.Person(anchorID)
	if anchor == nil {
		return Placement{}, false
	}

	spacing := nodeWidth + HorizontalGap

	baseX := anchor.X
	for _, sp := range tree.SpousesOf(anchorID) {
		if sp.X > baseX {
			baseX = sp.X
		}
	}

	newX := model.SanitizeCoord(baseX+spacing, anchor.X+spacing)
	newY := model.SanitizeCoord(anchor.Y, 0)

	var shifts []PositionUpdate
	for _, id := range tree.SortedPersonIDs() {
		q := tree.Person(id)
		if q.X >= newX-shiftBandX && q.Y >= anchor.Y-shiftBandY {
			shifts = append(shifts, PositionUpdate{
				ID: id,
				X:  model.SanitizeCoord(q.X+spacing, q.X),
				Y:  q.Y,
			})
		}
	}

	return Placement{X: newX, Y: newY, Shifts: shifts}, true
}

// PlaceChild computes where a new child of parent goes. When a marriage is
// supplied and both spouses resolve, the reference point is the midpoint of
// the spouses' x and the lower of their y; otherwise the parent's own
// position. The first child hangs one generation below the reference point;
// further children are appended to the right of the existing sibling row at
// the first sibling's y. Children never shift anything.
func PlaceChild(tree *model.Tree, parentID, marriageID string, nodeWidth float64) (Placement, bool) {
	parent := tree.Person(parentID)
	if parent == nil {
		return Placement{}, false
	}

	refX, refY := parent.X, parent.Y

	var siblings []string
	m := tree.Marriage(marriageID)
	if m != nil {
		s1 := tree.Person(m.Spouse1ID)
		s2 := tree.Person(m.Spouse2ID)
		if s1 != nil && s2 != nil {
			refX = (s1.X + s2.X) / 2
			refY = math.Max(s1.Y, s2.Y)
		}
		siblings = tree.ChildrenOfCouple(m)
	} else {
		siblings = tree.ChildrenOf(parentID)
	}

	var x, y float64
	first := firstResolved(tree, siblings)
	if first == nil {
		x = refX
		y = refY + GenerationGap
	} else {
		maxX := math.Inf(-1)
		for _, id := range siblings {
			if p := tree.Person(id); p != nil && p.X > maxX {
				maxX = p.X
			}
		}
		x = maxX + nodeWidth + HorizontalGap
		y = first.Y
	}

	x = model.SanitizeCoord(x, refX)
	y = model.SanitizeCoord(y, refY+GenerationGap)
	return Placement{X: x, Y: y}, true
}

// firstResolved returns the first id in ids that resolves to a person, or
// nil. Sibling rows keep edge order, so "first" is the oldest recorded
// sibling.
func firstResolved(tree *model.Tree, ids []string) *model.Person {
	for _, id := range ids {
		if p := tree.Person(id); p != nil {
			return p
		}
	}
	return nil
}
