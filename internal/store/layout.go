package store

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/model"
)

// ComputeLayout calculates positions for every person reachable from the
// layout root, one generation per row (top-down) or column (left-right).
// Family units are centered over their children; spouses sit next to the
// main person in marriage order. Disconnected persons are parked in a row
// past the laid-out extent so nothing vanishes off-screen.
//
// This is the store-side whole-tree layout; the canvas only triggers it and
// reloads. It deliberately ignores current positions.
func ComputeLayout(tree *model.Tree, opts LayoutOptions) map[string]canvas.Point {
	positions := make(map[string]canvas.Point)
	if tree == nil || len(tree.Persons) == 0 || tree.Person(opts.RootID) == nil {
		return positions
	}

	spacingX := opts.SpacingX
	spacingY := opts.SpacingY
	if spacingX <= 0 {
		spacingX = 200
	}
	if spacingY <= 0 {
		spacingY = 150
	}
	horizontal := opts.Direction == LeftRight

	childrenByMarriage := make(map[string][]string)
	for _, pc := range tree.ParentChild {
		if pc.MarriageID == "" {
			continue
		}
		if tree.Marriage(pc.MarriageID) == nil {
			continue
		}
		if !containsID(childrenByMarriage[pc.MarriageID], pc.ChildID) {
			childrenByMarriage[pc.MarriageID] = append(childrenByMarriage[pc.MarriageID], pc.ChildID)
		}
	}

	visited := make(map[string]bool)

	place := func(id string, level int, along float64) {
		if horizontal {
			positions[id] = canvas.Point{X: float64(level) * spacingY, Y: along}
		} else {
			positions[id] = canvas.Point{X: along, Y: float64(level) * spacingY}
		}
	}

	// placeUnit lays out a person, their spouses and recursively all their
	// children, returning the width the unit consumed.
	var placeUnit func(id string, level int, baseX float64) float64
	placeUnit = func(id string, level int, baseX float64) float64 {
		if visited[id] {
			return 0
		}
		visited[id] = true

		var spouses []string
		var children []string
		for _, m := range tree.MarriagesOf(id) {
			if other := m.Other(id); other != "" && !visited[other] && tree.Person(other) != nil {
				spouses = append(spouses, other)
				visited[other] = true
			}
			for _, c := range childrenByMarriage[m.ID] {
				if !containsID(children, c) {
					children = append(children, c)
				}
			}
		}
		for _, c := range tree.ChildrenOf(id) {
			if !containsID(children, c) {
				children = append(children, c)
			}
		}

		unitWidth := spacingX * float64(1+len(spouses))

		childrenWidth := 0.0
		for _, childID := range children {
			if tree.Person(childID) == nil {
				continue
			}
			childrenWidth += placeUnit(childID, level+1, baseX+childrenWidth)
		}
		if childrenWidth == 0 {
			childrenWidth = unitWidth
		}

		familyX := baseX + childrenWidth/2 - unitWidth/2
		place(id, level, familyX)
		for i, spouseID := range spouses {
			place(spouseID, level, familyX+spacingX*float64(i+1))
		}

		if childrenWidth > unitWidth {
			return childrenWidth
		}
		return unitWidth
	}

	placeUnit(opts.RootID, 0, 0)

	// Park anything the traversal never reached.
	var unplaced []string
	for _, id := range tree.SortedPersonIDs() {
		if !visited[id] {
			unplaced = append(unplaced, id)
		}
	}
	if len(unplaced) > 0 {
		sort.Strings(unplaced)
		extent := layoutExtent(positions, horizontal)
		for i, id := range unplaced {
			if horizontal {
				positions[id] = canvas.Point{X: extent + spacingY, Y: float64(i) * spacingX}
			} else {
				positions[id] = canvas.Point{X: float64(i) * spacingX, Y: extent + spacingY}
			}
		}
	}

	return positions
}

// layoutExtent returns the max laid-out coordinate along the layout axis.
func layoutExtent(positions map[string]canvas.Point, horizontal bool) float64 {
	if len(positions) == 0 {
		return 0
	}
	vals := make([]float64, 0, len(positions))
	for _, pt := range positions {
		if horizontal {
			vals = append(vals, pt.X)
		} else {
			vals = append(vals, pt.Y)
		}
	}
	return floats.Max(vals)
}

// DefaultLayoutRoot picks a layout root when the caller has none: the first
// person (in id order) that is nobody's child, falling back to the first
// person overall. Empty tree yields "".
func DefaultLayoutRoot(tree *model.Tree) string {
	ids := tree.SortedPersonIDs()
	if len(ids) == 0 {
		return ""
	}
	isChild := make(map[string]bool)
	for _, pc := range tree.ParentChild {
		isChild[pc.ChildID] = true
	}
	for _, id := range ids {
		if !isChild[id] {
			return id
		}
	}
	return ids[0]
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
