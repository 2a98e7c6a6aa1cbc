package canvas

import (
	"math"
	"sort"

	"github.com/treelab/arbor/pkg/model"
)

func sortUpdates(ups []PositionUpdate) {
	sort.Slice(ups, func(i, j int) bool { return ups[i].ID < ups[j].ID })
}

// DragThreshold is the scene-space displacement that turns a press into a
// drag. Below it, the release is a click.
const DragThreshold = 5.0

// DragState is the gesture machine state.
type DragState int

const (
	DragIdle DragState = iota
	// DragArmed: pointer is down over a node but has not crossed the
	// threshold yet. Release here is a click.
	DragArmed
	// DragMoving: the threshold was crossed; every move repositions the
	// selected nodes locally. Release commits one position batch.
	DragMoving
)

// PositionUpdate is a single (id, x, y) entry of a batched position commit.
type PositionUpdate struct {
	ID string
	X  float64
	Y  float64
}

// DragResult is the exit action of a gesture, produced by Release.
type DragResult struct {
	// Commit holds the final positions of every moved node when the gesture
	// was a drag. Nil for clicks.
	Commit []PositionUpdate
	// Clicked is the pressed node id when the gesture stayed below the
	// threshold. Empty for drags.
	Clicked string
	// ShowDetail is set for clicks with exactly one selected node; the UI
	// opens the detail display for the primary selection.
	ShowDetail bool
}

// DragController runs one pointer gesture at a time. It owns no listeners;
// the UI calls Press/Move/Release/Suspend and applies the result. During
// DragMoving it mutates tree positions in place, which is the only local
// mutation of the scene model outside a reload.
type DragController struct {
	state     DragState
	pressedID string
	origin    Point // scene-space press coordinate
	start     map[string]Point
	moved     bool

	// click semantics carried to release: an additive press on an already
	// selected node keeps the set during the gesture so a multi-drag works,
	// and toggles the node off only if the gesture stayed a click.
	additive    bool
	wasSelected bool
}

// NewDragController returns an idle controller.
func NewDragController() *DragController {
	return &DragController{}
}

// State returns the current gesture state.
func (d *DragController) State() DragState {
	return d.state
}

// Active reports whether a gesture is in progress. Reloads must not replace
// the tree while this is true.
func (d *DragController) Active() bool {
	return d.state != DragIdle
}

// Press starts a gesture on node id at the given scene coordinate. If the
// node is not selected it is selected first, replacing the prior set unless
// additive. The positions of all selected nodes are snapshotted so moves can
// be applied as deltas from the origin.
func (d *DragController) Press(id string, scene Point, additive bool, sel *Selection, tree *model.Tree) {
	if d.state != DragIdle || tree == nil || tree.Person(id) == nil {
		return
	}
	d.additive = additive
	d.wasSelected = sel.Contains(id)
	if !d.wasSelected {
		sel.Click(id, additive)
	} else {
		sel.Click(id, false)
	}

	d.state = DragArmed
	d.pressedID = id
	d.origin = scene
	d.moved = false
	d.start = make(map[string]Point, sel.Len())
	for _, sid := range sel.IDs() {
		if p := tree.Person(sid); p != nil {
			d.start[sid] = Point{X: p.X, Y: p.Y}
		}
	}
}

// Move feeds the current scene-space pointer coordinate into the gesture.
// Once the displacement from the press origin reaches DragThreshold the
// gesture becomes a drag and every snapshot position is shifted by the
// delta, written straight into the tree. Returns true when the caller should
// redraw.
func (d *DragController) Move(scene Point, tree *model.Tree) bool {
	if d.state == DragIdle || tree == nil {
		return false
	}
	dx := scene.X - d.origin.X
	dy := scene.Y - d.origin.Y

	if d.state == DragArmed {
		if math.Hypot(dx, dy) < DragThreshold {
			return false
		}
		d.state = DragMoving
		d.moved = true
	}

	for id, p0 := range d.start {
		p := tree.Person(id)
		if p == nil {
			continue
		}
		p.X = model.SanitizeCoord(p0.X+dx, p0.X)
		p.Y = model.SanitizeCoord(p0.Y+dy, p0.Y)
	}
	return true
}

// Release ends the gesture. A drag yields the batched final positions; a
// click yields the clicked id, finishing any pending additive toggle, with
// ShowDetail set when the clicked node ends up as the only selection. Local
// positions are never rolled back on commit failure; the next reload
// reconciles.
func (d *DragController) Release(sel *Selection, tree *model.Tree) DragResult {
	res := DragResult{}
	switch d.state {
	case DragMoving:
		for id := range d.start {
			if p := tree.Person(id); p != nil {
				res.Commit = append(res.Commit, PositionUpdate{ID: id, X: p.X, Y: p.Y})
			}
		}
		sortUpdates(res.Commit)
	case DragArmed:
		// The press kept an already selected node in the set so a drag could
		// move the whole selection; a release that stayed a click completes
		// the additive toggle now.
		if d.additive && d.wasSelected {
			sel.Click(d.pressedID, true)
		}
		res.Clicked = d.pressedID
		res.ShowDetail = sel.Len() == 1 && sel.Contains(d.pressedID)
	}
	d.reset()
	return res
}

// Suspend aborts the gesture without commit or click, leaving already
// applied local moves in place. Used when a second touch arrives and the
// gesture hands over to pinch-zoom.
func (d *DragController) Suspend() {
	d.reset()
}

func (d *DragController) reset() {
	d.state = DragIdle
	d.pressedID = ""
	d.start = nil
	d.moved = false
	d.additive = false
	d.wasSelected = false
}
