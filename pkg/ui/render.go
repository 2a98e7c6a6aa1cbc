package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/model"
)

// Terminal cells are not square. These factors convert screen pixels (the
// viewport's output space) to columns and rows so pan and zoom math can stay
// in continuous coordinates.
const (
	CellPxW = 8.0
	CellPxH = 16.0
)

// NodeBox is the cell-space bounding box of a rendered node, kept for
// pointer hit-testing. Boxes are recorded in draw order; the last hit wins
// so nodes always test above edges and later nodes above earlier ones.
type NodeBox struct {
	ID         string
	X, Y, W, H int
}

// Frame is one rendered scene: the styled lines plus the hit boxes that
// produced them.
type Frame struct {
	Lines []string
	Boxes []NodeBox
}

// NodeAt returns the id of the topmost node covering the cell, or "".
func (f Frame) NodeAt(col, row int) string {
	for i := len(f.Boxes) - 1; i >= 0; i-- {
		b := f.Boxes[i]
		if col >= b.X && col < b.X+b.W && row >= b.Y && row < b.Y+b.H {
			return b.ID
		}
	}
	return ""
}

// View joins the frame lines.
func (f Frame) View() string {
	return strings.Join(f.Lines, "\n")
}

// cell paint classes, one per style run.
type cellClass uint8

const (
	clsEmpty cellClass = iota
	clsMarriage
	clsDescent
	clsNode
	clsNodeSel
	clsMale
	clsFemale
	clsUnknown
)

type sceneGrid struct {
	w, h  int
	runes [][]rune
	class [][]cellClass
}

func newSceneGrid(w, h int) *sceneGrid {
	g := &sceneGrid{w: w, h: h}
	g.runes = make([][]rune, h)
	g.class = make([][]cellClass, h)
	for y := 0; y < h; y++ {
		g.runes[y] = make([]rune, w)
		g.class[y] = make([]cellClass, w)
		for x := 0; x < w; x++ {
			g.runes[y][x] = ' '
		}
	}
	return g
}

func (g *sceneGrid) set(x, y int, r rune, c cellClass) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	g.class[y][x] = c
}

// line draws a straight run of cells between two points (Bresenham).
func (g *sceneGrid) line(x1, y1, x2, y2 int, r rune, c cellClass) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		g.set(x1, y1, r, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RenderScene draws the full scene with no retained diffing: a pure function
// of (tree, viewport, selection, geometry, size). Edges first, then nodes,
// so nodes hit-test and paint above edges.
func RenderScene(tree *model.Tree, vp *canvas.Viewport, sel *canvas.Selection, t Theme,
	nodeWidth, nodeHeight float64, maxName, width, height int) Frame {

	if width < 1 || height < 1 {
		return Frame{}
	}
	g := newSceneGrid(width, height)

	toCell := func(scene canvas.Point) (int, int) {
		screen := vp.ToScreen(scene)
		return int(screen.X / CellPxW), int(screen.Y / CellPxH)
	}

	// Node cell extents at the current zoom.
	boxW := int(nodeWidth * vp.Scale / CellPxW)
	if boxW < 6 {
		boxW = 6
	}
	boxH := int(nodeHeight * vp.Scale / CellPxH)
	if boxH < 3 {
		boxH = 3
	}

	centerOf := func(p *model.Person) (int, int) {
		cx, cy := toCell(canvas.Point{X: p.X + nodeWidth/2, Y: p.Y + nodeHeight/2})
		return cx, cy
	}

	// Marriage lines between spouse centers.
	for _, mid := range tree.SortedMarriageIDs() {
		m := tree.Marriage(mid)
		s1, s2 := tree.Person(m.Spouse1ID), tree.Person(m.Spouse2ID)
		if s1 == nil || s2 == nil {
			continue
		}
		x1, y1 := centerOf(s1)
		x2, y2 := centerOf(s2)
		r := '·'
		if y1 == y2 {
			r = '═'
		}
		g.line(x1, y1, x2, y2, r, clsMarriage)
	}

	// Parent-child connectors: orthogonal path from the anchor (marriage
	// midpoint when resolvable, else the parent) down to the child's top.
	for _, pc := range tree.ParentChild {
		child := tree.Person(pc.ChildID)
		if child == nil {
			continue
		}
		var ax, ay int
		anchored := false
		if m := tree.Marriage(pc.MarriageID); m != nil {
			s1, s2 := tree.Person(m.Spouse1ID), tree.Person(m.Spouse2ID)
			if s1 != nil && s2 != nil {
				x1, y1 := centerOf(s1)
				x2, y2 := centerOf(s2)
				ax, ay = (x1+x2)/2, (y1+y2)/2
				anchored = true
			}
		}
		if !anchored {
			parent := tree.Person(pc.ParentID)
			if parent == nil {
				continue
			}
			ax, ay = centerOf(parent)
		}
		cx, cy := toCell(canvas.Point{X: child.X + nodeWidth/2, Y: child.Y})
		midY := (ay + cy) / 2
		g.line(ax, ay+1, ax, midY, '│', clsDescent)
		g.line(ax, midY, cx, midY, '─', clsDescent)
		g.line(cx, midY, cx, cy-1, '│', clsDescent)
	}

	// Nodes, recorded for hit-testing in draw order.
	var boxes []NodeBox
	for _, id := range tree.SortedPersonIDs() {
		p := tree.Person(id)
		x, y := toCell(canvas.Point{X: p.X, Y: p.Y})
		drawNode(g, p, x, y, boxW, boxH, maxName, sel)
		boxes = append(boxes, NodeBox{ID: id, X: x, Y: y, W: boxW, H: boxH})
	}

	return Frame{Lines: g.styledLines(t), Boxes: boxes}
}

func drawNode(g *sceneGrid, p *model.Person, x, y, w, h, maxName int, sel *canvas.Selection) {
	selected := sel.Contains(p.ID)
	cls := clsNode
	tl, tr, bl, br := '╭', '╮', '╰', '╯'
	hz, vt := '─', '│'
	if selected {
		cls = clsNodeSel
		tl, tr, bl, br = '┏', '┓', '┗', '┛'
		hz, vt = '━', '┃'
	}

	// Border.
	for i := 1; i < w-1; i++ {
		g.set(x+i, y, hz, cls)
		g.set(x+i, y+h-1, hz, cls)
	}
	for j := 1; j < h-1; j++ {
		g.set(x, y+j, vt, cls)
		g.set(x+w-1, y+j, vt, cls)
	}
	g.set(x, y, tl, cls)
	g.set(x+w-1, y, tr, cls)
	g.set(x, y+h-1, bl, cls)
	g.set(x+w-1, y+h-1, br, cls)

	// Interior: name, then dates when the box is tall enough.
	interior := w - 2
	budget := interior
	if budget > maxName {
		budget = maxName
	}
	name := truncate(p.Name, budget)
	if sel.Primary() == p.ID && interior > len([]rune(name))+1 {
		name = "◆" + name
	}
	writeCentered(g, x+1, y+1, interior, name, genderClass(p.Gender))
	if h >= 4 {
		meta := strings.TrimSpace(genderSymbol(p.Gender) + " " + lifeSpan(p))
		writeCentered(g, x+1, y+2, interior, truncate(meta, interior), cls)
	}
}

func genderClass(gd model.Gender) cellClass {
	switch gd {
	case model.GenderMale:
		return clsMale
	case model.GenderFemale:
		return clsFemale
	default:
		return clsUnknown
	}
}

func writeCentered(g *sceneGrid, x, y, width int, s string, cls cellClass) {
	runes := []rune(s)
	if len(runes) > width {
		runes = runes[:width]
	}
	start := x + (width-len(runes))/2
	for i, r := range runes {
		g.set(start+i, y, r, cls)
	}
}

// styledLines converts the grid to styled strings, batching contiguous runs
// of the same class into one lipgloss render call.
func (g *sceneGrid) styledLines(t Theme) []string {
	styles := map[cellClass]lipgloss.Style{
		clsEmpty:    t.Renderer.NewStyle(),
		clsMarriage: t.Renderer.NewStyle().Foreground(t.Marriage),
		clsDescent:  t.Renderer.NewStyle().Foreground(t.Descent),
		clsNode:     t.Renderer.NewStyle().Foreground(t.Secondary),
		clsNodeSel:  t.Renderer.NewStyle().Foreground(t.Primary).Background(t.Highlight).Bold(true),
		clsMale:     t.Renderer.NewStyle().Foreground(t.Male),
		clsFemale:   t.Renderer.NewStyle().Foreground(t.Female),
		clsUnknown:  t.Renderer.NewStyle().Foreground(t.Unknown),
	}

	lines := make([]string, g.h)
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		b.Reset()
		x := 0
		for x < g.w {
			cls := g.class[y][x]
			start := x
			for x < g.w && g.class[y][x] == cls {
				x++
			}
			run := string(g.runes[y][start:x])
			if cls == clsEmpty {
				b.WriteString(run)
			} else {
				b.WriteString(styles[cls].Render(run))
			}
		}
		lines[y] = b.String()
	}
	return lines
}
