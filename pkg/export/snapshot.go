// Package export renders static snapshots of a family tree scene to SVG or
// PNG. The renderer is a pure function of the tree: same tree, same bytes,
// which keeps golden tests stable.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/treelab/arbor/pkg/model"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path       string // Output path; format inferred from extension when Format empty
	Format     string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title      string // Optional title rendered in the header
	Tree       *model.Tree
	NodeWidth  float64 // Scene-space node box width; <=0 uses 120
	NodeHeight float64 // Scene-space node box height; <=0 uses 60
}

// SaveSnapshot renders the tree to opts.Path.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Tree == nil || len(opts.Tree.Persons) == 0 {
		return fmt.Errorf("no persons to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSceneLayout(opts)

	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderSVG(f, layout)
	default:
		return renderPNG(opts.Path, layout)
	}
}

// --- layout ----------------------------------------------------------------

type sceneNode struct {
	ID     string
	Name   string
	Dates  string
	Gender model.Gender
	X, Y   float64 // top-left, image space
	W, H   float64
}

type sceneEdge struct {
	X1, Y1, X2, Y2 float64
	Curved         bool // parent-child connectors curve; marriage lines don't
}

type sceneLayout struct {
	Title   string
	Nodes   []sceneNode
	Edges   []sceneEdge
	Width   int
	Height  int
	Persons int
	Unions  int
}

const (
	scenePadding = 48.0
	headerHeight = 56.0
)

// buildSceneLayout translates scene coordinates into image coordinates:
// shift so the minimum corner lands at the padding, no rescaling.
func buildSceneLayout(opts SnapshotOptions) sceneLayout {
	nodeW := opts.NodeWidth
	nodeH := opts.NodeHeight
	if nodeW <= 0 {
		nodeW = 120
	}
	if nodeH <= 0 {
		nodeH = 60
	}

	tree := opts.Tree
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, id := range tree.SortedPersonIDs() {
		p := tree.Person(id)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	offX := scenePadding - minX
	offY := scenePadding + headerHeight - minY

	center := func(p *model.Person) (float64, float64) {
		return p.X + offX + nodeW/2, p.Y + offY + nodeH/2
	}

	var nodes []sceneNode
	for _, id := range tree.SortedPersonIDs() {
		p := tree.Person(id)
		nodes = append(nodes, sceneNode{
			ID:     p.ID,
			Name:   truncateName(p.Name, 24),
			Dates:  dateSpan(p),
			Gender: p.Gender,
			X:      p.X + offX,
			Y:      p.Y + offY,
			W:      nodeW,
			H:      nodeH,
		})
	}

	var edges []sceneEdge

	// Marriage lines between spouse centers.
	for _, mid := range tree.SortedMarriageIDs() {
		m := tree.Marriage(mid)
		s1, s2 := tree.Person(m.Spouse1ID), tree.Person(m.Spouse2ID)
		if s1 == nil || s2 == nil {
			continue
		}
		x1, y1 := center(s1)
		x2, y2 := center(s2)
		edges = append(edges, sceneEdge{X1: x1, Y1: y1, X2: x2, Y2: y2})
	}

	// Parent-child connectors, anchored at the marriage midpoint when the
	// edge carries one and both spouses resolve, else at the parent.
	for _, pc := range tree.ParentChild {
		child := tree.Person(pc.ChildID)
		if child == nil {
			continue
		}
		var ax, ay float64
		anchored := false
		if m := tree.Marriage(pc.MarriageID); m != nil {
			s1, s2 := tree.Person(m.Spouse1ID), tree.Person(m.Spouse2ID)
			if s1 != nil && s2 != nil {
				x1, y1 := center(s1)
				x2, y2 := center(s2)
				ax, ay = (x1+x2)/2, (y1+y2)/2
				anchored = true
			}
		}
		if !anchored {
			parent := tree.Person(pc.ParentID)
			if parent == nil {
				continue
			}
			ax, ay = center(parent)
		}
		cx, cy := center(child)
		edges = append(edges, sceneEdge{X1: ax, Y1: ay, X2: cx, Y2: cy, Curved: true})
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Family Tree"
	}

	width := int(maxX - minX + nodeW + scenePadding*2)
	if width < 640 {
		width = 640
	}
	height := int(maxY - minY + nodeH + scenePadding*2 + headerHeight)
	if height < 400 {
		height = 400
	}

	return sceneLayout{
		Title:   title,
		Nodes:   nodes,
		Edges:   edges,
		Width:   width,
		Height:  height,
		Persons: len(nodes),
		Unions:  len(tree.Marriages),
	}
}

func dateSpan(p *model.Person) string {
	switch {
	case p.DateOfBirth != "" && p.DateOfDeath != "":
		return truncateName(p.DateOfBirth, 10) + " – " + truncateName(p.DateOfDeath, 10)
	case p.DateOfBirth != "":
		return "b. " + truncateName(p.DateOfBirth, 10)
	case p.DateOfDeath != "":
		return "d. " + truncateName(p.DateOfDeath, 10)
	default:
		return ""
	}
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorMale     = color.RGBA{0xbb, 0xde, 0xfb, 0xff}
	colorFemale   = color.RGBA{0xf8, 0xbb, 0xd0, 0xff}
	colorNeutral  = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorMarriage = color.RGBA{0xc2, 0x18, 0x5b, 0xff}
	colorDescent  = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

func genderColor(g model.Gender) color.RGBA {
	switch g {
	case model.GenderMale:
		return colorMale
	case model.GenderFemale:
		return colorFemale
	default:
		return colorNeutral
	}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func renderSVG(w io.Writer, layout sceneLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(16, 12, layout.Width-32, int(headerHeight)-16, 8, 8, "fill:"+css(colorHeaderBG))
	canvas.Text(28, 36, layout.Title, fmt.Sprintf("font-family:sans-serif;font-size:16px;font-weight:bold;fill:%s", css(colorText)))
	canvas.Text(layout.Width-28, 36,
		fmt.Sprintf("%d persons · %d marriages", layout.Persons, layout.Unions),
		fmt.Sprintf("font-family:sans-serif;font-size:12px;fill:%s;text-anchor:end", css(colorSubtle)))

	// Edges first so nodes draw on top of them.
	for _, e := range layout.Edges {
		if e.Curved {
			midY := (e.Y1 + e.Y2) / 2
			path := fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f",
				e.X1, e.Y1, e.X1, midY, e.X2, midY, e.X2, e.Y2)
			canvas.Path(path, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorDescent)))
		} else {
			canvas.Line(int(e.X1), int(e.Y1), int(e.X2), int(e.Y2),
				fmt.Sprintf("stroke:%s;stroke-width:3", css(colorMarriage)))
		}
	}

	for _, n := range layout.Nodes {
		canvas.Roundrect(int(n.X), int(n.Y), int(n.W), int(n.H), 6, 6,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", css(genderColor(n.Gender)), css(colorStroke)))
		canvas.Text(int(n.X+n.W/2), int(n.Y+n.H/2)-2, n.Name,
			fmt.Sprintf("font-family:sans-serif;font-size:12px;fill:%s;text-anchor:middle", css(colorText)))
		if n.Dates != "" {
			canvas.Text(int(n.X+n.W/2), int(n.Y+n.H/2)+14, n.Dates,
				fmt.Sprintf("font-family:sans-serif;font-size:10px;fill:%s;text-anchor:middle", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

func renderPNG(path string, layout sceneLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 12, float64(layout.Width)-32, headerHeight-16, 8)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawString(layout.Title, 28, 36)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("%d persons · %d marriages", layout.Persons, layout.Unions),
		float64(layout.Width)-28, 32, 1, 0.5)

	for _, e := range layout.Edges {
		if e.Curved {
			midY := (e.Y1 + e.Y2) / 2
			dc.MoveTo(e.X1, e.Y1)
			dc.CubicTo(e.X1, midY, e.X2, midY, e.X2, e.Y2)
			dc.SetColor(colorDescent)
			dc.SetLineWidth(2)
			dc.Stroke()
		} else {
			dc.SetColor(colorMarriage)
			dc.SetLineWidth(3)
			dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
			dc.Stroke()
		}
	}

	for _, n := range layout.Nodes {
		dc.SetColor(genderColor(n.Gender))
		dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, 6)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.5)
		dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, 6)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(n.Name, n.X+n.W/2, n.Y+n.H/2-4, 0.5, 0.5)
		if n.Dates != "" {
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored(n.Dates, n.X+n.W/2, n.Y+n.H/2+12, 0.5, 0.5)
		}
	}

	return dc.SavePNG(path)
}
