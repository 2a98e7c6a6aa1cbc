package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/treelab/arbor/pkg/model"
)

// DetailPanel renders one person's card: identity, dates, relationships and
// glamour-rendered notes. The markdown renderer is built lazily and the
// rendered notes are cached per person id, re-rendering only when the detail
// target changes.
type DetailPanel struct {
	theme Theme

	mdRenderer  *glamour.TermRenderer
	lastNotesID string
	cachedNotes string
	panelWidth  int
	panelHeight int
}

// NewDetailPanel returns a panel using the given theme. The panel is shared
// by pointer so the notes cache survives bubbletea's model copies.
func NewDetailPanel(theme Theme) *DetailPanel {
	return &DetailPanel{theme: theme}
}

// SetSize sets the panel dimensions.
func (d *DetailPanel) SetSize(width, height int) {
	if width != d.panelWidth {
		d.mdRenderer = nil
		d.lastNotesID = ""
	}
	d.panelWidth = width
	d.panelHeight = height
}

// View renders the detail card for p inside the tree context.
func (d *DetailPanel) View(p *model.Person, tree *model.Tree) string {
	if p == nil {
		return ""
	}
	r := d.theme.Renderer

	width := d.panelWidth
	if width < 30 {
		width = 30
	}
	inner := width - 6

	titleStyle := r.NewStyle().Bold(true).Foreground(d.theme.Primary)
	labelStyle := r.NewStyle().Foreground(d.theme.Secondary)

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(p.Name, inner)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(genderSymbol(p.Gender) + "  " + lifeSpan(p)))
	b.WriteString("\n\n")

	if spouses := tree.SpousesOf(p.ID); len(spouses) > 0 {
		b.WriteString(labelStyle.Render("Spouses: "))
		names := make([]string, 0, len(spouses))
		for _, sp := range spouses {
			names = append(names, sp.Name)
		}
		b.WriteString(truncate(strings.Join(names, ", "), inner-9))
		b.WriteString("\n")
	}
	if children := tree.ChildrenOf(p.ID); len(children) > 0 {
		b.WriteString(labelStyle.Render("Children: "))
		names := make([]string, 0, len(children))
		for _, cid := range children {
			if c := tree.Person(cid); c != nil {
				names = append(names, c.Name)
			}
		}
		b.WriteString(truncate(strings.Join(names, ", "), inner-10))
		b.WriteString("\n")
	}
	if p.PhotoRef != "" {
		b.WriteString(labelStyle.Render("Photo: "))
		b.WriteString(truncate(p.PhotoRef, inner-7))
		b.WriteString("\n")
	}

	if notes := strings.TrimSpace(p.Notes); notes != "" {
		b.WriteString("\n")
		b.WriteString(d.renderNotes(p.ID, notes, inner))
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Italic(true).Render("[Esc] Close   [Enter] Edit"))

	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.theme.Primary).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(d.panelWidth, d.panelHeight, lipgloss.Center, lipgloss.Center,
		boxStyle.Render(b.String()))
}

func (d *DetailPanel) renderNotes(id, notes string, width int) string {
	if id == d.lastNotesID {
		return d.cachedNotes
	}
	if d.mdRenderer == nil {
		d.mdRenderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
	}

	rendered := notes
	if d.mdRenderer != nil {
		if out, err := d.mdRenderer.Render(notes); err == nil {
			rendered = strings.TrimRight(out, "\n")
		}
	}
	d.lastNotesID = id
	d.cachedNotes = rendered
	return rendered
}
