package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treelab/arbor/internal/store"
	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/config"
	"github.com/treelab/arbor/pkg/debug"
	"github.com/treelab/arbor/pkg/export"
	"github.com/treelab/arbor/pkg/model"
	"github.com/treelab/arbor/pkg/watcher"
)

// statusDuration is how long a status line stays up before expiring.
const statusDuration = 4 * time.Second

// focus represents which UI element has keyboard focus
type focus int

const (
	focusCanvas focus = iota
	focusDetail
	focusForm
	focusHelp
	focusDeleteConfirm
)

// relationKind says what relationship a pending create form establishes on
// save.
type relationKind int

const (
	relNone relationKind = iota
	relSpouse
	relChild
)

// Model is the root bubbletea model: the canvas plus its overlays.
type Model struct {
	store   store.Store
	cfg     config.Config
	theme   Theme
	watcher *watcher.Watcher

	tree    *model.Tree
	canUndo bool
	canRedo bool

	vp   *canvas.Viewport
	sel  *canvas.Selection
	drag *canvas.DragController

	width    int
	height   int
	centered bool

	focus  focus
	form   PersonForm
	detail *DetailPanel

	// pending relationship for the open create form
	pendingRel      relationKind
	pendingAnchorID string

	// background pan gesture
	panning  bool
	panMoved bool
	panLast  canvas.Point
	panAlt   bool

	// delete confirmation target
	deleteIDs []string

	// a file change or finished mutation arrived mid-gesture; reload once
	// the gesture ends
	reloadPending bool

	statusMsg     string
	statusIsError bool
	statusSeq     int
}

// NewModel builds the root model. The watcher may be nil (no file watching
// for SQLite stores).
func NewModel(st store.Store, cfg config.Config, w *watcher.Watcher) Model {
	theme := DefaultTheme()
	m := Model{
		store:   st,
		cfg:     cfg,
		theme:   theme,
		watcher: w,
		tree:    model.NewTree(),
		vp:      canvas.NewViewport(),
		sel:     canvas.NewSelection(),
		drag:    canvas.NewDragController(),
		detail:  NewDetailPanel(theme),
	}
	if cfg.UI.ShowDetail {
		m.focus = focusDetail
	}
	return m
}

// Init loads the tree and arms the file watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadTreeCmd(m.store), waitForChangeCmd(m.watcher))
}

// Update routes messages by focus: overlays consume keys first, everything
// else drives the canvas.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetSize(msg.Width, msg.Height)
		m.detail.SetSize(msg.Width, msg.Height)
		if !m.centered && m.width > 0 {
			m.vp.Center(float64(m.width)*CellPxW, float64(m.canvasHeight())*CellPxH)
			m.centered = true
		}
		return m, nil

	case treeLoadedMsg:
		return m.onTreeLoaded(msg)

	case mutationDoneMsg:
		if msg.err != nil {
			return m, m.setStatus(friendlyErr(msg.err), true)
		}
		return m, tea.Batch(m.setStatus(msg.status, false), loadTreeCmd(m.store))

	case commitDoneMsg:
		if msg.err != nil {
			// Local positions stay; the next reload reconciles.
			return m, tea.Batch(m.setStatus("saving positions failed: "+friendlyErr(msg.err), true), loadTreeCmd(m.store))
		}
		return m, tea.Batch(m.setStatus(fmt.Sprintf("moved %d", msg.count), false), loadTreeCmd(m.store))

	case undoRedoMsg:
		label := "undo"
		if msg.redo {
			label = "redo"
		}
		if msg.err != nil {
			return m, m.setStatus(label+" failed: "+friendlyErr(msg.err), true)
		}
		if !msg.applied {
			return m, m.setStatus("nothing to "+label, false)
		}
		return m, tea.Batch(m.setStatus(label+" applied", false), loadTreeCmd(m.store))

	case fileChangedMsg:
		debug.Log("data file changed on disk")
		rearm := waitForChangeCmd(m.watcher)
		if m.drag.Active() {
			m.reloadPending = true
			return m, rearm
		}
		return m, tea.Batch(loadTreeCmd(m.store), rearm)

	case watcherErrMsg:
		return m, m.setStatus("watcher: "+msg.err.Error(), true)

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.setStatus("export failed: "+friendlyErr(msg.err), true)
		}
		return m, m.setStatus("exported "+msg.path, false)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusIsError = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.MouseMsg:
		if m.focus == focusCanvas {
			return m.onMouse(msg)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) onTreeLoaded(msg treeLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.setStatus("load failed: "+friendlyErr(msg.err), true)
	}
	if m.drag.Active() {
		// Never swap the scene out from under an active gesture.
		m.reloadPending = true
		return m, nil
	}
	m.tree = msg.res.Tree
	if m.tree == nil {
		m.tree = model.NewTree()
	}
	m.canUndo = msg.res.CanUndo
	m.canRedo = msg.res.CanRedo
	m.reloadPending = false

	// Drop selected ids that no longer exist.
	var kept []string
	for _, id := range m.sel.IDs() {
		if m.tree.Person(id) != nil {
			kept = append(kept, id)
		}
	}
	primary := m.sel.Primary()
	m.sel.Replace(kept)
	if m.tree.Person(primary) != nil {
		m.sel.Click(primary, false)
	}
	if m.focus == focusDetail && m.tree.Person(primary) == nil {
		m.focus = focusCanvas
	}

	if !m.centered && m.width > 0 {
		m.vp.Center(float64(m.width)*CellPxW, float64(m.canvasHeight())*CellPxH)
		m.centered = true
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusForm:
		return m.onFormKey(msg)
	case focusHelp:
		m.focus = focusCanvas
		return m, nil
	case focusDeleteConfirm:
		return m.onDeleteConfirmKey(msg)
	case focusDetail:
		switch msg.String() {
		case "esc", "d", "q":
			m.focus = focusCanvas
			return m, nil
		case "enter", "e":
			return m.openEditForm()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.focus = focusHelp
		return m, nil

	case "esc":
		m.sel.ClearBackground()
		return m, nil

	case "c":
		m.vp.Center(float64(m.width)*CellPxW, float64(m.canvasHeight())*CellPxH)
		return m, nil

	case "+", "=":
		m.vp.ZoomAt(m.screenCenter(), canvas.ZoomInFactor)
		return m, nil

	case "-":
		m.vp.ZoomAt(m.screenCenter(), canvas.ZoomOutFactor)
		return m, nil

	case "left":
		m.vp.Pan(4*CellPxW, 0)
		return m, nil
	case "right":
		m.vp.Pan(-4*CellPxW, 0)
		return m, nil
	case "up":
		m.vp.Pan(0, 2*CellPxH)
		return m, nil
	case "down":
		m.vp.Pan(0, -2*CellPxH)
		return m, nil

	case "n":
		m.form = NewCreatePersonForm(m.theme)
		m.form.SetSize(m.width, m.height)
		m.pendingRel = relNone
		m.pendingAnchorID = ""
		m.focus = focusForm
		return m, nil

	case "s":
		if id := m.sel.Primary(); id != "" {
			m.form = NewCreatePersonForm(m.theme)
			m.form.SetSize(m.width, m.height)
			m.pendingRel = relSpouse
			m.pendingAnchorID = id
			m.focus = focusForm
			return m, nil
		}
		return m, m.setStatus("select a person first", true)

	case "a":
		if id := m.sel.Primary(); id != "" {
			m.form = NewCreatePersonForm(m.theme)
			m.form.SetSize(m.width, m.height)
			m.pendingRel = relChild
			m.pendingAnchorID = id
			m.focus = focusForm
			return m, nil
		}
		return m, m.setStatus("select a parent first", true)

	case "e", "enter":
		return m.openEditForm()

	case "d":
		if m.sel.Primary() != "" {
			m.focus = focusDetail
			return m, nil
		}
		return m, m.setStatus("select a person first", true)

	case "x", "delete":
		if m.sel.Len() == 0 {
			return m, m.setStatus("nothing selected", true)
		}
		m.deleteIDs = m.sel.IDs()
		m.focus = focusDeleteConfirm
		return m, nil

	case "m":
		return m.marrySelected()

	case "M":
		return m.divorceSelected()

	case "p":
		return m.linkParentChild()

	case "P":
		return m.unlinkParentChild()

	case "b":
		if id := m.sel.Primary(); id != "" {
			m.sel.SelectBranch(id, m.tree)
			return m, m.setStatus(fmt.Sprintf("branch: %d selected", m.sel.Len()), false)
		}
		return m, m.setStatus("select a branch root first", true)

	case "u":
		return m, undoCmd(m.store)

	case "r":
		return m, redoCmd(m.store)

	case "L":
		opts := store.LayoutOptions{
			RootID:    m.sel.Primary(),
			Direction: store.Direction(m.cfg.Layout.Direction),
			SpacingX:  m.cfg.Layout.SpacingX,
			SpacingY:  m.cfg.Layout.SpacingY,
		}
		return m, mutateCmd(m.store, "layout applied", func(st store.Store) error {
			return st.AutoLayout(opts)
		})

	case "E":
		path := filepath.Join(config.DataDir(), fmt.Sprintf("arbor-%s.svg", time.Now().Format("20060102-150405")))
		return m, exportCmd(export.SnapshotOptions{
			Path:       path,
			Format:     "svg",
			Title:      "Family Tree",
			Tree:       m.tree,
			NodeWidth:  m.cfg.Geometry.NodeWidth,
			NodeHeight: m.cfg.Geometry.NodeHeight,
		})

	case "y":
		if id := m.sel.Primary(); id != "" {
			if err := clipboard.WriteAll(id); err != nil {
				return m, m.setStatus("clipboard: "+err.Error(), true)
			}
			return m, m.setStatus("copied "+id, false)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) onFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)

	if m.form.IsCancelRequested() {
		m.focus = focusCanvas
		return m, nil
	}
	if !m.form.IsSaveRequested() {
		return m, cmd
	}

	draft := m.form.Draft()
	if draft.Name == "" {
		m.form = m.clearSaveRequest(m.form)
		return m, m.setStatus("name is required", true)
	}

	m.focus = focusCanvas

	if !m.form.IsCreateMode() {
		id := m.form.PersonID()
		if p := m.tree.Person(id); p != nil {
			draft.X, draft.Y = p.X, p.Y
		}
		return m, mutateCmd(m.store, "saved "+draft.Name, func(st store.Store) error {
			return st.UpdatePerson(id, draft)
		})
	}

	return m.createWithRelation(draft)
}

// clearSaveRequest rebuilds the form state so a rejected save does not
// re-trigger on the next key.
func (m Model) clearSaveRequest(f PersonForm) PersonForm {
	f.saveRequested = false
	return f
}

// createWithRelation computes the placement on the current scene snapshot and
// issues the multi-step store mutation for the pending relation.
func (m Model) createWithRelation(draft store.PersonDraft) (tea.Model, tea.Cmd) {
	nodeW := m.cfg.Geometry.NodeWidth

	switch m.pendingRel {
	case relSpouse:
		anchorID := m.pendingAnchorID
		pl, ok := canvas.PlaceSpouse(m.tree, anchorID, nodeW)
		if !ok {
			return m, m.setStatus("anchor person is gone", true)
		}
		draft.X, draft.Y = pl.X, pl.Y
		shifts := pl.Shifts
		return m, mutateCmd(m.store, "added spouse "+draft.Name, func(st store.Store) error {
			if len(shifts) > 0 {
				if err := st.UpdatePositions(shifts); err != nil {
					return err
				}
			}
			id, err := st.CreatePerson(draft)
			if err != nil {
				return err
			}
			_, err = st.CreateMarriage(anchorID, id, "")
			return err
		})

	case relChild:
		anchorID := m.pendingAnchorID
		marriageID := ""
		if ms := m.tree.MarriagesOf(anchorID); len(ms) > 0 {
			marriageID = ms[0].ID
		}
		pl, ok := canvas.PlaceChild(m.tree, anchorID, marriageID, nodeW)
		if !ok {
			return m, m.setStatus("parent is gone", true)
		}
		draft.X, draft.Y = pl.X, pl.Y
		return m, mutateCmd(m.store, "added child "+draft.Name, func(st store.Store) error {
			id, err := st.CreatePerson(draft)
			if err != nil {
				return err
			}
			return st.CreateParentChild(anchorID, id, marriageID)
		})

	default:
		center := m.vp.ToScene(m.screenCenter())
		draft.X = model.SanitizeCoord(center.X-nodeW/2, 0)
		draft.Y = model.SanitizeCoord(center.Y, 0)
		return m, mutateCmd(m.store, "added "+draft.Name, func(st store.Store) error {
			_, err := st.CreatePerson(draft)
			return err
		})
	}
}

func (m Model) openEditForm() (tea.Model, tea.Cmd) {
	id := m.sel.Primary()
	p := m.tree.Person(id)
	if p == nil {
		return m, m.setStatus("select a person first", true)
	}
	m.form = NewEditPersonForm(p, m.theme)
	m.form.SetSize(m.width, m.height)
	m.pendingRel = relNone
	m.pendingAnchorID = ""
	m.focus = focusForm
	return m, nil
}

func (m Model) onDeleteConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		ids := m.deleteIDs
		m.deleteIDs = nil
		m.focus = focusCanvas
		m.sel.ClearBackground()
		return m, mutateCmd(m.store, fmt.Sprintf("deleted %d", len(ids)), func(st store.Store) error {
			for _, id := range ids {
				if err := st.DeletePerson(id); err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}
			}
			return nil
		})
	case "n", "esc", "q":
		m.deleteIDs = nil
		m.focus = focusCanvas
		return m, nil
	}
	return m, nil
}

func (m Model) marrySelected() (tea.Model, tea.Cmd) {
	ids := m.sel.IDs()
	if len(ids) != 2 {
		return m, m.setStatus("select exactly two people to marry", true)
	}
	return m, mutateCmd(m.store, "marriage added", func(st store.Store) error {
		_, err := st.CreateMarriage(ids[0], ids[1], "")
		return err
	})
}

func (m Model) divorceSelected() (tea.Model, tea.Cmd) {
	ids := m.sel.IDs()
	if len(ids) != 2 {
		return m, m.setStatus("select exactly two spouses", true)
	}
	var marriageID string
	for _, mr := range m.tree.MarriagesOf(ids[0]) {
		if mr.Involves(ids[1]) {
			marriageID = mr.ID
			break
		}
	}
	if marriageID == "" {
		return m, m.setStatus("no marriage between the selected people", true)
	}
	return m, mutateCmd(m.store, "marriage removed", func(st store.Store) error {
		return st.DeleteMarriage(marriageID)
	})
}

func (m Model) linkParentChild() (tea.Model, tea.Cmd) {
	ids := m.sel.IDs()
	if len(ids) != 2 {
		return m, m.setStatus("select parent then child", true)
	}
	parentID, childID := ids[0], ids[1]
	marriageID := ""
	if ms := m.tree.MarriagesOf(parentID); len(ms) > 0 {
		marriageID = ms[0].ID
	}
	return m, mutateCmd(m.store, "linked parent and child", func(st store.Store) error {
		return st.CreateParentChild(parentID, childID, marriageID)
	})
}

func (m Model) unlinkParentChild() (tea.Model, tea.Cmd) {
	ids := m.sel.IDs()
	if len(ids) != 2 {
		return m, m.setStatus("select parent then child", true)
	}
	parentID, childID := ids[0], ids[1]
	return m, mutateCmd(m.store, "unlinked parent and child", func(st store.Store) error {
		return st.RemoveParentChild(parentID, childID)
	})
}

func (m Model) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	screen := canvas.Point{
		X: (float64(msg.X) + 0.5) * CellPxW,
		Y: (float64(msg.Y) + 0.5) * CellPxH,
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vp.ZoomAt(screen, canvas.ZoomInFactor)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.vp.ZoomAt(screen, canvas.ZoomOutFactor)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			// A second button mid-gesture abandons the drag without a commit.
			if m.drag.Active() {
				m.drag.Suspend()
				if m.reloadPending {
					m.reloadPending = false
					return m, loadTreeCmd(m.store)
				}
			}
			return m, nil
		}
		if id := m.sceneFrame().NodeAt(msg.X, msg.Y); id != "" {
			m.drag.Press(id, m.vp.ToScene(screen), msg.Alt, m.sel, m.tree)
			return m, nil
		}
		m.panning = true
		m.panMoved = false
		m.panLast = screen
		m.panAlt = msg.Alt
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.Active() {
			m.drag.Move(m.vp.ToScene(screen), m.tree)
			return m, nil
		}
		if m.panning {
			m.vp.Pan(screen.X-m.panLast.X, screen.Y-m.panLast.Y)
			m.panLast = screen
			m.panMoved = true
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag.Active() {
			res := m.drag.Release(m.sel, m.tree)
			var cmds []tea.Cmd
			if len(res.Commit) > 0 {
				cmds = append(cmds, commitPositionsCmd(m.store, res.Commit))
			}
			if res.ShowDetail {
				m.focus = focusDetail
			}
			if m.reloadPending {
				m.reloadPending = false
				cmds = append(cmds, loadTreeCmd(m.store))
			}
			return m, tea.Batch(cmds...)
		}
		if m.panning {
			if !m.panMoved && !m.panAlt {
				m.sel.ClearBackground()
			}
			m.panning = false
		}
		return m, nil
	}

	return m, nil
}

// View renders the canvas, then any overlay on top of it.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	switch m.focus {
	case focusForm:
		return m.form.View()
	case focusHelp:
		return m.helpView()
	case focusDeleteConfirm:
		return m.deleteConfirmView()
	case focusDetail:
		if p := m.tree.Person(m.sel.Primary()); p != nil {
			return m.detail.View(p, m.tree)
		}
	}

	return m.sceneFrame().View() + "\n" + m.statusBar()
}

// sceneFrame renders the scene for the current state. View and the pointer
// hit test both call it, so a press always tests against exactly what is on
// screen.
func (m Model) sceneFrame() Frame {
	return RenderScene(m.tree, m.vp, m.sel, m.theme,
		m.cfg.Geometry.NodeWidth, m.cfg.Geometry.NodeHeight, m.cfg.Geometry.MaxName,
		m.width, m.canvasHeight())
}

func (m Model) canvasHeight() int {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) screenCenter() canvas.Point {
	return canvas.Point{
		X: float64(m.width) * CellPxW / 2,
		Y: float64(m.canvasHeight()) * CellPxH / 2,
	}
}

func (m Model) statusBar() string {
	r := m.theme.Renderer

	left := m.statusMsg
	leftStyle := r.NewStyle().Foreground(m.theme.Secondary)
	if m.statusIsError {
		leftStyle = r.NewStyle().Foreground(m.theme.Error).Bold(true)
	}
	if left == "" {
		left = "? help"
	}

	right := fmt.Sprintf("%d people · %d marriages · %d%%",
		len(m.tree.Persons), len(m.tree.Marriages), int(m.vp.Scale*100+0.5))
	if m.sel.Len() > 0 {
		right = fmt.Sprintf("%d selected · %s", m.sel.Len(), right)
	}
	if m.canUndo {
		right = "u " + right
	}
	if m.canRedo {
		right = "r " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return leftStyle.Render(left) + strings.Repeat(" ", gap) +
		r.NewStyle().Foreground(m.theme.Secondary).Render(right)
}

func (m Model) helpView() string {
	r := m.theme.Renderer
	keyStyle := r.NewStyle().Foreground(m.theme.Primary).Bold(true).Width(12)
	descStyle := r.NewStyle().Foreground(m.theme.Secondary)

	rows := []struct{ key, desc string }{
		{"click", "select (alt: toggle)"},
		{"drag node", "move selection"},
		{"drag bg", "pan"},
		{"wheel", "zoom at pointer"},
		{"c", "center view"},
		{"b", "select branch"},
		{"n", "new person"},
		{"s / a", "add spouse / child"},
		{"e / enter", "edit person"},
		{"d", "detail panel"},
		{"m / M", "marry / divorce two selected"},
		{"p / P", "link / unlink parent-child"},
		{"x", "delete selected"},
		{"u / r", "undo / redo"},
		{"L", "auto layout"},
		{"E", "export SVG snapshot"},
		{"y", "copy person id"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("arbor keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(keyStyle.Render(row.key))
		b.WriteString(descStyle.Render(row.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Italic(true).Render("press any key to close"))

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) deleteConfirmView() string {
	r := m.theme.Renderer
	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(m.theme.Error).Render(
		fmt.Sprintf("Delete %d selected?", len(m.deleteIDs))))
	b.WriteString("\n\n")
	for i, id := range m.deleteIDs {
		if i == 3 {
			b.WriteString(fmt.Sprintf("  … and %d more\n", len(m.deleteIDs)-3))
			break
		}
		name := id
		if p := m.tree.Person(id); p != nil {
			name = p.Name
		}
		b.WriteString("  " + truncate(name, 40) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(m.theme.Secondary).Render(
		"Marriages and parent links are removed too.\n\n[y] delete   [n] cancel"))

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Error).
		Padding(1, 2).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// setStatus records a status line and returns the expiry command.
func (m *Model) setStatus(s string, isErr bool) tea.Cmd {
	m.statusMsg = s
	m.statusIsError = isErr
	m.statusSeq++
	return clearStatusAfterCmd(m.statusSeq, statusDuration)
}

// friendlyErr maps store errors to short status text.
func friendlyErr(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "not found"
	case errors.Is(err, store.ErrExists):
		return "already exists"
	case errors.Is(err, store.ErrInvalid):
		return "invalid input"
	default:
		return err.Error()
	}
}
