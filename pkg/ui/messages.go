package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treelab/arbor/internal/store"
	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/export"
	"github.com/treelab/arbor/pkg/watcher"
)

// treeLoadedMsg carries a fresh store snapshot into the model.
type treeLoadedMsg struct {
	res store.FetchResult
	err error
}

// mutationDoneMsg reports the outcome of a store mutation. Every successful
// mutation is followed by a reload, so the message carries only status text.
type mutationDoneMsg struct {
	status string
	err    error
}

// commitDoneMsg reports the outcome of a batched position commit.
type commitDoneMsg struct {
	count int
	err   error
}

// undoRedoMsg reports an undo or redo attempt.
type undoRedoMsg struct {
	redo    bool
	applied bool
	err     error
}

// fileChangedMsg signals that the data file changed on disk.
type fileChangedMsg struct{}

// watcherErrMsg surfaces a watcher failure as a status line.
type watcherErrMsg struct{ err error }

// exportDoneMsg reports a finished snapshot export.
type exportDoneMsg struct {
	path string
	err  error
}

// clearStatusMsg expires the status line.
type clearStatusMsg struct{ seq int }

func loadTreeCmd(st store.Store) tea.Cmd {
	return func() tea.Msg {
		res, err := st.FetchTree()
		return treeLoadedMsg{res: res, err: err}
	}
}

// mutateCmd runs fn and reports its outcome with the given success status.
// The model chains a reload when err is nil.
func mutateCmd(st store.Store, status string, fn func(store.Store) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{status: status, err: fn(st)}
	}
}

func commitPositionsCmd(st store.Store, updates []canvas.PositionUpdate) tea.Cmd {
	return func() tea.Msg {
		return commitDoneMsg{count: len(updates), err: st.UpdatePositions(updates)}
	}
}

func undoCmd(st store.Store) tea.Cmd {
	return func() tea.Msg {
		applied, err := st.Undo()
		return undoRedoMsg{redo: false, applied: applied, err: err}
	}
}

func redoCmd(st store.Store) tea.Cmd {
	return func() tea.Msg {
		applied, err := st.Redo()
		return undoRedoMsg{redo: true, applied: applied, err: err}
	}
}

func exportCmd(opts export.SnapshotOptions) tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{path: opts.Path, err: export.SaveSnapshot(opts)}
	}
}

// waitForChangeCmd blocks on the watcher's change channel. The model re-arms
// it after every fileChangedMsg.
func waitForChangeCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changed(); !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func clearStatusAfterCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
