// Package store is the authoritative side of the canvas: it owns the family
// tree graph and exposes the mutation contract the UI drives. Two
// implementations exist, a JSON-file backed memory store and a SQLite store.
// The canvas never mutates the store's data directly; it fetches wholesale
// snapshots and issues mutations, reconciling on the next fetch.
package store

import (
	"errors"

	"github.com/treelab/arbor/pkg/canvas"
	"github.com/treelab/arbor/pkg/model"
)

// Common errors. Callers surface these as notifications, never as crashes.
var (
	ErrNotFound = errors.New("entity not found")
	ErrExists   = errors.New("relationship already exists")
	ErrInvalid  = errors.New("invalid input")
)

// FetchResult is the full graph plus history availability flags.
type FetchResult struct {
	Tree    *model.Tree
	CanUndo bool
	CanRedo bool
}

// PersonDraft is the input for creating a person. X/Y come from the
// placement engine and are sanitized before storage.
type PersonDraft struct {
	Name        string
	Gender      string
	DateOfBirth string
	DateOfDeath string
	PhotoRef    string
	Notes       string
	X           float64
	Y           float64
}

// Direction of the auto-layout.
type Direction string

const (
	TopDown   Direction = "top-down"
	LeftRight Direction = "left-right"
)

// LayoutOptions parameterizes AutoLayout.
type LayoutOptions struct {
	RootID    string
	Direction Direction
	SpacingX  float64
	SpacingY  float64
}

// DefaultLayoutOptions returns the spacing used when the caller passes
// zeroes.
func DefaultLayoutOptions(rootID string) LayoutOptions {
	return LayoutOptions{RootID: rootID, Direction: TopDown, SpacingX: 200, SpacingY: 150}
}

// Store is the remote-store contract consumed by the canvas UI.
type Store interface {
	// FetchTree returns the current graph snapshot. Called on load and
	// after every mutation the canvas cannot apply optimistically in full.
	FetchTree() (FetchResult, error)

	CreatePerson(draft PersonDraft) (string, error)
	UpdatePerson(id string, draft PersonDraft) error
	DeletePerson(id string) error

	CreateMarriage(spouse1ID, spouse2ID, date string) (string, error)
	DeleteMarriage(id string) error

	CreateParentChild(parentID, childID, marriageID string) error
	RemoveParentChild(parentID, childID string) error

	// UpdatePositions applies a position batch atomically. A failure fails
	// the whole batch; the canvas reports it once and does not roll back.
	UpdatePositions(updates []canvas.PositionUpdate) error

	// Undo and Redo report whether a state was popped.
	Undo() (bool, error)
	Redo() (bool, error)

	// AutoLayout repositions the whole subtree under opts.RootID. The
	// canvas only triggers it and reloads afterward.
	AutoLayout(opts LayoutOptions) error

	Close() error
}
