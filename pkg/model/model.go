// Package model defines the family tree data model shared by the canvas,
// store and export layers.
//
// A Tree is a plain in-memory mirror of whatever the store returned last:
// persons keyed by id plus flat marriage and parent-child collections. It has
// no behavior beyond lookup and iteration; all mutation goes through the
// store, except that the drag controller writes positions in place during an
// active gesture for responsiveness.
package model

import (
	"math"
	"sort"
)

// Gender of a person. Anything unrecognized collapses to GenderUnknown.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender normalizes a stored gender string.
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s)
	default:
		return GenderUnknown
	}
}

// Person is a node on the canvas. X and Y are scene-space coordinates and
// must stay finite; use SanitizeCoord before committing computed values.
type Person struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Gender      Gender  `json:"gender"`
	DateOfBirth string  `json:"date_of_birth,omitempty"`
	DateOfDeath string  `json:"date_of_death,omitempty"`
	PhotoRef    string  `json:"photo_path,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Marriage links two distinct persons. Undirected for rendering, but the
// spouse role order is fixed once stored. Order is the 1-based position of
// this marriage among the couple's marriages.
type Marriage struct {
	ID           string `json:"id"`
	Spouse1ID    string `json:"spouse1_id"`
	Spouse2ID    string `json:"spouse2_id"`
	MarriageDate string `json:"marriage_date,omitempty"`
	Order        int    `json:"order"`
}

// Other returns the spouse id opposite to personID, or "" if personID is not
// part of this marriage.
func (m Marriage) Other(personID string) string {
	switch personID {
	case m.Spouse1ID:
		return m.Spouse2ID
	case m.Spouse2ID:
		return m.Spouse1ID
	default:
		return ""
	}
}

// Involves reports whether personID is one of the two spouses.
func (m Marriage) Involves(personID string) bool {
	return m.Spouse1ID == personID || m.Spouse2ID == personID
}

// ParentChildEdge links a parent to a child, optionally in the context of a
// marriage. The (ParentID, ChildID) pair is unique within a tree.
type ParentChildEdge struct {
	ParentID   string `json:"parent_id"`
	ChildID    string `json:"child_id"`
	MarriageID string `json:"marriage_id,omitempty"`
}

// Tree is the scene model: one load cycle's snapshot of the full graph.
type Tree struct {
	Persons     map[string]*Person   `json:"persons"`
	Marriages   map[string]*Marriage `json:"marriages"`
	ParentChild []ParentChildEdge    `json:"parent_child"`
}

// NewTree returns an empty tree with initialized collections.
func NewTree() *Tree {
	return &Tree{
		Persons:   make(map[string]*Person),
		Marriages: make(map[string]*Marriage),
	}
}

// Person looks up a person by id. Returns nil for unknown ids; callers treat
// that as "skip", never as an error.
func (t *Tree) Person(id string) *Person {
	if t == nil || t.Persons == nil {
		return nil
	}
	return t.Persons[id]
}

// Marriage looks up a marriage by id, or nil.
func (t *Tree) Marriage(id string) *Marriage {
	if t == nil || t.Marriages == nil {
		return nil
	}
	return t.Marriages[id]
}

// MarriagesOf returns the marriages involving personID, sorted by Order then
// id for determinism.
func (t *Tree) MarriagesOf(personID string) []*Marriage {
	if t == nil {
		return nil
	}
	var out []*Marriage
	for _, m := range t.Marriages {
		if m.Involves(personID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SpousesOf returns the resolved spouses of personID. Dangling spouse ids are
// skipped.
func (t *Tree) SpousesOf(personID string) []*Person {
	var out []*Person
	for _, m := range t.MarriagesOf(personID) {
		if sp := t.Person(m.Other(personID)); sp != nil {
			out = append(out, sp)
		}
	}
	return out
}

// ChildrenOf returns the child ids of edges whose parent is parentID, in edge
// order. Duplicate child ids (two recorded parents) appear once.
func (t *Tree) ChildrenOf(parentID string) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, pc := range t.ParentChild {
		if pc.ParentID == parentID && !seen[pc.ChildID] {
			seen[pc.ChildID] = true
			out = append(out, pc.ChildID)
		}
	}
	return out
}

// ChildrenOfCouple returns the child ids of edges whose parent is either
// spouse of m, in edge order, deduplicated.
func (t *Tree) ChildrenOfCouple(m *Marriage) []string {
	if t == nil || m == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, pc := range t.ParentChild {
		if (pc.ParentID == m.Spouse1ID || pc.ParentID == m.Spouse2ID) && !seen[pc.ChildID] {
			seen[pc.ChildID] = true
			out = append(out, pc.ChildID)
		}
	}
	return out
}

// HasParentChild reports whether the (parent, child) edge already exists.
func (t *Tree) HasParentChild(parentID, childID string) bool {
	for _, pc := range t.ParentChild {
		if pc.ParentID == parentID && pc.ChildID == childID {
			return true
		}
	}
	return false
}

// SortedPersonIDs returns all person ids in lexical order. Map iteration is
// randomized, so every deterministic consumer (placement, rendering, export)
// goes through this.
func (t *Tree) SortedPersonIDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.Persons))
	for id := range t.Persons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedMarriageIDs returns all marriage ids in lexical order.
func (t *Tree) SortedMarriageIDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.Marriages))
	for id := range t.Marriages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the tree. Used by the store's undo stack and
// by tests.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := NewTree()
	for id, p := range t.Persons {
		cp := *p
		c.Persons[id] = &cp
	}
	for id, m := range t.Marriages {
		cm := *m
		c.Marriages[id] = &cm
	}
	c.ParentChild = append([]ParentChildEdge(nil), t.ParentChild...)
	return c
}

// SanitizeCoord replaces a non-finite coordinate with fallback. Every
// computed position passes through here before being committed; an
// unplaceable node must never reach the store.
func SanitizeCoord(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
