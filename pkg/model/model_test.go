package model

import (
	"math"
	"reflect"
	"testing"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"male", GenderMale},
		{"female", GenderFemale},
		{"unknown", GenderUnknown},
		{"", GenderUnknown},
		{"MALE", GenderUnknown},
		{"other", GenderUnknown},
	}
	for _, tt := range tests {
		if got := ParseGender(tt.in); got != tt.want {
			t.Errorf("ParseGender(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarriageOther(t *testing.T) {
	m := Marriage{ID: "m1", Spouse1ID: "a", Spouse2ID: "b"}

	if got := m.Other("a"); got != "b" {
		t.Errorf("Other(a) = %q, want b", got)
	}
	if got := m.Other("b"); got != "a" {
		t.Errorf("Other(b) = %q, want a", got)
	}
	if got := m.Other("c"); got != "" {
		t.Errorf("Other(c) = %q, want empty", got)
	}
}

func TestMarriagesOfOrdering(t *testing.T) {
	tree := NewTree()
	tree.Persons["a"] = &Person{ID: "a"}
	tree.Marriages["m2"] = &Marriage{ID: "m2", Spouse1ID: "a", Spouse2ID: "c", Order: 2}
	tree.Marriages["m1"] = &Marriage{ID: "m1", Spouse1ID: "a", Spouse2ID: "b", Order: 1}
	tree.Marriages["mx"] = &Marriage{ID: "mx", Spouse1ID: "d", Spouse2ID: "e", Order: 1}

	ms := tree.MarriagesOf("a")
	if len(ms) != 2 {
		t.Fatalf("expected 2 marriages, got %d", len(ms))
	}
	if ms[0].ID != "m1" || ms[1].ID != "m2" {
		t.Errorf("expected order m1, m2; got %s, %s", ms[0].ID, ms[1].ID)
	}
}

func TestChildrenOfCoupleDedupes(t *testing.T) {
	tree := NewTree()
	tree.Marriages["m1"] = &Marriage{ID: "m1", Spouse1ID: "dad", Spouse2ID: "mom"}
	tree.ParentChild = []ParentChildEdge{
		{ParentID: "dad", ChildID: "kid", MarriageID: "m1"},
		{ParentID: "mom", ChildID: "kid", MarriageID: "m1"},
		{ParentID: "dad", ChildID: "kid2", MarriageID: "m1"},
	}

	got := tree.ChildrenOfCouple(tree.Marriages["m1"])
	want := []string{"kid", "kid2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChildrenOfCouple = %v, want %v", got, want)
	}
}

func TestHasParentChild(t *testing.T) {
	tree := NewTree()
	tree.ParentChild = []ParentChildEdge{{ParentID: "a", ChildID: "b"}}

	if !tree.HasParentChild("a", "b") {
		t.Error("expected edge a -> b")
	}
	if tree.HasParentChild("b", "a") {
		t.Error("edge direction must matter")
	}
}

func TestCloneIsDeep(t *testing.T) {
	tree := NewTree()
	tree.Persons["a"] = &Person{ID: "a", Name: "Alice", X: 1}
	tree.Marriages["m"] = &Marriage{ID: "m", Spouse1ID: "a", Spouse2ID: "b"}
	tree.ParentChild = []ParentChildEdge{{ParentID: "a", ChildID: "c"}}

	c := tree.Clone()
	c.Persons["a"].X = 99
	c.Marriages["m"].Spouse2ID = "z"
	c.ParentChild[0].ChildID = "z"

	if tree.Persons["a"].X != 1 {
		t.Error("person mutation leaked into the original")
	}
	if tree.Marriages["m"].Spouse2ID != "b" {
		t.Error("marriage mutation leaked into the original")
	}
	if tree.ParentChild[0].ChildID != "c" {
		t.Error("edge mutation leaked into the original")
	}
}

func TestNilTreeLookups(t *testing.T) {
	var tree *Tree
	if tree.Person("a") != nil {
		t.Error("nil tree must return nil person")
	}
	if tree.Marriage("m") != nil {
		t.Error("nil tree must return nil marriage")
	}
	if tree.SortedPersonIDs() != nil {
		t.Error("nil tree must return nil ids")
	}
}

func TestSanitizeCoord(t *testing.T) {
	tests := []struct {
		in       float64
		fallback float64
		want     float64
	}{
		{1.5, 0, 1.5},
		{math.NaN(), 7, 7},
		{math.Inf(1), -3, -3},
		{math.Inf(-1), 2, 2},
		{0, 5, 0},
	}
	for _, tt := range tests {
		if got := SanitizeCoord(tt.in, tt.fallback); got != tt.want {
			t.Errorf("SanitizeCoord(%f, %f) = %f, want %f", tt.in, tt.fallback, got, tt.want)
		}
	}
}
