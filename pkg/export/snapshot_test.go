package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/treelab/arbor/pkg/model"
)

func snapshotTree() *model.Tree {
	tree := model.NewTree()
	tree.Persons["p1"] = &model.Person{ID: "p1", Name: "Greta Andersson", Gender: model.GenderFemale, DateOfBirth: "1921-04-03", DateOfDeath: "1999-12-01", X: 0, Y: 0}
	tree.Persons["p2"] = &model.Person{ID: "p2", Name: "Olof Andersson", Gender: model.GenderMale, DateOfBirth: "1919-08-14", X: 160, Y: 0}
	tree.Persons["p3"] = &model.Person{ID: "p3", Name: "Karin", X: 80, Y: 150}
	tree.Marriages["m1"] = &model.Marriage{ID: "m1", Spouse1ID: "p1", Spouse2ID: "p2", Order: 1}
	tree.ParentChild = []model.ParentChildEdge{{ParentID: "p1", ChildID: "p3", MarriageID: "m1"}}
	return tree
}

func TestSaveSnapshotSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.svg")

	err := SaveSnapshot(SnapshotOptions{
		Path:  path,
		Title: "Andersson Family",
		Tree:  snapshotTree(),
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(out, "Andersson Family") {
		t.Error("title missing from output")
	}
	for _, name := range []string{"Greta Andersson", "Olof Andersson", "Karin"} {
		if !strings.Contains(out, name) {
			t.Errorf("node %q missing from output", name)
		}
	}
	if !strings.Contains(out, "3 persons") {
		t.Error("header summary missing")
	}
}

func TestSaveSnapshotDeterministic(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.svg")
	p2 := filepath.Join(dir, "b.svg")

	for _, p := range []string{p1, p2} {
		if err := SaveSnapshot(SnapshotOptions{Path: p, Tree: snapshotTree()}); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
	}

	a, _ := os.ReadFile(p1)
	b, _ := os.ReadFile(p2)
	if string(a) != string(b) {
		t.Error("same tree produced different SVG bytes")
	}
}

func TestSaveSnapshotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.png")

	if err := SaveSnapshot(SnapshotOptions{Path: path, Tree: snapshotTree()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty PNG written")
	}
}

func TestSaveSnapshotInfersFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree")

	if err := SaveSnapshot(SnapshotOptions{Path: path, Tree: snapshotTree()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := os.Stat(path + ".svg"); err != nil {
		t.Errorf("expected .svg appended to extensionless path: %v", err)
	}
}

func TestSaveSnapshotRejectsEmptyTree(t *testing.T) {
	if err := SaveSnapshot(SnapshotOptions{Path: "x.svg", Tree: model.NewTree()}); err == nil {
		t.Error("expected error for empty tree")
	}
}

func TestSaveSnapshotRejectsBadFormat(t *testing.T) {
	err := SaveSnapshot(SnapshotOptions{
		Path:   filepath.Join(t.TempDir(), "tree.pdf"),
		Format: "pdf",
		Tree:   snapshotTree(),
	})
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("short", 24); got != "short" {
		t.Errorf("short name changed: %q", got)
	}
	got := truncateName("a very long name that exceeds the limit", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncation wrong: %q", got)
	}
}
