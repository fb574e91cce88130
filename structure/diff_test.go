package structure

import (
	"context"
	"strings"
	"testing"
)

func TestDiffAgainstCurrentAndVersion(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("HERO", "FOOTER"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("HERO", "FOOTER"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	d, err := f.manager.Diff(ctx, f.website.ID, 1, nil)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	if d.Base != "v1" || d.Head != "current" {
		t.Fatalf("refs = %s..%s", d.Base, d.Head)
	}

	added := false
	for _, c := range d.Chunks {
		if c.Type == "added" && strings.Contains(c.Content, "FOOTER") {
			added = true
		}
	}

	if !added {
		t.Fatalf("expected FOOTER to be added, chunks = %+v", d.Chunks)
	}

	// Versions 2 and the current tree differ only by server ids.
	d, err = f.manager.Diff(ctx, f.website.ID, 2, nil)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	if len(d.Chunks) != 0 {
		t.Fatalf("expected no changes, got %+v", d.Chunks)
	}

	against := 2
	d, err = f.manager.Diff(ctx, f.website.ID, 2, &against)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	if d.Head != "v2" || len(d.Chunks) != 0 {
		t.Fatalf("diff = %+v", d)
	}
}
