package structure

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alfredoramos.mx/site-builder/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestReplaceStructureSnapshotsPreviousTree(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	got, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("HERO", "FOOTER"), ReplaceOptions{})
	if err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	if len(got.Pages) != 1 || strings.Join(componentTypes(got.Pages[0]), ",") != "HERO,FOOTER" {
		t.Fatalf("unexpected current structure: %+v", got.Pages)
	}

	v1, err := f.manager.Version(ctx, f.website.ID, 1)
	if err != nil {
		t.Fatalf("Version(1): %v", err)
	}

	if len(v1.Pages) != 1 || strings.Join(componentTypes(v1.Pages[0]), ",") != "HERO" {
		t.Fatalf("version 1 should hold the single HERO tree, got %+v", v1.Pages)
	}

	if v1.CreatedByID != f.userID {
		t.Fatalf("created by = %s, want %s", v1.CreatedByID, f.userID)
	}
}

func TestRestoreVersionSnapshotsBeforeRestoring(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("HERO", "FOOTER"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	got, err := f.manager.RestoreVersion(ctx, f.website.ID, f.userID, 1)
	if err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}

	if strings.Join(componentTypes(got.Pages[0]), ",") != "HERO" {
		t.Fatalf("restored structure = %v, want HERO", componentTypes(got.Pages[0]))
	}

	v2, err := f.manager.Version(ctx, f.website.ID, 2)
	if err != nil {
		t.Fatalf("Version(2): %v", err)
	}

	if strings.Join(componentTypes(v2.Pages[0]), ",") != "HERO,FOOTER" {
		t.Fatalf("version 2 = %v, want HERO,FOOTER", componentTypes(v2.Pages[0]))
	}
}

func TestRestoreUnknownVersion(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	before, err := f.manager.Structure(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	if _, err := f.manager.RestoreVersion(ctx, f.website.ID, f.userID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("RestoreVersion(999) err = %v, want ErrNotFound", err)
	}

	if n := countVersions(t, f.db, f.website.ID); n != 0 {
		t.Fatalf("versions = %d, want 0", n)
	}

	after, err := f.manager.Structure(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	sameShape(t, after.Pages, before.Pages)
}

func TestRestoreVersionOfAnotherWebsite(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("FOOTER"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	other := &models.Website{BusinessID: f.website.BusinessID, Name: "Other", Slug: "other-site"}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("create website: %v", err)
	}

	if _, err := f.manager.RestoreVersion(ctx, other.ID, f.userID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if _, err := f.manager.RestoreVersion(ctx, uuid.New(), f.userID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown website err = %v, want ErrNotFound", err)
	}
}

func TestVersionNumbersAreSequential(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	for i, types := range [][]string{{"HERO", "FOOTER"}, {"PRICING"}, {"HERO", "GALLERY", "FOOTER"}} {
		if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith(types...), ReplaceOptions{}); err != nil {
			t.Fatalf("replace %d: %v", i, err)
		}
	}

	if _, err := f.manager.RestoreVersion(ctx, f.website.ID, f.userID, 2); err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("CONTACT"), ReplaceOptions{}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	versions, err := f.manager.Versions(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}

	if len(versions) != 5 {
		t.Fatalf("len(versions) = %d, want 5", len(versions))
	}

	for i, v := range versions {
		if want := 5 - i; v.VersionNumber != want {
			t.Fatalf("versions[%d] = %d, want %d", i, v.VersionNumber, want)
		}

		if v.WebsiteID != f.website.ID || v.CreatedByID != f.userID {
			t.Fatalf("unexpected metadata: %+v", v)
		}
	}
}

func TestSnapshotEqualsStructureBeforeWrite(t *testing.T) {
	f := newFixture(t, []PageInput{
		{Name: "Home", Path: "/", Meta: Document{"title": "Welcome"}, Components: []ComponentInput{
			{Type: "HERO", Props: Document{"heading": "Fresh bread", "cta": map[string]any{"label": "Order"}}},
			{Type: "TEXT", Styles: Document{"color": "#333"}},
		}},
		{Name: "About", Path: "/about", SortOrder: intPtr(4)},
	})
	ctx := context.Background()

	writes := [][]PageInput{
		homeWith("PRICING"),
		{{Name: "Contact", Path: "/contact", Components: []ComponentInput{{Type: "FORM"}}}},
	}

	for _, pages := range writes {
		before, err := f.manager.Structure(ctx, f.website.ID)
		if err != nil {
			t.Fatalf("Structure: %v", err)
		}

		if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, pages, ReplaceOptions{}); err != nil {
			t.Fatalf("ReplaceStructure: %v", err)
		}

		latest, err := NewSnapshotStore().Latest(ctx, f.db, f.website.ID)
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}

		snap, err := f.manager.Version(ctx, f.website.ID, latest)
		if err != nil {
			t.Fatalf("Version: %v", err)
		}

		sameShape(t, snap.Pages, before.Pages)

		if snap.Website.ID != f.website.ID || snap.Website.Slug != f.website.Slug {
			t.Fatalf("snapshot website = %+v", snap.Website)
		}
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	original := []PageInput{
		{Name: "Home", Path: "/", Components: []ComponentInput{
			{Type: "HERO", OrderIndex: intPtr(0), Props: Document{"heading": "Hi"}},
			{Type: "FEATURES", OrderIndex: intPtr(3), Props: Document{"items": []any{"a", "b"}}},
			{Type: "FOOTER", OrderIndex: intPtr(7), Styles: Document{"background": "dark"}},
		}},
		{Name: "Menu", Path: "/menu", SortOrder: intPtr(2), Meta: Document{"description": "Our menu"}},
	}

	f := newFixture(t, original)
	ctx := context.Background()

	s1, err := f.manager.Structure(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("BLANK"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	restored, err := f.manager.RestoreVersion(ctx, f.website.ID, f.userID, 1)
	if err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}

	sameShape(t, restored.Pages, s1.Pages)
}

func TestRestoreKeepsLargeIntegers(t *testing.T) {
	const want = `{"productId":9007199254740993}`

	f := newFixture(t, []PageInput{
		{Name: "Shop", Path: "/", Components: []ComponentInput{
			{Type: "PRODUCT_GRID", Props: Document{"productId": int64(9007199254740993)}},
		}},
	})
	ctx := context.Background()

	current, err := f.manager.Structure(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	if got := string(current.Pages[0].Components[0].Props.JSON()); got != want {
		t.Fatalf("read props = %s, want %s", got, want)
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("BLANK"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	snapshot, err := f.manager.Version(ctx, f.website.ID, 1)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}

	if got := string(snapshot.Pages[0].Components[0].Props.JSON()); got != want {
		t.Fatalf("snapshot props = %s, want %s", got, want)
	}

	restored, err := f.manager.RestoreVersion(ctx, f.website.ID, f.userID, 1)
	if err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}

	if got := string(restored.Pages[0].Components[0].Props.JSON()); got != want {
		t.Fatalf("restored props = %s, want %s", got, want)
	}
}

func TestReplaceStructureIsAtomic(t *testing.T) {
	f := newFixture(t, homeWith("HERO", "FOOTER"))
	ctx := context.Background()

	before, err := f.manager.Structure(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	armed := false
	inserted := 0

	if err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_second_page", func(tx *gorm.DB) {
		if !armed || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "pages" {
			return
		}

		inserted++

		if inserted > 1 {
			_ = tx.AddError(errors.New("disk full"))
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	armed = true

	pages := []PageInput{
		{Name: "Home", Path: "/", Components: []ComponentInput{{Type: "GALLERY"}}},
		{Name: "About", Path: "/about", Components: []ComponentInput{{Type: "TEXT"}}},
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, pages, ReplaceOptions{}); err == nil {
		t.Fatal("expected ReplaceStructure to fail")
	}

	armed = false

	after, err := f.manager.Structure(ctx, f.website.ID)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}

	sameShape(t, after.Pages, before.Pages)

	if n := countVersions(t, f.db, f.website.ID); n != 0 {
		t.Fatalf("versions = %d, want 0", n)
	}
}

func TestReplaceStructureExpectedVersion(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("A"), ReplaceOptions{ExpectedVersion: intPtr(0)}); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("B"), ReplaceOptions{ExpectedVersion: intPtr(0)}); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale replace err = %v, want ErrConflict", err)
	}

	if n := countVersions(t, f.db, f.website.ID); n != 1 {
		t.Fatalf("versions = %d, want 1", n)
	}

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("B"), ReplaceOptions{ExpectedVersion: intPtr(1)}); err != nil {
		t.Fatalf("fresh replace: %v", err)
	}
}

func TestReplaceStructureValidation(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))

	_, err := f.manager.ReplaceStructure(context.Background(), f.website.ID, f.userID, []PageInput{
		{Name: "", Path: "/", Components: []ComponentInput{{Type: " "}}},
	}, ReplaceOptions{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	verr := &ValidationError{}
	if !errors.As(err, &verr) {
		t.Fatalf("err is not a ValidationError: %T", err)
	}

	for _, field := range []string{"pages.0.name", "pages.0.components.0.type"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("missing message for %s: %v", field, verr.Fields)
		}
	}

	if n := countVersions(t, f.db, f.website.ID); n != 0 {
		t.Fatalf("versions = %d, want 0", n)
	}
}

func TestReplaceStructureUnknownWebsite(t *testing.T) {
	f := newFixture(t, nil)

	if _, err := f.manager.ReplaceStructure(context.Background(), uuid.New(), f.userID, homeWith("HERO"), ReplaceOptions{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestVersionsAreImmutable(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	if _, err := f.manager.ReplaceStructure(ctx, f.website.ID, f.userID, homeWith("FOOTER"), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceStructure: %v", err)
	}

	version := &models.WebsiteVersion{}
	if err := f.db.Where("website_id = ?", f.website.ID).First(version).Error; err != nil {
		t.Fatalf("load version: %v", err)
	}

	if err := f.db.Model(version).Update("version_number", 42).Error; !errors.Is(err, models.ErrImmutableVersion) {
		t.Fatalf("update err = %v, want ErrImmutableVersion", err)
	}

	if err := f.db.Delete(version).Error; !errors.Is(err, models.ErrImmutableVersion) {
		t.Fatalf("delete err = %v, want ErrImmutableVersion", err)
	}
}
