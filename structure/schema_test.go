package structure

import (
	"context"
	"encoding/json"
	"testing"

	"alfredoramos.mx/site-builder/models"
	"gorm.io/datatypes"
)

func TestDecodeSnapshotLegacyFields(t *testing.T) {
	raw := []byte(`{
		"website": {"id": "5b0c3f9e-2d59-4a7b-8d0e-3f1c2a6b9e10", "business_id": "1f0d7c1e-9a34-4e0b-b3a1-5d7f8e2c4b61", "name": "Old", "slug": "old"},
		"pages": [
			{"name": "Home", "path": "/", "sort_order": 3, "metadata": {"title": "Home"}, "components": [
				{"component_type": "HERO", "order_index": 2, "content": {"heading": "Hi"}, "style": {"color": "red"}},
				{"type": "TEXT", "position": 5, "data": {"body": "text"}, "css": {"margin": 0}},
				{"type": "FOOTER"}
			]},
			{"name": "About", "path": "/about", "order": 1}
		]
	}`)

	website, pages := DecodeSnapshot(raw)

	if website.Name != "Old" || website.BusinessID.String() != "1f0d7c1e-9a34-4e0b-b3a1-5d7f8e2c4b61" {
		t.Fatalf("website = %+v", website)
	}

	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}

	home := pages[0]
	if home.SortOrder != 3 || home.Meta["title"] != "Home" {
		t.Fatalf("home = %+v", home)
	}

	if pages[1].SortOrder != 1 {
		t.Fatalf("about sort order = %d, want 1", pages[1].SortOrder)
	}

	tests := []struct {
		typ        string
		orderIndex int
		propKey    string
		styleKey   string
	}{
		{"HERO", 2, "heading", "color"},
		{"TEXT", 5, "body", "margin"},
		{"FOOTER", 2, "", ""},
	}

	for i, tt := range tests {
		c := home.Components[i]

		if c.Type != tt.typ || c.OrderIndex != tt.orderIndex {
			t.Errorf("component %d = %s/%d, want %s/%d", i, c.Type, c.OrderIndex, tt.typ, tt.orderIndex)
		}

		if _, ok := c.Props[tt.propKey]; tt.propKey != "" && !ok {
			t.Errorf("component %d props = %v, missing %s", i, c.Props, tt.propKey)
		}

		if _, ok := c.Styles[tt.styleKey]; tt.styleKey != "" && !ok {
			t.Errorf("component %d styles = %v, missing %s", i, c.Styles, tt.styleKey)
		}

		if c.Props == nil || c.Styles == nil {
			t.Errorf("component %d has nil documents", i)
		}
	}
}

func TestUpgradeSnapshotBarePageList(t *testing.T) {
	doc := UpgradeSnapshot([]byte(`[{"name": "Home", "path": "/", "components": [{"type": "HERO"}]}]`))

	if v, _ := intValue(doc["schemaVersion"]); v != CurrentSchemaVersion {
		t.Fatalf("schemaVersion = %v", doc["schemaVersion"])
	}

	pages := decodePages(doc["pages"])
	if len(pages) != 1 || pages[0].Components[0].Type != "HERO" {
		t.Fatalf("pages = %+v", pages)
	}
}

func TestUpgradeSnapshotGarbage(t *testing.T) {
	for _, raw := range []string{``, `null`, `"text"`, `{broken`, `42`} {
		website, pages := DecodeSnapshot([]byte(raw))

		if len(pages) != 0 || website.Name != "" {
			t.Errorf("DecodeSnapshot(%q) = %+v, %+v", raw, website, pages)
		}
	}
}

func TestEncodeSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t, homeWith("HERO", "FOOTER"))

	s, err := NewReader().Read(context.Background(), f.db, f.website.ID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	raw, err := EncodeSnapshot(s)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	website, pages := DecodeSnapshot(raw)

	if website.ID != f.website.ID || website.Status != models.WebsiteStatusDraft {
		t.Fatalf("website = %+v", website)
	}

	sameShape(t, pages, s.Pages)
}

func TestRestoreLegacySnapshot(t *testing.T) {
	f := newFixture(t, homeWith("HERO"))
	ctx := context.Background()

	legacy := &models.WebsiteVersion{
		WebsiteID:     f.website.ID,
		VersionNumber: 1,
		CreatedByID:   f.userID,
		Snapshot: datatypes.JSON(`{"pages": [{"name": "Home", "path": "/", "components": [
			{"component_type": "BANNER", "order_index": 1, "content": {"text": "Sale"}},
			{"component_type": "GRID", "order_index": 0}
		]}]}`),
	}
	if err := f.db.Create(legacy).Error; err != nil {
		t.Fatalf("create legacy version: %v", err)
	}

	s, err := f.manager.RestoreVersion(ctx, f.website.ID, f.userID, 1)
	if err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}

	if !equalStrings(componentTypes(s.Pages[0]), []string{"GRID", "BANNER"}) {
		t.Fatalf("components = %v", componentTypes(s.Pages[0]))
	}

	if s.Pages[0].Components[1].Props["text"] != "Sale" {
		t.Fatalf("props = %v", s.Pages[0].Components[1].Props)
	}

	if n := countVersions(t, f.db, f.website.ID); n != 2 {
		t.Fatalf("versions = %d, want 2", n)
	}
}

func TestDecodeDocumentKeepsLargeIntegers(t *testing.T) {
	doc := DecodeDocument([]byte(`{"id":9007199254740993,"order":"2","price":12.5}`))

	if got := string(doc.JSON()); got != `{"id":9007199254740993,"order":"2","price":12.5}` {
		t.Errorf("document = %s", got)
	}

	if n, ok := intValue(doc["id"]); !ok || n != 9007199254740993 {
		t.Errorf("intValue = %d, %v", n, ok)
	}

	if n, ok := intValue(json.Number("2.0")); !ok || n != 2 {
		t.Errorf("intValue(2.0) = %d, %v", n, ok)
	}

	pages := decodePages(UpgradeSnapshot([]byte(`[{"name":"Home","path":"/","components":[{"type":"MAP","props":{"placeId":9007199254740993}}]}]`))["pages"])
	if got := string(pages[0].Components[0].Props.JSON()); got != `{"placeId":9007199254740993}` {
		t.Errorf("legacy props = %s", got)
	}
}
