package structure

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CurrentSchemaVersion is the layout written by EncodeSnapshot. Documents
// without a schemaVersion key are version 1.
const CurrentSchemaVersion = 2

type upgrader func(Document) Document

// upgraders[n] turns a version n document into a version n+1 document.
var upgraders = map[int]upgrader{
	1: upgradeV1,
}

type snapshotDocument struct {
	SchemaVersion int         `json:"schemaVersion"`
	Website       WebsiteInfo `json:"website"`
	Pages         []Page      `json:"pages"`
}

func EncodeSnapshot(s *Structure) (datatypes.JSON, error) {
	doc := snapshotDocument{
		SchemaVersion: CurrentSchemaVersion,
		Website:       s.Website,
		Pages:         s.Pages,
	}

	if doc.Pages == nil {
		doc.Pages = []Page{}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("Could not encode snapshot: %w", err)
	}

	return datatypes.JSON(raw), nil
}

// UpgradeSnapshot decodes a stored document of any schema version and
// returns it in the current layout.
func UpgradeSnapshot(raw []byte) Document {
	doc := DecodeDocument(raw)

	// The oldest documents stored the bare list of pages.
	pages := []any{}
	if len(doc) < 1 && DecodeJSON(raw, &pages) == nil {
		doc = Document{"pages": pages}
	}

	version, ok := intValue(doc["schemaVersion"])
	if !ok || version < 1 {
		version = 1
	}

	for version < CurrentSchemaVersion {
		up, ok := upgraders[version]
		if !ok {
			break
		}

		doc = up(doc)
		version++
	}

	doc["schemaVersion"] = CurrentSchemaVersion

	return doc
}

// DecodeSnapshot upgrades a stored document and normalizes it into a typed
// tree. Missing ordering fields fall back to the element position.
func DecodeSnapshot(raw []byte) (WebsiteInfo, []Page) {
	doc := UpgradeSnapshot(raw)

	return decodeWebsite(documentValue(doc["website"])), decodePages(doc["pages"])
}

func decodeWebsite(d Document) WebsiteInfo {
	w := WebsiteInfo{
		Name:     stringValue(d["name"]),
		Slug:     stringValue(d["slug"]),
		Status:   stringValue(d["status"]),
		Settings: documentValue(d["settings"]),
		SEO:      documentValue(d["seo"]),
	}

	if id, err := uuid.Parse(stringValue(d["id"])); err == nil {
		w.ID = id
	}

	if id, err := uuid.Parse(stringValue(d["businessId"])); err == nil {
		w.BusinessID = id
	}

	if id, err := uuid.Parse(stringValue(d["templateId"])); err == nil {
		w.TemplateID = &id
	}

	return w
}

func decodePages(v any) []Page {
	items, _ := v.([]any)
	pages := make([]Page, 0, len(items))

	for i, item := range items {
		p, ok := item.(map[string]any)
		if !ok {
			continue
		}

		sortOrder, ok := intValue(p["sortOrder"])
		if !ok {
			sortOrder = i
		}

		id, _ := intValue(p["id"])
		rawComponents, _ := p["components"].([]any)
		components := make([]Component, 0, len(rawComponents))

		for j, rc := range rawComponents {
			c, ok := rc.(map[string]any)
			if !ok {
				continue
			}

			orderIndex, ok := intValue(c["orderIndex"])
			if !ok {
				orderIndex = j
			}

			cid, _ := intValue(c["id"])

			components = append(components, Component{
				ID:         uint(max(cid, 0)),
				Type:       stringValue(c["type"]),
				OrderIndex: orderIndex,
				Props:      documentValue(c["props"]),
				Styles:     documentValue(c["styles"]),
			})
		}

		pages = append(pages, Page{
			ID:         uint(max(id, 0)),
			Name:       stringValue(p["name"]),
			Path:       stringValue(p["path"]),
			SortOrder:  sortOrder,
			Meta:       documentValue(p["meta"]),
			Components: components,
		})
	}

	return pages
}

// Version 1 documents used snake_case and a few older key names.
func upgradeV1(doc Document) Document {
	out := Document{}

	website, _ := firstOf(doc, "website")
	out["website"] = upgradeV1Website(documentValue(website))

	rawPages, _ := firstOf(doc, "pages")
	items, _ := rawPages.([]any)
	pages := make([]any, 0, len(items))

	for _, item := range items {
		p, ok := item.(map[string]any)
		if !ok {
			continue
		}

		page := map[string]any{
			"id":   p["id"],
			"name": p["name"],
			"path": p["path"],
		}

		if v, ok := firstOf(p, "sortOrder", "sort_order", "order", "position"); ok {
			page["sortOrder"] = v
		}

		meta, _ := firstOf(p, "meta", "metadata")
		page["meta"] = documentValue(meta)

		rawComponents, _ := p["components"].([]any)
		components := make([]any, 0, len(rawComponents))

		for _, rc := range rawComponents {
			c, ok := rc.(map[string]any)
			if !ok {
				continue
			}

			componentType, _ := firstOf(c, "type", "component_type")
			component := map[string]any{
				"id":   c["id"],
				"type": componentType,
			}

			if v, ok := firstOf(c, "orderIndex", "order_index", "order", "position"); ok {
				component["orderIndex"] = v
			}

			props, _ := firstOf(c, "props", "content", "data")
			component["props"] = documentValue(props)

			styles, _ := firstOf(c, "styles", "style", "css")
			component["styles"] = documentValue(styles)

			components = append(components, component)
		}

		page["components"] = components
		pages = append(pages, page)
	}

	out["pages"] = pages

	return out
}

func upgradeV1Website(w Document) Document {
	keys := map[string][]string{
		"id":         {"id"},
		"businessId": {"businessId", "business_id"},
		"templateId": {"templateId", "template_id"},
		"name":       {"name"},
		"slug":       {"slug"},
		"status":     {"status"},
		"settings":   {"settings"},
		"seo":        {"seo"},
	}

	out := Document{}

	for k, candidates := range keys {
		if v, ok := firstOf(w, candidates...); ok {
			out[k] = v
		}
	}

	return out
}
