package helpers

import (
	"testing"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"gorm.io/datatypes"
)

func TestEnhancePages(t *testing.T) {
	cases := []struct {
		name     string
		category string
		want     []string
	}{
		{"no category", "", []string{"HERO", "TEXT", "FOOTER"}},
		{"unknown category", "law firm", []string{"HERO", "TEXT", "FOOTER"}},
		{"restaurant", "Family Restaurant", []string{"HERO", "TEXT", "MENU", "FOOTER"}},
		{"two rules", "coffee shop", []string{"HERO", "TEXT", "PRODUCT_GRID", "MENU", "FOOTER"}},
		{"accents", "Café", []string{"HERO", "TEXT", "MENU", "FOOTER"}},
		{"plural", "Dentists", []string{"HERO", "TEXT", "BOOKING", "FOOTER"}},
		{"word inside another word", "barbershop", []string{"HERO", "TEXT", "FOOTER"}},
		{"suffix of another word", "biotech", []string{"HERO", "TEXT", "FOOTER"}},
		{"tech consultancy", "Tech consultancy", []string{"HERO", "TEXT", "LOGO_CLOUD", "FOOTER"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pages := starterPages()
			got := EnhancePages(pages, tc.category)

			if types := inputTypes(got[0]); !equalStrings(types, tc.want) {
				t.Fatalf("home components = %v, want %v", types, tc.want)
			}

			if types := inputTypes(got[1]); !equalStrings(types, []string{"CONTACT_FORM"}) {
				t.Errorf("other pages changed: %v", types)
			}

			if types := inputTypes(pages[0]); !equalStrings(types, []string{"HERO", "TEXT", "FOOTER"}) {
				t.Errorf("input was modified: %v", types)
			}
		})
	}
}

func TestEnhancePagesRenumbers(t *testing.T) {
	pages := []structure.PageInput{{
		Name: "Home",
		Path: "/",
		Components: []structure.ComponentInput{
			{Type: "FOOTER", OrderIndex: intPtr(9)},
			{Type: "HERO", OrderIndex: intPtr(3)},
			{Type: "TEXT"},
		},
	}}

	got := EnhancePages(pages, "gym")

	want := []string{"TEXT", "HERO", "BOOKING", "FOOTER"}
	if types := inputTypes(got[0]); !equalStrings(types, want) {
		t.Fatalf("components = %v, want %v", types, want)
	}

	for i, c := range got[0].Components {
		if c.OrderIndex == nil || *c.OrderIndex != i {
			t.Errorf("component %d has order index %v", i, c.OrderIndex)
		}
	}
}

func TestEnhancePagesSkipsExisting(t *testing.T) {
	pages := []structure.PageInput{{
		Name:       "Landing",
		Path:       "/landing",
		Components: []structure.ComponentInput{{Type: "menu"}},
	}}

	got := EnhancePages(pages, "bakery")

	if types := inputTypes(got[0]); !equalStrings(types, []string{"menu"}) {
		t.Fatalf("components = %v", types)
	}
}

func TestTemplatePages(t *testing.T) {
	pages, err := TemplatePages(&models.Template{Slug: "empty"})
	if err != nil || len(pages) != 0 {
		t.Fatalf("empty template = %v, %v", pages, err)
	}

	if _, err := TemplatePages(&models.Template{Slug: "broken", Structure: datatypes.JSON(`{"pages":`)}); err == nil {
		t.Fatal("expected an error for a broken template")
	}

	pages, err = TemplatePages(&models.Template{Slug: "ok", Structure: datatypes.JSON(`[{"name":"Home","path":"/","components":[{"type":"HERO"}]}]`)})
	if err != nil {
		t.Fatalf("template pages: %v", err)
	}

	if len(pages) != 1 || pages[0].Components[0].Type != "HERO" {
		t.Fatalf("unexpected pages: %+v", pages)
	}
}
