package helpers

import (
	"fmt"
	"sort"
	"strings"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
)

type enhancementRule struct {
	keywords  []string
	component string
	props     structure.Document
}

// Sections inferred from the business category, inserted in the home page.
var enhancementRules = []enhancementRule{
	{
		keywords:  []string{"shop", "store", "retail", "boutique", "commerce", "tienda"},
		component: "PRODUCT_GRID",
		props:     structure.Document{"title": "Featured products", "columns": 3},
	},
	{
		keywords:  []string{"restaurant", "cafe", "coffee", "bakery", "food", "bar", "restaurante"},
		component: "MENU",
		props:     structure.Document{"title": "Our menu"},
	},
	{
		keywords:  []string{"agency", "consulting", "consultancy", "consultant", "software", "tech", "studio", "marketing"},
		component: "LOGO_CLOUD",
		props:     structure.Document{"title": "Trusted by"},
	},
	{
		keywords:  []string{"salon", "spa", "clinic", "dentist", "fitness", "gym"},
		component: "BOOKING",
		props:     structure.Document{"title": "Book an appointment"},
	},
}

func TemplatePages(t *models.Template) ([]structure.PageInput, error) {
	pages := []structure.PageInput{}

	if len(t.Structure) < 1 {
		return pages, nil
	}

	if err := structure.DecodeJSON(t.Structure, &pages); err != nil {
		return nil, fmt.Errorf("Could not decode template '%s': %w", t.Slug, err)
	}

	return pages, nil
}

// EnhancePages returns a copy of pages with the sections matching the
// business category added to the home page. Input is never modified.
func EnhancePages(pages []structure.PageInput, category string) []structure.PageInput {
	out := make([]structure.PageInput, len(pages))

	for i, p := range pages {
		p.Components = append([]structure.ComponentInput{}, p.Components...)
		out[i] = p
	}

	category = strings.ToLower(strings.TrimSpace(category))

	if len(out) < 1 || len(category) < 1 {
		return out
	}

	home := 0
	for i, p := range out {
		if p.Path == "/" {
			home = i
			break
		}
	}

	rules := []enhancementRule{}

	for _, rule := range enhancementRules {
		if matchesAny(category, rule.keywords) && !hasComponent(out[home], rule.component) {
			rules = append(rules, rule)
		}
	}

	if len(rules) < 1 {
		return out
	}

	orders := make(map[int]int, len(out[home].Components))
	positions := make([]int, len(out[home].Components))

	for i, c := range out[home].Components {
		positions[i] = i
		orders[i] = effectiveOrder(c, i)
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return orders[positions[i]] < orders[positions[j]]
	})

	components := make([]structure.ComponentInput, 0, len(positions)+len(rules))
	for _, pos := range positions {
		components = append(components, out[home].Components[pos])
	}

	for _, rule := range rules {
		props := structure.Document{}
		for k, v := range rule.props {
			props[k] = v
		}

		components = insertBeforeFooter(components, structure.ComponentInput{Type: rule.component, Props: props})
	}

	for i := range components {
		idx := i
		components[i].OrderIndex = &idx
	}

	out[home].Components = components

	return out
}

func effectiveOrder(c structure.ComponentInput, position int) int {
	if c.OrderIndex == nil {
		return position
	}

	return *c.OrderIndex
}

// matchesAny reports whether a word of s is one of the keywords, or its
// plural.
func matchesAny(s string, keywords []string) bool {
	for _, word := range strings.Split(utils.Slugify(s), "-") {
		for _, k := range keywords {
			if word == k || word == k+"s" {
				return true
			}
		}
	}

	return false
}

func hasComponent(p structure.PageInput, componentType string) bool {
	for _, c := range p.Components {
		if strings.EqualFold(c.Type, componentType) {
			return true
		}
	}

	return false
}

func insertBeforeFooter(components []structure.ComponentInput, c structure.ComponentInput) []structure.ComponentInput {
	for i, existing := range components {
		if strings.EqualFold(existing.Type, "FOOTER") {
			return append(components[:i], append([]structure.ComponentInput{c}, components[i:]...)...)
		}
	}

	return append(components, c)
}
