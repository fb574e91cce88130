package structure

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxNameLength = 150
	maxPathLength = 255
	maxTypeLength = 100
)

type WebsiteInfo struct {
	ID         uuid.UUID  `json:"id"`
	BusinessID uuid.UUID  `json:"businessId"`
	TemplateID *uuid.UUID `json:"templateId"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	Status     string     `json:"status"`
	Settings   Document   `json:"settings"`
	SEO        Document   `json:"seo"`
}

type Component struct {
	ID         uint     `json:"id"`
	Type       string   `json:"type"`
	OrderIndex int      `json:"orderIndex"`
	Props      Document `json:"props"`
	Styles     Document `json:"styles"`
}

type Page struct {
	ID         uint        `json:"id"`
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	SortOrder  int         `json:"sortOrder"`
	Meta       Document    `json:"meta"`
	Components []Component `json:"components"`
}

// Structure is the full page/component tree of a website.
type Structure struct {
	Website WebsiteInfo `json:"website"`
	Pages   []Page      `json:"pages"`
}

type ComponentInput struct {
	Type       string   `json:"type" yaml:"type"`
	OrderIndex *int     `json:"orderIndex,omitempty" yaml:"orderIndex,omitempty"`
	Props      Document `json:"props,omitempty" yaml:"props,omitempty"`
	Styles     Document `json:"styles,omitempty" yaml:"styles,omitempty"`
}

type PageInput struct {
	Name       string           `json:"name" yaml:"name"`
	Path       string           `json:"path" yaml:"path"`
	SortOrder  *int             `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
	Meta       Document         `json:"meta,omitempty" yaml:"meta,omitempty"`
	Components []ComponentInput `json:"components" yaml:"components"`
}

type VersionInfo struct {
	ID            uuid.UUID `json:"id"`
	WebsiteID     uuid.UUID `json:"websiteId"`
	VersionNumber int       `json:"versionNumber"`
	CreatedByID   uuid.UUID `json:"createdByUserId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Snapshot is one stored version, already upgraded to the current schema.
type Snapshot struct {
	VersionInfo
	SchemaVersion int         `json:"schemaVersion"`
	Website       WebsiteInfo `json:"website"`
	Pages         []Page      `json:"pages"`
}

type ReplaceOptions struct {
	// When set, the replace fails with ErrConflict unless it matches the
	// latest version number of the website.
	ExpectedVersion *int
}

func ValidatePages(pages []PageInput) error {
	verr := &ValidationError{}

	for i, p := range pages {
		field := fmt.Sprintf("pages.%d", i)

		if len(strings.TrimSpace(p.Name)) < 1 {
			verr.Add(field+".name", "The page name is required.")
		} else if len(p.Name) > maxNameLength {
			verr.Add(field+".name", fmt.Sprintf("The page name must be at most %d characters long.", maxNameLength))
		}

		if len(strings.TrimSpace(p.Path)) < 1 {
			verr.Add(field+".path", "The page path is required.")
		} else if len(p.Path) > maxPathLength {
			verr.Add(field+".path", fmt.Sprintf("The page path must be at most %d characters long.", maxPathLength))
		}

		for j, c := range p.Components {
			cfield := fmt.Sprintf("%s.components.%d.type", field, j)

			if len(strings.TrimSpace(c.Type)) < 1 {
				verr.Add(cfield, "The component type is required.")
			} else if len(c.Type) > maxTypeLength {
				verr.Add(cfield, fmt.Sprintf("The component type must be at most %d characters long.", maxTypeLength))
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// InputsFromPages converts a read or stored tree back into writer input,
// keeping its ordering fields.
func InputsFromPages(pages []Page) []PageInput {
	inputs := make([]PageInput, 0, len(pages))

	for _, p := range pages {
		sortOrder := p.SortOrder
		components := make([]ComponentInput, 0, len(p.Components))

		for _, c := range p.Components {
			orderIndex := c.OrderIndex
			components = append(components, ComponentInput{
				Type:       c.Type,
				OrderIndex: &orderIndex,
				Props:      c.Props,
				Styles:     c.Styles,
			})
		}

		inputs = append(inputs, PageInput{
			Name:       p.Name,
			Path:       p.Path,
			SortOrder:  &sortOrder,
			Meta:       p.Meta,
			Components: components,
		})
	}

	return inputs
}
