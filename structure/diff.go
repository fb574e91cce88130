package structure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const currentRef = "current"

type DiffChunk struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type Diff struct {
	Base   string      `json:"base"`
	Head   string      `json:"head"`
	Chunks []DiffChunk `json:"chunks"`
}

// Diff compares the pages stored in a version against another version, or
// against the current structure when against is nil. Server assigned ids are
// left out so only content changes show up.
func (m *Manager) Diff(ctx context.Context, websiteID uuid.UUID, versionNumber int, against *int) (*Diff, error) {
	base, err := m.Version(ctx, websiteID, versionNumber)
	if err != nil {
		return nil, err
	}

	headRef := currentRef
	var headPages []Page

	if against != nil {
		head, err := m.snapshots.Get(ctx, m.db, websiteID, *against)
		if err != nil {
			return nil, err
		}

		headRef = fmt.Sprintf("v%d", head.VersionNumber)
		headPages = head.Pages
	} else {
		current, err := m.reader.Read(ctx, m.db, websiteID)
		if err != nil {
			return nil, err
		}

		headPages = current.Pages
	}

	baseText, err := comparableText(base.Pages)
	if err != nil {
		return nil, err
	}

	headText, err := comparableText(headPages)
	if err != nil {
		return nil, err
	}

	return &Diff{
		Base:   fmt.Sprintf("v%d", base.VersionNumber),
		Head:   headRef,
		Chunks: diffChunks(baseText, headText),
	}, nil
}

func diffChunks(base string, head string) []DiffChunk {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(base, head, true))
	chunks := []DiffChunk{}

	for _, d := range diffs {
		var chunkType string

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		default:
			continue
		}

		if len(strings.TrimSpace(d.Text)) < 1 {
			continue
		}

		chunks = append(chunks, DiffChunk{Type: chunkType, Content: d.Text})
	}

	return chunks
}

func comparableText(pages []Page) (string, error) {
	type component struct {
		Type       string   `json:"type"`
		OrderIndex int      `json:"orderIndex"`
		Props      Document `json:"props"`
		Styles     Document `json:"styles"`
	}

	type page struct {
		Name       string      `json:"name"`
		Path       string      `json:"path"`
		SortOrder  int         `json:"sortOrder"`
		Meta       Document    `json:"meta"`
		Components []component `json:"components"`
	}

	out := make([]page, 0, len(pages))

	for _, p := range pages {
		components := make([]component, 0, len(p.Components))

		for _, c := range p.Components {
			components = append(components, component{Type: c.Type, OrderIndex: c.OrderIndex, Props: c.Props, Styles: c.Styles})
		}

		out = append(out, page{Name: p.Name, Path: p.Path, SortOrder: p.SortOrder, Meta: p.Meta, Components: components})
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Could not encode pages for comparison: %w", err)
	}

	return string(raw), nil
}
