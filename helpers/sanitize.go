package helpers

import (
	"sync"

	"alfredoramos.mx/site-builder/structure"
	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicy     *bluemonday.Policy
	onceRichTextPolicy sync.Once

	richTextKeys = map[string]bool{
		"html":        true,
		"richText":    true,
		"body":        true,
		"content":     true,
		"description": true,
	}
)

func policy() *bluemonday.Policy {
	onceRichTextPolicy.Do(func() {
		richTextPolicy = bluemonday.UGCPolicy()
		richTextPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})

	return richTextPolicy
}

// SanitizeStructure cleans rich text props of every component in place.
// Other props are rendered as text by the client and are left untouched.
func SanitizeStructure(s *structure.Structure) {
	if s == nil {
		return
	}

	for i := range s.Pages {
		for j := range s.Pages[i].Components {
			sanitizeValue(s.Pages[i].Components[j].Props, false)
		}
	}
}

func sanitizeValue(v any, richText bool) any {
	switch val := v.(type) {
	case string:
		if richText {
			return policy().Sanitize(val)
		}
	case structure.Document:
		sanitizeMap(val)
	case map[string]any:
		sanitizeMap(val)
	case []any:
		for i := range val {
			val[i] = sanitizeValue(val[i], richText)
		}
	}

	return v
}

func sanitizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = sanitizeValue(v, richTextKeys[k])
	}
}
