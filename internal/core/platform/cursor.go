package platform

import (
	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

// Cursor stores each agent as a project rule. Rules cannot delegate to one
// another, so mentions are rewritten and delegation sections dropped.
func Cursor() Definition {
	return Definition{
		Name:        "cursor",
		DisplayName: "Cursor",
		Mode:        MultiFile,
		Path:        ".cursor/rules",
		Signals:     []string{".cursor", ".cursorrules"},
		Headers: markdown.HeaderMap{
			"Delegation Guidelines": markdown.Omit(),
		},
		Frontmatter: func(_ *markdown.Document, e catalog.Entry) []Field {
			return []Field{
				{Key: "description", Value: e.Description},
				{Key: "alwaysApply", Value: false},
			}
		},
	}
}

func init() { Register(Cursor()) }
