package platform

import (
	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

// GeminiCLI keeps the agent name in frontmatter; the body is rewritten
// because Gemini subagents are invoked by the model, not by mention.
func GeminiCLI() Definition {
	return Definition{
		Name:        "gemini-cli",
		DisplayName: "Gemini CLI",
		Mode:        MultiFile,
		Path:        ".gemini/agents",
		Signals:     []string{"GEMINI.md", ".gemini"},
		Headers: markdown.HeaderMap{
			"Delegation Guidelines": markdown.Omit(),
			"Core Responsibilities": markdown.Rename("Responsibilities"),
		},
		Frontmatter: func(doc *markdown.Document, e catalog.Entry) []Field {
			fields := []Field{
				{Key: "name", Value: e.Name},
				{Key: "description", Value: e.Description},
			}
			if tags := doc.Frontmatter.GetList("tags"); len(tags) > 0 {
				fields = append(fields, Field{Key: "tags", Value: tags})
			}
			return fields
		},
	}
}

func init() { Register(GeminiCLI()) }
