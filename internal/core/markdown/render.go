package markdown

import "strings"

// Render reconstructs document text from its parts. Parsing the result
// yields a Document equal to d.
func Render(d *Document) string {
	var b strings.Builder

	if len(d.Frontmatter) > 0 {
		b.WriteString(RenderFrontmatter(d.Frontmatter))
	}
	if d.SystemPrompt != "" {
		b.WriteString(d.SystemPrompt)
		b.WriteString("\n")
	}
	for _, s := range d.Sections {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SectionHeading(s.Level, s.Header))
		b.WriteString("\n")
		if s.Content != "" {
			b.WriteString(s.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderFrontmatter renders fields in the "key: value" / "key: [a, b]"
// form understood by Parse, including both delimiters.
func RenderFrontmatter(fm Frontmatter) string {
	var b strings.Builder
	b.WriteString(frontmatterDelimiter + "\n")
	for _, f := range fm {
		b.WriteString(f.Key)
		b.WriteString(": ")
		if f.IsList {
			b.WriteString("[" + strings.Join(f.List, ", ") + "]")
		} else {
			b.WriteString(f.Value)
		}
		b.WriteString("\n")
	}
	b.WriteString(frontmatterDelimiter + "\n")
	return b.String()
}

// SectionHeading returns "## header" with level hashes. Levels below 2 are
// clamped to 2 so the heading is always recognised as a section.
func SectionHeading(level int, header string) string {
	if level < 2 {
		level = 2
	}
	return strings.Repeat("#", level) + " " + header
}
