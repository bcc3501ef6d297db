// Package markdown parses agent documents into frontmatter, a system prompt
// and header-delimited sections, and provides the text transforms applied
// before a document is written for a platform.
//
// Parsing is line-based. Section boundaries are "##" headings at the start
// of a line; fenced code is not tracked.
package markdown

import (
	"regexp"
	"strings"
)

// frontmatterDelimiter opens and closes the frontmatter block.
const frontmatterDelimiter = "---"

var (
	fieldPattern   = regexp.MustCompile(`^([A-Za-z0-9_.-]+):\s*(.*?)\s*$`)
	sectionPattern = regexp.MustCompile(`^(#{2,})\s+(\S.*?)\s*$`) // blank headers are not headings
)

// Field is a single frontmatter entry. List values were written as
// "key: [a, b]"; everything else is kept as the trimmed string.
type Field struct {
	Key    string
	Value  string
	List   []string
	IsList bool
}

// Frontmatter is the ordered set of fields from a document header.
type Frontmatter []Field

// Get returns the scalar value for key. List fields are joined with ", ".
func (f Frontmatter) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			if field.IsList {
				return strings.Join(field.List, ", "), true
			}
			return field.Value, true
		}
	}
	return "", false
}

// GetList returns the list value for key. A scalar value is returned as a
// single-element list; a missing key returns nil.
func (f Frontmatter) GetList(key string) []string {
	for _, field := range f {
		if field.Key != key {
			continue
		}
		if field.IsList {
			return field.List
		}
		if field.Value == "" {
			return nil
		}
		return []string{field.Value}
	}
	return nil
}

// Keys returns the field keys in document order.
func (f Frontmatter) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// set inserts or replaces a field, keeping the position of the first occurrence.
func (f Frontmatter) set(field Field) Frontmatter {
	for i := range f {
		if f[i].Key == field.Key {
			f[i] = field
			return f
		}
	}
	return append(f, field)
}

// Section is a header-delimited part of the document body.
type Section struct {
	Header  string
	Level   int
	Content string
}

// Document is the parsed form of an agent markdown file.
type Document struct {
	Frontmatter  Frontmatter
	SystemPrompt string
	Sections     []Section
}

// Description returns the frontmatter description, or "" if absent.
func (d *Document) Description() string {
	v, _ := d.Frontmatter.Get("description")
	return v
}

// Parse splits raw document text into frontmatter, system prompt and
// sections. It never fails: text without a frontmatter block is all body,
// and a body without level-2+ headers is all system prompt.
func Parse(raw string) *Document {
	lines := splitLines(raw)

	fmLines, body := splitFrontmatter(lines)
	doc := &Document{Frontmatter: parseFields(fmLines)}

	start := len(body)
	for i, line := range body {
		if sectionPattern.MatchString(line) {
			start = i
			break
		}
	}
	doc.SystemPrompt = strings.TrimSpace(strings.Join(body[:start], "\n"))

	var current *Section
	var content []string
	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(content, "\n"))
		doc.Sections = append(doc.Sections, *current)
	}

	for _, line := range body[start:] {
		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &Section{
				Header: m[2],
				Level:  len(m[1]),
			}
			content = content[:0]
			continue
		}
		content = append(content, line)
	}
	flush()

	return doc
}

// ParseFrontmatter reads only the frontmatter block. It is used when the
// caller needs catalog metadata and not the body.
func ParseFrontmatter(raw string) Frontmatter {
	fmLines, _ := splitFrontmatter(splitLines(raw))
	return parseFields(fmLines)
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(raw, "\n")
}

// splitFrontmatter returns the lines between the delimiters and the body
// lines after the closing delimiter. Without a complete block the whole text
// is body.
func splitFrontmatter(lines []string) (fm []string, body []string) {
	if len(lines) == 0 || lines[0] != frontmatterDelimiter {
		return nil, lines
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontmatterDelimiter {
			return lines[1:i], lines[i+1:]
		}
	}
	return nil, lines
}

func parseFields(lines []string) Frontmatter {
	var fm Frontmatter
	for _, line := range lines {
		m := fieldPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fm = fm.set(parseField(m[1], m[2]))
	}
	return fm
}

func parseField(key, value string) Field {
	if len(value) >= 2 && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		var list []string
		for _, item := range strings.Split(value[1:len(value)-1], ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		return Field{Key: key, List: list, IsList: true}
	}
	return Field{Key: key, Value: value}
}
