package platform

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

// maxHeadingLevel is the deepest markdown heading.
const maxHeadingLevel = 6

// blockSeparator separates agent blocks in a combined file. Agent content
// never contains it on a line of its own (see escapeSeparators).
const blockSeparator = "---"

// renderAgentFile produces a rendered multi-file document: YAML
// frontmatter, the rewritten system prompt and the transformed sections.
func renderAgentFile(def Definition, doc *markdown.Document, e catalog.Entry) ([]byte, error) {
	fm, err := marshalFrontmatter(def.Frontmatter(doc, e))
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")

	body := renderBody(doc, def.Headers, 0)
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// renderBlock produces one agent block of a combined file. The block is
// headed by "## <description>", which identifies it on removal and scan.
func renderBlock(def Definition, doc *markdown.Document, e catalog.Entry) string {
	var b strings.Builder
	b.WriteString(markdown.SectionHeading(2, blockKey(e)))
	if body := renderBody(doc, def.Headers, 1); body != "" {
		b.WriteString("\n\n")
		b.WriteString(escapeSeparators(body))
	}
	return b.String()
}

// renderBody renders the rewritten system prompt and the sections that
// survive the header table, shifting heading levels by shift.
func renderBody(doc *markdown.Document, headers markdown.HeaderMap, shift int) string {
	var parts []string
	if prompt := markdown.RewriteReferences(doc.SystemPrompt); prompt != "" {
		parts = append(parts, prompt)
	}
	for _, s := range headers.Apply(doc.Sections) {
		level := min(s.Level+shift, maxHeadingLevel)
		part := markdown.SectionHeading(level, s.Header)
		if content := markdown.RewriteReferences(s.Content); content != "" {
			part += "\n\n" + content
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n\n")
}

// blockKey is the header text identifying an agent's block.
func blockKey(e catalog.Entry) string {
	if e.Description != "" {
		return e.Description
	}
	return e.Name
}

// escapeSeparators turns separator lines inside agent content into an
// equivalent thematic break so the combined file splits unambiguously.
func escapeSeparators(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == blockSeparator {
			lines[i] = "***"
		}
	}
	return strings.Join(lines, "\n")
}

// marshalFrontmatter serializes fields to YAML in the order given.
func marshalFrontmatter(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		val, err := valueNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
		mapping.Content = append(mapping.Content, scalarNode("!!str", f.Key), val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// valueNode builds the node for a frontmatter value: a string, a bool or a
// list of strings.
func valueNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case string:
		return scalarNode("!!str", v), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(v)), nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			seq.Content = append(seq.Content, scalarNode("!!str", item))
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
