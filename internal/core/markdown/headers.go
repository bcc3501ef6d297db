package markdown

// HeaderRule maps one canonical section header to its platform form.
type HeaderRule struct {
	Rename string
	Omit   bool
}

// Rename returns a rule replacing the header with name.
func Rename(name string) HeaderRule { return HeaderRule{Rename: name} }

// Omit returns a rule dropping the whole section.
func Omit() HeaderRule { return HeaderRule{Omit: true} }

// HeaderMap is a per-platform table keyed by the exact header text.
type HeaderMap map[string]HeaderRule

// Transform looks up header verbatim. It returns the header to emit and
// false when the section must be omitted. Headers missing from the table
// pass through unchanged.
func (m HeaderMap) Transform(header string) (string, bool) {
	rule, ok := m[header]
	if !ok {
		return header, true
	}
	if rule.Omit {
		return "", false
	}
	if rule.Rename == "" {
		return header, true
	}
	return rule.Rename, true
}

// Apply transforms every section header in order, dropping omitted
// sections. The input slice is not modified.
func (m HeaderMap) Apply(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		header, keep := m.Transform(s.Header)
		if !keep {
			continue
		}
		s.Header = header
		out = append(out, s)
	}
	return out
}
