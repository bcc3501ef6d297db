package markdown

import "regexp"

// SpecialistPhrase replaces agent mentions on platforms without delegation.
const SpecialistPhrase = "the appropriate specialist"

// mentionPattern matches "@blue-" followed by a hyphenated identifier.
var mentionPattern = regexp.MustCompile(`@blue-[a-z0-9]+(?:-[a-z0-9]+)*`)

// RewriteReferences replaces every agent mention in text with
// SpecialistPhrase. Rewritten text contains no mentions, so a second pass
// is a no-op.
func RewriteReferences(text string) string {
	return mentionPattern.ReplaceAllString(text, SpecialistPhrase)
}

// HasReferences reports whether text mentions another agent.
func HasReferences(text string) bool {
	return mentionPattern.MatchString(text)
}
