// Package bundle holds the agent catalog shipped inside the binary.
package bundle

import "embed"

// AgentsDir is the directory inside FS holding one markdown file per agent.
const AgentsDir = "agents"

// ProfilesFile lists the named agent profiles.
const ProfilesFile = "profiles.yaml"

// FS contains the bundled agent definitions and profiles. Each agent file has
// a frontmatter block (name, description, category, tags) and a markdown body.
//
//go:embed agents/*.md profiles.yaml
var FS embed.FS
