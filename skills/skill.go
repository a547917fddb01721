// Package skills discovers skill directories in a checked-out source tree
// and parses their SKILL.md manifests.
package skills

// Skill is a discovered skill directory.
type Skill struct {
	// Manifest is the parsed SKILL.md frontmatter.
	Manifest Manifest
	// Dir is the absolute path to the skill directory.
	Dir string
	// RelPath is the directory path relative to the scanned tree's root.
	RelPath string
}

// Manifest holds the frontmatter of a SKILL.md file. Fields beyond name and
// description are preserved verbatim in Extra.
type Manifest struct {
	Name        string
	Description string
	Extra       map[string]any
}
