package skills

import "errors"

var (
	ErrSkillNotFound = errors.New("SKILL.md not found")
	ErrNoFrontmatter = errors.New("SKILL.md must start with YAML frontmatter (---)")
	ErrUnclosed      = errors.New("SKILL.md frontmatter not closed (missing ---)")
	ErrParseFailed   = errors.New("failed to parse SKILL.md frontmatter")
	ErrMissingName   = errors.New("missing required field: name")
	ErrMissingDesc   = errors.New("missing required field: description")
)
