package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadManifest reads and validates the SKILL.md manifest of a skill
// directory. Returns ErrSkillNotFound when the directory has no manifest
// file at all.
func ReadManifest(skillDir string) (Manifest, error) {
	skillMD, err := findSkillMD(skillDir)
	if err != nil {
		return Manifest{}, err
	}

	content, err := os.ReadFile(skillMD)
	if err != nil {
		return Manifest{}, fmt.Errorf("read SKILL.md: %w", err)
	}

	manifest, _, err := ParseFrontmatter(string(content))
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", skillMD, err)
	}
	return manifest, nil
}

func findSkillMD(skillDir string) (string, error) {
	for _, name := range []string{"SKILL.md", "skill.md"} {
		path := filepath.Join(skillDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", ErrSkillNotFound
}

// ParseFrontmatter extracts the YAML frontmatter block and the markdown
// body from SKILL.md content. Mandatory name and description fields must be
// non-empty strings; every other field is kept verbatim in Manifest.Extra.
func ParseFrontmatter(content string) (Manifest, string, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "---") {
		return Manifest{}, "", ErrNoFrontmatter
	}

	parts := strings.SplitN(content[3:], "---", 2)
	if len(parts) < 2 {
		return Manifest{}, "", ErrUnclosed
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(parts[0]), &fields); err != nil {
		return Manifest{}, "", fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	name, _ := fields["name"].(string)
	desc, _ := fields["description"].(string)
	if strings.TrimSpace(name) == "" {
		return Manifest{}, "", ErrMissingName
	}
	if strings.TrimSpace(desc) == "" {
		return Manifest{}, "", ErrMissingDesc
	}

	extra := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "name" || k == "description" {
			continue
		}
		extra[k] = v
	}
	if len(extra) == 0 {
		extra = nil
	}

	manifest := Manifest{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(desc),
		Extra:       extra,
	}
	return manifest, strings.TrimSpace(parts[1]), nil
}
