package skills

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// searchDirs are the conventional skill-holding directories, scanned in
// order before falling back to a recursive walk.
var searchDirs = []string{
	"skills",
	"skills/.curated",
	"skills/.experimental",
	"skills/.system",
	".agent/skills",
	".agents/skills",
	".claude/skills",
	".codex/skills",
	".cursor/skills",
	".github/skills",
	".goose/skills",
	".kilocode/skills",
	".kiro/skills",
	".opencode/skills",
	".roo/skills",
	".trae/skills",
	".windsurf/skills",
}

// skipPatterns prune the recursive walk: tooling output and hidden
// directories never hold skills worth descending into.
var skipPatterns = []glob.Glob{
	glob.MustCompile("node_modules"),
	glob.MustCompile("dist"),
	glob.MustCompile("build"),
	glob.MustCompile("__pycache__"),
	glob.MustCompile("target"),
	glob.MustCompile(".*"),
}

const maxDepth = 5

// Discover finds skills under root, optionally scoped to subpath. The scan
// target itself short-circuits when it is a valid skill; otherwise the
// conventional directories are scanned in order, and only if they yield
// nothing does a bounded recursive walk run. Duplicate manifest names keep
// the first occurrence. A directory whose SKILL.md exists but fails
// validation aborts the whole call.
func Discover(root string, subpath string) ([]Skill, error) {
	effective := root
	if subpath != "" {
		effective = filepath.Join(root, subpath)
	}

	if skill, err := tryParseSkill(effective, root); err != nil {
		return nil, err
	} else if skill != nil {
		return []Skill{*skill}, nil
	}

	seen := make(map[string]struct{})
	var found []Skill

	for _, dir := range searchDirs {
		dirPath := filepath.Join(effective, dir)
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			skill, err := tryParseSkill(filepath.Join(dirPath, entry.Name()), root)
			if err != nil {
				return nil, err
			}
			if skill == nil {
				continue
			}
			if _, dup := seen[skill.Manifest.Name]; dup {
				continue
			}
			seen[skill.Manifest.Name] = struct{}{}
			found = append(found, *skill)
		}
	}

	if len(found) == 0 {
		if err := discoverRecursive(effective, root, 0, seen, &found); err != nil {
			return nil, err
		}
	}

	return found, nil
}

func discoverRecursive(dir, root string, depth int, seen map[string]struct{}, found *[]Skill) error {
	if depth > maxDepth {
		return nil
	}

	skill, err := tryParseSkill(dir, root)
	if err != nil {
		return err
	}
	if skill != nil {
		if _, dup := seen[skill.Manifest.Name]; !dup {
			seen[skill.Manifest.Name] = struct{}{}
			*found = append(*found, *skill)
		}
		// Skills do not nest.
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() || skipDir(entry.Name()) {
			continue
		}
		if err := discoverRecursive(filepath.Join(dir, entry.Name()), root, depth+1, seen, found); err != nil {
			return err
		}
	}
	return nil
}

func skipDir(name string) bool {
	for _, pattern := range skipPatterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

// tryParseSkill parses dir as a skill. A directory without a manifest file
// is simply not a skill; a manifest that fails validation is an error.
func tryParseSkill(dir, root string) (*Skill, error) {
	manifest, err := ReadManifest(dir)
	if errors.Is(err, ErrSkillNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		rel = ""
	}

	return &Skill{Manifest: manifest, Dir: dir, RelPath: rel}, nil
}
