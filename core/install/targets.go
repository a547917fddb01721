package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Target is one consumer agent's skill directory, relative to the project
// root.
type Target struct {
	Agent string
	Dir   string
}

// DefaultTargets lists the agents every install fans out to.
var DefaultTargets = []Target{
	{Agent: "claude-code", Dir: ".claude/skills"},
	{Agent: "opencode", Dir: ".opencode/skills"},
	{Agent: "cursor", Dir: ".cursor/skills"},
	{Agent: "codex", Dir: ".codex/skills"},
}

// fanOut copies the skill directory into every target as <target>/<name>.
// Each target is staged next to its final location and swapped in with a
// rename, so a target is always either fully old or fully new.
func (e *Engine) fanOut(name, skillDir string) error {
	for _, target := range e.targets {
		parent := filepath.Join(e.root, target.Dir)
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", target.Agent, err)
		}

		stage, err := os.MkdirTemp(parent, "."+name+".staging-")
		if err != nil {
			return fmt.Errorf("stage %s for %s: %w", name, target.Agent, err)
		}
		if err := copyTree(skillDir, stage); err != nil {
			os.RemoveAll(stage)
			return fmt.Errorf("copy %s to %s: %w", name, target.Agent, err)
		}

		final := filepath.Join(parent, name)
		if err := os.RemoveAll(final); err != nil {
			os.RemoveAll(stage)
			return fmt.Errorf("replace %s in %s: %w", name, target.Agent, err)
		}
		if err := os.Rename(stage, final); err != nil {
			os.RemoveAll(stage)
			return fmt.Errorf("swap %s into %s: %w", name, target.Agent, err)
		}
	}
	return nil
}

// removeFromTargets deletes <target>/<name> from every target that has it,
// returning the agents cleaned up.
func (e *Engine) removeFromTargets(name string) ([]string, error) {
	var removed []string
	for _, target := range e.targets {
		path := filepath.Join(e.root, target.Dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("remove %s from %s: %w", name, target.Agent, err)
		}
		removed = append(removed, target.Agent)
	}
	return removed, nil
}

func copyTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return err
			}
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
