package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// LockSchema is the JSON Schema reference written into skills-lock.json.
	LockSchema = "https://skills.sh/schemas/skills-lock.json"
	// LockFilename is the resolved-store document name.
	LockFilename = "skills-lock.json"
	// LockVersion is the current lock document version.
	LockVersion = 1
)

// Lock is the machine-written skills-lock.json document.
type Lock struct {
	Schema       string                       `json:"$schema"`
	Version      int                          `json:"version"`
	Marketplaces map[string]LockedMarketplace `json:"marketplaces,omitempty"`
	Skills       map[string]LockedSkill       `json:"skills,omitempty"`
}

// LockedMarketplace records the resolved state of a marketplace source.
type LockedMarketplace struct {
	Source          string   `json:"source"`
	SHA             string   `json:"sha"`
	AvailableSkills []string `json:"available_skills,omitempty"`
}

// LockedSkill records the exact commit and path satisfying a declared or
// marketplace-enabled name.
type LockedSkill struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	SHA         string `json:"sha"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Marketplace string `json:"marketplace,omitempty"`
}

// DefaultLock returns a fresh, empty resolved store.
func DefaultLock() *Lock {
	return &Lock{
		Schema:       LockSchema,
		Version:      LockVersion,
		Marketplaces: make(map[string]LockedMarketplace),
		Skills:       make(map[string]LockedSkill),
	}
}

// LoadLock reads skills-lock.json from dir, returning a fresh document when
// the file does not exist.
func LoadLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultLock(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", LockFilename, err)
	}

	lock := DefaultLock()
	if err := json.Unmarshal(data, lock); err != nil {
		return nil, fmt.Errorf("parse %s: %w", LockFilename, err)
	}
	if lock.Marketplaces == nil {
		lock.Marketplaces = make(map[string]LockedMarketplace)
	}
	if lock.Skills == nil {
		lock.Skills = make(map[string]LockedSkill)
	}
	return lock, nil
}

// Save writes the document to dir as pretty-printed JSON.
func (l *Lock) Save(dir string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, LockFilename)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", LockFilename, err)
	}
	return nil
}
