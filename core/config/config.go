// Package config defines the two persisted documents of the skills
// installer: skills.json, the user-declared set of wanted skills and
// marketplaces, and skills-lock.json, the machine-resolved record of exact
// commits. Both load default-empty when absent and are written exactly once
// per command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigSchema is the JSON Schema reference written into skills.json.
	ConfigSchema = "https://skills.sh/schemas/skills.json"
	// ConfigFilename is the declared-store document name.
	ConfigFilename = "skills.json"
)

// Config is the user-edited skills.json document.
type Config struct {
	Schema       string        `json:"$schema"`
	Marketplaces []Marketplace `json:"marketplaces,omitempty"`
	Skills       []SkillSpec   `json:"skills,omitempty"`
}

// Marketplace is one source repository offering multiple skills, of which a
// named subset is enabled.
type Marketplace struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Ref     string   `json:"ref,omitempty"`
	Enabled []string `json:"enabled"`
}

// SkillSpec declares a single wanted skill. Name is unique within the
// document.
type SkillSpec struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Ref    string `json:"ref,omitempty"`
	Path   string `json:"path,omitempty"`
}

// DefaultConfig returns an empty declared store.
func DefaultConfig() *Config {
	return &Config{Schema: ConfigSchema}
}

// LoadConfig reads skills.json from dir, returning the default-empty
// document when the file does not exist.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigFilename, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFilename, err)
	}
	return cfg, nil
}

// Save writes the document to dir as pretty-printed JSON.
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ConfigFilename)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ConfigFilename, err)
	}
	return nil
}

// FindSkill returns the declared entry for name, or nil.
func (c *Config) FindSkill(name string) *SkillSpec {
	for i := range c.Skills {
		if c.Skills[i].Name == name {
			return &c.Skills[i]
		}
	}
	return nil
}

// UpsertSkill adds spec to the document, replacing any prior entry with the
// same name.
func (c *Config) UpsertSkill(spec SkillSpec) {
	for i := range c.Skills {
		if c.Skills[i].Name == spec.Name {
			c.Skills[i] = spec
			return
		}
	}
	c.Skills = append(c.Skills, spec)
}

// RemoveSkill deletes the declared entry for name, reporting whether one
// existed.
func (c *Config) RemoveSkill(name string) bool {
	for i := range c.Skills {
		if c.Skills[i].Name == name {
			c.Skills = append(c.Skills[:i], c.Skills[i+1:]...)
			return true
		}
	}
	return false
}

// DisableMarketplaceSkill strips name from every marketplace's enabled set,
// reporting whether any had it.
func (c *Config) DisableMarketplaceSkill(name string) bool {
	found := false
	for i := range c.Marketplaces {
		enabled := c.Marketplaces[i].Enabled
		kept := enabled[:0]
		for _, n := range enabled {
			if n == name {
				found = true
				continue
			}
			kept = append(kept, n)
		}
		c.Marketplaces[i].Enabled = kept
	}
	return found
}

// Empty reports whether nothing is declared.
func (c *Config) Empty() bool {
	return len(c.Skills) == 0 && len(c.Marketplaces) == 0
}
