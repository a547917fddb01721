package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ConfigSchema, cfg.Schema)
	assert.True(t, cfg.Empty())
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Skills = []SkillSpec{
		{Name: "pdf-tools", Source: "anthropics/skills", Ref: "main", Path: "skills/pdf"},
		{Name: "docx", Source: "anthropics/skills"},
	}
	cfg.Marketplaces = []Marketplace{
		{Name: "anthropic", Source: "anthropics/skills", Enabled: []string{"pdf-tools"}},
	}
	require.NoError(t, cfg.Save(dir))

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigOmitsUnsetOptionalFields(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Skills = []SkillSpec{{Name: "docx", Source: "anthropics/skills"}}
	require.NoError(t, cfg.Save(dir))

	data, err := os.ReadFile(filepath.Join(dir, ConfigFilename))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	entry := raw["skills"].([]any)[0].(map[string]any)
	assert.NotContains(t, entry, "ref")
	assert.NotContains(t, entry, "path")
	assert.Equal(t, ConfigSchema, raw["$schema"])
}

func TestLoadConfigUnparsable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFilename), []byte("{nope"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestUpsertSkillReplacesSameName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpsertSkill(SkillSpec{Name: "pdf", Source: "a/b"})
	cfg.UpsertSkill(SkillSpec{Name: "pdf", Source: "c/d", Ref: "main"})

	require.Len(t, cfg.Skills, 1)
	assert.Equal(t, "c/d", cfg.Skills[0].Source)
	assert.Equal(t, "main", cfg.Skills[0].Ref)
}

func TestRemoveSkill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpsertSkill(SkillSpec{Name: "pdf", Source: "a/b"})

	assert.True(t, cfg.RemoveSkill("pdf"))
	assert.False(t, cfg.RemoveSkill("pdf"))
	assert.Empty(t, cfg.Skills)
}

func TestDisableMarketplaceSkill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Marketplaces = []Marketplace{
		{Name: "one", Source: "a/b", Enabled: []string{"pdf", "docx"}},
		{Name: "two", Source: "c/d", Enabled: []string{"pdf"}},
	}

	assert.True(t, cfg.DisableMarketplaceSkill("pdf"))
	assert.Equal(t, []string{"docx"}, cfg.Marketplaces[0].Enabled)
	assert.Empty(t, cfg.Marketplaces[1].Enabled)

	assert.False(t, cfg.DisableMarketplaceSkill("missing"))
}

func TestLoadLockMissingFile(t *testing.T) {
	lock, err := LoadLock(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, LockSchema, lock.Schema)
	assert.Equal(t, LockVersion, lock.Version)
	assert.NotNil(t, lock.Skills)
	assert.NotNil(t, lock.Marketplaces)
}

func TestLockRoundTrip(t *testing.T) {
	dir := t.TempDir()

	lock := DefaultLock()
	lock.Skills["pdf-tools"] = LockedSkill{
		Name:        "pdf-tools",
		Source:      "https://github.com/anthropics/skills.git",
		SHA:         "abcdef1234567890abcdef1234567890abcdef12",
		Path:        "skills/pdf",
		Description: "Work with PDFs",
	}
	lock.Marketplaces["anthropic"] = LockedMarketplace{
		Source:          "https://github.com/anthropics/skills.git",
		SHA:             "abcdef1234567890abcdef1234567890abcdef12",
		AvailableSkills: []string{"pdf-tools", "docx"},
	}
	require.NoError(t, lock.Save(dir))

	loaded, err := LoadLock(dir)
	require.NoError(t, err)
	assert.Equal(t, lock, loaded)
}

func TestLockOmitsUnsetOptionalFields(t *testing.T) {
	dir := t.TempDir()

	lock := DefaultLock()
	lock.Skills["docx"] = LockedSkill{Name: "docx", Source: "a/b", SHA: "ffff", Path: ""}
	require.NoError(t, lock.Save(dir))

	data, err := os.ReadFile(filepath.Join(dir, LockFilename))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	entry := raw["skills"].(map[string]any)["docx"].(map[string]any)
	assert.NotContains(t, entry, "description")
	assert.NotContains(t, entry, "marketplace")
	// Path is not optional and stays present even when empty.
	assert.Contains(t, entry, "path")
}

func TestStoreLockExcludes(t *testing.T) {
	dir := t.TempDir()

	first := NewStoreLock(dir)
	held, err := first.TryAcquire()
	require.NoError(t, err)
	require.True(t, held)
	assert.True(t, first.IsHeld())

	second := NewStoreLock(dir)
	held, err = second.TryAcquire()
	require.NoError(t, err)
	assert.False(t, held)

	require.NoError(t, first.Release())
	assert.False(t, first.IsHeld())

	held, err = second.TryAcquire()
	require.NoError(t, err)
	assert.True(t, held)
	require.NoError(t, second.Release())
}

func TestStoreLockAcquireTimesOut(t *testing.T) {
	dir := t.TempDir()

	first := NewStoreLock(dir)
	held, err := first.TryAcquire()
	require.NoError(t, err)
	require.True(t, held)
	defer first.Release()

	second := NewStoreLock(dir)
	err = second.Acquire(context.Background(), 250*time.Millisecond)
	assert.Error(t, err)
}
