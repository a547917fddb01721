package install

import (
	"context"
	"fmt"
	"strings"

	"github.com/skills-sh/skills/core/config"
	"github.com/skills-sh/skills/core/git"
	"github.com/skills-sh/skills/skills"
)

// Add resolves a source string, discovers its skills, and declares the
// selected one in skills.json. With no name given the source must offer
// exactly one skill; otherwise the caller has to disambiguate and nothing
// is written.
func (e *Engine) Add(ctx context.Context, sourceInput, skillName string) error {
	src, err := git.ParseSource(sourceInput)
	if err != nil {
		return err
	}

	storeLock, err := e.lockStores(ctx)
	if err != nil {
		return err
	}
	defer storeLock.Release()

	snaps := newSnapshotCache(e.provider, e.logger)
	defer snaps.Close()

	e.printf("Cloning %s...\n", src.URL)
	snap, err := snaps.get(ctx, src)
	if err != nil {
		return err
	}
	e.printf("Resolved commit: %s\n", snap.SHA)

	found, err := skills.Discover(snap.Dir, src.Subpath)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("%w in %s", ErrNoSkills, sourceInput)
	}

	e.printf("Found %d skill(s):\n", len(found))
	for _, s := range found {
		e.printf("  - %s (%s)\n", s.Manifest.Name, s.Manifest.Description)
	}

	var selected []skills.Skill
	switch {
	case skillName != "":
		for _, s := range found {
			if s.Manifest.Name == skillName {
				selected = append(selected, s)
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("%w: %q in %s", ErrSkillNotFound, skillName, sourceInput)
		}
	case len(found) == 1:
		selected = found
	default:
		return fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(manifestNames(found), ", "))
	}

	cfg, err := config.LoadConfig(e.root)
	if err != nil {
		return err
	}
	for _, s := range selected {
		cfg.UpsertSkill(config.SkillSpec{
			Name:   s.Manifest.Name,
			Source: src.Canonical(),
			Ref:    src.Ref,
			Path:   s.RelPath,
		})
		e.printf("Added %q to %s\n", s.Manifest.Name, config.ConfigFilename)
	}
	return cfg.Save(e.root)
}

// Install resolves every declared skill and every enabled marketplace skill
// to a fresh snapshot, rewrites its lock entry, and fans the skill's file
// tree out to every install target. The lock document is persisted once, at
// the end of a fully successful run.
func (e *Engine) Install(ctx context.Context) error {
	storeLock, err := e.lockStores(ctx)
	if err != nil {
		return err
	}
	defer storeLock.Release()

	cfg, err := config.LoadConfig(e.root)
	if err != nil {
		return err
	}
	lock, err := config.LoadLock(e.root)
	if err != nil {
		return err
	}
	if cfg.Empty() {
		e.printf("No skills configured in %s\n", config.ConfigFilename)
		e.printf("Run 'skills add <source>' to add skills.\n")
		return nil
	}

	snaps := newSnapshotCache(e.provider, e.logger)
	defer snaps.Close()

	installed := 0

	for _, spec := range cfg.Skills {
		e.printf("\nProcessing skill: %s\n", spec.Name)

		src, err := sourceFor(spec.Source, spec.Ref)
		if err != nil {
			return err
		}
		snap, err := snaps.get(ctx, src)
		if err != nil {
			return err
		}

		found, err := skills.Discover(snap.Dir, spec.Path)
		if err != nil {
			return err
		}
		skill := findByName(found, spec.Name)
		if skill == nil {
			return fmt.Errorf("%w: %q in %s", ErrSkillNotFound, spec.Name, spec.Source)
		}

		lock.Skills[spec.Name] = config.LockedSkill{
			Name:        skill.Manifest.Name,
			Source:      src.URL,
			SHA:         snap.SHA,
			Path:        skill.RelPath,
			Description: skill.Manifest.Description,
		}
		if err := e.fanOut(spec.Name, skill.Dir); err != nil {
			return err
		}
		installed++
		e.printf("  Installed: %s @ %s\n", spec.Name, shortSHA(snap.SHA))
	}

	for _, mkt := range cfg.Marketplaces {
		if len(mkt.Enabled) == 0 {
			continue
		}
		e.printf("\nProcessing marketplace: %s\n", mkt.Name)

		src, err := sourceFor(mkt.Source, mkt.Ref)
		if err != nil {
			return err
		}
		// One shared snapshot serves every enabled name.
		snap, err := snaps.get(ctx, src)
		if err != nil {
			return err
		}
		found, err := skills.Discover(snap.Dir, "")
		if err != nil {
			return err
		}

		lock.Marketplaces[mkt.Name] = config.LockedMarketplace{
			Source:          src.URL,
			SHA:             snap.SHA,
			AvailableSkills: manifestNames(found),
		}

		for _, name := range mkt.Enabled {
			skill := findByName(found, name)
			if skill == nil {
				return fmt.Errorf("%w: %q in marketplace %q", ErrSkillNotFound, name, mkt.Name)
			}
			lock.Skills[name] = config.LockedSkill{
				Name:        skill.Manifest.Name,
				Source:      src.URL,
				SHA:         snap.SHA,
				Path:        skill.RelPath,
				Description: skill.Manifest.Description,
				Marketplace: mkt.Name,
			}
			if err := e.fanOut(name, skill.Dir); err != nil {
				return err
			}
			installed++
			e.printf("  Installed: %s @ %s\n", name, shortSHA(snap.SHA))
		}
	}

	if err := lock.Save(e.root); err != nil {
		return err
	}

	e.printf("\n%d skill(s) installed.\n", installed)
	e.printf("Lock file updated: %s\n", config.LockFilename)
	return nil
}

// Update refreshes lock entries to the current upstream commit of each
// matching declared or marketplace-enabled skill. Entries already at the
// upstream commit are skipped without cloning. Install targets are left
// untouched; the next Install applies the new commits.
func (e *Engine) Update(ctx context.Context, skillName string) error {
	storeLock, err := e.lockStores(ctx)
	if err != nil {
		return err
	}
	defer storeLock.Release()

	cfg, err := config.LoadConfig(e.root)
	if err != nil {
		return err
	}
	lock, err := config.LoadLock(e.root)
	if err != nil {
		return err
	}
	if cfg.Empty() {
		e.printf("No skills configured in %s\n", config.ConfigFilename)
		return nil
	}

	snaps := newSnapshotCache(e.provider, e.logger)
	defer snaps.Close()

	updated := 0

	for _, spec := range cfg.Skills {
		if skillName != "" && spec.Name != skillName {
			continue
		}
		e.printf("Checking %s\n", spec.Name)

		src, err := sourceFor(spec.Source, spec.Ref)
		if err != nil {
			return err
		}
		newSHA, err := e.provider.ResolveSHA(ctx, src)
		if err != nil {
			return err
		}

		current, hasCurrent := lock.Skills[spec.Name]
		if hasCurrent && current.SHA == newSHA {
			e.printf("  Already up to date: %s\n", shortSHA(newSHA))
			continue
		}
		if hasCurrent {
			e.printf("  Updating %s -> %s\n", shortSHA(current.SHA), shortSHA(newSHA))
		} else {
			e.printf("  Updating none -> %s\n", shortSHA(newSHA))
		}

		snap, err := snaps.get(ctx, src)
		if err != nil {
			return err
		}
		found, err := skills.Discover(snap.Dir, spec.Path)
		if err != nil {
			return err
		}
		skill := findByName(found, spec.Name)
		if skill == nil {
			return fmt.Errorf("%w: %q in %s", ErrSkillNotFound, spec.Name, spec.Source)
		}

		lock.Skills[spec.Name] = config.LockedSkill{
			Name:        skill.Manifest.Name,
			Source:      src.URL,
			SHA:         newSHA,
			Path:        skill.RelPath,
			Description: skill.Manifest.Description,
		}
		updated++
	}

	for _, mkt := range cfg.Marketplaces {
		names := make([]string, 0, len(mkt.Enabled))
		for _, name := range mkt.Enabled {
			if skillName == "" || name == skillName {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}

		src, err := sourceFor(mkt.Source, mkt.Ref)
		if err != nil {
			return err
		}
		newSHA, err := e.provider.ResolveSHA(ctx, src)
		if err != nil {
			return err
		}

		refreshed := false
		for _, name := range names {
			if current, ok := lock.Skills[name]; ok && current.SHA == newSHA {
				continue
			}
			e.printf("Updating %s (marketplace: %s)\n", name, mkt.Name)

			snap, err := snaps.get(ctx, src)
			if err != nil {
				return err
			}
			found, err := skills.Discover(snap.Dir, "")
			if err != nil {
				return err
			}
			skill := findByName(found, name)
			if skill == nil {
				return fmt.Errorf("%w: %q in marketplace %q", ErrSkillNotFound, name, mkt.Name)
			}

			lock.Skills[name] = config.LockedSkill{
				Name:        skill.Manifest.Name,
				Source:      src.URL,
				SHA:         newSHA,
				Path:        skill.RelPath,
				Description: skill.Manifest.Description,
				Marketplace: mkt.Name,
			}
			if !refreshed {
				lock.Marketplaces[mkt.Name] = config.LockedMarketplace{
					Source:          src.URL,
					SHA:             newSHA,
					AvailableSkills: manifestNames(found),
				}
				refreshed = true
			}
			updated++
		}
	}

	if err := lock.Save(e.root); err != nil {
		return err
	}

	if updated > 0 {
		e.printf("\n%d skill(s) updated in lock file.\n", updated)
		e.printf("Run 'skills install' to apply updates.\n")
	} else {
		e.printf("\nAll skills are up to date.\n")
	}
	return nil
}

// Remove deletes a skill from the declared store, every marketplace's
// enabled set, the lock, and every install target. A name found nowhere is
// reported without failing; the target cleanup still runs.
func (e *Engine) Remove(ctx context.Context, name string) error {
	storeLock, err := e.lockStores(ctx)
	if err != nil {
		return err
	}
	defer storeLock.Release()

	cfg, err := config.LoadConfig(e.root)
	if err != nil {
		return err
	}
	lock, err := config.LoadLock(e.root)
	if err != nil {
		return err
	}

	declared := cfg.RemoveSkill(name)
	if declared {
		e.printf("Removed %q from %s\n", name, config.ConfigFilename)
	}
	disabled := cfg.DisableMarketplaceSkill(name)
	if disabled {
		e.printf("Disabled %q in marketplaces\n", name)
	}
	_, locked := lock.Skills[name]
	if locked {
		delete(lock.Skills, name)
		e.printf("Removed %q from %s\n", name, config.LockFilename)
	}

	cleaned, err := e.removeFromTargets(name)
	if err != nil {
		return err
	}
	for _, agent := range cleaned {
		e.printf("Removed %s from %s\n", name, agent)
	}

	if !declared && !disabled && !locked {
		e.printf("Skill %q not found in %s\n", name, config.ConfigFilename)
		return nil
	}

	if err := cfg.Save(e.root); err != nil {
		return err
	}
	if err := lock.Save(e.root); err != nil {
		return err
	}

	e.printf("\nSkill %q removed.\n", name)
	return nil
}

func findByName(found []skills.Skill, name string) *skills.Skill {
	for i := range found {
		if found[i].Manifest.Name == name {
			return &found[i]
		}
	}
	return nil
}

func manifestNames(found []skills.Skill) []string {
	names := make([]string, 0, len(found))
	for _, s := range found {
		names = append(names, s.Manifest.Name)
	}
	return names
}
