package install

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/skills-sh/skills/core/git"
)

// snapshotCacheSize bounds live checkouts within one command.
const snapshotCacheSize = 8

// snapshotCache holds clones for the duration of one command so skills
// sharing a source reuse a single checkout. The cache owns every snapshot
// it hands out; Close releases them all.
type snapshotCache struct {
	provider Provider
	logger   *slog.Logger
	snaps    *lru.Cache[string, *git.Snapshot]
}

func newSnapshotCache(provider Provider, logger *slog.Logger) *snapshotCache {
	snaps, _ := lru.NewWithEvict(snapshotCacheSize, func(_ string, snap *git.Snapshot) {
		snap.Close()
	})
	return &snapshotCache{provider: provider, logger: logger, snaps: snaps}
}

// get returns the cached snapshot for the source's (canonical, ref) key,
// cloning on first use.
func (c *snapshotCache) get(ctx context.Context, src *git.Source) (*git.Snapshot, error) {
	key := src.Canonical() + "@" + src.Ref
	if snap, ok := c.snaps.Get(key); ok {
		c.logger.Debug("snapshot cache hit", "source", key)
		return snap, nil
	}

	c.logger.Debug("cloning", "source", key, "url", src.URL)
	snap, err := c.provider.Clone(ctx, src)
	if err != nil {
		return nil, err
	}
	c.snaps.Add(key, snap)
	return snap, nil
}

// Close removes every checkout the cache still holds.
func (c *snapshotCache) Close() {
	c.snaps.Purge()
}
