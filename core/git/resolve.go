package git

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// githubAPIBase is a variable so tests can point lookups at a stub server.
var githubAPIBase = "https://api.github.com"

var resolveClient = &http.Client{Timeout: 30 * time.Second}

// ResolveSHA returns the current commit id for the source without keeping a
// checkout around. GitHub-hosted sources with a decomposed owner/repo go
// through the commits API; on any lookup failure the source is cloned and
// the snapshot's head commit is returned instead. Results are never cached.
func ResolveSHA(ctx context.Context, src *Source) (string, error) {
	if src.Owner != "" && src.Repo != "" && src.IsGitHub() {
		if sha, err := lookupGitHubCommit(ctx, src); err == nil {
			return sha, nil
		}
	}

	snap, err := Clone(ctx, src)
	if err != nil {
		return "", err
	}
	defer snap.Close()
	return snap.SHA, nil
}

func lookupGitHubCommit(ctx context.Context, src *Source) (string, error) {
	ref := src.Ref
	if ref == "" {
		ref = "HEAD"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", githubAPIBase, src.Owner, src.Repo, ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "skills-cli")
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := resolveClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch commit info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch commit info: status %d", resp.StatusCode)
	}

	var payload struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode commit info: %w", err)
	}
	if payload.SHA == "" {
		return "", fmt.Errorf("commit info missing sha")
	}
	return payload.SHA, nil
}
