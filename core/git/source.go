// Package git provides source parsing, repository snapshots, and commit
// resolution for the skills installer. It wraps go-git/v5 for clone
// operations and the GitHub commits API for lightweight SHA lookups.
package git

import (
	"fmt"
	"regexp"
	"strings"
)

// Source is the parsed form of a user-supplied source string.
type Source struct {
	// URL is the full clone URL.
	URL string
	// Owner and Repo are set when the source decomposes into owner/repo.
	Owner string
	Repo  string
	// Ref is an optional branch or tag.
	Ref string
	// Subpath is an optional path within the repository.
	Subpath string
}

var (
	githubTreePathRe = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/tree/([^/]+)/(.+)`)
	githubTreeRe     = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/tree/([^/]+)$`)
	githubRepoRe     = regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?$`)
	gitlabTreePathRe = regexp.MustCompile(`gitlab\.com/([^/]+)/([^/]+)/-/tree/([^/]+)/(.+)`)
	scpLikeRe        = regexp.MustCompile(`^([^@]+)@([^:]+):([^/]+)/([^/]+?)(?:\.git)?$`)
	shorthandRe      = regexp.MustCompile(`^([^/]+)/([^/]+)(?:/(.+))?$`)
)

// ParseSource parses a source string into a Source. Patterns are tried in
// strict order; the final rule treats the whole input as an opaque clone URL,
// so parsing never fails.
//
// Accepted forms include:
//
//	owner/repo
//	owner/repo/subpath
//	https://github.com/owner/repo
//	https://github.com/owner/repo/tree/branch/subpath
//	https://gitlab.com/owner/repo/-/tree/branch/subpath
//	git@github.com:owner/repo.git
func ParseSource(input string) (*Source, error) {
	if m := githubTreePathRe.FindStringSubmatch(input); m != nil {
		return &Source{
			URL:     fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2]),
			Owner:   m[1],
			Repo:    m[2],
			Ref:     m[3],
			Subpath: m[4],
		}, nil
	}

	if m := githubTreeRe.FindStringSubmatch(input); m != nil {
		return &Source{
			URL:   fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2]),
			Owner: m[1],
			Repo:  m[2],
			Ref:   m[3],
		}, nil
	}

	if m := githubRepoRe.FindStringSubmatch(input); m != nil {
		return &Source{
			URL:   fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2]),
			Owner: m[1],
			Repo:  m[2],
		}, nil
	}

	if m := gitlabTreePathRe.FindStringSubmatch(input); m != nil {
		return &Source{
			URL:     fmt.Sprintf("https://gitlab.com/%s/%s.git", m[1], m[2]),
			Owner:   m[1],
			Repo:    m[2],
			Ref:     m[3],
			Subpath: m[4],
		}, nil
	}

	if m := scpLikeRe.FindStringSubmatch(input); m != nil {
		return &Source{
			URL:   fmt.Sprintf("%s@%s:%s/%s.git", m[1], m[2], m[3], m[4]),
			Owner: m[3],
			Repo:  m[4],
		}, nil
	}

	// Shorthand must not be confused with local paths or URLs.
	if m := shorthandRe.FindStringSubmatch(input); m != nil {
		if !strings.Contains(input, ":") && !strings.HasPrefix(input, ".") && !strings.HasPrefix(input, "/") {
			return &Source{
				URL:     fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2]),
				Owner:   m[1],
				Repo:    m[2],
				Subpath: m[3],
			}, nil
		}
	}

	// Fall through: opaque clone URL without decomposed fields.
	return &Source{URL: input}, nil
}

// Canonical returns the persisted, re-parseable identifier for the source:
// "owner/repo" when the source decomposes, otherwise the raw URL.
func (s *Source) Canonical() string {
	if s.Owner != "" && s.Repo != "" {
		return s.Owner + "/" + s.Repo
	}
	return s.URL
}

// IsSSH reports whether the source uses an scp-style remote.
func (s *Source) IsSSH() bool {
	return scpLikeRe.MatchString(s.URL)
}

// IsGitHub reports whether the source is hosted on github.com.
func (s *Source) IsGitHub() bool {
	return strings.Contains(s.URL, "github.com")
}
