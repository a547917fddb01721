package git

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupGitHubCommit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/anthropics/skills/commits/main", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.Write([]byte(`{"sha":"abcdef1234567890abcdef1234567890abcdef12"}`))
	}))
	defer srv.Close()

	prev := githubAPIBase
	githubAPIBase = srv.URL
	defer func() { githubAPIBase = prev }()

	src, err := ParseSource("https://github.com/anthropics/skills/tree/main")
	require.NoError(t, err)

	sha, err := lookupGitHubCommit(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "abcdef1234567890abcdef1234567890abcdef12", sha)
}

func TestLookupGitHubCommitDefaultsToHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/anthropics/skills/commits/HEAD", r.URL.Path)
		w.Write([]byte(`{"sha":"feedfeedfeedfeedfeedfeedfeedfeedfeedfeed"}`))
	}))
	defer srv.Close()

	prev := githubAPIBase
	githubAPIBase = srv.URL
	defer func() { githubAPIBase = prev }()

	src, err := ParseSource("anthropics/skills")
	require.NoError(t, err)

	sha, err := lookupGitHubCommit(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "feedfeedfeedfeedfeedfeedfeedfeedfeedfeed", sha)
}

func TestLookupGitHubCommitRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "missing sha field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"message":"ok"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			prev := githubAPIBase
			githubAPIBase = srv.URL
			defer func() { githubAPIBase = prev }()

			src, err := ParseSource("anthropics/skills")
			require.NoError(t, err)

			_, err = lookupGitHubCommit(context.Background(), src)
			assert.Error(t, err)
		})
	}
}

func TestResolveSHAUsesAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sha":"1234123412341234123412341234123412341234"}`))
	}))
	defer srv.Close()

	prev := githubAPIBase
	githubAPIBase = srv.URL
	defer func() { githubAPIBase = prev }()

	src, err := ParseSource("anthropics/skills")
	require.NoError(t, err)

	sha, err := ResolveSHA(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "1234123412341234123412341234123412341234", sha)
}

func TestSnapshotClose(t *testing.T) {
	dir := t.TempDir()
	snap := &Snapshot{Dir: dir, SHA: "abc"}

	require.NoError(t, snap.Close())
	assert.NoDirExists(t, dir)

	// Close is idempotent.
	require.NoError(t, snap.Close())
}

func TestSnapshotPath(t *testing.T) {
	snap := &Snapshot{Dir: "/tmp/snap", SHA: "abc"}
	assert.Equal(t, "/tmp/snap", snap.Path(""))
	assert.Equal(t, "/tmp/snap/skills/pdf", snap.Path("skills/pdf"))
}
