package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// Snapshot is an ephemeral single-commit checkout of a source repository.
// The directory is exclusively owned by the caller and must be released
// with Close.
type Snapshot struct {
	// Dir is the root of the checkout.
	Dir string
	// SHA is the commit id at the checkout head.
	SHA string
}

// Close removes the snapshot directory. Safe to call multiple times.
func (s *Snapshot) Close() error {
	if s.Dir == "" {
		return nil
	}
	err := os.RemoveAll(s.Dir)
	s.Dir = ""
	return err
}

// Path returns the snapshot-relative subpath as an absolute path. An empty
// subpath yields the snapshot root.
func (s *Snapshot) Path(subpath string) string {
	if subpath == "" {
		return s.Dir
	}
	return filepath.Join(s.Dir, subpath)
}

// Clone performs a shallow clone of the source into a fresh temporary
// directory and returns the resulting snapshot. The source's ref is checked
// out when set, otherwise the remote default branch. scp-style remotes
// authenticate through the ssh agent only.
func Clone(ctx context.Context, src *Source) (*Snapshot, error) {
	dir, err := os.MkdirTemp("", "skills-clone-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	opts := &gogit.CloneOptions{
		URL:          src.URL,
		Depth:        1,
		SingleBranch: true,
	}
	if src.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Ref)
	}
	if src.IsSSH() {
		auth, authErr := sshAgentAuth(src.URL)
		if authErr != nil {
			os.RemoveAll(dir)
			return nil, authErr
		}
		opts.Auth = auth
	}

	repo, err := gogit.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("clone %s: %w", src.URL, err)
	}

	head, err := repo.Head()
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("resolve HEAD of %s: %w", src.URL, err)
	}

	return &Snapshot{Dir: dir, SHA: head.Hash().String()}, nil
}

func sshAgentAuth(url string) (transport.AuthMethod, error) {
	user := "git"
	if at := strings.Index(url, "@"); at > 0 {
		user = url[:at]
	}
	auth, err := gitssh.NewSSHAgentAuth(user)
	if err != nil {
		return nil, fmt.Errorf("ssh agent auth for %s: %w", url, err)
	}
	return auth, nil
}
