// Package cmd provides the CLI commands for the skills installer.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skills-sh/skills/core/install"
)

var projectDir string

var rootCmd = &cobra.Command{
	Use:   "skills",
	Short: "Agent skills manager with lock file support",
	Long: `skills manages self-describing skill bundles across agent tools.

Declared skills live in skills.json, resolved commits in skills-lock.json,
and installed copies are fanned out to every supported agent directory.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "Project directory (defaults to the working directory)")
}

// projectRoot resolves the directory every store and install target hangs
// off of.
func projectRoot() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	return os.Getwd()
}

func newEngine() (*install.Engine, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	return install.New(root), nil
}
