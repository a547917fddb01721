package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addSkillName string

var addCmd = &cobra.Command{
	Use:   "add <source>",
	Short: "Add a skill from a git repository to skills.json",
	Long: `Add a skill to skills.json.

The source can be owner/repo shorthand, a full repository URL, a GitHub or
GitLab tree URL pinning a branch and subpath, or an scp-style remote. When
the source offers several skills, pick one with --skill.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addSkillName, "skill", "s", "", "Skill name to add when the source offers several")
}

func runAdd(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if err := engine.Add(cmd.Context(), args[0], addSkillName); err != nil {
		return err
	}
	fmt.Println("\nRun 'skills install' to install the skill(s).")
	return nil
}
