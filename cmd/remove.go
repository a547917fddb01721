package cmd

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <skill>",
	Short: "Remove a skill everywhere",
	Long: `Remove a skill from skills.json, from every marketplace's enabled set,
from skills-lock.json, and from every agent directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	return engine.Remove(cmd.Context(), args[0])
}
