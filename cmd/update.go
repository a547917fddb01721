package cmd

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [skill]",
	Short: "Update skills to the latest upstream commits (lock file only)",
	Long: `Check each declared skill's upstream for a new commit and record it in
skills-lock.json. Installed copies are untouched until the next
'skills install'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return engine.Update(cmd.Context(), name)
}
