package cmd

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Resolve declared skills and install them to every agent directory",
	Long: `Resolve every skill in skills.json to an exact commit, record it in
skills-lock.json, and copy the skill's files into each agent's skill
directory.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	return engine.Install(cmd.Context())
}
