package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skills-sh/skills/core/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured skills and their lock status",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	return printSkillList(os.Stdout, root)
}

func printSkillList(w io.Writer, root string) error {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return err
	}
	lock, err := config.LoadLock(root)
	if err != nil {
		return err
	}

	if cfg.Empty() {
		fmt.Fprintln(w, "No skills configured.")
		fmt.Fprintln(w, "Run 'skills add <source>' to add skills.")
		return nil
	}

	fmt.Fprintf(w, "Configured Skills:\n\n")

	for _, skill := range cfg.Skills {
		fmt.Fprintf(w, "  %s (%s)%s\n", skill.Name, lockStatus(lock, skill.Name), lockDescription(lock, skill.Name))
		fmt.Fprintf(w, "    source: %s\n", skill.Source)
		if skill.Ref != "" {
			fmt.Fprintf(w, "    ref: %s\n", skill.Ref)
		}
		if skill.Path != "" {
			fmt.Fprintf(w, "    path: %s\n", skill.Path)
		}
		fmt.Fprintln(w)
	}

	for _, mkt := range cfg.Marketplaces {
		if len(mkt.Enabled) == 0 {
			continue
		}
		fmt.Fprintf(w, "  Marketplace: %s (%s)\n", mkt.Name, mkt.Source)
		for _, name := range mkt.Enabled {
			fmt.Fprintf(w, "    - %s (%s)%s\n", name, lockStatus(lock, name), lockDescription(lock, name))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func lockStatus(lock *config.Lock, name string) string {
	if locked, ok := lock.Skills[name]; ok {
		sha := locked.SHA
		if len(sha) > 8 {
			sha = sha[:8]
		}
		return "@ " + sha
	}
	return "not installed"
}

func lockDescription(lock *config.Lock, name string) string {
	if locked, ok := lock.Skills[name]; ok && locked.Description != "" {
		return " - " + locked.Description
	}
	return ""
}
