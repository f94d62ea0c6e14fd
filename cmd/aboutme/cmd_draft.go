package main

import (
	"fmt"
	"os"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/spf13/cobra"
)

func (c *cli) draftCmd() *cobra.Command {
	draft := &cobra.Command{
		Use:   "draft",
		Short: "Manage YAML drafts of the card",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init FILE",
		Short: "Write an empty draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := aboutme.SaveDraft(path, aboutme.Draft{}); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	draft.AddCommand(initCmd)
	return draft
}
