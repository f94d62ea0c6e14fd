package main

import (
	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/spf13/cobra"
)

func (c *cli) inviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite EMAIL...",
		Short: "Invite people outside the organization",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runInvite,
	}
}

func (c *cli) runInvite(cmd *cobra.Command, args []string) error {
	invitees := aboutme.NewEmailList()
	for _, email := range args {
		if _, err := invitees.Add(email); err != nil {
			return &aboutme.FieldError{Field: aboutme.FieldInvitees, Value: email, Err: err}
		}
	}
	res, err := c.submitter().SendInvitations(cmd.Context(), invitees.Items())
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}
