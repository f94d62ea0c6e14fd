package main

import (
	"encoding/json"
	"fmt"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/spf13/cobra"
)

type submitOptions struct {
	draft        string
	bio          string
	skills       []string
	endorsements []string
	interests    []string
	invites      []string
}

func (c *cli) submitCmd() *cobra.Command {
	var opts submitOptions
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the About Me card once",
		Long: `Builds the card from an optional draft file plus flags and submits it.
Flag values are added after the draft's and go through the same checks as
the interactive card: blanks and duplicates are rejected, invitees must be
email addresses.

Example:
  aboutme submit --bio "5 years of backend work" --skill Go --skill SQL --invite friend@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubmit(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.draft, "draft", "", "YAML draft to start from")
	f.StringVar(&opts.bio, "bio", "", "answer to \"What have you been doing over the past several years?\"")
	f.StringArrayVar(&opts.skills, "skill", nil, "skill to add (repeatable)")
	f.StringArrayVar(&opts.endorsements, "endorsement", nil, "endorsement to add (repeatable)")
	f.StringArrayVar(&opts.interests, "interest", nil, "interest to add (repeatable)")
	f.StringArrayVar(&opts.invites, "invite", nil, "email address to invite (repeatable)")
	return cmd
}

func (c *cli) runSubmit(cmd *cobra.Command, opts submitOptions) error {
	form, err := buildForm(cmd, opts)
	if err != nil {
		return err
	}
	res, err := c.submitter().SubmitAboutMe(cmd.Context(), form.Draft())
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func buildForm(cmd *cobra.Command, opts submitOptions) (*aboutme.Form, error) {
	form := aboutme.NewForm()
	if opts.draft != "" {
		d, err := aboutme.LoadDraft(opts.draft)
		if err != nil {
			return nil, err
		}
		if err := form.Apply(d); err != nil {
			return nil, fmt.Errorf("draft %s: %w", opts.draft, err)
		}
	}
	if cmd.Flags().Changed("bio") {
		form.Bio = opts.bio
	}

	for _, in := range []struct {
		kind   aboutme.FieldKind
		values []string
	}{
		{aboutme.FieldInterests, opts.interests},
		{aboutme.FieldSkills, opts.skills},
		{aboutme.FieldEndorsements, opts.endorsements},
		{aboutme.FieldInvitees, opts.invites},
	} {
		field := form.Field(in.kind)
		for _, v := range in.values {
			field.SetBuffer(v)
			if _, err := field.Commit(); err != nil {
				return nil, &aboutme.FieldError{Field: in.kind, Value: v, Err: err}
			}
		}
	}
	return form, nil
}

func printResult(cmd *cobra.Command, res aboutme.Result) error {
	out := cmd.OutOrStdout()
	if res.Body == nil {
		_, err := fmt.Fprintf(out, "%s accepted (HTTP %d)\n", res.Action, res.StatusCode)
		return err
	}
	raw, err := json.MarshalIndent(res.Body, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
