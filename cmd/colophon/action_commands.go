package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"colophon/internal/api"
	"colophon/internal/client"
)

func newActionCommand(ctx *commandContext) *cobra.Command {
	actionCmd := &cobra.Command{
		Use:   "action",
		Short: "Apply workflow actions to manuscripts",
	}

	actionCmd.AddCommand(newActionApplyCommand(ctx))
	actionCmd.AddCommand(newAssignRefereeCommand(ctx))
	actionCmd.AddCommand(newRemoveRefereeCommand(ctx))
	actionCmd.AddCommand(newSubmitReviewCommand(ctx))
	actionCmd.AddCommand(newEditorMoveCommand(ctx))

	return actionCmd
}

func receiveAction(ctx *commandContext, cmd *cobra.Command, id string, req api.ActionRequest) error {
	return ctx.withClient(func(cli *client.Client) error {
		resp, err := cli.ReceiveAction(cmd.Context(), id, req)
		if err != nil {
			return wrapClientError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Manuscript %s is now %s\n", shortID(resp.ID), resp.State)
		return nil
	})
}

func newActionApplyCommand(ctx *commandContext) *cobra.Command {
	var userEmail string
	var referee string
	var report string
	var verdict string
	var target string

	cmd := &cobra.Command{
		Use:   "apply <manuscriptID> <action>",
		Short: "Apply a workflow action by code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return receiveAction(ctx, cmd, args[0], api.ActionRequest{
				Action:      args[1],
				ActorEmail:  userEmail,
				Referee:     referee,
				Report:      report,
				Verdict:     verdict,
				TargetState: target,
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Acting person's email")
	cmd.Flags().StringVar(&referee, "referee", "", "Referee email for assign/remove actions")
	cmd.Flags().StringVar(&report, "report", "", "Review report text")
	cmd.Flags().StringVar(&verdict, "verdict", "", "Review verdict action code")
	cmd.Flags().StringVar(&target, "target", "", "Target state for editor moves")
	return cmd
}

func newAssignRefereeCommand(ctx *commandContext) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "assign-referee <manuscriptID> <refereeEmail>",
		Short: "Assign a referee to a manuscript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return receiveAction(ctx, cmd, args[0], api.ActionRequest{
				Action:     "assign-referee",
				ActorEmail: userEmail,
				Referee:    args[1],
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Acting editor's email")
	return cmd
}

func newRemoveRefereeCommand(ctx *commandContext) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "remove-referee <manuscriptID> <refereeEmail>",
		Short: "Remove a referee from a manuscript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return receiveAction(ctx, cmd, args[0], api.ActionRequest{
				Action:     "remove-referee",
				ActorEmail: userEmail,
				Referee:    args[1],
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Acting editor's email")
	return cmd
}

func newSubmitReviewCommand(ctx *commandContext) *cobra.Command {
	var userEmail string
	var report string
	var verdict string

	cmd := &cobra.Command{
		Use:   "submit-review <manuscriptID>",
		Short: "File a referee review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(verdict) == "" {
				return fmt.Errorf("--verdict is required")
			}
			return receiveAction(ctx, cmd, args[0], api.ActionRequest{
				Action:     "submit-review",
				ActorEmail: userEmail,
				Report:     report,
				Verdict:    verdict,
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Acting referee's email")
	cmd.Flags().StringVar(&report, "report", "", "Review report text")
	cmd.Flags().StringVar(&verdict, "verdict", "", "Verdict action code (accept, accept-with-revisions, reject)")
	return cmd
}

func newEditorMoveCommand(ctx *commandContext) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "move <manuscriptID> <targetState>",
		Short: "Move a manuscript to an arbitrary state (editors only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return receiveAction(ctx, cmd, args[0], api.ActionRequest{
				Action:      "editor-move",
				ActorEmail:  userEmail,
				TargetState: args[1],
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Acting editor's email")
	return cmd
}
