package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"colophon/internal/client"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				status, err := cli.Status(cmd.Context())
				if err != nil {
					return wrapClientError(err)
				}
				rows := [][]string{
					{"Running", yesNo(status.Running)},
					{"PID", fmt.Sprintf("%d", status.PID)},
					{"Journal", fmt.Sprintf("%s (%s)", status.JournalName, status.JournalCode)},
					{"Database", status.DatabasePath},
					{"Lock file", status.LockFilePath},
				}
				table := renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
