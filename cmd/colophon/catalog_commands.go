package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"colophon/internal/api"
	"colophon/internal/client"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show workflow state and action catalogs",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "states",
		Short: "List workflow states",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				entries, err := cli.States(cmd.Context())
				if err != nil {
					return wrapClientError(err)
				}
				printCatalog(cmd, entries)
				return nil
			})
		},
	})

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "actions",
		Short: "List workflow actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				entries, err := cli.Actions(cmd.Context())
				if err != nil {
					return wrapClientError(err)
				}
				printCatalog(cmd, entries)
				return nil
			})
		},
	})

	return catalogCmd
}

func printCatalog(cmd *cobra.Command, entries []api.CatalogEntry) {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.Code, entry.Label})
	}
	table := renderTable([]string{"Code", "Label"}, rows, []columnAlignment{alignLeft, alignLeft})
	fmt.Fprintln(cmd.OutOrStdout(), table)
}
