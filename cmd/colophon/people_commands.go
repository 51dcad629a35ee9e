package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"colophon/internal/api"
	"colophon/internal/client"
)

func newPeopleCommand(ctx *commandContext) *cobra.Command {
	peopleCmd := &cobra.Command{
		Use:   "people",
		Short: "Manage the person directory",
	}

	peopleCmd.AddCommand(newPeopleListCommand(ctx))
	peopleCmd.AddCommand(newPeopleAddCommand(ctx))

	return peopleCmd
}

func newPeopleListCommand(ctx *commandContext) *cobra.Command {
	var nameFilter string
	var roleFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List directory entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				entries, err := cli.People(cmd.Context(), nameFilter, roleFilter)
				if err != nil {
					return wrapClientError(err)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No people found")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, p := range entries {
					rows = append(rows, []string{p.Name, p.Email, strings.Join(p.Roles, ", "), p.Affiliation})
				}
				table := renderTable(
					[]string{"Name", "Email", "Roles", "Affiliation"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&nameFilter, "name", "n", "", "Filter by name substring")
	cmd.Flags().StringVarP(&roleFilter, "role", "r", "", "Filter by role code")
	return cmd
}

func newPeopleAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var email string
	var roleCodes []string
	var affiliation string
	var position string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a directory entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				person, err := cli.AddPerson(cmd.Context(), api.PersonRequest{
					Name:        name,
					Email:       email,
					Roles:       roleCodes,
					Affiliation: affiliation,
					Position:    position,
				})
				if err != nil {
					return wrapClientError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s <%s> (%s)\n", person.Name, person.Email, person.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Person's name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Person's email")
	cmd.Flags().StringSliceVarP(&roleCodes, "role", "r", nil, "Role code (repeatable)")
	cmd.Flags().StringVar(&affiliation, "affiliation", "", "Institutional affiliation")
	cmd.Flags().StringVar(&position, "position", "", "Masthead position title")
	return cmd
}

func newMastheadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "masthead",
		Short: "Show the journal masthead",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				sections, err := cli.Masthead(cmd.Context())
				if err != nil {
					return wrapClientError(err)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, section := range sections {
					if len(section.Members) == 0 {
						continue
					}
					fmt.Fprintln(out, renderSectionHeader(section.Label, colorize))
					for _, member := range section.Members {
						line := "  " + member.Name
						if member.Affiliation != "" {
							line += ", " + member.Affiliation
						}
						fmt.Fprintln(out, line)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
}
