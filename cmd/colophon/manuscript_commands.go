package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"colophon/internal/api"
	"colophon/internal/client"
	"colophon/internal/submissions"
)

func newManuscriptsCommand(ctx *commandContext) *cobra.Command {
	manuscriptsCmd := &cobra.Command{
		Use:   "manuscripts",
		Short: "Inspect manuscripts in the review pipeline",
	}

	manuscriptsCmd.AddCommand(newManuscriptsListCommand(ctx))
	manuscriptsCmd.AddCommand(newManuscriptsShowCommand(ctx))
	manuscriptsCmd.AddCommand(newManuscriptsActionsCommand(ctx))
	manuscriptsCmd.AddCommand(newManuscriptsSimilarCommand(ctx))

	return manuscriptsCmd
}

func newManuscriptsSimilarCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "similar <manuscriptID>",
		Short: "List manuscripts resembling this one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				views, err := cli.SimilarManuscripts(cmd.Context(), args[0])
				if err != nil {
					return wrapClientError(err)
				}
				if len(views) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No similar manuscripts")
					return nil
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{shortID(v.ID), v.Title, v.StateLabel})
				}
				table := renderTable([]string{"ID", "Title", "State"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newManuscriptsListCommand(ctx *commandContext) *cobra.Command {
	var userEmail string
	var stateCode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List manuscripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userEmail != "" && stateCode != "" {
				return fmt.Errorf("specify only one of --user or --state")
			}
			return ctx.withClient(func(cli *client.Client) error {
				var views []api.ManuscriptView
				var err error
				if stateCode != "" {
					views, err = cli.ManuscriptsByState(cmd.Context(), stateCode)
				} else {
					views, err = cli.Manuscripts(cmd.Context(), userEmail)
				}
				if err != nil {
					return wrapClientError(err)
				}
				if len(views) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No manuscripts")
					return nil
				}
				headers := []string{"ID", "Title", "State", "Authors", "Updated"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
				if userEmail != "" {
					headers = append(headers, "Actions")
					aligns = append(aligns, alignLeft)
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					row := []string{
						shortID(v.ID),
						v.Title,
						v.StateLabel,
						formatAuthors(v.Authors),
						v.LastUpdated.Local().Format("2006-01-02 15:04"),
					}
					if userEmail != "" {
						row = append(row, strings.Join(v.Actions, ", "))
					}
					rows = append(rows, row)
				}
				table := renderTable(headers, rows, aligns)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Show the feed for this person, with their available actions")
	cmd.Flags().StringVarP(&stateCode, "state", "s", "", "Filter by workflow state code")
	return cmd
}

func newManuscriptsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <manuscriptID>",
		Short: "Show one manuscript, its referees and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				view, err := cli.Manuscript(cmd.Context(), args[0])
				if err != nil {
					return wrapClientError(err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Title:     %s\n", view.Title)
				fmt.Fprintf(out, "ID:        %s\n", view.ID)
				fmt.Fprintf(out, "State:     %s\n", view.StateLabel)
				fmt.Fprintf(out, "Authors:   %s\n", formatAuthors(view.Authors))
				if view.WordCount > 0 {
					fmt.Fprintf(out, "Words:     %d\n", view.WordCount)
				}
				if view.Abstract != "" {
					fmt.Fprintf(out, "Abstract:  %s\n", view.Abstract)
				}
				if len(view.Referees) > 0 {
					fmt.Fprintln(out)
					rows := make([][]string, 0, len(view.Referees))
					for _, ref := range view.Referees {
						rows = append(rows, []string{ref.Email, ref.Verdict, ref.Report})
					}
					table := renderTable([]string{"Referee", "Verdict", "Report"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft})
					fmt.Fprintln(out, table)
				}
				if len(view.History) > 0 {
					fmt.Fprintln(out)
					rows := make([][]string, 0, len(view.History))
					for _, h := range view.History {
						rows = append(rows, []string{
							fmt.Sprintf("%d", h.Seq),
							h.Timestamp.Local().Format("2006-01-02 15:04"),
							h.Action,
							h.NewState,
							h.Referee,
						})
					}
					table := renderTable(
						[]string{"Seq", "When", "Action", "State", "Referee"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
					)
					fmt.Fprintln(out, table)
				}
				return nil
			})
		},
	}
}

func newManuscriptsActionsCommand(ctx *commandContext) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "actions <manuscriptID>",
		Short: "List the actions a person may take on a manuscript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userEmail) == "" {
				return fmt.Errorf("--user is required")
			}
			return ctx.withClient(func(cli *client.Client) error {
				actions, err := cli.AvailableActions(cmd.Context(), args[0], userEmail)
				if err != nil {
					return wrapClientError(err)
				}
				if len(actions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No actions available")
					return nil
				}
				for _, action := range actions {
					fmt.Fprintln(cmd.OutOrStdout(), action)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "Acting person's email")
	return cmd
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var title string
	var abstract string
	var wordCount int
	var authors []string
	var filePath string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new manuscript",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseAuthors(authors)
			if err != nil {
				return err
			}
			if title == "" && filePath != "" {
				title = submissions.InferTitle(filePath)
			}
			return ctx.withClient(func(cli *client.Client) error {
				view, err := cli.Submit(cmd.Context(), api.CreateManuscriptRequest{
					Title:     title,
					Abstract:  abstract,
					WordCount: wordCount,
					Authors:   parsed,
				})
				if err != nil {
					return wrapClientError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s (%s)\n", view.Title, view.ID)
				if filePath != "" {
					if err := cli.UploadFile(cmd.Context(), view.ID, filePath); err != nil {
						return wrapClientError(err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", filePath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Manuscript title (inferred from --file when omitted)")
	cmd.Flags().StringVar(&abstract, "abstract", "", "Manuscript abstract")
	cmd.Flags().IntVar(&wordCount, "words", 0, "Word count")
	cmd.Flags().StringSliceVarP(&authors, "author", "a", nil, "Author as \"Name <email>\" (repeatable)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Document file to attach after submission")
	return cmd
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <manuscriptID> <file>",
		Short: "Attach a document file to a manuscript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cli *client.Client) error {
				if err := cli.UploadFile(cmd.Context(), args[0], args[1]); err != nil {
					return wrapClientError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", args[1])
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatAuthors(authors []api.AuthorView) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// parseAuthors accepts "Name <email>" entries, or a bare email.
func parseAuthors(entries []string) ([]api.AuthorView, error) {
	out := make([]api.AuthorView, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		open := strings.LastIndex(entry, "<")
		end := strings.LastIndex(entry, ">")
		if open >= 0 && end > open {
			out = append(out, api.AuthorView{
				Name:  strings.TrimSpace(entry[:open]),
				Email: strings.TrimSpace(entry[open+1 : end]),
			})
			continue
		}
		if strings.Contains(entry, "@") {
			out = append(out, api.AuthorView{Email: entry})
			continue
		}
		return nil, fmt.Errorf("invalid author %q; use \"Name <email>\"", entry)
	}
	return out, nil
}
