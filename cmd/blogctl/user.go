package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/handler/http/pathutil"
	"blog-admin/internal/pkg/search"
	userUC "blog-admin/internal/usecase/user"
)

func newUserCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Manage article authors",
	}
	cmd.AddCommand(newUserCreateCmd(c), newUserListCmd(c), newUserDeleteCmd(c))
	return cmd
}

// withUsers opens storage and runs fn with a user service.
func (c *cli) withUsers(cmd *cobra.Command, fn func(svc *userUC.Service) error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	s, err := c.openStores(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			c.logger.Warn("failed to close database", "error", err)
		}
	}()
	return fn(&userUC.Service{Repo: s.Users, Articles: s.Articles})
}

func newUserCreateCmd(c *cli) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withUsers(cmd, func(svc *userUC.Service) error {
				u, err := svc.Create(cmd.Context(), userUC.CreateInput{Username: username, Email: email})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", u.ID, u.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "unique username (required)")
	cmd.Flags().StringVar(&email, "email", "", "contact address")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newUserListCmd(c *cli) *cobra.Command {
	var (
		query       string
		page, limit int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users ordered by username",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keywords, err := search.ParseKeywords(query, search.DefaultMaxKeywordCount, search.DefaultMaxKeywordLength)
			if err != nil {
				return err
			}
			params := pagination.Params{Page: page, Limit: limit}.WithDefaults(pagination.DefaultConfig())

			return c.withUsers(cmd, func(svc *userUC.Service) error {
				res, err := svc.List(cmd.Context(), userUC.ListInput{Keywords: keywords, Params: params})
				if err != nil {
					return err
				}
				if len(res.Data) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No users.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tJOINED")
				for _, u := range res.Data {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.DateJoined.UTC().Format(time.DateOnly))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				m := res.Pagination
				fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d users)\n", m.Page, m.TotalPages, m.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "filter by username or email")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "users per page")
	return cmd
}

func newUserDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user and every article it authored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := pathutil.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withUsers(cmd, func(svc *userUC.Service) error {
				res, err := svc.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d and %d article(s)\n", id, res.ArticlesDeleted)
				return nil
			})
		},
	}
}
