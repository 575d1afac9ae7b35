// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/toeirei/usercrud/internal/db"
	"github.com/toeirei/usercrud/internal/i18n"
	"github.com/toeirei/usercrud/internal/model"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// newUserCmd builds the 'user' command group for one-shot operations.
func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users without the interactive menu (create, get, list, update, delete, count)",
	}
	cmd.AddCommand(
		newUserCreateCmd(),
		newUserGetCmd(),
		newUserListCmd(),
		newUserUpdateCmd(),
		newUserDeleteCmd(),
		newUserCountCmd(),
	)
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.New(i18n.T("cli.invalid_id", arg))
	}
	return id, nil
}

func newUserCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Example: `  usercrud user create --name "Ana" --email ana@example.com --age 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			nu := model.NewUser{Name: name, Email: email}
			if cmd.Flags().Changed("age") {
				age, _ := cmd.Flags().GetInt("age")
				nu.Age = &age
			}
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				id, err := store.Create(ctx, nu)
				if err != nil {
					return fmt.Errorf("%s: %w", i18n.T("create.failed"), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.created", id))
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "User name (required)")
	cmd.Flags().String("email", "", "Email address (required, unique)")
	cmd.Flags().Int("age", 0, "Age (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				u, err := store.Get(ctx, id)
				if err != nil {
					return err
				}
				if u == nil {
					return errors.New(i18n.T("cli.not_found", id))
				}
				return writeUsers(cmd.OutOrStdout(), format, []model.User{*u})
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

func newUserListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				users, err := store.List(ctx)
				if err != nil {
					return err
				}
				if len(users) == 0 && format == formatTable {
					fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.no_users"))
					return nil
				}
				return writeUsers(cmd.OutOrStdout(), format, users)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

func newUserUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the supplied fields of a user",
		Example: `  usercrud user update 3 --email new@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch model.UserPatch
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				patch.Name = &v
			}
			if cmd.Flags().Changed("email") {
				v, _ := cmd.Flags().GetString("email")
				patch.Email = &v
			}
			if cmd.Flags().Changed("age") {
				v, _ := cmd.Flags().GetInt("age")
				patch.Age = &v
			}
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				changed, err := store.Update(ctx, id, patch)
				switch {
				case errors.Is(err, db.ErrNotFound):
					return errors.New(i18n.T("cli.not_found", id))
				case errors.Is(err, db.ErrDuplicate):
					return fmt.Errorf("%s: %w", i18n.T("update.duplicate"), err)
				case err != nil:
					return fmt.Errorf("%s: %w", i18n.T("update.failed"), err)
				case !changed:
					fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.no_changes", id))
				default:
					fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.updated", id))
				}
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().Int("age", 0, "New age")
	return cmd
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				_, err := store.Delete(ctx, id)
				if errors.Is(err, db.ErrNotFound) {
					return errors.New(i18n.T("cli.not_found", id))
				}
				if err != nil {
					return fmt.Errorf("%s: %w", i18n.T("delete.failed"), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.deleted", id))
				return nil
			})
		},
	}
}

func newUserCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store db.Store) error {
				n, err := store.Count(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.count", n))
				return nil
			})
		},
	}
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table, yaml or json")
}

// writeUsers renders users in the requested format.
func writeUsers(w io.Writer, format string, users []model.User) error {
	switch format {
	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tAGE")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.AgeString())
		}
		return tw.Flush()
	case formatYAML:
		data, err := yaml.Marshal(users)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	default:
		return errors.New(i18n.T("cli.unknown_format", format))
	}
}
