// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/usercrud/internal/config"
	"github.com/toeirei/usercrud/internal/i18n"
)

// newConfigCmd builds the 'config' command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	writeCmd := &cobra.Command{
		Use:   "write",
		Short: "Write the effective configuration to usercrud.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			system, _ := cmd.Flags().GetBool("system")
			path, err := config.WriteConfigFile(&appConfig, system)
			if err != nil {
				return errors.New(i18n.T("config.error_write", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("config.written", path))
			return nil
		},
	}
	writeCmd.Flags().Bool("system", false, "Write the system-wide file instead of the user file")

	cmd.AddCommand(writeCmd)
	return cmd
}
