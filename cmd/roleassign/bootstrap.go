package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daap14/roleassign/internal/config"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the initial staff user and print its API key",
	Long: `Creates the staff user named by ADMIN_EMAIL when the users table is
empty and prints its API key. The key is shown only once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store != config.StorePostgres {
			return errors.New("bootstrap requires STORE=postgres; the memory store bootstraps on serve")
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rawKey, err := a.auth.BootstrapAdmin(cmd.Context(), cfg.AdminEmail)
		if err != nil {
			return fmt.Errorf("bootstrapping admin: %w", err)
		}
		if rawKey == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "users already exist; nothing to do")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Admin API key for %s: %s\n", cfg.AdminEmail, rawKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
