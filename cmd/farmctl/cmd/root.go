// Package cmd implements the farmctl CLI. The session (token plus cached
// profile) persists under the user config directory, so a login survives
// across invocations until the token expires.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/farmcare/farmcare/client"
	"github.com/farmcare/farmcare/session"
)

var (
	serverURL string

	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "farmctl",
	Short: "farmctl is a CLI tool to interact with a FarmCare server",
	Long:  `A command-line interface for FarmCare: login, profile management, weather reports and the admin content workflows.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := session.DefaultStoreDir()
		if err != nil {
			return err
		}
		store, err := session.NewFileStore(dir)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		apiClient = client.New(serverURL, session.NewManager(store))
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "FarmCare server base URL")
}

// requireLogin enforces the authenticated guard for a command.
func requireLogin() error {
	if session.AuthGuard(apiClient.Session().State()) != session.Allow {
		return errors.New("not logged in. Run 'farmctl login' first")
	}
	return nil
}

// requireAdmin enforces the admin guard for a command. A valid non-admin
// session gets a different message than a missing one.
func requireAdmin() error {
	switch session.AdminGuard(apiClient.Session().State()) {
	case session.RedirectLogin:
		return errors.New("not logged in. Run 'farmctl login --admin' first")
	case session.RedirectLanding:
		return errors.New("this command needs an admin account")
	default:
		return nil
	}
}
