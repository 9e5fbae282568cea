package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginAsAdmin bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the FarmCare server and save the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if apiClient.Session().State().IsAuthenticated {
			fmt.Print("Already logged in. Re-login? (yes/no): ")
			reader := bufio.NewReader(os.Stdin)
			confirm, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(confirm)) != "yes" {
				fmt.Println("Login cancelled.")
				return nil
			}
		}

		fmt.Print("Email or mobile: ")
		reader := bufio.NewReader(os.Stdin)
		loginID, _ := reader.ReadString('\n')
		loginID = strings.TrimSpace(loginID)

		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		ctx := cmd.Context()
		var name string
		if loginAsAdmin {
			user, loginErr := apiClient.AdminLogin(ctx, loginID, string(bytePassword))
			if loginErr != nil {
				return fmt.Errorf("login failed: %w", loginErr)
			}
			name = user.FullName
		} else {
			user, loginErr := apiClient.Login(ctx, loginID, string(bytePassword))
			if loginErr != nil {
				return fmt.Errorf("login failed: %w", loginErr)
			}
			name = user.FullName
		}

		fmt.Printf("Logged in as %s.\n", name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiClient.Logout(cmd.Context())
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		st := apiClient.Session().State()
		if st.User == nil {
			// Possible when the cached profile was corrupt; the session
			// itself is still valid.
			fmt.Println("Logged in (no cached profile). Run 'farmctl profile show' to refresh.")
			return nil
		}
		fmt.Printf("Name:  %s\n", st.User.FullName)
		fmt.Printf("Email: %s\n", st.User.Email)
		if st.IsAdmin {
			fmt.Println("Role:  admin")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginAsAdmin, "admin", false, "log in with an admin account")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
