package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmcare/farmcare/api"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Fetch the profile from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		user, err := apiClient.GetProfile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Name:   %s\n", user.FullName)
		fmt.Printf("Email:  %s\n", user.Email)
		fmt.Printf("Mobile: %s\n", user.Mobile)
		if user.State != "" {
			fmt.Printf("State:  %s", user.State)
			if user.Region != "" {
				fmt.Printf(" (%s)", user.Region)
			}
			fmt.Println()
		}
		return nil
	},
}

var (
	setFullName string
	setEmail    string
	setState    string
	setRegion   string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		var req api.UpdateProfileRequest
		if cmd.Flags().Changed("name") {
			req.FullName = &setFullName
		}
		if cmd.Flags().Changed("email") {
			req.Email = &setEmail
		}
		if cmd.Flags().Changed("state") {
			req.State = &setState
		}
		if cmd.Flags().Changed("region") {
			req.Region = &setRegion
		}
		if req == (api.UpdateProfileRequest{}) {
			return fmt.Errorf("nothing to update, pass at least one of --name, --email, --state, --region")
		}

		user, err := apiClient.UpdateProfile(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated for %s.\n", user.FullName)
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&setFullName, "name", "", "full name")
	profileSetCmd.Flags().StringVar(&setEmail, "email", "", "email address")
	profileSetCmd.Flags().StringVar(&setState, "state", "", "state")
	profileSetCmd.Flags().StringVar(&setRegion, "region", "", "region")
	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
