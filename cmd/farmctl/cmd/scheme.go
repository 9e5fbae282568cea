package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmcare/farmcare/domain"
)

var schemeCmd = &cobra.Command{
	Use:   "scheme",
	Short: "Browse and manage government schemes",
}

var schemeState string

var schemeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schemes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		schemes, err := apiClient.ListSchemes(cmd.Context(), schemeState)
		if err != nil {
			return err
		}
		if len(schemes) == 0 {
			fmt.Println("No schemes found.")
			return nil
		}
		for _, s := range schemes {
			fmt.Printf("%s  %s", s.ID, s.Name)
			if s.State != "" {
				fmt.Printf("  (%s)", s.State)
			}
			fmt.Println()
		}
		return nil
	},
}

var (
	addName        string
	addDescription string
	addEligibility string
	addBenefits    string
	addState       string
)

var schemeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scheme (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}

		created, err := apiClient.CreateScheme(cmd.Context(), &domain.Scheme{
			Name:        addName,
			Description: addDescription,
			Eligibility: addEligibility,
			Benefits:    addBenefits,
			State:       addState,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Scheme created: %s\n", created.ID)
		return nil
	},
}

func init() {
	schemeListCmd.Flags().StringVar(&schemeState, "state", "", "filter by state")

	schemeAddCmd.Flags().StringVar(&addName, "name", "", "scheme name")
	schemeAddCmd.Flags().StringVar(&addDescription, "description", "", "scheme description")
	schemeAddCmd.Flags().StringVar(&addEligibility, "eligibility", "", "eligibility criteria")
	schemeAddCmd.Flags().StringVar(&addBenefits, "benefits", "", "benefits")
	schemeAddCmd.Flags().StringVar(&addState, "state", "", "state the scheme applies to")
	_ = schemeAddCmd.MarkFlagRequired("name")
	_ = schemeAddCmd.MarkFlagRequired("description")

	schemeCmd.AddCommand(schemeListCmd, schemeAddCmd)
	rootCmd.AddCommand(schemeCmd)
}
