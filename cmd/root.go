package cmd

import "github.com/spf13/cobra"

// NewRootCmd returns the aws-recipes command with every recipe registered.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aws-recipes",
		Short:         "AWS IAM administration recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewCreateIAMPolicyCmd())

	return rootCmd
}
