package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the UniNotice admin CLI. Subcommands (auth,
// tenant, users, bootstrap) are attached here.
var rootCmd = &cobra.Command{
	Use:           "uninotice",
	Short:         "UniNotice platform admin CLI",
	Long:          "Administrative utilities for the UniNotice platform (sign-in, tenant provisioning, user seeding, schema bootstrap).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
