package bootstrap

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uninotice/platform/platform/go/persistence"
)

// Command groups bootstrap helpers (schema init, future seed steps).
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap platform resources",
	}

	cmd.AddCommand(schemaCommand())
	return cmd
}

func schemaCommand() *cobra.Command {
	var databaseURL string

	c := &cobra.Command{
		Use:   "schema",
		Short: "Apply the core platform schema DDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.ApplyCoreSchemaDDL(ctx, pool); err != nil {
				return fmt.Errorf("apply core schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Core schema applied.")
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	_ = c.MarkFlagRequired("database-url")

	return c
}
