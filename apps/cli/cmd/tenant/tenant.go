package tenant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/uninotice/platform/apps/cli/internal/clistate"
	identityservice "github.com/uninotice/platform/domains/identity/be/service"
	tenantsrepo "github.com/uninotice/platform/domains/tenants/be/repo"
	tenantsservice "github.com/uninotice/platform/domains/tenants/be/service"
	platformlogging "github.com/uninotice/platform/platform/go/logging"
	"github.com/uninotice/platform/platform/go/persistence"
)

// Command groups tenant provisioning and stats helpers. All subcommands are
// platform-operator only.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Tenant provisioning and platform stats (platform operators only)",
	}

	cmd.AddCommand(createCommand())
	cmd.AddCommand(listCommand())
	cmd.AddCommand(updateCommand())
	cmd.AddCommand(deleteCommand())
	cmd.AddCommand(statsCommand())
	cmd.AddCommand(activityCommand())
	return cmd
}

// withService runs fn with a wired tenants service after the route guard has
// admitted the current session.
func withService(cmd *cobra.Command, databaseURL, stateDir string, fn func(ctx context.Context, svc *tenantsservice.Service) error) error {
	ctx := cmd.Context()

	sessions, err := clistate.SessionStore(stateDir)
	if err != nil {
		return err
	}
	if _, err := clistate.RequireDomain(sessions, identityservice.DomainPlatformOperator); err != nil {
		return err
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{Component: "cli", Level: "warn"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
	if err != nil {
		return fmt.Errorf("init pool: %w", err)
	}
	defer persistence.ClosePool(pool)

	tenantStore, err := persistence.NewTenantStore(pool)
	if err != nil {
		return fmt.Errorf("init tenant store: %w", err)
	}
	adminStore, err := persistence.NewAdminStore(pool)
	if err != nil {
		return fmt.Errorf("init admin store: %w", err)
	}
	userStore, err := persistence.NewTenantUserStore(pool)
	if err != nil {
		return fmt.Errorf("init tenant user store: %w", err)
	}
	announcementStore, err := persistence.NewAnnouncementStore(pool)
	if err != nil {
		return fmt.Errorf("init announcement store: %w", err)
	}

	repo := tenantsrepo.NewPostgresRepository(tenantStore, adminStore, userStore, announcementStore)
	return fn(ctx, tenantsservice.New(repo, logger))
}

func createCommand() *cobra.Command {
	var (
		databaseURL   string
		stateDir      string
		name          string
		domain        string
		adminEmail    string
		adminPassword string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Provision a tenant with its administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, databaseURL, stateDir, func(ctx context.Context, svc *tenantsservice.Service) error {
				tenant, err := svc.Create(ctx, tenantsservice.CreateInput{
					Name:          name,
					Domain:        domain,
					AdminEmail:    adminEmail,
					AdminPassword: adminPassword,
				})
				if err != nil {
					return fmt.Errorf("create tenant: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Tenant created: %s (%s)\n", tenant.Name, tenant.ID)
				return nil
			})
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	c.Flags().StringVar(&name, "name", "", "Tenant display name")
	c.Flags().StringVar(&domain, "domain", "", "Tenant email domain, e.g. acme.edu")
	c.Flags().StringVar(&adminEmail, "admin-email", "", "Tenant administrator email")
	c.Flags().StringVar(&adminPassword, "admin-password", "", "Initial administrator password")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("domain")
	_ = c.MarkFlagRequired("admin-email")

	return c
}

func listCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List tenants with announcement counts and admin emails",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, databaseURL, stateDir, func(ctx context.Context, svc *tenantsservice.Service) error {
				rows, err := svc.ListWithStats(ctx)
				if err != nil {
					return fmt.Errorf("list tenants: %w", err)
				}

				for _, row := range rows {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tannouncements=%d\tadmin=%s\n",
						row.ID, row.Name, row.Domain, row.AnnouncementsCount, row.AdminEmail)
				}
				return nil
			})
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	_ = c.MarkFlagRequired("database-url")

	return c
}

func updateCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
		tenantID    string
		name        string
		domain      string
		adminEmail  string
	)

	c := &cobra.Command{
		Use:   "update",
		Short: "Update a tenant and its administrator email",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("parse tenant id: %w", err)
			}

			return withService(cmd, databaseURL, stateDir, func(ctx context.Context, svc *tenantsservice.Service) error {
				tenant, err := svc.Update(ctx, id, tenantsservice.UpdateInput{
					Name:       name,
					Domain:     domain,
					AdminEmail: adminEmail,
				})
				if err != nil {
					return fmt.Errorf("update tenant: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Tenant updated: %s (%s)\n", tenant.Name, tenant.ID)
				return nil
			})
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant UUID")
	c.Flags().StringVar(&name, "name", "", "New tenant display name")
	c.Flags().StringVar(&domain, "domain", "", "New tenant email domain")
	c.Flags().StringVar(&adminEmail, "admin-email", "", "New administrator email")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("tenant-id")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("domain")
	_ = c.MarkFlagRequired("admin-email")

	return c
}

func deleteCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
		tenantID    string
	)

	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete a tenant and everything scoped to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("parse tenant id: %w", err)
			}

			return withService(cmd, databaseURL, stateDir, func(ctx context.Context, svc *tenantsservice.Service) error {
				if err := svc.Delete(ctx, id); err != nil {
					return fmt.Errorf("delete tenant: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Tenant deleted: %s\n", id)
				return nil
			})
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant UUID")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("tenant-id")

	return c
}

func statsCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
	)

	c := &cobra.Command{
		Use:   "stats",
		Short: "Print platform-wide aggregate stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, databaseURL, stateDir, func(ctx context.Context, svc *tenantsservice.Service) error {
				stats, err := svc.PlatformStats(ctx)
				if err != nil {
					return fmt.Errorf("platform stats: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Tenants:        %d\n", stats.TenantCount)
				fmt.Fprintf(out, "Announcements:  %d\n", stats.AnnouncementCount)
				fmt.Fprintf(out, "Users:          %d\n", stats.TenantUserCount)
				fmt.Fprintf(out, "Growth:         %d%%\n", stats.GrowthPercentage)
				return nil
			})
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	_ = c.MarkFlagRequired("database-url")

	return c
}

func activityCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
	)

	c := &cobra.Command{
		Use:   "activity",
		Short: "Print the recent tenant and announcement feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, databaseURL, stateDir, func(ctx context.Context, svc *tenantsservice.Service) error {
				feed, err := svc.RecentActivity(ctx)
				if err != nil {
					return fmt.Errorf("recent activity: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Recent tenants:")
				for _, t := range feed.Tenants {
					fmt.Fprintf(out, "  %s\t%s\n", t.CreatedAt.Format("2006-01-02"), t.Name)
				}
				fmt.Fprintln(out, "Recent announcements:")
				for _, a := range feed.Announcements {
					fmt.Fprintf(out, "  %s\t%s\t%s\n", a.CreatedAt.Format("2006-01-02"), a.TenantName, a.Title)
				}
				return nil
			})
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	_ = c.MarkFlagRequired("database-url")

	return c
}
