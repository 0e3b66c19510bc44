package users

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/uninotice/platform/apps/cli/internal/clistate"
	identityservice "github.com/uninotice/platform/domains/identity/be/service"
	platformlogging "github.com/uninotice/platform/platform/go/logging"
	"github.com/uninotice/platform/platform/go/password"
	"github.com/uninotice/platform/platform/go/persistence"
	"go.uber.org/zap"
)

// Command groups tenant end-user helpers. Platform-operator only.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Tenant end-user utilities (platform operators only)",
	}

	cmd.AddCommand(seedCommand())
	cmd.AddCommand(setStatusCommand())
	return cmd
}

func seedCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
		tenantID    string
		email       string
		pass        string
		firstName   string
		lastName    string
		studentID   string
		department  string
		yearLevel   string
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Create a tenant end-user with a hashed password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tid, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("parse tenant id: %w", err)
			}

			sessions, err := clistate.SessionStore(stateDir)
			if err != nil {
				return err
			}
			if _, err := clistate.RequireDomain(sessions, identityservice.DomainPlatformOperator); err != nil {
				return err
			}

			hash, err := password.Hash(pass)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
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

			store, err := persistence.NewTenantUserStore(pool)
			if err != nil {
				return fmt.Errorf("init tenant user store: %w", err)
			}

			user, err := store.Create(ctx, persistence.TenantUserRecord{
				ID:           uuid.New(),
				TenantID:     tid,
				Email:        email,
				FirstName:    firstName,
				LastName:     lastName,
				StudentID:    strPtrOrNil(studentID),
				Department:   strPtrOrNil(department),
				YearLevel:    strPtrOrNil(yearLevel),
				Status:       persistence.UserStatusActive,
				PasswordHash: hash,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			logger.Info("tenant user seeded", zap.String("user_id", user.ID.String()), zap.String("tenant_id", tid.String()))
			fmt.Fprintf(cmd.OutOrStdout(), "User created: %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	c.Flags().StringVar(&tenantID, "tenant-id", "", "Owning tenant UUID")
	c.Flags().StringVar(&email, "email", "", "User email")
	c.Flags().StringVar(&pass, "password", "", "Initial password (stored as argon2id hash)")
	c.Flags().StringVar(&firstName, "first-name", "", "First name")
	c.Flags().StringVar(&lastName, "last-name", "", "Last name")
	c.Flags().StringVar(&studentID, "student-id", "", "Student id")
	c.Flags().StringVar(&department, "department", "", "Department")
	c.Flags().StringVar(&yearLevel, "year-level", "", "Year level")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("tenant-id")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	_ = c.MarkFlagRequired("first-name")
	_ = c.MarkFlagRequired("last-name")

	return c
}

func setStatusCommand() *cobra.Command {
	var (
		databaseURL string
		stateDir    string
		userID      string
		status      string
	)

	c := &cobra.Command{
		Use:   "set-status",
		Short: "Set a tenant user's status (active, inactive, suspended)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("parse user id: %w", err)
			}
			switch status {
			case persistence.UserStatusActive, persistence.UserStatusInactive, persistence.UserStatusSuspended:
			default:
				return fmt.Errorf("unknown status %q", status)
			}

			sessions, err := clistate.SessionStore(stateDir)
			if err != nil {
				return err
			}
			if _, err := clistate.RequireDomain(sessions, identityservice.DomainPlatformOperator); err != nil {
				return err
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			store, err := persistence.NewTenantUserStore(pool)
			if err != nil {
				return fmt.Errorf("init tenant user store: %w", err)
			}

			user, err := store.UpdateStatus(ctx, uid, status)
			if err != nil {
				return fmt.Errorf("update status: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %s is now %s\n", user.Email, user.Status)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	c.Flags().StringVar(&userID, "user-id", "", "Tenant user UUID")
	c.Flags().StringVar(&status, "status", "", "New status")

	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("user-id")
	_ = c.MarkFlagRequired("status")

	return c
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
