package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uninotice/platform/apps/cli/internal/clistate"
	identityrepo "github.com/uninotice/platform/domains/identity/be/repo"
	identityservice "github.com/uninotice/platform/domains/identity/be/service"
	platformlogging "github.com/uninotice/platform/platform/go/logging"
	"github.com/uninotice/platform/platform/go/password"
	"github.com/uninotice/platform/platform/go/persistence"
)

var errDatabaseRequired = errors.New("database connection required; pass --database-url")

// offlineDirectory stands in when no database connection was configured.
// Operator sign-in never consults it; tenant-user sign-in fails with a
// pointed error instead of a misleading not-found.
type offlineDirectory struct{}

func (offlineDirectory) FindActiveUserByEmail(context.Context, string) (identityservice.DirectoryUser, error) {
	return identityservice.DirectoryUser{}, errDatabaseRequired
}

func (offlineDirectory) TenantName(context.Context, string) (string, error) {
	return "", errDatabaseRequired
}

// Command groups sign-in/sign-out/session helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign-in and session utilities",
	}

	cmd.AddCommand(loginCommand())
	cmd.AddCommand(logoutCommand())
	cmd.AddCommand(whoamiCommand())
	cmd.AddCommand(hashPasswordCommand())
	return cmd
}

func hashPasswordCommand() *cobra.Command {
	var pass string

	c := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the argon2id hash of a password, for the operator credential file",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := password.Hash(pass)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	c.Flags().StringVar(&pass, "password", "", "Password to hash")
	_ = c.MarkFlagRequired("password")

	return c
}

func loginCommand() *cobra.Command {
	var (
		email         string
		password      string
		domain        string
		operatorsFile string
		databaseURL   string
		stateDir      string
	)

	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a platform operator or tenant user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d := identityservice.Domain(domain)
			if !d.Valid() {
				return fmt.Errorf("unknown domain %q (want %s or %s)",
					domain, identityservice.DomainPlatformOperator, identityservice.DomainTenantUser)
			}

			sessions, err := clistate.SessionStore(stateDir)
			if err != nil {
				return err
			}

			operators, err := loadOperators(operatorsFile, d)
			if err != nil {
				return err
			}

			logger, err := platformlogging.NewLogger(platformlogging.Config{Component: "cli", Level: "warn"})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			var (
				directory identityservice.Directory = offlineDirectory{}
				opts      []identityservice.Option
			)
			if databaseURL != "" {
				pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
				if err != nil {
					return fmt.Errorf("init pool: %w", err)
				}
				defer persistence.ClosePool(pool)

				userStore, err := persistence.NewTenantUserStore(pool)
				if err != nil {
					return fmt.Errorf("init tenant user store: %w", err)
				}
				tenantStore, err := persistence.NewTenantStore(pool)
				if err != nil {
					return fmt.Errorf("init tenant store: %w", err)
				}
				pgDirectory := identityrepo.NewPostgresDirectory(userStore, tenantStore)
				directory = pgDirectory
				opts = append(opts, identityservice.WithRevoker(pgDirectory))
			} else if d == identityservice.DomainTenantUser {
				return errDatabaseRequired
			}

			resolver := identityservice.NewResolver(operators, directory)
			manager := identityservice.NewManager(resolver, sessions, logger, opts...)

			session, err := manager.SignIn(ctx, email, password, d)
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", session.Email, session.Domain)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "Login email")
	c.Flags().StringVar(&password, "password", "", "Login password")
	c.Flags().StringVar(&domain, "domain", string(identityservice.DomainPlatformOperator), "Identity domain (platform_operator or tenant_user)")
	c.Flags().StringVar(&operatorsFile, "operators-file", "", "Path to the operator credential JSON file")
	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (required for tenant_user sign-in)")
	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")

	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")

	return c
}

func logoutCommand() *cobra.Command {
	var stateDir string

	c := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := clistate.SessionStore(stateDir)
			if err != nil {
				return err
			}

			logger, err := platformlogging.NewLogger(platformlogging.Config{Component: "cli", Level: "warn"})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			resolver := identityservice.NewResolver(nil, offlineDirectory{})
			manager := identityservice.NewManager(resolver, sessions, logger)
			manager.SignOut(cmd.Context())

			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	return c
}

func whoamiCommand() *cobra.Command {
	var stateDir string

	c := &cobra.Command{
		Use:   "whoami",
		Short: "Print the current session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := clistate.SessionStore(stateDir)
			if err != nil {
				return err
			}

			session, ok := sessions.Get()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", session.Email, session.Domain)
			if name := session.Profile["university_name"]; name != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "University: %s\n", name)
			}
			return nil
		},
	}

	c.Flags().StringVar(&stateDir, "state-dir", "", "Directory for durable session state")
	return c
}

func loadOperators(path string, domain identityservice.Domain) ([]identityservice.OperatorCredential, error) {
	if path == "" {
		defaultPath, err := clistate.DefaultOperatorsPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	operators, err := identityservice.LoadOperatorCredentials(path)
	if err != nil {
		// The file is only mandatory for operator sign-in.
		if domain == identityservice.DomainPlatformOperator {
			return nil, err
		}
		return nil, nil
	}
	return operators, nil
}
