// Command adminctl runs one-off maintenance tasks against the storefront
// database: applying migrations and provisioning admin accounts.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/duynhne/storefront-service/config"
	database "github.com/duynhne/storefront-service/internal/core"
	"github.com/duynhne/storefront-service/internal/core/repository"
	"github.com/duynhne/storefront-service/internal/core/session"
	logicv1 "github.com/duynhne/storefront-service/internal/logic/v1"
	"github.com/duynhne/storefront-service/pkg/logger/zerolog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "adminctl",
		Short: "Storefront maintenance commands",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.Setup(logLevel)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.AddCommand(newMigrateCmd(), newCreateAdminCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			return database.Migrate(ctx, pool)
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  "Create an admin account with a bcrypt-hashed password. The password is prompted for when --password is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			// Account creation never signs tokens, so no codec is needed.
			auth := logicv1.NewAuthService(repository.NewAdminUserRepository(pool), nil)
			id, err := auth.CreateAdmin(ctx, username, password, role)
			if err != nil {
				if errors.Is(err, logicv1.ErrAdminExists) {
					return fmt.Errorf("username %q is taken", username)
				}
				return err
			}

			log.Info().Str("id", id).Str("username", username).Msg("Admin created")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&role, "role", session.RoleAdmin, "Role stored in issued session tokens")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return database.Connect(ctx, cfg.Database)
}
