package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hoa-server/cache"
	"hoa-server/confs"
	"hoa-server/db"
	"hoa-server/repositories"
	"hoa-server/server"
	"hoa-server/services"
	"hoa-server/usecases"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hoa-server",
		Short: "HOA and property management API",
	}
	serve := serveCmd()
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve, migrateCmd(), createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads the config and opens the database.
func connect() (*confs.Config, db.Database, error) {
	cfg, err := confs.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	database, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")

			cfg, database, err := connect()
			if err != nil {
				return err
			}
			if !skipMigrate {
				if err := db.Migrate(database); err != nil {
					return err
				}
			}

			srv, err := server.NewServer(cfg, database)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}
	cmd.Flags().Bool("skip-migrate", false, "do not run schema migrations on startup")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := connect()
			if err != nil {
				return err
			}
			return db.Migrate(database)
		},
	}
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the default ADMIN user if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := connect()
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			if email == "" || password == "" {
				return errors.New("admin email and password are required (flags or ADMIN_EMAIL / ADMIN_PASSWORD)")
			}

			auth := usecases.NewAuthUseCase(
				repositories.NewPgRepositories(database),
				services.NewTokenService(cfg.Auth, cache.NewMemoryRevocations()),
			)
			user, created, err := auth.EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if created {
				log.Printf("Admin user created: %s (id %d)", user.Email, user.ID)
			} else {
				log.Printf("Admin user already exists: %s (id %d)", user.Email, user.ID)
			}
			return nil
		},
	}
	cmd.Flags().String("email", "", "admin email (defaults to ADMIN_EMAIL)")
	cmd.Flags().String("password", "", "admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}
