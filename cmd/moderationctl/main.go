package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/comment-moderation-api/internal/auth"
	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/notify"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/service"
	"github.com/comment-moderation-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moderationctl",
		Short:         "Operator tooling for the comment moderation API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newSweepCmd(), newTokenCmd())
	return root
}

// connect loads configuration and opens the database
func connect() (*config.Config, *database.DB, zerolog.Logger, error) {
	log := logger.New()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, log, err
	}
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, nil, log, err
	}
	return cfg, db, log, nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the comments schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, _, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.RunMigrations(cfg.Database.MigrationsPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, _, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.MigrateDown(cfg.Database.MigrationsPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			cfg, db, _, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.MigrateToVersion(cfg.Database.MigrationsPath, uint(version))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, _, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			version, dirty, err := db.MigrationVersion(cfg.Database.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Auto-approve pending comments past the waiting period now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, log, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			services := service.NewServices(repository.New(db), service.NewModerator(cfg.Moderation, log), notify.Nop{}, cfg, log)
			approved, err := services.Sweep.RunOnce(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "approved %d comment(s)\n", approved)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage operator tokens",
	}

	var subject string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a dashboard token for an operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.OperatorRole, cfg.Auth.TokenTTL)
			token, err := verifier.Issue(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "operator identity (e.g. email)")
	issue.MarkFlagRequired("subject")

	cmd.AddCommand(issue)
	return cmd
}
