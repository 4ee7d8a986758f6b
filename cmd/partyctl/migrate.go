package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	chatpostgres "github.com/sharetube/watchparty/internal/repository/chat/postgres"
	moviepostgres "github.com/sharetube/watchparty/internal/repository/movie/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the chat and movie tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if err := chatpostgres.NewRepo(db, logger).Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate chat messages: %w", err)
			}
			if err := moviepostgres.NewRepo(db, logger).Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate movies: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
