package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sharetube/watchparty/internal/repository/movie"
	moviepostgres "github.com/sharetube/watchparty/internal/repository/movie/postgres"
)

func newMovieCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movie",
		Short: "Manage the movie catalog",
	}
	cmd.AddCommand(newMovieAddCmd())

	return cmd
}

func newMovieAddCmd() *cobra.Command {
	var duration int

	cmd := &cobra.Command{
		Use:   "add <movie-id> <title>",
		Short: "Add a movie to the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			repo := moviepostgres.NewRepo(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if err := repo.CreateMovie(cmd.Context(), &movie.CreateMovieParams{
				MovieID:         args[0],
				Title:           args[1],
				DurationSeconds: duration,
			}); err != nil {
				return fmt.Errorf("failed to add movie: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "movie %s added\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in seconds")

	return cmd
}
