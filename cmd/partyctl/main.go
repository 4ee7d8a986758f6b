package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/sharetube/watchparty/pkg/postgresclient"
)

const (
	secretKey      = "secret"
	postgresDSNKey = "postgres-dsn"
	serverURLKey   = "server-url"
)

var rootCmd = &cobra.Command{
	Use:           "partyctl",
	Short:         "Operations tool for the watch party server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String(secretKey, "", "Secret used to sign auth tokens")
	rootCmd.PersistentFlags().String(postgresDSNKey, "", "Postgres connection string")
	rootCmd.PersistentFlags().String(serverURLKey, "ws://localhost:80/api/v1/ws", "Websocket endpoint of the server")

	viper.BindPFlag(secretKey, rootCmd.PersistentFlags().Lookup(secretKey))
	viper.BindPFlag(postgresDSNKey, rootCmd.PersistentFlags().Lookup(postgresDSNKey))
	viper.BindPFlag(serverURLKey, rootCmd.PersistentFlags().Lookup(serverURLKey))

	rootCmd.AddCommand(newTokenCmd(), newMigrateCmd(), newMovieCmd(), newFollowCmd())
}

// initConfig lets SERVER_SECRET and POSTGRES_DSN, shared with the server, fill unset flags.
func initConfig() {
	godotenv.Load()

	viper.BindEnv(secretKey, "SERVER_SECRET")
	viper.BindEnv(postgresDSNKey, "POSTGRES_DSN")
	viper.BindEnv(serverURLKey, "PARTYCTL_SERVER_URL")
}

func openDB() (*gorm.DB, error) {
	dsn := viper.GetString(postgresDSNKey)
	if dsn == "" {
		return nil, fmt.Errorf("%s is required", postgresDSNKey)
	}

	return postgresclient.NewPostgresClient(&postgresclient.Config{DSN: dsn})
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
