package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharetube/watchparty/internal/service/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		userID   string
		username string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an auth token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := viper.GetString(secretKey)
			if secret == "" {
				return fmt.Errorf("%s is required", secretKey)
			}
			if userID == "" {
				userID = uuid.NewString()
			}
			if username == "" {
				username = userID
			}

			token, err := auth.NewService(secret).Issue(auth.Identity{
				UserID:   userID,
				Username: username,
			}, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "User id, generated when empty")
	cmd.Flags().StringVar(&username, "username", "", "Display name, defaults to the user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
