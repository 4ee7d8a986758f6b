package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharetube/watchparty/internal/protocol"
	"github.com/sharetube/watchparty/pkg/videosync"
)

type serverMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newFollowCmd() *cobra.Command {
	var (
		token      string
		inviteCode string
	)

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Join a party and follow its playback with a virtual player",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, _, err := websocket.DefaultDialer.DialContext(ctx, viper.GetString(serverURLKey), nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer conn.Close()

			go func() {
				<-ctx.Done()
				conn.Close()
			}()

			if err := conn.WriteJSON(protocol.Input{Type: protocol.TypeAuth, Payload: protocol.AuthInput{Token: token}}); err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			out := cmd.OutOrStdout()
			reconciler := videosync.NewReconciler(newVirtualPlayer(out, time.Now))

			for {
				var msg serverMessage
				if err := conn.ReadJSON(&msg); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("connection lost: %w", err)
				}

				switch msg.Type {
				case protocol.TypeAuthSuccess:
					if err := conn.WriteJSON(protocol.Input{
						Type:    protocol.TypeJoinParty,
						Payload: protocol.JoinPartyInput{InviteCode: inviteCode},
					}); err != nil {
						return fmt.Errorf("failed to join: %w", err)
					}
				case protocol.TypeAuthError, protocol.TypeError:
					var e protocol.ErrorOutput
					json.Unmarshal(msg.Payload, &e)
					fmt.Fprintf(out, "%s: %s\n", msg.Type, e.Message)
				case protocol.TypePartyJoined:
					var party struct {
						RoomName   string          `json:"roomName"`
						VideoState videosync.State `json:"videoState"`
					}
					json.Unmarshal(msg.Payload, &party)
					fmt.Fprintf(out, "joined %q\n", party.RoomName)
					reconciler.Apply(party.VideoState)
				case protocol.TypeVideoStateUpdate:
					var state videosync.State
					if err := json.Unmarshal(msg.Payload, &state); err != nil {
						continue
					}
					if res := reconciler.Apply(state); res.Applied {
						fmt.Fprintf(out, "state movie=%s playing=%t target=%.2fs seeked=%t\n",
							state.MovieID, state.IsPlaying, res.Target, res.Seeked)
					}
				case protocol.TypeChatMessage:
					var m protocol.ChatMessageOutput
					json.Unmarshal(msg.Payload, &m)
					fmt.Fprintf(out, "<%s> %s\n", m.Username, m.Content)
				case protocol.TypeUserKicked, protocol.TypePartyEnded:
					fmt.Fprintf(out, "%s: %s\n", msg.Type, msg.Payload)
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Auth token, see the token command")
	cmd.Flags().StringVar(&inviteCode, "invite-code", "", "Invite code of the party to follow")
	cmd.MarkFlagRequired("token")
	cmd.MarkFlagRequired("invite-code")

	return cmd
}
