package controller

import (
	"context"

	"github.com/sharetube/watchparty/internal/protocol"
	"github.com/sharetube/watchparty/internal/service/chat"
	"github.com/sharetube/watchparty/internal/service/playback"
)

func (c controller) handlePlay(ctx context.Context, cl *client, input protocol.TimeInput) error {
	return c.playbackService.Play(ctx, &playback.PlayParams{
		Peer:        cl,
		CurrentTime: input.CurrentTime,
	})
}

func (c controller) handlePause(ctx context.Context, cl *client, input protocol.TimeInput) error {
	return c.playbackService.Pause(ctx, &playback.PauseParams{
		Peer:        cl,
		CurrentTime: input.CurrentTime,
	})
}

func (c controller) handleSeek(ctx context.Context, cl *client, input protocol.SeekInput) error {
	return c.playbackService.Seek(ctx, &playback.SeekParams{
		Peer:        cl,
		CurrentTime: input.CurrentTime,
	})
}

func (c controller) handleChangeSpeed(ctx context.Context, cl *client, input protocol.ChangeSpeedInput) error {
	return c.playbackService.ChangeSpeed(ctx, &playback.ChangeSpeedParams{
		Peer:  cl,
		Speed: input.Speed,
	})
}

func (c controller) handleChangeMovie(ctx context.Context, cl *client, input protocol.ChangeMovieInput) error {
	return c.playbackService.ChangeMovie(ctx, &playback.ChangeMovieParams{
		Peer:    cl,
		MovieID: input.MovieID,
	})
}

func (c controller) handleChatMessage(ctx context.Context, cl *client, input protocol.ChatMessageInput) error {
	_, err := c.chatService.SendMessage(ctx, &chat.SendMessageParams{
		Peer:    cl,
		Content: input.Content,
	})
	return err
}
