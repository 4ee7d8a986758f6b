package playback

import "github.com/sharetube/watchparty/internal/domain"

// PlayParams and PauseParams keep the current time when CurrentTime is nil.
type PlayParams struct {
	Peer        domain.Peer
	CurrentTime *float64
}

type PauseParams struct {
	Peer        domain.Peer
	CurrentTime *float64
}

type SeekParams struct {
	Peer        domain.Peer
	CurrentTime *float64
}

type ChangeSpeedParams struct {
	Peer  domain.Peer
	Speed float64
}

type ChangeMovieParams struct {
	Peer    domain.Peer
	MovieID string
}
