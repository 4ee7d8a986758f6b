package domain

type VideoState struct {
	MovieID       string  `json:"movieId"`
	IsPlaying     bool    `json:"isPlaying"`
	CurrentTime   float64 `json:"currentTime"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
	// unix milliseconds
	LastUpdate int64 `json:"lastUpdate"`
}

// VideoStateUpdate is a partial update, nil fields keep their current value.
type VideoStateUpdate struct {
	MovieID       *string
	IsPlaying     *bool
	CurrentTime   *float64
	PlaybackSpeed *float64
}

func NewVideoState(movieID string) VideoState {
	return VideoState{
		MovieID:       movieID,
		IsPlaying:     false,
		CurrentTime:   0,
		PlaybackSpeed: 1,
	}
}

func (v VideoState) merge(u VideoStateUpdate) VideoState {
	if u.MovieID != nil {
		v.MovieID = *u.MovieID
	}
	if u.IsPlaying != nil {
		v.IsPlaying = *u.IsPlaying
	}
	if u.CurrentTime != nil {
		v.CurrentTime = *u.CurrentTime
	}
	if u.PlaybackSpeed != nil {
		v.PlaybackSpeed = *u.PlaybackSpeed
	}

	return v
}
