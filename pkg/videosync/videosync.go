// Package videosync reconciles a local player with video state broadcast by the party host.
package videosync

import (
	"math"
	"time"
)

// DriftThreshold is the largest difference in seconds tolerated before a forced seek.
const DriftThreshold = 2.0

// State mirrors the video_state_update payload.
type State struct {
	MovieID       string  `json:"movieId"`
	IsPlaying     bool    `json:"isPlaying"`
	CurrentTime   float64 `json:"currentTime"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
	LastUpdate    int64   `json:"lastUpdate"`
}

type Player interface {
	CurrentTime() float64
	Seek(seconds float64)
	Play()
	Pause()
	SetPlaybackSpeed(speed float64)
}

// TargetTime compensates for delivery delay while the host is playing.
func TargetTime(s State, now time.Time) float64 {
	if !s.IsPlaying {
		return s.CurrentTime
	}

	elapsed := float64(now.UnixMilli()-s.LastUpdate) / 1000
	return s.CurrentTime + elapsed
}

func NeedsSeek(local, target float64) bool {
	return math.Abs(target-local) > DriftThreshold
}

type Result struct {
	Applied bool
	Seeked  bool
	Target  float64
}

type Reconciler struct {
	player  Player
	now     func() time.Time
	last    State
	speed   float64
	playing *bool
}

func NewReconciler(player Player) *Reconciler {
	return &Reconciler{
		player: player,
		now:    time.Now,
	}
}

func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Apply brings the player in line with s. Updates older than the last applied one, and repeats
// of it, are ignored. Distinct states stamped in the same millisecond are all applied.
func (r *Reconciler) Apply(s State) Result {
	if s.LastUpdate != 0 && (s.LastUpdate < r.last.LastUpdate || s == r.last) {
		return Result{}
	}
	r.last = s

	res := Result{Applied: true, Target: TargetTime(s, r.now())}
	if NeedsSeek(r.player.CurrentTime(), res.Target) {
		r.player.Seek(res.Target)
		res.Seeked = true
	}

	if s.PlaybackSpeed > 0 && s.PlaybackSpeed != r.speed {
		r.player.SetPlaybackSpeed(s.PlaybackSpeed)
		r.speed = s.PlaybackSpeed
	}

	if r.playing == nil || *r.playing != s.IsPlaying {
		if s.IsPlaying {
			r.player.Play()
		} else {
			r.player.Pause()
		}
		playing := s.IsPlaying
		r.playing = &playing
	}

	return res
}
