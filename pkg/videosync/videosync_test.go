package videosync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	time    float64
	seeks   []float64
	playing bool
	speed   float64
}

func (p *fakePlayer) CurrentTime() float64 { return p.time }
func (p *fakePlayer) Seek(s float64)       { p.time = s; p.seeks = append(p.seeks, s) }
func (p *fakePlayer) Play()                { p.playing = true }
func (p *fakePlayer) Pause()               { p.playing = false }
func (p *fakePlayer) SetPlaybackSpeed(s float64) {
	p.speed = s
}

func TestTargetTime(t *testing.T) {
	now := time.UnixMilli(1_000_000)

	paused := State{CurrentTime: 30, LastUpdate: now.UnixMilli() - 5000}
	assert.Equal(t, 30.0, TargetTime(paused, now))

	playing := State{IsPlaying: true, CurrentTime: 30, LastUpdate: now.UnixMilli() - 1500}
	assert.InDelta(t, 31.5, TargetTime(playing, now), 1e-9)
}

func TestNeedsSeek(t *testing.T) {
	tests := []struct {
		local, target float64
		want          bool
	}{
		{100, 100, false},
		{100, 102, false},
		{102, 100, false},
		{100, 102.001, true},
		{100, 97.5, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NeedsSeek(tt.local, tt.target), "local=%v target=%v", tt.local, tt.target)
	}
}

func TestReconcilerApply(t *testing.T) {
	now := time.UnixMilli(10_000)
	player := &fakePlayer{time: 119}
	r := NewReconciler(player).WithClock(func() time.Time { return now })

	res := r.Apply(State{IsPlaying: true, CurrentTime: 120, PlaybackSpeed: 1, LastUpdate: 9_000})
	assert.True(t, res.Applied)
	assert.False(t, res.Seeked, "2s drift is tolerated")
	assert.True(t, player.playing)
	assert.Equal(t, 1.0, player.speed)

	res = r.Apply(State{IsPlaying: true, CurrentTime: 300, PlaybackSpeed: 1, LastUpdate: 9_500})
	assert.True(t, res.Seeked)
	assert.InDelta(t, 300.5, player.time, 1e-9)

	res = r.Apply(State{IsPlaying: false, CurrentTime: 0, LastUpdate: 9_400})
	assert.False(t, res.Applied, "stale updates are ignored")

	res = r.Apply(State{IsPlaying: true, CurrentTime: 300, PlaybackSpeed: 1, LastUpdate: 9_500})
	assert.False(t, res.Applied, "repeated updates are ignored")
	assert.True(t, player.playing)

	r.Apply(State{IsPlaying: false, CurrentTime: 300.5, PlaybackSpeed: 2, LastUpdate: 9_900})
	assert.False(t, player.playing)
	assert.Equal(t, 2.0, player.speed)
	assert.Len(t, player.seeks, 1)
}

func TestReconcilerAppliesUpdatesSharingTimestamp(t *testing.T) {
	now := time.UnixMilli(1_000)
	player := &fakePlayer{}
	r := NewReconciler(player).WithClock(func() time.Time { return now })

	res := r.Apply(State{IsPlaying: false, CurrentTime: 30, PlaybackSpeed: 1, LastUpdate: 1_000})
	require.True(t, res.Applied)
	assert.False(t, player.playing)

	res = r.Apply(State{IsPlaying: true, CurrentTime: 30, PlaybackSpeed: 1, LastUpdate: 1_000})
	assert.True(t, res.Applied)
	assert.True(t, player.playing)
	assert.Equal(t, []float64{30}, player.seeks)
}
