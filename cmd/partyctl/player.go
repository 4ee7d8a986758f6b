package main

import (
	"fmt"
	"io"
	"time"
)

// virtualPlayer stands in for a real video element and prints every correction it receives.
type virtualPlayer struct {
	position float64
	anchor   time.Time
	playing  bool
	speed    float64
	now      func() time.Time
	out      io.Writer
}

func newVirtualPlayer(out io.Writer, now func() time.Time) *virtualPlayer {
	return &virtualPlayer{
		speed:  1,
		anchor: now(),
		now:    now,
		out:    out,
	}
}

func (p *virtualPlayer) CurrentTime() float64 {
	if !p.playing {
		return p.position
	}

	return p.position + p.now().Sub(p.anchor).Seconds()*p.speed
}

// settle folds the time played since the last change into position.
func (p *virtualPlayer) settle() {
	p.position = p.CurrentTime()
	p.anchor = p.now()
}

func (p *virtualPlayer) Seek(seconds float64) {
	p.settle()
	fmt.Fprintf(p.out, "seek %.2fs -> %.2fs\n", p.position, seconds)
	p.position = seconds
}

func (p *virtualPlayer) Play() {
	p.settle()
	p.playing = true
	fmt.Fprintf(p.out, "play at %.2fs\n", p.position)
}

func (p *virtualPlayer) Pause() {
	p.settle()
	p.playing = false
	fmt.Fprintf(p.out, "pause at %.2fs\n", p.position)
}

func (p *virtualPlayer) SetPlaybackSpeed(speed float64) {
	p.settle()
	p.speed = speed
	fmt.Fprintf(p.out, "speed %.2fx\n", speed)
}
