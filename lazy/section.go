// Package lazy implements visibility-gated sections: a skeleton placeholder is shown
// until the section is scrolled into view, then the real content is mounted once.
package lazy

import (
	"sync"
	"time"
)

const defaultPlaceholderHeight = 320

// Options configures a lazy section.
type Options struct {
	// Threshold is the visible fraction (0-1) that triggers mounting.
	Threshold float64
	// Delay postpones mounting after the threshold is crossed.
	Delay time.Duration
	// PlaceholderHeight is the skeleton height in pixels.
	PlaceholderHeight int
}

func (o Options) normalized() Options {
	if o.Threshold < 0 {
		o.Threshold = 0
	}
	if o.Threshold > 1 {
		o.Threshold = 1
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.PlaceholderHeight <= 0 {
		o.PlaceholderHeight = defaultPlaceholderHeight
	}
	return o
}

// Observer reports the visible ratio of a section until disconnected.
type Observer interface {
	Observe(onChange func(ratio float64)) (disconnect func())
}

// Section mounts its content at most once and never unmounts it.
type Section struct {
	opts    Options
	onMount func()

	mu         sync.Mutex
	mounted    bool
	closed     bool
	timer      *time.Timer
	disconnect func()
}

// New starts observing. A nil observer means visibility cannot be detected, in which
// case the section mounts immediately rather than staying hidden.
func New(opts Options, observer Observer, onMount func()) *Section {
	s := &Section{opts: opts.normalized(), onMount: onMount}

	if observer == nil {
		s.mu.Lock()
		fire := s.mountLocked()
		s.mu.Unlock()
		fire()
		return s
	}

	disconnect := observer.Observe(s.intersect)

	s.mu.Lock()
	if s.mounted || s.closed {
		s.mu.Unlock()
		if disconnect != nil {
			disconnect()
		}
		return s
	}
	s.disconnect = disconnect
	s.mu.Unlock()
	return s
}

func (s *Section) Options() Options {
	return s.opts
}

func (s *Section) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Close disposes the observer and any pending delay timer. A section closed before
// mounting never mounts; a mounted section stays mounted.
func (s *Section) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	disconnect := s.disconnect
	s.disconnect = nil
	s.mu.Unlock()

	if disconnect != nil {
		disconnect()
	}
}

func (s *Section) intersect(ratio float64) {
	s.mu.Lock()
	if s.mounted || s.closed || s.timer != nil || ratio <= 0 || ratio < s.opts.Threshold {
		s.mu.Unlock()
		return
	}

	if s.opts.Delay > 0 {
		s.timer = time.AfterFunc(s.opts.Delay, s.fire)
		s.mu.Unlock()
		return
	}

	fire := s.mountLocked()
	s.mu.Unlock()
	fire()
}

func (s *Section) fire() {
	s.mu.Lock()
	if s.mounted || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	fire := s.mountLocked()
	s.mu.Unlock()
	fire()
}

// mountLocked flips the state and returns the callbacks to run once the lock is released.
func (s *Section) mountLocked() func() {
	s.mounted = true
	disconnect := s.disconnect
	s.disconnect = nil
	onMount := s.onMount

	return func() {
		if disconnect != nil {
			disconnect()
		}
		if onMount != nil {
			onMount()
		}
	}
}
