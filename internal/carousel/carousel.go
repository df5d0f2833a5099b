// Package carousel rotates through a fixed number of slides on a timer.
// Manual navigation pauses the rotation, which resumes after a quiet period.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultInterval    = 4 * time.Second
	DefaultResumeDelay = 10 * time.Second
)

var ErrIndexOutOfRange = errors.New("slide index out of range")

// State is a point-in-time view of the carousel.
type State struct {
	Index   int  `json:"index"`
	Size    int  `json:"size"`
	Playing bool `json:"playing"`
}

type Option func(*Carousel)

// WithInterval sets the auto-advance period.
func WithInterval(d time.Duration) Option {
	return func(c *Carousel) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithResumeDelay sets how long auto-play stays paused after manual navigation.
func WithResumeDelay(d time.Duration) Option {
	return func(c *Carousel) {
		if d > 0 {
			c.resumeDelay = d
		}
	}
}

// WithOnAdvance registers fn to be called with the new index whenever the current slide changes.
// fn runs outside the carousel's lock and may call its methods.
func WithOnAdvance(fn func(index int)) Option {
	return func(c *Carousel) {
		c.onAdvance = fn
	}
}

// Carousel is safe for concurrent use.
type Carousel struct {
	interval    time.Duration
	resumeDelay time.Duration
	onAdvance   func(int)

	mu        sync.Mutex
	size      int
	index     int
	playing   bool
	stopped   bool
	resume    *time.Timer
	resumeGen uint64

	wake   chan struct{}
	stopCh chan struct{}
}

// New creates a carousel over size slides. Auto-play starts enabled.
func New(size int, opts ...Option) *Carousel {
	c := &Carousel{
		interval:    DefaultInterval,
		resumeDelay: DefaultResumeDelay,
		size:        max(size, 0),
		playing:     true,
		wake:        make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run advances the carousel every interval while auto-play is on.
// It blocks until ctx is cancelled or Stop is called, and always releases its timers.
func (c *Carousel) Run(ctx context.Context) error {
	defer c.Stop()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.stopCh:
			return nil
		case <-c.wake:
			ticker.Reset(c.interval)
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Carousel) tick() {
	c.mu.Lock()
	if !c.playing || c.size == 0 || c.stopped {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % c.size
	idx := c.index
	c.mu.Unlock()
	c.advanced(idx)
}

// Next moves to the following slide, wrapping around.
func (c *Carousel) Next() {
	c.navigate(func() int { return (c.index + 1) % c.size })
}

// Prev moves to the preceding slide, wrapping around.
func (c *Carousel) Prev() {
	c.navigate(func() int { return (c.index - 1 + c.size) % c.size })
}

// GoTo jumps to slide i.
func (c *Carousel) GoTo(i int) error {
	c.mu.Lock()
	size := c.size
	c.mu.Unlock()
	if i < 0 || i >= size {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, size)
	}
	c.navigate(func() int {
		if i >= c.size {
			return c.index
		}
		return i
	})
	return nil
}

// navigate applies a manual move, pauses auto-play and schedules a single resume.
// A newer interaction supersedes the pending resume.
func (c *Carousel) navigate(target func() int) {
	c.mu.Lock()
	if c.size == 0 || c.stopped {
		c.mu.Unlock()
		return
	}
	c.index = target()
	idx := c.index
	c.playing = false
	c.resumeGen++
	gen := c.resumeGen
	if c.resume != nil {
		c.resume.Stop()
	}
	c.resume = time.AfterFunc(c.resumeDelay, func() { c.resumePlay(gen) })
	c.mu.Unlock()
	c.advanced(idx)
}

func (c *Carousel) resumePlay(gen uint64) {
	c.mu.Lock()
	if c.stopped || gen != c.resumeGen {
		c.mu.Unlock()
		return
	}
	c.playing = true
	c.resume = nil
	c.mu.Unlock()
	// the first auto-advance comes a full period after resuming
	c.restartInterval()
}

func (c *Carousel) advanced(idx int) {
	if c.onAdvance != nil {
		c.onAdvance(idx)
	}
}

// SetSize changes the number of slides. The index resets to 0 when it falls out of range.
// A size of zero leaves the carousel idle. A new size restarts the auto-advance interval.
func (c *Carousel) SetSize(n int) {
	n = max(n, 0)
	c.mu.Lock()
	changed := n != c.size
	c.size = n
	if c.index >= c.size {
		c.index = 0
	}
	c.mu.Unlock()
	if changed {
		c.restartInterval()
	}
}

func (c *Carousel) restartInterval() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing && !c.stopped
}

func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Index: c.index, Size: c.size, Playing: c.playing && !c.stopped}
}

// Stop cancels auto-play and any pending resume. It is safe to call more than once.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.resume != nil {
		c.resume.Stop()
		c.resume = nil
	}
	close(c.stopCh)
}
