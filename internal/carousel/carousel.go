// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package carousel rotates the landing page projects on a fixed interval.
//
// One Carousel serves the whole process: every visitor sees the same slide,
// and a navigation request from any visitor moves it for all of them.
package carousel

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dreamcore/site/internal/model"
)

// DefaultInterval is the time each project stays on screen.
const DefaultInterval = 8 * time.Second

// ErrIndexOutOfRange is returned by Jump for an index outside the list.
var ErrIndexOutOfRange = errors.New("carousel: index out of range")

// State is a snapshot of the carousel.
type State struct {
	Projects []model.Project `json:"projects"`
	Index    int             `json:"index"`
	Current  model.Project   `json:"current"`
	Fallback bool            `json:"fallback"`
}

// Carousel holds an ordered project list and the index on screen. The index
// advances on a timer, and every manual move restarts the timer.
type Carousel struct {
	interval time.Duration
	fallback []model.Project
	logger   *slog.Logger

	mu         sync.Mutex
	projects   []model.Project
	usingFall  bool
	index      int
	cron       *cron.Cron
	entry      cron.EntryID
	running    bool
	generation uint64
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithInterval sets the auto-advance interval. Values under a second are
// raised to one second.
func WithInterval(d time.Duration) Option {
	return func(c *Carousel) {
		if d > 0 {
			c.interval = max(d, time.Second)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Carousel) { c.logger = logger }
}

// New creates a stopped carousel showing fallback.
func New(fallback []model.Project, opts ...Option) *Carousel {
	c := &Carousel{
		interval:  DefaultInterval,
		fallback:  slices.Clone(fallback),
		logger:    slog.Default(),
		usingFall: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.projects = c.fallback
	c.cron = cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger)))
	return c
}

// Start begins auto-advancing.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.schedule()
	c.cron.Start()
}

// Stop cancels the timer and waits for a running advance to finish.
func (c *Carousel) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cron.Remove(c.entry)
	c.mu.Unlock()

	<-c.cron.Stop().Done()
}

// SetProjects replaces the list. An empty list shows the fallback projects.
// When the length changes the index is clamped and the timer restarts.
func (c *Carousel) SetProjects(projects []model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, fallback := projects, false
	if len(next) == 0 {
		next, fallback = c.fallback, true
	}

	resized := len(next) != len(c.projects)
	c.projects = slices.Clone(next)
	c.usingFall = fallback
	if c.index >= len(c.projects) {
		c.index = max(len(c.projects)-1, 0)
	}
	if resized {
		c.logger.Debug("carousel projects replaced", "count", len(c.projects), "fallback", fallback)
		c.schedule()
	}
}

// Next moves to the following project, wrapping to the first.
func (c *Carousel) Next() State {
	return c.move(1)
}

// Prev moves to the previous project, wrapping to the last.
func (c *Carousel) Prev() State {
	return c.move(-1)
}

// Jump moves to index i.
func (c *Carousel) Jump(i int) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.projects) {
		return c.state(), ErrIndexOutOfRange
	}
	c.index = i
	c.schedule()
	return c.state(), nil
}

// State returns the current snapshot.
func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// Interval returns the auto-advance interval.
func (c *Carousel) Interval() time.Duration {
	return c.interval
}

func (c *Carousel) move(step int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = wrap(c.index+step, len(c.projects))
	c.schedule()
	return c.state()
}

// advance is the timer job. A tick scheduled before the latest restart is
// ignored.
func (c *Carousel) advance(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || generation != c.generation {
		return
	}
	c.index = wrap(c.index+1, len(c.projects))
}

// schedule replaces the timer entry so the next advance is a full interval
// away. Callers hold c.mu.
func (c *Carousel) schedule() {
	if !c.running {
		return
	}
	if c.entry != 0 {
		c.cron.Remove(c.entry)
	}
	c.generation++
	gen := c.generation
	c.entry = c.cron.Schedule(cron.Every(c.interval), cron.FuncJob(func() {
		c.advance(gen)
	}))
}

func (c *Carousel) state() State {
	s := State{
		Projects: slices.Clone(c.projects),
		Index:    c.index,
		Fallback: c.usingFall,
	}
	if len(c.projects) > 0 {
		s.Current = c.projects[c.index]
	}
	return s
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
