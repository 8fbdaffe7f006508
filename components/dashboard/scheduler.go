package dashboard

import (
	"sync"
	"time"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay or on a fixed cadence.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// RealScheduler is backed by the runtime timers.
type RealScheduler struct{}

// AfterFunc runs fn once after d.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Every runs fn every d until stopped. Ticks are dropped while fn runs.
func (RealScheduler) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(d),
		quit:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	quit   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) loop(fn func()) {
	for {
		select {
		case <-t.quit:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *tickerTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.quit)
		stopped = true
	})
	return stopped
}

// Intervals configures the controller timers.
type Intervals struct {
	Status        time.Duration
	Initializing  time.Duration
	Opportunities time.Duration
	Retry         time.Duration
	LoadingHide   time.Duration
	AlertTTL      time.Duration
}

// DefaultIntervals returns the production cadence.
func DefaultIntervals() Intervals {
	return Intervals{
		Status:        10 * time.Second,
		Initializing:  2 * time.Second,
		Opportunities: 5 * time.Minute,
		Retry:         5 * time.Second,
		LoadingHide:   3 * time.Second,
		AlertTTL:      5 * time.Second,
	}
}

func (i Intervals) withDefaults() Intervals {
	def := DefaultIntervals()
	if i.Status <= 0 {
		i.Status = def.Status
	}
	if i.Initializing <= 0 {
		i.Initializing = def.Initializing
	}
	if i.Opportunities <= 0 {
		i.Opportunities = def.Opportunities
	}
	if i.Retry <= 0 {
		i.Retry = def.Retry
	}
	if i.LoadingHide <= 0 {
		i.LoadingHide = def.LoadingHide
	}
	if i.AlertTTL <= 0 {
		i.AlertTTL = def.AlertTTL
	}
	return i
}
