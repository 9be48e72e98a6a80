package tmuxtabs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/c0ffee0wl/tabnum/internal/widget"
)

// sessionWindow is the top-level widget for one tmux session. The single
// child is the session's tab container.
type sessionWindow struct {
	container *Container
}

func (w sessionWindow) Child() widget.Widget { return w.container }

// recurring is one Every registration.
type recurring struct {
	interval time.Duration
	lastRun  time.Time
	fn       func()
}

// Host implements plugin.Host over a tmux server. All plugin callbacks run
// on the poll goroutine; Tick drives one full cycle (session discovery,
// window polling, scheduled work), and Run repeats it on the configured
// interval until the context is cancelled.
type Host struct {
	log      zerolog.Logger
	interval time.Duration

	mu         sync.Mutex
	sessions   map[string]*Container
	order      []string
	newWin     map[int]func(widget.Widget)
	idle       []func()
	every      map[int]*recurring
	nextID     int
}

// NewHost returns a host polling the surrounding tmux server every
// interval.
func NewHost(interval time.Duration, log zerolog.Logger) *Host {
	return &Host{
		log:      log,
		interval: interval,
		sessions: make(map[string]*Container),
		newWin:   make(map[int]func(widget.Widget)),
		every:    make(map[int]*recurring),
	}
}

// Windows returns one top-level window per known session.
func (h *Host) Windows() []widget.Widget {
	h.mu.Lock()
	defer h.mu.Unlock()
	windows := make([]widget.Widget, 0, len(h.order))
	for _, name := range h.order {
		windows = append(windows, sessionWindow{container: h.sessions[name]})
	}
	return windows
}

// OnNewWindow registers fn for sessions appearing after the registration.
func (h *Host) OnNewWindow(fn func(widget.Widget)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.newWin[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.newWin, id)
	}
}

// Idle queues fn to run at the end of the next tick.
func (h *Host) Idle(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.idle = append(h.idle, fn)
}

// Every runs fn once per d, aligned to tick boundaries.
func (h *Host) Every(d time.Duration, fn func()) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.every[id] = &recurring{interval: d, lastRun: time.Now(), fn: fn}
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.every, id)
	}
}

// Container returns the container for the named session, or nil.
func (h *Host) Container(session string) *Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[session]
}

// Containers returns the known session containers in name order.
func (h *Host) Containers() []*Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	containers := make([]*Container, 0, len(h.order))
	for _, name := range h.order {
		containers = append(containers, h.sessions[name])
	}
	return containers
}

// Tick runs one poll cycle: discover sessions, poll each session's
// windows, then drain scheduled work. Individual failures are logged and
// the cycle continues.
func (h *Host) Tick() {
	h.refreshSessions()

	for _, c := range h.Containers() {
		if err := c.poll(); err != nil {
			h.log.Debug().Err(err).Str("container", c.ID()).Msg("poll failed")
		}
	}

	h.runScheduled()
}

// Run ticks until ctx is cancelled.
func (h *Host) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Tick()
		}
	}
}

// refreshSessions reconciles the session set with the server, announcing
// new sessions to OnNewWindow subscribers and dropping vanished ones.
func (h *Host) refreshSessions() {
	names, err := listSessions()
	if err != nil {
		h.log.Debug().Err(err).Msg("could not list sessions")
		return
	}
	sort.Strings(names)

	current := make(map[string]bool, len(names))
	for _, name := range names {
		current[name] = true
	}

	var announced []widget.Widget

	h.mu.Lock()
	for _, name := range names {
		if _, ok := h.sessions[name]; ok {
			continue
		}
		c := newContainer(name, h.log)
		h.sessions[name] = c
		announced = append(announced, sessionWindow{container: c})
		h.log.Debug().Str("session", name).Msg("session appeared")
	}
	for name := range h.sessions {
		if !current[name] {
			delete(h.sessions, name)
			h.log.Debug().Str("session", name).Msg("session gone")
		}
	}
	h.order = names

	handlers := make([]func(widget.Widget), 0, len(h.newWin))
	for _, fn := range h.newWin {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, w := range announced {
		for _, fn := range handlers {
			fn(w)
		}
	}
}

// runScheduled drains the idle queue and fires due recurring entries.
func (h *Host) runScheduled() {
	h.mu.Lock()
	queued := h.idle
	h.idle = nil
	now := time.Now()
	var due []func()
	for _, r := range h.every {
		if now.Sub(r.lastRun) >= r.interval {
			r.lastRun = now
			due = append(due, r.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
	for _, fn := range due {
		fn()
	}
}
