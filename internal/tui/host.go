// Package tui is the demo host: a small tab-bar application whose tabs
// can be added, closed, reordered, switched, and renamed interactively.
// The numbering plugin attaches to it through the same host contract an
// external application would use; all tab mutation goes through the
// container so subscribers observe events.
package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/c0ffee0wl/tabnum/internal/widget"
)

// tab is one tab's state. custom marks a user-chosen title, set through
// the SetTitle user flag.
type tab struct {
	title  string
	custom bool
}

// Container implements widget.TabContainer over the application's tab
// strip. The model mutates tabs exclusively through its methods, which
// emit the corresponding events.
type Container struct {
	log zerolog.Logger

	tabs   []tab
	active int

	subs   map[int]func(widget.Event)
	nextID int
}

// NewContainer returns a container pre-populated with the given titles.
func NewContainer(titles []string, log zerolog.Logger) *Container {
	c := &Container{log: log, subs: make(map[int]func(widget.Event))}
	for _, t := range titles {
		c.tabs = append(c.tabs, tab{title: t})
	}
	return c
}

// ID returns the container handle; the demo has exactly one container.
func (c *Container) ID() string { return "demo-tabs" }

// Count returns the number of tabs.
func (c *Container) Count() int { return len(c.tabs) }

// Title returns the display text of the tab at position i.
func (c *Container) Title(i int) (string, error) {
	if i < 0 || i >= len(c.tabs) {
		return "", fmt.Errorf("tab %d out of range (have %d)", i, len(c.tabs))
	}
	return c.tabs[i].title, nil
}

// SetTitle rewrites a tab's display text. It does not emit events: writes
// land on the next render, and only host-originated changes (signals, in
// the original's terms) notify subscribers.
func (c *Container) SetTitle(i int, text string, user bool) error {
	if i < 0 || i >= len(c.tabs) {
		return fmt.Errorf("tab %d out of range (have %d)", i, len(c.tabs))
	}
	c.tabs[i].title = text
	if user {
		c.tabs[i].custom = true
	}
	return nil
}

// Subscribe registers fn for structural and label events.
func (c *Container) Subscribe(fn func(widget.Event)) (cancel func()) {
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Container) emit(ev widget.Event) {
	c.log.Debug().Stringer("event", ev.Kind).Int("index", ev.Index).Msg("emitting")
	for _, fn := range c.subs {
		fn(ev)
	}
}

// Active returns the focused tab position.
func (c *Container) Active() int { return c.active }

// Titles returns a copy of the current display texts in position order.
func (c *Container) Titles() []string {
	titles := make([]string, len(c.tabs))
	for i, t := range c.tabs {
		titles[i] = t.title
	}
	return titles
}

// AddTab appends a tab with the host's default title and focuses it.
func (c *Container) AddTab(title string) {
	c.tabs = append(c.tabs, tab{title: title})
	c.active = len(c.tabs) - 1
	c.emit(widget.Event{Kind: widget.TabAdded, Index: c.active})
}

// CloseTab removes the tab at position i. The last remaining tab cannot
// be closed.
func (c *Container) CloseTab(i int) {
	if i < 0 || i >= len(c.tabs) || len(c.tabs) == 1 {
		return
	}
	c.tabs = append(c.tabs[:i], c.tabs[i+1:]...)
	if c.active >= len(c.tabs) {
		c.active = len(c.tabs) - 1
	}
	c.emit(widget.Event{Kind: widget.TabRemoved, Index: i})
}

// MoveTab swaps the tab at position i with its neighbor in direction d
// (-1 or +1).
func (c *Container) MoveTab(i, d int) {
	j := i + d
	if i < 0 || i >= len(c.tabs) || j < 0 || j >= len(c.tabs) {
		return
	}
	c.tabs[i], c.tabs[j] = c.tabs[j], c.tabs[i]
	if c.active == i {
		c.active = j
	} else if c.active == j {
		c.active = i
	}
	c.emit(widget.Event{Kind: widget.TabReordered, Index: j})
}

// SwitchBy moves focus d tabs over, wrapping around.
func (c *Container) SwitchBy(d int) {
	if len(c.tabs) == 0 {
		return
	}
	c.active = ((c.active+d)%len(c.tabs) + len(c.tabs)) % len(c.tabs)
	c.emit(widget.Event{Kind: widget.TabSwitched, Index: c.active})
}

// Rename commits a user edit of the tab at position i, like the label
// editor's edit-done signal: the text is applied as a user title, then
// subscribers are told about the edit.
func (c *Container) Rename(i int, text string) {
	if err := c.SetTitle(i, text, true); err != nil {
		return
	}
	c.emit(widget.Event{Kind: widget.LabelEdited, Index: i})
}

// Custom reports whether the tab at position i carries a user-chosen
// title.
func (c *Container) Custom(i int) bool {
	return i >= 0 && i < len(c.tabs) && c.tabs[i].custom
}

// appWindow is the demo's top-level window: a multi-child widget whose
// only child is a frame wrapping the container, so a tree scan exercises
// both child-enumeration capabilities.
type appWindow struct {
	frame frame
}

func (w appWindow) Children() []widget.Widget { return []widget.Widget{w.frame} }

type frame struct {
	container *Container
}

func (f frame) Child() widget.Widget { return f.container }

// Host implements plugin.Host for the demo application. Scheduled work is
// drained on the bubbletea tick, keeping everything on the update
// goroutine.
type Host struct {
	log       zerolog.Logger
	container *Container

	mu     sync.Mutex
	idle   []func()
	every  map[int]*recurring
	newWin map[int]func(widget.Widget)
	nextID int
}

type recurring struct {
	interval time.Duration
	lastRun  time.Time
	fn       func()
}

// NewHost returns a host around a single window holding the container.
func NewHost(c *Container, log zerolog.Logger) *Host {
	return &Host{
		log:       log,
		container: c,
		every:     make(map[int]*recurring),
		newWin:    make(map[int]func(widget.Widget)),
	}
}

// Container returns the demo's tab container.
func (h *Host) Container() *Container { return h.container }

// Windows returns the single demo window.
func (h *Host) Windows() []widget.Widget {
	return []widget.Widget{appWindow{frame: frame{container: h.container}}}
}

// OnNewWindow registers fn; the demo never opens further windows, so fn
// only fires if a future host variant does.
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

// Idle queues fn for the next scheduler drain.
func (h *Host) Idle(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.idle = append(h.idle, fn)
}

// Every runs fn once per d, aligned to scheduler drains.
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

// Drain runs queued idle callbacks and due recurring entries. The model
// calls it from Init and on every tick.
func (h *Host) Drain() {
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
