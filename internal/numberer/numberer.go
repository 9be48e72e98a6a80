// Package numberer implements the tab numbering plugin: it keeps every
// tab's display text prefixed with its 1-based position, live across tab
// adds, removals, reorders, switches, and user renames.
package numberer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/c0ffee0wl/tabnum/internal/plugin"
	"github.com/c0ffee0wl/tabnum/internal/title"
	"github.com/c0ffee0wl/tabnum/internal/widget"
)

// rescanInterval is how often the plugin sweeps the host for windows it
// has not seen yet. Bursts of structural events coalesce into this sweep.
const rescanInterval = 5 * time.Second

// Numberer is the plugin instance. One instance is registered per process;
// all state lives here and is released by Unload.
type Numberer struct {
	log zerolog.Logger

	mu sync.Mutex
	// attached maps container ID to that container's subscription cancel
	// func. Presence in the map is the at-most-once attach guarantee.
	attached map[string]func()
	// cancels holds host-level registrations (new-window hook, rescan
	// timer) released on unload.
	cancels []func()
}

// New returns a numberer logging through log.
func New(log zerolog.Logger) *Numberer {
	return &Numberer{
		log:      log,
		attached: make(map[string]func()),
	}
}

// Name returns the plugin registration name.
func (n *Numberer) Name() string { return "tabnumbers" }

// Capabilities returns the plugin's capability tags.
func (n *Numberer) Capabilities() []string { return []string{"tab_numbers"} }

// Init wires the plugin to the host. Initial processing is deferred to an
// idle callback so the host's widget tree is fully built before the first
// scan; after that, new windows and a periodic rescan keep coverage.
func (n *Numberer) Init(h plugin.Host) error {
	h.Idle(func() {
		n.processAll(h)
		n.log.Debug().Msg("initial window scan complete")
	})

	newWin := h.OnNewWindow(func(w widget.Widget) { n.ProcessWindow(w) })
	rescan := h.Every(rescanInterval, func() { n.processAll(h) })

	n.mu.Lock()
	n.cancels = append(n.cancels, newWin, rescan)
	n.mu.Unlock()
	return nil
}

// Unload cancels every subscription and clears the tracking state.
func (n *Numberer) Unload() {
	n.mu.Lock()
	cancels := n.cancels
	n.cancels = nil
	for _, cancel := range n.attached {
		if cancel != nil {
			cancels = append(cancels, cancel)
		}
	}
	n.attached = make(map[string]func())
	n.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	n.log.Debug().Msg("unloaded")
}

// processAll scans every window the host currently has.
func (n *Numberer) processAll(h plugin.Host) {
	defer n.guard("process-all")()
	for _, w := range h.Windows() {
		n.ProcessWindow(w)
	}
}

// ProcessWindow finds the tab containers under a top-level window and
// attaches to each.
func (n *Numberer) ProcessWindow(w widget.Widget) {
	defer n.guard("process-window")()
	for _, c := range widget.FindTabContainers(w, n.log) {
		n.AttachTo(c)
	}
}

// AttachTo subscribes to a container's change events and applies
// numbering. Idempotent: a container already attached is only renumbered,
// never subscribed a second time.
func (n *Numberer) AttachTo(c widget.TabContainer) {
	defer n.guard("attach")()

	id := c.ID()
	n.mu.Lock()
	_, seen := n.attached[id]
	if !seen {
		// Reserve the slot before subscribing so a synchronous event from
		// Subscribe cannot re-enter and double-subscribe.
		n.attached[id] = nil
	}
	n.mu.Unlock()

	if !seen {
		cancel := c.Subscribe(func(ev widget.Event) { n.handleEvent(c, ev) })
		n.mu.Lock()
		if _, still := n.attached[id]; still {
			n.attached[id] = cancel
		} else {
			// Unloaded while subscribing; drop the subscription again.
			n.mu.Unlock()
			cancel()
			return
		}
		n.mu.Unlock()
		n.log.Debug().Str("container", id).Msg("attached to tab container")
	}

	n.Renumber(c)
}

// Renumber rewrites every tab's display text to "<position+1>: <base>",
// in position order. Identical text is never rewritten, which both avoids
// notification storms and guarantees that reentrant writes settle. A tab
// whose label cannot be read or written is skipped; the rest are still
// numbered.
func (n *Numberer) Renumber(c widget.TabContainer) {
	defer n.guard("renumber")()

	count := c.Count()
	for i := 0; i < count; i++ {
		current, err := c.Title(i)
		if err != nil {
			n.log.Debug().Err(err).Int("tab", i).Msg("skipping tab without readable label")
			continue
		}
		want := title.Numbered(i, current)
		if want == current {
			continue
		}
		if err := c.SetTitle(i, want, false); err != nil {
			n.log.Debug().Err(err).Int("tab", i).Msg("could not rewrite tab label")
		}
	}
}

func (n *Numberer) handleEvent(c widget.TabContainer, ev widget.Event) {
	defer n.guard("event")()
	n.log.Debug().Stringer("event", ev.Kind).Int("index", ev.Index).Str("container", c.ID()).Msg("container event")

	switch ev.Kind {
	case widget.TabAdded, widget.TabRemoved, widget.TabReordered:
		n.Renumber(c)
	case widget.TabSwitched:
		// Positions do not change on switch; renumber anyway in case
		// external code altered a title since the last pass.
		n.Renumber(c)
	case widget.LabelEdited:
		n.renumberEdited(c, ev.Index)
	}
}

// renumberEdited re-applies the prefix to a freshly edited label so the
// user's text becomes the new base title. The write carries the user flag
// so hosts tracking title provenance keep the title marked as customized.
func (n *Numberer) renumberEdited(c widget.TabContainer, i int) {
	if i < 0 || i >= c.Count() {
		n.Renumber(c)
		return
	}
	current, err := c.Title(i)
	if err != nil {
		n.log.Debug().Err(err).Int("tab", i).Msg("edited tab has no readable label")
		return
	}
	want := title.Numbered(i, current)
	if want == current {
		return
	}
	if err := c.SetTitle(i, want, true); err != nil {
		n.log.Debug().Err(err).Int("tab", i).Msg("could not rewrite edited label")
	}
}

// guard returns a deferred recovery handler: any panic out of a host
// interface call is logged and the operation degrades to a no-op, so a
// misbehaving widget never crashes the host event loop.
func (n *Numberer) guard(op string) func() {
	return func() {
		if r := recover(); r != nil {
			n.log.Error().Str("op", op).Interface("panic", r).Msg("recovered from host interface failure")
		}
	}
}
